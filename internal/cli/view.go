package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/eleven-am/voice-recorder/internal/recorder"
	"github.com/eleven-am/voice-recorder/internal/visualizer"
)

const (
	ansiReset   = "\033[0m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiDim     = "\033[2m"
	ansiClearLn = "\r\033[K"
)

var levelGlyphs = []rune("▁▂▃▄▅▆▇█")

// TerminalView draws the recorder on a single redrawn terminal line.
type TerminalView struct {
	mu        sync.Mutex
	out       io.Writer
	color     bool
	enabled   map[recorder.Control]bool
	recording bool
	timer     string
	status    string
	severity  recorder.Severity
	active    bool
	levels    []float64
}

func NewTerminalView(out io.Writer, color bool, bars int) *TerminalView {
	return &TerminalView{
		out:     out,
		color:   color,
		enabled: map[recorder.Control]bool{recorder.ControlRecord: true},
		timer:   "00:00",
		status:  "Press r to record",
		levels:  make([]float64, bars),
	}
}

var (
	_ recorder.View      = (*TerminalView)(nil)
	_ visualizer.Display = (*TerminalView)(nil)
)

func (v *TerminalView) SetEnabled(c recorder.Control, enabled bool) {
	v.update(func() { v.enabled[c] = enabled })
}

func (v *TerminalView) SetRecording(active bool) {
	v.update(func() { v.recording = active })
}

func (v *TerminalView) SetTimerText(text string) {
	v.update(func() { v.timer = text })
}

func (v *TerminalView) SetStatus(message string, severity recorder.Severity) {
	v.update(func() {
		v.status = message
		v.severity = severity
	})
}

func (v *TerminalView) SetActive(active bool) {
	v.update(func() {
		v.active = active
		if !active {
			clear(v.levels)
		}
	})
}

func (v *TerminalView) SetLevels(heights []float64) {
	v.update(func() {
		n := copy(v.levels, heights)
		clear(v.levels[n:])
	})
}

// Finish moves the cursor past the status line.
func (v *TerminalView) Finish() {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprint(v.out, "\r\n")
}

func (v *TerminalView) update(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn()
	fmt.Fprint(v.out, ansiClearLn+v.renderLocked())
}

func (v *TerminalView) Render() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderLocked()
}

func (v *TerminalView) renderLocked() string {
	var b strings.Builder

	if v.recording {
		b.WriteString(v.paint(ansiRed, "● REC"))
	} else {
		b.WriteString("○    ")
	}
	b.WriteString(" ")
	b.WriteString(v.timer)
	b.WriteString(" ")
	b.WriteString(v.meter())
	b.WriteString(" ")

	switch v.severity {
	case recorder.SeverityError:
		b.WriteString(v.paint(ansiRed, v.status))
	case recorder.SeveritySuccess:
		b.WriteString(v.paint(ansiGreen, v.status))
	default:
		b.WriteString(v.status)
	}

	b.WriteString("  ")
	b.WriteString(v.control(recorder.ControlRecord, "[r]ecord"))
	b.WriteString(" ")
	b.WriteString(v.control(recorder.ControlStop, "[s]top"))
	b.WriteString(" ")
	b.WriteString(v.control(recorder.ControlSend, "[u]pload"))
	b.WriteString(" [q]uit")
	return b.String()
}

func (v *TerminalView) meter() string {
	out := make([]rune, len(v.levels))
	for i, h := range v.levels {
		if !v.active {
			out[i] = ' '
			continue
		}
		out[i] = levelGlyph(h)
	}
	return string(out)
}

// levelGlyph maps a bar height in [MinBarHeight, MaxBarHeight] to a block.
func levelGlyph(h float64) rune {
	span := visualizer.MaxBarHeight - visualizer.MinBarHeight
	idx := int((h - visualizer.MinBarHeight) / span * float64(len(levelGlyphs)-1))
	idx = max(0, min(idx, len(levelGlyphs)-1))
	return levelGlyphs[idx]
}

func (v *TerminalView) control(c recorder.Control, label string) string {
	if v.enabled[c] {
		return label
	}
	if v.color {
		return ansiDim + label + ansiReset
	}
	return strings.Repeat("-", len(label))
}

func (v *TerminalView) paint(code, s string) string {
	if !v.color {
		return s
	}
	return code + s + ansiReset
}
