package platform

import (
	"sync"
)

const defaultHistory = 4096

// pcmHub fans captured mono PCM out to encoder subscriptions and keeps a
// ring of recent samples for visualization. publish never blocks; a slow
// subscriber loses frames and the loss is counted.
type pcmHub struct {
	mu      sync.Mutex
	subs    map[int]chan []int16
	nextID  int
	ring    []float32
	pos     int
	filled  bool
	dropped int
	closed  bool
}

func newPCMHub(history int) *pcmHub {
	if history <= 0 {
		history = defaultHistory
	}
	return &pcmHub{
		subs: make(map[int]chan []int16),
		ring: make([]float32, history),
	}
}

func (h *pcmHub) publish(frame []int16) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	for _, s := range frame {
		h.ring[h.pos] = float32(s) / 32768
		h.pos++
		if h.pos == len(h.ring) {
			h.pos = 0
			h.filled = true
		}
	}

	if len(h.subs) == 0 {
		return
	}
	buf := append([]int16(nil), frame...)
	for _, ch := range h.subs {
		select {
		case ch <- buf:
		default:
			h.dropped++
		}
	}
}

// subscribe returns a channel of PCM frames and a cancel func that closes it.
func (h *pcmHub) subscribe(buffer int) (<-chan []int16, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan []int16, buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
}

// LatestSamples copies the most recent samples into dst, oldest first, and
// returns how many were written.
func (h *pcmHub) LatestSamples(dst []float32) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	avail := h.pos
	if h.filled {
		avail = len(h.ring)
	}
	n := min(len(dst), avail)
	start := h.pos - n
	if start < 0 {
		start += len(h.ring)
	}
	for i := range n {
		dst[i] = h.ring[(start+i)%len(h.ring)]
	}
	return n
}

func (h *pcmHub) droppedFrames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// close ends every subscription.
func (h *pcmHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
