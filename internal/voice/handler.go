package voice

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/eleven-am/voice-recorder/internal/dto"
	"github.com/eleven-am/voice-recorder/internal/metrics"
	"github.com/eleven-am/voice-recorder/internal/profile"
	"github.com/eleven-am/voice-recorder/internal/shared"
	"github.com/eleven-am/voice-recorder/internal/transcription"
	"github.com/labstack/echo/v4"
)

const (
	DefaultMaxUploadBytes = 25 * 1024 * 1024

	transcribeField = "audio"
	uploadField     = "file"
)

const recordPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Voice Recorder</title></head>
<body>
<h1>Voice Recorder</h1>
<p>Record with the <code>recorder</code> command line tool and point it at this server:</p>
<pre>recorder --server %s</pre>
<p>Recordings are sent to <code>POST /voice/transcribe</code>.</p>
</body>
</html>
`

type Handler struct {
	stt       transcription.Transcriber
	profiles  *profile.Store
	metrics   *metrics.Metrics
	maxUpload int64
	logger    *slog.Logger
}

func NewHandler(stt transcription.Transcriber, profiles *profile.Store, m *metrics.Metrics, maxUpload int64, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &Handler{
		stt:       stt,
		profiles:  profiles,
		metrics:   m,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/record", h.Record)
	g.POST("/transcribe", h.Transcribe)
	g.POST("/upload", h.Upload)
}

// Record godoc
// @Summary      Recorder landing page
// @Tags         voice
// @Produce      html
// @Success      200  {string}  string
// @Router       /voice/record [get]
func (h *Handler) Record(c echo.Context) error {
	req := c.Request()
	scheme := c.Scheme()
	return c.HTML(http.StatusOK, fmt.Sprintf(recordPage, scheme+"://"+req.Host))
}

// Transcribe godoc
// @Summary      Transcribe a recording
// @Tags         voice
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio  formData  file  true  "Recorded audio"
// @Success      200    {object}  dto.TranscribeResponse
// @Failure      400    {object}  shared.APIError
// @Failure      413    {object}  shared.APIError
// @Failure      502    {object}  shared.APIError
// @Router       /voice/transcribe [post]
func (h *Handler) Transcribe(c echo.Context) error {
	audio, err := h.readAudio(c, transcribeField)
	if err != nil {
		return err
	}

	text, err := h.transcribe(c, "transcribe", audio)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.TranscribeResponse{Text: text})
}

// Upload godoc
// @Summary      Create a profile from a voice recording
// @Tags         voice
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Recorded audio"
// @Success      201   {object}  dto.UploadResponse
// @Failure      400   {object}  shared.APIError
// @Failure      413   {object}  shared.APIError
// @Failure      500   {object}  shared.APIError
// @Failure      502   {object}  shared.APIError
// @Router       /voice/upload [post]
func (h *Handler) Upload(c echo.Context) error {
	audio, err := h.readAudio(c, uploadField)
	if err != nil {
		return err
	}

	text, err := h.transcribe(c, "upload", audio)
	if err != nil {
		return err
	}

	structured := profile.Extract(text)
	p := &profile.Profile{
		Name:        profile.NameOf(structured),
		ProfileData: structured,
	}
	if err := h.profiles.Create(c.Request().Context(), p); err != nil {
		h.logger.Error("failed to store profile", "error", err)
		return shared.InternalError("create_failed", "failed to create profile")
	}
	if h.metrics != nil {
		h.metrics.RecordProfileCreated()
	}

	h.logger.Info("profile created from voice", "profile_id", p.ID, "bytes", len(audio.Data))

	return c.JSON(http.StatusCreated, dto.UploadResponse{
		Message:    "Profile created successfully",
		ID:         p.ID,
		Transcript: text,
		Structured: structured,
	})
}

func (h *Handler) transcribe(c echo.Context, route string, audio transcription.Audio) (string, error) {
	start := time.Now()
	text, err := h.stt.Transcribe(c.Request().Context(), audio)
	if h.metrics != nil {
		h.metrics.RecordTranscription(route, time.Since(start), err)
	}
	if err != nil {
		h.logger.Error("transcription failed", "route", route, "error", err)
		return "", shared.BadGateway("transcription_failed", err.Error())
	}
	return text, nil
}

func (h *Handler) readAudio(c echo.Context, field string) (transcription.Audio, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if field == uploadField {
			return transcription.Audio{}, shared.BadRequest("missing_file", "No audio file uploaded")
		}
		return transcription.Audio{}, shared.BadRequest("missing_audio", "Missing audio file")
	}
	if fh.Size > h.maxUpload {
		return transcription.Audio{}, shared.RequestTooLarge("file_too_large",
			fmt.Sprintf("audio file exceeds %d bytes", h.maxUpload))
	}

	data, err := readPart(fh)
	if err != nil {
		h.logger.Error("failed to read upload", "field", field, "error", err)
		return transcription.Audio{}, shared.BadRequest("invalid_file", "could not read audio file")
	}
	if h.metrics != nil {
		h.metrics.RecordUpload(int64(len(data)))
	}

	contentType := fh.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return transcription.Audio{
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
