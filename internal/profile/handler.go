package profile

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/eleven-am/voice-recorder/internal/dto"
	"github.com/eleven-am/voice-recorder/internal/shared"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.POST("/", h.Create)
	g.GET("", h.List)
	g.GET("/", h.List)
	g.GET("/:id", h.Get)
}

func toResponse(p *Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:          p.ID,
		Name:        p.Name,
		ProfileData: p.ProfileData,
	}
}

// Create godoc
// @Summary      Create a profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CreateProfileRequest  true  "Profile"
// @Success      201      {object}  dto.CreateProfileResponse
// @Failure      400      {object}  shared.APIError
// @Failure      500      {object}  shared.APIError
// @Router       /profiles [post]
func (h *Handler) Create(c echo.Context) error {
	var req dto.CreateProfileRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p := &Profile{
		PhoneNumber: req.PhoneNumber,
		Name:        req.Name,
		ProfileData: req.ProfileData,
	}
	if err := h.store.Create(c.Request().Context(), p); err != nil {
		h.logger.Error("failed to create profile", "error", err)
		return shared.InternalError("create_failed", "failed to create profile")
	}

	return c.JSON(http.StatusCreated, dto.CreateProfileResponse{ID: p.ID})
}

// Get godoc
// @Summary      Get a profile
// @Tags         profiles
// @Produce      json
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  dto.ProfileResponse
// @Failure      404  {object}  shared.APIError
// @Router       /profiles/{id} [get]
func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return shared.NotFound("profile_not_found", "Profile not found")
	}

	p, err := h.store.GetByID(c.Request().Context(), uint(id))
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound("profile_not_found", "Profile not found")
	}
	if err != nil {
		h.logger.Error("failed to get profile", "error", err, "profile_id", id)
		return shared.InternalError("get_failed", "failed to get profile")
	}

	return c.JSON(http.StatusOK, toResponse(p))
}

// List godoc
// @Summary      List profiles
// @Tags         profiles
// @Produce      json
// @Success      200  {array}   dto.ProfileResponse
// @Failure      500  {object}  shared.APIError
// @Router       /profiles [get]
func (h *Handler) List(c echo.Context) error {
	profiles, err := h.store.List(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to list profiles", "error", err)
		return shared.InternalError("list_failed", "failed to list profiles")
	}

	resp := make([]dto.ProfileResponse, len(profiles))
	for i, p := range profiles {
		resp[i] = toResponse(p)
	}
	return c.JSON(http.StatusOK, resp)
}

// BuilderHandler turns free text into profile fields without storing them.
type BuilderHandler struct {
	logger *slog.Logger
}

func NewBuilderHandler(logger *slog.Logger) *BuilderHandler {
	return &BuilderHandler{logger: logger}
}

func (h *BuilderHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/parse", h.Parse)
}

// Parse godoc
// @Summary      Extract profile fields from text
// @Tags         builder
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ParseRequest  true  "Text to parse"
// @Success      200      {object}  map[string]any
// @Failure      400      {object}  shared.APIError
// @Router       /builder/parse [post]
func (h *BuilderHandler) Parse(c echo.Context) error {
	var req dto.ParseRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if req.Text == "" {
		return shared.BadRequest("missing_text", "Missing text")
	}

	return c.JSON(http.StatusOK, Extract(req.Text))
}
