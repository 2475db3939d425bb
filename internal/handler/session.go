package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"address-resolver/internal/models"
	"address-resolver/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SessionService is the session API the handler depends on
type SessionService interface {
	Open(mode models.DisplayMode) service.SessionView
	View(id string) (service.SessionView, error)
	Delete(id string) error
	Select(id string, place *models.PlaceResult) (models.Outputs, error)
	SelectAddress(ctx context.Context, id, query string) (models.Outputs, error)
	Sync(ctx context.Context, id, coordinates string) (models.Outputs, error)
	SetDisplayMode(id string, mode models.DisplayMode) (models.Outputs, error)
}

// SessionHandler handles address resolution sessions
type SessionHandler struct {
	service SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(svc SessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

type displayModeRequest struct {
	DisplayMode models.DisplayMode `json:"display_mode"`
}

type coordinatesRequest struct {
	Coordinates *string `json:"coordinates"`
}

type addressRequest struct {
	Address string `json:"address"`
}

// Create handles POST /sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req displayModeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	if !validDisplayMode(req.DisplayMode, true) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid display mode"})
		return
	}

	c.JSON(http.StatusCreated, h.service.Open(req.DisplayMode))
}

// Get handles GET /sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	view, err := h.service.View(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetDisplayMode handles PUT /sessions/:id/display-mode
func (h *SessionHandler) SetDisplayMode(c *gin.Context) {
	var req displayModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !validDisplayMode(req.DisplayMode, false) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid display mode"})
		return
	}

	out, err := h.service.SetDisplayMode(c.Param("id"), req.DisplayMode)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Select handles POST /sessions/:id/selection. A JSON null body clears the session
func (h *SessionHandler) Select(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	var place *models.PlaceResult
	if err := json.Unmarshal(body, &place); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	out, err := h.service.Select(c.Param("id"), place)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// SelectAddress handles POST /sessions/:id/address
func (h *SessionHandler) SelectAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field 'address'"})
		return
	}

	out, err := h.service.SelectAddress(c.Request.Context(), c.Param("id"), req.Address)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// SyncCoordinates handles PUT /sessions/:id/coordinates
func (h *SessionHandler) SyncCoordinates(c *gin.Context) {
	var req coordinatesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Coordinates == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field 'coordinates'"})
		return
	}

	out, err := h.service.Sync(c.Request.Context(), c.Param("id"), *req.Coordinates)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func validDisplayMode(mode models.DisplayMode, allowEmpty bool) bool {
	switch mode {
	case models.DisplayFull, models.DisplayHeader, models.DisplayDefault:
		return true
	case "":
		return allowEmpty
	default:
		return false
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrInvalidCoordinates):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid coordinates"})
	case errors.Is(err, service.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer request"})
	case errors.Is(err, service.ErrAddressNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no address found near the specified coordinates"})
	case errors.Is(err, service.ErrForwardUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "address lookup is not configured"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "geocoding provider error"})
	}
}
