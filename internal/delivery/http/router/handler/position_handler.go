package handler

import (
	"log/slog"
	"net/http"
	"time"

	"smartqueue/internal/delivery/http/response"
	"smartqueue/internal/domain/entity"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/errors"
	"smartqueue/internal/infra/geo"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PositionHandlerParams holds dependencies for PositionHandler, injected by Fx.
type PositionHandlerParams struct {
	fx.In

	PositionRepo repository.PositionRepository
	GeoIndex     *geo.Index
	Logger       *slog.Logger
}

// PositionHandler handles position sharing endpoints.
type PositionHandler struct {
	positionRepo repository.PositionRepository
	geoIndex     *geo.Index
	logger       *slog.Logger
}

// NewPositionHandler is the constructor for PositionHandler.
func NewPositionHandler(params PositionHandlerParams) *PositionHandler {
	return &PositionHandler{
		positionRepo: params.PositionRepo,
		geoIndex:     params.GeoIndex,
		logger:       params.Logger,
	}
}

// UpdatePositionRequest represents the request body for reporting a position.
type UpdatePositionRequest struct {
	Latitude       float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude      float64 `json:"longitude" validate:"min=-180,max=180"`
	AccuracyMeters int     `json:"accuracy_meters" validate:"min=0"`
	TransportMode  string  `json:"transport_mode" validate:"required"`
	SharingEnabled bool    `json:"sharing_enabled"`
}

// PositionResponse is the outward view of a stored position.
type PositionResponse struct {
	UserID            string    `json:"user_id"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	AccuracyMeters    int       `json:"accuracy_meters"`
	TransportMode     string    `json:"transport_mode"`
	SharingEnabled    bool      `json:"sharing_enabled"`
	NearestLocalityID string    `json:"nearest_locality_id,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UpdatePosition upserts the caller's position and recomputes the nearest
// locality in the same write.
func (h *PositionHandler) UpdatePosition(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_USER_ID", "User ID must be a UUID")
	}

	var req UpdatePositionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid position input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	mode := entity.TransportMode(req.TransportMode)
	if !mode.IsValid() {
		return response.BadRequest(c, "INVALID_TRANSPORT_MODE", "Unknown transport mode")
	}

	position := &entity.UserPosition{
		UserID:         userID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AccuracyMeters: req.AccuracyMeters,
		TransportMode:  mode,
		SharingEnabled: req.SharingEnabled,
		UpdatedAt:      time.Now(),
	}

	if locality, err := h.geoIndex.NearestLocality(req.Latitude, req.Longitude); err == nil {
		position.NearestLocalityID = locality.ID
	}

	if err := h.positionRepo.Upsert(c.Request().Context(), position); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toPositionResponse(position), "Position updated")
}

// GetPosition returns the caller's stored position.
func (h *PositionHandler) GetPosition(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_USER_ID", "User ID must be a UUID")
	}

	position, err := h.positionRepo.FindByUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrPositionNotFound) {
			return response.NotFound(c, "POSITION_NOT_FOUND", "No position reported for this user")
		}

		return err
	}

	return response.Success(c, http.StatusOK, toPositionResponse(position), "")
}

// ToggleSharingRequest represents the request body for toggling sharing.
type ToggleSharingRequest struct {
	SharingEnabled bool `json:"sharing_enabled"`
}

// ToggleSharing flips location sharing without moving the position.
func (h *PositionHandler) ToggleSharing(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_USER_ID", "User ID must be a UUID")
	}

	var req ToggleSharingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sharing input")
	}

	position, err := h.positionRepo.FindByUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrPositionNotFound) {
			return response.NotFound(c, "POSITION_NOT_FOUND", "No position reported for this user")
		}

		return err
	}

	position.SharingEnabled = req.SharingEnabled
	position.UpdatedAt = time.Now()

	if err := h.positionRepo.Upsert(c.Request().Context(), position); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toPositionResponse(position), "Sharing updated")
}

func toPositionResponse(p *entity.UserPosition) *PositionResponse {
	resp := &PositionResponse{
		UserID:         p.UserID.String(),
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		AccuracyMeters: p.AccuracyMeters,
		TransportMode:  string(p.TransportMode),
		SharingEnabled: p.SharingEnabled,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.NearestLocalityID != uuid.Nil {
		resp.NearestLocalityID = p.NearestLocalityID.String()
	}

	return resp
}
