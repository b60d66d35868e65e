package handler

import (
	"log/slog"
	"net/http"
	"time"

	"smartqueue/internal/delivery/http/response"
	"smartqueue/internal/domain/entity"
	domainerrors "smartqueue/internal/domain/errors"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/domain/service"
	"smartqueue/internal/errors"
	"smartqueue/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// EstimateHandlerParams holds dependencies for EstimateHandler, injected by Fx.
type EstimateHandlerParams struct {
	fx.In

	Estimator    usecase.TravelEstimator
	EstimateRepo repository.EstimateRepository
	Logger       *slog.Logger
}

// EstimateHandler handles travel-estimate endpoints.
type EstimateHandler struct {
	estimator    usecase.TravelEstimator
	estimateRepo repository.EstimateRepository
	logger       *slog.Logger
}

// NewEstimateHandler is the constructor for EstimateHandler.
func NewEstimateHandler(params EstimateHandlerParams) *EstimateHandler {
	return &EstimateHandler{
		estimator:    params.Estimator,
		estimateRepo: params.EstimateRepo,
		logger:       params.Logger,
	}
}

// ComputeEstimateRequest represents the request body for an on-demand estimate.
type ComputeEstimateRequest struct {
	DestinationID string  `json:"destination_id" validate:"required,uuid"`
	DestLatitude  float64 `json:"dest_latitude" validate:"min=-90,max=90"`
	DestLongitude float64 `json:"dest_longitude" validate:"min=-180,max=180"`
}

// EstimateResponse is the outward view of a travel estimate.
type EstimateResponse struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	DestinationID        string    `json:"destination_id"`
	TravelMinutes        int       `json:"travel_minutes"`
	DistanceKm           float64   `json:"distance_km"`
	TransportMode        string    `json:"transport_mode"`
	SafetyMarginMin      int       `json:"safety_margin_min"`
	RecommendedDeparture time.Time `json:"recommended_departure"`
	EstimatedArrival     time.Time `json:"estimated_arrival"`
	ConfidenceScore      int       `json:"confidence_score"`
	Source               string    `json:"source"`
	DelayRisk            string    `json:"delay_risk"`
	CreatedAt            time.Time `json:"created_at"`
}

// ComputeEstimate runs the estimation pipeline for the caller right now.
func (h *EstimateHandler) ComputeEstimate(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_USER_ID", "User ID must be a UUID")
	}

	var req ComputeEstimateRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid estimate input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	destinationID, err := uuid.Parse(req.DestinationID)
	if err != nil {
		return response.BadRequest(c, "INVALID_DESTINATION_ID", "Destination ID must be a UUID")
	}

	estimate, err := h.estimator.EstimateForUser(
		c.Request().Context(),
		userID, destinationID,
		req.DestLatitude, req.DestLongitude,
		time.Now(),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPositionUnavailable):
			return domainerrors.ErrPositionNotShared
		case errors.Is(err, service.ErrLocalityUnresolved):
			return domainerrors.ErrLocalityUnresolved
		default:
			h.logger.Error("on-demand estimate failed",
				slog.String("user_id", userID.String()),
				slog.Any("error", err),
			)

			return domainerrors.ErrEstimateFailed
		}
	}

	return response.Success(c, http.StatusCreated, toEstimateResponse(estimate, time.Now()), "Estimate computed")
}

// GetLatestEstimate returns the newest stored estimate for a destination.
func (h *EstimateHandler) GetLatestEstimate(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_USER_ID", "User ID must be a UUID")
	}

	destinationID, err := uuid.Parse(c.Param("destinationID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_DESTINATION_ID", "Destination ID must be a UUID")
	}

	estimate, err := h.estimateRepo.FindLatest(c.Request().Context(), userID, destinationID)
	if err != nil {
		return err
	}
	if estimate == nil {
		return domainerrors.ErrEstimateNotFound
	}

	return response.Success(c, http.StatusOK, toEstimateResponse(estimate, time.Now()), "")
}

func toEstimateResponse(e *entity.TravelEstimate, now time.Time) *EstimateResponse {
	return &EstimateResponse{
		ID:                   e.ID.String(),
		UserID:               e.UserID.String(),
		DestinationID:        e.DestinationID.String(),
		TravelMinutes:        e.TravelMinutes,
		DistanceKm:           e.DistanceKm,
		TransportMode:        string(e.TransportMode),
		SafetyMarginMin:      e.SafetyMarginMin,
		RecommendedDeparture: e.RecommendedDeparture,
		EstimatedArrival:     e.EstimatedArrival,
		ConfidenceScore:      e.ConfidenceScore,
		Source:               e.Source,
		DelayRisk:            string(e.DelayRisk(now)),
		CreatedAt:            e.CreatedAt,
	}
}
