package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"creatorMarket/business/behavior"
	"creatorMarket/domain"
)

type (
	EventHandler struct {
		validate       *validator.Validate
		captureService CaptureService
	}

	CaptureService interface {
		Submit(ctx context.Context, event domain.BehaviorEvent) error
	}

	EventRequest struct {
		Type       string         `json:"type" validate:"required,oneof=view click search scroll_deep purchase applied like share"`
		TargetID   string         `json:"target_id"`
		TargetType string         `json:"target_type" validate:"required,oneof=creator opportunity partner content"`
		Metadata   map[string]any `json:"metadata"`
		SessionID  string         `json:"session_id"`
		DeviceID   string         `json:"device_id"`
	}
)

func NewEventHandler(svc CaptureService) *EventHandler {
	return &EventHandler{
		validate:       validator.New(),
		captureService: svc,
	}
}

// POST /api/v1/events — persistence is asynchronous; 201 means queued.
func (h *EventHandler) Submit(c echo.Context) error {
	uidVal := c.Get("user_id")
	userID, ok := uidVal.(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	event := domain.BehaviorEvent{
		UserID:     userID,
		Type:       req.Type,
		TargetID:   req.TargetID,
		TargetType: req.TargetType,
		Metadata:   datatypes.JSONMap(req.Metadata),
		SessionID:  req.SessionID,
		DeviceID:   req.DeviceID,
	}

	if err := h.captureService.Submit(c.Request().Context(), event); err != nil {
		if errors.Is(err, behavior.ErrInvalidEvent) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("event accepted"))
}
