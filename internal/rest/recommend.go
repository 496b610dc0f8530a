package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"creatorMarket/domain"
	"creatorMarket/pkg/metrics"
)

type (
	RecommendHandler struct {
		validate         *validator.Validate
		recommendService RecommendService
	}

	RecommendService interface {
		GetRecommendations(ctx context.Context, userID uint, q domain.RecommendationQuery) (*domain.RecommendationSet, string, error)
		Invalidate(ctx context.Context, userID uint) error
		RefreshUser(ctx context.Context, userID uint) error
	}

	RecommendationsQuery struct {
		// comma-separated entity types, e.g. "creator,opportunity"
		Types             string `query:"types"`
		N                 int    `query:"n" validate:"omitempty,min=1,max=50"`
		ExcludeInteracted bool   `query:"exclude_interacted"`
		Refresh           bool   `query:"refresh"`
	}
)

func NewRecommendHandler(svc RecommendService) *RecommendHandler {
	return &RecommendHandler{
		validate:         validator.New(),
		recommendService: svc,
	}
}

// GET /api/v1/recommendations?types=creator,opportunity&n=12
func (h *RecommendHandler) GetRecommendations(c echo.Context) error {
	uidVal := c.Get("user_id")
	userID, ok := uidVal.(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q RecommendationsQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	query := domain.RecommendationQuery{
		Limit:             q.N,
		ExcludeInteracted: q.ExcludeInteracted,
		ForceRefresh:      q.Refresh,
	}
	if q.Types != "" {
		for _, t := range strings.Split(q.Types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				query.Types = append(query.Types, t)
			}
		}
	}

	start := time.Now()
	set, source, err := h.recommendService.GetRecommendations(c.Request().Context(), userID, query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	metrics.RecommendLatency.Observe(time.Since(start).Seconds())
	metrics.RecommendRequests.WithLabelValues(source).Inc()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(set))
}

// POST /api/v1/recommendations/invalidate
func (h *RecommendHandler) Invalidate(c echo.Context) error {
	uidVal := c.Get("user_id")
	userID, ok := uidVal.(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	if err := h.recommendService.Invalidate(c.Request().Context(), userID); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("recommendations invalidated"))
}

// POST /api/v1/admin/recommendations/:id/refresh — force one user's full
// rebuild out of band of the scheduler.
func (h *RecommendHandler) AdminRefresh(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user ID"})
	}

	if err := h.recommendService.RefreshUser(c.Request().Context(), uint(userID)); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("recommendations refreshed"))
}
