package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/dinescout/internal/domain/discovery"
	apperrors "github.com/yanqian/dinescout/pkg/errors"
)

// Handler wires the HTTP transport to the discovery domain.
type Handler struct {
	discoverySvc discovery.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(discoverySvc discovery.Service, logger *slog.Logger) *Handler {
	return &Handler{
		discoverySvc: discoverySvc,
		logger:       logger.With("component", "http.handler"),
	}
}

// SearchRestaurants runs a discovery search and returns the ranked list.
func (h *Handler) SearchRestaurants(c *gin.Context) {
	var req discovery.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.discoverySvc.Search(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "search_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"), apperrors.IsCode(err, "invalid_coordinates"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "location_not_found"):
			status = http.StatusNotFound
			code = "location_not_found"
		case apperrors.IsCode(err, "geocoding_error"), apperrors.IsCode(err, "places_error"):
			status = http.StatusBadGateway
			code = "provider_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Health reports liveness for the load balancer.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
