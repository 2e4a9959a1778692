package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ResponseMsg struct {
	Message string `json:"message"`
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	log *zap.Logger
}

// NewHealthHandler reports on the durable store when db is set. In-memory
// deployments pass nil.
func NewHealthHandler(db Pinger, log *zap.Logger) *HealthHandler {
	if log == nil {
		log = zap.NewNop()
	}

	return &HealthHandler{db, log}
}

func (h *HealthHandler) Healthcheck(c echo.Context) error {
	if h.db != nil {
		if err := h.db.Ping(c.Request().Context()); err != nil {
			h.log.Warn("Healthcheck failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, ResponseMsg{
				Message: "Storage unavailable",
			})
		}
	}

	return c.JSON(http.StatusOK, ResponseMsg{
		Message: "I'm fine, Thank!",
	})
}
