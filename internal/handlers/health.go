package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Pinger reports whether a storage backend is reachable
type Pinger func(ctx context.Context) error

// HealthHandler serves GET /health
type HealthHandler struct {
	storage string
	ping    Pinger
}

// NewHealthHandler creates a HealthHandler. ping may be nil for storage that
// cannot fail, such as the in-memory backend.
func NewHealthHandler(storage string, ping Pinger) *HealthHandler {
	return &HealthHandler{storage: storage, ping: ping}
}

func (h *HealthHandler) Check(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.ping(ctx); err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Str("storage", h.storage).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"storage": h.storage,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"storage": h.storage,
	})
}
