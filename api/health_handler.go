package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	startupTime time.Time
}

func newHealthHandler(startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		startupTime: startupTime,
	}
}

// HealthResponse reports liveness and uptime.
type HealthResponse struct {
	Status        string `json:"status" example:"ok"`
	UptimeSeconds int64  `json:"uptimeSeconds" example:"3600"`
}

// health reports liveness
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var uptime int64
		if !h.startupTime.IsZero() {
			uptime = int64(time.Since(h.startupTime).Seconds())
		}
		h.responder.WriteJSON(w, HealthResponse{Status: "ok", UptimeSeconds: uptime})
	}
}
