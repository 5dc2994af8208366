package api

import (
	"net/http"

	"github.com/rpupo63/virtual-closet-backend/insights"
	"github.com/rpupo63/virtual-closet-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type insightsHandler struct {
	responder Responder
	logger    zerolog.Logger
	loader    *services.InsightsLoader
}

func newInsightsHandler(loader *services.InsightsLoader) insightsHandler {
	logger := log.With().Str("handlerName", "insightsHandler").Logger()

	return insightsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		loader:    loader,
	}
}

// getReport returns closet statistics
// @Summary Insights report
// @Tags Insights
// @Produce json
// @Param limit query int false "Most-worn list size, default 10"
// @Param months query int false "Monthly activity window, default 6"
// @Success 200 {object} insights.Report
// @Failure 400 {object} ErrorResponse
// @Router /insights [get]
func (h insightsHandler) getReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := intQuery(r, "limit", insights.DefaultMostWornLimit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		months, err := intQuery(r, "months", insights.DefaultMonths)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		report, err := h.loader.Report(r.Context(), ownerID(r.Context()), insights.Options{
			MostWornLimit: limit,
			Months:        months,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, report)
	}
}
