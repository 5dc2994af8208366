package api

import (
	"net/http"

	"github.com/rpupo63/virtual-closet-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type preferencesHandler struct {
	responder   Responder
	logger      zerolog.Logger
	preferences *services.Preferences
}

func newPreferencesHandler(preferences *services.Preferences) preferencesHandler {
	logger := log.With().Str("handlerName", "preferencesHandler").Logger()

	return preferencesHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		preferences: preferences,
	}
}

// getPreferences returns saved preferences or the defaults
// @Summary Get preferences
// @Tags Preferences
// @Produce json
// @Success 200 {object} models.UserPreferences
// @Router /preferences [get]
func (h preferencesHandler) getPreferences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefs, err := h.preferences.Get(r.Context(), ownerID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, prefs)
	}
}

// updatePreferences merges and saves preferences
// @Summary Update preferences
// @Tags Preferences
// @Accept json
// @Produce json
// @Param body body services.PreferencesInput true "Preferences"
// @Success 200 {object} models.UserPreferences
// @Failure 400 {object} ErrorResponse
// @Router /preferences [put]
func (h preferencesHandler) updatePreferences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.PreferencesInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		prefs, err := h.preferences.Update(r.Context(), ownerID(r.Context()), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, prefs)
	}
}
