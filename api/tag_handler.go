package api

import (
	"net/http"

	"github.com/rpupo63/virtual-closet-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	wardrobe  *services.Wardrobe
}

func newTagHandler(wardrobe *services.Wardrobe) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		wardrobe:  wardrobe,
	}
}

// listTags returns the owner's tags ordered by name
// @Summary List tags
// @Tags Tags
// @Produce json
// @Success 200 {array} models.ClothingTag
// @Router /tags [get]
func (h tagHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.wardrobe.ListTags(r.Context(), ownerID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, tags)
	}
}

// createTag adds a tag
// @Summary Create tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param tag body services.TagInput true "Tag"
// @Success 201 {object} models.ClothingTag
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Conflict - Tag name already used"
// @Router /tags [post]
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.TagInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.wardrobe.CreateTag(r.Context(), ownerID(r.Context()), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, tag)
	}
}

// deleteTag removes a tag and its item links
// @Summary Delete tag
// @Tags Tags
// @Param tagID path string true "Tag ID" format(uuid)
// @Success 204
// @Router /tags/{tagID} [delete]
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := uuidParam(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.wardrobe.DeleteTag(r.Context(), ownerID(r.Context()), tagID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
