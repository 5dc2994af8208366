package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/virtual-closet-backend/calendar"
	"github.com/rpupo63/virtual-closet-backend/closet"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type itemHandler struct {
	responder Responder
	logger    zerolog.Logger
	wardrobe  *services.Wardrobe
	now       func() time.Time
}

func newItemHandler(wardrobe *services.Wardrobe) itemHandler {
	logger := log.With().Str("handlerName", "itemHandler").Logger()

	return itemHandler{
		responder: NewResponder(logger),
		logger:    logger,
		wardrobe:  wardrobe,
		now:       time.Now,
	}
}

// FavoriteRequest sets the favorite flag.
type FavoriteRequest struct {
	IsFavorite *bool `json:"isFavorite"`
}

// WornRequest records a wear; date defaults to today.
type WornRequest struct {
	Date string `json:"date,omitempty" example:"2024-06-14"`
}

// listItems lists the closet, filtered and sorted
// @Summary List clothing items
// @Description Returns the owner's items after applying the filter and sort query parameters
// @Tags Items
// @Produce json
// @Param type query string false "Clothing type"
// @Param season query string false "Season"
// @Param color query string false "Color"
// @Param tags query string false "Comma separated tag ids (any match)"
// @Param search query string false "Case-insensitive search over name, brand and description"
// @Param favorites query bool false "Only favorites"
// @Param sort query string false "newest|oldest|most-worn|least-worn|name-asc|name-desc"
// @Success 200 {object} ItemCollection
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid filter value"
// @Failure 401 {object} ErrorResponse
// @Router /items [get]
func (h itemHandler) listItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, sortKey, err := closet.ParseQuery(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		items, err := h.wardrobe.Browse(r.Context(), ownerID(r.Context()), filter, sortKey)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ItemCollection{Items: items, Total: len(items)})
	}
}

// getItem retrieves one item with its tags
// @Summary Get clothing item
// @Tags Items
// @Produce json
// @Param itemID path string true "Item ID" format(uuid)
// @Success 200 {object} models.ClothingItem
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid itemID"
// @Failure 404 {object} ErrorResponse "Not Found - Item not found"
// @Router /items/{itemID} [get]
func (h itemHandler) getItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.wardrobe.GetItem(r.Context(), ownerID(r.Context()), itemID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, item)
	}
}

// createItem adds an item to the closet
// @Summary Create clothing item
// @Description Validates name, type and image before anything is stored
// @Tags Items
// @Accept json
// @Produce json
// @Param item body services.ItemInput true "Item"
// @Success 201 {object} models.ClothingItem
// @Failure 400 {object} ErrorResponse "Bad Request - Missing or invalid field"
// @Router /items [post]
func (h itemHandler) createItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.ItemInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.wardrobe.CreateItem(r.Context(), ownerID(r.Context()), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, item)
	}
}

// updateItem applies a partial update
// @Summary Update clothing item
// @Tags Items
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID" format(uuid)
// @Param patch body services.ItemPatch true "Fields to change"
// @Success 200 {object} models.ClothingItem
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /items/{itemID} [put]
func (h itemHandler) updateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch services.ItemPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.wardrobe.UpdateItem(r.Context(), ownerID(r.Context()), itemID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, item)
	}
}

// deleteItem removes an item, its tag links, its calendar entries and its image
// @Summary Delete clothing item
// @Tags Items
// @Param itemID path string true "Item ID" format(uuid)
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /items/{itemID} [delete]
func (h itemHandler) deleteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.wardrobe.DeleteItem(r.Context(), ownerID(r.Context()), itemID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// setFavorite sets or clears the favorite flag
// @Summary Set favorite
// @Tags Items
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID" format(uuid)
// @Param body body FavoriteRequest true "Favorite flag"
// @Success 200 {object} models.ClothingItem
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /items/{itemID}/favorite [post]
func (h itemHandler) setFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req FavoriteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.IsFavorite == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("isFavorite"))
			return
		}

		item, err := h.wardrobe.ToggleFavorite(r.Context(), ownerID(r.Context()), itemID, *req.IsFavorite)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, item)
	}
}

// markWorn records one wear
// @Summary Mark item worn
// @Tags Items
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID" format(uuid)
// @Param body body WornRequest false "Day worn"
// @Success 200 {object} models.ClothingItem
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /items/{itemID}/worn [post]
func (h itemHandler) markWorn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req WornRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(w, r, &req); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		day := h.now()
		if req.Date != "" {
			if day, err = calendar.ParseDate(req.Date); err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("date", "must be a YYYY-MM-DD date"))
				return
			}
		}

		item, err := h.wardrobe.MarkWorn(r.Context(), ownerID(r.Context()), itemID, day)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, item)
	}
}

// addTag links a tag to an item
// @Summary Tag item
// @Tags Items
// @Param itemID path string true "Item ID" format(uuid)
// @Param tagID path string true "Tag ID" format(uuid)
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Conflict - Tag already applied"
// @Router /items/{itemID}/tags/{tagID} [post]
func (h itemHandler) addTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		tagID, err := uuidParam(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.wardrobe.TagItem(r.Context(), ownerID(r.Context()), itemID, tagID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// removeTag unlinks a tag from an item
// @Summary Untag item
// @Tags Items
// @Param itemID path string true "Item ID" format(uuid)
// @Param tagID path string true "Tag ID" format(uuid)
// @Success 204
// @Router /items/{itemID}/tags/{tagID} [delete]
func (h itemHandler) removeTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		tagID, err := uuidParam(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.wardrobe.UntagItem(r.Context(), ownerID(r.Context()), itemID, tagID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
