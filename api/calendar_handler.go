package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/virtual-closet-backend/calendar"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type calendarHandler struct {
	responder Responder
	logger    zerolog.Logger
	scheduler *services.Scheduler
	now       func() time.Time
}

func newCalendarHandler(scheduler *services.Scheduler) calendarHandler {
	logger := log.With().Str("handlerName", "calendarHandler").Logger()

	return calendarHandler{
		responder: NewResponder(logger),
		logger:    logger,
		scheduler: scheduler,
		now:       time.Now,
	}
}

// AddOutfitRequest schedules an item on a day.
type AddOutfitRequest struct {
	ItemID uuid.UUID `json:"itemId"`
	Date   string    `json:"date" example:"2024-06-14"`
	Notes  *string   `json:"notes,omitempty"`
}

type MoveOutfitRequest struct {
	Date string `json:"date" example:"2024-06-15"`
}

type ReorderOutfitRequest struct {
	Position *int `json:"position"`
}

func requireDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errs.NewMissingRequiredFieldError(field)
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return time.Time{}, errs.NewInvalidFieldError(field, "must be a YYYY-MM-DD date")
	}
	return d, nil
}

// getMonth returns the calendar grid for a month
// @Summary Month grid
// @Description Sunday-first grid of whole weeks covering the month, with each day's outfits in position order
// @Tags Calendar
// @Produce json
// @Param month query string false "Month as YYYY-MM, defaults to the current month"
// @Param nav query string false "prev|next|today applied to month"
// @Success 200 {object} services.MonthView
// @Failure 400 {object} ErrorResponse
// @Router /calendar [get]
func (h calendarHandler) getMonth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := h.now()
		month := calendar.MonthOf(now)
		if raw := r.URL.Query().Get("month"); raw != "" {
			parsed, err := calendar.ParseMonth(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("month", "must be YYYY-MM"))
				return
			}
			month = parsed
		}
		month = calendar.Navigate(month, calendar.Navigation(r.URL.Query().Get("nav")), now)

		view, err := h.scheduler.Month(r.Context(), ownerID(r.Context()), month)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, view)
	}
}

// listOutfits returns outfits for one day or an inclusive range
// @Summary List scheduled outfits
// @Tags Calendar
// @Produce json
// @Param date query string false "Single day YYYY-MM-DD"
// @Param start query string false "Range start YYYY-MM-DD"
// @Param end query string false "Range end YYYY-MM-DD"
// @Success 200 {array} models.CalendarOutfit
// @Failure 400 {object} ErrorResponse
// @Router /calendar/outfits [get]
func (h calendarHandler) listOutfits() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		ctx := r.Context()

		if q.Get("date") != "" {
			day, err := requireDate("date", q.Get("date"))
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			outfits, err := h.scheduler.ListForDate(ctx, ownerID(ctx), day)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			h.responder.WriteJSON(w, outfits)
			return
		}

		start, err := requireDate("start", q.Get("start"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		end, err := requireDate("end", q.Get("end"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		outfits, err := h.scheduler.ListForRange(ctx, ownerID(ctx), start, end)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, outfits)
	}
}

// addOutfit schedules an item on a day, appended after the day's existing outfits
// @Summary Add outfit
// @Tags Calendar
// @Accept json
// @Produce json
// @Param body body AddOutfitRequest true "Outfit"
// @Success 200 {object} ActionResult
// @Failure 400 {object} ActionResult
// @Failure 409 {object} ActionResult "Item already scheduled on that date"
// @Router /calendar/outfits [post]
func (h calendarHandler) addOutfit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddOutfitRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteResult(w, nil, err)
			return
		}
		if req.ItemID == uuid.Nil {
			h.responder.WriteResult(w, nil, errs.NewMissingRequiredFieldError("itemId"))
			return
		}
		day, err := requireDate("date", req.Date)
		if err != nil {
			h.responder.WriteResult(w, nil, err)
			return
		}

		outfit, err := h.scheduler.Add(r.Context(), ownerID(r.Context()), req.ItemID, day, req.Notes)
		if err != nil {
			h.responder.WriteResult(w, nil, err)
			return
		}
		h.responder.WriteResult(w, outfit, nil)
	}
}

// removeOutfit unschedules an outfit; removing an absent outfit succeeds
// @Summary Remove outfit
// @Tags Calendar
// @Produce json
// @Param outfitID path string true "Outfit ID" format(uuid)
// @Success 200 {object} ActionResult
// @Router /calendar/outfits/{outfitID} [delete]
func (h calendarHandler) removeOutfit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outfitID, err := uuidParam(r, "outfitID")
		if err != nil {
			h.responder.WriteResult(w, nil, err)
			return
		}
		err = h.scheduler.Remove(r.Context(), ownerID(r.Context()), outfitID)
		h.responder.WriteResult(w, nil, err)
	}
}

// moveOutfit moves an outfit to another day, placing it last there
// @Summary Move outfit
// @Tags Calendar
// @Accept json
// @Produce json
// @Param outfitID path string true "Outfit ID" format(uuid)
// @Param body body MoveOutfitRequest true "Target day"
// @Success 200 {object} ActionResult
// @Failure 404 {object} ActionResult
// @Router /calendar/outfits/{outfitID}/date [put]
func (h calendarHandler) moveOutfit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outfitID, err := uuidParam(r, "outfitID")
		if err != nil {
			h.responder.WriteResult(w, nil, err)
			return
		}
		var req MoveOutfitRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteResult(w, nil, err)
			return
		}
		day, err := requireDate("date", req.Date)
		if err != nil {
			h.responder.WriteResult(w, nil, err)
			return
		}

		err = h.scheduler.Move(r.Context(), ownerID(r.Context()), outfitID, day)
		h.responder.WriteResult(w, nil, err)
	}
}

// reorderOutfit sets an outfit's position within its day
// @Summary Reorder outfit
// @Tags Calendar
// @Accept json
// @Produce json
// @Param outfitID path string true "Outfit ID" format(uuid)
// @Param body body ReorderOutfitRequest true "New position"
// @Success 200 {object} ActionResult
// @Failure 400 {object} ActionResult
// @Router /calendar/outfits/{outfitID}/position [put]
func (h calendarHandler) reorderOutfit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outfitID, err := uuidParam(r, "outfitID")
		if err != nil {
			h.responder.WriteResult(w, nil, err)
			return
		}
		var req ReorderOutfitRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteResult(w, nil, err)
			return
		}
		if req.Position == nil {
			h.responder.WriteResult(w, nil, errs.NewMissingRequiredFieldError("position"))
			return
		}

		err = h.scheduler.Reorder(r.Context(), ownerID(r.Context()), outfitID, *req.Position)
		h.responder.WriteResult(w, nil, err)
	}
}
