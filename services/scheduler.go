package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/virtual-closet-backend/calendar"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Scheduler places clothing items on calendar days. Positions within a day are
// assigned as max+1 and never compacted, so removals leave gaps.
type Scheduler struct {
	outfits CalendarRepository
	items   ItemRepository
	cache   ViewCache
	logger  zerolog.Logger
	now     func() time.Time
}

func NewScheduler(outfits CalendarRepository, items ItemRepository, cache ViewCache) *Scheduler {
	if cache == nil {
		cache = NoopViewCache{}
	}
	return &Scheduler{
		outfits: outfits,
		items:   items,
		cache:   cache,
		logger:  log.With().Str("service", "scheduler").Logger(),
		now:     time.Now,
	}
}

// Add schedules itemID on date and returns the stored entry. Scheduling the
// same item twice on one date fails with errs.ErrDuplicate.
func (s *Scheduler) Add(ctx context.Context, ownerID string, itemID uuid.UUID, date time.Time, notes *string) (*models.CalendarOutfit, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}

	item, err := s.items.Get(ctx, ownerID, itemID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "clothing item", err)
	}
	if item == nil {
		return nil, errs.NewNotFound("clothing item")
	}

	position, err := s.nextPosition(ctx, ownerID, date)
	if err != nil {
		return nil, err
	}

	entry := &models.CalendarOutfit{
		UserID:   ownerID,
		Date:     models.ToDate(date),
		ItemID:   itemID,
		Position: position,
		Notes:    notes,
	}
	if err := s.outfits.Insert(ctx, entry); err != nil {
		if errs.IsDuplicate(err) {
			return nil, errs.NewDuplicateError("calendar outfit", errs.DuplicateOutfitMessage, err)
		}
		return nil, errs.NewDatabaseError("insert", "calendar outfit", err)
	}
	entry.ClothingItem = item

	s.cache.Invalidate(ownerID, ViewCalendar, ViewCloset, ViewInsights)
	s.logger.Debug().
		Str("ownerID", ownerID).
		Str("itemID", itemID.String()).
		Str("date", entry.DateKey()).
		Int("position", position).
		Msg("outfit scheduled")
	return entry, nil
}

// Remove deletes an entry. Removing an absent entry succeeds.
func (s *Scheduler) Remove(ctx context.Context, ownerID string, outfitID uuid.UUID) error {
	if ownerID == "" {
		return errs.NewAuthRequiredError()
	}
	if err := s.outfits.Delete(ctx, ownerID, outfitID); err != nil {
		return errs.NewDatabaseError("delete", "calendar outfit", err)
	}
	s.cache.Invalidate(ownerID, ViewCalendar, ViewInsights)
	return nil
}

// Move reschedules an entry onto newDate at the end of that day's list.
// Other entries keep their positions.
func (s *Scheduler) Move(ctx context.Context, ownerID string, outfitID uuid.UUID, newDate time.Time) error {
	if ownerID == "" {
		return errs.NewAuthRequiredError()
	}

	position, err := s.nextPosition(ctx, ownerID, newDate)
	if err != nil {
		return err
	}
	if err := s.outfits.UpdateDateAndPosition(ctx, ownerID, outfitID, newDate, position); err != nil {
		if errs.IsDuplicate(err) {
			return errs.NewDuplicateError("calendar outfit", errs.DuplicateOutfitMessage, err)
		}
		return errs.NewDatabaseError("move", "calendar outfit", err)
	}

	// Monthly activity buckets by date, so insights move with the entry.
	s.cache.Invalidate(ownerID, ViewCalendar, ViewInsights)
	return nil
}

// Reorder overwrites an entry's position. Positions are display hints and may tie.
func (s *Scheduler) Reorder(ctx context.Context, ownerID string, outfitID uuid.UUID, position int) error {
	if ownerID == "" {
		return errs.NewAuthRequiredError()
	}
	if position < 0 {
		return errs.NewInvalidFieldError("position", "must be greater than or equal to 0")
	}
	if err := s.outfits.UpdatePosition(ctx, ownerID, outfitID, position); err != nil {
		return errs.NewDatabaseError("reorder", "calendar outfit", err)
	}
	s.cache.Invalidate(ownerID, ViewCalendar)
	return nil
}

// ListForDate returns one day's entries ordered by position.
func (s *Scheduler) ListForDate(ctx context.Context, ownerID string, date time.Time) ([]models.CalendarOutfit, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}
	outfits, err := s.outfits.ListForDate(ctx, ownerID, date)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "calendar outfits", err)
	}
	return outfits, nil
}

// ListForRange returns entries between start and end inclusive.
func (s *Scheduler) ListForRange(ctx context.Context, ownerID string, start, end time.Time) ([]models.CalendarOutfit, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}
	if end.Before(start) {
		return nil, errs.NewInvalidFieldError("end", "must not be before start")
	}
	outfits, err := s.outfits.ListForRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "calendar outfits", err)
	}
	return outfits, nil
}

// MonthView is the calendar page payload for one month.
type MonthView struct {
	Month string         `json:"month"`
	Label string         `json:"label"`
	Prev  string         `json:"prev"`
	Next  string         `json:"next"`
	Days  []calendar.Day `json:"days"`
}

// Month builds the grid for m, reusing the cached calendar view when present.
func (s *Scheduler) Month(ctx context.Context, ownerID string, m calendar.Month) (*MonthView, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}

	start, end := calendar.GridRange(m)
	outfits, err := cached(s.cache, ownerID, ViewCalendar, m.String(), func() ([]models.CalendarOutfit, error) {
		return s.ListForRange(ctx, ownerID, start, end)
	})
	if err != nil {
		return nil, err
	}

	return &MonthView{
		Month: m.String(),
		Label: m.Label(),
		Prev:  m.Prev().String(),
		Next:  m.Next().String(),
		Days:  calendar.BuildGrid(m, calendar.GroupByDate(outfits), s.now()),
	}, nil
}

func (s *Scheduler) nextPosition(ctx context.Context, ownerID string, date time.Time) (int, error) {
	existing, err := s.outfits.ListForDate(ctx, ownerID, date)
	if err != nil {
		return 0, errs.NewDatabaseError("list", "calendar outfits", err)
	}
	maxPosition := -1
	for _, o := range existing {
		maxPosition = max(maxPosition, o.Position)
	}
	return maxPosition + 1, nil
}
