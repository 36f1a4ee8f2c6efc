package service

import (
	"context"
	"time"

	"propshoot/internal/availability/cache"
	"propshoot/pkg/catalog"
	"propshoot/pkg/config"
	apperrors "propshoot/pkg/errors"
	"propshoot/pkg/model"
	"propshoot/pkg/scheduling"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// BookingReader is the slice of the bookings store availability needs.
type BookingReader interface {
	ConfirmedOnDate(ctx context.Context, date string) ([]*model.Booking, error)
	ConfirmedInRange(ctx context.Context, from, to string) ([]*model.Booking, error)
}

// BlockedReader is the slice of the blocked days store availability needs.
type BlockedReader interface {
	BlockedOn(ctx context.Context, date string) (*model.BlockedDay, error)
	BlockedInRange(ctx context.Context, from, to string) ([]*model.BlockedDay, error)
}

type AvailabilityService interface {
	Day(ctx context.Context, date string, duration int) (*scheduling.DayAvailability, error)
	QuoteSlots(ctx context.Context, date string, services model.ServiceSelection) (*QuotedDay, error)
	Month(ctx context.Context, month time.Time) (*scheduling.MonthView, error)
	BaseSlots(ctx context.Context, date string, duration int) ([]model.TimeInterval, error)
	Invalidate(ctx context.Context, date string) error
}

// QuotedDay is a day's availability for the duration of a set of services.
type QuotedDay struct {
	scheduling.DayAvailability
	Duration  int                `json:"duration"`
	WorkHours float64            `json:"work_hours"`
	Items     []catalog.LineItem `json:"items"`
	Price     catalog.Money      `json:"price"`
}

type availabilityService struct {
	bookings BookingReader
	blocked  BlockedReader
	cache    cache.MonthCache
	day      scheduling.WorkingDay
	cfg      *config.Config
	today    func() string
	loads    singleflight.Group
}

func NewAvailabilityService(bookings BookingReader, blocked BlockedReader, monthCache cache.MonthCache, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		bookings: bookings,
		blocked:  blocked,
		cache:    monthCache,
		day:      scheduling.Default(),
		cfg:      cfg,
		today:    cfg.Today,
	}
}

func (s *availabilityService) Day(ctx context.Context, date string, duration int) (*scheduling.DayAvailability, error) {
	d, err := time.Parse(config.DateLayout, date)
	if err != nil {
		return nil, apperrors.InvalidInput("Valid date (YYYY-MM-DD) is required")
	}
	today, err := time.Parse(config.DateLayout, s.today())
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve today", err)
	}

	blocked, err := s.blocked.BlockedOn(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to check blocked day", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	var existing []model.TimeInterval
	if blocked == nil && s.day.OperatesOn(d) {
		bookings, err := s.bookings.ConfirmedOnDate(ctx, date)
		if err != nil {
			s.cfg.Log.Error("Failed to load bookings", "date", date, "error", err)
			return nil, apperrors.Internal("Failed to check availability", err)
		}
		existing = s.intervals(bookings)
	}

	result := scheduling.Evaluate(d, today, blocked, existing, duration, s.day)
	s.cfg.Log.Debug("Availability evaluated",
		"date", date,
		"duration", duration,
		"available", result.Available,
		"reason", result.Reason,
		"slots", len(result.Slots),
	)
	return &result, nil
}

func (s *availabilityService) QuoteSlots(ctx context.Context, date string, services model.ServiceSelection) (*QuotedDay, error) {
	minutes := catalog.Minutes(services)
	day, err := s.Day(ctx, date, minutes)
	if err != nil {
		return nil, err
	}
	return &QuotedDay{
		DayAvailability: *day,
		Duration:        minutes,
		WorkHours:       catalog.WorkHours(minutes),
		Items:           catalog.LineItems(services),
		Price:           catalog.Price(services),
	}, nil
}

// BaseSlots are the slots for one property before sibling coordination.
func (s *availabilityService) BaseSlots(ctx context.Context, date string, duration int) ([]model.TimeInterval, error) {
	if date == "" || duration <= 0 {
		return []model.TimeInterval{}, nil
	}
	day, err := s.Day(ctx, date, duration)
	if err != nil {
		return nil, err
	}
	return day.Slots, nil
}

// Month serves the calendar from cache and rebuilds it at most once per
// month across concurrent misses.
func (s *availabilityService) Month(ctx context.Context, month time.Time) (*scheduling.MonthView, error) {
	key := month.Format(config.MonthLayout)
	if view, ok := s.cache.Get(ctx, key); ok {
		return view, nil
	}

	// The load is shared by every waiting caller, so it outlives the one
	// that started it.
	shared := context.WithoutCancel(ctx)
	ch := s.loads.DoChan(key, func() (any, error) {
		view, err := s.loadMonth(shared, month)
		if err != nil {
			return nil, err
		}
		s.cache.Set(shared, view)
		return view, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*scheduling.MonthView), nil
	}
}

func (s *availabilityService) loadMonth(ctx context.Context, month time.Time) (*scheduling.MonthView, error) {
	first, last := scheduling.MonthBounds(month)
	from, to := first.Format(config.DateLayout), last.Format(config.DateLayout)

	var bookings []*model.Booking
	var blocked []*model.BlockedDay
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookings, err = s.bookings.ConfirmedInRange(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		blocked, err = s.blocked.BlockedInRange(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to load month", "from", from, "to", to, "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	byDate := make(map[string][]model.TimeInterval)
	for _, b := range bookings {
		iv, err := b.Interval()
		if err != nil {
			s.cfg.Log.Warn("Skipping booking with unreadable interval", "id", b.ID, "error", err)
			continue
		}
		byDate[b.Date] = append(byDate[b.Date], iv)
	}
	blockedDates := make(map[string]bool, len(blocked))
	for _, d := range blocked {
		blockedDates[d.Date] = true
	}

	view := scheduling.MonthCalendar(month, byDate, blockedDates, s.day)
	s.cfg.Log.Info("Month calendar built",
		"month", view.Month,
		"bookings", len(bookings),
		"blocked", len(blocked),
		"unavailable", len(view.Unavailable),
	)
	return &view, nil
}

func (s *availabilityService) Invalidate(ctx context.Context, date string) error {
	if err := s.cache.Invalidate(ctx, date); err != nil {
		s.cfg.Log.Error("Failed to invalidate month cache", "date", date, "error", err)
		return err
	}
	return nil
}

func (s *availabilityService) intervals(bookings []*model.Booking) []model.TimeInterval {
	out := make([]model.TimeInterval, 0, len(bookings))
	for _, b := range bookings {
		iv, err := b.Interval()
		if err != nil {
			s.cfg.Log.Warn("Skipping booking with unreadable interval", "id", b.ID, "error", err)
			continue
		}
		out = append(out, iv)
	}
	return out
}
