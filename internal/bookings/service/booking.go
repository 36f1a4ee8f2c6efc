package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	bookingserrors "propshoot/internal/bookings/errors"
	"propshoot/internal/bookings/repository"
	"propshoot/internal/bookings/validator"
	"propshoot/pkg/catalog"
	"propshoot/pkg/config"
	mongotx "propshoot/pkg/db/mongo"
	apperrors "propshoot/pkg/errors"
	"propshoot/pkg/events"
	"propshoot/pkg/model"
	"propshoot/pkg/sanitizer"
	"propshoot/pkg/validation"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	ConfirmOrder(ctx context.Context, order *model.Order) ([]*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Search(ctx context.Context, search model.BookingSearch, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string) error
}

// DiscountUsage records that an order redeemed a code.
type DiscountUsage interface {
	IncrementUsage(ctx context.Context, code string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	discounts DiscountUsage
	events    events.Publisher
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	discounts DiscountUsage,
	publisher events.Publisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		discounts: discounts,
		events:    publisher,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

// ConfirmOrder persists one confirmed booking per billable property of a
// paid order. Duration and price are derived again from the services, the
// start time is stored as picked. Replaying a payment session returns the
// bookings created the first time.
func (s *bookingService) ConfirmOrder(ctx context.Context, order *model.Order) ([]*model.Booking, error) {
	sanitizer.SanitizeOrder(order)
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := s.validator.ValidateOrder(order); err != nil {
		s.cfg.Log.Warn("Order validation failed", "order_id", order.ID, "error", err)
		return nil, validationError("Order validation failed", err)
	}

	existing, err := s.repo.FindByPaymentSession(ctx, order.PaymentSession)
	if err != nil {
		return nil, apperrors.Internal("Failed to check payment session", err)
	}
	if len(existing) > 0 && existing[0].Status == config.Pending {
		return nil, apperrors.Conflict("Paid order is waiting to be rebooked")
	}
	if len(existing) > 0 {
		s.cfg.Log.Info("Payment session already confirmed",
			"order_id", order.ID,
			"payment_session", order.PaymentSession,
			"bookings", len(existing),
		)
		return existing, nil
	}

	bookings, err := s.buildBookings(order)
	if err != nil {
		return nil, err
	}

	release, err := s.acquireSlotLocks(ctx, bookings)
	if err != nil {
		s.holdForRebooking(ctx, order, bookings, err)
		return nil, err
	}
	defer release()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		for _, b := range bookings {
			if err := s.verifyAvailability(sessCtx, b); err != nil {
				return err
			}
			if err := s.repo.Create(sessCtx, b); err != nil {
				if mongotx.IsDuplicateKey(err) {
					return slotTaken(b)
				}
				return apperrors.Internal("Failed to create booking", err)
			}
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to confirm order", "order_id", order.ID, "error", err)
		s.holdForRebooking(ctx, order, bookings, err)
		return nil, err
	}

	s.cfg.Log.Info("Order confirmed",
		"order_id", order.ID,
		"payment_session", order.PaymentSession,
		"bookings", len(bookings),
		"agent_email", order.Agent.Email,
	)

	s.afterConfirm(ctx, order, bookings)
	return bookings, nil
}

func (s *bookingService) buildBookings(order *model.Order) ([]*model.Booking, error) {
	sels := make([]model.ServiceSelection, len(order.Properties))
	for i, p := range order.Properties {
		sels[i] = p.Services
	}
	quote := catalog.QuoteOrder(sels, order.DiscountPercentage)

	bookings := make([]*model.Booking, 0, quote.BillableProperties)
	for i, p := range order.Properties {
		pq := quote.Properties[i]
		if pq.Minutes == 0 {
			continue
		}

		start, err := model.ParseClock(p.StartTime)
		if err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
		interval := model.NewInterval(start, pq.Minutes)

		b := &model.Booking{
			OrderID:        order.ID,
			PropertyIndex:  i,
			Address:        p.Address,
			Postcode:       p.Postcode,
			Bedrooms:       p.Services.Normalized().Bedrooms,
			Date:           p.Date,
			StartTime:      model.FormatClock(interval.Start),
			EndTime:        model.FormatClock(interval.End),
			Notes:          p.Notes,
			Agent:          order.Agent,
			Services:       p.Services,
			WorkMinutes:    pq.Minutes,
			WorkHours:      pq.WorkHours,
			Subtotal:       int64(pq.Subtotal),
			DiscountAmount: int64(pq.MultiDiscount + pq.CodeDiscount),
			Total:          int64(pq.Total),
			Currency:       s.cfg.Currency,
			PaymentSession: order.PaymentSession,
			Status:         config.Confirmed,
		}
		if pq.CodeDiscount > 0 {
			b.DiscountCode = order.DiscountCode
		}
		if err := s.validator.Validate(b); err != nil {
			s.cfg.Log.Warn("Booking validation failed", "order_id", order.ID, "property_index", i, "error", err)
			return nil, validationError("Booking validation failed", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// holdForRebooking stores a paid order that lost its slot as pending
// bookings, so it shows up in the admin list for a new time or a refund.
// Pending bookings never block availability.
func (s *bookingService) holdForRebooking(ctx context.Context, order *model.Order, bookings []*model.Booking, cause error) {
	if !apperrors.HasCode(cause, apperrors.CodeConflict) {
		return
	}
	for _, b := range bookings {
		b.ID = ""
		b.Status = config.Pending
		if err := s.repo.Create(ctx, b); err != nil {
			s.cfg.Log.Error("Failed to hold paid order for rebooking",
				"order_id", order.ID,
				"property_index", b.PropertyIndex,
				"error", err,
			)
			return
		}
	}
	s.cfg.Log.Warn("Paid order held for rebooking",
		"order_id", order.ID,
		"payment_session", order.PaymentSession,
		"agent_email", order.Agent.Email,
		"bookings", len(bookings),
	)
}

// verifyAvailability rejects b when it lands inside the travel buffer of a
// booking already confirmed on its date, including earlier properties of
// the same order inserted in this transaction.
func (s *bookingService) verifyAvailability(ctx context.Context, b *model.Booking) error {
	wanted, err := b.Interval()
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	existing, err := s.repo.ConfirmedOnDate(ctx, b.Date)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, other := range existing {
		taken, err := other.Interval()
		if err != nil {
			s.cfg.Log.Warn("Skipping booking with unreadable interval", "id", other.ID, "error", err)
			continue
		}
		if wanted.Overlaps(taken.Expand(config.TravelBufferMinutes)) {
			return slotTaken(b)
		}
	}
	return nil
}

func slotTaken(b *model.Booking) error {
	return apperrors.Conflict(fmt.Sprintf(
		"%s on %s at %s: %s. Please choose another time",
		b.Address, b.Date, b.StartTime, bookingserrors.ErrSlotTaken,
	))
}

// afterConfirm runs the side effects that must not undo a paid booking.
func (s *bookingService) afterConfirm(ctx context.Context, order *model.Order, bookings []*model.Booking) {
	if order.DiscountCode != "" && order.DiscountPercentage > 0 && s.discounts != nil {
		if err := s.discounts.IncrementUsage(ctx, order.DiscountCode); err != nil {
			s.cfg.Log.Error("Failed to record discount usage", "order_id", order.ID, "code", order.DiscountCode, "error", err)
		}
	}

	evt := model.BookingConfirmedEvent{
		OrderID:     order.ID,
		AgentEmail:  order.Agent.Email,
		Currency:    s.cfg.Currency,
		ConfirmedAt: s.now().UTC(),
	}
	seen := map[string]bool{}
	for _, b := range bookings {
		evt.BookingIDs = append(evt.BookingIDs, b.ID)
		evt.Total += b.Total
		if !seen[b.Date] {
			seen[b.Date] = true
			evt.Dates = append(evt.Dates, b.Date)
		}
	}
	sort.Strings(evt.Dates)

	if err := s.events.BookingConfirmed(ctx, evt); err != nil {
		s.cfg.Log.Error("Failed to publish booking event", "order_id", order.ID, "error", err)
	}
	for _, date := range evt.Dates {
		s.publishCalendarChange(ctx, date, model.ChangeBookingConfirmed)
	}
}

func (s *bookingService) publishCalendarChange(ctx context.Context, date, change string) {
	err := s.events.CalendarChanged(ctx, model.CalendarChangedEvent{
		Date:       date,
		Change:     change,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.cfg.Log.Error("Failed to publish calendar event", "date", date, "change", change, "error", err)
	}
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id, "Failed to retrieve booking")
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return bookings, count, nil
}

func (s *bookingService) Search(ctx context.Context, search model.BookingSearch, limit int, offset int64) ([]*model.Booking, int64, error) {
	if search.From != "" && search.To != "" && search.To < search.From {
		return nil, 0, apperrors.InvalidInput("'to' must not be before 'from'")
	}
	switch search.Status {
	case "", config.Pending, config.Confirmed, config.Cancelled:
	default:
		return nil, 0, apperrors.InvalidInput("status must be one of: pending confirmed cancelled")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountSearch(ctx, search)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings by search", "from", search.From, "to", search.To, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.Search(ctx, search, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search bookings",
				"from", search.From,
				"to", search.To,
				"status", search.Status,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Booking search completed", "from", search.From, "to", search.To, "count", len(bookings), "total_count", count)
	return bookings, count, nil
}

// Cancel frees the booking's slot. Cancelling twice is a conflict.
func (s *bookingService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, id, "Failed to retrieve booking")
	}
	if booking.Status == config.Cancelled {
		return apperrors.Conflict("Booking is already cancelled")
	}

	if err := s.repo.UpdateStatus(ctx, id, config.Cancelled, s.now()); err != nil {
		return mapRepoError(err, id, "Failed to cancel booking")
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "date", booking.Date, "start_time", booking.StartTime)
	s.publishCalendarChange(ctx, booking.Date, model.ChangeBookingCancelled)
	return nil
}

// acquireSlotLocks takes one advisory lock per date and start time, in a
// stable order so two orders for the same slots cannot deadlock each other.
func (s *bookingService) acquireSlotLocks(ctx context.Context, bookings []*model.Booking) (func(), error) {
	locks := map[string]*model.Booking{}
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		id := fmt.Sprintf("booking_lock_%s_%s", b.Date, b.StartTime)
		if _, ok := locks[id]; !ok {
			locks[id] = b
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	held := make([]string, 0, len(ids))
	release := func() {
		for _, id := range held {
			if err := s.lockRepo.Delete(ctx, id); err != nil {
				s.cfg.Log.Warn("Failed to release booking lock", "lock_id", id, "error", err)
			}
		}
	}

	now := s.now().UTC()
	for _, id := range ids {
		err := s.lockRepo.Create(ctx, &model.BookingLock{
			ID:        id,
			Date:      locks[id].Date,
			StartTime: locks[id].StartTime,
			ExpiresAt: now.Add(s.cfg.BookingLockTTL),
		})
		if err != nil {
			release()
			if mongotx.IsDuplicateKey(err) {
				return nil, apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
			}
			return nil, apperrors.Internal("Failed to acquire booking lock", err)
		}
		held = append(held, id)
	}
	return release, nil
}

func mapRepoError(err error, id, message string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	default:
		return apperrors.Internal(message, err)
	}
}

func validationError(message string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}
