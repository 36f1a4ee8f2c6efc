package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	bookingserrors "propshoot/internal/bookings/errors"
	"propshoot/internal/bookings/validator"
	"propshoot/pkg/catalog"
	"propshoot/pkg/config"
	mongotx "propshoot/pkg/db/mongo"
	apperrors "propshoot/pkg/errors"
	"propshoot/pkg/logger"
	"propshoot/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// mockBookingRepository keeps created bookings in memory so a transaction
// sees the properties it already inserted.
type mockBookingRepository struct {
	mu       sync.Mutex
	created  []*model.Booking
	existing map[string][]*model.Booking

	findByPaymentSessionFunc func(ctx context.Context, session string) ([]*model.Booking, error)
	findByIDFunc             func(ctx context.Context, id string) (*model.Booking, error)
	findAllFunc              func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	countFunc                func(ctx context.Context) (int64, error)
	searchFunc               func(ctx context.Context, search model.BookingSearch, limit int, offset int64) ([]*model.Booking, error)
	countSearchFunc          func(ctx context.Context, search model.BookingSearch) (int64, error)
	createFunc               func(ctx context.Context, booking *model.Booking) error
	updateStatusFunc         func(ctx context.Context, id string, status string, at time.Time) error
	transactionCalls         int
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, booking); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking.ID = fmt.Sprintf("%024d", len(m.created)+1)
	m.created = append(m.created, booking)
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockBookingRepository) Search(ctx context.Context, search model.BookingSearch, limit int, offset int64) ([]*model.Booking, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, search, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountSearch(ctx context.Context, search model.BookingSearch) (int64, error) {
	if m.countSearchFunc != nil {
		return m.countSearchFunc(ctx, search)
	}
	return 0, nil
}

func (m *mockBookingRepository) FindByPaymentSession(ctx context.Context, session string) ([]*model.Booking, error) {
	if m.findByPaymentSessionFunc != nil {
		return m.findByPaymentSessionFunc(ctx, session)
	}
	return nil, nil
}

func (m *mockBookingRepository) ConfirmedOnDate(_ context.Context, date string) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]*model.Booking{}, m.existing[date]...)
	for _, b := range m.created {
		if b.Date == date && b.Status == config.Confirmed {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) ConfirmedInRange(_ context.Context, _, _ string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string, at time.Time) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status, at)
	}
	return nil
}

func (m *mockBookingRepository) withStatus(status string) []*model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.created {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

// ExecuteTransaction rolls back the in-memory inserts when fn fails.
func (m *mockBookingRepository) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	m.transactionCalls++
	m.mu.Lock()
	before := len(m.created)
	m.mu.Unlock()

	if err := fn(nil); err != nil {
		m.mu.Lock()
		m.created = m.created[:before]
		m.mu.Unlock()
		return err
	}
	return nil
}

type mockLockRepository struct {
	mu      sync.Mutex
	held    map[string]bool
	created []string
	deleted []string
}

func (m *mockLockRepository) Create(_ context.Context, lock *model.BookingLock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[lock.ID] {
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "duplicate key"}}}
	}
	if m.held == nil {
		m.held = map[string]bool{}
	}
	m.held[lock.ID] = true
	m.created = append(m.created, lock.ID)
	return nil
}

func (m *mockLockRepository) Delete(_ context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, lockID)
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockDiscounts struct {
	codes []string
	err   error
}

func (m *mockDiscounts) IncrementUsage(_ context.Context, code string) error {
	m.codes = append(m.codes, code)
	return m.err
}

type mockPublisher struct {
	mu        sync.Mutex
	confirmed []model.BookingConfirmedEvent
	changed   []model.CalendarChangedEvent
	err       error
}

func (m *mockPublisher) BookingConfirmed(_ context.Context, evt model.BookingConfirmedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmed = append(m.confirmed, evt)
	return m.err
}

func (m *mockPublisher) CalendarChanged(_ context.Context, evt model.CalendarChangedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changed = append(m.changed, evt)
	return m.err
}

func (m *mockPublisher) Close() error {
	return nil
}

type fixture struct {
	repo      *mockBookingRepository
	locks     *mockLockRepository
	discounts *mockDiscounts
	events    *mockPublisher
	svc       *bookingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "info",
		Format:  logger.JSON,
		Service: "test",
	})
	cfg := &config.Config{
		Log:            log,
		Currency:       "gbp",
		BookingLockTTL: 30 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	}

	f := &fixture{
		repo:      &mockBookingRepository{existing: map[string][]*model.Booking{}},
		locks:     &mockLockRepository{},
		discounts: &mockDiscounts{},
		events:    &mockPublisher{},
	}
	svc := NewBookingService(f.repo, f.locks, f.discounts, f.events, validator.NewBookingValidator(log), cfg)
	f.svc = svc.(*bookingService)
	f.svc.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return f
}

func photography(photos int) model.ServiceSelection {
	return model.ServiceSelection{Photography: true, PhotoCount: photos, Bedrooms: 2}
}

func newOrder(properties ...model.PropertyOrder) *model.Order {
	return &model.Order{
		PaymentSession: "cs_test_123",
		Agent: model.Agent{
			Name:    "Jamie Rivers",
			Company: "Rivers Lettings",
			Email:   "jamie@example.com",
			Phone:   "07700 900123",
		},
		Properties: properties,
	}
}

func property(address, date, start string, services model.ServiceSelection) model.PropertyOrder {
	return model.PropertyOrder{
		Address:   address,
		Postcode:  "sw1a1aa",
		Date:      date,
		StartTime: start,
		Services:  services,
	}
}

func TestConfirmOrder_CreatesOneBookingPerBillableProperty(t *testing.T) {
	f := newFixture(t)
	order := newOrder(
		property("1 High Street", "2026-03-03", "09:00", photography(30)),
		property("2 High Street", "2026-03-03", "", model.ServiceSelection{}),
		property("3 High Street", "2026-03-04", "11:00", photography(20)),
	)
	order.DiscountCode = "SPRING10"
	order.DiscountPercentage = 10

	bookings, err := f.svc.ConfirmOrder(context.Background(), order)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	quote := catalog.QuoteOrder([]model.ServiceSelection{photography(30), {}, photography(20)}, 10)

	first := bookings[0]
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, order.ID, first.OrderID)
	assert.Equal(t, 0, first.PropertyIndex)
	assert.Equal(t, "SW1A 1AA", first.Postcode)
	assert.Equal(t, "09:00", first.StartTime)
	assert.Equal(t, model.FormatClock(9*60+catalog.Minutes(photography(30))), first.EndTime)
	assert.Equal(t, config.Confirmed, first.Status)
	assert.Equal(t, "gbp", first.Currency)
	assert.Equal(t, "+447700900123", first.Agent.Phone)
	assert.Equal(t, "SPRING10", first.DiscountCode)

	assert.Equal(t, 2, bookings[1].PropertyIndex)
	var total int64
	for _, b := range bookings {
		total += b.Total
	}
	assert.Equal(t, int64(quote.Total), total)

	assert.Equal(t, []string{"SPRING10"}, f.discounts.codes)
	require.Len(t, f.events.confirmed, 1)
	assert.Equal(t, []string{"2026-03-03", "2026-03-04"}, f.events.confirmed[0].Dates)
	assert.Equal(t, total, f.events.confirmed[0].Total)
	assert.Len(t, f.events.confirmed[0].BookingIDs, 2)
	assert.Len(t, f.events.changed, 2)

	assert.Len(t, f.locks.created, 2)
	assert.ElementsMatch(t, f.locks.created, f.locks.deleted)
}

func TestConfirmOrder_ReplayedPaymentSessionReturnsExisting(t *testing.T) {
	f := newFixture(t)
	prior := []*model.Booking{{ID: "665f1f77bcf86cd799439011", PaymentSession: "cs_test_123"}}
	f.repo.findByPaymentSessionFunc = func(_ context.Context, session string) ([]*model.Booking, error) {
		assert.Equal(t, "cs_test_123", session)
		return prior, nil
	}

	bookings, err := f.svc.ConfirmOrder(context.Background(), newOrder(
		property("1 High Street", "2026-03-03", "09:00", photography(20)),
	))
	require.NoError(t, err)
	assert.Equal(t, prior, bookings)
	assert.Zero(t, f.repo.transactionCalls)
	assert.Empty(t, f.events.confirmed)
	assert.Empty(t, f.locks.created)
}

func TestConfirmOrder_RejectsSlotInsideTravelBuffer(t *testing.T) {
	f := newFixture(t)
	// floor plan for two bedrooms takes 25 minutes
	f.repo.existing["2026-03-03"] = []*model.Booking{
		{ID: "a", Date: "2026-03-03", StartTime: "10:00", EndTime: "11:00", Status: config.Confirmed},
	}

	tests := []struct {
		start   string
		blocked bool
	}{
		{"09:10", true},
		{"09:00", false},
		{"11:15", true},
		{"11:30", false},
	}

	for i, tt := range tests {
		t.Logf("iteration %d start=%s", i, tt.start)
		f.repo.created = nil

		_, err := f.svc.ConfirmOrder(context.Background(), newOrder(
			property("1 High Street", "2026-03-03", tt.start, model.ServiceSelection{FloorPlan: true}),
		))
		if tt.blocked {
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict), "got %v", err)
			assert.Empty(t, f.repo.withStatus(config.Confirmed))
		} else {
			require.NoError(t, err)
		}
	}
}

func TestConfirmOrder_SiblingPropertiesCannotOverlap(t *testing.T) {
	f := newFixture(t)
	order := newOrder(
		property("1 High Street", "2026-03-03", "10:00", photography(20)),
		property("2 High Street", "2026-03-03", "10:30", photography(20)),
	)

	_, err := f.svc.ConfirmOrder(context.Background(), order)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Empty(t, f.repo.withStatus(config.Confirmed))
	assert.Empty(t, f.events.confirmed)
	assert.Empty(t, f.discounts.codes)
}

func TestConfirmOrder_LockHeldByAnotherRequest(t *testing.T) {
	f := newFixture(t)
	f.locks.held = map[string]bool{"booking_lock_2026-03-03_09:00": true}

	_, err := f.svc.ConfirmOrder(context.Background(), newOrder(
		property("1 High Street", "2026-03-03", "09:00", photography(20)),
	))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Zero(t, f.repo.transactionCalls)
	assert.True(t, f.locks.held["booking_lock_2026-03-03_09:00"])
}

func TestConfirmOrder_DuplicateKeyOnInsertIsConflict(t *testing.T) {
	f := newFixture(t)
	f.repo.createFunc = func(context.Context, *model.Booking) error {
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}

	_, err := f.svc.ConfirmOrder(context.Background(), newOrder(
		property("1 High Street", "2026-03-03", "09:00", photography(20)),
	))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Empty(t, f.locks.held)
}

func TestConfirmOrder_LostSlotIsHeldAsPending(t *testing.T) {
	f := newFixture(t)
	f.repo.existing["2026-03-03"] = []*model.Booking{
		{ID: "a", Date: "2026-03-03", StartTime: "10:00", EndTime: "11:00", Status: config.Confirmed},
	}
	order := newOrder(
		property("1 High Street", "2026-03-03", "10:30", photography(20)),
		property("2 High Street", "2026-03-04", "10:00", photography(20)),
	)

	_, err := f.svc.ConfirmOrder(context.Background(), order)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	assert.Empty(t, f.repo.withStatus(config.Confirmed))
	held := f.repo.withStatus(config.Pending)
	require.Len(t, held, 2, "every property of the paid order is kept")
	for _, b := range held {
		assert.Equal(t, order.ID, b.OrderID)
		assert.Equal(t, "cs_test_123", b.PaymentSession)
	}
	assert.Empty(t, f.events.confirmed)
	assert.Empty(t, f.discounts.codes)

	// a replayed webhook does not book or hold the order twice
	f.repo.findByPaymentSessionFunc = func(context.Context, string) ([]*model.Booking, error) {
		return held, nil
	}
	_, err = f.svc.ConfirmOrder(context.Background(), order)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Len(t, f.repo.withStatus(config.Pending), 2)

	day, err := f.repo.ConfirmedOnDate(context.Background(), "2026-03-04")
	require.NoError(t, err)
	assert.Empty(t, day, "held bookings do not take the slot")
}

func TestConfirmOrder_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		order *model.Order
	}{
		{"no billable property", newOrder(property("1 High Street", "2026-03-03", "09:00", model.ServiceSelection{}))},
		{"missing start time", newOrder(property("1 High Street", "2026-03-03", "", photography(20)))},
		{"missing payment session", func() *model.Order {
			o := newOrder(property("1 High Street", "2026-03-03", "09:00", photography(20)))
			o.PaymentSession = ""
			return o
		}()},
		{"bad email", func() *model.Order {
			o := newOrder(property("1 High Street", "2026-03-03", "09:00", photography(20)))
			o.Agent.Email = "not-an-email"
			return o
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.ConfirmOrder(context.Background(), tt.order)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "got %v", err)
			assert.Zero(t, f.repo.transactionCalls)
		})
	}
}

func TestConfirmOrder_SideEffectFailuresDoNotFailOrder(t *testing.T) {
	f := newFixture(t)
	f.discounts.err = errors.New("mongo down")
	f.events.err = errors.New("kafka down")
	order := newOrder(property("1 High Street", "2026-03-03", "09:00", photography(20)))
	order.DiscountCode = "SPRING10"
	order.DiscountPercentage = 10

	bookings, err := f.svc.ConfirmOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestGetAll_ConcurrentAccess(t *testing.T) {
	f := newFixture(t)
	f.repo.countFunc = func(context.Context) (int64, error) { return 3, nil }
	f.repo.findAllFunc = func(_ context.Context, limit int, offset int64) ([]*model.Booking, error) {
		assert.Equal(t, 2, limit)
		assert.Equal(t, int64(1), offset)
		return []*model.Booking{{ID: "b"}, {ID: "c"}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(iteration int) {
			defer wg.Done()
			bookings, count, err := f.svc.GetAll(context.Background(), 2, 1)
			if err != nil {
				t.Errorf("iteration %d: unexpected error: %v", iteration, err)
				return
			}
			if count != 3 || len(bookings) != 2 {
				t.Errorf("iteration %d: got %d bookings of %d", iteration, len(bookings), count)
			}
		}(i)
	}
	wg.Wait()
}

func TestGetAll_CountError(t *testing.T) {
	f := newFixture(t)
	f.repo.countFunc = func(context.Context) (int64, error) { return 0, errors.New("boom") }

	_, _, err := f.svc.GetAll(context.Background(), 10, 0)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestSearch_Validation(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.Search(context.Background(), model.BookingSearch{From: "2026-03-10", To: "2026-03-01"}, 10, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	_, _, err = f.svc.Search(context.Background(), model.BookingSearch{Status: "done"}, 10, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	f.repo.countSearchFunc = func(_ context.Context, s model.BookingSearch) (int64, error) {
		assert.Equal(t, config.Confirmed, s.Status)
		return 1, nil
	}
	f.repo.searchFunc = func(context.Context, model.BookingSearch, int, int64) ([]*model.Booking, error) {
		return []*model.Booking{{ID: "a"}}, nil
	}
	bookings, count, err := f.svc.Search(context.Background(), model.BookingSearch{From: "2026-03-01", To: "2026-03-31", Status: config.Confirmed}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Len(t, bookings, 1)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	stored := &model.Booking{ID: "665f1f77bcf86cd799439011", Date: "2026-03-03", StartTime: "09:00", Status: config.Confirmed}
	f.repo.findByIDFunc = func(_ context.Context, id string) (*model.Booking, error) {
		if id != stored.ID {
			return nil, bookingserrors.ErrNotFound
		}
		return stored, nil
	}
	f.repo.updateStatusFunc = func(_ context.Context, _ string, status string, _ time.Time) error {
		stored.Status = status
		return nil
	}

	require.NoError(t, f.svc.Cancel(context.Background(), stored.ID))
	assert.Equal(t, config.Cancelled, stored.Status)
	require.Len(t, f.events.changed, 1)
	assert.Equal(t, model.ChangeBookingCancelled, f.events.changed[0].Change)
	assert.Equal(t, "2026-03-03", f.events.changed[0].Date)

	err := f.svc.Cancel(context.Background(), stored.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	err = f.svc.Cancel(context.Background(), "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	err = f.svc.Cancel(context.Background(), "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}
