package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "propshoot/internal/bookings/errors"
	"propshoot/pkg/config"
	mongotx "propshoot/pkg/db/mongo"
	"propshoot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, search model.BookingSearch, limit int, offset int64) ([]*model.Booking, error)
	CountSearch(ctx context.Context, search model.BookingSearch) (int64, error)
	FindByPaymentSession(ctx context.Context, session string) ([]*model.Booking, error)
	ConfirmedOnDate(ctx context.Context, date string) ([]*model.Booking, error)
	ConfirmedInRange(ctx context.Context, from, to string) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status string, at time.Time) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

var chronological = bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{}, options.Find().
		SetSort(chronological).
		SetLimit(int64(limit)).
		SetSkip(offset))
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{})
}

func (r *mongoBookingRepository) Search(ctx context.Context, search model.BookingSearch, limit int, offset int64) ([]*model.Booking, error) {
	return r.find(ctx, buildSearchFilter(search), options.Find().
		SetSort(chronological).
		SetLimit(int64(limit)).
		SetSkip(offset))
}

func (r *mongoBookingRepository) CountSearch(ctx context.Context, search model.BookingSearch) (int64, error) {
	return r.count(ctx, buildSearchFilter(search))
}

func (r *mongoBookingRepository) FindByPaymentSession(ctx context.Context, session string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"payment_session": session}, options.Find().
		SetSort(bson.D{{Key: "property_index", Value: 1}}))
}

func (r *mongoBookingRepository) ConfirmedOnDate(ctx context.Context, date string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"date": date, "status": config.Confirmed}, options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}))
}

func (r *mongoBookingRepository) ConfirmedInRange(ctx context.Context, from, to string) ([]*model.Booking, error) {
	filter := bson.M{
		"date":   bson.M{"$gte": from, "$lte": to},
		"status": config.Confirmed,
	}
	return r.find(ctx, filter, options.Find().
		SetSort(chronological).
		SetProjection(bson.M{"date": 1, "start_time": 1, "end_time": 1, "status": 1}))
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, status string, at time.Time) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	set := bson.M{"status": status}
	if status == config.Cancelled {
		set["cancelled_at"] = at.UTC().Truncate(time.Millisecond)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return n, nil
}

// buildSearchFilter matches an inclusive date range and an optional status.
// Dates are stored as YYYY-MM-DD so string comparison orders them.
func buildSearchFilter(search model.BookingSearch) bson.M {
	filter := bson.M{}

	dates := bson.M{}
	if search.From != "" {
		dates["$gte"] = search.From
	}
	if search.To != "" {
		dates["$lte"] = search.To
	}
	if len(dates) > 0 {
		filter["date"] = dates
	}
	if search.Status != "" {
		filter["status"] = search.Status
	}
	return filter
}
