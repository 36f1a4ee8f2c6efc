package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	blockederrors "propshoot/internal/blockeddays/errors"
	"propshoot/pkg/config"
	mongotx "propshoot/pkg/db/mongo"
	"propshoot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Blocked_days"
)

type BlockedDayRepository interface {
	Create(ctx context.Context, day *model.BlockedDay) error
	FindByID(ctx context.Context, id string) (*model.BlockedDay, error)
	// BlockedOn returns nil without error when date is not blocked.
	BlockedOn(ctx context.Context, date string) (*model.BlockedDay, error)
	BlockedInRange(ctx context.Context, from, to string) ([]*model.BlockedDay, error)
	FindAll(ctx context.Context, from string) ([]*model.BlockedDay, error)
	Delete(ctx context.Context, id string) error
}

type mongoBlockedDayRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBlockedDayRepository(cfg *config.Config) BlockedDayRepository {
	return &mongoBlockedDayRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

var byDate = bson.D{{Key: "date", Value: 1}}

func (r *mongoBlockedDayRepository) Create(ctx context.Context, day *model.BlockedDay) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	day.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, day); err != nil {
		if mongotx.IsDuplicateKey(err) {
			return blockederrors.ErrAlreadyBlocked
		}
		return fmt.Errorf("failed to create blocked day: %w", err)
	}
	return nil
}

func (r *mongoBlockedDayRepository) FindByID(ctx context.Context, id string) (*model.BlockedDay, error) {
	day, err := r.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, blockederrors.ErrNotFound
	}
	return day, nil
}

func (r *mongoBlockedDayRepository) BlockedOn(ctx context.Context, date string) (*model.BlockedDay, error) {
	return r.findOne(ctx, bson.M{"date": date})
}

func (r *mongoBlockedDayRepository) findOne(ctx context.Context, filter bson.M) (*model.BlockedDay, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var day model.BlockedDay
	err := r.collection.FindOne(ctx, filter).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find blocked day: %w", err)
	}
	return &day, nil
}

func (r *mongoBlockedDayRepository) BlockedInRange(ctx context.Context, from, to string) ([]*model.BlockedDay, error) {
	return r.find(ctx, bson.M{"date": bson.M{"$gte": from, "$lte": to}})
}

func (r *mongoBlockedDayRepository) FindAll(ctx context.Context, from string) ([]*model.BlockedDay, error) {
	filter := bson.M{}
	if from != "" {
		filter["date"] = bson.M{"$gte": from}
	}
	return r.find(ctx, filter)
}

func (r *mongoBlockedDayRepository) find(ctx context.Context, filter bson.M) ([]*model.BlockedDay, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(byDate))
	if err != nil {
		return nil, fmt.Errorf("failed to find blocked days: %w", err)
	}
	defer cursor.Close(ctx)

	days := []*model.BlockedDay{}
	if err = cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("failed to decode blocked days: %w", err)
	}
	return days, nil
}

func (r *mongoBlockedDayRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete blocked day: %w", err)
	}
	if result.DeletedCount == 0 {
		return blockederrors.ErrNotFound
	}
	return nil
}
