package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	discountserrors "propshoot/internal/discounts/errors"
	"propshoot/pkg/config"
	mongotx "propshoot/pkg/db/mongo"
	"propshoot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Discount_codes"
)

type DiscountRepository interface {
	Create(ctx context.Context, code *model.DiscountCode) error
	FindByID(ctx context.Context, id string) (*model.DiscountCode, error)
	FindByCode(ctx context.Context, code string) (*model.DiscountCode, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.DiscountCode, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, update *model.DiscountCodeUpdate) error
	IncrementUsage(ctx context.Context, code string) error
}

type mongoDiscountRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDiscountRepository(cfg *config.Config) DiscountRepository {
	return &mongoDiscountRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

func (r *mongoDiscountRepository) Create(ctx context.Context, code *model.DiscountCode) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	code.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, code); err != nil {
		if mongotx.IsDuplicateKey(err) {
			return discountserrors.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create discount code: %w", err)
	}
	return nil
}

func (r *mongoDiscountRepository) FindByID(ctx context.Context, id string) (*model.DiscountCode, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoDiscountRepository) FindByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *mongoDiscountRepository) findOne(ctx context.Context, filter bson.M) (*model.DiscountCode, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var code model.DiscountCode
	err := r.collection.FindOne(ctx, filter).Decode(&code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, discountserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find discount code: %w", err)
	}
	return &code, nil
}

func (r *mongoDiscountRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.DiscountCode, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find discount codes: %w", err)
	}
	defer cursor.Close(ctx)

	codes := []*model.DiscountCode{}
	if err = cursor.All(ctx, &codes); err != nil {
		return nil, fmt.Errorf("failed to decode discount codes: %w", err)
	}
	return codes, nil
}

func (r *mongoDiscountRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count discount codes: %w", err)
	}
	return n, nil
}

func (r *mongoDiscountRepository) Update(ctx context.Context, id string, update *model.DiscountCodeUpdate) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{}
	if update.Percentage != nil {
		set["percentage"] = *update.Percentage
	}
	if update.Active != nil {
		set["active"] = *update.Active
	}
	if update.MaxUses != nil {
		set["max_uses"] = *update.MaxUses
	}
	unset := bson.M{}
	if update.ExpiresAt != nil {
		// An empty date removes the expiry.
		if *update.ExpiresAt == "" {
			unset["expires_at"] = ""
		} else {
			set["expires_at"] = *update.ExpiresAt
		}
	}
	if len(set) == 0 && len(unset) == 0 {
		return nil
	}

	doc := bson.M{}
	if len(set) > 0 {
		doc["$set"] = set
	}
	if len(unset) > 0 {
		doc["$unset"] = unset
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("failed to update discount code: %w", err)
	}
	if result.MatchedCount == 0 {
		return discountserrors.ErrNotFound
	}
	return nil
}

func (r *mongoDiscountRepository) IncrementUsage(ctx context.Context, code string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"code": code}, bson.M{"$inc": bson.M{"times_used": 1}})
	if err != nil {
		return fmt.Errorf("failed to increment discount usage: %w", err)
	}
	if result.MatchedCount == 0 {
		return discountserrors.ErrNotFound
	}
	return nil
}
