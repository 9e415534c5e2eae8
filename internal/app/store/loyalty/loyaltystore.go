package loyaltystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/spothub/internal/app/store/storeerr"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the loyalty balances collection name.
const Collection = "loyalty_points"

// ErrNegative is returned when an increment would subtract points.
var ErrNegative = errors.New("loyalty increment must not be negative")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// upsert applies update to the user's record, creating it if absent. Two
// concurrent upserts for a new user can both try the insert; the loser gets a
// duplicate-key error and is retried once, by which time the record exists.
func (s *Store) upsert(ctx context.Context, userID primitive.ObjectID, update bson.M) (models.LoyaltyAccount, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	filter := bson.M{"user_id": userID}

	var acct models.LoyaltyAccount
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&acct)
	if err != nil && errors.Is(storeerr.Translate(err), storeerr.ErrDuplicate) {
		err = s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&acct)
	}
	if err != nil {
		return models.LoyaltyAccount{}, storeerr.Translate(err)
	}
	return acct, nil
}

// Get returns the user's balance, creating a zero record on first read.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID) (models.LoyaltyAccount, error) {
	now := time.Now().UTC()
	return s.upsert(ctx, userID, bson.M{
		"$setOnInsert": bson.M{"points": int64(0), "created_at": now, "updated_at": now},
	})
}

// Increment atomically adds n points and returns the new balance. The
// operation is not idempotent and must not be retried by callers.
func (s *Store) Increment(ctx context.Context, userID primitive.ObjectID, n int64) (models.LoyaltyAccount, error) {
	if n < 0 {
		return models.LoyaltyAccount{}, ErrNegative
	}
	now := time.Now().UTC()
	return s.upsert(ctx, userID, bson.M{
		"$inc":         bson.M{"points": n},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	})
}
