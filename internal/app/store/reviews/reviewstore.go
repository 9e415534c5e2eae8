package reviewstore

import (
	"context"
	"time"

	"github.com/dalemusser/spothub/internal/app/store/storeerr"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the reviews collection name.
const Collection = "reviews"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts a review. A second review for the same booking fails on
// uniq_reviews_booking with storeerr.ErrDuplicate.
func (s *Store) Create(ctx context.Context, r models.Review) (models.Review, error) {
	r.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Review{}, storeerr.Translate(err)
	}
	return r, nil
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// ListForSpot returns a spot's reviews newest first. The reviewer's name is
// resolved for non-anonymous reviews and omitted otherwise.
func (s *Store) ListForSpot(ctx context.Context, spotID primitive.ObjectID) ([]models.SpotReview, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"spot_id": spotID}}},
		{{Key: "$sort", Value: newestFirst}},
		{{Key: "$lookup", Value: bson.M{"from": "users", "localField": "user_id", "foreignField": "_id", "as": "reviewer"}}},
		{{Key: "$unwind", Value: bson.M{"path": "$reviewer", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"rating":       1,
			"comment":      1,
			"is_anonymous": 1,
			"created_at":   1,
			"reviewer_name": bson.M{"$cond": bson.A{
				"$is_anonymous", "$$REMOVE", "$reviewer.name",
			}},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.SpotReview{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns a user's reviews newest first, with the spot and the
// booking's current status resolved.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.UserReview, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$sort", Value: newestFirst}},
		{{Key: "$lookup", Value: bson.M{"from": "tourist_spots", "localField": "spot_id", "foreignField": "_id", "as": "spot"}}},
		{{Key: "$unwind", Value: bson.M{"path": "$spot", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{"from": "user_applications", "localField": "booking_id", "foreignField": "_id", "as": "_booking"}}},
		{{Key: "$set", Value: bson.M{"booking_status": bson.M{"$arrayElemAt": bson.A{"$_booking.status", 0}}}}},
		{{Key: "$project", Value: bson.M{"_booking": 0}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.UserReview{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
