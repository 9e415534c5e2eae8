package applicationstore

import (
	"context"
	"time"

	"github.com/dalemusser/spothub/internal/app/store/storeerr"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the applications (bookings) collection name.
const Collection = "user_applications"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts a pending application. A second application for the same
// (user, spot) fails on uniq_applications_user_spot with storeerr.ErrDuplicate,
// so concurrent applies cannot both succeed.
func (s *Store) Create(ctx context.Context, a models.Application) (models.Application, error) {
	a.ID = primitive.NewObjectID()
	a.Status = models.BookingPending
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Application{}, storeerr.Translate(err)
	}
	return a, nil
}

// GetByID loads an application.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	var a models.Application
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, storeerr.Translate(err)
	}
	return &a, nil
}

// CompareAndSetStatus moves an application from one status to another only if
// it is still in from. Returns storeerr.ErrNotFound when the application is
// missing or its status has changed since it was read.
func (s *Store) CompareAndSetStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) (*models.Application, error) {
	var a models.Application
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		return nil, storeerr.Translate(err)
	}
	return &a, nil
}

// ListForUser returns a user's applications with the spot resolved, newest first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.ApplicationView, error) {
	return s.views(ctx, bson.M{"user_id": userID}, nil)
}

// ListForOwner returns applications on spots owned by ownerID, with spot and
// applicant resolved, newest first.
func (s *Store) ListForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.ApplicationView, error) {
	return s.views(ctx, bson.M{}, &ownerID)
}

// ListAll returns every application with spot and applicant resolved.
func (s *Store) ListAll(ctx context.Context) ([]models.ApplicationView, error) {
	return s.views(ctx, bson.M{}, nil)
}

func lookupOne(from, local, as string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{"from": from, "localField": local, "foreignField": "_id", "as": as}}},
		{{Key: "$unwind", Value: bson.M{"path": "$" + as, "preserveNullAndEmptyArrays": true}}},
	}
}

func (s *Store) views(ctx context.Context, match bson.M, ownerID *primitive.ObjectID) ([]models.ApplicationView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	pipeline = append(pipeline, lookupOne("tourist_spots", "spot_id", "spot")...)
	if ownerID != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"spot.owner_id": *ownerID}}})
	}
	pipeline = append(pipeline, lookupOne("users", "user_id", "user")...)
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "reviews",
			"localField":   "_id",
			"foreignField": "booking_id",
			"as":           "_reviews",
		}}},
		bson.D{{Key: "$set", Value: bson.M{"reviewed": bson.M{"$gt": bson.A{bson.M{"$size": "$_reviews"}, 0}}}}},
		bson.D{{Key: "$project", Value: bson.M{"_reviews": 0, "user.password_hash": 0}}},
	)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ApplicationView{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
