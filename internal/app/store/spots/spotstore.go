package spotstore

import (
	"context"
	"regexp"
	"time"

	"github.com/dalemusser/spothub/internal/app/store/storeerr"
	"github.com/dalemusser/spothub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the spots collection name.
const Collection = "tourist_spots"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// Create inserts s with a fresh ID and timestamps. Status and IsActive are
// stored as given; callers decide the initial moderation state.
func (s *Store) Create(ctx context.Context, spot models.Spot) (models.Spot, error) {
	spot.ID = primitive.NewObjectID()
	spot.TitleCI = text.Fold(spot.Title)
	if spot.Images == nil {
		spot.Images = []string{}
	}
	if spot.Amenities == nil {
		spot.Amenities = []string{}
	}
	now := time.Now().UTC()
	spot.CreatedAt = now
	spot.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, spot); err != nil {
		return models.Spot{}, storeerr.Translate(err)
	}
	return spot, nil
}

// GetByID loads a spot.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Spot, error) {
	var spot models.Spot
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&spot); err != nil {
		return nil, storeerr.Translate(err)
	}
	return &spot, nil
}

func (s *Store) updateWhere(ctx context.Context, filter bson.M, update any) (*models.Spot, error) {
	var spot models.Spot
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&spot)
	if err != nil {
		return nil, storeerr.Translate(err)
	}
	return &spot, nil
}

// UpdateContentIfApproved replaces the editable content of an approved spot.
// Returns storeerr.ErrNotFound if the spot is missing or no longer approved.
func (s *Store) UpdateContentIfApproved(ctx context.Context, id primitive.ObjectID, c models.SpotContent) (*models.Spot, error) {
	return s.updateWhere(ctx,
		bson.M{"_id": id, "status": models.SpotApproved},
		bson.M{"$set": bson.M{
			"title":       c.Title,
			"title_ci":    text.Fold(c.Title),
			"description": c.Description,
			"location":    c.Location,
			"category":    c.Category,
			"price":       c.Price,
			"images":      c.Images,
			"amenities":   c.Amenities,
			"updated_at":  time.Now().UTC(),
		}},
	)
}

// ToggleActiveIfApproved flips is_active in a single pipeline update so two
// concurrent toggles cannot both read the same value.
// Returns storeerr.ErrNotFound if the spot is missing or no longer approved.
func (s *Store) ToggleActiveIfApproved(ctx context.Context, id primitive.ObjectID) (*models.Spot, error) {
	return s.updateWhere(ctx,
		bson.M{"_id": id, "status": models.SpotApproved},
		mongo.Pipeline{{{Key: "$set", Value: bson.D{
			{Key: "is_active", Value: bson.D{{Key: "$not", Value: bson.A{"$is_active"}}}},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}}},
	)
}

// Moderate records a moderation decision on a pending spot.
// Returns storeerr.ErrNotFound if the spot is missing or no longer pending.
func (s *Store) Moderate(ctx context.Context, id primitive.ObjectID, status models.SpotStatus, reviewerID primitive.ObjectID, notes string) (*models.Spot, error) {
	now := time.Now().UTC()
	return s.updateWhere(ctx,
		bson.M{"_id": id, "status": models.SpotPending},
		bson.M{"$set": bson.M{
			"status":       status,
			"reviewed_by":  reviewerID,
			"review_notes": notes,
			"reviewed_at":  now,
			"updated_at":   now,
		}},
	)
}

// Delete removes a spot. Returns storeerr.ErrNotFound if nothing was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storeerr.ErrNotFound
	}
	return nil
}

// PublicFilter narrows ListPublic. Zero values mean no filter.
type PublicFilter struct {
	Category string // exact, already normalized
	Query    string // title prefix
	Location string // case-insensitive substring
	Limit    int64
	Offset   int64
}

const (
	defaultLimit = 50
	maxLimit     = 200
)

func clampLimit(n int64) int64 {
	if n <= 0 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

// ListPublic returns approved and active spots, newest first.
func (s *Store) ListPublic(ctx context.Context, f PublicFilter) ([]models.Spot, error) {
	filter := bson.M{"status": models.SpotApproved, "is_active": true}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if q := text.Fold(f.Query); q != "" {
		filter["title_ci"] = bson.M{"$gte": q, "$lt": q + "\uffff"}
	}
	if f.Location != "" {
		filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}
	}

	opts := options.Find().SetSort(newestFirst).SetLimit(clampLimit(f.Limit)).SetSkip(f.Offset)
	return s.find(ctx, filter, opts)
}

// ListByOwner returns every spot owned by ownerID regardless of state, newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Spot, error) {
	return s.find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetSort(newestFirst))
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Spot, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Spot{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListWithOwners returns spots with their owner resolved, newest first.
// An empty status lists every spot.
func (s *Store) ListWithOwners(ctx context.Context, status models.SpotStatus) ([]models.SpotView, error) {
	match := bson.M{}
	if status != "" {
		match["status"] = status
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: newestFirst}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "owner_id",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$owner", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{"owner.password_hash": 0}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.SpotView{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BackfillLegacy brings documents created before moderation and active
// tracking existed into the current shape: a missing status becomes pending,
// a missing is_active becomes true, and a missing title_ci is computed.
// Ownerless spots keep a nil owner and can only be managed by a superadmin.
func (s *Store) BackfillLegacy(ctx context.Context) (int64, error) {
	var touched int64
	now := time.Now().UTC()

	res, err := s.c.UpdateMany(ctx,
		bson.M{"status": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"status": models.SpotPending, "updated_at": now}},
	)
	if err != nil {
		return touched, err
	}
	touched += res.ModifiedCount

	res, err = s.c.UpdateMany(ctx,
		bson.M{"is_active": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"is_active": true, "updated_at": now}},
	)
	if err != nil {
		return touched, err
	}
	touched += res.ModifiedCount

	cur, err := s.c.Find(ctx,
		bson.M{"title_ci": bson.M{"$exists": false}},
		options.Find().SetProjection(bson.M{"title": 1}),
	)
	if err != nil {
		return touched, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var doc struct {
			ID    primitive.ObjectID `bson:"_id"`
			Title string             `bson:"title"`
		}
		if err := cur.Decode(&doc); err != nil {
			return touched, err
		}
		if _, err := s.c.UpdateOne(ctx,
			bson.M{"_id": doc.ID},
			bson.M{"$set": bson.M{"title_ci": text.Fold(doc.Title)}},
		); err != nil {
			return touched, err
		}
		touched++
	}
	return touched, cur.Err()
}
