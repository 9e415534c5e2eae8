// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called from EnsureSchema at startup. Every ensure* function is
idempotent. Problems are collected per collection so a single run reports
everything wrong and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	sets := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"tourist_spots", ensureSpots},
		{"user_applications", ensureApplications},
		{"reviews", ensureReviews},
		{"loyalty_points", ensureLoyalty},
		{"audit_events", ensureAuditEvents},
	}
	for _, s := range sets {
		if err := s.fn(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolOf(p *bool) bool { return p != nil && *p }

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// IndexOptionsConflict comes back when the same keys already exist under a
// different name or with different options.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

// duplicateHint points at an aggregation that finds offending documents when a
// unique index cannot be built over existing data.
func duplicateHint(coll, sig string) string {
	field := strings.SplitN(sig, ":", 2)[0]
	if strings.Contains(sig, ",") {
		return ""
	}
	return fmt.Sprintf(" (find duplicates: db.%s.aggregate([{ $group: { _id: \"$%s\", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }]))", coll, field)
}

type desired struct {
	model  mongo.IndexModel
	name   string
	unique bool
	sig    string
}

func describe(m mongo.IndexModel) desired {
	d := desired{model: m, sig: keySig(m.Keys.(bson.D))}
	if m.Options != nil {
		if m.Options.Name != nil {
			d.name = *m.Options.Name
		}
		d.unique = boolOf(m.Options.Unique)
	}
	return d
}

func listBySig(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

// replace drops ex and creates d in its place.
func replace(ctx context.Context, coll *mongo.Collection, ex existingIndex, d desired) error {
	if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
		return fmt.Errorf("%s(%s): drop %s failed: %w", coll.Name(), d.name, ex.Name, err)
	}
	return create(ctx, coll, d)
}

func create(ctx context.Context, coll *mongo.Collection, d desired) error {
	if _, err := coll.Indexes().CreateOne(ctx, d.model); err != nil {
		if isDuplicateKeyErr(err) && d.unique {
			return fmt.Errorf("%s(%s): cannot create unique index, duplicates present%s",
				coll.Name(), d.name, duplicateHint(coll.Name(), d.sig))
		}
		return fmt.Errorf("%s(%s): %w", coll.Name(), d.name, err)
	}
	return nil
}

func ensureOne(ctx context.Context, coll *mongo.Collection, d desired) error {
	start := time.Now()
	fields := func(extra ...zap.Field) []zap.Field {
		return append([]zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", d.name),
			zap.String("keys", d.sig),
			zap.Bool("unique", d.unique),
			zap.String("took", time.Since(start).String()),
		}, extra...)
	}

	ex, found := listBySig(ctx, coll)[d.sig]
	if !found {
		err := create(ctx, coll, d)
		if err == nil {
			zap.L().Info("index created", fields()...)
			return nil
		}
		if !isOptionsConflictErr(err) {
			zap.L().Warn("index ensure failed", fields(zap.Error(err))...)
			return err
		}
		// Someone created the same keys between our List and CreateOne.
		if ex, found = listBySig(ctx, coll)[d.sig]; !found {
			zap.L().Warn("index ensure failed", fields(zap.Error(err))...)
			return err
		}
	}

	switch {
	case boolOf(ex.Unique) != d.unique:
		if err := replace(ctx, coll, ex, d); err != nil {
			zap.L().Warn("index recreate failed", fields(zap.Error(err))...)
			return err
		}
		zap.L().Info("index dropped and recreated", fields(zap.String("previous", ex.Name))...)
	case d.name != "" && ex.Name != d.name:
		if err := replace(ctx, coll, ex, d); err != nil {
			zap.L().Warn("index rename failed", fields(zap.Error(err))...)
			return err
		}
		zap.L().Info("index renamed", fields(zap.String("from", ex.Name))...)
	default:
		zap.L().Debug("reusing existing index", fields()...)
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		if err := ensureOne(ctx, coll, describe(m)); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		// Email is the login identity.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// Superadmin user list, filtered by role, sorted by name.
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_users_role_nameci__id"),
		},
	})
}

func ensureSpots(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("tourist_spots"), []mongo.IndexModel{
		// Public catalog: approved + active, newest first.
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_spots_status_active_created"),
		},
		// Owner dashboard.
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_spots_owner_created"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_spots_category"),
		},
		// Title prefix search.
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_spots_titleci__id"),
		},
	})
}

func ensureApplications(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("user_applications"), []mongo.IndexModel{
		// One application per (user, spot). Concurrent applies race on this.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "spot_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_applications_user_spot"),
		},
		{
			Keys:    bson.D{{Key: "spot_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_applications_spot_created"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_applications_user_created"),
		},
	})
}

func ensureReviews(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("reviews"), []mongo.IndexModel{
		// At most one review per booking.
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_reviews_booking"),
		},
		{
			Keys:    bson.D{{Key: "spot_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_reviews_spot_created"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_reviews_user_created"),
		},
	})
}

func ensureLoyalty(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("loyalty_points"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_loyalty_user"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_user_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_actor_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_category_type_timestamp"),
		},
	})
}
