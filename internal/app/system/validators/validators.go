// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/spothub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collections covered by EnsureAll.
const (
	Users        = "users"
	Spots        = "tourist_spots"
	Applications = "user_applications"
	Reviews      = "reviews"
	Loyalty      = "loyalty_points"
	AuditEvents  = "audit_events"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
//
// Validation is "moderate": documents that were already invalid (legacy
// spots awaiting backfill) can still be updated.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure(Users, usersSchema())
	ensure(Spots, spotsSchema())
	ensure(Applications, applicationsSchema())
	ensure(Reviews, reviewsSchema())
	ensure(Loyalty, loyaltySchema())

	// Written only by the audit logger; no validator.
	ensure(AuditEvents, nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Debug("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	integer  = bson.A{"int", "long"}
	number   = bson.A{"double", "int", "long", "decimal"}
)

func enumOf[T ~string](vals ...T) bson.A {
	out := make(bson.A, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "role"},
			"properties": bson.M{
				"name":          nonBlank,
				"email":         nonBlank,
				"password_hash": bson.M{"bsonType": "string"},
				"role":          bson.M{"enum": enumOf(models.AllRoles()...)},
			},
		},
	}
}

func spotsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "status", "is_active"},
			"properties": bson.M{
				"title":     nonBlank,
				"price":     bson.M{"bsonType": number, "minimum": 0},
				"images":    bson.M{"bsonType": bson.A{"array", "null"}, "items": bson.M{"bsonType": "string"}},
				"amenities": bson.M{"bsonType": bson.A{"array", "null"}, "items": bson.M{"bsonType": "string"}},
				"owner_id":  bson.M{"bsonType": "objectId"},
				"status":    bson.M{"enum": enumOf(models.SpotPending, models.SpotApproved, models.SpotRejected)},
				"is_active": bson.M{"bsonType": "bool"},
			},
		},
	}
}

func applicationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"spot_id", "user_id", "status"},
			"properties": bson.M{
				"spot_id": bson.M{"bsonType": "objectId"},
				"user_id": bson.M{"bsonType": "objectId"},
				"status": bson.M{"enum": enumOf(models.BookingPending, models.BookingAccepted,
					models.BookingRejected, models.BookingCompleted)},
				"payment_method": bson.M{"enum": bson.A{models.PaymentCard, models.PaymentCash,
					models.PaymentBankTransfer, models.PaymentWallet}},
			},
		},
	}
}

func reviewsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"booking_id", "user_id", "spot_id", "rating", "comment"},
			"properties": bson.M{
				"booking_id":   bson.M{"bsonType": "objectId"},
				"user_id":      bson.M{"bsonType": "objectId"},
				"spot_id":      bson.M{"bsonType": "objectId"},
				"rating":       bson.M{"bsonType": integer, "minimum": models.MinRating, "maximum": models.MaxRating},
				"comment":      nonBlank,
				"is_anonymous": bson.M{"bsonType": "bool"},
			},
		},
	}
}

func loyaltySchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "points"},
			"properties": bson.M{
				"user_id": bson.M{"bsonType": "objectId"},
				"points":  bson.M{"bsonType": integer, "minimum": 0},
			},
		},
	}
}
