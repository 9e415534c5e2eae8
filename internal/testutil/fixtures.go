package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/spothub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that read chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts documents directly, bypassing stores and services.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given role and no password.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string, role models.Role) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateSpot inserts a spot owned by ownerID (nil for a legacy ownerless spot).
func (f *Fixtures) CreateSpot(ctx context.Context, title string, ownerID *primitive.ObjectID, status models.SpotStatus, active bool) models.Spot {
	f.t.Helper()

	now := time.Now().UTC()
	s := models.Spot{
		ID:          primitive.NewObjectID(),
		Title:       title,
		TitleCI:     text.Fold(title),
		Description: "A test spot",
		Location:    "Test Bay",
		Category:    "beach",
		Price:       25,
		Images:      []string{},
		Amenities:   []string{},
		OwnerID:     ownerID,
		Status:      status,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("tourist_spots").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test spot: %v", err)
	}
	return s
}

// CreateApplication inserts an application of userID to spotID in the given status.
func (f *Fixtures) CreateApplication(ctx context.Context, userID, spotID primitive.ObjectID, status models.BookingStatus) models.Application {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Application{
		ID:            primitive.NewObjectID(),
		SpotID:        spotID,
		UserID:        userID,
		Status:        status,
		PaymentMethod: models.PaymentCard,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("user_applications").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test application: %v", err)
	}
	return a
}
