package reviewservice_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/spothub/internal/app/store/storeerr"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memReviews mirrors reviewstore: booking_id is unique.
type memReviews struct {
	mu      sync.Mutex
	reviews []models.Review
	names   map[primitive.ObjectID]string
	fail    error
}

func (m *memReviews) Create(_ context.Context, r models.Review) (models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return models.Review{}, m.fail
	}
	for _, existing := range m.reviews {
		if existing.BookingID == r.BookingID {
			return models.Review{}, storeerr.ErrDuplicate
		}
	}
	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now().Add(time.Duration(len(m.reviews)) * time.Millisecond)
	r.UpdatedAt = r.CreatedAt
	m.reviews = append(m.reviews, r)
	return r, nil
}

func (m *memReviews) ListForSpot(_ context.Context, spotID primitive.ObjectID) ([]models.SpotReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SpotReview
	for _, r := range m.reviews {
		if r.SpotID != spotID {
			continue
		}
		sr := models.SpotReview{ID: r.ID, Rating: r.Rating, Comment: r.Comment, IsAnonymous: r.IsAnonymous, CreatedAt: r.CreatedAt}
		if !r.IsAnonymous {
			sr.ReviewerName = m.names[r.UserID]
		}
		out = append(out, sr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memReviews) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.UserReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.UserReview{}
	for _, r := range m.reviews {
		if r.UserID == userID {
			out = append(out, models.UserReview{Review: r, BookingStatus: models.BookingCompleted})
		}
	}
	return out, nil
}

type memBookings map[primitive.ObjectID]models.Application

func (m memBookings) GetByID(_ context.Context, id primitive.ObjectID) (*models.Application, error) {
	a, ok := m[id]
	if !ok {
		return nil, storeerr.ErrNotFound
	}
	return &a, nil
}

type memLoyalty struct {
	mu       sync.Mutex
	balances map[primitive.ObjectID]int64
	calls    int
	fail     error
}

func (m *memLoyalty) Award(_ context.Context, userID primitive.ObjectID, n int64) (models.LoyaltyAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail != nil {
		return models.LoyaltyAccount{}, m.fail
	}
	m.balances[userID] += n
	return models.LoyaltyAccount{UserID: userID, Points: m.balances[userID]}, nil
}

var errBoom = errors.New("boom")
