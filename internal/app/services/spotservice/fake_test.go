package spotservice_test

import (
	"context"
	"sort"
	"sync"
	"time"

	spotstore "github.com/dalemusser/spothub/internal/app/store/spots"
	"github.com/dalemusser/spothub/internal/app/store/storeerr"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore mirrors the conditional-write semantics of spotstore.Store.
type memStore struct {
	mu    sync.Mutex
	spots map[primitive.ObjectID]models.Spot
}

func newMemStore() *memStore {
	return &memStore{spots: map[primitive.ObjectID]models.Spot{}}
}

func (m *memStore) put(s models.Spot) models.Spot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	m.spots[s.ID] = s
	return s
}

func (m *memStore) Create(_ context.Context, s models.Spot) (models.Spot, error) {
	s.ID = primitive.NewObjectID()
	s.CreatedAt = time.Now()
	return m.put(s), nil
}

func (m *memStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Spot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.spots[id]
	if !ok {
		return nil, storeerr.ErrNotFound
	}
	return &s, nil
}

func (m *memStore) update(id primitive.ObjectID, want models.SpotStatus, fn func(*models.Spot)) (*models.Spot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.spots[id]
	if !ok || s.Status != want {
		return nil, storeerr.ErrNotFound
	}
	fn(&s)
	m.spots[id] = s
	return &s, nil
}

func (m *memStore) UpdateContentIfApproved(_ context.Context, id primitive.ObjectID, c models.SpotContent) (*models.Spot, error) {
	return m.update(id, models.SpotApproved, func(s *models.Spot) {
		s.Title, s.Description, s.Location, s.Category = c.Title, c.Description, c.Location, c.Category
		s.Price, s.Images, s.Amenities = c.Price, c.Images, c.Amenities
	})
}

func (m *memStore) ToggleActiveIfApproved(_ context.Context, id primitive.ObjectID) (*models.Spot, error) {
	return m.update(id, models.SpotApproved, func(s *models.Spot) { s.IsActive = !s.IsActive })
}

func (m *memStore) Moderate(_ context.Context, id primitive.ObjectID, status models.SpotStatus, reviewer primitive.ObjectID, notes string) (*models.Spot, error) {
	return m.update(id, models.SpotPending, func(s *models.Spot) {
		now := time.Now()
		s.Status, s.ReviewedBy, s.ReviewNotes, s.ReviewedAt = status, &reviewer, notes, &now
	})
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.spots[id]; !ok {
		return storeerr.ErrNotFound
	}
	delete(m.spots, id)
	return nil
}

func (m *memStore) all() []models.Spot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Spot, 0, len(m.spots))
	for _, s := range m.spots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) ListPublic(_ context.Context, f spotstore.PublicFilter) ([]models.Spot, error) {
	out := []models.Spot{}
	for _, s := range m.all() {
		if s.Status == models.SpotApproved && s.IsActive && (f.Category == "" || s.Category == f.Category) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Spot, error) {
	out := []models.Spot{}
	for _, s := range m.all() {
		if s.OwnedBy(owner) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListWithOwners(_ context.Context, status models.SpotStatus) ([]models.SpotView, error) {
	out := []models.SpotView{}
	for _, s := range m.all() {
		if status == "" || s.Status == status {
			out = append(out, models.SpotView{Spot: s})
		}
	}
	return out, nil
}
