package bookingservice_test

import (
	"context"
	"sync"

	"github.com/dalemusser/spothub/internal/app/store/storeerr"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memApps struct {
	mu    sync.Mutex
	apps  map[primitive.ObjectID]models.Application
	spots memSpots
}

func newMemApps(spots memSpots) *memApps {
	return &memApps{apps: map[primitive.ObjectID]models.Application{}, spots: spots}
}

func (m *memApps) Create(_ context.Context, a models.Application) (models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.apps {
		if e.UserID == a.UserID && e.SpotID == a.SpotID {
			return models.Application{}, storeerr.ErrDuplicate
		}
	}
	a.ID = primitive.NewObjectID()
	a.Status = models.BookingPending
	m.apps[a.ID] = a
	return a, nil
}

func (m *memApps) GetByID(_ context.Context, id primitive.ObjectID) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, storeerr.ErrNotFound
	}
	return &a, nil
}

func (m *memApps) CompareAndSetStatus(_ context.Context, id primitive.ObjectID, from, to models.BookingStatus) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok || a.Status != from {
		return nil, storeerr.ErrNotFound
	}
	a.Status = to
	m.apps[id] = a
	return &a, nil
}

func (m *memApps) set(id primitive.ObjectID, st models.BookingStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.apps[id]
	a.Status = st
	m.apps[id] = a
}

func (m *memApps) filter(keep func(models.Application) bool) []models.ApplicationView {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ApplicationView{}
	for _, a := range m.apps {
		if keep(a) {
			out = append(out, models.ApplicationView{Application: a})
		}
	}
	return out
}

func (m *memApps) ListForUser(_ context.Context, userID primitive.ObjectID) ([]models.ApplicationView, error) {
	return m.filter(func(a models.Application) bool { return a.UserID == userID }), nil
}

func (m *memApps) ListForOwner(_ context.Context, ownerID primitive.ObjectID) ([]models.ApplicationView, error) {
	return m.filter(func(a models.Application) bool { return m.spots[a.SpotID].OwnedBy(ownerID) }), nil
}

func (m *memApps) ListAll(_ context.Context) ([]models.ApplicationView, error) {
	return m.filter(func(models.Application) bool { return true }), nil
}

type memSpots map[primitive.ObjectID]models.Spot

func (m memSpots) GetByID(_ context.Context, id primitive.ObjectID) (*models.Spot, error) {
	s, ok := m[id]
	if !ok {
		return nil, storeerr.ErrNotFound
	}
	return &s, nil
}
