package userservice_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dalemusser/spothub/internal/app/store/storeerr"
	userstore "github.com/dalemusser/spothub/internal/app/store/users"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore mirrors userstore: email is unique.
type memStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newMemStore() *memStore {
	return &memStore{users: map[primitive.ObjectID]models.User{}}
}

func (m *memStore) Create(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return models.User{}, storeerr.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, storeerr.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, storeerr.ErrNotFound
}

func (m *memStore) List(_ context.Context, f userstore.ListFilter) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Search != "" && !strings.HasPrefix(strings.ToLower(u.Name), strings.ToLower(f.Search)) {
			continue
		}
		u.PasswordHash = ""
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) UpdateRole(_ context.Context, id primitive.ObjectID, role models.Role) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, storeerr.ErrNotFound
	}
	u.Role = role
	m.users[id] = u
	return &u, nil
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return storeerr.ErrNotFound
	}
	delete(m.users, id)
	return nil
}
