package loyaltyservice_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dalemusser/spothub/internal/app/services/loyaltyservice"
	"github.com/dalemusser/spothub/internal/app/system/apperr"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memStore struct {
	mu       sync.Mutex
	balances map[primitive.ObjectID]int64
}

func (m *memStore) Get(_ context.Context, id primitive.ObjectID) (models.LoyaltyAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.LoyaltyAccount{UserID: id, Points: m.balances[id]}, nil
}

func (m *memStore) Increment(_ context.Context, id primitive.ObjectID, n int64) (models.LoyaltyAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[id] += n
	return models.LoyaltyAccount{UserID: id, Points: m.balances[id]}, nil
}

func TestBalance(t *testing.T) {
	svc := loyaltyservice.New(&memStore{balances: map[primitive.ObjectID]int64{}})

	_, err := svc.Balance(context.Background(), authz.Caller{})
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))

	acct, err := svc.Balance(context.Background(), authz.Caller{ID: primitive.NewObjectID(), Role: models.RoleUser})
	require.NoError(t, err)
	assert.Zero(t, acct.Points)
}

func TestAward(t *testing.T) {
	svc := loyaltyservice.New(&memStore{balances: map[primitive.ObjectID]int64{}})
	user := primitive.NewObjectID()

	_, err := svc.Award(context.Background(), user, -3)
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))

	for i := 0; i < 3; i++ {
		_, err := svc.Award(context.Background(), user, 1)
		require.NoError(t, err)
	}
	acct, err := svc.Balance(context.Background(), authz.Caller{ID: user, Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, int64(3), acct.Points)
}
