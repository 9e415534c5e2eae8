// Package loyaltyservice owns per-user point balances. Balances only grow;
// the only producer today is a successful review submission.
package loyaltyservice

import (
	"context"

	"github.com/dalemusser/spothub/internal/app/system/apperr"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the balance persistence. *loyaltystore.Store implements it.
type Store interface {
	Get(ctx context.Context, userID primitive.ObjectID) (models.LoyaltyAccount, error)
	Increment(ctx context.Context, userID primitive.ObjectID, n int64) (models.LoyaltyAccount, error)
}

type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Balance returns the caller's balance, creating a zero balance on first read.
func (s *Service) Balance(ctx context.Context, c authz.Caller) (models.LoyaltyAccount, error) {
	if err := authz.CheckRole(c, authz.LoyaltyView).Err(); err != nil {
		return models.LoyaltyAccount{}, err
	}
	acct, err := s.store.Get(ctx, c.ID)
	if err != nil {
		return models.LoyaltyAccount{}, apperr.Internal(err)
	}
	return acct, nil
}

// Award adds n points to userID. It is an internal side effect with no
// caller check; n must not be negative. Not idempotent: do not retry.
func (s *Service) Award(ctx context.Context, userID primitive.ObjectID, n int64) (models.LoyaltyAccount, error) {
	if n < 0 {
		return models.LoyaltyAccount{}, apperr.New(apperr.InvalidInput, "points must not be negative")
	}
	acct, err := s.store.Increment(ctx, userID, n)
	if err != nil {
		return models.LoyaltyAccount{}, apperr.Internal(err)
	}
	return acct, nil
}
