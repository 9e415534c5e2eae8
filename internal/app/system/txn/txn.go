// Package txn runs multi-document writes inside a MongoDB transaction when
// the deployment supports it (replica set or sharded cluster) and falls back
// to plain sequential writes on a standalone server.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Runner executes fn as one unit of work.
type Runner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// Mongo is a Runner backed by client sessions.
type Mongo struct {
	client *mongo.Client
	log    *zap.Logger
}

// New returns a Runner for client.
func New(client *mongo.Client, log *zap.Logger) *Mongo {
	return &Mongo{client: client, log: log}
}

// Run executes fn in a transaction. If the server rejects transactions, fn is
// run once more without one and the writes are not atomic together.
func (m *Mongo) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := m.client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return m.fallback(ctx, fn, err)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return m.fallback(ctx, fn, err)
	}
	return err
}

func (m *Mongo) fallback(ctx context.Context, fn func(ctx context.Context) error, cause error) error {
	if m.log != nil {
		m.log.Debug("transactions unavailable; running without", zap.Error(cause))
	}
	return fn(ctx)
}

// Passthrough runs fn directly. Used for tests and single-write paths.
type Passthrough struct{}

func (Passthrough) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// IsNotSupported reports whether err means the deployment cannot run transactions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, // IllegalOperation: transactions on a standalone
			51,  // legacy IllegalOperation variant
			263: // OperationNotSupportedInTransaction
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	has := func(words ...string) bool {
		for _, w := range words {
			if !strings.Contains(msg, w) {
				return false
			}
		}
		return true
	}
	return has("transaction", "replica set") ||
		has("session", "not supported") ||
		has("transaction", "session") ||
		has("illegal operation")
}
