// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil unless redis_addr is configured.
	Redis *redis.Client

	// Background lives until Shutdown; in-memory rate limiters sweep on it.
	Background context.Context
	stop       context.CancelFunc
}
