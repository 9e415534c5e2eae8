// internal/app/bootstrap/services.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/spothub/internal/app/services/bookingservice"
	"github.com/dalemusser/spothub/internal/app/services/loyaltyservice"
	"github.com/dalemusser/spothub/internal/app/services/reviewservice"
	"github.com/dalemusser/spothub/internal/app/services/spotservice"
	"github.com/dalemusser/spothub/internal/app/services/userservice"
	"github.com/dalemusser/spothub/internal/app/store/audit"
	applicationstore "github.com/dalemusser/spothub/internal/app/store/applications"
	loyaltystore "github.com/dalemusser/spothub/internal/app/store/loyalty"
	reviewstore "github.com/dalemusser/spothub/internal/app/store/reviews"
	spotstore "github.com/dalemusser/spothub/internal/app/store/spots"
	userstore "github.com/dalemusser/spothub/internal/app/store/users"
	"github.com/dalemusser/spothub/internal/app/system/auditlog"
	"github.com/dalemusser/spothub/internal/app/system/ratelimit"
	"github.com/dalemusser/spothub/internal/app/system/txn"
	"go.uber.org/zap"
)

// services is the wired service layer shared by the feature handlers.
type services struct {
	Users    *userservice.Service
	Spots    *spotservice.Service
	Bookings *bookingservice.Service
	Reviews  *reviewservice.Service
	Loyalty  *loyaltyservice.Service

	AuditStore *audit.Store
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
}

func buildServices(appCfg AppConfig, deps DBDeps, logger *zap.Logger) services {
	db := deps.MongoDatabase

	users := userstore.New(db)
	spots := spotstore.New(db)
	apps := applicationstore.New(db)
	auditStore := audit.New(db)

	loyalty := loyaltyservice.New(loyaltystore.New(db))

	return services{
		Users:    userservice.New(users, 0, logger),
		Spots:    spotservice.New(spots, logger),
		Bookings: bookingservice.New(apps, spots, logger),
		Reviews: reviewservice.New(reviewstore.New(db), apps, loyalty,
			txn.New(deps.MongoClient, logger), appCfg.LoyaltyPointsPerReview, logger),
		Loyalty: loyalty,

		AuditStore: auditStore,
		AuditLog:   auditlog.New(auditStore, logger, appCfg.auditConfig()),
		Limiter:    loginLimiter(appCfg, deps, logger),
	}
}

// loginLimiter shares counters through Redis when it is configured so that
// limits hold across instances.
func loginLimiter(appCfg AppConfig, deps DBDeps, logger *zap.Logger) *ratelimit.LoginLimiter {
	limit, window := appCfg.LoginRateLimit, appCfg.LoginRateWindow
	if deps.Redis != nil {
		return ratelimit.NewLoginLimiter(
			ratelimit.NewRedis(deps.Redis, "spothub:login:ip:", limit, window),
			ratelimit.NewRedis(deps.Redis, "spothub:login:email:", limit, window),
			logger,
		)
	}
	ctx := deps.Background
	if ctx == nil {
		ctx = context.Background()
	}
	return ratelimit.NewLoginLimiter(
		ratelimit.New(ctx, limit, window),
		ratelimit.New(ctx, limit, window),
		logger,
	)
}
