// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/spothub/internal/app/services/userservice"
	userstore "github.com/dalemusser/spothub/internal/app/store/users"
	"github.com/dalemusser/spothub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after the database is ready and
// before the handler is built: it applies configured deadlines and makes
// sure the configured superadmin exists.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	users := userservice.New(userstore.New(deps.MongoDatabase), 0, logger)
	return ensureSuperAdmin(ctx, users, appCfg, logger)
}

// ensureSuperAdmin promotes or creates the configured superadmin. A missing
// account with no configured password is logged and startup continues; the
// user can sign up and is promoted on the next start.
func ensureSuperAdmin(ctx context.Context, users *userservice.Service, appCfg AppConfig, logger *zap.Logger) error {
	_, err := users.EnsureSuperAdmin(ctx, appCfg.SuperAdminEmail, appCfg.SuperAdminPassword, appCfg.SuperAdminName)
	if errors.Is(err, userservice.ErrBootstrapNoPassword) {
		logger.Warn("superadmin account not found; set superadmin_password to create it",
			zap.String("email", appCfg.SuperAdminEmail))
		return nil
	}
	if err != nil {
		logger.Error("superadmin bootstrap failed", zap.String("email", appCfg.SuperAdminEmail), zap.Error(err))
		return err
	}
	return nil
}
