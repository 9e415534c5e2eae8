// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/spothub/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// Minimum lengths enforced by ValidateConfig.
const (
	minProdSessionKey     = 32
	minSuperAdminPassword = 8
)

// appConfigKeys defines the configuration keys for SpotHub. Each key can be
// set in a config file (mongo_uri), the environment (SPOTHUB_MONGO_URI), or
// a flag (--mongo_uri).
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "spothub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "spothub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session lifetime (e.g., 24h, 30m)"},

	// Rate limiting
	{Name: "redis_addr", Default: "", Desc: "Redis address for shared login rate limits (blank keeps limits in memory)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "login_rate_limit", Default: 5, Desc: "Login attempts allowed per window, per IP and per email"},
	{Name: "login_rate_window", Default: "1m", Desc: "Login rate limit window"},

	// Audit logging
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_booking", Default: "all", Desc: "Booking event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "loyalty_points_per_review", Default: 1, Desc: "Loyalty points credited per review (0 disables)"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for listings"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for multi-collection operations"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the superadmin user (promotes/creates on startup)"},
	{Name: "superadmin_password", Default: "", Desc: "Password used only when the superadmin account must be created"},
	{Name: "superadmin_name", Default: "Super Admin", Desc: "Display name for a created superadmin"},
}

// LoadConfig loads WAFFLE core config and SpotHub's app config.
// Precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SPOTHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		RedisAddr:       appValues.String("redis_addr"),
		RedisPassword:   appValues.String("redis_password"),
		RedisDB:         appValues.Int("redis_db"),
		LoginRateLimit:  appValues.Int("login_rate_limit"),
		LoginRateWindow: appValues.Duration("login_rate_window", time.Minute),

		AuditLogAuth:    appValues.String("audit_log_auth"),
		AuditLogAdmin:   appValues.String("audit_log_admin"),
		AuditLogBooking: appValues.String("audit_log_booking"),

		LoyaltyPointsPerReview: int64(appValues.Int("loyalty_points_per_review")),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),

		SuperAdminEmail:    appValues.String("superadmin_email"),
		SuperAdminPassword: appValues.String("superadmin_password"),
		SuperAdminName:     appValues.String("superadmin_name"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configurations that would fail later or run
// insecurely. It is called before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.SessionKey == "" {
		return fmt.Errorf("session_key is required")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.SessionKey) < minProdSessionKey {
		return fmt.Errorf("session_key must be at least %d bytes in production", minProdSessionKey)
	}
	if appCfg.LoyaltyPointsPerReview < 0 {
		return fmt.Errorf("loyalty_points_per_review must not be negative")
	}
	if appCfg.LoginRateLimit < 1 {
		return fmt.Errorf("login_rate_limit must be at least 1")
	}
	if appCfg.LoginRateWindow <= 0 {
		return fmt.Errorf("login_rate_window must be positive")
	}
	if appCfg.SuperAdminPassword != "" && utf8.RuneCountInString(appCfg.SuperAdminPassword) < minSuperAdminPassword {
		return fmt.Errorf("superadmin_password must be at least %d characters", minSuperAdminPassword)
	}
	for name, v := range map[string]string{
		"audit_log_auth":    appCfg.AuditLogAuth,
		"audit_log_admin":   appCfg.AuditLogAdmin,
		"audit_log_booking": appCfg.AuditLogBooking,
	} {
		switch v {
		case "", auditlog.All, auditlog.DB, auditlog.Log, auditlog.Off:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", name, v)
		}
	}
	return nil
}

func (c AppConfig) auditConfig() auditlog.Config {
	return auditlog.Config{Auth: c.AuditLogAuth, Admin: c.AuditLogAdmin, Booking: c.AuditLogBooking}
}
