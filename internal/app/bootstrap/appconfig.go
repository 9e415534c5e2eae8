// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds SpotHub's service-specific configuration.
//
// WAFFLE's CoreConfig covers the framework layer (ports, TLS, logging,
// CORS, body limits). Everything below is specific to this app and is
// loaded in LoadConfig from flags, SPOTHUB_* environment variables,
// config files, or defaults.
type AppConfig struct {
	// MongoDB
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Sessions
	SessionKey    string // signs session cookies; must be strong in production
	SessionName   string
	SessionDomain string // blank means current host
	SessionMaxAge time.Duration

	// Redis backs the login rate limiter when RedisAddr is set; otherwise
	// limits are kept in process.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LoginRateLimit  int           // attempts per window, per IP and per email
	LoginRateWindow time.Duration

	// Audit logging: "all", "db", "log", or "off" per category.
	AuditLogAuth    string
	AuditLogAdmin   string
	AuditLogBooking string

	// Points credited for each review. 0 disables awards.
	LoyaltyPointsPerReview int64

	// Database operation deadlines.
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// SuperAdmin bootstrap. The account is promoted, or created when a
	// password is given.
	SuperAdminEmail    string
	SuperAdminPassword string
	SuperAdminName     string
}
