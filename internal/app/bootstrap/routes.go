// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	applicationsfeature "github.com/dalemusser/spothub/internal/app/features/applications"
	auditlogfeature "github.com/dalemusser/spothub/internal/app/features/auditlog"
	errorsfeature "github.com/dalemusser/spothub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/spothub/internal/app/features/health"
	loginfeature "github.com/dalemusser/spothub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/spothub/internal/app/features/logout"
	loyaltyfeature "github.com/dalemusser/spothub/internal/app/features/loyalty"
	reviewsfeature "github.com/dalemusser/spothub/internal/app/features/reviews"
	signupfeature "github.com/dalemusser/spothub/internal/app/features/signup"
	spotsfeature "github.com/dalemusser/spothub/internal/app/features/spots"
	systemusersfeature "github.com/dalemusser/spothub/internal/app/features/systemusers"
	userinfofeature "github.com/dalemusser/spothub/internal/app/features/userinfo"
	userstore "github.com/dalemusser/spothub/internal/app/store/users"
	"github.com/dalemusser/spothub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router. WAFFLE calls it after config,
// connections, schema setup, and Startup have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request, so role changes and deletions take
	// effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	return newRouter(sessionMgr, buildServices(appCfg, deps, logger), deps, logger), nil
}

func newRouter(sessionMgr *auth.SessionManager, svc services, deps DBDeps, logger *zap.Logger) chi.Router {
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Loads the SessionUser into context when a valid session cookie is present.
	r.Use(sessionMgr.LoadSessionUser)

	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	// Authentication
	r.Route("/auth", func(ar chi.Router) {
		ar.Mount("/signup", signupfeature.Routes(signupfeature.NewHandler(svc.Users, svc.AuditLog, errLog, logger)))
		ar.Mount("/login", loginfeature.Routes(loginfeature.NewHandler(svc.Users, sessionMgr, svc.Limiter, svc.AuditLog, errLog, logger)))
		ar.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, svc.AuditLog, logger), sessionMgr))
		ar.Mount("/me", userinfofeature.Routes(userinfofeature.NewHandler(), sessionMgr))
	})

	// Catalog and moderation
	spotsHandler := spotsfeature.NewHandler(svc.Spots, svc.AuditLog, errLog, logger)
	r.Mount("/spots", spotsfeature.Routes(spotsHandler, sessionMgr))

	// Bookings, reviews, loyalty
	appsHandler := applicationsfeature.NewHandler(svc.Bookings, svc.AuditLog, errLog, logger)
	r.Mount("/applications", applicationsfeature.Routes(appsHandler, sessionMgr))

	reviewsHandler := reviewsfeature.NewHandler(svc.Reviews, svc.AuditLog, errLog, logger)
	r.Mount("/reviews", reviewsfeature.Routes(reviewsHandler, sessionMgr))

	loyaltyHandler := loyaltyfeature.NewHandler(svc.Loyalty, errLog, logger)
	r.Mount("/loyalty", loyaltyfeature.Routes(loyaltyHandler, sessionMgr))

	// Administration
	usersHandler := systemusersfeature.NewHandler(svc.Users, svc.AuditLog, errLog, logger)
	r.Mount("/users", systemusersfeature.Routes(usersHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(svc.AuditStore, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r
}
