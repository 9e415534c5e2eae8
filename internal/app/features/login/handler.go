// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/spothub/internal/app/features/errors"
	"github.com/dalemusser/spothub/internal/app/services/userservice"
	"github.com/dalemusser/spothub/internal/app/system/auditlog"
	"github.com/dalemusser/spothub/internal/app/system/auth"
	"github.com/dalemusser/spothub/internal/app/system/ratelimit"
	"github.com/dalemusser/spothub/internal/app/system/respond"
	"github.com/dalemusser/spothub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userservice.Service
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	AuditLog   *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(users *userservice.Service, sm *auth.SessionManager, limiter *ratelimit.LoginLimiter,
	audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sm,
		Limiter:    limiter,
		AuditLog:   audit,
		ErrLog:     errLog,
		Log:        logger,
	}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if !h.ErrLog.Decode(w, r, &in) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(ctx, r, in.Email); !ok {
			h.AuditLog.LoginFailedRateLimit(ctx, r, in.Email)
			respond.Fail(w, http.StatusTooManyRequests, reason)
			return
		}
	}

	u, err := h.Users.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrWrongPassword):
			h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, u.Email)
		case errors.Is(err, userservice.ErrUnknownEmail):
			h.AuditLog.LoginFailedUserNotFound(ctx, r, in.Email)
		}
		h.ErrLog.Write(w, r, err)
		return
	}

	if err := h.SessionMgr.Login(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Unable to sign in.")
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(ctx, u.Email)
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.Email)

	respond.OKMessage(w, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}, "Signed in.")
}
