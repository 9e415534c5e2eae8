// internal/app/features/signup/handler.go
package signup

import (
	"net/http"

	uierrors "github.com/dalemusser/spothub/internal/app/features/errors"
	"github.com/dalemusser/spothub/internal/app/services/userservice"
	"github.com/dalemusser/spothub/internal/app/system/auditlog"
	"github.com/dalemusser/spothub/internal/app/system/respond"
	"github.com/dalemusser/spothub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userservice.Service
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(users *userservice.Service, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, AuditLog: audit, ErrLog: errLog, Log: logger}
}

// HandleSignup handles POST /auth/signup. The new account is not signed in.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in userservice.RegisterInput
	if !h.ErrLog.Decode(w, r, &in) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "signup")
	defer cancel()

	u, err := h.Users.Register(ctx, in)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.AuditLog.Signup(ctx, r, u.ID, u.Email)

	respond.Created(w, u, "Account created.")
}
