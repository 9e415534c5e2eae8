// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/spothub/internal/app/system/auditlog"
	"github.com/dalemusser/spothub/internal/app/system/auth"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/app/system/respond"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
	}
}

// HandleLogout handles POST /auth/logout. The client is told it is signed
// out even if the expiring cookie fails to save.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	c := authz.CallerFrom(r)

	if err := h.SessionMgr.Logout(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	if c.Authenticated() {
		h.AuditLog.Logout(r.Context(), r, c.ID)
	}

	respond.OKMessage(w, nil, "Signed out.")
}
