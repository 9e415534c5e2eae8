// internal/app/features/loyalty/handler.go
package loyalty

import (
	"net/http"

	uierrors "github.com/dalemusser/spothub/internal/app/features/errors"
	"github.com/dalemusser/spothub/internal/app/services/loyaltyservice"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/app/system/respond"
	"github.com/dalemusser/spothub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Loyalty *loyaltyservice.Service
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(loyalty *loyaltyservice.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Loyalty: loyalty, ErrLog: errLog, Log: logger}
}

// ServeBalance handles GET /loyalty.
//
//	{ "success":true, "data":{"user_id":"...","points":3,...} }
func (h *Handler) ServeBalance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "loyalty balance")
	defer cancel()

	acct, err := h.Loyalty.Balance(ctx, authz.CallerFrom(r))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, acct)
}

