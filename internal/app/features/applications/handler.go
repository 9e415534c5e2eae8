// internal/app/features/applications/handler.go
package applications

import (
	"net/http"

	uierrors "github.com/dalemusser/spothub/internal/app/features/errors"
	"github.com/dalemusser/spothub/internal/app/services/bookingservice"
	"github.com/dalemusser/spothub/internal/app/system/apperr"
	"github.com/dalemusser/spothub/internal/app/system/auditlog"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/app/system/respond"
	"github.com/dalemusser/spothub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Bookings *bookingservice.Service
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(bookings *bookingservice.Service, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Bookings: bookings, AuditLog: audit, ErrLog: errLog, Log: logger}
}

// HandleApply handles POST /applications.
//
//	{ "spotId":"...", "paymentMethod":"card", "paymentDetails":"..." }
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	var in bookingservice.ApplyInput
	if !h.ErrLog.Decode(w, r, &in) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "apply for spot")
	defer cancel()

	c := authz.CallerFrom(r)
	app, err := h.Bookings.Apply(ctx, c, in)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.AuditLog.BookingCreated(ctx, r, c.ID, app.ID, app.SpotID)

	respond.Created(w, app, "Application submitted.")
}

// ServeList handles GET /applications. What the caller sees depends on role.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list applications")
	defer cancel()

	views, err := h.Bookings.List(ctx, authz.CallerFrom(r))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, views)
}

type statusInput struct {
	Status string `json:"status"`
}

// HandleUpdateStatus handles PUT /applications/{id}.
//
//	{ "status":"accepted" }
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, apperr.New(apperr.NotFound, bookingservice.MsgBookingNotFound))
		return
	}
	var in statusInput
	if !h.ErrLog.Decode(w, r, &in) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update application status")
	defer cancel()

	c := authz.CallerFrom(r)
	change, err := h.Bookings.UpdateStatus(ctx, c, id, in.Status)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	app := change.Application
	h.AuditLog.BookingStatusChanged(ctx, r, c.ID, app.UserID, app.ID, string(change.From), string(app.Status))

	respond.OKMessage(w, app, "Application "+string(app.Status)+".")
}
