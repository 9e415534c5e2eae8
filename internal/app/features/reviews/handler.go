// internal/app/features/reviews/handler.go
package reviews

import (
	"net/http"

	uierrors "github.com/dalemusser/spothub/internal/app/features/errors"
	"github.com/dalemusser/spothub/internal/app/services/reviewservice"
	"github.com/dalemusser/spothub/internal/app/system/apperr"
	"github.com/dalemusser/spothub/internal/app/system/auditlog"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/app/system/respond"
	"github.com/dalemusser/spothub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Reviews  *reviewservice.Service
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(reviews *reviewservice.Service, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Reviews: reviews, AuditLog: audit, ErrLog: errLog, Log: logger}
}

// HandleSubmit handles POST /reviews.
//
//	{ "bookingId":"...", "rating":5, "comment":"...", "isAnonymous":false }
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var in reviewservice.SubmitInput
	if !h.ErrLog.Decode(w, r, &in) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "submit review")
	defer cancel()

	c := authz.CallerFrom(r)
	res, err := h.Reviews.Submit(ctx, c, in)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.AuditLog.ReviewSubmitted(ctx, r, c.ID, res.Review.ID, res.Review.BookingID, res.Review.Rating, res.PointsAwarded)
	if res.PointsAwarded > 0 {
		h.AuditLog.LoyaltyAwarded(ctx, r, c.ID, res.PointsAwarded, res.Balance, "review")
	}

	respond.Created(w, res, "Review submitted.")
}

// ServeForSpot handles GET /reviews?spotId=...
func (h *Handler) ServeForSpot(w http.ResponseWriter, r *http.Request) {
	raw := query.Get(r, "spotId")
	if raw == "" {
		h.ErrLog.Write(w, r, apperr.New(apperr.InvalidInput, "spotId is required"))
		return
	}
	spotID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		h.ErrLog.Write(w, r, apperr.New(apperr.InvalidInput, "spotId must be a valid id"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list spot reviews")
	defer cancel()

	out, err := h.Reviews.ForSpot(ctx, spotID)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, out)
}

// ServeMine handles GET /reviews/mine.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list own reviews")
	defer cancel()

	out, err := h.Reviews.Mine(ctx, authz.CallerFrom(r))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, out)
}
