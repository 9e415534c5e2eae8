// internal/app/features/spots/handler.go
package spots

import (
	"net/http"

	uierrors "github.com/dalemusser/spothub/internal/app/features/errors"
	"github.com/dalemusser/spothub/internal/app/services/spotservice"
	"github.com/dalemusser/spothub/internal/app/system/apperr"
	"github.com/dalemusser/spothub/internal/app/system/auditlog"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Spots    *spotservice.Service
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs the spots feature handler.
func NewHandler(spots *spotservice.Service, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Spots: spots, AuditLog: audit, ErrLog: errLog, Log: logger}
}

// spotID reads the {id} URL param. A malformed id cannot name a spot and is
// reported as not found.
func spotID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.NotFound, spotservice.MsgNotFound)
	}
	return id, nil
}
