package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/spothub/internal/app/system/respond"
	"github.com/dalemusser/spothub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Log:    logger,
	}
}

type status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "success":true, "data":{"status":"ok","database":"connected"} }
//
// On DB failure: 503 and
//
//	{ "success":false, "data":{"status":"error","database":"disconnected"}, "message":"Database unavailable" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		respond.JSON(w, http.StatusServiceUnavailable, respond.Envelope{
			Data:    status{Status: "error", Database: "disconnected"},
			Message: "Database unavailable",
		})
		return
	}

	respond.OK(w, status{Status: "ok", Database: "connected"})
}
