package auditlog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/spothub/internal/app/features/auditlog"
	uierrors "github.com/dalemusser/spothub/internal/app/features/errors"
	"github.com/dalemusser/spothub/internal/app/store/audit"
	"github.com/dalemusser/spothub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type result struct {
	Events []audit.Event `json:"events"`
	Total  int64         `json:"total"`
	Limit  int64         `json:"limit"`
	Offset int64         `json:"offset"`
}

func seed(t *testing.T, store *audit.Store, ctx context.Context, userID primitive.ObjectID) {
	t.Helper()
	day := func(d int) time.Time { return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC) }
	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &userID, Timestamp: day(1), Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, UserID: &userID, Timestamp: day(2)},
		{Category: audit.CategoryBooking, EventType: audit.EventBookingCreated, UserID: &userID, Timestamp: day(3), Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventSpotApproved, Timestamp: day(4), Success: true},
	}
	for _, ev := range events {
		if err := store.Log(ctx, ev); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestServeList_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := audit.New(db)
	userID := primitive.NewObjectID()
	seed(t, store, ctx, userID)

	logger := zap.NewNop()
	h := auditlog.NewHandler(store, uierrors.NewErrorLogger(logger), logger)
	r := chi.NewRouter()
	r.Mount("/audit", auditlog.Routes(h, testutil.SessionManager(t)))
	super := testutil.SuperAdminUser()

	tests := []struct {
		query string
		total int64
		first string
	}{
		{"", 4, audit.EventSpotApproved},
		{"?category=auth", 2, audit.EventLoginFailedWrongPassword},
		{"?event_type=booking_created", 1, audit.EventBookingCreated},
		{"?user_id=" + userID.Hex(), 3, audit.EventBookingCreated},
		{"?start_date=2026-03-02&end_date=2026-03-03", 2, audit.EventBookingCreated},
		{"?end_date=2026-03-01", 1, audit.EventLoginSuccess},
		{"?start_date=garbage", 4, audit.EventSpotApproved},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/audit"+tt.query, nil, super))
			if rec.Code != http.StatusOK {
				t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
			}
			var res result
			if _, _, err := testutil.DecodeEnvelope(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if res.Total != tt.total || int64(len(res.Events)) != tt.total {
				t.Fatalf("total %d, events %d, want %d", res.Total, len(res.Events), tt.total)
			}
			if res.Events[0].EventType != tt.first {
				t.Errorf("newest: got %s, want %s", res.Events[0].EventType, tt.first)
			}
		})
	}

	// Paging keeps the full total.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/audit?limit=1&offset=1", nil, super))
	var res result
	testutil.DecodeEnvelope(rec.Body.Bytes(), &res)
	if res.Total != 4 || len(res.Events) != 1 || res.Events[0].EventType != audit.EventBookingCreated {
		t.Errorf("paged: %+v", res)
	}
}

func TestServeList_Rejects(t *testing.T) {
	logger := zap.NewNop()
	h := auditlog.NewHandler(failingEvents{}, uierrors.NewErrorLogger(logger), logger)
	r := chi.NewRouter()
	r.Mount("/audit", auditlog.Routes(h, testutil.SessionManager(t)))

	tests := []struct {
		name string
		req  *http.Request
		code int
	}{
		{"anonymous", testutil.NewRequest(http.MethodGet, "/audit"), http.StatusUnauthorized},
		{"admin", testutil.NewAuthenticatedRequest(http.MethodGet, "/audit", nil, testutil.AdminUser()), http.StatusForbidden},
		{"bad category", testutil.NewAuthenticatedRequest(http.MethodGet, "/audit?category=nope", nil, testutil.SuperAdminUser()), http.StatusBadRequest},
		{"bad user id", testutil.NewAuthenticatedRequest(http.MethodGet, "/audit?user_id=zz", nil, testutil.SuperAdminUser()), http.StatusBadRequest},
		{"store failure", testutil.NewAuthenticatedRequest(http.MethodGet, "/audit", nil, testutil.SuperAdminUser()), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, tt.req)
			if rec.Code != tt.code {
				t.Errorf("got %d, want %d", rec.Code, tt.code)
			}
		})
	}
}

type failingEvents struct{}

func (failingEvents) Query(context.Context, audit.QueryFilter) ([]audit.Event, error) {
	return nil, errors.New("boom")
}

func (failingEvents) CountByFilter(context.Context, audit.QueryFilter) (int64, error) {
	return 0, errors.New("boom")
}
