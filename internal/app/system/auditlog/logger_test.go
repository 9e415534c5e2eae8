package auditlog_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/spothub/internal/app/store/audit"
	"github.com/dalemusser/spothub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type memStore struct {
	events []audit.Event
	err    error
}

func (m *memStore) Log(_ context.Context, e audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func TestLog_NilLogger(t *testing.T) {
	var l *auditlog.Logger
	// must not panic
	l.Log(context.Background(), audit.Event{Category: audit.CategoryAuth})
}

func TestLog_Destinations(t *testing.T) {
	tests := []struct {
		setting string
		wantDB  int
		wantZap int
	}{
		{auditlog.All, 1, 1},
		{auditlog.DB, 1, 0},
		{auditlog.Log, 0, 1},
		{auditlog.Off, 0, 0},
		{"", 1, 1}, // unset defaults to all
	}

	for _, tt := range tests {
		t.Run("setting="+tt.setting, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			store := &memStore{}
			l := auditlog.New(store, zap.New(core), auditlog.Config{Admin: tt.setting})

			r := httptest.NewRequest("PATCH", "/spots/1", nil)
			l.SpotChanged(context.Background(), r, audit.EventSpotApproved, primitive.NewObjectID(), primitive.NewObjectID(),
				map[string]string{"notes": "looks good"})

			if len(store.events) != tt.wantDB {
				t.Errorf("db events = %d, want %d", len(store.events), tt.wantDB)
			}
			if logs.Len() != tt.wantZap {
				t.Errorf("zap entries = %d, want %d", logs.Len(), tt.wantZap)
			}
		})
	}
}

func TestSpotChanged_Details(t *testing.T) {
	store := &memStore{}
	l := auditlog.New(store, zap.NewNop(), auditlog.Config{})
	spotID := primitive.NewObjectID()

	l.SpotChanged(context.Background(), httptest.NewRequest("PATCH", "/spots/x", nil),
		audit.EventSpotRejected, primitive.NewObjectID(), spotID, map[string]string{"notes": "blurry photos"})

	if len(store.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(store.events))
	}
	d := store.events[0].Details
	if d["spot_id"] != spotID.Hex() || d["notes"] != "blurry photos" {
		t.Errorf("unexpected details %+v", d)
	}
	if store.events[0].Category != audit.CategoryAdmin {
		t.Errorf("category = %q", store.events[0].Category)
	}
}

func TestLog_FailedLoginIsWarning(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := auditlog.New(&memStore{}, zap.New(core), auditlog.Config{Auth: auditlog.Log})

	l.LoginFailedUserNotFound(context.Background(), httptest.NewRequest("POST", "/auth/login", nil), "ghost@example.com")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("level = %v, want warn", entries[0].Level)
	}
}

func TestLog_StoreErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	l := auditlog.New(&memStore{err: errors.New("write failed")}, zap.New(core), auditlog.Config{Booking: auditlog.DB})

	l.BookingCreated(context.Background(), httptest.NewRequest("POST", "/applications", nil),
		primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID())

	if logs.FilterMessage("failed to store audit event").Len() != 1 {
		t.Error("expected store failure to be logged")
	}
}
