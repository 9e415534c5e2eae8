package loyalty_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/spothub/internal/app/features/errors"
	"github.com/dalemusser/spothub/internal/app/features/loyalty"
	"github.com/dalemusser/spothub/internal/app/services/loyaltyservice"
	loyaltystore "github.com/dalemusser/spothub/internal/app/store/loyalty"
	"github.com/dalemusser/spothub/internal/domain/models"
	"github.com/dalemusser/spothub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := loyalty.NewHandler(loyaltyservice.New(loyaltystore.New(db)), uierrors.NewErrorLogger(logger), logger)

	r := chi.NewRouter()
	r.Mount("/loyalty", loyalty.Routes(h, testutil.SessionManager(t)))
	return r
}

func TestRoutes_Balance(t *testing.T) {
	router := newRouter(t)
	user := testutil.RegularUser()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/loyalty", nil, user))
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var acct models.LoyaltyAccount
	ok, _, err := testutil.DecodeEnvelope(rec.Body.Bytes(), &acct)
	if err != nil || !ok {
		t.Fatalf("decode: ok=%v err=%v", ok, err)
	}
	if acct.Points != 0 {
		t.Errorf("new account points = %d, want 0", acct.Points)
	}
	if acct.UserID.Hex() != user.ID {
		t.Errorf("user_id = %s, want %s", acct.UserID.Hex(), user.ID)
	}
}

func TestRoutes_Guards(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"anonymous", testutil.NewRequest(http.MethodGet, "/loyalty"), http.StatusUnauthorized},
		{"no client write", testutil.NewAuthenticatedRequest(http.MethodPut, "/loyalty", map[string]int{"points": 100}, testutil.RegularUser()), http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, tt.req)
			if rec.Code != tt.want {
				t.Errorf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
