package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/spothub/internal/app/system/respond"
)

func TestOK_WritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.OK(rec, map[string]int{"n": 3})

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
		Message *string        `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data["n"] != 3 {
		t.Errorf("unexpected body: %+v", body)
	}
	if body.Message != nil {
		t.Error("message should be omitted when empty")
	}
}

func TestFail_OmitsData(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Fail(rec, http.StatusConflict, "You have already applied for this spot")

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d", rec.Code)
	}
	got := strings.TrimSpace(rec.Body.String())
	want := `{"success":false,"message":"You have already applied for this spot"}`
	if got != want {
		t.Errorf("body: got %s, want %s", got, want)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		ct      string
		wantErr bool
	}{
		{"valid", `{"title":"Lake"}`, "application/json", false},
		{"valid with charset", `{"title":"Lake"}`, "application/json; charset=utf-8", false},
		{"no content type", `{"title":"Lake"}`, "", false},
		{"empty", ``, "application/json", true},
		{"malformed", `{"title":`, "application/json", true},
		{"form encoded", `title=Lake`, "application/x-www-form-urlencoded", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/spots", strings.NewReader(tt.body))
			if tt.ct != "" {
				req.Header.Set("Content-Type", tt.ct)
			}
			rec := httptest.NewRecorder()

			var dst struct {
				Title string `json:"title"`
			}
			err := respond.Decode(rec, req, &dst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, respond.ErrBadBody) {
				t.Errorf("expected ErrBadBody, got %v", err)
			}
			if err == nil && dst.Title != "Lake" {
				t.Errorf("Title = %q", dst.Title)
			}
		})
	}
}
