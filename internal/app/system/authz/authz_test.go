package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/spothub/internal/app/system/apperr"
	"github.com/dalemusser/spothub/internal/app/system/auth"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func caller(role models.Role) authz.Caller {
	return authz.Caller{ID: primitive.NewObjectID(), Role: role}
}

func TestAuthorize_Rules(t *testing.T) {
	admin := caller(models.RoleAdmin)
	other := primitive.NewObjectID()
	super := caller(models.RoleSuperAdmin)
	user := caller(models.RoleUser)

	tests := []struct {
		name   string
		caller authz.Caller
		action authz.Action
		target authz.Target
		want   authz.Decision
	}{
		{"anonymous apply", authz.Caller{}, authz.BookingApply, authz.Target{}, authz.Decision{Reason: authz.ReasonUnauthenticated}},
		{"anonymous create", authz.Caller{}, authz.SpotCreate, authz.Target{}, authz.Decision{Reason: authz.ReasonUnauthenticated}},
		{"user applies", user, authz.BookingApply, authz.Target{}, authz.Decision{Allowed: true}},
		{"user creates spot", user, authz.SpotCreate, authz.Target{}, authz.Decision{Reason: authz.ReasonForbidden}},
		{"admin creates spot", admin, authz.SpotCreate, authz.Target{}, authz.Decision{Allowed: true}},
		{"admin reviews spot", admin, authz.SpotReview, authz.Target{}, authz.Decision{Reason: authz.ReasonForbidden}},
		{"admin hard deletes", admin, authz.SpotDelete, authz.Target{}, authz.Decision{Reason: authz.ReasonForbidden}},
		{"admin edits own", admin, authz.SpotEdit, authz.OwnedBy(&admin.ID), authz.Decision{Allowed: true}},
		{"admin edits other", admin, authz.SpotEdit, authz.OwnedBy(&other), authz.Decision{Reason: authz.ReasonNotOwner}},
		{"admin edits ownerless", admin, authz.SpotEdit, authz.OwnedBy(nil), authz.Decision{Reason: authz.ReasonNotOwner}},
		{"admin toggles other", admin, authz.SpotToggle, authz.OwnedBy(&other), authz.Decision{Reason: authz.ReasonNotOwner}},
		{"admin manages own booking", admin, authz.BookingUpdateStatus, authz.OwnedBy(&admin.ID), authz.Decision{Allowed: true}},
		{"admin manages other booking", admin, authz.BookingUpdateStatus, authz.OwnedBy(&other), authz.Decision{Reason: authz.ReasonNotOwner}},
		{"super edits other", super, authz.SpotEdit, authz.OwnedBy(&other), authz.Decision{Allowed: true}},
		{"super edits ownerless", super, authz.SpotEdit, authz.OwnedBy(nil), authz.Decision{Allowed: true}},
		{"super manages booking", super, authz.BookingUpdateStatus, authz.OwnedBy(&other), authz.Decision{Allowed: true}},
		{"super deletes other user", super, authz.UserDelete, authz.UserTarget(other), authz.Decision{Allowed: true}},
		{"super deletes self", super, authz.UserDelete, authz.UserTarget(super.ID), authz.Decision{Reason: authz.ReasonSelf}},
		{"super updates own role", super, authz.UserUpdateRole, authz.UserTarget(super.ID), authz.Decision{Allowed: true}},
		{"admin deletes user", admin, authz.UserDelete, authz.UserTarget(other), authz.Decision{Reason: authz.ReasonForbidden}},
		{"unknown action", super, authz.Action("spot.teleport"), authz.Target{}, authz.Decision{Reason: authz.ReasonForbidden}},
		{"unknown role", authz.Caller{ID: primitive.NewObjectID(), Role: "member"}, authz.BookingApply, authz.Target{}, authz.Decision{Reason: authz.ReasonUnauthenticated}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := authz.Authorize(tt.caller, tt.action, tt.target)
			if got != tt.want {
				t.Errorf("Authorize = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAuthorize_RoleBeforeOwnership(t *testing.T) {
	// A user owning the target still fails on role first.
	u := caller(models.RoleUser)
	got := authz.Authorize(u, authz.SpotEdit, authz.OwnedBy(&u.ID))
	if got.Reason != authz.ReasonForbidden {
		t.Errorf("expected forbidden, got %+v", got)
	}
}

func TestDecision_Err(t *testing.T) {
	if err := (authz.Decision{Allowed: true}).Err(); err != nil {
		t.Errorf("allowed decision returned %v", err)
	}

	tests := []struct {
		reason authz.Reason
		kind   apperr.Kind
	}{
		{authz.ReasonUnauthenticated, apperr.Unauthenticated},
		{authz.ReasonForbidden, apperr.Forbidden},
		{authz.ReasonNotOwner, apperr.Forbidden},
		{authz.ReasonSelf, apperr.Forbidden},
	}
	for _, tt := range tests {
		err := authz.Decision{Reason: tt.reason}.Err()
		if apperr.KindOf(err) != tt.kind {
			t.Errorf("%s: kind = %v, want %v", tt.reason, apperr.KindOf(err), tt.kind)
		}
		if apperr.MessageOf(err) != string(tt.reason) {
			t.Errorf("%s: message = %q", tt.reason, apperr.MessageOf(err))
		}
	}
}

func TestCallerFrom(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if c := authz.CallerFrom(req); c.Authenticated() {
		t.Error("expected anonymous caller without session user")
	}

	id := primitive.NewObjectID()
	req = auth.WithTestUser(req, &auth.SessionUser{ID: id.Hex(), Role: models.RoleAdmin})
	c := authz.CallerFrom(req)
	if c.ID != id || c.Role != models.RoleAdmin {
		t.Errorf("unexpected caller %+v", c)
	}

	bad := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "not-hex", Role: models.RoleAdmin})
	if authz.CallerFrom(bad).Authenticated() {
		t.Error("malformed id must fail closed")
	}
}
