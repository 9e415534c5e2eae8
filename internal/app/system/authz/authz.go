// Package authz is the authorization gate every state change passes through.
//
// Authorize is a pure function of (caller, action, target). Rules apply in
// this order and the first one that fails decides:
//
//  1. anonymous caller: deny "unauthenticated"
//  2. caller role below the action's minimum: deny "forbidden"
//  3. owner-scoped action, caller is admin, target owner != caller: deny "not owner"
//     (a target without an owner is owned by nobody; superadmins skip this rule)
//  4. self-protected action targeting the caller's own user: deny "cannot delete self"
//
// Handlers that have not loaded a target yet call CheckRole, which runs rules 1-2 only.
package authz

import (
	"net/http"

	"github.com/dalemusser/spothub/internal/app/system/apperr"
	"github.com/dalemusser/spothub/internal/app/system/auth"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller is the identity a request acts as. The zero value is anonymous.
type Caller struct {
	ID   primitive.ObjectID
	Role models.Role
}

// Authenticated reports whether c identifies a signed-in user.
func (c Caller) Authenticated() bool {
	return !c.ID.IsZero() && c.Role.Valid()
}

// IsSuperAdmin reports whether c is a signed-in superadmin.
func (c Caller) IsSuperAdmin() bool {
	return c.Authenticated() && c.Role == models.RoleSuperAdmin
}

// CallerFrom returns the request's caller. A missing user or a malformed id
// in the session yields the anonymous caller (fail closed).
func CallerFrom(r *http.Request) Caller {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return Caller{}
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return Caller{}
	}
	return Caller{ID: id, Role: u.Role}
}

// Target describes the entity an action touches.
//   - OwnerID: owner of the spot (or of the booking's spot); nil for legacy spots
//   - UserID: the user record being acted on (user.* actions)
type Target struct {
	OwnerID *primitive.ObjectID
	UserID  *primitive.ObjectID
}

// OwnedBy builds a Target for an entity owned by id (nil for no owner).
func OwnedBy(id *primitive.ObjectID) Target {
	return Target{OwnerID: id}
}

// UserTarget builds a Target for an action on the user record id.
func UserTarget(id primitive.ObjectID) Target {
	return Target{UserID: &id}
}

// Reason explains a denial.
type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
	ReasonNotOwner        Reason = "not owner"
	ReasonSelf            Reason = "cannot delete self"
)

// Decision is the gate's verdict.
type Decision struct {
	Allowed bool
	Reason  Reason
}

var allow = Decision{Allowed: true}

func deny(r Reason) Decision { return Decision{Reason: r} }

// Err converts a denial into an apperr; it returns nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonUnauthenticated {
		return apperr.New(apperr.Unauthenticated, string(d.Reason))
	}
	return apperr.New(apperr.Forbidden, string(d.Reason))
}

// CheckRole applies rules 1-2.
func CheckRole(c Caller, a Action) Decision {
	if !c.Authenticated() {
		return deny(ReasonUnauthenticated)
	}
	r, ok := rules[a]
	if !ok || !c.Role.AtLeast(r.min) {
		return deny(ReasonForbidden)
	}
	return allow
}

// Authorize applies all rules.
func Authorize(c Caller, a Action, t Target) Decision {
	if d := CheckRole(c, a); !d.Allowed {
		return d
	}
	r := rules[a]

	if r.ownerScoped && c.Role == models.RoleAdmin {
		if t.OwnerID == nil || *t.OwnerID != c.ID {
			return deny(ReasonNotOwner)
		}
	}

	if r.selfProtected && t.UserID != nil && *t.UserID == c.ID {
		return deny(ReasonSelf)
	}

	return allow
}
