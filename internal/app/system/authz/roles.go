// internal/app/system/authz/roles.go
package authz

import "github.com/dalemusser/spothub/internal/domain/models"

// Action names an operation that passes through the gate.
type Action string

const (
	SpotCreate  Action = "spot.create"
	SpotEdit    Action = "spot.edit"
	SpotToggle  Action = "spot.toggle"
	SpotListOwn Action = "spot.list_own"
	SpotReview  Action = "spot.review"
	SpotDelete  Action = "spot.delete"
	SpotListAll Action = "spot.list_all"

	BookingApply        Action = "booking.apply"
	BookingListOwn      Action = "booking.list_own"
	BookingUpdateStatus Action = "booking.update_status"
	BookingListManaged  Action = "booking.list_managed"

	ReviewSubmit  Action = "review.submit"
	ReviewListOwn Action = "review.list_own"

	LoyaltyView Action = "loyalty.view"

	UserList       Action = "user.list"
	UserView       Action = "user.view"
	UserUpdateRole Action = "user.update_role"
	UserDelete     Action = "user.delete"

	AuditView Action = "audit.view"
)

// rule describes what an action requires.
//   - min: lowest role allowed
//   - ownerScoped: admins must own the target; superadmins are exempt
//   - selfProtected: the caller may not target their own user record
type rule struct {
	min           models.Role
	ownerScoped   bool
	selfProtected bool
}

var rules = map[Action]rule{
	SpotCreate:  {min: models.RoleAdmin},
	SpotEdit:    {min: models.RoleAdmin, ownerScoped: true},
	SpotToggle:  {min: models.RoleAdmin, ownerScoped: true},
	SpotListOwn: {min: models.RoleAdmin},
	SpotReview:  {min: models.RoleSuperAdmin},
	SpotDelete:  {min: models.RoleSuperAdmin},
	SpotListAll: {min: models.RoleSuperAdmin},

	BookingApply:        {min: models.RoleUser},
	BookingListOwn:      {min: models.RoleUser},
	BookingUpdateStatus: {min: models.RoleAdmin, ownerScoped: true},
	BookingListManaged:  {min: models.RoleAdmin},

	ReviewSubmit:  {min: models.RoleUser},
	ReviewListOwn: {min: models.RoleUser},

	LoyaltyView: {min: models.RoleUser},

	UserList:       {min: models.RoleSuperAdmin},
	UserView:       {min: models.RoleSuperAdmin},
	UserUpdateRole: {min: models.RoleSuperAdmin},
	UserDelete:     {min: models.RoleSuperAdmin, selfProtected: true},

	AuditView: {min: models.RoleSuperAdmin},
}
