// Package bookingservice runs the application (booking) lifecycle:
//
//	pending -> accepted | rejected
//	accepted -> completed
//
// rejected and completed are terminal. Completion makes a booking eligible
// for review; it grants nothing by itself.
package bookingservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/spothub/internal/app/store/storeerr"
	"github.com/dalemusser/spothub/internal/app/system/apperr"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/spothub/internal/app/system/inputval"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Applications is the booking persistence. *applicationstore.Store implements it.
type Applications interface {
	Create(ctx context.Context, a models.Application) (models.Application, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error)
	CompareAndSetStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) (*models.Application, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.ApplicationView, error)
	ListForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.ApplicationView, error)
	ListAll(ctx context.Context) ([]models.ApplicationView, error)
}

// Spots resolves the spot a booking refers to. *spotstore.Store implements it.
type Spots interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Spot, error)
}

type Service struct {
	apps  Applications
	spots Spots
	log   *zap.Logger
}

func New(apps Applications, spots Spots, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{apps: apps, spots: spots, log: log}
}

const (
	MsgSpotNotFound    = "spot not found"
	MsgBookingNotFound = "booking not found"
	MsgNotBookable     = "spot is not accepting bookings"
	MsgAlreadyApplied  = "you have already applied to this spot"
	MsgBadStatus       = "status must be one of: pending, accepted, rejected, completed"
	MsgStatusChanged   = "booking status changed; reload and try again"
)

// ApplyInput is a booking request.
type ApplyInput struct {
	SpotID         string `json:"spotId" validate:"required,objectid" label:"Spot"`
	PaymentMethod  string `json:"paymentMethod" validate:"omitempty,payment" label:"Payment method"`
	PaymentDetails string `json:"paymentDetails" validate:"max=500" label:"Payment details"`
}

// Apply creates a pending application from the caller to a spot that is
// approved and active. A second application to the same spot is a Conflict;
// the unique index decides, so concurrent applies cannot both succeed.
func (s *Service) Apply(ctx context.Context, c authz.Caller, in ApplyInput) (*models.Application, error) {
	if err := authz.CheckRole(c, authz.BookingApply).Err(); err != nil {
		return nil, err
	}

	in.SpotID = strings.TrimSpace(in.SpotID)
	in.PaymentMethod = strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	in.PaymentDetails = htmlsanitize.StripTags(in.PaymentDetails)
	if res := inputval.Validate(in); res.HasErrors() {
		return nil, apperr.New(apperr.InvalidInput, res.First())
	}
	spotID, _ := primitive.ObjectIDFromHex(in.SpotID)

	spot, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, MsgSpotNotFound)
		}
		return nil, apperr.Internal(err)
	}
	if spot.Status != models.SpotApproved || !spot.IsActive {
		return nil, apperr.New(apperr.InvalidState, MsgNotBookable)
	}

	a, err := s.apps.Create(ctx, models.Application{
		SpotID:         spotID,
		UserID:         c.ID,
		PaymentMethod:  in.PaymentMethod,
		PaymentDetails: in.PaymentDetails,
	})
	if err != nil {
		if errors.Is(err, storeerr.ErrDuplicate) {
			return nil, apperr.New(apperr.Conflict, MsgAlreadyApplied)
		}
		return nil, apperr.Internal(err)
	}
	return &a, nil
}

// StatusChange is the result of UpdateStatus.
type StatusChange struct {
	Application *models.Application
	From        models.BookingStatus
}

// UpdateStatus moves a booking to status. The caller must own the booking's
// spot (admin) or be a superadmin, and the move must be a legal successor of
// the current status for everyone. The write is compare-and-set on the
// status that was read.
func (s *Service) UpdateStatus(ctx context.Context, c authz.Caller, id primitive.ObjectID, status string) (StatusChange, error) {
	if err := authz.CheckRole(c, authz.BookingUpdateStatus).Err(); err != nil {
		return StatusChange{}, err
	}
	next, ok := models.ParseBookingStatus(status)
	if !ok {
		return StatusChange{}, apperr.New(apperr.InvalidInput, MsgBadStatus)
	}

	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return StatusChange{}, apperr.New(apperr.NotFound, MsgBookingNotFound)
		}
		return StatusChange{}, apperr.Internal(err)
	}

	// A booking whose spot is gone has no owner; only a superadmin passes the gate.
	var owner *primitive.ObjectID
	spot, err := s.spots.GetByID(ctx, app.SpotID)
	switch {
	case err == nil:
		owner = spot.OwnerID
	case !errors.Is(err, storeerr.ErrNotFound):
		return StatusChange{}, apperr.Internal(err)
	}
	if err := authz.Authorize(c, authz.BookingUpdateStatus, authz.OwnedBy(owner)).Err(); err != nil {
		return StatusChange{}, err
	}

	if !app.Status.CanTransitionTo(next) {
		return StatusChange{}, apperr.New(apperr.InvalidState,
			fmt.Sprintf("cannot change booking from %s to %s", app.Status, next))
	}

	updated, err := s.apps.CompareAndSetStatus(ctx, id, app.Status, next)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return StatusChange{}, apperr.New(apperr.InvalidState, MsgStatusChanged)
		}
		return StatusChange{}, apperr.Internal(err)
	}
	s.log.Debug("booking status changed",
		zap.String("booking_id", id.Hex()),
		zap.String("from", string(app.Status)),
		zap.String("to", string(next)))
	return StatusChange{Application: updated, From: app.Status}, nil
}

// List returns the bookings the caller may see: their own (user), those on
// spots they own (admin), or all of them (superadmin).
func (s *Service) List(ctx context.Context, c authz.Caller) ([]models.ApplicationView, error) {
	if err := authz.CheckRole(c, authz.BookingListOwn).Err(); err != nil {
		return nil, err
	}

	var (
		views []models.ApplicationView
		err   error
	)
	switch c.Role {
	case models.RoleSuperAdmin:
		views, err = s.apps.ListAll(ctx)
	case models.RoleAdmin:
		views, err = s.apps.ListForOwner(ctx, c.ID)
	default:
		views, err = s.apps.ListForUser(ctx, c.ID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return views, nil
}
