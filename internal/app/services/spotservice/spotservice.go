// Package spotservice manages a spot's moderation state and its independent
// active flag.
//
// Moderation: pending -> approved | rejected. Content edits and active
// toggles are only legal while approved. Admins never hard-delete; their
// delete is a toggle. Superadmins hard-delete.
package spotservice

import (
	"context"
	"errors"
	"strings"

	spotstore "github.com/dalemusser/spothub/internal/app/store/spots"
	"github.com/dalemusser/spothub/internal/app/store/storeerr"
	"github.com/dalemusser/spothub/internal/app/system/apperr"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/spothub/internal/app/system/inputval"
	"github.com/dalemusser/spothub/internal/app/system/normalize"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the persistence the engine needs. *spotstore.Store implements it.
type Store interface {
	Create(ctx context.Context, s models.Spot) (models.Spot, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Spot, error)
	UpdateContentIfApproved(ctx context.Context, id primitive.ObjectID, c models.SpotContent) (*models.Spot, error)
	ToggleActiveIfApproved(ctx context.Context, id primitive.ObjectID) (*models.Spot, error)
	Moderate(ctx context.Context, id primitive.ObjectID, status models.SpotStatus, reviewerID primitive.ObjectID, notes string) (*models.Spot, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListPublic(ctx context.Context, f spotstore.PublicFilter) ([]models.Spot, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Spot, error)
	ListWithOwners(ctx context.Context, status models.SpotStatus) ([]models.SpotView, error)
}

type Service struct {
	store Store
	log   *zap.Logger
}

func New(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// Error messages shared with handlers and tests.
const (
	MsgNotFound      = "spot not found"
	MsgEditState     = "only approved spots can be edited"
	MsgToggleState   = "only approved spots can be enabled or disabled"
	MsgReviewState   = "only pending spots can be reviewed"
	MsgBadAction     = "action must be approve or reject"
	MsgNotesRequired = "review notes are required when rejecting a spot"
	MsgBadSpotStatus = "status must be one of: pending, approved, rejected"
)

const maxReviewNotesLen = 1000

// Input is the client-supplied content of a spot.
type Input struct {
	Title       string   `json:"title" validate:"required,max=200" label:"Title"`
	Description string   `json:"description" validate:"required,max=5000" label:"Description"`
	Location    string   `json:"location" validate:"required,max=200" label:"Location"`
	Category    string   `json:"category" validate:"required,max=50" label:"Category"`
	Price       float64  `json:"price" validate:"gte=0,lte=10000000" label:"Price"`
	Images      []string `json:"images" validate:"max=20,dive,max=2048" label:"Images"`
	Amenities   []string `json:"amenities" validate:"max=50,dive,max=100" label:"Amenities"`
}

// content cleans in and validates it.
func content(in Input) (models.SpotContent, error) {
	in.Title = normalize.Name(htmlsanitize.StripTags(in.Title))
	in.Description = htmlsanitize.Sanitize(in.Description)
	in.Location = normalize.Name(htmlsanitize.StripTags(in.Location))
	in.Category = normalize.Category(htmlsanitize.StripTags(in.Category))
	in.Images = normalize.Images(in.Images)
	in.Amenities = normalize.Amenities(in.Amenities)

	if res := inputval.Validate(in); res.HasErrors() {
		return models.SpotContent{}, apperr.New(apperr.InvalidInput, res.First())
	}
	return models.SpotContent{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Category:    in.Category,
		Price:       in.Price,
		Images:      in.Images,
		Amenities:   in.Amenities,
	}, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, storeerr.ErrNotFound) {
		return apperr.New(apperr.NotFound, MsgNotFound)
	}
	return apperr.Internal(err)
}

func (s *Service) load(ctx context.Context, id primitive.ObjectID) (*models.Spot, error) {
	spot, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return spot, nil
}

// Create adds a spot owned by the caller. It always starts pending and active.
func (s *Service) Create(ctx context.Context, c authz.Caller, in Input) (*models.Spot, error) {
	if err := authz.CheckRole(c, authz.SpotCreate).Err(); err != nil {
		return nil, err
	}
	sc, err := content(in)
	if err != nil {
		return nil, err
	}

	owner := c.ID
	spot, err := s.store.Create(ctx, models.Spot{
		Title:       sc.Title,
		Description: sc.Description,
		Location:    sc.Location,
		Category:    sc.Category,
		Price:       sc.Price,
		Images:      sc.Images,
		Amenities:   sc.Amenities,
		OwnerID:     &owner,
		Status:      models.SpotPending,
		IsActive:    true,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &spot, nil
}

// Get returns a spot. Approved, active spots are public; any other spot is
// visible only to its owner and superadmins and reads as not found otherwise.
func (s *Service) Get(ctx context.Context, c authz.Caller, id primitive.ObjectID) (*models.Spot, error) {
	spot, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if spot.Status == models.SpotApproved && spot.IsActive {
		return spot, nil
	}
	if c.IsSuperAdmin() || (c.Authenticated() && spot.OwnedBy(c.ID)) {
		return spot, nil
	}
	return nil, apperr.New(apperr.NotFound, MsgNotFound)
}

// ReviewAction is a moderation decision.
type ReviewAction string

const (
	Approve ReviewAction = "approve"
	Reject  ReviewAction = "reject"
)

// Review records a superadmin's decision on a pending spot.
func (s *Service) Review(ctx context.Context, c authz.Caller, id primitive.ObjectID, action string, notes string) (*models.Spot, error) {
	if err := authz.CheckRole(c, authz.SpotReview).Err(); err != nil {
		return nil, err
	}

	var next models.SpotStatus
	switch ReviewAction(strings.ToLower(strings.TrimSpace(action))) {
	case Approve:
		next = models.SpotApproved
	case Reject:
		next = models.SpotRejected
	default:
		return nil, apperr.New(apperr.InvalidInput, MsgBadAction)
	}

	notes = strings.TrimSpace(htmlsanitize.StripTags(notes))
	if next == models.SpotRejected && notes == "" {
		return nil, apperr.New(apperr.InvalidInput, MsgNotesRequired)
	}
	if len(notes) > maxReviewNotesLen {
		return nil, apperr.New(apperr.InvalidInput, "Review notes must be at most 1000 characters.")
	}

	spot, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !spot.Status.Reviewable() {
		return nil, apperr.New(apperr.InvalidState, MsgReviewState)
	}

	out, err := s.store.Moderate(ctx, id, next, c.ID, notes)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			// moderated or deleted between load and write
			return nil, apperr.New(apperr.InvalidState, MsgReviewState)
		}
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// Edit replaces the content of an approved spot. Admins may only edit spots they own.
func (s *Service) Edit(ctx context.Context, c authz.Caller, id primitive.ObjectID, in Input) (*models.Spot, error) {
	if err := authz.CheckRole(c, authz.SpotEdit).Err(); err != nil {
		return nil, err
	}
	spot, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(c, authz.SpotEdit, authz.OwnedBy(spot.OwnerID)).Err(); err != nil {
		return nil, err
	}
	if !spot.Status.Mutable() {
		return nil, apperr.New(apperr.InvalidState, MsgEditState)
	}
	sc, err := content(in)
	if err != nil {
		return nil, err
	}

	out, err := s.store.UpdateContentIfApproved(ctx, id, sc)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return nil, apperr.New(apperr.InvalidState, MsgEditState)
		}
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// ToggleActive flips the active flag of an approved spot.
func (s *Service) ToggleActive(ctx context.Context, c authz.Caller, id primitive.ObjectID) (*models.Spot, error) {
	if err := authz.CheckRole(c, authz.SpotToggle).Err(); err != nil {
		return nil, err
	}
	spot, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(c, authz.SpotToggle, authz.OwnedBy(spot.OwnerID)).Err(); err != nil {
		return nil, err
	}
	if !spot.Status.Mutable() {
		return nil, apperr.New(apperr.InvalidState, MsgToggleState)
	}

	out, err := s.store.ToggleActiveIfApproved(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return nil, apperr.New(apperr.InvalidState, MsgToggleState)
		}
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// DeleteResult reports what Delete did. Deleted is false when an admin's
// delete was carried out as a toggle; Spot then holds the toggled spot.
type DeleteResult struct {
	Deleted bool         `json:"deleted"`
	Spot    *models.Spot `json:"spot,omitempty"`
}

// Delete hard-deletes for superadmins. For admins it toggles the active flag
// and never removes the record.
func (s *Service) Delete(ctx context.Context, c authz.Caller, id primitive.ObjectID) (DeleteResult, error) {
	if !c.IsSuperAdmin() {
		spot, err := s.ToggleActive(ctx, c, id)
		if err != nil {
			return DeleteResult{}, err
		}
		return DeleteResult{Spot: spot}, nil
	}

	if err := authz.CheckRole(c, authz.SpotDelete).Err(); err != nil {
		return DeleteResult{}, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return DeleteResult{}, notFoundOr(err)
	}
	s.log.Info("spot deleted", zap.String("spot_id", id.Hex()), zap.String("actor_id", c.ID.Hex()))
	return DeleteResult{Deleted: true}, nil
}

// PublicFilter narrows the public catalog.
type PublicFilter struct {
	Category string
	Query    string
	Location string
	Limit    int64
	Offset   int64
}

// ListPublic returns approved, active spots newest first. No caller is required.
func (s *Service) ListPublic(ctx context.Context, f PublicFilter) ([]models.Spot, error) {
	spots, err := s.store.ListPublic(ctx, spotstore.PublicFilter{
		Category: normalize.Category(f.Category),
		Query:    strings.TrimSpace(f.Query),
		Location: strings.TrimSpace(f.Location),
		Limit:    f.Limit,
		Offset:   f.Offset,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return spots, nil
}

// ListMine returns the caller's own spots in every state.
func (s *Service) ListMine(ctx context.Context, c authz.Caller) ([]models.Spot, error) {
	if err := authz.CheckRole(c, authz.SpotListOwn).Err(); err != nil {
		return nil, err
	}
	spots, err := s.store.ListByOwner(ctx, c.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return spots, nil
}

// ListAll returns every spot with its owner, optionally narrowed to one
// moderation status.
func (s *Service) ListAll(ctx context.Context, c authz.Caller, status string) ([]models.SpotView, error) {
	if err := authz.CheckRole(c, authz.SpotListAll).Err(); err != nil {
		return nil, err
	}
	st := models.SpotStatus(strings.ToLower(strings.TrimSpace(status)))
	if st != "" && !st.Valid() {
		return nil, apperr.New(apperr.InvalidInput, MsgBadSpotStatus)
	}
	views, err := s.store.ListWithOwners(ctx, st)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return views, nil
}
