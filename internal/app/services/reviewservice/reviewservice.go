// Package reviewservice enforces one review per completed booking and
// aggregates a spot's reviews.
package reviewservice

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/dalemusser/spothub/internal/app/store/storeerr"
	"github.com/dalemusser/spothub/internal/app/system/apperr"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/spothub/internal/app/system/inputval"
	"github.com/dalemusser/spothub/internal/app/system/txn"
	"github.com/dalemusser/spothub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Reviews is the review persistence. *reviewstore.Store implements it.
type Reviews interface {
	Create(ctx context.Context, r models.Review) (models.Review, error)
	ListForSpot(ctx context.Context, spotID primitive.ObjectID) ([]models.SpotReview, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.UserReview, error)
}

// Bookings resolves the booking a review refers to.
type Bookings interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error)
}

// Awarder credits loyalty points. *loyaltyservice.Service implements it.
type Awarder interface {
	Award(ctx context.Context, userID primitive.ObjectID, n int64) (models.LoyaltyAccount, error)
}

type Service struct {
	reviews  Reviews
	bookings Bookings
	loyalty  Awarder
	tx       txn.Runner
	points   int64
	log      *zap.Logger
}

// New builds the review gate. points is the loyalty credit per review; 0
// disables the credit.
func New(reviews Reviews, bookings Bookings, loyalty Awarder, tx txn.Runner, points int64, log *zap.Logger) *Service {
	if tx == nil {
		tx = txn.Passthrough{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{reviews: reviews, bookings: bookings, loyalty: loyalty, tx: tx, points: points, log: log}
}

const (
	MsgBadRating       = "Rating must be a whole number between 1 and 5."
	MsgBookingNotFound = "booking not found"
	MsgNotYourBooking  = "this booking belongs to another user"
	MsgNotEligible     = "booking is not eligible for review"
	MsgAlreadyReviewed = "already reviewed"
)

// SubmitInput is a review submission. Rating arrives as a JSON number so a
// fractional value can be rejected instead of silently truncated.
type SubmitInput struct {
	BookingID   string  `json:"bookingId" validate:"required,objectid" label:"Booking"`
	Rating      float64 `json:"rating"`
	Comment     string  `json:"comment" validate:"required,max=500" label:"Comment"`
	IsAnonymous bool    `json:"isAnonymous"`
}

// SubmitResult is what a successful submission produced.
type SubmitResult struct {
	Review        models.Review `json:"review"`
	PointsAwarded int64         `json:"pointsAwarded"`
	Balance       int64         `json:"balance"`
}

// Submit creates a review for a completed booking the caller owns and
// credits loyalty points. Checks run in this order: rating, comment,
// booking exists, booking is the caller's, booking is completed, no review
// exists yet. The insert and the credit share a transaction when the
// deployment supports one.
func (s *Service) Submit(ctx context.Context, c authz.Caller, in SubmitInput) (SubmitResult, error) {
	if err := authz.CheckRole(c, authz.ReviewSubmit).Err(); err != nil {
		return SubmitResult{}, err
	}

	if in.Rating != math.Trunc(in.Rating) || in.Rating < models.MinRating || in.Rating > models.MaxRating {
		return SubmitResult{}, apperr.New(apperr.InvalidInput, MsgBadRating)
	}
	in.Comment = htmlsanitize.StripTags(in.Comment)
	in.BookingID = strings.TrimSpace(in.BookingID)
	if in.Comment == "" {
		return SubmitResult{}, apperr.New(apperr.InvalidInput, "Comment is required.")
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return SubmitResult{}, apperr.New(apperr.InvalidInput, res.First())
	}
	bookingID, _ := primitive.ObjectIDFromHex(in.BookingID)

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return SubmitResult{}, apperr.New(apperr.NotFound, MsgBookingNotFound)
		}
		return SubmitResult{}, apperr.Internal(err)
	}
	if booking.UserID != c.ID {
		return SubmitResult{}, apperr.New(apperr.Forbidden, MsgNotYourBooking)
	}
	if booking.Status != models.BookingCompleted {
		return SubmitResult{}, apperr.New(apperr.Forbidden, MsgNotEligible)
	}

	var out SubmitResult
	err = s.tx.Run(ctx, func(ctx context.Context) error {
		r, err := s.reviews.Create(ctx, models.Review{
			BookingID:   booking.ID,
			UserID:      c.ID,
			SpotID:      booking.SpotID,
			Rating:      int(in.Rating),
			Comment:     in.Comment,
			IsAnonymous: in.IsAnonymous,
		})
		if err != nil {
			return err
		}
		out = SubmitResult{Review: r}
		if s.points == 0 {
			return nil
		}
		acct, err := s.loyalty.Award(ctx, c.ID, s.points)
		if err != nil {
			return err
		}
		out.PointsAwarded = s.points
		out.Balance = acct.Points
		return nil
	})
	if err != nil {
		if errors.Is(err, storeerr.ErrDuplicate) {
			return SubmitResult{}, apperr.New(apperr.Conflict, MsgAlreadyReviewed)
		}
		if apperr.KindOf(err) != apperr.Unexpected {
			return SubmitResult{}, err
		}
		return SubmitResult{}, apperr.Internal(err)
	}
	return out, nil
}

// SpotReviews is the aggregate shown on a spot page.
type SpotReviews struct {
	Reviews       []models.SpotReview `json:"reviews"`
	TotalReviews  int                 `json:"totalReviews"`
	AverageRating float64             `json:"averageRating"`
}

// ForSpot returns a spot's reviews newest first with count and average
// rounded to one decimal. No reviews gives an empty list and zeros.
func (s *Service) ForSpot(ctx context.Context, spotID primitive.ObjectID) (SpotReviews, error) {
	reviews, err := s.reviews.ListForSpot(ctx, spotID)
	if err != nil {
		return SpotReviews{}, apperr.Internal(err)
	}
	if reviews == nil {
		reviews = []models.SpotReview{}
	}
	return SpotReviews{
		Reviews:       reviews,
		TotalReviews:  len(reviews),
		AverageRating: Average(reviews),
	}, nil
}

// Average returns the mean rating rounded to one decimal, or 0 for no reviews.
func Average(reviews []models.SpotReview) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

// Mine returns the caller's reviews with spot and booking status.
func (s *Service) Mine(ctx context.Context, c authz.Caller) ([]models.UserReview, error) {
	if err := authz.CheckRole(c, authz.ReviewListOwn).Err(); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByUser(ctx, c.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return reviews, nil
}
