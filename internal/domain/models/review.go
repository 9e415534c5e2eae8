// internal/domain/models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

// Review is a rating left for a completed booking. BookingID is unique.
// SpotID is copied from the booking at submission time.
type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID   primitive.ObjectID `bson:"booking_id" json:"booking_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	SpotID      primitive.ObjectID `bson:"spot_id" json:"spot_id"`
	Rating      int                `bson:"rating" json:"rating"`
	Comment     string             `bson:"comment" json:"comment"`
	IsAnonymous bool               `bson:"is_anonymous" json:"is_anonymous"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SpotReview is a review as shown on a spot page. ReviewerName is empty for anonymous reviews.
type SpotReview struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Rating       int                `bson:"rating" json:"rating"`
	Comment      string             `bson:"comment" json:"comment"`
	IsAnonymous  bool               `bson:"is_anonymous" json:"is_anonymous"`
	ReviewerName string             `bson:"reviewer_name,omitempty" json:"reviewer_name,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// UserReview is a review as shown in the reviewer's own history.
type UserReview struct {
	Review        `bson:",inline"`
	Spot          *SpotSummary  `bson:"spot,omitempty" json:"spot,omitempty"`
	BookingStatus BookingStatus `bson:"booking_status,omitempty" json:"booking_status,omitempty"`
}
