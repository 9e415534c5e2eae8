// internal/domain/models/spot.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SpotStatus is the moderation state of a spot.
type SpotStatus string

const (
	SpotPending  SpotStatus = "pending"
	SpotApproved SpotStatus = "approved"
	SpotRejected SpotStatus = "rejected"
)

// Valid reports whether s is a known moderation state.
func (s SpotStatus) Valid() bool {
	switch s {
	case SpotPending, SpotApproved, SpotRejected:
		return true
	}
	return false
}

// Reviewable reports whether a moderation decision may be recorded from s.
// Only pending spots can be approved or rejected.
func (s SpotStatus) Reviewable() bool {
	return s == SpotPending
}

// Mutable reports whether content edits and active toggles are allowed in s.
func (s SpotStatus) Mutable() bool {
	return s == SpotApproved
}

// Spot is a listed tourist destination.
//
// IsActive is independent of Status: an approved spot can be enabled or
// disabled any number of times without touching its moderation state.
// OwnerID is nil only for legacy records created before ownership existed.
type Spot struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	Location    string             `bson:"location" json:"location"`
	Category    string             `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	Images      []string           `bson:"images" json:"images"`
	Amenities   []string           `bson:"amenities" json:"amenities"`

	OwnerID *primitive.ObjectID `bson:"owner_id,omitempty" json:"owner_id,omitempty"`

	Status      SpotStatus          `bson:"status" json:"status"`
	IsActive    bool                `bson:"is_active" json:"is_active"`
	ReviewedBy  *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewNotes string              `bson:"review_notes,omitempty" json:"review_notes,omitempty"`
	ReviewedAt  *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// OwnedBy reports whether id is the spot's owner. Spots without an owner are owned by nobody.
func (s Spot) OwnedBy(id primitive.ObjectID) bool {
	return s.OwnerID != nil && *s.OwnerID == id
}

// SpotContent is the editable content of a spot.
type SpotContent struct {
	Title       string
	Description string
	Location    string
	Category    string
	Price       float64
	Images      []string
	Amenities   []string
}

// SpotSummary is the projection embedded in booking and review views.
type SpotSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Location string             `bson:"location" json:"location"`
	Category string             `bson:"category,omitempty" json:"category,omitempty"`
	Price    float64            `bson:"price" json:"price"`
	Images   []string           `bson:"images,omitempty" json:"images,omitempty"`
}

// SpotView is a spot with its owner resolved, used by the superadmin listing.
type SpotView struct {
	Spot  `bson:",inline"`
	Owner *UserSummary `bson:"owner,omitempty" json:"owner,omitempty"`
}
