// internal/domain/models/application.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the lifecycle state of a user application for a spot.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
)

// successors lists the legal transitions out of each state.
// rejected and completed are terminal.
var successors = map[BookingStatus][]BookingStatus{
	BookingPending:  {BookingAccepted, BookingRejected},
	BookingAccepted: {BookingCompleted},
}

// ParseBookingStatus normalizes s and reports whether it names a known state.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	st := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", false
	}
	return st, true
}

// Valid reports whether s is a known booking state.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingAccepted, BookingRejected, BookingCompleted:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s BookingStatus) Terminal() bool {
	return len(successors[s]) == 0
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, n := range successors[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Allowed payment methods recorded on an application. Nothing is charged.
const (
	PaymentCard         = "card"
	PaymentCash         = "cash"
	PaymentBankTransfer = "bank_transfer"
	PaymentWallet       = "wallet"
)

// Application is a user's booking request for a spot.
// At most one exists per (UserID, SpotID).
type Application struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SpotID         primitive.ObjectID `bson:"spot_id" json:"spot_id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	Status         BookingStatus      `bson:"status" json:"status"`
	PaymentMethod  string             `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	PaymentDetails string             `bson:"payment_details,omitempty" json:"payment_details,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ApplicationView is an application with its spot and applicant resolved.
type ApplicationView struct {
	Application `bson:",inline"`
	Spot        *SpotSummary `bson:"spot,omitempty" json:"spot,omitempty"`
	User        *UserSummary `bson:"user,omitempty" json:"user,omitempty"`
	Reviewed    bool         `bson:"reviewed" json:"reviewed"`
}
