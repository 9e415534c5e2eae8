// internal/app/system/auditlog/logger.go
package auditlog

// Terminology: User Identifiers
//   - UserID / userID / user_id: the user the event is about
//   - ActorID / actorID / actor_id: the user who performed the action

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/spothub/internal/app/store/audit"
	"github.com/dalemusser/spothub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination settings for a category.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off" // disabled
)

// Config holds audit logging configuration, one setting per category.
type Config struct {
	Auth    string // signup, login, logout
	Admin   string // spot moderation, spot changes, user role/delete
	Booking string // applications, status changes, reviews, loyalty awards
}

// EventStore persists audit events. *audit.Store implements it.
type EventStore interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger records audit events to MongoDB and/or zap.
type Logger struct {
	store  EventStore
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store EventStore, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) setting(category string) string {
	var s string
	switch category {
	case audit.CategoryAuth:
		s = l.config.Auth
	case audit.CategoryAdmin:
		s = l.config.Admin
	case audit.CategoryBooking:
		s = l.config.Booking
	}
	if s == "" {
		return All
	}
	return s
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an event according to its category setting.
// A nil Logger is a no-op so handlers under test can pass nil.
// Storage failures are logged and never returned to the caller.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.setting(event.Category)
	if setting == Off {
		return
	}
	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func base(r *http.Request, category, eventType string) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
}

func ptr(id primitive.ObjectID) *primitive.ObjectID { return &id }

// --- Authentication Events ---

// Signup logs a new account registration.
func (l *Logger) Signup(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := base(r, audit.CategoryAuth, audit.EventSignup)
	e.UserID = ptr(userID)
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.UserID = ptr(userID)
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailedUserNotFound logs a login attempt for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailedUserNotFound)
	e.Success = false
	e.FailureReason = "user not found"
	e.Details = map[string]string{"attempted_email": attemptedEmail}
	l.Log(ctx, e)
}

// LoginFailedWrongPassword logs a login attempt with a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailedWrongPassword)
	e.UserID = ptr(userID)
	e.Success = false
	e.FailureReason = "wrong password"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailedRateLimit logs a login attempt rejected by the rate limiter.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, attemptedEmail string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit)
	e.Success = false
	e.FailureReason = "rate limited"
	e.Details = map[string]string{"attempted_email": attemptedEmail}
	l.Log(ctx, e)
}

// Logout logs a logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	e := base(r, audit.CategoryAuth, audit.EventLogout)
	e.UserID = ptr(userID)
	l.Log(ctx, e)
}

// --- Admin Events ---

// SpotChanged logs a spot lifecycle event (created, updated, approved, ...).
func (l *Logger) SpotChanged(ctx context.Context, r *http.Request, eventType string, actorID, spotID primitive.ObjectID, details map[string]string) {
	e := base(r, audit.CategoryAdmin, eventType)
	e.ActorID = ptr(actorID)
	d := map[string]string{"spot_id": spotID.Hex()}
	for k, v := range details {
		d[k] = v
	}
	e.Details = d
	l.Log(ctx, e)
}

// UserRoleChanged logs a role change made by a superadmin.
func (l *Logger) UserRoleChanged(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, from, to string) {
	e := base(r, audit.CategoryAdmin, audit.EventUserRoleChanged)
	e.ActorID = ptr(actorID)
	e.UserID = ptr(targetUserID)
	e.Details = map[string]string{"from": from, "to": to}
	l.Log(ctx, e)
}

// UserDeleted logs an account deletion.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, email string) {
	e := base(r, audit.CategoryAdmin, audit.EventUserDeleted)
	e.ActorID = ptr(actorID)
	e.UserID = ptr(targetUserID)
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// --- Booking Events ---

// BookingCreated logs a new application.
func (l *Logger) BookingCreated(ctx context.Context, r *http.Request, userID, bookingID, spotID primitive.ObjectID) {
	e := base(r, audit.CategoryBooking, audit.EventBookingCreated)
	e.UserID = ptr(userID)
	e.ActorID = ptr(userID)
	e.Details = map[string]string{"booking_id": bookingID.Hex(), "spot_id": spotID.Hex()}
	l.Log(ctx, e)
}

// BookingStatusChanged logs a status transition.
func (l *Logger) BookingStatusChanged(ctx context.Context, r *http.Request, actorID, applicantID, bookingID primitive.ObjectID, from, to string) {
	e := base(r, audit.CategoryBooking, audit.EventBookingStatusChanged)
	e.ActorID = ptr(actorID)
	e.UserID = ptr(applicantID)
	e.Details = map[string]string{"booking_id": bookingID.Hex(), "from": from, "to": to}
	l.Log(ctx, e)
}

// ReviewSubmitted logs a review and the points it awarded.
func (l *Logger) ReviewSubmitted(ctx context.Context, r *http.Request, userID, reviewID, bookingID primitive.ObjectID, rating int, points int64) {
	e := base(r, audit.CategoryBooking, audit.EventReviewSubmitted)
	e.UserID = ptr(userID)
	e.ActorID = ptr(userID)
	e.Details = map[string]string{
		"review_id":      reviewID.Hex(),
		"booking_id":     bookingID.Hex(),
		"rating":         strconv.Itoa(rating),
		"points_awarded": strconv.FormatInt(points, 10),
	}
	l.Log(ctx, e)
}

// LoyaltyAwarded logs points credited to a user and the resulting balance.
func (l *Logger) LoyaltyAwarded(ctx context.Context, r *http.Request, userID primitive.ObjectID, points, balance int64, reason string) {
	e := base(r, audit.CategoryBooking, audit.EventLoyaltyAwarded)
	e.UserID = ptr(userID)
	e.Details = map[string]string{
		"points":  strconv.FormatInt(points, 10),
		"balance": strconv.FormatInt(balance, 10),
		"reason":  reason,
	}
	l.Log(ctx, e)
}
