package ratelimit

import (
	"context"
	"net/http"

	"github.com/dalemusser/spothub/internal/app/system/normalize"
	"go.uber.org/zap"
)

// LoginLimiter guards the login endpoint with two counters:
// one per client IP and one per attempted email.
type LoginLimiter struct {
	ip    Store
	email Store
	log   *zap.Logger
}

// NewLoginLimiter combines an IP store and an email store.
func NewLoginLimiter(ip, email Store, log *zap.Logger) *LoginLimiter {
	return &LoginLimiter{ip: ip, email: email, log: log}
}

// Check records an attempt and reports whether it may proceed, with a
// caller-facing reason when it may not. Store calls run under ctx, and
// store failures let the attempt through.
func (ll *LoginLimiter) Check(ctx context.Context, r *http.Request, email string) (bool, string) {
	if !ll.allow(ctx, ll.ip, ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if key := normalize.Email(email); key != "" && !ll.allow(ctx, ll.email, key) {
		return false, "Too many login attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

// ResetEmail clears the email counter after a successful login.
func (ll *LoginLimiter) ResetEmail(ctx context.Context, email string) {
	key := normalize.Email(email)
	if key == "" {
		return
	}
	if err := ll.email.Reset(ctx, key); err != nil {
		ll.log.Warn("rate limit reset failed", zap.Error(err))
	}
}

func (ll *LoginLimiter) allow(ctx context.Context, s Store, key string) bool {
	ok, err := s.Allow(ctx, key)
	if err != nil {
		ll.log.Warn("rate limit store unavailable; allowing attempt", zap.Error(err))
		return true
	}
	return ok
}
