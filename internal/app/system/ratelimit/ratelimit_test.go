package ratelimit

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestLimiter_AllowWithinWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(ctx, 2, time.Minute)

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow(ctx, "k"); !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Error("third attempt should be limited")
	}
	if ok, _ := l.Allow(ctx, "other"); !ok {
		t.Error("other keys are independent")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(ctx, 1, time.Minute)

	now := time.Now()
	l.now = func() time.Time { return now }
	l.Allow(ctx, "k")
	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Fatal("second attempt should be limited")
	}

	l.now = func() time.Time { return now.Add(61 * time.Second) }
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Error("attempt after window should be allowed")
	}
}

func TestLimiter_Reset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(ctx, 1, time.Minute)

	l.Allow(ctx, "k")
	_ = l.Reset(ctx, "k")
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Error("attempt after reset should be allowed")
	}
}

func TestLimiter_NonPositiveWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, d := range []time.Duration{0, -time.Second} {
		l := New(ctx, 1, d)
		if l.duration != DefaultWindow {
			t.Errorf("New(%v) duration = %v, want %v", d, l.duration, DefaultWindow)
		}
		l.Allow(ctx, "k")
		if ok, _ := l.Allow(ctx, "k"); ok {
			t.Errorf("New(%v): second attempt should be limited", d)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"remote with port", "", "", "192.0.2.1:5555", "192.0.2.1"},
		{"remote without port", "", "", "192.0.2.1", "192.0.2.1"},
		{"forwarded header ignored", "203.0.113.5, 10.0.0.1", "", "10.0.0.2:1234", "10.0.0.2"},
		{"real ip header ignored", "", "198.51.100.7", "10.0.0.2:1234", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/auth/login", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_RotatingForwardedForStillLimited(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ll := NewLoginLimiter(New(ctx, 2, time.Minute), New(ctx, 100, time.Minute), zap.NewNop())

	allowed := 0
	for _, ip := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3", "203.0.113.4"} {
		r := httptest.NewRequest("POST", "/auth/login", nil)
		r.RemoteAddr = "192.0.2.9:4000"
		r.Header.Set("X-Forwarded-For", ip)
		if ok, _ := ll.Check(ctx, r, "ada@example.com"); ok {
			allowed++
		}
	}
	if allowed != 2 {
		t.Errorf("allowed %d attempts from one address, want 2", allowed)
	}
}

func TestLoginLimiter_EmailLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ll := NewLoginLimiter(New(ctx, 100, time.Minute), New(ctx, 2, time.Minute), zap.NewNop())

	r := httptest.NewRequest("POST", "/auth/login", nil)
	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(ctx, r, "Ada@Example.com"); !ok {
			t.Fatalf("attempt %d should pass", i+1)
		}
	}
	ok, reason := ll.Check(ctx, r, "ada@example.com ")
	if ok || reason == "" {
		t.Error("expected the normalized email to be limited")
	}

	ll.ResetEmail(ctx, "ADA@example.com")
	if ok, _ := ll.Check(ctx, r, "ada@example.com"); !ok {
		t.Error("expected attempt to pass after reset")
	}
}

type failingStore struct{}

func (failingStore) Allow(context.Context, string) (bool, error) { return false, context.DeadlineExceeded }
func (failingStore) Reset(context.Context, string) error        { return context.DeadlineExceeded }

func TestLoginLimiter_StoreFailureAllows(t *testing.T) {
	ll := NewLoginLimiter(failingStore{}, failingStore{}, zap.NewNop())
	if ok, _ := ll.Check(context.Background(), httptest.NewRequest("POST", "/auth/login", nil), "a@b.co"); !ok {
		t.Error("store failure should not lock users out")
	}
}

type ctxStore struct{ got context.Context }

func (s *ctxStore) Allow(ctx context.Context, _ string) (bool, error) { s.got = ctx; return true, nil }
func (s *ctxStore) Reset(context.Context, string) error              { return nil }

func TestLoginLimiter_UsesCallerContext(t *testing.T) {
	ip, email := &ctxStore{}, &ctxStore{}
	ll := NewLoginLimiter(ip, email, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ll.Check(ctx, httptest.NewRequest("POST", "/auth/login", nil), "a@b.co")

	for name, s := range map[string]*ctxStore{"ip": ip, "email": email} {
		if _, ok := s.got.Deadline(); !ok {
			t.Errorf("%s store did not receive the bounded context", name)
		}
	}
}

func newMiniRedis(t *testing.T, hooks ...redis.Hook) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	for _, h := range hooks {
		client.AddHook(h)
	}
	t.Cleanup(func() { _ = client.Close() })
	return m, client
}

func TestRedis_Allow(t *testing.T) {
	m, client := newMiniRedis(t)
	ctx := context.Background()
	l := NewRedis(client, "spothub:test:", 2, time.Minute)

	for i := 0; i < 2; i++ {
		if ok, err := l.Allow(ctx, "k"); err != nil || !ok {
			t.Fatalf("attempt %d: ok=%v err=%v", i+1, ok, err)
		}
	}
	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Error("third attempt should be limited")
	}
	if ttl := m.TTL("spothub:test:k"); ttl <= 0 || ttl > time.Minute {
		t.Errorf("ttl = %v, want within (0, 1m]", ttl)
	}

	m.FastForward(30 * time.Second)
	l.Allow(ctx, "k")
	if ttl := m.TTL("spothub:test:k"); ttl > 30*time.Second {
		t.Errorf("later hits must not extend the window, ttl = %v", ttl)
	}

	m.FastForward(31 * time.Second)
	if ok, err := l.Allow(ctx, "k"); err != nil || !ok {
		t.Errorf("attempt after window: ok=%v err=%v", ok, err)
	}

	if err := l.Reset(ctx, "k"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if m.Exists("spothub:test:k") {
		t.Error("Reset should delete the key")
	}
}

var errExpireTimeout = errors.New("i/o timeout")

// failExpire fails any command or pipeline that carries an EXPIRE.
type failExpire struct{}

func (failExpire) DialHook(next redis.DialHook) redis.DialHook { return next }

func (failExpire) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "expire" {
			return errExpireTimeout
		}
		return next(ctx, cmd)
	}
}

func (failExpire) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		for _, c := range cmds {
			if c.Name() == "expire" {
				return errExpireTimeout
			}
		}
		return next(ctx, cmds)
	}
}

func TestRedis_FailedExpireLeavesNoImmortalCounter(t *testing.T) {
	m, broken := newMiniRedis(t, failExpire{})
	ctx := context.Background()
	key := "spothub:login:email:victim@example.com"

	flaky := NewRedis(broken, "spothub:login:email:", 2, time.Minute)
	if _, err := flaky.Allow(ctx, "victim@example.com"); err == nil {
		t.Fatal("expected the failed EXPIRE to surface as an error")
	}
	if m.Exists(key) {
		t.Fatal("counter written without its TTL")
	}

	healthy := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer healthy.Close()
	l := NewRedis(healthy, "spothub:login:email:", 2, time.Minute)
	for i := 0; i < 3; i++ {
		l.Allow(ctx, "victim@example.com")
	}
	if ttl := m.TTL(key); ttl <= 0 {
		t.Fatalf("ttl = %v, want a positive expiry", ttl)
	}

	m.FastForward(24 * time.Hour)
	if ok, err := l.Allow(ctx, "victim@example.com"); err != nil || !ok {
		t.Errorf("attempt a day later: ok=%v err=%v", ok, err)
	}
}

func TestRedis_HealsCounterWithoutTTL(t *testing.T) {
	m, client := newMiniRedis(t)
	ctx := context.Background()
	key := "spothub:login:ip:192.0.2.1"
	if err := m.Set(key, "9"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	l := NewRedis(client, "spothub:login:ip:", 2, time.Minute)
	if ok, _ := l.Allow(ctx, "192.0.2.1"); ok {
		t.Error("counter over the limit should deny")
	}
	if ttl := m.TTL(key); ttl <= 0 {
		t.Fatalf("ttl = %v, want the stuck counter to gain an expiry", ttl)
	}
	m.FastForward(2 * time.Minute)
	if ok, _ := l.Allow(ctx, "192.0.2.1"); !ok {
		t.Error("attempt after the healed window should pass")
	}
}
