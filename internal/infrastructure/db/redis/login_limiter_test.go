package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestNewLoginLimiter_Defaults(t *testing.T) {
	l := NewLoginLimiter(nil, 0, 0)
	if l.maxAttempts != 5 || l.window != 15*time.Minute {
		t.Fatalf("unexpected defaults: %d attempts / %s", l.maxAttempts, l.window)
	}

	l = NewLoginLimiter(nil, 3, time.Minute)
	if l.maxAttempts != 3 || l.window != time.Minute {
		t.Fatalf("unexpected limits: %d attempts / %s", l.maxAttempts, l.window)
	}
}

func TestLoginLimiter_Key(t *testing.T) {
	l := NewLoginLimiter(nil, 0, 0)
	if got := l.key("jane@x.com"); got != "login:fail:jane@x.com" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func newTestLimiter(t *testing.T, hooks ...redis.Hook) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	for _, h := range hooks {
		client.AddHook(h)
	}
	return NewLoginLimiter(client, 3, 15*time.Minute), mr
}

func TestLoginLimiter_BlocksAtThreshold(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		blocked, err := l.Blocked(ctx, "jane@x.com")
		if err != nil {
			t.Fatalf("Blocked: %v", err)
		}
		if blocked {
			t.Fatalf("blocked after %d failures, limit is 3", i)
		}
		if err := l.RecordFailure(ctx, "jane@x.com"); err != nil {
			t.Fatalf("RecordFailure: %v", err)
		}
	}

	blocked, err := l.Blocked(ctx, "jane@x.com")
	if err != nil || !blocked {
		t.Fatalf("expected blocked after 3 failures, got %v (err=%v)", blocked, err)
	}
	if blocked, _ := l.Blocked(ctx, "john@x.com"); blocked {
		t.Fatalf("other accounts must not be blocked")
	}
}

func TestLoginLimiter_WindowStartsAtFirstFailure(t *testing.T) {
	l, mr := newTestLimiter(t)
	ctx := context.Background()

	_ = l.RecordFailure(ctx, "jane@x.com")
	if ttl := mr.TTL(l.key("jane@x.com")); ttl != 15*time.Minute {
		t.Fatalf("expected a 15m window, got %s", ttl)
	}

	mr.FastForward(10 * time.Minute)
	_ = l.RecordFailure(ctx, "jane@x.com")
	_ = l.RecordFailure(ctx, "jane@x.com")
	if ttl := mr.TTL(l.key("jane@x.com")); ttl != 5*time.Minute {
		t.Fatalf("later failures must not extend the window, ttl=%s", ttl)
	}
	if blocked, _ := l.Blocked(ctx, "jane@x.com"); !blocked {
		t.Fatalf("expected blocked inside the window")
	}

	mr.FastForward(5 * time.Minute)
	blocked, err := l.Blocked(ctx, "jane@x.com")
	if err != nil || blocked {
		t.Fatalf("expected unblocked once the window expired, got %v (err=%v)", blocked, err)
	}
}

func TestLoginLimiter_Reset(t *testing.T) {
	l, mr := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = l.RecordFailure(ctx, "jane@x.com")
	}
	if err := l.Reset(ctx, "jane@x.com"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if mr.Exists(l.key("jane@x.com")) {
		t.Fatalf("counter should be deleted")
	}
	if blocked, _ := l.Blocked(ctx, "jane@x.com"); blocked {
		t.Fatalf("expected unblocked after reset")
	}
}

// failFirstExpire makes the first EXPIRE sent by the client fail.
type failFirstExpire struct {
	failed atomic.Bool
}

func (h *failFirstExpire) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *failFirstExpire) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "expire" && h.failed.CompareAndSwap(false, true) {
			err := errors.New("connection reset by peer")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (h *failFirstExpire) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestLoginLimiter_LostExpireIsRepaired(t *testing.T) {
	hook := &failFirstExpire{}
	l, mr := newTestLimiter(t, hook)
	l.maxAttempts = 5
	ctx := context.Background()

	if err := l.RecordFailure(ctx, "jane@x.com"); err == nil {
		t.Fatalf("expected the failed expire to surface")
	}
	for i := 0; i < 4; i++ {
		if err := l.RecordFailure(ctx, "jane@x.com"); err != nil {
			t.Fatalf("RecordFailure: %v", err)
		}
	}
	if ttl := mr.TTL(l.key("jane@x.com")); ttl <= 0 {
		t.Fatalf("counter has no window, ttl=%s", ttl)
	}
	if blocked, _ := l.Blocked(ctx, "jane@x.com"); !blocked {
		t.Fatalf("expected blocked after 5 failures")
	}

	mr.FastForward(24 * time.Hour)
	if blocked, _ := l.Blocked(ctx, "jane@x.com"); blocked {
		t.Fatalf("account still blocked after the window")
	}
}

func TestLoginLimiter_BlockedAppliesMissingWindow(t *testing.T) {
	l, mr := newTestLimiter(t)
	ctx := context.Background()
	if err := mr.Set(l.key("jane@x.com"), "3"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	blocked, err := l.Blocked(ctx, "jane@x.com")
	if err != nil || !blocked {
		t.Fatalf("expected blocked, got %v (err=%v)", blocked, err)
	}
	if ttl := mr.TTL(l.key("jane@x.com")); ttl != 15*time.Minute {
		t.Fatalf("expected the window to be applied, ttl=%s", ttl)
	}
}

func TestLoginLimiter_CancelledRequestStillSetsWindow(t *testing.T) {
	l, mr := newTestLimiter(t)
	if err := mr.Set(l.key("jane@x.com"), "1"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.ensureWindow(ctx, l.key("jane@x.com"), -1); err != nil {
		t.Fatalf("ensureWindow: %v", err)
	}
	if ttl := mr.TTL(l.key("jane@x.com")); ttl != 15*time.Minute {
		t.Fatalf("expected the window to be applied, ttl=%s", ttl)
	}
}
