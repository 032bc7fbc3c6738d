package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTTLGetMissingKey(t *testing.T) {
	t.Parallel()

	c := NewTTL[string](30*time.Second, &fakeClock{now: time.Unix(1000, 0)})
	if _, ok := c.Get("bitcoin"); ok {
		t.Fatal("expected miss on empty cache")
	}
}

func TestTTLServesEntryBeforeExpiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := NewTTL[string](30*time.Second, clock)
	c.Set("bitcoin", "btc")

	clock.Advance(29*time.Second + 999*time.Millisecond)
	got, ok := c.Get("bitcoin")
	if !ok || got != "btc" {
		t.Fatalf("expected hit with btc, got %q ok=%v", got, ok)
	}
}

func TestTTLExpiresExactlyAtTTL(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := NewTTL[string](30*time.Second, clock)
	c.Set("bitcoin", "btc")

	clock.Advance(30 * time.Second)
	if _, ok := c.Get("bitcoin"); ok {
		t.Fatal("expected entry at exactly ttl to be treated as absent")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry to be deleted on access, len=%d", c.Len())
	}
}

func TestTTLSetOverwritesTimestamp(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := NewTTL[int](30*time.Second, clock)
	c.Set("k", 1)

	clock.Advance(20 * time.Second)
	c.Set("k", 2)
	capturedAt, ok := c.CapturedAt("k")
	if !ok || !capturedAt.Equal(time.Unix(1020, 0)) {
		t.Fatalf("expected captured time 1020, got %v ok=%v", capturedAt, ok)
	}

	clock.Advance(20 * time.Second)
	got, ok := c.Get("k")
	if !ok || got != 2 {
		t.Fatalf("expected refreshed entry 2, got %d ok=%v", got, ok)
	}
}

func TestTTLKeysAreIndependent(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := NewTTL[string](30*time.Second, clock)
	c.Set("bitcoin", "btc")
	clock.Advance(15 * time.Second)
	c.Set("ethereum", "eth")
	clock.Advance(15 * time.Second)

	if _, ok := c.Get("bitcoin"); ok {
		t.Fatal("expected bitcoin to be expired")
	}
	if got, ok := c.Get("ethereum"); !ok || got != "eth" {
		t.Fatalf("expected ethereum hit, got %q ok=%v", got, ok)
	}
}

func TestTTLDelete(t *testing.T) {
	t.Parallel()

	c := NewTTL[string](time.Minute, nil)
	c.Set("k", "v")
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected deleted key to miss")
	}
}
