package cache

import (
	"context"
	"testing"
	"time"
)

func TestStore_PerEntryTTL(t *testing.T) {
	t.Parallel()

	store := NewStore()
	current := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	ctx := context.Background()
	store.Set(ctx, "leagues", "league-page", time.Hour)
	store.Set(ctx, "fixtures", "fixture-page", 5*time.Minute)

	current = current.Add(10 * time.Minute)
	if _, ok := store.Get(ctx, "fixtures"); ok {
		t.Fatal("short-TTL entry still served after expiry")
	}
	if v, ok := store.Get(ctx, "leagues"); !ok || v != "league-page" {
		t.Fatalf("long-TTL entry = %v, %t; want league-page, true", v, ok)
	}

	current = current.Add(time.Hour)
	if _, ok := store.Get(ctx, "leagues"); ok {
		t.Fatal("long-TTL entry still served after expiry")
	}
}

func TestStore_IgnoresEmptyKeyAndZeroTTL(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	store.Set(ctx, "", "v", time.Minute)
	store.Set(ctx, "k", "v", 0)

	if _, ok := store.Get(ctx, ""); ok {
		t.Fatal("empty key should never hit")
	}
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("zero-TTL set should not be stored")
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	store.Set(ctx, "k", "v", time.Minute)
	store.Delete(ctx, "k")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("entry survived delete")
	}
}
