package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStoreReplaysCachedResponse(t *testing.T) {
	client, _ := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	cached := `{"movement":{"id":"mov-1","state":"paid"}}`
	if err := client.Set(ctx, store.prefix+"post-1", cached, time.Minute).Err(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "post-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if !exists {
		t.Fatal("expected key to exist")
	}
	if string(resp) != cached {
		t.Fatalf("expected cached posting response, got %s", resp)
	}
}

func TestIdempotencyStoreLocksNewKey(t *testing.T) {
	client, _ := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "post-2", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if exists || resp != nil {
		t.Fatalf("expected a fresh key, got exists=%v resp=%s", exists, resp)
	}

	val, err := client.Get(ctx, store.prefix+"post-2").Result()
	if err != nil {
		t.Fatalf("lock lookup failed: %v", err)
	}
	if val != "processing" {
		t.Fatalf("expected placeholder lock, got %q", val)
	}
}

func TestIdempotencyStoreUpdateReplacesLock(t *testing.T) {
	client, _ := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "post-3", nil, time.Minute); err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	if err := store.Update(ctx, "post-3", []byte(`{"movement":{"id":"mov-3"}}`), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	val, err := client.Get(ctx, store.prefix+"post-3").Result()
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if val != `{"movement":{"id":"mov-3"}}` {
		t.Fatalf("expected stored response, got %s", val)
	}
}

func TestIdempotencyStoreKeysExpire(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if err := store.Update(ctx, "post-4", []byte("done"), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	exists, _, err := store.CheckAndSet(ctx, "post-4", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if exists {
		t.Fatal("expected key to expire")
	}
}
