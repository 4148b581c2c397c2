package store

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	electerrors "github.com/mirkobrombin/go-elect/v1/errors"
)

func newRedisStore(t *testing.T) (*Redis, *miniredis.Miniredis, context.Context) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return NewRedis(client), mr, context.Background()
}

func TestRedisSetIfAbsentAndExpiry(t *testing.T) {
	s, mr, ctx := newRedisStore(t)

	ok, err := s.SetIfAbsent(ctx, "k", "a", 30*time.Second)
	if err != nil || !ok {
		t.Fatalf("first set: ok %v err %v", ok, err)
	}
	if ok, err := s.SetIfAbsent(ctx, "k", "b", 30*time.Second); err != nil || ok {
		t.Fatalf("expected record to exist, ok %v err %v", ok, err)
	}

	mr.FastForward(29 * time.Second)
	if ok, _ := s.SetIfAbsent(ctx, "k", "b", 30*time.Second); ok {
		t.Fatal("record expired before its TTL")
	}
	mr.FastForward(2 * time.Second)
	if ok, err := s.SetIfAbsent(ctx, "k", "b", 30*time.Second); err != nil || !ok {
		t.Fatalf("record should have expired, ok %v err %v", ok, err)
	}
}

func TestRedisCompareAndDelete(t *testing.T) {
	s, _, ctx := newRedisStore(t)
	if ok, _ := s.SetIfAbsent(ctx, "k", "a", time.Minute); !ok {
		t.Fatal("set failed")
	}
	if ok, err := s.CompareAndDelete(ctx, "k", "other"); err != nil || ok {
		t.Fatalf("mismatched delete must be a no-op, ok %v err %v", ok, err)
	}
	if _, found, _ := s.Get(ctx, "k"); !found {
		t.Fatal("record deleted despite token mismatch")
	}
	if ok, err := s.CompareAndDelete(ctx, "k", "a"); err != nil || !ok {
		t.Fatalf("matched delete: ok %v err %v", ok, err)
	}
	if _, found, _ := s.Get(ctx, "k"); found {
		t.Fatal("record still present after delete")
	}
}

func TestRedisPutAndGet(t *testing.T) {
	s, mr, ctx := newRedisStore(t)
	if err := s.Put(ctx, "hb", "alive", 5*time.Second); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, found, err := s.Get(ctx, "hb")
	if err != nil || !found || v != "alive" {
		t.Fatalf("get: %q found %v err %v", v, found, err)
	}
	mr.FastForward(6 * time.Second)
	if _, found, _ := s.Get(ctx, "hb"); found {
		t.Fatal("heartbeat record survived its TTL")
	}
}

func TestRedisFailClosedWhenDown(t *testing.T) {
	s, mr, ctx := newRedisStore(t)
	mr.Close()

	ok, err := s.SetIfAbsent(ctx, "k", "a", time.Minute)
	if ok {
		t.Fatal("unreachable store must never report acquisition")
	}
	if err == nil {
		t.Fatal("expected store error")
	}
	if !electerrors.IsStoreUnavailable(err) && !stdErrors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error kind: %v", err)
	}
}
