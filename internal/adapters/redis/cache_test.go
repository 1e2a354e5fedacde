package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "staysip/internal/adapters/redis"
)

type payload struct {
	Items []string `json:"items"`
}

func TestCacheRoundTripAndReset(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	var out payload
	if ok, err := c.Get(ctx, "k", &out); ok || err != nil {
		t.Fatalf("empty get: %v %v", ok, err)
	}

	if err := c.Set(ctx, "k", payload{Items: []string{"a", "b"}}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	ok, err := c.Get(ctx, "k", &out)
	if err != nil || !ok {
		t.Fatalf("get: %v %v", ok, err)
	}
	if len(out.Items) != 2 || out.Items[0] != "a" {
		t.Fatalf("roundtrip: %+v", out)
	}
	if ttl := mr.TTL("k"); ttl != 60*time.Second {
		t.Fatalf("ttl: %v", ttl)
	}

	if err := c.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if ok, _ := c.Get(ctx, "k", &out); ok {
		t.Fatal("key survived reset")
	}
}

func TestCacheEntryExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "e", payload{Items: []string{"x"}}, 1); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Second)

	var out payload
	if ok, _ := c.Get(ctx, "e", &out); ok {
		t.Fatal("expired key still served")
	}
}
