package redisx

import (
    "context"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
)

func testClient(t *testing.T) *Client {
    t.Helper()
    mr := miniredis.RunT(t)
    c := New(Config{Addr: mr.Addr()})
    t.Cleanup(func() { c.Close() })
    return c
}

func TestSetGet(t *testing.T) {
    c := testClient(t)
    ctx := context.Background()

    if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
        t.Fatalf("Set: %v", err)
    }
    got, err := c.Get(ctx, "k")
    if err != nil || got != "v" {
        t.Fatalf("Get = (%q, %v)", got, err)
    }
    if _, err := c.Get(ctx, "absent"); err == nil {
        t.Fatal("Get(absent) returned nil error")
    }
}

func TestExistsDel(t *testing.T) {
    c := testClient(t)
    ctx := context.Background()

    ok, err := c.Exists(ctx, "k")
    if err != nil || ok {
        t.Fatalf("Exists before set = (%v, %v)", ok, err)
    }
    _ = c.Set(ctx, "k", "v", time.Minute)
    if ok, _ = c.Exists(ctx, "k"); !ok {
        t.Fatal("Exists after set = false")
    }
    if err := c.Del(ctx, "k"); err != nil {
        t.Fatalf("Del: %v", err)
    }
    if ok, _ = c.Exists(ctx, "k"); ok {
        t.Fatal("Exists after del = true")
    }
}

func TestSetNXLock(t *testing.T) {
    c := testClient(t)
    ctx := context.Background()

    ok, err := c.SetNX(ctx, "lock", "1", time.Minute)
    if err != nil || !ok {
        t.Fatalf("first SetNX = (%v, %v), want winner", ok, err)
    }
    ok, err = c.SetNX(ctx, "lock", "1", time.Minute)
    if err != nil || ok {
        t.Fatalf("second SetNX = (%v, %v), want loser", ok, err)
    }
}
