package v1

import (
    "context"
    "encoding/json"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/render"
    "github.com/yourorg/listing-api/internal/redisx"
    "github.com/yourorg/listing-api/internal/store"
    "github.com/yourorg/listing-api/listings"
    "github.com/yourorg/listing-api/normalize"
)

type PropertyDeps struct {
    Redis   *redisx.Client
    Service *listings.Service
    // Refetch enqueues a background stale-while-revalidate refresh.
    Refetch func(recordID string)
    // Store, when present, receives a write-behind copy of fresh fetches.
    Store *store.Store

    CacheTTL    time.Duration
    StaleAfter  time.Duration
    NegativeTTL time.Duration
}

type cachedEnvelope struct {
    Data normalize.Property `json:"data"`
    Meta struct {
        LastFetch  time.Time `json:"last_fetch_at"`
        StaleAfter time.Time `json:"stale_after"`
        TTLSeconds int       `json:"ttl_seconds"`
    } `json:"meta"`
}

func CacheKey(recordID string) string { return "prop:rec:" + recordID }
func MissKey(recordID string) string  { return "prop:miss:" + recordID }
func lockKey(recordID string) string  { return "prop:lock:" + recordID }

// RegisterProperty serves single properties through a Redis cache with
// stale-while-revalidate: expired-but-cached entries are served immediately
// while a background refetch replaces them, and upstream misses are
// negative-cached so a deleted record cannot hammer the API.
func RegisterProperty(r chi.Router, d PropertyDeps) {
    r.Get("/v1/properties/{id}", func(w http.ResponseWriter, req *http.Request) {
        serveProperty(w, req, d, chi.URLParam(req, "id"))
    })
}

func serveProperty(w http.ResponseWriter, req *http.Request, d PropertyDeps, id string) {
    if id == "" {
        render.Status(req, http.StatusBadRequest)
        _ = json.NewEncoder(w).Encode(map[string]any{"error": "id_required"})
        return
    }
    ctx := req.Context()

    if ok, _ := d.Redis.Exists(ctx, MissKey(id)); ok {
        render.Status(req, http.StatusNotFound)
        _ = json.NewEncoder(w).Encode(map[string]any{"error": "not_found", "id": id, "cache_miss_cooldown": true})
        return
    }

    if val, err := d.Redis.Get(ctx, CacheKey(id)); err == nil && val != "" {
        var env cachedEnvelope
        if err := json.Unmarshal([]byte(val), &env); err == nil {
            stale := time.Now().After(env.Meta.StaleAfter)
            if stale && d.Refetch != nil {
                d.Refetch(id)
            }
            render.JSON(w, req, map[string]any{
                "ok":       true,
                "source":   "cache",
                "stale":    stale,
                "property": env.Data,
            })
            return
        }
    }

    // Cache miss: short lock so concurrent requests for the same record
    // produce one upstream call, not a stampede.
    if ok, _ := d.Redis.SetNX(ctx, lockKey(id), "1", 8*time.Second); !ok {
        render.Status(req, http.StatusAccepted)
        _ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "in_progress": true, "id": id})
        return
    }

    prop, err := d.Service.FetchOne(ctx, id)
    if err != nil {
        render.Status(req, http.StatusBadGateway)
        _ = json.NewEncoder(w).Encode(map[string]any{"error": "upstream_error", "detail": err.Error()})
        return
    }
    if prop == nil {
        _ = d.Redis.Set(ctx, MissKey(id), "1", maxDur(d.NegativeTTL, time.Minute))
        render.Status(req, http.StatusNotFound)
        _ = json.NewEncoder(w).Encode(map[string]any{"error": "not_found", "id": id})
        return
    }

    StoreEnvelope(ctx, d, *prop)

    if d.Store != nil {
        _ = d.Store.UpsertProperty(ctx, *prop, nil)
    }

    render.JSON(w, req, map[string]any{
        "ok":       true,
        "source":   "fresh",
        "stale":    false,
        "property": prop,
    })
}

// StoreEnvelope caches a freshly transformed property. The refresher uses
// this too after a background refetch.
func StoreEnvelope(ctx context.Context, d PropertyDeps, p normalize.Property) {
    env := cachedEnvelope{Data: p}
    env.Meta.LastFetch = time.Now()
    env.Meta.StaleAfter = env.Meta.LastFetch.Add(maxDur(d.StaleAfter, 5*time.Minute))
    env.Meta.TTLSeconds = int(maxDur(d.CacheTTL, time.Hour).Seconds())
    b, err := json.Marshal(env)
    if err != nil {
        return
    }
    _ = d.Redis.Set(ctx, CacheKey(p.ID), string(b), time.Duration(env.Meta.TTLSeconds)*time.Second)
}

func maxDur(a, b time.Duration) time.Duration { if a > 0 { return a }; return b }
