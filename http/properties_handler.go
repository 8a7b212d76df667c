package httpapi

import (
    "encoding/json"
    "log/slog"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/render"
    "github.com/yourorg/listing-api/internal/store"
    "github.com/yourorg/listing-api/listings"
)

type PropertiesDeps struct {
    Service *listings.Service
    // Store, when present, serves as a fallback listing source while the
    // upstream API is down.
    Store *store.Store
}

func RegisterProperties(r chi.Router, d PropertiesDeps) {
    r.Get("/properties", func(w http.ResponseWriter, req *http.Request) {
        props, err := d.Service.FetchAll(req.Context())
        if err != nil {
            if d.Store != nil {
                if cached, dbErr := d.Store.ViableProperties(req.Context(), limitParam(req)); dbErr == nil && len(cached) > 0 {
                    slog.Warn("serving properties from database fallback", "err", err)
                    render.JSON(w, req, map[string]any{
                        "ok": true, "source": "database", "count": len(cached), "properties": cached,
                    })
                    return
                }
            }
            upstreamError(w, req, err)
            return
        }
        render.JSON(w, req, map[string]any{
            "ok": true, "source": "airtable", "count": len(props), "properties": props,
        })
    })

    r.Get("/properties/{id}", func(w http.ResponseWriter, req *http.Request) {
        id := chi.URLParam(req, "id")
        prop, err := d.Service.FetchOne(req.Context(), id)
        if err != nil {
            upstreamError(w, req, err)
            return
        }
        if prop == nil {
            render.Status(req, http.StatusNotFound)
            _ = json.NewEncoder(w).Encode(map[string]any{"error": "not_found", "id": id})
            return
        }
        render.JSON(w, req, map[string]any{"ok": true, "property": prop})
    })

    r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
        props, err := d.Service.FetchAll(req.Context())
        if err != nil {
            upstreamError(w, req, err)
            return
        }
        render.JSON(w, req, map[string]any{"ok": true, "stats": listings.ComputeStats(props)})
    })

    r.Get("/health/upstream", func(w http.ResponseWriter, req *http.Request) {
        st := d.Service.Validate(req.Context())
        if !st.OK {
            render.Status(req, http.StatusBadGateway)
        }
        render.JSON(w, req, st)
    })
}

func limitParam(req *http.Request) int {
    if v := req.URL.Query().Get("limit"); v != "" {
        if i, err := strconv.Atoi(v); err == nil {
            return i
        }
    }
    return 0
}

func upstreamError(w http.ResponseWriter, req *http.Request, err error) {
    render.Status(req, http.StatusBadGateway)
    _ = json.NewEncoder(w).Encode(map[string]any{"error": "upstream_error", "detail": err.Error()})
}
