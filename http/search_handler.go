package httpapi

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/render"
    "github.com/yourorg/listing-api/listings"
)

type SearchDeps struct {
    Service *listings.Service
}

func RegisterSearch(r chi.Router, d SearchDeps) {
    // POST: JSON body
    r.Post("/search", func(w http.ResponseWriter, req *http.Request) {
        var f listings.Filters
        if err := json.NewDecoder(req.Body).Decode(&f); err != nil {
            render.Status(req, http.StatusBadRequest)
            _ = json.NewEncoder(w).Encode(map[string]any{"error": "invalid_json", "detail": err.Error()})
            return
        }
        handleSearchRequest(w, req, d, f)
    })

    // GET: query params (compatibility)
    r.Get("/search", func(w http.ResponseWriter, req *http.Request) {
        q := req.URL.Query()
        var f listings.Filters
        f.PropertyType = q.Get("property_type")
        f.Area = q.Get("area")
        f.Station = q.Get("station")
        if v := q.Get("max_rent_man"); v != "" {
            if fv, err := strconv.ParseFloat(v, 64); err == nil { f.MaxRentMan = fv }
        }
        if v := q.Get("min_area"); v != "" {
            if fv, err := strconv.ParseFloat(v, 64); err == nil { f.MinArea = fv }
        }
        handleSearchRequest(w, req, d, f)
    })
}

func handleSearchRequest(w http.ResponseWriter, req *http.Request, d SearchDeps, f listings.Filters) {
    props, err := d.Service.Search(req.Context(), f)
    if err != nil {
        upstreamError(w, req, err)
        return
    }
    render.JSON(w, req, map[string]any{
        "ok":         true,
        "count":      len(props),
        "properties": props,
    })
}
