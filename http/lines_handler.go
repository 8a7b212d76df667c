package httpapi

import (
    "encoding/json"
    "net/http"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/render"
    "github.com/yourorg/listing-api/normalize"
)

// RegisterLines serves the fixed train-line catalog the search UI builds
// its pickers from. No upstream calls; the catalog ships with the binary.
func RegisterLines(r chi.Router) {
    r.Get("/lines", func(w http.ResponseWriter, req *http.Request) {
        names := normalize.LineNames()
        render.JSON(w, req, map[string]any{"ok": true, "count": len(names), "lines": names})
    })

    r.Get("/lines/{line}/stations", func(w http.ResponseWriter, req *http.Request) {
        line := chi.URLParam(req, "line")
        stations := normalize.StationsByLine(line)
        if stations == nil {
            render.Status(req, http.StatusNotFound)
            _ = json.NewEncoder(w).Encode(map[string]any{"error": "line_not_found", "line": line})
            return
        }
        render.JSON(w, req, map[string]any{
            "ok":       true,
            "line":     normalize.NormalizeLine(line),
            "count":    len(stations),
            "stations": stations,
        })
    })
}
