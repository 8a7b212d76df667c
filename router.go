package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	httpapi "github.com/yourorg/listing-api/http"
	httpv1 "github.com/yourorg/listing-api/http/v1"
	"github.com/yourorg/listing-api/internal/store"
	"github.com/yourorg/listing-api/listings"
)

type routerDeps struct {
	service *listings.Service
	store   *store.Store // optional fallback source
	v1      *httpv1.PropertyDeps
}

func buildRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(httprate.LimitByIP(100, 1*time.Minute)) // protect upstream quota
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })

	httpapi.RegisterProperties(r, httpapi.PropertiesDeps{Service: d.service, Store: d.store})
	httpapi.RegisterSearch(r, httpapi.SearchDeps{Service: d.service})
	httpapi.RegisterLines(r)

	// v1 single-property endpoint with Redis + SWR, only when Redis is configured
	if d.v1 != nil && d.v1.Redis != nil {
		httpv1.RegisterProperty(r, *d.v1)
	}

	return r
}
