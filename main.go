package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourorg/listing-api/airtable"
	"github.com/yourorg/listing-api/internal/env"
	"github.com/yourorg/listing-api/internal/events"
	"github.com/yourorg/listing-api/internal/logx"
	"github.com/yourorg/listing-api/internal/redisx"
	"github.com/yourorg/listing-api/internal/refresh"
	"github.com/yourorg/listing-api/internal/store"
	"github.com/yourorg/listing-api/listings"
	"github.com/yourorg/listing-api/normalize"

	httpv1 "github.com/yourorg/listing-api/http/v1"
)

func main() {
	_ = godotenv.Load()
	logger := logx.Setup()

	port := env.GetInt("PORT", 4002)

	client, err := airtable.NewClient(airtable.Config{
		APIKey:       env.Must("AIRTABLE_API_KEY"),
		BaseID:       env.Must("AIRTABLE_BASE_ID"),
		Table:        env.Get("AIRTABLE_TABLE", "Reins"),
		View:         env.Get("AIRTABLE_VIEW", "Grid view"),
		PageSize:     env.GetInt("AIRTABLE_PAGE_SIZE", 100),
		MaxPages:     env.GetInt("AIRTABLE_MAX_PAGES", 50),
		PageInterval: env.GetDuration("AIRTABLE_PAGE_INTERVAL", 250*time.Millisecond),
	})
	if err != nil {
		logger.Error("airtable client", "err", err)
		return
	}

	fieldMap := normalize.DefaultFieldMap()
	if path := env.Get("FIELD_MAP_FILE", ""); path != "" {
		fieldMap, err = normalize.LoadFieldMap(path)
		if err != nil {
			logger.Error("field map", "err", err)
			return
		}
		logger.Info("field map loaded", "path", path, "version", fieldMap.Version)
	}
	service := listings.NewService(client, normalize.NewTransformer(fieldMap))

	var st *store.Store
	if dsn := env.Get("PG_DSN", ""); dsn != "" {
		st, err = store.Open(dsn)
		if err != nil {
			logger.Error("store open", "err", err)
			return
		}
		defer st.DB.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := st.Ping(ctx); err != nil {
			cancel()
			logger.Error("postgres ping", "err", err)
			return
		}
		if err := st.Migrate(ctx); err != nil {
			cancel()
			logger.Error("postgres migrate", "err", err)
			return
		}
		cancel()
		logger.Info("postgres store enabled")
	}

	deps := routerDeps{service: service, store: st}

	if addr := env.Get("REDIS_ADDR", ""); addr != "" {
		rdb := redisx.New(redisx.Config{
			Addr:     addr,
			Password: env.Get("REDIS_PASSWORD", ""),
			DB:       env.GetInt("REDIS_DB", 0),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx)
		cancel()
		if err != nil {
			logger.Warn("redis unreachable, cache disabled", "err", err)
		} else {
			pub := events.NewInMemory(256)
			v1 := &httpv1.PropertyDeps{
				Redis:       rdb,
				Service:     service,
				Store:       st,
				CacheTTL:    env.GetDuration("CACHE_TTL", time.Hour),
				StaleAfter:  env.GetDuration("CACHE_STALE_AFTER", 5*time.Minute),
				NegativeTTL: env.GetDuration("CACHE_NEGATIVE_TTL", time.Minute),
			}
			refresher := refresh.New(256, 2, func(ctx context.Context, j refresh.Job) {
				prop, err := service.FetchOne(ctx, j.RecordID)
				if err != nil || prop == nil {
					return
				}
				httpv1.StoreEnvelope(ctx, *v1, *prop)
				pub.PublishPropertyUpdated(ctx, events.PropertyUpdated{RecordID: j.RecordID})
			})
			v1.Refetch = func(recordID string) { refresher.Enqueue(refresh.Job{RecordID: recordID}) }

			// a successful background refresh clears any lingering negative-cache
			// marker for the record; the fresh envelope itself was already written
			go func() {
				for evt := range pub.SubscribePropertyUpdated() {
					_ = rdb.Del(context.Background(), httpv1.MissKey(evt.RecordID))
				}
			}()

			deps.v1 = v1
			logger.Info("redis cache enabled", "addr", addr)
		}
	}

	router := buildRouter(deps)

	logger.Info("listing-api listening", "port", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), logx.Middleware(router)); err != nil {
		logger.Error("server stopped", "err", err)
	}
}
