package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourorg/listing-api/airtable"
	"github.com/yourorg/listing-api/internal/env"
	"github.com/yourorg/listing-api/internal/logx"
	"github.com/yourorg/listing-api/internal/store"
	"github.com/yourorg/listing-api/internal/syncer"
	"github.com/yourorg/listing-api/normalize"
)

func main() {
	_ = godotenv.Load()
	logger := logx.Setup()

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
		os.Exit(1)
	}

	st, err := store.Open(env.Must("PG_DSN"))
	if err != nil {
		logger.Error("store open", "err", err)
		os.Exit(1)
	}
	defer st.DB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.Ping(ctx); err != nil {
		cancel()
		logger.Error("postgres ping", "err", err)
		os.Exit(1)
	}
	if err := st.Migrate(ctx); err != nil {
		cancel()
		logger.Error("postgres migrate", "err", err)
		os.Exit(1)
	}
	cancel()

	fieldMap := normalize.DefaultFieldMap()
	if path := env.Get("FIELD_MAP_FILE", ""); path != "" {
		fieldMap, err = normalize.LoadFieldMap(path)
		if err != nil {
			logger.Error("field map", "err", err)
			os.Exit(1)
		}
	}

	// No Pub here: cache invalidation subscribers live in the API process,
	// and an in-memory bus does not cross that boundary.
	job := &syncer.Syncer{
		Client:      client,
		Transformer: normalize.NewTransformer(fieldMap),
		Store:       st,
		Logger:      logger,
		Config: syncer.Config{
			Interval:     env.GetDuration("SYNC_INTERVAL", 6*time.Hour),
			FetchTimeout: env.GetDuration("SYNC_FETCH_TIMEOUT", 2*time.Minute),
		},
	}
	if env.GetBool("SYNC_RUN_ONCE", false) {
		job.Config.Interval = 0
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := job.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("syncer stopped", "err", err)
		os.Exit(1)
	}
}
