// Package syncer mirrors the upstream table into Postgres on an interval,
// so the API keeps serving listings through upstream outages and the raw
// payload history accumulates for later inspection.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/listing-api/airtable"
	"github.com/yourorg/listing-api/internal/events"
	"github.com/yourorg/listing-api/internal/store"
	"github.com/yourorg/listing-api/normalize"
)

type Config struct {
	// Interval between full syncs; <= 0 means run once and return.
	Interval time.Duration
	// FetchTimeout bounds one full multi-page fetch.
	FetchTimeout time.Duration
}

type Syncer struct {
	Client      *airtable.Client
	Transformer *normalize.Transformer
	Store       *store.Store
	Pub         events.Publisher
	Logger      *slog.Logger
	Config      Config
}

func (s *Syncer) validate() error {
	if s == nil {
		return errors.New("nil syncer")
	}
	if s.Client == nil {
		return errors.New("syncer missing client")
	}
	if s.Store == nil {
		return errors.New("syncer missing store")
	}
	if s.Transformer == nil {
		s.Transformer = normalize.NewTransformer(normalize.DefaultFieldMap())
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if s.Config.FetchTimeout <= 0 {
		s.Config.FetchTimeout = 2 * time.Minute
	}
	return nil
}

func (s *Syncer) Run(ctx context.Context) error {
	if err := s.validate(); err != nil {
		return err
	}
	if s.Config.Interval <= 0 {
		return s.RunOnce(ctx)
	}
	s.Logger.Info("syncer starting", "interval", s.Config.Interval)
	ticker := time.NewTicker(s.Config.Interval)
	defer ticker.Stop()
	for {
		if err := s.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.Logger.Error("sync pass failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce performs one full fetch-transform-upsert pass. A fetch failure
// aborts the pass (no partial data is written from a broken walk); a
// per-record write failure is logged and the pass continues.
func (s *Syncer) RunOnce(ctx context.Context) error {
	if err := s.validate(); err != nil {
		return err
	}
	fetchCtx, cancel := context.WithTimeout(ctx, s.Config.FetchTimeout)
	records, err := s.Client.FetchAllRecords(fetchCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("sync fetch: %w", err)
	}

	written := 0
	for _, rec := range records {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p := s.Transformer.Transform(rec)
		raw, merr := json.Marshal(rec)
		if merr != nil {
			raw = nil
		}
		if err := s.Store.UpsertProperty(ctx, p, raw); err != nil {
			s.Logger.Warn("sync upsert failed", "record", rec.ID, "err", err)
			continue
		}
		written++
		if s.Pub != nil {
			s.Pub.PublishPropertyUpdated(ctx, events.PropertyUpdated{RecordID: rec.ID})
		}
	}
	s.Logger.Info("sync pass complete", "fetched", len(records), "written", written)
	return nil
}
