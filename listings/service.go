// Package listings ties the remote client and the normalizer into the
// interface the HTTP layer consumes.
package listings

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourorg/listing-api/airtable"
	"github.com/yourorg/listing-api/normalize"
)

type Service struct {
	Client      *airtable.Client
	Transformer *normalize.Transformer
}

func NewService(client *airtable.Client, tr *normalize.Transformer) *Service {
	if tr == nil {
		tr = normalize.NewTransformer(normalize.DefaultFieldMap())
	}
	return &Service{Client: client, Transformer: tr}
}

// FetchAll retrieves and transforms every record, then drops rows that fail
// the viability filter (synthesized title or empty address). Transformation
// failures degrade per field and never abort the batch; network and auth
// failures abort the whole call with one error.
func (s *Service) FetchAll(ctx context.Context) ([]normalize.Property, error) {
	records, err := s.Client.FetchAllRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch all: %w", err)
	}
	return s.transformViable(records), nil
}

// FetchOne returns the transformed record, or nil without error when the
// record does not exist upstream; deletion is an expected condition, not a
// failure.
func (s *Service) FetchOne(ctx context.Context, id string) (*normalize.Property, error) {
	rec, err := s.Client.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, airtable.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch %s: %w", id, err)
	}
	p := s.Transformer.Transform(*rec)
	return &p, nil
}

// Search pushes the filters upstream as a filter formula and transforms the
// single result page.
func (s *Service) Search(ctx context.Context, f Filters) ([]normalize.Property, error) {
	records, err := s.Client.SearchRecords(ctx, f.Formula())
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return s.transformViable(records), nil
}

// UpstreamStatus is the result of a connection probe.
type UpstreamStatus struct {
	OK          bool     `json:"ok"`
	FieldLabels []string `json:"fieldLabels,omitempty"`
	ImageSlots  []string `json:"imageSlots,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Validate probes the upstream table with a one-record request and reports
// the field labels it exposes, so a relabeled table is caught early instead
// of silently emptying every property.
func (s *Service) Validate(ctx context.Context) UpstreamStatus {
	labels, err := s.Client.Probe(ctx)
	if err != nil {
		return UpstreamStatus{Error: err.Error()}
	}
	st := UpstreamStatus{OK: true, FieldLabels: labels}
	for _, l := range labels {
		if len(l) > 0 && hasImagePrefix(l) {
			st.ImageSlots = append(st.ImageSlots, l)
		}
	}
	return st
}

func hasImagePrefix(label string) bool {
	return len(label) >= len("画像") && label[:len("画像")] == "画像"
}

func (s *Service) transformViable(records []airtable.Record) []normalize.Property {
	out := make([]normalize.Property, 0, len(records))
	for _, rec := range records {
		p := s.Transformer.Transform(rec)
		if p.Viable() {
			out = append(out, p)
		}
	}
	return out
}

// TransformAll transforms without the viability filter. The sync job uses
// this: the store keeps every row, and viability is applied at read time.
func (s *Service) TransformAll(records []airtable.Record) []normalize.Property {
	out := make([]normalize.Property, 0, len(records))
	for _, rec := range records {
		out = append(out, s.Transformer.Transform(rec))
	}
	return out
}
