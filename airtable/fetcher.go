package airtable

import (
	"context"
	"fmt"
)

// FetchAllRecords walks the listing endpoint to exhaustion, following the
// continuation token returned by each page. It stops when a response carries
// no token, returns zero records, or the page ceiling is hit. Any HTTP-level
// failure aborts the whole walk: partial data is never returned silently.
func (c *Client) FetchAllRecords(ctx context.Context) ([]Record, error) {
	return c.fetchPages(ctx, "")
}

// SearchRecords is a single-page listing request with a server-side filter
// formula. Filter construction lives with the caller; this just carries the
// formula through.
func (c *Client) SearchRecords(ctx context.Context, filter string) ([]Record, error) {
	page, err := c.list(ctx, listQuery{filter: filter})
	if err != nil {
		return nil, fmt.Errorf("airtable: search: %w", err)
	}
	return page.Records, nil
}

// Probe issues a one-record listing request and reports the field labels the
// upstream table currently exposes. Meant for connectivity checks, not data.
func (c *Client) Probe(ctx context.Context) ([]string, error) {
	page, err := c.list(ctx, listQuery{perPage: 1})
	if err != nil {
		return nil, fmt.Errorf("airtable: probe: %w", err)
	}
	if len(page.Records) == 0 {
		return nil, nil
	}
	labels := make([]string, 0, len(page.Records[0].Fields))
	for k := range page.Records[0].Fields {
		labels = append(labels, k)
	}
	return labels, nil
}

func (c *Client) fetchPages(ctx context.Context, filter string) ([]Record, error) {
	var all []Record
	offset := ""
	for page := 1; ; page++ {
		if page > c.cfg.MaxPages {
			// A well-behaved upstream terminates the token chain long
			// before this; treat overrun as data, not an error.
			break
		}
		resp, err := c.list(ctx, listQuery{offset: offset, filter: filter})
		if err != nil {
			return nil, fmt.Errorf("airtable: page %d: %w", page, err)
		}
		if len(resp.Records) == 0 {
			break
		}
		all = append(all, resp.Records...)
		if resp.Offset == "" {
			break
		}
		offset = resp.Offset
	}
	return all, nil
}
