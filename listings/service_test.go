package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourorg/listing-api/airtable"
	"github.com/yourorg/listing-api/normalize"
)

type fakeRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type fakePage struct {
	Records []fakeRecord `json:"records"`
	Offset  string       `json:"offset,omitempty"`
}

func viableFields(i int) map[string]any {
	return map[string]any{
		"物件タイトル": fmt.Sprintf("テスト物件 %d", i),
		"都道府県名":  "東京都",
		"所在地名１":  "渋谷区",
	}
}

func newTestService(t *testing.T, handler http.Handler) (*Service, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client, err := airtable.NewClient(airtable.Config{
		APIKey:       "test-key",
		BaseID:       "appTEST",
		BaseURL:      srv.URL,
		PageSize:     100,
		PageInterval: time.Millisecond,
	})
	if err != nil {
		srv.Close()
		t.Fatalf("NewClient: %v", err)
	}
	return NewService(client, nil), srv.Close
}

func TestFetchAllFiltersNonViable(t *testing.T) {
	svc, done := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := fakePage{}
		// 3 viable rows, one with no title, one with no address.
		for i := 0; i < 3; i++ {
			page.Records = append(page.Records, fakeRecord{ID: fmt.Sprintf("rec%d", i), Fields: viableFields(i)})
		}
		page.Records = append(page.Records,
			fakeRecord{ID: "recNOTITLE", Fields: map[string]any{"所在地名１": "港区"}},
			fakeRecord{ID: "recNOADDR", Fields: map[string]any{"物件タイトル": "住所なし"}},
		)
		json.NewEncoder(w).Encode(page)
	}))
	defer done()

	props, err := svc.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(props) != 3 {
		t.Fatalf("got %d properties, want noise rows dropped to 3", len(props))
	}
	for _, p := range props {
		if !p.Viable() {
			t.Fatalf("non-viable property survived: %+v", p)
		}
	}
}

func TestFetchOneMissingIsNil(t *testing.T) {
	svc, done := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"type": "NOT_FOUND"}})
	}))
	defer done()

	p, err := svc.FetchOne(context.Background(), "recGONE")
	if err != nil {
		t.Fatalf("FetchOne: %v, want nil error for a deleted record", err)
	}
	if p != nil {
		t.Fatalf("FetchOne = %+v, want nil", p)
	}
}

func TestFetchOneTransforms(t *testing.T) {
	svc, done := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fakeRecord{ID: "rec1", Fields: map[string]any{
			"物件タイトル": "駅前店舗",
			"物件種目":   "店舗",
			"都道府県名":  "東京都",
			"所在地名１":  "新宿区",
			"賃料（万円）": 25.0,
		}})
	}))
	defer done()

	p, err := svc.FetchOne(context.Background(), "rec1")
	if err != nil {
		t.Fatalf("FetchOne: %v", err)
	}
	if p == nil || p.Title != "駅前店舗" {
		t.Fatalf("FetchOne = %+v", p)
	}
	if p.Type != normalize.TypeRetail {
		t.Fatalf("Type = %v", p.Type)
	}
	if p.Rent == nil || *p.Rent != 250000 {
		t.Fatalf("Rent = %v, want 250000", p.Rent)
	}
}

func TestSearchPushesFormulaUpstream(t *testing.T) {
	var gotFormula string
	svc, done := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFormula = r.URL.Query().Get("filterByFormula")
		json.NewEncoder(w).Encode(fakePage{Records: []fakeRecord{
			{ID: "rec1", Fields: viableFields(1)},
		}})
	}))
	defer done()

	props, err := svc.Search(context.Background(), Filters{Area: "渋谷"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(props) != 1 {
		t.Fatalf("got %d properties", len(props))
	}
	if gotFormula != (Filters{Area: "渋谷"}).Formula() {
		t.Fatalf("filterByFormula = %q", gotFormula)
	}
}

func TestValidateReportsLabelsAndSlots(t *testing.T) {
	svc, done := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fakePage{Records: []fakeRecord{{
			ID: "rec1",
			Fields: map[string]any{
				"物件タイトル": "x",
				"画像1":    []any{map[string]any{"url": "u"}},
				"画像2":    []any{map[string]any{"url": "u"}},
			},
		}}})
	}))
	defer done()

	st := svc.Validate(context.Background())
	if !st.OK {
		t.Fatalf("Validate = %+v, want OK", st)
	}
	if len(st.FieldLabels) != 3 {
		t.Fatalf("FieldLabels = %v", st.FieldLabels)
	}
	if len(st.ImageSlots) != 2 {
		t.Fatalf("ImageSlots = %v, want both attachment slots detected", st.ImageSlots)
	}
}

func TestValidateReportsFailure(t *testing.T) {
	svc, done := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"type": "AUTHENTICATION_REQUIRED"}})
	}))
	defer done()

	st := svc.Validate(context.Background())
	if st.OK || st.Error == "" {
		t.Fatalf("Validate = %+v, want failure reported", st)
	}
}
