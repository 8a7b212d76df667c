package listings

import (
	"testing"

	"github.com/yourorg/listing-api/normalize"
)

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func TestComputeStats(t *testing.T) {
	props := []normalize.Property{
		{
			Type: normalize.TypeRetail, Ward: "渋谷区",
			Rent: intp(80000), Area: floatp(20),
			Images:      []string{"u"},
			Coordinates: &normalize.Coordinates{Lat: 35.6, Lng: 139.7},
		},
		{
			Type: normalize.TypeRetail, Ward: "渋谷区",
			Rent: intp(350000), Area: floatp(60),
		},
		{
			Type: normalize.TypeOffice, Ward: "港区",
			Rent: intp(1200000),
		},
		{
			Type: normalize.TypeOther,
		},
	}
	st := ComputeStats(props)

	if st.Total != 4 {
		t.Fatalf("Total = %d", st.Total)
	}
	if st.ByType["retail"] != 2 || st.ByType["office"] != 1 || st.ByType["other"] != 1 {
		t.Fatalf("ByType = %v", st.ByType)
	}
	if st.ByWard["渋谷区"] != 2 || st.ByWard["港区"] != 1 {
		t.Fatalf("ByWard = %v", st.ByWard)
	}
	if got, want := st.AverageRent, (80000+350000+1200000)/3; got != want {
		t.Fatalf("AverageRent = %d, want %d", got, want)
	}
	if st.AverageArea != 40 {
		t.Fatalf("AverageArea = %v, want 40", st.AverageArea)
	}
	if st.PriceRanges.Under10 != 1 || st.PriceRanges.From30 != 1 || st.PriceRanges.Over100 != 1 {
		t.Fatalf("PriceRanges = %+v", st.PriceRanges)
	}
	if st.WithImages != 1 || st.WithCoordinates != 1 {
		t.Fatalf("WithImages = %d, WithCoordinates = %d", st.WithImages, st.WithCoordinates)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	st := ComputeStats(nil)
	if st.Total != 0 || st.AverageRent != 0 || st.AverageArea != 0 {
		t.Fatalf("stats over nothing = %+v", st)
	}
	if st.ByType == nil || st.ByWard == nil {
		t.Fatal("aggregate maps must be non-nil for JSON rendering")
	}
}
