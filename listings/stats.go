package listings

import (
	"math"

	"github.com/yourorg/listing-api/normalize"
)

// Stats is an aggregate snapshot over an already-fetched property list.
type Stats struct {
	Total           int            `json:"total"`
	ByType          map[string]int `json:"byType"`
	ByWard          map[string]int `json:"byWard"`
	AverageRent     int            `json:"averageRent"` // yen
	AverageArea     float64        `json:"averageArea"` // square meters
	PriceRanges     PriceRanges    `json:"priceRanges"`
	WithImages      int            `json:"withImages"`
	WithCoordinates int            `json:"withCoordinates"`
}

// PriceRanges buckets monthly rent in man-yen.
type PriceRanges struct {
	Under10 int `json:"under10"`
	From10  int `json:"10to30"`
	From30  int `json:"30to50"`
	From50  int `json:"50to100"`
	Over100 int `json:"over100"`
}

// ComputeStats is a pure reduction; it performs no network access.
func ComputeStats(props []normalize.Property) Stats {
	st := Stats{
		Total:  len(props),
		ByType: map[string]int{},
		ByWard: map[string]int{},
	}
	var rentSum, areaSum float64
	var rentN, areaN int
	for _, p := range props {
		st.ByType[string(p.Type)]++
		if p.Ward != "" {
			st.ByWard[p.Ward]++
		}
		if p.Rent != nil {
			rent := float64(*p.Rent)
			rentSum += rent
			rentN++
			switch man := rent / 10000; {
			case man < 10:
				st.PriceRanges.Under10++
			case man < 30:
				st.PriceRanges.From10++
			case man < 50:
				st.PriceRanges.From30++
			case man < 100:
				st.PriceRanges.From50++
			default:
				st.PriceRanges.Over100++
			}
		}
		if p.Area != nil {
			areaSum += *p.Area
			areaN++
		}
		if len(p.Images) > 0 {
			st.WithImages++
		}
		if p.Coordinates != nil {
			st.WithCoordinates++
		}
	}
	if rentN > 0 {
		st.AverageRent = int(math.Round(rentSum / float64(rentN)))
	}
	if areaN > 0 {
		st.AverageArea = math.Round(areaSum/float64(areaN)*100) / 100
	}
	return st
}
