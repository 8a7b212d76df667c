package listings

import (
	"fmt"
	"strings"
)

// Filters describes a property search. Zero values mean "no constraint".
type Filters struct {
	PropertyType string  `json:"property_type,omitempty"`
	Area         string  `json:"area,omitempty"`
	Station      string  `json:"station,omitempty"`
	MaxRentMan   float64 `json:"max_rent_man,omitempty"` // upper bound in man-yen, as the source stores rent
	MinArea      float64 `json:"min_area,omitempty"`     // square meters
}

// Formula renders the filters as an Airtable filterByFormula expression.
// Empty filters render to "" (no server-side filtering).
func (f Filters) Formula() string {
	var conds []string
	if f.PropertyType != "" {
		conds = append(conds, fmt.Sprintf(`FIND(%s,{物件種目})`, quote(f.PropertyType)))
	}
	if f.Area != "" {
		conds = append(conds, fmt.Sprintf(`OR(FIND(%s,{所在地名１}),FIND(%s,{住所}))`, quote(f.Area), quote(f.Area)))
	}
	if f.Station != "" {
		q := quote(f.Station)
		conds = append(conds, fmt.Sprintf(`OR(FIND(%s,{駅名}),FIND(%s,{駅名2}),FIND(%s,{駅名3}))`, q, q, q))
	}
	if f.MaxRentMan > 0 {
		conds = append(conds, fmt.Sprintf(`{賃料（万円）}<=%g`, f.MaxRentMan))
	}
	if f.MinArea > 0 {
		conds = append(conds, fmt.Sprintf(`{使用部分面積}>=%g`, f.MinArea))
	}
	switch len(conds) {
	case 0:
		return ""
	case 1:
		return conds[0]
	default:
		return "AND(" + strings.Join(conds, ",") + ")"
	}
}

// quote escapes a user-supplied term for embedding in a formula string
// literal. Double quotes are doubled per the formula grammar.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
