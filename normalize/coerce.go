package normalize

import (
	"math"
	"strconv"
	"strings"
)

// Placeholder tokens the source uses to mean "none". These coerce to
// absent, not zero: a listing with no key money (0円) and a listing where
// the field says 無し are different facts and stay different here.
var nonePlaceholders = map[string]struct{}{
	"無し": {},
	"なし": {},
	"無":  {},
	"-":  {},
	"ー":  {},
}

// ToNumber coerces a raw field value to a float. The second return is false
// for nil, empty strings, "none" placeholders, and anything that does not
// parse to a finite number. Locale decorations (currency marks, commas,
// units like 円 or ㎡) are stripped before parsing, keeping digits, '.' and
// '-' only. Zero is a value: ToNumber(0) = (0, true).
func ToNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case int:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if _, none := nonePlaceholders[s]; none {
			return 0, false
		}
		var b strings.Builder
		for _, r := range s {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				b.WriteRune(r)
			}
		}
		f, err := strconv.ParseFloat(b.String(), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// HasValue reports whether a raw field carries usable content: false for
// nil, blank strings, "none" placeholders and empty lists. Numeric zero
// counts as a value (see ToNumber).
func HasValue(v any) bool {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return false
		}
		_, none := nonePlaceholders[s]
		return !none
	default:
		return !isEmptyValue(v)
	}
}

// PropertyType is the normalized usage category of a listing.
type PropertyType string

const (
	TypeRestaurant  PropertyType = "restaurant"
	TypeOffice      PropertyType = "office"
	TypeWarehouse   PropertyType = "warehouse"
	TypeResidential PropertyType = "residential"
	TypeRetail      PropertyType = "retail"
	TypeService     PropertyType = "service"
	TypeOther       PropertyType = "other"
)

// typeKeywords is checked in order; the first category with a matching
// keyword wins, so the order is a tie-break policy, not an accident.
// Notably 飲食 is tested before 店舗: "飲食店舗" classifies as restaurant,
// a bare "店舗" as retail.
var typeKeywords = []struct {
	t        PropertyType
	keywords []string
}{
	{TypeRestaurant, []string{"飲食", "レストラン", "restaurant"}},
	{TypeOffice, []string{"事務所", "オフィス", "office"}},
	{TypeWarehouse, []string{"倉庫", "工場", "warehouse"}},
	{TypeResidential, []string{"居宅", "住宅", "マンション", "アパート", "residential"}},
	{TypeRetail, []string{"店舗", "小売", "retail", "shop"}},
	{TypeService, []string{"サービス", "美容", "理容", "service", "salon"}},
}

// ClassifyType maps a raw usage label to a PropertyType by case-insensitive
// substring match against the keyword table. Unknown or empty input is
// TypeOther.
func ClassifyType(raw string) PropertyType {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return TypeOther
	}
	for _, cat := range typeKeywords {
		for _, kw := range cat.keywords {
			if strings.Contains(s, kw) {
				return cat.t
			}
		}
	}
	return TypeOther
}
