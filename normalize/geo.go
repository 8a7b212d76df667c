package normalize

// Japan's bounding box. Anything outside is treated as a geocoding mistake
// (swapped columns, degrees-minutes confusion) rather than a valid location.
const (
	japanLatMin = 24.0
	japanLatMax = 46.0
	japanLngMin = 123.0
	japanLngMax = 146.0
)

// Coordinates is an all-or-nothing pair: it exists only when both
// components are finite and inside Japan.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ExtractCoordinates resolves the latitude and longitude candidates
// independently and accepts the pair only when both parse and both fall in
// the Japan bounding box. Any violation yields nil for the whole pair;
// there is never a one-sided result.
func ExtractCoordinates(fields map[string]any, m FieldMap) *Coordinates {
	lat, okLat := ToNumber(Resolve(fields, m.spec(FieldLatitude).Labels))
	lng, okLng := ToNumber(Resolve(fields, m.spec(FieldLongitude).Labels))
	if !okLat || !okLng {
		return nil
	}
	if lat < japanLatMin || lat > japanLatMax || lng < japanLngMin || lng > japanLngMax {
		return nil
	}
	return &Coordinates{Lat: lat, Lng: lng}
}
