package normalize

import (
	"strings"
	"time"
)

// Property is the canonical listing entity the UI consumes. It is built
// fresh on every fetch and never cached inside this package; identity comes
// from the source record ID.
type Property struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Type  PropertyType `json:"type"`

	Address      string `json:"address"`
	Prefecture   string `json:"prefecture"`
	Ward         string `json:"ward"`
	Location     string `json:"location"`
	BuildingName string `json:"buildingName"`

	TrainLines     []string `json:"trainLines"`
	NearestStation string   `json:"nearestStation"`
	WalkingMinutes *int     `json:"walkingMinutes"`

	Coordinates *Coordinates `json:"coordinates"`

	// Monetary amounts are in yen, the smallest currency unit.
	Rent            *int     `json:"rent"`
	Deposit         *int     `json:"deposit"`
	KeyMoney        *int     `json:"keyMoney"`
	ManagementFee   *int     `json:"managementFee"`
	SecurityDeposit *int     `json:"securityDeposit"`
	RenewalFee      *int     `json:"renewalFee"`
	RentPerSqm      *float64 `json:"rentPerSqm"`
	TsuboPrice      *float64 `json:"tsuboPrice"`

	Area        *float64 `json:"area"` // square meters
	Structure   string   `json:"structure"`
	Floor       string   `json:"floor"`
	TotalFloors string   `json:"totalFloors"`

	ContractPeriod string `json:"contractPeriod"`
	RenewalType    string `json:"renewalType"`

	BuildYear   *int `json:"buildYear"`
	BuildingAge *int `json:"buildingAge"`

	Equipment string   `json:"equipment"`
	Features  []string `json:"features"`

	ParkingAvailable bool     `json:"parkingAvailable"`
	ParkingFee       *float64 `json:"parkingFee"`

	Availability  string `json:"availability"`
	AvailableFrom string `json:"availableFrom"`
	MoveInDate    string `json:"moveInDate"`

	InsuranceRequired   bool     `json:"insuranceRequired"`
	KeyExchangeRequired bool     `json:"keyExchangeRequired"`
	KeyExchangeFee      *float64 `json:"keyExchangeFee"`

	Notes string `json:"notes"`

	// Details holds the less-common raw fields for the detail page. It is
	// display data, not part of the normalized contract.
	Details map[string]any `json:"details"`

	Images []string `json:"images"`

	// Stamped at transform time. The upstream API does not expose reliable
	// per-record history, so this is the best available freshness signal.
	PostedAt  time.Time `json:"postedDate"`
	UpdatedAt time.Time `json:"lastUpdated"`
	Source    string    `json:"source"`
}

// placeholderTitlePrefix marks titles synthesized from the record ID when
// the source row has no title of its own.
const placeholderTitlePrefix = "物件-"

// Viable reports whether the property carries enough real content to show:
// a genuine (non-synthesized) title and a non-empty address. Callers use
// this to discard noise rows such as half-filled imports.
func (p Property) Viable() bool {
	if p.Address == "" {
		return false
	}
	return p.Title != "" && !strings.Contains(p.Title, placeholderTitlePrefix)
}
