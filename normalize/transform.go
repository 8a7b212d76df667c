package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/yourorg/listing-api/airtable"
)

// Transformer converts raw records into Properties. It is stateless apart
// from its configuration; Transform is pure given a fixed clock.
type Transformer struct {
	fieldMap FieldMap
	now      func() time.Time
}

func NewTransformer(m FieldMap) *Transformer {
	if len(m.Fields) == 0 {
		m = DefaultFieldMap()
	}
	return &Transformer{fieldMap: m, now: time.Now}
}

// WithClock fixes the timestamp source. Tests use this to make Transform
// fully deterministic.
func (t *Transformer) WithClock(now func() time.Time) *Transformer {
	t.now = now
	return t
}

// transit field labels are positional (沿線名, 沿線名2, 沿線名3 ...), so they
// are generated here rather than listed in the field map.
func transitLabels(base string, n int) string {
	if n == 1 {
		return base
	}
	return fmt.Sprintf("%s%d", base, n)
}

var yearPattern = regexp.MustCompile(`(\d{4})`)

// Transform produces a structurally valid Property from any record. A
// malformed field degrades to its absent representation; nothing here
// panics or rejects the record outright. ID and title always end up
// non-empty because both have fallbacks.
func (t *Transformer) Transform(rec airtable.Record) Property {
	fields := rec.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	m := t.fieldMap
	now := t.now()

	p := Property{
		ID:     rec.ID,
		Source: "airtable",
	}

	// 1. Title, with a synthesized fallback derived from the ID suffix so
	// the same record always gets the same placeholder.
	p.Title = ResolveString(fields, m.spec(FieldTitle).Labels)
	if p.Title == "" {
		p.Title = placeholderTitlePrefix + idSuffix(rec.ID, 4)
	}

	p.Type = ClassifyType(ResolveString(fields, m.spec(FieldPropertyType).Labels))

	// 2. Address parts joined in fixed order, blanks skipped.
	p.Prefecture = ResolveString(fields, m.spec(FieldPrefecture).Labels)
	p.Ward = ResolveString(fields, m.spec(FieldArea1).Labels)
	p.Location = ResolveString(fields, m.spec(FieldArea2).Labels)
	area3 := ResolveString(fields, m.spec(FieldArea3).Labels)
	p.BuildingName = ResolveString(fields, m.spec(FieldBuilding).Labels)
	p.Address = joinNonEmpty("", p.Prefecture, p.Ward, p.Location, area3, p.BuildingName)

	// 3. Transit: up to three line/station/walk triples; the first entry
	// provides the nearest station and walk time.
	for i := 1; i <= 3; i++ {
		line := ResolveString(fields, []string{transitLabels("沿線名", i)})
		station := ResolveString(fields, []string{transitLabels("駅名", i)})
		walk := Resolve(fields, []string{transitLabels("駅より徒歩", i)})
		if line != "" {
			p.TrainLines = append(p.TrainLines, NormalizeLine(line))
		}
		if station != "" && p.NearestStation == "" {
			p.NearestStation = station
			if w, ok := ToNumber(walk); ok {
				min := int(math.Round(w))
				p.WalkingMinutes = &min
			}
		}
	}

	// 4. Coordinates.
	p.Coordinates = ExtractCoordinates(fields, m)

	// 5. Money. Scale comes from the unit tag on each field, never from the
	// magnitude of the value.
	p.Rent = t.yenAmount(fields, FieldRent, FieldRentTax)
	p.Deposit = t.yenAmount(fields, FieldDeposit, "")
	p.KeyMoney = t.yenAmount(fields, FieldKeyMoney, FieldKeyMoneyTax)
	p.ManagementFee = t.yenAmount(fields, FieldMgmtFee, FieldMgmtFeeTax)
	p.SecurityDeposit = t.yenAmount(fields, FieldGuarantee, "")
	p.RenewalFee = t.yenAmount(fields, FieldRenewalFee, "")
	p.RentPerSqm = floatField(fields, m.spec(FieldRentPerSqm).Labels)
	p.TsuboPrice = floatField(fields, m.spec(FieldTsuboPrice).Labels)

	// 6. Area: first candidate that parses wins.
	p.Area = floatField(fields, m.spec(FieldFloorArea).Labels)

	p.Structure = ResolveString(fields, m.spec(FieldStructure).Labels)
	p.Floor = ResolveString(fields, m.spec(FieldFloor).Labels)
	p.TotalFloors = ResolveString(fields, m.spec(FieldTotalFloors).Labels)
	p.ContractPeriod = ResolveString(fields, m.spec(FieldContractTerm).Labels)
	p.RenewalType = ResolveString(fields, m.spec(FieldRenewalType).Labels)

	if year, ok := buildYear(ResolveString(fields, m.spec(FieldBuiltDate).Labels)); ok {
		p.BuildYear = &year
		age := now.Year() - year
		p.BuildingAge = &age
	}

	p.Equipment = joinNonEmpty(", ",
		ResolveString(fields, []string{"設備・条件"}),
		ResolveString(fields, []string{"設備(フリースペース)"}),
		ResolveString(fields, []string{"条件(フリースペース)"}))
	if p.Equipment != "" {
		for _, f := range strings.Split(p.Equipment, ",") {
			if f = strings.TrimSpace(f); f != "" {
				p.Features = append(p.Features, f)
			}
		}
	}

	parking := ResolveString(fields, m.spec(FieldParking).Labels)
	p.ParkingAvailable = parking == "あり" || parking == "有"
	p.ParkingFee = floatField(fields, m.spec(FieldParkingFee).Labels)

	p.Availability = ResolveString(fields, m.spec(FieldAvailability).Labels)
	p.AvailableFrom = ResolveString(fields, m.spec(FieldMoveInTiming).Labels)
	p.MoveInDate = ResolveString(fields, m.spec(FieldMoveInDate).Labels)

	insurance := ResolveString(fields, m.spec(FieldInsurance).Labels)
	p.InsuranceRequired = insurance == "要" || insurance == "必要"
	keyExch := ResolveString(fields, m.spec(FieldKeyExchange).Labels)
	p.KeyExchangeRequired = keyExch == "要" || keyExch == "必要"
	p.KeyExchangeFee = floatField(fields, m.spec(FieldKeyExchFee).Labels)

	p.Notes = joinNonEmpty("\n",
		ResolveString(fields, []string{"備考１", "備考1"}),
		ResolveString(fields, []string{"備考２", "備考2"}),
		ResolveString(fields, []string{"備考３", "備考3"}),
		ResolveString(fields, []string{"備考４", "備考4"}))

	// 7. Images, ordered slots with slot 2 promoted.
	p.Images = ExtractImages(fields)
	if p.Images == nil {
		p.Images = []string{}
	}

	// 8. Details bag: everything not part of the core contract, kept raw
	// for the detail page.
	p.Details = t.detailsBag(fields)
	if full := ResolveString(fields, m.spec(FieldFullAddress).Labels); full != "" {
		p.Details["住所"] = full
	}

	// 9. Transform-time metadata.
	p.PostedAt = now
	p.UpdatedAt = now

	return p
}

func (t *Transformer) yenAmount(fields map[string]any, field, taxField string) *int {
	v, ok := ToNumber(Resolve(fields, t.fieldMap.spec(field).Labels))
	if !ok {
		return nil
	}
	if t.fieldMap.unit(field) == UnitManYen {
		v *= 10000
	}
	if taxField != "" {
		if tax, ok := ToNumber(Resolve(fields, t.fieldMap.spec(taxField).Labels)); ok {
			v += tax
		}
	}
	yen := int(math.Round(v))
	return &yen
}

// coreLabels are labels consumed by the normalized contract; everything
// else lands in the details bag.
func (t *Transformer) coreLabels() map[string]struct{} {
	skip := map[string]struct{}{}
	for _, field := range []string{FieldTitle, FieldPropertyType, FieldPrefecture, FieldArea1, FieldArea2, FieldArea3, FieldBuilding, FieldLatitude, FieldLongitude} {
		for _, l := range t.fieldMap.spec(field).Labels {
			skip[l] = struct{}{}
		}
	}
	for i := 1; i <= 3; i++ {
		skip[transitLabels("沿線名", i)] = struct{}{}
		skip[transitLabels("駅名", i)] = struct{}{}
		skip[transitLabels("駅より徒歩", i)] = struct{}{}
	}
	for _, slot := range imageSlotOrder {
		skip[slot] = struct{}{}
	}
	return skip
}

func (t *Transformer) detailsBag(fields map[string]any) map[string]any {
	skip := t.coreLabels()
	bag := make(map[string]any)
	for label, v := range fields {
		if _, core := skip[label]; core {
			continue
		}
		if _, isList := v.([]any); isList {
			// attachment-like lists are not display text
			continue
		}
		if HasValue(v) {
			bag[label] = v
		}
	}
	return bag
}

func floatField(fields map[string]any, labels []string) *float64 {
	v, ok := ToNumber(Resolve(fields, labels))
	if !ok {
		return nil
	}
	return &v
}

func buildYear(raw string) (int, bool) {
	m := yearPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	var y int
	for _, r := range m[1] {
		y = y*10 + int(r-'0')
	}
	if y < 1860 || y > 2100 {
		return 0, false
	}
	return y, true
}

func idSuffix(id string, n int) string {
	r := []rune(id)
	if len(r) <= n {
		return id
	}
	return string(r[len(r)-n:])
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
