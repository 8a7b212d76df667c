package normalize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Unit tags for monetary fields. The source spreadsheet mixes yen amounts
// with amounts in units of 10,000 yen ("man-yen"); the scale is declared per
// field here rather than guessed from the magnitude of the value.
const (
	UnitYen    = "yen"
	UnitManYen = "man_yen"
)

// FieldSpec lists the source labels accepted for one canonical field. Labels
// are tried as exact keys first, in order; labels that miss are then retried
// as case-insensitive regular expressions over all keys on the record.
type FieldSpec struct {
	Labels []string `yaml:"labels"`
	Unit   string   `yaml:"unit,omitempty"`
}

// FieldMap is the versioned table of canonical field -> accepted source
// labels. It is data, not code: a deployment can override it from a YAML
// file when the upstream table is relabeled, without a rebuild.
type FieldMap struct {
	Version int                  `yaml:"version"`
	Fields  map[string]FieldSpec `yaml:"fields"`
}

func (m FieldMap) spec(canonical string) FieldSpec {
	return m.Fields[canonical]
}

func (m FieldMap) unit(canonical string) string {
	u := m.Fields[canonical].Unit
	if u == "" {
		return UnitYen
	}
	return u
}

// LoadFieldMap reads a mapping table from a YAML file.
func LoadFieldMap(path string) (FieldMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return FieldMap{}, fmt.Errorf("field map: %w", err)
	}
	var m FieldMap
	if err := yaml.Unmarshal(b, &m); err != nil {
		return FieldMap{}, fmt.Errorf("field map: parse %s: %w", path, err)
	}
	if len(m.Fields) == 0 {
		return FieldMap{}, fmt.Errorf("field map: %s defines no fields", path)
	}
	return m, nil
}

// Canonical field names used by the transformer.
const (
	FieldTitle        = "title"
	FieldPropertyType = "property_type"
	FieldPrefecture   = "prefecture"
	FieldArea1        = "area1"
	FieldArea2        = "area2"
	FieldArea3        = "area3"
	FieldBuilding     = "building"
	FieldFullAddress  = "full_address"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
	FieldRent         = "rent"
	FieldRentTax      = "rent_tax"
	FieldDeposit      = "deposit"
	FieldKeyMoney     = "key_money"
	FieldKeyMoneyTax  = "key_money_tax"
	FieldMgmtFee      = "management_fee"
	FieldMgmtFeeTax   = "management_fee_tax"
	FieldGuarantee    = "guarantee_deposit"
	FieldRenewalFee   = "renewal_fee"
	FieldFloorArea    = "floor_area"
	FieldRentPerSqm   = "rent_per_sqm"
	FieldTsuboPrice   = "tsubo_price"
	FieldStructure    = "structure"
	FieldFloor        = "floor"
	FieldTotalFloors  = "total_floors"
	FieldBasement     = "basement_floors"
	FieldBuiltDate    = "built_date"
	FieldContractTerm = "contract_term"
	FieldRenewalType  = "renewal_type"
	FieldParking      = "parking"
	FieldParkingFee   = "parking_fee"
	FieldAvailability = "availability"
	FieldMoveInTiming = "move_in_timing"
	FieldMoveInDate   = "move_in_date"
	FieldInsurance    = "insurance"
	FieldKeyExchange  = "key_exchange"
	FieldKeyExchFee   = "key_exchange_fee"
)

// DefaultFieldMap matches the labels observed in the production table.
// Version 1 covers the REINS-style export.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		Version: 1,
		Fields: map[string]FieldSpec{
			FieldTitle:        {Labels: []string{"物件タイトル", "物件名"}},
			FieldPropertyType: {Labels: []string{"物件種目", "物件種別"}},
			FieldPrefecture:   {Labels: []string{"都道府県名"}},
			FieldArea1:        {Labels: []string{"所在地名１", "所在地名1"}},
			FieldArea2:        {Labels: []string{"所在地名２", "所在地名2"}},
			FieldArea3:        {Labels: []string{"所在地名３", "所在地名3"}},
			FieldBuilding:     {Labels: []string{"建物名"}},
			FieldFullAddress:  {Labels: []string{"住所"}},
			FieldLatitude:     {Labels: []string{"Latitude", "緯度", "^lat"}},
			FieldLongitude:    {Labels: []string{"Longitude", "経度", "^lon"}},
			FieldRent:         {Labels: []string{"賃料（万円）", "賃料(万円)", "賃料"}, Unit: UnitManYen},
			FieldRentTax:      {Labels: []string{"うち賃料消費税"}},
			FieldDeposit:      {Labels: []string{"敷金"}, Unit: UnitManYen},
			FieldKeyMoney:     {Labels: []string{"礼金"}, Unit: UnitManYen},
			FieldKeyMoneyTax:  {Labels: []string{"うち礼金消費税"}},
			FieldMgmtFee:      {Labels: []string{"管理費"}, Unit: UnitManYen},
			FieldMgmtFeeTax:   {Labels: []string{"うち管理費消費税"}},
			FieldGuarantee:    {Labels: []string{"保証金"}, Unit: UnitManYen},
			FieldRenewalFee:   {Labels: []string{"更新料"}, Unit: UnitManYen},
			FieldFloorArea:    {Labels: []string{"使用部分面積", "専有面積", "面積"}},
			FieldRentPerSqm:   {Labels: []string{"㎡単価"}},
			FieldTsuboPrice:   {Labels: []string{"坪単価 ※3.30578で換算", "坪単価"}},
			FieldStructure:    {Labels: []string{"建物構造"}},
			FieldFloor:        {Labels: []string{"所在階"}},
			FieldTotalFloors:  {Labels: []string{"地上階層"}},
			FieldBasement:     {Labels: []string{"地下階層"}},
			FieldBuiltDate:    {Labels: []string{"築年月"}},
			FieldContractTerm: {Labels: []string{"契約期間"}},
			FieldRenewalType:  {Labels: []string{"更新区分"}},
			FieldParking:      {Labels: []string{"駐車場在否"}},
			FieldParkingFee:   {Labels: []string{"駐車場月額"}},
			FieldAvailability: {Labels: []string{"現況"}},
			FieldMoveInTiming: {Labels: []string{"入居時期"}},
			FieldMoveInDate:   {Labels: []string{"入居年月"}},
			FieldInsurance:    {Labels: []string{"保険加入義務"}},
			FieldKeyExchange:  {Labels: []string{"鍵交換区分"}},
			FieldKeyExchFee:   {Labels: []string{"鍵交換代金"}},
		},
	}
}
