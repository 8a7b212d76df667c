package normalize

import (
	"reflect"
	"testing"
	"time"

	"github.com/yourorg/listing-api/airtable"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func testTransformer() *Transformer {
	return NewTransformer(DefaultFieldMap()).WithClock(fixedClock())
}

func sampleRecord() airtable.Record {
	return airtable.Record{
		ID: "recABC123XYZ",
		Fields: map[string]any{
			"物件タイトル": "渋谷駅前 貸店舗",
			"物件種目":   "店舗",
			"都道府県名":  "東京都",
			"所在地名１":  "渋谷区",
			"所在地名２":  "道玄坂",
			"所在地名３":  "2-1",
			"建物名":    "渋谷第一ビル",
			"沿線名":    "JR山手線",
			"駅名":     "渋谷",
			"駅より徒歩":  "3",
			"沿線名2":   "東京メトロ銀座線",
			"駅名2":    "渋谷",
			"Latitude":  35.658,
			"Longitude": 139.7016,
			"賃料（万円）":  35.0,
			"うち賃料消費税": 35000,
			"敷金":      "10",
			"礼金":      "無し",
			"管理費":     2.0,
			"使用部分面積":  "45.5㎡",
			"建物構造":    "鉄骨造",
			"所在階":     "1階",
			"築年月":     "1998年4月",
			"駐車場在否":   "あり",
			"現況":      "空室",
			"保険加入義務":  "要",
			"備考１":     "角地です",
			"備考３":     "即入居可",
			"画像1":     attachments("u1"),
			"画像2":     attachments("u2"),
		},
	}
}

func TestTransformCoreFields(t *testing.T) {
	p := testTransformer().Transform(sampleRecord())

	if p.ID != "recABC123XYZ" {
		t.Fatalf("ID = %q", p.ID)
	}
	if p.Title != "渋谷駅前 貸店舗" {
		t.Fatalf("Title = %q", p.Title)
	}
	if p.Type != TypeRetail {
		t.Fatalf("Type = %v, want retail", p.Type)
	}
	if p.Address != "東京都渋谷区道玄坂2-1渋谷第一ビル" {
		t.Fatalf("Address = %q", p.Address)
	}
	if !p.Viable() {
		t.Fatal("sample record should be viable")
	}
}

func TestTransformTransit(t *testing.T) {
	p := testTransformer().Transform(sampleRecord())

	wantLines := []string{"山手線", "東京メトロ銀座線"}
	if !reflect.DeepEqual(p.TrainLines, wantLines) {
		t.Fatalf("TrainLines = %v, want %v", p.TrainLines, wantLines)
	}
	if p.NearestStation != "渋谷" {
		t.Fatalf("NearestStation = %q", p.NearestStation)
	}
	if p.WalkingMinutes == nil || *p.WalkingMinutes != 3 {
		t.Fatalf("WalkingMinutes = %v, want 3", p.WalkingMinutes)
	}
}

func TestTransformMoney(t *testing.T) {
	p := testTransformer().Transform(sampleRecord())

	// 35 man-yen scaled to yen, plus the tax line.
	if p.Rent == nil || *p.Rent != 385000 {
		t.Fatalf("Rent = %v, want 385000", p.Rent)
	}
	if p.Deposit == nil || *p.Deposit != 100000 {
		t.Fatalf("Deposit = %v, want 100000", p.Deposit)
	}
	// 無し is absent, not zero.
	if p.KeyMoney != nil {
		t.Fatalf("KeyMoney = %v, want nil", p.KeyMoney)
	}
	if p.ManagementFee == nil || *p.ManagementFee != 20000 {
		t.Fatalf("ManagementFee = %v, want 20000", p.ManagementFee)
	}
}

func TestTransformZeroRentIsAValue(t *testing.T) {
	rec := sampleRecord()
	rec.Fields["賃料（万円）"] = 0.0
	delete(rec.Fields, "うち賃料消費税")
	p := testTransformer().Transform(rec)
	if p.Rent == nil || *p.Rent != 0 {
		t.Fatalf("Rent = %v, want explicit zero", p.Rent)
	}
}

func TestTransformDetails(t *testing.T) {
	p := testTransformer().Transform(sampleRecord())

	if p.Area == nil || *p.Area != 45.5 {
		t.Fatalf("Area = %v, want 45.5", p.Area)
	}
	if p.BuildYear == nil || *p.BuildYear != 1998 {
		t.Fatalf("BuildYear = %v, want 1998", p.BuildYear)
	}
	if p.BuildingAge == nil || *p.BuildingAge != 28 {
		t.Fatalf("BuildingAge = %v, want 28", p.BuildingAge)
	}
	if !p.ParkingAvailable {
		t.Fatal("ParkingAvailable = false, want true")
	}
	if !p.InsuranceRequired {
		t.Fatal("InsuranceRequired = false, want true")
	}
	if p.Notes != "角地です\n即入居可" {
		t.Fatalf("Notes = %q", p.Notes)
	}
	if p.Coordinates == nil || p.Coordinates.Lat != 35.658 {
		t.Fatalf("Coordinates = %+v", p.Coordinates)
	}

	want := []string{"u2", "u1"}
	if !reflect.DeepEqual(p.Images, want) {
		t.Fatalf("Images = %v, want %v", p.Images, want)
	}

	// The details bag keeps uncommon display fields and drops consumed ones.
	if _, ok := p.Details["建物構造"]; !ok {
		t.Fatal("details missing 建物構造")
	}
	if _, ok := p.Details["画像1"]; ok {
		t.Fatal("details must not carry attachment slots")
	}
	if _, ok := p.Details["物件タイトル"]; ok {
		t.Fatal("details must not carry the title label")
	}
}

func TestTransformPlaceholderTitle(t *testing.T) {
	rec := airtable.Record{ID: "rec000000TAIL", Fields: map[string]any{"所在地名１": "港区"}}
	tr := testTransformer()

	p := tr.Transform(rec)
	if p.Title != "物件-TAIL" {
		t.Fatalf("Title = %q, want deterministic placeholder", p.Title)
	}
	if p2 := tr.Transform(rec); p2.Title != p.Title {
		t.Fatalf("placeholder title not stable: %q vs %q", p2.Title, p.Title)
	}
	if p.Viable() {
		t.Fatal("placeholder-titled record must not be viable")
	}
}

func TestTransformIdempotent(t *testing.T) {
	tr := testTransformer()
	rec := sampleRecord()
	a := tr.Transform(rec)
	b := tr.Transform(rec)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Transform is not deterministic under a fixed clock")
	}
}

func TestTransformEmptyRecord(t *testing.T) {
	p := testTransformer().Transform(airtable.Record{ID: "recEMPTY9999"})
	if p.ID == "" || p.Title == "" {
		t.Fatalf("empty record must still get ID and title: %+v", p)
	}
	if p.Images == nil || len(p.Images) != 0 {
		t.Fatalf("Images = %v, want empty non-nil slice", p.Images)
	}
	if p.Viable() {
		t.Fatal("empty record must not be viable")
	}
}

func TestViable(t *testing.T) {
	cases := []struct {
		name string
		p    Property
		want bool
	}{
		{"real", Property{Title: "店舗", Address: "東京都港区"}, true},
		{"no address", Property{Title: "店舗"}, false},
		{"placeholder title", Property{Title: "物件-1234", Address: "東京都港区"}, false},
		{"empty title", Property{Address: "東京都港区"}, false},
	}
	for _, c := range cases {
		if got := c.p.Viable(); got != c.want {
			t.Errorf("%s: Viable = %v, want %v", c.name, got, c.want)
		}
	}
}
