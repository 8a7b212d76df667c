package normalize

import "testing"

func TestNormalizeLine(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"山手線", "山手線"},
		{"JR山手線", "山手線"},
		{"ＪＲ山手線", "山手線"},
		{"JR中央線快速", "中央線"},
		{"東京メトロ銀座線", "東京メトロ銀座線"},
		{"銀座線", "東京メトロ銀座線"},
		{"都営大江戸線", "都営地下鉄大江戸線"},
		{"未知の新線", "未知の新線"},
		{"  山手線  ", "山手線"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeLine(c.in); got != c.want {
			t.Errorf("NormalizeLine(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLineNames(t *testing.T) {
	names := LineNames()
	if len(names) == 0 {
		t.Fatal("LineNames is empty")
	}
	if names[0] != "山手線" {
		t.Fatalf("LineNames[0] = %q, want catalog order preserved", names[0])
	}
}

func TestStationsByLine(t *testing.T) {
	stations := StationsByLine("JR山手線")
	if len(stations) == 0 {
		t.Fatal("StationsByLine(JR山手線) is empty, want normalized lookup to hit")
	}
	found := false
	for _, s := range stations {
		if s == "渋谷" {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("山手線 stations missing 渋谷")
	}
	if got := StationsByLine("存在しない線"); got != nil {
		t.Fatalf("StationsByLine(unknown) = %v, want nil", got)
	}
}

func TestStationsByLineCopies(t *testing.T) {
	a := StationsByLine("山手線")
	a[0] = "mutated"
	b := StationsByLine("山手線")
	if b[0] == "mutated" {
		t.Fatal("StationsByLine returned a shared slice")
	}
}
