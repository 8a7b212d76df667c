package normalize

import "strings"

// Line is one railway line from the reference catalog, with its stations in
// route order.
type Line struct {
	Name     string
	Company  string
	Stations []string
}

// carrierPrefixes are the operator names the source data sometimes prepends
// to a line name. Stripping is limited to exactly these; anything else is
// left alone so an unrelated partial match cannot fire.
var carrierPrefixes = []string{"ＪＲ", "JR", "東京メトロ", "都営地下鉄", "都営"}

// lineCatalog is the fixed reference catalog raw transit strings are
// normalized against.
var lineCatalog = []Line{
	{Name: "山手線", Company: "JR東日本", Stations: []string{"東京", "有楽町", "新橋", "浜松町", "田町", "品川", "大崎", "五反田", "目黒", "恵比寿", "渋谷", "原宿", "代々木", "新宿", "新大久保", "高田馬場", "目白", "池袋", "大塚", "巣鴨", "駒込", "田端", "西日暮里", "日暮里", "鶯谷", "上野", "御徒町", "秋葉原", "神田"}},
	{Name: "京浜東北線", Company: "JR東日本", Stations: []string{"大宮", "さいたま新都心", "赤羽", "田端", "上野", "秋葉原", "東京", "浜松町", "品川", "大井町", "蒲田", "川崎", "横浜"}},
	{Name: "中央線", Company: "JR東日本", Stations: []string{"東京", "神田", "御茶ノ水", "四ツ谷", "新宿", "中野", "高円寺", "阿佐ケ谷", "荻窪", "吉祥寺", "三鷹", "国分寺", "立川", "八王子"}},
	{Name: "総武線", Company: "JR東日本", Stations: []string{"三鷹", "中野", "新宿", "代々木", "千駄ケ谷", "信濃町", "四ツ谷", "市ケ谷", "飯田橋", "水道橋", "御茶ノ水", "秋葉原", "浅草橋", "両国", "錦糸町", "亀戸", "小岩", "市川", "船橋", "千葉"}},
	{Name: "埼京線", Company: "JR東日本", Stations: []string{"大宮", "武蔵浦和", "赤羽", "十条", "板橋", "池袋", "新宿", "渋谷", "恵比寿", "大崎"}},
	{Name: "京葉線", Company: "JR東日本", Stations: []string{"東京", "八丁堀", "越中島", "潮見", "新木場", "葛西臨海公園", "舞浜", "新浦安", "海浜幕張", "蘇我"}},
	{Name: "東京メトロ銀座線", Company: "東京メトロ", Stations: []string{"渋谷", "表参道", "外苑前", "青山一丁目", "赤坂見附", "溜池山王", "虎ノ門", "新橋", "銀座", "京橋", "日本橋", "三越前", "神田", "末広町", "上野広小路", "上野", "稲荷町", "田原町", "浅草"}},
	{Name: "東京メトロ丸ノ内線", Company: "東京メトロ", Stations: []string{"荻窪", "新高円寺", "中野坂上", "西新宿", "新宿", "新宿三丁目", "新宿御苑前", "四谷三丁目", "四ツ谷", "赤坂見附", "国会議事堂前", "霞ケ関", "銀座", "東京", "大手町", "御茶ノ水", "後楽園", "茗荷谷", "池袋"}},
	{Name: "東京メトロ日比谷線", Company: "東京メトロ", Stations: []string{"中目黒", "恵比寿", "広尾", "六本木", "神谷町", "霞ケ関", "日比谷", "銀座", "東銀座", "築地", "八丁堀", "茅場町", "人形町", "小伝馬町", "秋葉原", "仲御徒町", "上野", "入谷", "三ノ輪", "南千住", "北千住"}},
	{Name: "東京メトロ東西線", Company: "東京メトロ", Stations: []string{"中野", "落合", "高田馬場", "早稲田", "神楽坂", "飯田橋", "九段下", "竹橋", "大手町", "日本橋", "茅場町", "門前仲町", "木場", "東陽町", "南砂町", "西葛西", "葛西", "浦安", "西船橋"}},
	{Name: "東京メトロ半蔵門線", Company: "東京メトロ", Stations: []string{"渋谷", "表参道", "青山一丁目", "永田町", "半蔵門", "九段下", "神保町", "大手町", "三越前", "水天宮前", "清澄白河", "住吉", "錦糸町", "押上"}},
	{Name: "都営地下鉄大江戸線", Company: "都営地下鉄", Stations: []string{"都庁前", "新宿西口", "東新宿", "若松河田", "飯田橋", "春日", "本郷三丁目", "上野御徒町", "新御徒町", "蔵前", "両国", "森下", "門前仲町", "月島", "勝どき", "汐留", "大門", "赤羽橋", "麻布十番", "六本木", "青山一丁目", "国立競技場", "代々木", "新宿"}},
	{Name: "都営地下鉄浅草線", Company: "都営地下鉄", Stations: []string{"西馬込", "馬込", "中延", "戸越", "五反田", "高輪台", "泉岳寺", "三田", "大門", "新橋", "東銀座", "宝町", "日本橋", "人形町", "東日本橋", "浅草橋", "蔵前", "浅草", "押上"}},
	{Name: "都営地下鉄三田線", Company: "都営地下鉄", Stations: []string{"目黒", "白金台", "白金高輪", "三田", "芝公園", "御成門", "内幸町", "日比谷", "大手町", "神保町", "水道橋", "春日", "白山", "巣鴨", "西巣鴨", "板橋区役所前", "高島平", "西高島平"}},
	{Name: "東急東横線", Company: "東急電鉄", Stations: []string{"渋谷", "代官山", "中目黒", "祐天寺", "学芸大学", "都立大学", "自由が丘", "田園調布", "多摩川", "武蔵小杉", "日吉", "菊名", "横浜"}},
	{Name: "東急田園都市線", Company: "東急電鉄", Stations: []string{"渋谷", "池尻大橋", "三軒茶屋", "駒沢大学", "桜新町", "用賀", "二子玉川", "溝の口", "たまプラーザ", "あざみ野", "長津田", "中央林間"}},
	{Name: "小田急線", Company: "小田急電鉄", Stations: []string{"新宿", "南新宿", "代々木上原", "下北沢", "経堂", "成城学園前", "登戸", "新百合ヶ丘", "町田", "相模大野", "本厚木", "小田原"}},
	{Name: "京王線", Company: "京王電鉄", Stations: []string{"新宿", "笹塚", "明大前", "桜上水", "千歳烏山", "調布", "府中", "聖蹟桜ヶ丘", "高幡不動", "京王八王子"}},
	{Name: "西武新宿線", Company: "西武鉄道", Stations: []string{"西武新宿", "高田馬場", "中井", "沼袋", "野方", "鷺ノ宮", "上石神井", "田無", "小平", "所沢", "本川越"}},
	{Name: "西武池袋線", Company: "西武鉄道", Stations: []string{"池袋", "椎名町", "東長崎", "江古田", "桜台", "練馬", "石神井公園", "大泉学園", "ひばりヶ丘", "所沢", "飯能"}},
	{Name: "東武東上線", Company: "東武鉄道", Stations: []string{"池袋", "北池袋", "下板橋", "大山", "中板橋", "ときわ台", "上板橋", "成増", "和光市", "朝霞台", "川越"}},
	{Name: "東武スカイツリーライン", Company: "東武鉄道", Stations: []string{"浅草", "とうきょうスカイツリー", "曳舟", "北千住", "西新井", "草加", "新越谷", "春日部", "東武動物公園"}},
	{Name: "京成本線", Company: "京成電鉄", Stations: []string{"京成上野", "日暮里", "新三河島", "町屋", "千住大橋", "京成関屋", "堀切菖蒲園", "青砥", "京成高砂", "京成船橋", "京成津田沼", "成田空港"}},
	{Name: "りんかい線", Company: "東京臨海高速鉄道", Stations: []string{"新木場", "東雲", "国際展示場", "東京テレポート", "天王洲アイル", "品川シーサイド", "大井町", "大崎"}},
	{Name: "ゆりかもめ", Company: "ゆりかもめ", Stations: []string{"新橋", "汐留", "竹芝", "日の出", "芝浦ふ頭", "お台場海浜公園", "台場", "東京国際クルーズターミナル", "青海", "豊洲"}},
}

// NormalizeLine matches a raw transit line string against the catalog.
// Three tiers, first hit wins: exact name match; a catalog name contained in
// the raw string; the raw string, with a known carrier prefix stripped,
// contained in a catalog name. No tier matches: the raw string comes back
// unchanged rather than empty, so unknown lines still display.
func NormalizeLine(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, l := range lineCatalog {
		if l.Name == raw {
			return l.Name
		}
	}
	stripped := stripCarrierPrefix(raw)
	for _, l := range lineCatalog {
		if strings.Contains(raw, l.Name) {
			return l.Name
		}
		if stripped != "" && strings.Contains(l.Name, stripped) {
			return l.Name
		}
	}
	return raw
}

func stripCarrierPrefix(s string) string {
	for _, p := range carrierPrefixes {
		if rest, ok := strings.CutPrefix(s, p); ok {
			return strings.TrimSpace(rest)
		}
	}
	return s
}

// LineNames returns every catalog line name in catalog order.
func LineNames() []string {
	names := make([]string, len(lineCatalog))
	for i, l := range lineCatalog {
		names[i] = l.Name
	}
	return names
}

// StationsByLine returns the stations of the catalog line matching the
// given name (normalized first, so carrier-prefixed input works). Unknown
// lines yield an empty list.
func StationsByLine(name string) []string {
	norm := NormalizeLine(name)
	for _, l := range lineCatalog {
		if l.Name == norm {
			return append([]string(nil), l.Stations...)
		}
	}
	return nil
}
