package domain

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// japanRegions lists the eight weather regions north to south. Grouped
// output follows this order.
var japanRegions = []Region{
	{Code: "hokkaido", Name: "北海道", EnName: "Hokkaido"},
	{Code: "tohoku", Name: "東北", EnName: "Tohoku"},
	{Code: "kanto", Name: "関東", EnName: "Kanto"},
	{Code: "chubu", Name: "中部", EnName: "Chubu"},
	{Code: "kinki", Name: "近畿", EnName: "Kinki"},
	{Code: "chugoku", Name: "中国", EnName: "Chugoku"},
	{Code: "shikoku", Name: "四国", EnName: "Shikoku"},
	{Code: "kyushu", Name: "九州・沖縄", EnName: "Kyushu & Okinawa"},
}

// prefectureRegions maps every prefecture to its region code.
var prefectureRegions = map[string]string{
	"北海道": "hokkaido",

	"青森県": "tohoku",
	"岩手県": "tohoku",
	"宮城県": "tohoku",
	"秋田県": "tohoku",
	"山形県": "tohoku",
	"福島県": "tohoku",

	"茨城県":  "kanto",
	"栃木県":  "kanto",
	"群馬県":  "kanto",
	"埼玉県":  "kanto",
	"千葉県":  "kanto",
	"東京都":  "kanto",
	"神奈川県": "kanto",

	"新潟県": "chubu",
	"富山県": "chubu",
	"石川県": "chubu",
	"福井県": "chubu",
	"山梨県": "chubu",
	"長野県": "chubu",
	"岐阜県": "chubu",
	"静岡県": "chubu",
	"愛知県": "chubu",

	"三重県":  "kinki",
	"滋賀県":  "kinki",
	"京都府":  "kinki",
	"大阪府":  "kinki",
	"兵庫県":  "kinki",
	"奈良県":  "kinki",
	"和歌山県": "kinki",

	"鳥取県": "chugoku",
	"島根県": "chugoku",
	"岡山県": "chugoku",
	"広島県": "chugoku",
	"山口県": "chugoku",

	"徳島県": "shikoku",
	"香川県": "shikoku",
	"愛媛県": "shikoku",
	"高知県": "shikoku",

	"福岡県":  "kyushu",
	"佐賀県":  "kyushu",
	"長崎県":  "kyushu",
	"熊本県":  "kyushu",
	"大分県":  "kyushu",
	"宮崎県":  "kyushu",
	"鹿児島県": "kyushu",
	"沖縄県":  "kyushu",
}

// CuratedCity is a major city the engine always knows about, independent of
// what the area directory contains.
type CuratedCity struct {
	Name       string
	EnName     string
	Kana       string
	Prefecture string
}

var curatedCities = []CuratedCity{
	// Hokkaido
	{Name: "札幌", EnName: "Sapporo", Kana: "さっぽろ", Prefecture: "北海道"},
	{Name: "函館", EnName: "Hakodate", Kana: "はこだて", Prefecture: "北海道"},
	{Name: "旭川", EnName: "Asahikawa", Kana: "あさひかわ", Prefecture: "北海道"},
	{Name: "釧路", EnName: "Kushiro", Kana: "くしろ", Prefecture: "北海道"},
	{Name: "帯広", EnName: "Obihiro", Kana: "おびひろ", Prefecture: "北海道"},

	// Tohoku
	{Name: "青森", EnName: "Aomori", Kana: "あおもり", Prefecture: "青森県"},
	{Name: "仙台", EnName: "Sendai", Kana: "せんだい", Prefecture: "宮城県"},
	{Name: "秋田", EnName: "Akita", Kana: "あきた", Prefecture: "秋田県"},
	{Name: "山形", EnName: "Yamagata", Kana: "やまがた", Prefecture: "山形県"},
	{Name: "盛岡", EnName: "Morioka", Kana: "もりおか", Prefecture: "岩手県"},
	{Name: "福島", EnName: "Fukushima", Kana: "ふくしま", Prefecture: "福島県"},
	{Name: "郡山", EnName: "Koriyama", Kana: "こおりやま", Prefecture: "福島県"},

	// Kanto
	{Name: "東京", EnName: "Tokyo", Kana: "とうきょう", Prefecture: "東京都"},
	{Name: "横浜", EnName: "Yokohama", Kana: "よこはま", Prefecture: "神奈川県"},
	{Name: "さいたま", EnName: "Saitama", Kana: "さいたま", Prefecture: "埼玉県"},
	{Name: "千葉", EnName: "Chiba", Kana: "ちば", Prefecture: "千葉県"},
	{Name: "水戸", EnName: "Mito", Kana: "みと", Prefecture: "茨城県"},
	{Name: "宇都宮", EnName: "Utsunomiya", Kana: "うつのみや", Prefecture: "栃木県"},
	{Name: "前橋", EnName: "Maebashi", Kana: "まえばし", Prefecture: "群馬県"},
	{Name: "川崎", EnName: "Kawasaki", Kana: "かわさき", Prefecture: "神奈川県"},
	{Name: "横須賀", EnName: "Yokosuka", Kana: "よこすか", Prefecture: "神奈川県"},
	{Name: "八王子", EnName: "Hachioji", Kana: "はちおうじ", Prefecture: "東京都"},

	// Chubu
	{Name: "新潟", EnName: "Niigata", Kana: "にいがた", Prefecture: "新潟県"},
	{Name: "富山", EnName: "Toyama", Kana: "とやま", Prefecture: "富山県"},
	{Name: "金沢", EnName: "Kanazawa", Kana: "かなざわ", Prefecture: "石川県"},
	{Name: "福井", EnName: "Fukui", Kana: "ふくい", Prefecture: "福井県"},
	{Name: "甲府", EnName: "Kofu", Kana: "こうふ", Prefecture: "山梨県"},
	{Name: "長野", EnName: "Nagano", Kana: "ながの", Prefecture: "長野県"},
	{Name: "岐阜", EnName: "Gifu", Kana: "ぎふ", Prefecture: "岐阜県"},
	{Name: "静岡", EnName: "Shizuoka", Kana: "しずおか", Prefecture: "静岡県"},
	{Name: "名古屋", EnName: "Nagoya", Kana: "なごや", Prefecture: "愛知県"},
	{Name: "浜松", EnName: "Hamamatsu", Kana: "はままつ", Prefecture: "静岡県"},
	{Name: "豊橋", EnName: "Toyohashi", Kana: "とよはし", Prefecture: "愛知県"},
	{Name: "松本", EnName: "Matsumoto", Kana: "まつもと", Prefecture: "長野県"},

	// Kinki
	{Name: "大阪", EnName: "Osaka", Kana: "おおさか", Prefecture: "大阪府"},
	{Name: "京都", EnName: "Kyoto", Kana: "きょうと", Prefecture: "京都府"},
	{Name: "神戸", EnName: "Kobe", Kana: "こうべ", Prefecture: "兵庫県"},
	{Name: "奈良", EnName: "Nara", Kana: "なら", Prefecture: "奈良県"},
	{Name: "大津", EnName: "Otsu", Kana: "おおつ", Prefecture: "滋賀県"},
	{Name: "和歌山", EnName: "Wakayama", Kana: "わかやま", Prefecture: "和歌山県"},
	{Name: "津", EnName: "Tsu", Kana: "つ", Prefecture: "三重県"},
	{Name: "堺", EnName: "Sakai", Kana: "さかい", Prefecture: "大阪府"},
	{Name: "姫路", EnName: "Himeji", Kana: "ひめじ", Prefecture: "兵庫県"},
	{Name: "西宮", EnName: "Nishinomiya", Kana: "にしのみや", Prefecture: "兵庫県"},

	// Chugoku
	{Name: "鳥取", EnName: "Tottori", Kana: "とっとり", Prefecture: "鳥取県"},
	{Name: "松江", EnName: "Matsue", Kana: "まつえ", Prefecture: "島根県"},
	{Name: "岡山", EnName: "Okayama", Kana: "おかやま", Prefecture: "岡山県"},
	{Name: "広島", EnName: "Hiroshima", Kana: "ひろしま", Prefecture: "広島県"},
	{Name: "山口", EnName: "Yamaguchi", Kana: "やまぐち", Prefecture: "山口県"},
	{Name: "福山", EnName: "Fukuyama", Kana: "ふくやま", Prefecture: "広島県"},
	{Name: "下関", EnName: "Shimonoseki", Kana: "しものせき", Prefecture: "山口県"},

	// Shikoku
	{Name: "徳島", EnName: "Tokushima", Kana: "とくしま", Prefecture: "徳島県"},
	{Name: "高松", EnName: "Takamatsu", Kana: "たかまつ", Prefecture: "香川県"},
	{Name: "松山", EnName: "Matsuyama", Kana: "まつやま", Prefecture: "愛媛県"},
	{Name: "高知", EnName: "Kochi", Kana: "こうち", Prefecture: "高知県"},
	{Name: "今治", EnName: "Imabari", Kana: "いまばり", Prefecture: "愛媛県"},
	{Name: "新居浜", EnName: "Niihama", Kana: "にいはま", Prefecture: "愛媛県"},

	// Kyushu and Okinawa
	{Name: "福岡", EnName: "Fukuoka", Kana: "ふくおか", Prefecture: "福岡県"},
	{Name: "佐賀", EnName: "Saga", Kana: "さが", Prefecture: "佐賀県"},
	{Name: "長崎", EnName: "Nagasaki", Kana: "ながさき", Prefecture: "長崎県"},
	{Name: "熊本", EnName: "Kumamoto", Kana: "くまもと", Prefecture: "熊本県"},
	{Name: "大分", EnName: "Oita", Kana: "おおいた", Prefecture: "大分県"},
	{Name: "宮崎", EnName: "Miyazaki", Kana: "みやざき", Prefecture: "宮崎県"},
	{Name: "鹿児島", EnName: "Kagoshima", Kana: "かごしま", Prefecture: "鹿児島県"},
	{Name: "那覇", EnName: "Naha", Kana: "なは", Prefecture: "沖縄県"},
	{Name: "北九州", EnName: "Kitakyushu", Kana: "きたきゅうしゅう", Prefecture: "福岡県"},
	{Name: "久留米", EnName: "Kurume", Kana: "くるめ", Prefecture: "福岡県"},
	{Name: "沖縄", EnName: "Okinawa", Kana: "おきなわ", Prefecture: "沖縄県"},
	{Name: "石垣", EnName: "Ishigaki", Kana: "いしがき", Prefecture: "沖縄県"},
}

// cityCodeOverrides pins curated cities to their forecast office codes.
// Most map to the prefecture office; Hokkaido and the islands split into
// sub-prefectural offices.
var cityCodeOverrides = map[string]string{
	"札幌":   "016000",
	"函館":   "017000",
	"旭川":   "012000",
	"帯広":   "013000",
	"釧路":   "014100",
	"青森":   "020000",
	"仙台":   "040000",
	"秋田":   "050000",
	"山形":   "060000",
	"盛岡":   "030000",
	"福島":   "070000",
	"郡山":   "070000",
	"東京":   "130000",
	"横浜":   "140000",
	"さいたま": "110000",
	"千葉":   "120000",
	"水戸":   "080000",
	"宇都宮":  "090000",
	"前橋":   "100000",
	"川崎":   "140000",
	"横須賀":  "140000",
	"八王子":  "130000",
	"新潟":   "150000",
	"富山":   "160000",
	"金沢":   "170000",
	"福井":   "180000",
	"甲府":   "190000",
	"長野":   "200000",
	"岐阜":   "210000",
	"静岡":   "220000",
	"名古屋":  "230000",
	"浜松":   "220000",
	"豊橋":   "230000",
	"松本":   "200000",
	"大阪":   "270000",
	"京都":   "260000",
	"神戸":   "280000",
	"奈良":   "290000",
	"大津":   "250000",
	"和歌山":  "300000",
	"津":    "240000",
	"堺":    "270000",
	"姫路":   "280000",
	"西宮":   "280000",
	"鳥取":   "310000",
	"松江":   "320000",
	"岡山":   "330000",
	"広島":   "340000",
	"山口":   "350000",
	"福山":   "330000",
	"下関":   "350000",
	"徳島":   "360000",
	"高松":   "370000",
	"松山":   "380000",
	"高知":   "390000",
	"今治":   "380000",
	"新居浜":  "380000",
	"福岡":   "400000",
	"佐賀":   "410000",
	"長崎":   "420000",
	"熊本":   "430000",
	"大分":   "440000",
	"宮崎":   "450000",
	"鹿児島":  "460100",
	"那覇":   "471000",
	"北九州":  "400000",
	"久留米":  "400000",
	"沖縄":   "471000",
	"石垣":   "474000",
}

// CuratedCities returns the built-in major city list.
func CuratedCities() []CuratedCity {
	out := make([]CuratedCity, len(curatedCities))
	copy(out, curatedCities)
	return out
}

// Regions returns the eight weather regions in display order.
func Regions() []Region {
	out := make([]Region, len(japanRegions))
	copy(out, japanRegions)
	return out
}

// RegionByCode looks up a region by its slug.
func RegionByCode(code string) (Region, bool) {
	for _, r := range japanRegions {
		if r.Code == code {
			return r, true
		}
	}
	return Region{}, false
}

// RegionOfPrefecture returns the region slug a prefecture belongs to.
func RegionOfPrefecture(prefecture string) (string, bool) {
	code, ok := prefectureRegions[prefecture]
	return code, ok
}

// IsCityLevelCode reports whether a code addresses a concrete forecast
// area rather than a prefecture or regional aggregate. Aggregates end in
// "00" by JMA convention.
func IsCityLevelCode(code string) bool {
	return ValidAreaCode(code) && !strings.HasSuffix(code, "00")
}

// Resolution sources reported by ResolveCity.
const (
	ResolvedMemo       = "memo"
	ResolvedCurated    = "curated"
	ResolvedParent     = "parent"
	ResolvedPrefecture = "prefecture"
	ResolvedSearch     = "search"
	ResolutionFailed   = "failed"
)

// CityResolver maps curated city names to directory codes, memoizing
// results. LeafCode decides which directory codes count as concrete
// forecast areas during name search.
type CityResolver struct {
	LeafCode func(string) bool

	mu   sync.Mutex
	memo map[string]string
}

// NewCityResolver returns a resolver using IsCityLevelCode for leaf
// detection.
func NewCityResolver() *CityResolver {
	return &CityResolver{
		LeafCode: IsCityLevelCode,
		memo:     make(map[string]string),
	}
}

// ResolveCity finds the directory code for a curated city name. The chain
// runs: memoized hit, curated override (widened to its parent office when
// the exact code is absent from the directory), then exact and substring
// name matches against leaf entries. The source tag names the step that
// produced the code.
func (r *CityResolver) ResolveCity(name string, dir map[string]AreaInfo) (code, source string, ok bool) {
	r.mu.Lock()
	if code, hit := r.memo[name]; hit {
		r.mu.Unlock()
		return code, ResolvedMemo, true
	}
	r.mu.Unlock()

	code, source, ok = r.resolve(name, dir)
	if ok {
		r.mu.Lock()
		r.memo[name] = code
		r.mu.Unlock()
	}
	return code, source, ok
}

func (r *CityResolver) resolve(name string, dir map[string]AreaInfo) (string, string, bool) {
	if override, hit := cityCodeOverrides[name]; hit {
		if _, registered := dir[override]; registered {
			return override, ResolvedCurated, true
		}
		// The override may be finer-grained than the directory; fall back
		// to the enclosing office, then the prefecture.
		parent := override[:4] + "00"
		if _, registered := dir[parent]; registered {
			return parent, ResolvedParent, true
		}
		prefecture := override[:2] + "0000"
		if _, registered := dir[prefecture]; registered {
			return prefecture, ResolvedPrefecture, true
		}
	}

	leaf := r.LeafCode
	if leaf == nil {
		leaf = IsCityLevelCode
	}

	var exact []string
	for code, info := range dir {
		if leaf(code) && info.Name == name {
			exact = append(exact, code)
		}
	}
	if len(exact) > 0 {
		sort.Strings(exact)
		return exact[0], ResolvedSearch, true
	}

	bestCode := ""
	bestGap := 0
	for code, info := range dir {
		if !leaf(code) || !strings.Contains(info.Name, name) {
			continue
		}
		gap := nameLengthGap(info.Name, name)
		if bestCode == "" || gap < bestGap || (gap == bestGap && code < bestCode) {
			bestCode = code
			bestGap = gap
		}
	}
	if bestCode != "" {
		return bestCode, ResolvedSearch, true
	}
	return "", ResolutionFailed, false
}

func nameLengthGap(a, b string) int {
	gap := utf8.RuneCountInString(a) - utf8.RuneCountInString(b)
	if gap < 0 {
		return -gap
	}
	return gap
}
