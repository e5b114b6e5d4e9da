// Package domain models Japan Meteorological Agency (JMA) weather data.
//
// # Data Source
//
// All payloads come from the JMA bosai API under https://www.jma.go.jp/bosai:
// the area taxonomy (common/const/area.json), per-area forecast documents
// (forecast/data/forecast/{code}.json), and per-area warning documents
// (warning/data/warning/{code}.json). The API is unauthenticated and
// versionless; shapes drift occasionally, so decoding is tolerant throughout.
//
// # Area Codes
//
// Every forecast zone carries a 6-digit numeric code. The numbering encodes a
// hierarchy: the leading two digits identify the prefecture-level office and
// a trailing "00" marks an aggregate (office or prefecture) rather than a
// city-level zone:
//
//	130000  東京都 (Tokyo office, aggregate)
//	130010  東京地方 (Tokyo region, city-level)
//	016000  札幌管区気象台 (Sapporo district office)
//
// The aggregate convention drives fallback resolution: a missing city code is
// widened to code[:4]+"00" (parent office), then code[:2]+"0000" (prefecture).
// The "non-00 suffix means city-level" rule is an observation about the
// numbering, not a documented contract, so [CityResolver] keeps it swappable.
//
// # Forecast Documents
//
// A forecast document is an array of one or two report blocks. Each block
// holds several time series, and each series pairs a timeDefines axis with
// per-area value arrays (weatherCodes, pops, temps, ...) aligned to that
// axis by index. Values are positional, never keyed by date, and arrays may
// be shorter than the axis, so every index access is guarded. Block 0 covers
// the detailed short horizon (free-text weathers, winds, waves, spot temps);
// the second block, when present, is the weekly forecast (weatherCodes,
// pops, reliabilities, plus a tempsMin/tempsMax series).
//
// Timestamps appear as RFC 3339 with offset ("2024-01-15T11:00:00+09:00")
// or as bare dates ("2024-01-15"); both are accepted.
//
// # Weather Codes
//
// The weekly forecast carries numeric condition codes instead of free text.
// The first digit classifies the sky (1 晴れ, 2 くもり, 3 雨, 4 雪) and the
// rest encode transitions ("晴れ後くもり"). [WeatherCodeText] resolves a code
// against the static table; unknown codes fall back to a label embedding the
// raw code.
//
// # Warnings
//
// A warning document groups blocks by kind; each block carries a
// reportDatetime and an areas map of code → {warnings:[{code,name,status}]}.
// A status of 解除 means the warning was lifted and is not active. Severity
// is keyed off the name markers 特別警報 (emergency warning), 警報 (warning),
// and 注意報 (advisory); English keywords are matched as well.
//
// # Name Search
//
// Area names exist in three scripts: native (東京都), kana reading
// (とうきょうと), and English (Tokyo). Queries match any of them by
// substring after trimming, lower-casing, and width folding; a final pass
// shifts hiragana into the katakana block on both sides so either syllabary
// finds entries written in the other.
package domain
