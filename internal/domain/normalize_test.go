package domain

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAreaTokyo = "130010"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseJMATime(t *testing.T) {
	t.Run("offset timestamp", func(t *testing.T) {
		result, err := parseJMATime("2026-01-15T11:00:00+09:00")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 1, 15, 2, 0, 0, 0, time.UTC), result.UTC())
	})

	t.Run("bare date", func(t *testing.T) {
		result, err := parseJMATime("2026-01-16")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC), result)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := parseJMATime("soon")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized time")
	})
}

func TestSafeFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *float64
	}{
		{"integer", "15", ptrFloat(15)},
		{"decimal", "12.5", ptrFloat(12.5)},
		{"negative", "-3", ptrFloat(-3)},
		{"empty", "", nil},
		{"placeholder", "--", nil},
		{"words", "unknown", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := safeFloat(tt.input)
			if tt.expected == nil {
				assert.Nil(t, result)
			} else {
				require.NotNil(t, result)
				assert.Equal(t, *tt.expected, *result)
			}
		})
	}
}

func TestSafeInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"plain", "80", 80},
		{"zero", "0", 0},
		{"empty", "", 0},
		{"malformed", "8o", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, safeInt(tt.input))
		})
	}
}

func ptrFloat(f float64) *float64 { return &f }

func TestWeatherCodeText(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"clear", "100", "晴れ"},
		{"cloudy", "200", "くもり"},
		{"rain", "300", "雨"},
		{"snow", "400", "雪"},
		{"empty code", "", ""},
		{"unknown code", "999", "天気コード: 999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeatherCodeText(tt.code))
		})
	}
}

func TestParseAreaDocument(t *testing.T) {
	t.Run("categories flattened", func(t *testing.T) {
		data := []byte(`{
			"offices": {
				"130000": {"name": "東京都", "enName": "Tokyo", "officeName": "気象庁", "parent": "010300", "kana": "とうきょうと"},
				"016000": {"name": "石狩・空知・後志地方", "enName": "Ishikari Sorachi Shiribeshi", "parent": "010100", "kana": "いしかりそらちしりべしちほう"}
			},
			"class10s": {
				"130010": {"name": "東京地方", "enName": "Tokyo", "parent": "130000", "kana": "とうきょうちほう"}
			}
		}`)

		dir, err := ParseAreaDocument(data)

		require.NoError(t, err)
		require.Len(t, dir, 3)
		assert.Equal(t, "東京都", dir["130000"].Name)
		assert.Equal(t, "Tokyo", dir["130000"].EnName)
		assert.Equal(t, "とうきょうと", dir["130000"].Kana)
		assert.Equal(t, "010300", dir["130000"].Parent)
		assert.Equal(t, "130000", dir["130010"].Parent)
		assert.Equal(t, "016000", dir["016000"].Code)
	})

	t.Run("malformed category skipped", func(t *testing.T) {
		data := []byte(`{
			"offices": "bogus",
			"class10s": {"130010": {"name": "東京地方"}}
		}`)

		dir, err := ParseAreaDocument(data)

		require.NoError(t, err)
		require.Len(t, dir, 1)
		assert.Equal(t, "東京地方", dir["130010"].Name)
	})

	t.Run("malformed entry skipped", func(t *testing.T) {
		data := []byte(`{
			"offices": {
				"130000": {"name": "東京都"},
				"140000": 7
			}
		}`)

		dir, err := ParseAreaDocument(data)

		require.NoError(t, err)
		assert.Len(t, dir, 1)
	})

	t.Run("top level not an object", func(t *testing.T) {
		_, err := ParseAreaDocument([]byte(`["130000"]`))

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrParse))
	})
}

func TestNormalizeCurrentWeather(t *testing.T) {
	fixedTime := time.Date(2026, 1, 15, 12, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	t.Run("full report", func(t *testing.T) {
		data := []byte(`[
			{
				"publishingOffice": "気象庁",
				"reportDatetime": "2026-01-15T11:00:00+09:00",
				"timeSeries": [
					{
						"timeDefines": ["2026-01-15T11:00:00+09:00"],
						"areas": [
							{
								"area": {"name": "東京地方", "code": "130010"},
								"weatherCodes": ["101"],
								"weathers": ["晴れ時々くもり"],
								"winds": ["北の風"],
								"waves": ["０．５メートル"],
								"pops": ["10"]
							}
						]
					},
					{
						"timeDefines": ["2026-01-15T12:00:00+09:00"],
						"areas": [
							{
								"area": {"name": "東京", "code": "44132"},
								"temps": ["12.5"]
							}
						]
					}
				]
			}
		]`)

		result, err := NormalizeCurrentWeather(data, testAreaTokyo)

		require.NoError(t, err)
		assert.Equal(t, testAreaTokyo, result.AreaCode)
		assert.Equal(t, "東京地方", result.AreaName)
		assert.Equal(t, "101", result.WeatherCode)
		assert.Equal(t, "晴れ時々くもり", result.WeatherText)
		assert.Equal(t, "北の風", result.Wind)
		assert.Equal(t, "０．５メートル", result.Wave)
		assert.Equal(t, 10, result.PrecipProbabilityPercent)
		require.NotNil(t, result.TemperatureCelsius)
		assert.Equal(t, 12.5, *result.TemperatureCelsius)
		assert.Equal(t, time.Date(2026, 1, 15, 2, 0, 0, 0, time.UTC), result.PublishedAt.UTC())
		assert.Equal(t, fixedTime, result.ObservedAt)
	})

	t.Run("first temperature series wins", func(t *testing.T) {
		data := []byte(`[
			{
				"reportDatetime": "2026-01-15T11:00:00+09:00",
				"timeSeries": [
					{"timeDefines": [], "areas": [{"area": {"name": "東京地方"}, "weatherCodes": ["101"]}]},
					{"timeDefines": [], "areas": [{"area": {"name": "東京"}, "temps": ["3"]}]},
					{"timeDefines": [], "areas": [{"area": {"name": "大手町"}, "temps": ["9"]}]}
				]
			}
		]`)

		result, err := NormalizeCurrentWeather(data, testAreaTokyo)

		require.NoError(t, err)
		require.NotNil(t, result.TemperatureCelsius)
		assert.Equal(t, 3.0, *result.TemperatureCelsius)
	})

	t.Run("sparse report yields zero values", func(t *testing.T) {
		data := []byte(`[
			{
				"reportDatetime": "2026-01-15T11:00:00+09:00",
				"timeSeries": [
					{"timeDefines": [], "areas": [{"area": {"name": "東京地方", "code": "130010"}}]}
				]
			}
		]`)

		result, err := NormalizeCurrentWeather(data, testAreaTokyo)

		require.NoError(t, err)
		assert.Equal(t, "東京地方", result.AreaName)
		assert.Equal(t, "", result.WeatherCode)
		assert.Equal(t, "", result.Wind)
		assert.Equal(t, 0, result.PrecipProbabilityPercent)
		assert.Nil(t, result.TemperatureCelsius)
	})

	t.Run("no series at all", func(t *testing.T) {
		data := []byte(`[{"reportDatetime": "2026-01-15T11:00:00+09:00"}]`)

		result, err := NormalizeCurrentWeather(data, testAreaTokyo)

		require.NoError(t, err)
		assert.Equal(t, "", result.AreaName)
		assert.Equal(t, testAreaTokyo, result.AreaCode)
	})

	t.Run("bad report time falls back to clock", func(t *testing.T) {
		data := []byte(`[
			{
				"reportDatetime": "soon",
				"timeSeries": [{"timeDefines": [], "areas": [{"area": {"name": "東京地方"}}]}]
			}
		]`)

		result, err := NormalizeCurrentWeather(data, testAreaTokyo)

		require.NoError(t, err)
		assert.Equal(t, fixedTime, result.PublishedAt)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := NormalizeCurrentWeather([]byte(`[]`), testAreaTokyo)

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrParse))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := NormalizeCurrentWeather([]byte(`{invalid`), testAreaTokyo)

		assert.True(t, errors.Is(err, ErrParse))
	})
}

func TestNormalizeForecast(t *testing.T) {
	logger := discardLogger()

	weekly := []byte(`[
		{
			"publishingOffice": "気象庁",
			"reportDatetime": "2026-01-15T11:00:00+09:00",
			"timeSeries": [
				{
					"timeDefines": ["2026-01-15T11:00:00+09:00"],
					"areas": [
						{
							"area": {"name": "東京地方", "code": "130010"},
							"weatherCodes": ["101"],
							"weathers": ["晴れ時々くもり"],
							"pops": ["10"]
						}
					]
				}
			]
		},
		{
			"publishingOffice": "気象庁",
			"reportDatetime": "2026-01-15T11:00:00+09:00",
			"timeSeries": [
				{
					"timeDefines": ["2026-01-16", "2026-01-17", "2026-01-18"],
					"areas": [
						{
							"area": {"name": "東京地方", "code": "130010"},
							"weatherCodes": ["100", "200", "300"],
							"pops": ["10", "30", "80"],
							"reliabilities": ["A", "B", "C"]
						}
					]
				},
				{
					"timeDefines": ["2026-01-16", "2026-01-17", "2026-01-18"],
					"areas": [
						{
							"area": {"name": "東京", "code": "44132"},
							"tempsMin": ["5", "3", "8"],
							"tempsMax": ["15", "12", "18"],
							"tempsMinUpper": ["6", "4", "9"],
							"tempsMinLower": ["4", "2", "7"],
							"tempsMaxUpper": ["16", "13", "19"],
							"tempsMaxLower": ["14", "11", "17"]
						}
					]
				}
			]
		}
	]`)

	t.Run("three day report", func(t *testing.T) {
		days, err := NormalizeForecast(weekly, 3, logger)

		require.NoError(t, err)
		require.Len(t, days, 3)

		assert.Equal(t, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC), days[0].Date)
		assert.Equal(t, "100", days[0].WeatherCode)
		assert.Equal(t, "晴れ", days[0].WeatherText)
		assert.Equal(t, 10, days[0].PrecipProbabilityPercent)
		assert.Equal(t, "A", days[0].Reliability)
		require.NotNil(t, days[0].TempMinCelsius)
		assert.Equal(t, 5.0, *days[0].TempMinCelsius)
		require.NotNil(t, days[0].TempMaxCelsius)
		assert.Equal(t, 15.0, *days[0].TempMaxCelsius)
		require.NotNil(t, days[0].TempMinRange.Lower)
		assert.Equal(t, 4.0, *days[0].TempMinRange.Lower)
		assert.Equal(t, 6.0, *days[0].TempMinRange.Upper)
		assert.Equal(t, 14.0, *days[0].TempMaxRange.Lower)
		assert.Equal(t, 16.0, *days[0].TempMaxRange.Upper)

		assert.Equal(t, "くもり", days[1].WeatherText)
		assert.Equal(t, 30, days[1].PrecipProbabilityPercent)
		assert.Equal(t, 3.0, *days[1].TempMinCelsius)
		assert.Equal(t, 12.0, *days[1].TempMaxCelsius)

		assert.Equal(t, "雨", days[2].WeatherText)
		assert.Equal(t, 80, days[2].PrecipProbabilityPercent)
		assert.Equal(t, 8.0, *days[2].TempMinCelsius)
		assert.Equal(t, 18.0, *days[2].TempMaxCelsius)
	})

	t.Run("axis shorter than requested days", func(t *testing.T) {
		days, err := NormalizeForecast(weekly, 7, logger)

		require.NoError(t, err)
		assert.Len(t, days, 3)
	})

	t.Run("requested days beyond cap", func(t *testing.T) {
		eight := []byte(`[
			{
				"reportDatetime": "2026-01-15T11:00:00+09:00",
				"timeSeries": [
					{
						"timeDefines": ["2026-01-16", "2026-01-17", "2026-01-18", "2026-01-19", "2026-01-20", "2026-01-21", "2026-01-22", "2026-01-23"],
						"areas": [
							{
								"area": {"name": "東京地方"},
								"weatherCodes": ["100", "100", "100", "100", "100", "100", "100", "100"],
								"pops": ["0", "0", "0", "0", "0", "0", "0", "0"]
							}
						]
					}
				]
			}
		]`)

		days, err := NormalizeForecast(eight, 10, logger)

		require.NoError(t, err)
		assert.Len(t, days, MaxForecastDays)

		days, err = NormalizeForecast(eight, 0, logger)

		require.NoError(t, err)
		assert.Len(t, days, MaxForecastDays)
	})

	t.Run("short temperature arrays leave nil", func(t *testing.T) {
		data := []byte(`[
			{
				"reportDatetime": "2026-01-15T11:00:00+09:00",
				"timeSeries": [
					{
						"timeDefines": ["2026-01-16", "2026-01-17", "2026-01-18"],
						"areas": [
							{
								"area": {"name": "東京地方"},
								"weatherCodes": ["100", "200", "300"],
								"pops": ["10", "30", "80"]
							}
						]
					},
					{
						"timeDefines": ["2026-01-16", "2026-01-17", "2026-01-18"],
						"areas": [
							{
								"area": {"name": "東京"},
								"tempsMin": ["5"],
								"tempsMax": ["15", "12", "18"]
							}
						]
					}
				]
			}
		]`)

		days, err := NormalizeForecast(data, 3, logger)

		require.NoError(t, err)
		require.Len(t, days, 3)
		assert.NotNil(t, days[0].TempMinCelsius)
		assert.Nil(t, days[1].TempMinCelsius)
		require.NotNil(t, days[1].TempMaxCelsius)
		assert.Equal(t, 12.0, *days[1].TempMaxCelsius)
		assert.Nil(t, days[0].TempMinRange.Lower)
	})

	t.Run("malformed date dropped", func(t *testing.T) {
		data := []byte(`[
			{
				"reportDatetime": "2026-01-15T11:00:00+09:00",
				"timeSeries": [
					{
						"timeDefines": ["2026-01-16", "garbage", "2026-01-18"],
						"areas": [
							{
								"area": {"name": "東京地方"},
								"weatherCodes": ["100", "200", "300"],
								"pops": ["10", "30", "80"]
							}
						]
					}
				]
			}
		]`)

		days, err := NormalizeForecast(data, 3, logger)

		require.NoError(t, err)
		require.Len(t, days, 2)
		assert.Equal(t, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC), days[0].Date)
		assert.Equal(t, time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC), days[1].Date)
		assert.Equal(t, "300", days[1].WeatherCode)
	})

	t.Run("inverted range kept", func(t *testing.T) {
		data := []byte(`[
			{
				"reportDatetime": "2026-01-15T11:00:00+09:00",
				"timeSeries": [
					{
						"timeDefines": ["2026-01-16"],
						"areas": [{"area": {"name": "東京地方"}, "weatherCodes": ["100"], "pops": ["0"]}]
					},
					{
						"timeDefines": ["2026-01-16"],
						"areas": [{"area": {"name": "東京"}, "tempsMin": ["20"], "tempsMax": ["10"]}]
					}
				]
			}
		]`)

		days, err := NormalizeForecast(data, 1, logger)

		require.NoError(t, err)
		require.Len(t, days, 1)
		assert.Equal(t, 20.0, *days[0].TempMinCelsius)
		assert.Equal(t, 10.0, *days[0].TempMaxCelsius)
	})

	t.Run("later block without temps still wins", func(t *testing.T) {
		data := []byte(`[
			{
				"reportDatetime": "2026-01-15T11:00:00+09:00",
				"timeSeries": [
					{
						"timeDefines": ["2026-01-15"],
						"areas": [{"area": {"name": "東京地方"}, "weatherCodes": ["101"], "pops": ["10"]}]
					}
				]
			},
			{
				"reportDatetime": "2026-01-15T11:00:00+09:00",
				"timeSeries": [
					{
						"timeDefines": ["2026-01-16"],
						"areas": [{"area": {"name": "東京地方"}, "weatherCodes": ["200"], "pops": ["30"]}]
					}
				]
			}
		]`)

		days, err := NormalizeForecast(data, 7, logger)

		require.NoError(t, err)
		require.Len(t, days, 1)
		assert.Equal(t, "200", days[0].WeatherCode)
	})

	t.Run("temperature block preferred over later block", func(t *testing.T) {
		data := []byte(`[
			{
				"reportDatetime": "2026-01-15T11:00:00+09:00",
				"timeSeries": [
					{
						"timeDefines": ["2026-01-16"],
						"areas": [{"area": {"name": "東京地方"}, "weatherCodes": ["100"], "pops": ["0"]}]
					},
					{
						"timeDefines": ["2026-01-16"],
						"areas": [{"area": {"name": "東京"}, "tempsMin": ["5"], "tempsMax": ["15"]}]
					}
				]
			},
			{
				"reportDatetime": "2026-01-15T11:00:00+09:00",
				"timeSeries": [
					{
						"timeDefines": ["2026-01-17"],
						"areas": [{"area": {"name": "東京地方"}, "weatherCodes": ["200"], "pops": ["30"]}]
					}
				]
			}
		]`)

		days, err := NormalizeForecast(data, 7, logger)

		require.NoError(t, err)
		require.Len(t, days, 1)
		assert.Equal(t, "100", days[0].WeatherCode)
		assert.NotNil(t, days[0].TempMinCelsius)
	})

	t.Run("no weekly series returns empty", func(t *testing.T) {
		data := []byte(`[
			{
				"reportDatetime": "2026-01-15T11:00:00+09:00",
				"timeSeries": [
					{"timeDefines": ["2026-01-16"], "areas": [{"area": {"name": "東京地方"}, "weathers": ["晴れ"]}]}
				]
			}
		]`)

		days, err := NormalizeForecast(data, 7, logger)

		require.NoError(t, err)
		assert.Empty(t, days)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := NormalizeForecast([]byte(`[]`), 7, logger)

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrParse))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := NormalizeForecast([]byte(`not json`), 7, logger)

		assert.True(t, errors.Is(err, ErrParse))
	})
}

func TestPickForecastBlock(t *testing.T) {
	weather := TimeSeries{
		TimeDefines: []string{"2026-01-16"},
		Areas:       []SeriesArea{{Area: AreaRef{Name: "東京地方"}, WeatherCodes: []string{"100"}, Pops: []string{"10"}}},
	}
	temps := TimeSeries{
		TimeDefines: []string{"2026-01-16"},
		Areas:       []SeriesArea{{Area: AreaRef{Name: "東京"}, TempsMin: []string{"5"}, TempsMax: []string{"15"}}},
	}

	t.Run("no qualifying block", func(t *testing.T) {
		_, ok := pickForecastBlock(ForecastDocument{{TimeSeries: []TimeSeries{temps}}})

		assert.False(t, ok)
	})

	t.Run("single block", func(t *testing.T) {
		block, ok := pickForecastBlock(ForecastDocument{{PublishingOffice: "a", TimeSeries: []TimeSeries{weather}}})

		require.True(t, ok)
		assert.Equal(t, "a", block.PublishingOffice)
	})

	t.Run("later block wins tie", func(t *testing.T) {
		doc := ForecastDocument{
			{PublishingOffice: "a", TimeSeries: []TimeSeries{weather}},
			{PublishingOffice: "b", TimeSeries: []TimeSeries{weather}},
		}
		block, ok := pickForecastBlock(doc)

		require.True(t, ok)
		assert.Equal(t, "b", block.PublishingOffice)
	})

	t.Run("temperature block beats later block", func(t *testing.T) {
		doc := ForecastDocument{
			{PublishingOffice: "a", TimeSeries: []TimeSeries{weather, temps}},
			{PublishingOffice: "b", TimeSeries: []TimeSeries{weather}},
		}
		block, ok := pickForecastBlock(doc)

		require.True(t, ok)
		assert.Equal(t, "a", block.PublishingOffice)
	})
}

func TestWarningSeverity(t *testing.T) {
	tests := []struct {
		name     string
		warning  string
		code     string
		expected Severity
	}{
		{"emergency warning", "大雨特別警報", "33", SeverityHigh},
		{"warning", "大雨警報", "03", SeverityHigh},
		{"storm warning", "暴風警報", "05", SeverityHigh},
		{"advisory", "雷注意報", "14", SeverityMedium},
		{"fog advisory", "濃霧注意報", "20", SeverityMedium},
		{"english warning", "Heavy Rain Warning", "", SeverityHigh},
		{"english special", "Special Warning", "", SeverityHigh},
		{"english advisory", "Flood Advisory", "", SeverityMedium},
		{"plain bulletin", "記録的短時間大雨情報", "", SeverityLow},
		{"code fallback", "", "特別警報", SeverityHigh},
		{"opaque code", "", "03", SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WarningSeverity(tt.warning, tt.code))
		})
	}
}

func TestNormalizeAlerts(t *testing.T) {
	fixedTime := time.Date(2026, 1, 15, 12, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	t.Run("active warnings extracted and ordered", func(t *testing.T) {
		data := []byte(`{
			"headlineText": "注意してください",
			"warnings": {
				"reportDatetime": "2026-01-15T10:00:00+09:00",
				"areas": {
					"130010": {
						"warnings": [
							{"code": "03", "name": "大雨警報", "status": "発表"},
							{"code": "14", "name": "雷注意報", "status": "継続"},
							{"code": "15", "name": "強風注意報", "status": "解除"}
						]
					},
					"130020": {
						"warnings": [
							{"code": "32", "name": "暴風特別警報", "status": "発表"}
						]
					}
				}
			}
		}`)

		alerts, err := NormalizeAlerts(data, "130000")

		require.NoError(t, err)
		require.Len(t, alerts, 3)

		assert.Equal(t, "大雨警報", alerts[0].Title)
		assert.Equal(t, SeverityHigh, alerts[0].Severity)
		assert.Equal(t, []string{"130010"}, alerts[0].AreaCodes)
		assert.Equal(t, "発表", alerts[0].Description)
		assert.Equal(t, time.Date(2026, 1, 15, 1, 0, 0, 0, time.UTC), alerts[0].IssuedAt.UTC())

		assert.Equal(t, "暴風特別警報", alerts[1].Title)
		assert.Equal(t, []string{"130020"}, alerts[1].AreaCodes)

		assert.Equal(t, "雷注意報", alerts[2].Title)
		assert.Equal(t, SeverityMedium, alerts[2].Severity)
	})

	t.Run("area key not a code falls back to requested", func(t *testing.T) {
		data := []byte(`{
			"warnings": {
				"reportDatetime": "2026-01-15T10:00:00+09:00",
				"areas": {
					"伊豆諸島北部": {
						"warnings": [{"code": "03", "name": "大雨警報", "status": "発表"}]
					}
				}
			}
		}`)

		alerts, err := NormalizeAlerts(data, "130000")

		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, []string{"130000"}, alerts[0].AreaCodes)
	})

	t.Run("missing name uses block kind", func(t *testing.T) {
		data := []byte(`{
			"tempAreas": {
				"areas": {
					"130010": {
						"warnings": [{"code": "33", "status": "発表"}]
					}
				}
			}
		}`)

		alerts, err := NormalizeAlerts(data, "130000")

		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, "tempAreas", alerts[0].Title)
		assert.Equal(t, SeverityLow, alerts[0].Severity)
		assert.Equal(t, fixedTime, alerts[0].IssuedAt)
	})

	t.Run("all warnings lifted", func(t *testing.T) {
		data := []byte(`{
			"warnings": {
				"reportDatetime": "2026-01-15T10:00:00+09:00",
				"areas": {
					"130010": {"warnings": [{"code": "03", "name": "大雨警報", "status": "解除"}]}
				}
			}
		}`)

		alerts, err := NormalizeAlerts(data, "130000")

		require.NoError(t, err)
		assert.Empty(t, alerts)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := NormalizeAlerts([]byte(`<html>`), "130000")

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrParse))
	})
}
