package domain

import (
	"encoding/json"
	"time"
)

// AreaInfo is one entry of the JMA area directory. The full set is rebuilt
// on each directory load; Code is the natural key.
type AreaInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	EnName string `json:"en_name,omitempty"`
	Kana   string `json:"kana,omitempty"`
	Parent string `json:"parent,omitempty"`
}

// CurrentWeather is the latest published conditions for one area, flattened
// from the head of a forecast document.
type CurrentWeather struct {
	AreaCode    string `json:"area_code"`
	AreaName    string `json:"area_name"`
	WeatherCode string `json:"weather_code"`
	WeatherText string `json:"weather_text"`
	Wind        string `json:"wind,omitempty"`
	Wave        string `json:"wave,omitempty"`

	// TemperatureCelsius is nil when no series in the report carries temps.
	TemperatureCelsius       *float64 `json:"temperature_celsius,omitempty"`
	PrecipProbabilityPercent int      `json:"precipitation_probability_percent"`

	PublishedAt time.Time `json:"published_at"`
	ObservedAt  time.Time `json:"observed_at"`
}

// TempRange bounds a weekly temperature estimate. Either side may be nil
// when upstream omits it.
type TempRange struct {
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`
}

// ForecastDay is one row of the normalized weekly forecast. Sequences are
// ordered by ascending date and hold at most MaxForecastDays entries.
type ForecastDay struct {
	Date        time.Time `json:"date"`
	WeatherCode string    `json:"weather_code"`
	WeatherText string    `json:"weather_text"`

	TempMinCelsius *float64  `json:"temp_min_celsius,omitempty"`
	TempMaxCelsius *float64  `json:"temp_max_celsius,omitempty"`
	TempMinRange   TempRange `json:"temp_min_range"`
	TempMaxRange   TempRange `json:"temp_max_range"`

	PrecipProbabilityPercent int    `json:"precipitation_probability_percent"`
	Reliability              string `json:"reliability,omitempty"`
}

// MaxForecastDays is the longest horizon the upstream weekly forecast covers.
const MaxForecastDays = 7

// Severity ranks an alert; higher values are more urgent.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalJSON writes the lowercase label rather than the ordinal.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Alert is one active warning or advisory from a warning document.
type Alert struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Severity    Severity  `json:"severity"`
	IssuedAt    time.Time `json:"issued_at"`
	AreaCodes   []string  `json:"area_codes"`
}

// MajorCity is a curated city bound to the directory code that serves it.
// Name, EnName, and Kana come from the curated roster; Code and Parent come
// from the resolved directory entry.
type MajorCity struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	EnName     string `json:"en_name"`
	Kana       string `json:"kana"`
	Parent     string `json:"parent,omitempty"`
	Prefecture string `json:"prefecture"`
	Region     string `json:"region"`
}

// Region is one of the eight traditional divisions of Japan.
type Region struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	EnName string `json:"en_name"`
}

// CityGroup collects the major cities of one region, sorted by native name.
type CityGroup struct {
	Region Region      `json:"region"`
	Cities []MajorCity `json:"cities"`
}
