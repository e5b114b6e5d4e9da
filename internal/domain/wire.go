package domain

// Wire types mirroring the JMA JSON documents. Field names match the
// upstream keys exactly. Decoding is tolerant: unknown keys are ignored and
// branches that fail to decode are skipped rather than failing the document.

// ForecastDocument is the top-level forecast payload: one or two report
// blocks.
type ForecastDocument []ReportBlock

// ReportBlock covers one forecast horizon from one publishing office.
type ReportBlock struct {
	PublishingOffice string       `json:"publishingOffice"`
	ReportDatetime   string       `json:"reportDatetime"`
	TimeSeries       []TimeSeries `json:"timeSeries"`
}

// TimeSeries pairs a shared time axis with per-area value arrays. Value
// arrays are index-aligned to TimeDefines and may be shorter than it.
type TimeSeries struct {
	TimeDefines []string     `json:"timeDefines"`
	Areas       []SeriesArea `json:"areas"`
}

// SeriesArea carries the value arrays for one area within a series. Which
// arrays are populated depends on the series kind.
type SeriesArea struct {
	Area AreaRef `json:"area"`

	WeatherCodes  []string `json:"weatherCodes"`
	Weathers      []string `json:"weathers"`
	Winds         []string `json:"winds"`
	Waves         []string `json:"waves"`
	Pops          []string `json:"pops"`
	Reliabilities []string `json:"reliabilities"`

	Temps         []string `json:"temps"`
	TempsMin      []string `json:"tempsMin"`
	TempsMinUpper []string `json:"tempsMinUpper"`
	TempsMinLower []string `json:"tempsMinLower"`
	TempsMax      []string `json:"tempsMax"`
	TempsMaxUpper []string `json:"tempsMaxUpper"`
	TempsMaxLower []string `json:"tempsMaxLower"`
}

// AreaRef names the area a series row belongs to.
type AreaRef struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// AreaEntry is one directory entry within an area.json category.
type AreaEntry struct {
	Name   string `json:"name"`
	EnName string `json:"enName"`
	Kana   string `json:"kana"`
	Parent string `json:"parent"`
}

// WarningBlock is one top-level element of a warning document.
type WarningBlock struct {
	ReportDatetime string                 `json:"reportDatetime"`
	Areas          map[string]WarningArea `json:"areas"`
}

// WarningArea lists the warnings in force for one area.
type WarningArea struct {
	Warnings []WarningItem `json:"warnings"`
}

// WarningItem is a single warning entry. Status follows JMA conventions
// (発表 issued, 継続 continued, 解除 lifted).
type WarningItem struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Status string `json:"status"`
}
