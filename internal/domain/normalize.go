package domain

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"
)

// warningStatusLifted is the JMA status marking a warning as no longer in
// force.
const warningStatusLifted = "解除"

var jmaTimeLayouts = []string{time.RFC3339, "2006-01-02"}

// parseJMATime accepts the timestamp shapes JMA emits: RFC 3339 with offset
// and bare dates.
func parseJMATime(s string) (time.Time, error) {
	for _, layout := range jmaTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// safeFloat parses a numeric string, nil for empty or malformed values.
func safeFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// safeInt parses an integer string, zero for empty or malformed values.
func safeInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// stringAt returns arr[i], or "" when the array is shorter.
func stringAt(arr []string, i int) string {
	if i < len(arr) {
		return arr[i]
	}
	return ""
}

// floatAt parses arr[i], nil beyond the array's range.
func floatAt(arr []string, i int) *float64 {
	if i >= len(arr) {
		return nil
	}
	return safeFloat(arr[i])
}

// ParseAreaDocument flattens area.json into one code-keyed directory.
// Categories or entries that do not decode as objects are skipped; the
// call fails only when the top level itself is not an object.
func ParseAreaDocument(data []byte) (map[string]AreaInfo, error) {
	var categories map[string]json.RawMessage
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("area document: %v: %w", err, ErrParse)
	}

	dir := make(map[string]AreaInfo)
	for _, rawCategory := range categories {
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(rawCategory, &entries); err != nil {
			continue
		}
		for code, rawEntry := range entries {
			var e AreaEntry
			if err := json.Unmarshal(rawEntry, &e); err != nil {
				continue
			}
			dir[code] = AreaInfo{
				Code:   code,
				Name:   e.Name,
				EnName: e.EnName,
				Kana:   e.Kana,
				Parent: e.Parent,
			}
		}
	}
	return dir, nil
}

// NormalizeCurrentWeather flattens the head of a forecast document into the
// latest published conditions: report block 0, first series, first area,
// index 0 of each value array. Temperature lives in a separate series and
// comes from the first block-0 series carrying temps. Missing arrays yield
// zero values, never errors.
func NormalizeCurrentWeather(data []byte, areaCode string) (CurrentWeather, error) {
	var doc ForecastDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return CurrentWeather{}, fmt.Errorf("forecast document: %v: %w", err, ErrParse)
	}
	if len(doc) == 0 {
		return CurrentWeather{}, fmt.Errorf("forecast document empty: %w", ErrParse)
	}

	block := doc[0]
	cw := CurrentWeather{
		AreaCode:   areaCode,
		ObservedAt: clock.Now(),
	}

	if t, err := parseJMATime(block.ReportDatetime); err == nil {
		cw.PublishedAt = t
	} else {
		cw.PublishedAt = clock.Now()
	}

	if len(block.TimeSeries) > 0 && len(block.TimeSeries[0].Areas) > 0 {
		area := block.TimeSeries[0].Areas[0]
		cw.AreaName = area.Area.Name
		cw.WeatherCode = stringAt(area.WeatherCodes, 0)
		cw.WeatherText = stringAt(area.Weathers, 0)
		cw.Wind = stringAt(area.Winds, 0)
		cw.Wave = stringAt(area.Waves, 0)
		cw.PrecipProbabilityPercent = safeInt(stringAt(area.Pops, 0))
	}

	for _, series := range block.TimeSeries {
		if len(series.Areas) == 0 || len(series.Areas[0].Temps) == 0 {
			continue
		}
		cw.TemperatureCelsius = floatAt(series.Areas[0].Temps, 0)
		break
	}

	return cw, nil
}

// weeklySeries finds the series carrying weather codes plus precipitation
// probabilities, and the series carrying min/max temperature arrays. The
// last matching series wins when several qualify.
func weeklySeries(block ReportBlock) (weatherPop, temps *TimeSeries) {
	for i := range block.TimeSeries {
		s := &block.TimeSeries[i]
		if len(s.Areas) == 0 {
			continue
		}
		a := s.Areas[0]
		if len(a.WeatherCodes) > 0 && len(a.Pops) > 0 {
			weatherPop = s
		}
		if len(a.TempsMin) > 0 || len(a.TempsMax) > 0 {
			temps = s
		}
	}
	return weatherPop, temps
}

// pickForecastBlock selects the block to read the weekly forecast from: the
// later block carrying a weather+pop series, preferring one that also
// carries a temperature series. In practice this is block 1 when present.
func pickForecastBlock(doc ForecastDocument) (ReportBlock, bool) {
	best := -1
	bestHasTemps := false
	for i, block := range doc {
		weatherPop, temps := weeklySeries(block)
		if weatherPop == nil {
			continue
		}
		hasTemps := temps != nil
		if best == -1 || hasTemps || !bestHasTemps {
			best = i
			bestHasTemps = hasTemps
		}
	}
	if best == -1 {
		return ReportBlock{}, false
	}
	return doc[best], true
}

// NormalizeForecast builds per-day rows from a forecast document. The
// weekly block's weather series provides the date axis, truncated to
// min(days, MaxForecastDays, len(axis)); every parallel array is guarded
// per index because upstream arrays may be shorter than the axis. A day
// with a malformed date is dropped with a warning.
func NormalizeForecast(data []byte, days int, logger *slog.Logger) ([]ForecastDay, error) {
	var doc ForecastDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("forecast document: %v: %w", err, ErrParse)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("forecast document empty: %w", ErrParse)
	}

	if days <= 0 || days > MaxForecastDays {
		days = MaxForecastDays
	}

	block, ok := pickForecastBlock(doc)
	if !ok {
		logger.Warn("forecast document has no weekly weather series")
		return nil, nil
	}
	weatherPop, temps := weeklySeries(block)

	axis := weatherPop.TimeDefines
	n := len(axis)
	if days < n {
		n = days
	}

	out := make([]ForecastDay, 0, n)
	for i := 0; i < n; i++ {
		date, err := parseJMATime(axis[i])
		if err != nil {
			logger.Warn("skipping forecast day with malformed date", "index", i, "value", axis[i])
			continue
		}

		wa := weatherPop.Areas[0]
		code := stringAt(wa.WeatherCodes, i)
		day := ForecastDay{
			Date:                     date,
			WeatherCode:              code,
			WeatherText:              WeatherCodeText(code),
			PrecipProbabilityPercent: safeInt(stringAt(wa.Pops, i)),
			Reliability:              stringAt(wa.Reliabilities, i),
		}

		if temps != nil && len(temps.Areas) > 0 {
			ta := temps.Areas[0]
			day.TempMinCelsius = floatAt(ta.TempsMin, i)
			day.TempMaxCelsius = floatAt(ta.TempsMax, i)
			day.TempMinRange = TempRange{
				Lower: floatAt(ta.TempsMinLower, i),
				Upper: floatAt(ta.TempsMinUpper, i),
			}
			day.TempMaxRange = TempRange{
				Lower: floatAt(ta.TempsMaxLower, i),
				Upper: floatAt(ta.TempsMaxUpper, i),
			}
		}

		// Upstream rarely publishes min above max; keep the day but flag it.
		if day.TempMinCelsius != nil && day.TempMaxCelsius != nil && *day.TempMinCelsius > *day.TempMaxCelsius {
			logger.Warn("temperature range inverted",
				"date", axis[i],
				"temp_min", *day.TempMinCelsius,
				"temp_max", *day.TempMaxCelsius,
			)
		}

		out = append(out, day)
	}
	return out, nil
}

// WarningSeverity classifies a warning by the markers in its name, falling
// back to its code when the name is empty: 特別警報/special and 警報/warning
// rank high, 注意報/advisory ranks medium, anything else low.
func WarningSeverity(name, code string) Severity {
	kind := name
	if kind == "" {
		kind = code
	}
	k := strings.ToLower(kind)
	switch {
	case strings.Contains(k, "特別警報"), strings.Contains(k, "special"):
		return SeverityHigh
	case strings.Contains(k, "警報"), strings.Contains(k, "warning"):
		return SeverityHigh
	case strings.Contains(k, "注意報"), strings.Contains(k, "advisory"):
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// NormalizeAlerts extracts the active warnings from a warning document.
// Blocks or entries that do not match the expected shape are skipped, and
// lifted warnings (解除) are dropped. Results are ordered by descending
// severity, then title, then area code.
func NormalizeAlerts(data []byte, areaCode string) ([]Alert, error) {
	var blocks map[string]json.RawMessage
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("warning document: %v: %w", err, ErrParse)
	}

	var alerts []Alert
	for blockKind, raw := range blocks {
		var block WarningBlock
		if err := json.Unmarshal(raw, &block); err != nil {
			continue
		}

		issuedAt := clock.Now()
		if t, err := parseJMATime(block.ReportDatetime); err == nil {
			issuedAt = t
		}

		for areaKey, area := range block.Areas {
			affected := areaCode
			if ValidAreaCode(areaKey) {
				affected = areaKey
			}
			for _, w := range area.Warnings {
				if w.Status == warningStatusLifted {
					continue
				}
				title := w.Name
				if title == "" {
					title = blockKind
				}
				alerts = append(alerts, Alert{
					Title:       title,
					Description: w.Status,
					Severity:    WarningSeverity(w.Name, w.Code),
					IssuedAt:    issuedAt,
					AreaCodes:   []string{affected},
				})
			}
		}
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Severity != alerts[j].Severity {
			return alerts[i].Severity > alerts[j].Severity
		}
		if alerts[i].Title != alerts[j].Title {
			return alerts[i].Title < alerts[j].Title
		}
		return alerts[i].AreaCodes[0] < alerts[j].AreaCodes[0]
	})
	return alerts, nil
}
