// Command jmamock serves deterministic JMA-shaped fixtures for offline
// development. Fixtures are built from the same wire types the client
// decodes, so the mock stays honest about document shape.
//
// Usage:
//
//	go run ./cmd/jmamock -addr :8089
//	JMA_BASE_URL=http://localhost:8089 weatherctl current 東京
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kumoribot/jma-weather/internal/domain"
)

var jst = time.FixedZone("JST", 9*60*60)

// baseDate pins every fixture timestamp for reproducible output.
var baseDate = time.Date(2026, time.March, 5, 11, 0, 0, 0, jst)

func main() {
	// Load .env if present; absence is fine outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	addr := flag.String("addr", envOr("MOCK_ADDR", ":8089"), "listen address")
	latency := flag.Duration("latency", 0, "artificial delay added to every response")
	failRate := flag.Float64("fail-rate", 0, "probability (0-1) of responding 500")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	srv, err := newMockServer(*latency, *failRate, logger)
	if err != nil {
		logger.Error("failed to build fixtures", "error", err)
		os.Exit(1)
	}

	logger.Info("jma mock listening", "addr", *addr, "latency", *latency, "fail_rate", *failRate)
	if err := http.ListenAndServe(*addr, srv); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type mockServer struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	latency  time.Duration
	failRate float64

	areaDoc   []byte
	contents  []byte
	forecasts map[string][]byte
	warnings  map[string][]byte
}

func newMockServer(latency time.Duration, failRate float64, logger *slog.Logger) (*mockServer, error) {
	s := &mockServer{
		mux:      http.NewServeMux(),
		logger:   logger,
		latency:  latency,
		failRate: failRate,
	}
	if err := s.buildFixtures(); err != nil {
		return nil, err
	}

	s.mux.HandleFunc("GET /common/const/area.json", s.serveDoc(s.areaDoc))
	s.mux.HandleFunc("GET /common/const/contents.json", s.serveDoc(s.contents))
	s.mux.HandleFunc("GET /forecast/data/forecast/{file}", s.handleForecast)
	s.mux.HandleFunc("GET /warning/data/warning/{file}", s.handleWarning)
	return s, nil
}

// ServeHTTP applies the fault injection flags before routing.
func (s *mockServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
	if s.failRate > 0 && rand.Float64() < s.failRate {
		s.logger.Warn("injecting failure", "path", r.URL.Path)
		http.Error(w, `{"error":"injected failure"}`, http.StatusInternalServerError)
		return
	}
	s.logger.Info("request", "method", r.Method, "path", r.URL.Path)
	s.mux.ServeHTTP(w, r)
}

func (s *mockServer) serveDoc(doc []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(doc) //nolint:errcheck // fixture write, nothing to recover
	}
}

func (s *mockServer) handleForecast(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSuffix(r.PathValue("file"), ".json")
	doc, ok := s.forecasts[code]
	if !ok {
		s.notFound(w, code)
		return
	}
	s.serveDoc(doc)(w, r)
}

func (s *mockServer) handleWarning(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSuffix(r.PathValue("file"), ".json")
	doc, ok := s.warnings[code]
	if !ok {
		s.notFound(w, code)
		return
	}
	s.serveDoc(doc)(w, r)
}

func (s *mockServer) notFound(w http.ResponseWriter, code string) {
	s.logger.Info("no fixture", "code", code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, `{"error":"no fixture for %s"}`, code)
}

func (s *mockServer) buildFixtures() error {
	var err error
	if s.areaDoc, err = json.Marshal(areaFixture()); err != nil {
		return fmt.Errorf("area fixture: %w", err)
	}
	if s.contents, err = json.Marshal(map[string]string{
		"mock":      "jmamock",
		"generated": baseDate.Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("contents fixture: %w", err)
	}

	s.forecasts = make(map[string][]byte)
	for code, doc := range forecastFixtures() {
		if s.forecasts[code], err = json.Marshal(doc); err != nil {
			return fmt.Errorf("forecast fixture %s: %w", code, err)
		}
	}

	s.warnings = make(map[string][]byte)
	for code, doc := range warningFixtures() {
		if s.warnings[code], err = json.Marshal(doc); err != nil {
			return fmt.Errorf("warning fixture %s: %w", code, err)
		}
	}
	return nil
}

func areaFixture() map[string]map[string]domain.AreaEntry {
	return map[string]map[string]domain.AreaEntry{
		"centers": {
			"010100": {Name: "北海道地方", EnName: "Hokkaido"},
			"010300": {Name: "関東甲信地方", EnName: "Kanto Koshin"},
			"010600": {Name: "近畿地方", EnName: "Kinki"},
		},
		"offices": {
			"016000": {Name: "石狩・空知・後志地方", EnName: "Ishikari Sorachi Shiribeshi", Parent: "010100"},
			"130000": {Name: "東京都", EnName: "Tokyo", Parent: "010300"},
			"270000": {Name: "大阪府", EnName: "Osaka", Parent: "010600"},
		},
		"class10s": {
			"016010": {Name: "石狩地方", EnName: "Ishikari", Parent: "016000"},
			"130010": {Name: "東京地方", EnName: "Tokyo", Parent: "130000"},
		},
		"class20s": {
			"1310100": {Name: "千代田区", EnName: "Chiyoda City", Kana: "ちよだく", Parent: "130010"},
		},
	}
}

func forecastFixtures() map[string]domain.ForecastDocument {
	return map[string]domain.ForecastDocument{
		"130000": forecastDoc("東京地方", "130010", "東京", "44132", "12.4"),
		"270000": forecastDoc("大阪府", "270000", "大阪", "62078", "14.0"),
		"016000": forecastDoc("石狩地方", "016010", "札幌", "14163", "1.5"),
	}
}

// forecastDoc builds the usual two report blocks: today's conditions and a
// seven day weekly series.
func forecastDoc(className, classCode, cityName, cityCode, temp string) domain.ForecastDocument {
	report := baseDate.Format(time.RFC3339)

	week := make([]string, domain.MaxForecastDays)
	day0 := time.Date(2026, time.March, 5, 0, 0, 0, 0, jst)
	for i := range week {
		week[i] = day0.AddDate(0, 0, i).Format(time.RFC3339)
	}

	current := domain.ReportBlock{
		PublishingOffice: "気象庁",
		ReportDatetime:   report,
		TimeSeries: []domain.TimeSeries{
			{
				TimeDefines: []string{report},
				Areas: []domain.SeriesArea{{
					Area:         domain.AreaRef{Name: className, Code: classCode},
					WeatherCodes: []string{"201"},
					Weathers:     []string{"くもり時々晴れ"},
					Winds:        []string{"北の風"},
					Waves:        []string{"０．５メートル"},
					Pops:         []string{"20"},
				}},
			},
			{
				TimeDefines: []string{report},
				Areas: []domain.SeriesArea{{
					Area:  domain.AreaRef{Name: cityName, Code: cityCode},
					Temps: []string{temp},
				}},
			},
		},
	}

	weekly := domain.ReportBlock{
		PublishingOffice: "気象庁",
		ReportDatetime:   report,
		TimeSeries: []domain.TimeSeries{
			{
				TimeDefines: week,
				Areas: []domain.SeriesArea{{
					Area:          domain.AreaRef{Name: className, Code: classCode},
					WeatherCodes:  []string{"201", "101", "200", "201", "300", "101", "100"},
					Pops:          []string{"20", "10", "40", "30", "80", "10", "0"},
					Reliabilities: []string{"", "", "A", "A", "B", "B", "C"},
				}},
			},
			{
				TimeDefines: week,
				Areas: []domain.SeriesArea{{
					Area:          domain.AreaRef{Name: cityName, Code: cityCode},
					TempsMin:      []string{"", "4", "5", "3", "6", "4", "2"},
					TempsMinUpper: []string{"", "5", "6", "4", "8", "6", "4"},
					TempsMinLower: []string{"", "2", "3", "1", "4", "2", "0"},
					TempsMax:      []string{"12", "13", "11", "10", "14", "12", "9"},
					TempsMaxUpper: []string{"14", "15", "13", "12", "16", "14", "11"},
					TempsMaxLower: []string{"10", "11", "9", "8", "12", "10", "7"},
				}},
			},
		},
	}

	return domain.ForecastDocument{current, weekly}
}

func warningFixtures() map[string]map[string]any {
	report := baseDate.Add(-time.Hour).Format(time.RFC3339)

	return map[string]map[string]any{
		"130000": {
			"headlineText": "東京地方では、低い土地の浸水に警戒してください。",
			"warnings": domain.WarningBlock{
				ReportDatetime: report,
				Areas: map[string]domain.WarningArea{
					"130010": {Warnings: []domain.WarningItem{
						{Code: "03", Name: "大雨警報", Status: "発表"},
						{Code: "14", Name: "雷注意報", Status: "継続"},
						{Code: "15", Name: "乾燥注意報", Status: "解除"},
					}},
				},
			},
		},
		"016000": {
			"warnings": domain.WarningBlock{
				ReportDatetime: report,
				Areas: map[string]domain.WarningArea{
					"016010": {Warnings: []domain.WarningItem{
						{Code: "06", Name: "大雪注意報", Status: "継続"},
					}},
				},
			},
		},
	}
}
