// Command weatherctl queries Japan Meteorological Agency forecasts and
// warnings from the command line.
//
// Usage:
//
//	weatherctl [-json] [-diag :9090] current 東京
//	weatherctl forecast -days 3 大阪
//	weatherctl alerts 130000
//	weatherctl check
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kumoribot/jma-weather/internal/config"
	"github.com/kumoribot/jma-weather/internal/domain"
	"github.com/kumoribot/jma-weather/internal/engine"
	"github.com/kumoribot/jma-weather/internal/httpserv"
	"github.com/kumoribot/jma-weather/internal/jma"
	"github.com/kumoribot/jma-weather/internal/observability"
)

func main() {
	// Load .env if present; absence is fine outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	jsonOut := flag.Bool("json", false, "print machine-readable JSON")
	diagAddr := flag.String("diag", "", "serve /healthz /readyz /metrics on this address while running")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	client := jma.NewClient(cfg, logger, metrics, nil)
	eng := engine.New(client, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpserv.Server
	if *diagAddr != "" {
		srv = httpserv.NewServer(*diagAddr, eng, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("diagnostics server error", "error", err)
			}
		}()
	}

	code := run(ctx, eng, *jsonOut, args)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("diagnostics server shutdown error", "error", err)
		}
	}
	if code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, eng *engine.Engine, jsonOut bool, args []string) int {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "current":
		return cmdCurrent(ctx, eng, jsonOut, rest)
	case "forecast":
		return cmdForecast(ctx, eng, jsonOut, rest)
	case "alerts":
		return cmdAlerts(ctx, eng, jsonOut, rest)
	case "cities":
		return cmdCities(ctx, eng, jsonOut, rest)
	case "regions":
		return cmdRegions(eng, jsonOut)
	case "search":
		return cmdSearch(ctx, eng, jsonOut, rest)
	case "resolve":
		return cmdResolve(ctx, eng, jsonOut, rest)
	case "check":
		return cmdCheck(ctx, eng, jsonOut)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		return 2
	}
}

func cmdCurrent(ctx context.Context, eng *engine.Engine, jsonOut bool, args []string) int {
	area, ok := joinArgs(args, "usage: weatherctl current <area>")
	if !ok {
		return 2
	}

	cw, err := eng.CurrentWeather(ctx, area)
	if err != nil {
		return fail(err)
	}
	if jsonOut {
		return printJSON(cw)
	}

	fmt.Printf("%s (%s)\n", cw.AreaName, cw.AreaCode)
	fmt.Printf("  %s", cw.WeatherText)
	if cw.TemperatureCelsius != nil {
		fmt.Printf("  %.1f°C", *cw.TemperatureCelsius)
	}
	fmt.Printf("  precip %d%%\n", cw.PrecipProbabilityPercent)
	if cw.Wind != "" {
		fmt.Printf("  wind: %s\n", cw.Wind)
	}
	if cw.Wave != "" {
		fmt.Printf("  waves: %s\n", cw.Wave)
	}
	fmt.Printf("  published: %s\n", cw.PublishedAt.Format("2006-01-02 15:04 MST"))
	return 0
}

func cmdForecast(ctx context.Context, eng *engine.Engine, jsonOut bool, args []string) int {
	fs := flag.NewFlagSet("forecast", flag.ContinueOnError)
	days := fs.Int("days", domain.MaxForecastDays, "number of days (1-7)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	area, ok := joinArgs(fs.Args(), "usage: weatherctl forecast [-days N] <area>")
	if !ok {
		return 2
	}

	forecast, err := eng.Forecast(ctx, area, *days)
	if err != nil {
		return fail(err)
	}
	if jsonOut {
		return printJSON(forecast)
	}

	for _, d := range forecast {
		fmt.Printf("%s  %s", d.Date.Format("2006-01-02"), d.WeatherText)
		switch {
		case d.TempMinCelsius != nil && d.TempMaxCelsius != nil:
			fmt.Printf("  %g~%g°C", *d.TempMinCelsius, *d.TempMaxCelsius)
		case d.TempMaxCelsius != nil:
			fmt.Printf("  max %g°C", *d.TempMaxCelsius)
		}
		fmt.Printf("  precip %d%%", d.PrecipProbabilityPercent)
		if d.Reliability != "" {
			fmt.Printf("  [%s]", d.Reliability)
		}
		fmt.Println()
	}
	return 0
}

func cmdAlerts(ctx context.Context, eng *engine.Engine, jsonOut bool, args []string) int {
	area, ok := joinArgs(args, "usage: weatherctl alerts <area>")
	if !ok {
		return 2
	}

	alerts, err := eng.Alerts(ctx, area)
	if err != nil {
		return fail(err)
	}
	if jsonOut {
		return printJSON(alerts)
	}

	if len(alerts) == 0 {
		fmt.Println("no active alerts")
		return 0
	}
	for _, a := range alerts {
		fmt.Printf("[%s] %s", a.Severity, a.Title)
		if a.Description != "" {
			fmt.Printf(" (%s)", a.Description)
		}
		fmt.Printf("  areas: %s  issued: %s\n",
			strings.Join(a.AreaCodes, ","), a.IssuedAt.Format("2006-01-02 15:04 MST"))
	}
	return 0
}

func cmdCities(ctx context.Context, eng *engine.Engine, jsonOut bool, args []string) int {
	fs := flag.NewFlagSet("cities", flag.ContinueOnError)
	region := fs.String("region", "", "limit to one region code (e.g. kanto)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var groups []domain.CityGroup
	if *region != "" {
		group, err := eng.CitiesByRegion(ctx, *region)
		if err != nil {
			return fail(err)
		}
		groups = []domain.CityGroup{group}
	} else {
		var err error
		groups, err = eng.MajorCities(ctx)
		if err != nil {
			return fail(err)
		}
	}

	if jsonOut {
		return printJSON(groups)
	}
	for _, g := range groups {
		fmt.Printf("%s (%s)\n", g.Region.Name, g.Region.Code)
		for _, c := range g.Cities {
			fmt.Printf("  %s  %s  %s\n", c.Code, c.Name, c.EnName)
		}
	}
	return 0
}

func cmdRegions(eng *engine.Engine, jsonOut bool) int {
	regions := eng.Regions()
	if jsonOut {
		return printJSON(regions)
	}
	for _, r := range regions {
		fmt.Printf("%-10s %s  %s\n", r.Code, r.Name, r.EnName)
	}
	return 0
}

func cmdSearch(ctx context.Context, eng *engine.Engine, jsonOut bool, args []string) int {
	query, ok := joinArgs(args, "usage: weatherctl search <query>")
	if !ok {
		return 2
	}

	hits, err := eng.Search(ctx, query)
	if err != nil {
		return fail(err)
	}
	if jsonOut {
		return printJSON(hits)
	}

	if len(hits) == 0 {
		fmt.Println("no matches")
		return 0
	}
	for _, h := range hits {
		fmt.Printf("%s  %s", h.Code, h.Name)
		if h.EnName != "" {
			fmt.Printf("  %s", h.EnName)
		}
		if h.Kana != "" {
			fmt.Printf("  (%s)", h.Kana)
		}
		fmt.Println()
	}
	return 0
}

func cmdResolve(ctx context.Context, eng *engine.Engine, jsonOut bool, args []string) int {
	input, ok := joinArgs(args, "usage: weatherctl resolve <code or name>")
	if !ok {
		return 2
	}

	code, err := eng.Resolve(ctx, input)
	if err != nil {
		return fail(err)
	}
	if jsonOut {
		return printJSON(map[string]string{"input": input, "area_code": code})
	}
	fmt.Println(code)
	return 0
}

func cmdCheck(ctx context.Context, eng *engine.Engine, jsonOut bool) int {
	data, err := eng.Contents(ctx)
	if err != nil {
		if jsonOut {
			printJSON(map[string]string{"status": "unreachable", "error": err.Error()})
		} else {
			fmt.Fprintln(os.Stderr, "upstream check failed:", err)
		}
		return 1
	}

	if jsonOut {
		return printJSON(map[string]any{"status": "ok", "bytes": len(data)})
	}
	fmt.Printf("upstream reachable (%d bytes of contents metadata)\n", len(data))
	return 0
}

// joinArgs rebuilds a positional argument that may contain spaces.
func joinArgs(args []string, usageLine string) (string, bool) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usageLine)
		return "", false
	}
	return strings.Join(args, " "), true
}

func printJSON(v any) int {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: encode output:", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

func fail(err error) int {
	fmt.Fprintln(os.Stderr, "error:", err)
	return 1
}

func usage() {
	fmt.Fprintf(os.Stderr, `weatherctl queries Japan Meteorological Agency forecasts and warnings.

Usage:

  weatherctl [-json] [-diag addr] <command> [arguments]

Commands:

  current <area>             latest published conditions for an area code or name
  forecast [-days N] <area>  weekly forecast (default %d days)
  alerts <area>              active warnings and advisories
  cities [-region code]      curated major cities grouped by region
  regions                    the eight region codes
  search <query>             find area codes by name, kana, or romaji
  resolve <input>            map a code or name onto a registered area code
  check                      probe the upstream contents endpoint

Flags:

`, domain.MaxForecastDays)
	flag.PrintDefaults()
}
