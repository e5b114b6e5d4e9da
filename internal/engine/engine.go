package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/kumoribot/jma-weather/internal/domain"
	"github.com/kumoribot/jma-weather/internal/observability"
)

// Upstream is the slice of the bosai client the engine depends on.
type Upstream interface {
	FetchAreaDocument(ctx context.Context) ([]byte, error)
	FetchContents(ctx context.Context) ([]byte, error)
	FetchForecast(ctx context.Context, areaCode string) ([]byte, error)
	FetchWarnings(ctx context.Context, areaCode string) ([]byte, error)
}

// Engine answers weather queries over a lazily loaded area directory. All
// methods are safe for concurrent use.
type Engine struct {
	upstream Upstream
	logger   *slog.Logger
	metrics  *observability.Metrics
	cities   *domain.CityResolver

	mu        sync.Mutex
	directory map[string]domain.AreaInfo
}

// New creates an engine; the area directory loads on first use.
func New(upstream Upstream, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		upstream: upstream,
		logger:   logger,
		metrics:  metrics,
		cities:   domain.NewCityResolver(),
	}
}

// areaDirectory returns the loaded directory, fetching it on first use.
func (e *Engine) areaDirectory(ctx context.Context) (map[string]domain.AreaInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.directory == nil {
		if err := e.loadDirectoryLocked(ctx); err != nil {
			return nil, err
		}
	}
	return e.directory, nil
}

func (e *Engine) loadDirectoryLocked(ctx context.Context) error {
	data, err := e.upstream.FetchAreaDocument(ctx)
	if err != nil {
		return fmt.Errorf("load area directory: %w", err)
	}
	dir, err := domain.ParseAreaDocument(data)
	if err != nil {
		return fmt.Errorf("load area directory: %w", err)
	}

	e.directory = dir
	e.metrics.AreaDirectorySize.Set(float64(len(dir)))
	e.metrics.EngineReady.Set(1)
	e.logger.Info("area directory loaded", "entries", len(dir))
	return nil
}

// RefreshAreas reloads the area directory. The transport cache still
// applies, so a refresh inside the cache TTL re-reads the cached document.
func (e *Engine) RefreshAreas(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadDirectoryLocked(ctx)
}

// CheckReadiness reports whether the engine can serve queries.
func (e *Engine) CheckReadiness(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.directory == nil {
		return errors.New("area directory not loaded yet")
	}
	return nil
}

func (e *Engine) resolveTarget(ctx context.Context, input string) (string, error) {
	dir, err := e.areaDirectory(ctx)
	if err != nil {
		return "", err
	}
	return domain.ResolveAreaTarget(dir, input)
}

// CurrentWeather returns the latest published conditions for an area code
// or name.
func (e *Engine) CurrentWeather(ctx context.Context, area string) (domain.CurrentWeather, error) {
	code, err := e.resolveTarget(ctx, area)
	if err != nil {
		return domain.CurrentWeather{}, err
	}

	data, err := e.upstream.FetchForecast(ctx, code)
	if err != nil {
		return domain.CurrentWeather{}, fmt.Errorf("current weather %s: %w", code, err)
	}
	cw, err := domain.NormalizeCurrentWeather(data, code)
	if err != nil {
		return domain.CurrentWeather{}, fmt.Errorf("current weather %s: %w", code, err)
	}
	return cw, nil
}

// Forecast returns up to days daily entries for an area code or name.
// Out-of-range day counts fall back to the seven-day maximum.
func (e *Engine) Forecast(ctx context.Context, area string, days int) ([]domain.ForecastDay, error) {
	if days > domain.MaxForecastDays {
		e.logger.Warn("forecast days capped", "requested", days, "max", domain.MaxForecastDays)
		days = domain.MaxForecastDays
	}
	if days <= 0 {
		days = domain.MaxForecastDays
	}

	code, err := e.resolveTarget(ctx, area)
	if err != nil {
		return nil, err
	}

	data, err := e.upstream.FetchForecast(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", code, err)
	}
	forecast, err := domain.NormalizeForecast(data, days, e.logger)
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", code, err)
	}
	return forecast, nil
}

// Alerts returns the active warnings for an area code or name. An area
// without a warning document has no alerts.
func (e *Engine) Alerts(ctx context.Context, area string) ([]domain.Alert, error) {
	code, err := e.resolveTarget(ctx, area)
	if err != nil {
		return nil, err
	}

	data, err := e.upstream.FetchWarnings(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		e.logger.Info("no warning document for area", "area_code", code)
		return []domain.Alert{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("alerts %s: %w", code, err)
	}

	alerts, err := domain.NormalizeAlerts(data, code)
	if err != nil {
		return nil, fmt.Errorf("alerts %s: %w", code, err)
	}
	return alerts, nil
}

// Resolve maps an area code or free-text name onto a registered code.
func (e *Engine) Resolve(ctx context.Context, input string) (string, error) {
	return e.resolveTarget(ctx, input)
}

// Search returns directory entries matching the query, best first.
func (e *Engine) Search(ctx context.Context, query string) ([]domain.AreaInfo, error) {
	dir, err := e.areaDirectory(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SearchAreas(dir, query), nil
}

// Regions returns the canonical region list in display order.
func (e *Engine) Regions() []domain.Region {
	return domain.Regions()
}

// ResolveCity maps a city name onto a directory code via the curated
// override chain.
func (e *Engine) ResolveCity(ctx context.Context, name string) (string, error) {
	dir, err := e.areaDirectory(ctx)
	if err != nil {
		return "", err
	}

	code, source, ok := e.cities.ResolveCity(name, dir)
	e.metrics.CityResolutions.WithLabelValues(source).Inc()
	if !ok {
		return "", fmt.Errorf("no area code for city %q: %w", name, domain.ErrNotFound)
	}
	return code, nil
}

// MajorCities resolves the curated city list against the live directory
// and groups it by region. Unresolvable cities are logged and omitted.
func (e *Engine) MajorCities(ctx context.Context) ([]domain.CityGroup, error) {
	dir, err := e.areaDirectory(ctx)
	if err != nil {
		return nil, err
	}

	byRegion := make(map[string][]domain.MajorCity)
	for _, city := range domain.CuratedCities() {
		code, source, ok := e.cities.ResolveCity(city.Name, dir)
		e.metrics.CityResolutions.WithLabelValues(source).Inc()
		if !ok {
			e.logger.Warn("major city not resolvable", "city", city.Name, "prefecture", city.Prefecture)
			continue
		}

		region, ok := domain.RegionOfPrefecture(city.Prefecture)
		if !ok {
			e.logger.Warn("major city prefecture has no region", "city", city.Name, "prefecture", city.Prefecture)
			continue
		}

		byRegion[region] = append(byRegion[region], domain.MajorCity{
			Code:       code,
			Name:       city.Name,
			EnName:     city.EnName,
			Kana:       city.Kana,
			Parent:     dir[code].Parent,
			Prefecture: city.Prefecture,
			Region:     region,
		})
	}

	var groups []domain.CityGroup
	for _, region := range domain.Regions() {
		cities := byRegion[region.Code]
		if len(cities) == 0 {
			continue
		}
		sort.Slice(cities, func(i, j int) bool { return cities[i].Name < cities[j].Name })
		groups = append(groups, domain.CityGroup{Region: region, Cities: cities})
	}
	return groups, nil
}

// CitiesByRegion returns the resolved curated cities for one region.
func (e *Engine) CitiesByRegion(ctx context.Context, regionCode string) (domain.CityGroup, error) {
	region, ok := domain.RegionByCode(regionCode)
	if !ok {
		return domain.CityGroup{}, fmt.Errorf("unknown region %q: %w", regionCode, domain.ErrNotFound)
	}

	groups, err := e.MajorCities(ctx)
	if err != nil {
		return domain.CityGroup{}, err
	}
	for _, g := range groups {
		if g.Region.Code == region.Code {
			return g, nil
		}
	}
	return domain.CityGroup{Region: region}, nil
}

// Contents fetches the raw contents listing, a cheap upstream health probe.
func (e *Engine) Contents(ctx context.Context) ([]byte, error) {
	data, err := e.upstream.FetchContents(ctx)
	if err != nil {
		return nil, fmt.Errorf("contents: %w", err)
	}
	return data, nil
}
