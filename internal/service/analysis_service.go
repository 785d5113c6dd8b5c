package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/urbansense/siteimpact/internal/config"
	"github.com/urbansense/siteimpact/internal/models"
	"github.com/urbansense/siteimpact/internal/osm"
	"github.com/urbansense/siteimpact/internal/repository"
	"github.com/urbansense/siteimpact/internal/roadnet"
	"github.com/urbansense/siteimpact/internal/sensors"
	"github.com/urbansense/siteimpact/internal/spatial"
	"github.com/urbansense/siteimpact/internal/timeseries"
	"github.com/urbansense/siteimpact/internal/uoapi"
)

// journeyTimeVariable is the traffic variable decomposed and used for
// scenario-date selection.
const journeyTimeVariable = "Journey Time"

// boundaryMarginDeg pads the street-network bounding box so links near the
// boundary edge can still route.
const boundaryMarginDeg = 0.01

// Result bundles everything one pipeline execution produces for the
// plotting/export collaborator.
type Result struct {
	RunID         string                          `json:"run_id"`
	Boundary      spatial.Polygon                 `json:"boundary"`
	Sensors       []models.SensorLocation         `json:"sensors"`
	AirSensors    []string                        `json:"air_sensors"`
	VehicleIDs    []string                        `json:"vehicle_sensors"`
	Roads         []models.RoadGeometry           `json:"roads"`
	RouteReport   models.RouteReport              `json:"route_report"`
	Cleaned       *timeseries.WideSeries          `json:"-"`
	CleanReport   models.CleanReport              `json:"clean_report"`
	Correlation   *timeseries.CorrelationMatrix   `json:"correlation"`
	Decomposition *timeseries.DecompositionResult `json:"-"`
	Scenario      models.ScenarioDates            `json:"scenario"`
	FailedSensors []string                        `json:"failed_sensors,omitempty"`
}

// AnalysisService runs the site-impact pipeline: fetch, spatial resolution,
// resampling, cleaning, correlation and decomposition. Every stage returns a
// new structure; intermediate tables are never mutated in place, so results
// can be reused across branches.
type AnalysisService struct {
	cfg      *config.Config
	source   uoapi.SensorDataSource
	streets  StreetSource
	readings *repository.ReadingsRepository
	runs     *repository.RunsRepository

	archiveOnly bool
}

// StreetSource provides the routable street network for a bounding box.
type StreetSource interface {
	FetchStreetNetwork(ctx context.Context, minLat, minLon, maxLat, maxLon float64) (*osm.StreetNetwork, error)
}

// NewAnalysisService creates a new analysis service. The repositories may be
// nil to run without the local archive cache.
func NewAnalysisService(cfg *config.Config, source uoapi.SensorDataSource, streets StreetSource, readings *repository.ReadingsRepository, runs *repository.RunsRepository) *AnalysisService {
	return &AnalysisService{
		cfg:      cfg,
		source:   source,
		streets:  streets,
		readings: readings,
		runs:     runs,
	}
}

// UseArchiveOnly makes the pipeline read time series from the local archive
// instead of the live API. Sensor metadata and the street network are still
// fetched upstream.
func (s *AnalysisService) UseArchiveOnly() {
	s.archiveOnly = true
}

// Run executes the full pipeline for the configured area and site.
func (s *AnalysisService) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	if s.runs != nil {
		id, err := s.runs.Start(s.cfg.Geo.AreaOfInterest)
		if err != nil {
			return nil, err
		}
		result.RunID = id
	}

	if err := s.resolveSensors(ctx, result); err != nil {
		return nil, err
	}
	if err := s.resolveRoads(ctx, result); err != nil {
		return nil, err
	}

	air, traffic, failed, err := s.fetchReadings(ctx, result)
	if err != nil {
		return nil, err
	}
	result.FailedSensors = failed

	if err := s.analyzeTimeseries(air, traffic, result); err != nil {
		return nil, err
	}

	if s.runs != nil {
		contributing := len(result.AirSensors) + len(result.VehicleIDs) - len(failed)
		if err := s.runs.Finish(result.RunID, contributing, failed); err != nil {
			log.Printf("recording run finish failed: %v", err)
		}
	}

	return result, nil
}

// resolveSensors fetches sensor metadata, restricts it to the boundary and
// the configured brokers, and picks the nearest sensors to the site.
func (s *AnalysisService) resolveSensors(ctx context.Context, result *Result) error {
	boundary, err := s.source.FetchBoundary(ctx, s.cfg.Geo.AreaOfInterest)
	if err != nil {
		return err
	}
	result.Boundary = boundary

	all, err := s.source.FetchSensorLocations(ctx)
	if err != nil {
		return err
	}

	within := sensors.FilterWithinBoundary(all, boundary)
	relevant := sensors.FilterByBroker(within, s.cfg.Brokers())
	result.Sensors = sensors.ClassifyAll(relevant)

	site := spatial.Point{Lon: s.cfg.Geo.SiteLon, Lat: s.cfg.Geo.SiteLat}
	crs := s.planarCRS()

	result.AirSensors, err = sensors.FindClosest(result.Sensors, site, []string{s.cfg.AirQualityBroker}, crs, s.cfg.AirSensorCount)
	if err != nil {
		return fmt.Errorf("air quality sensors: %w", err)
	}

	result.VehicleIDs, err = sensors.FindClosest(result.Sensors, site, []string{s.cfg.TrafficBroker}, crs, s.cfg.VehicleCount)
	if err != nil {
		return fmt.Errorf("vehicle sensors: %w", err)
	}

	return nil
}

// resolveRoads snaps the vehicle sensor links onto the street network. The
// street graph is fetched and built once and shared across all links.
func (s *AnalysisService) resolveRoads(ctx context.Context, result *Result) error {
	links, err := s.source.FetchRoadLinks(ctx, result.VehicleIDs)
	if err != nil {
		return err
	}

	minLon, minLat, maxLon, maxLat := result.Boundary.BoundingBox()
	net, err := s.streets.FetchStreetNetwork(ctx,
		minLat-boundaryMarginDeg, minLon-boundaryMarginDeg,
		maxLat+boundaryMarginDeg, maxLon+boundaryMarginDeg)
	if err != nil {
		return fmt.Errorf("street network: %w", err)
	}

	graph := roadnet.BuildGraph(net, s.planarCRS())
	result.Roads, result.RouteReport = roadnet.RouteLinks(graph, links)

	log.Printf("routed %d road links, %d fallbacks", result.RouteReport.Routed, len(result.RouteReport.Fallbacks))
	return nil
}

// fetchReadings pulls time series for the selected sensors. A sensor whose
// fetch fails is skipped and surfaced in the failed list; only losing every
// sensor aborts the run.
func (s *AnalysisService) fetchReadings(ctx context.Context, result *Result) (air, traffic []models.SensorReading, failed []string, err error) {
	start := s.cfg.DataStart
	end := time.Now().UTC()

	if s.archiveOnly {
		air, traffic, err = s.loadArchived(result, start, end)
		return air, traffic, nil, err
	}

	air, airFailed := s.fetchGroup(ctx, result.AirSensors, start, end)
	traffic, trafficFailed := s.fetchGroup(ctx, result.VehicleIDs, start, end)

	failed = append(airFailed, trafficFailed...)
	total := len(result.AirSensors) + len(result.VehicleIDs)
	if total > 0 && len(failed) == total {
		return nil, nil, failed, fmt.Errorf("all %d sensor fetches failed", total)
	}

	if s.readings != nil {
		if err := s.readings.Upsert(air); err != nil {
			log.Printf("archiving air readings failed: %v", err)
		}
		if err := s.readings.Upsert(traffic); err != nil {
			log.Printf("archiving traffic readings failed: %v", err)
		}
	}

	return air, traffic, failed, nil
}

// loadArchived replays previously stored readings, split back into the air
// and traffic groups by sensor membership.
func (s *AnalysisService) loadArchived(result *Result, start, end time.Time) (air, traffic []models.SensorReading, err error) {
	if s.readings == nil {
		return nil, nil, fmt.Errorf("archive mode requires a readings repository")
	}

	ids := append(append([]string{}, result.AirSensors...), result.VehicleIDs...)
	all, err := s.readings.Load(ids, start, end)
	if err != nil {
		return nil, nil, err
	}

	airSet := make(map[string]bool, len(result.AirSensors))
	for _, id := range result.AirSensors {
		airSet[id] = true
	}
	for _, r := range all {
		if airSet[r.SensorID] {
			air = append(air, r)
		} else {
			traffic = append(traffic, r)
		}
	}
	return air, traffic, nil
}

func (s *AnalysisService) fetchGroup(ctx context.Context, ids []string, start, end time.Time) ([]models.SensorReading, []string) {
	var out []models.SensorReading
	var failed []string
	for _, id := range ids {
		readings, err := s.source.FetchTimeseries(ctx, id, start, end)
		if err != nil {
			log.Printf("timeseries fetch failed for sensor %s: %v", id, err)
			failed = append(failed, id)
			continue
		}
		out = append(out, readings...)
	}
	return out, failed
}

// analyzeTimeseries resamples, pivots, cleans, correlates and decomposes the
// fetched readings.
func (s *AnalysisService) analyzeTimeseries(air, traffic []models.SensorReading, result *Result) error {
	end := time.Now().UTC()

	airWide, err := timeseries.ToWide(timeseries.Resample(air, s.cfg.ResampleFreq))
	if err != nil {
		return fmt.Errorf("pivot air readings: %w", err)
	}
	trafficWide, err := timeseries.ToWide(timeseries.Resample(traffic, s.cfg.ResampleFreq))
	if err != nil {
		return fmt.Errorf("pivot traffic readings: %w", err)
	}

	combined, err := airWide.Slice(s.cfg.DataStart, end).Join(trafficWide.Slice(s.cfg.DataStart, end))
	if err != nil {
		return fmt.Errorf("combine series: %w", err)
	}

	cleaned, report, err := timeseries.Clean(combined, s.cfg.ResampleFreq, s.cfg.MaxGapBuckets)
	if err != nil {
		return err
	}
	result.Cleaned = cleaned
	result.CleanReport = report

	result.Correlation = timeseries.Correlate(cleaned)

	column, ok := s.journeyTimeColumn(cleaned, result.VehicleIDs)
	if !ok {
		log.Printf("no %s column present; skipping decomposition", journeyTimeVariable)
		return nil
	}

	values, _ := cleaned.Column(column)
	decomposed, err := timeseries.Decompose(cleaned.Index, values, timeseries.DefaultPeriods)
	if err != nil {
		return fmt.Errorf("decompose %s: %w", column, err)
	}
	result.Decomposition = decomposed

	scenario, err := timeseries.ScenarioDates(cleaned, journeyTimeVariable)
	if err != nil {
		return fmt.Errorf("scenario dates: %w", err)
	}
	result.Scenario = scenario

	return nil
}

// journeyTimeColumn picks the journey-time column of the closest vehicle
// sensor that has one.
func (s *AnalysisService) journeyTimeColumn(w *timeseries.WideSeries, vehicleIDs []string) (string, bool) {
	for _, id := range vehicleIDs {
		name := timeseries.ColumnName(id, journeyTimeVariable)
		if _, ok := w.Column(name); ok {
			return name, true
		}
	}
	return "", false
}

func (s *AnalysisService) planarCRS() spatial.PlanarCRS {
	return spatial.NewPlanarCRS(spatial.Point{
		Lon: s.cfg.Geo.PlanarOriginLon,
		Lat: s.cfg.Geo.PlanarOriginLat,
	})
}
