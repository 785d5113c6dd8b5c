package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultUOBaseURL   = "https://api.v2.urbanobservatory.ac.uk"
	defaultBoundaryURL = "https://services1.arcgis.com/ESMARspQHYMw9BZ9/arcgis/rest/services/Local_Authority_Districts_December_2023_Boundaries_UK_BGC/FeatureServer/0/query"
	defaultOverpassURL = "https://overpass-api.de/api/interpreter"
)

// GeoConfig names the geographic constants of an analysis run instead of
// scattering them as literals: the boundary area, the proposed site, and the
// origin of the planar grid used for distance math. Geometry is stored in
// geographic (lon/lat, EPSG:4326-style) coordinates everywhere else.
type GeoConfig struct {
	AreaOfInterest  string
	SiteLat         float64
	SiteLon         float64
	PlanarOriginLat float64
	PlanarOriginLon float64
}

// Config holds runtime configuration for the analysis pipeline and viewer.
type Config struct {
	Port             string
	DBPath           string
	OutputDir        string
	UOBaseURL        string
	BoundaryURL      string
	OverpassURL      string
	AirQualityBroker string
	TrafficBroker    string
	AirSensorCount   int
	VehicleCount     int
	ResampleFreq     time.Duration
	MaxGapBuckets    int
	DataStart        time.Time
	Geo              GeoConfig
}

// Brokers lists the upstream feeds the pipeline keeps.
func (c *Config) Brokers() []string {
	return []string{c.TrafficBroker, c.AirQualityBroker}
}

// Load reads configuration from environment variables (optionally .env).
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Port:             getEnv("PORT", ":8080"),
		DBPath:           getEnv("DB_PATH", "./data/archive.db"),
		OutputDir:        getEnv("OUTPUT_DIR", "./outputs"),
		UOBaseURL:        getEnv("UO_BASE_URL", defaultUOBaseURL),
		BoundaryURL:      getEnv("BOUNDARY_URL", defaultBoundaryURL),
		OverpassURL:      getEnv("OVERPASS_URL", defaultOverpassURL),
		AirQualityBroker: getEnv("AIR_QUALITY_BROKER", "aq_mesh_api"),
		TrafficBroker:    getEnv("TRAFFIC_BROKER", "NE Travel Data API"),
		AirSensorCount:   30,
		VehicleCount:     20,
		ResampleFreq:     time.Hour,
		MaxGapBuckets:    6,
		Geo: GeoConfig{
			AreaOfInterest:  getEnv("AREA_OF_INTEREST", "Newcastle upon Tyne"),
			SiteLat:         54.981496,
			SiteLon:         -1.625129,
			PlanarOriginLat: 54.983,
			PlanarOriginLon: -1.6178,
		},
	}

	if v := strings.TrimSpace(os.Getenv("RESAMPLE_FREQ")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RESAMPLE_FREQ: %w", err)
		}
		cfg.ResampleFreq = d
	}

	if v := strings.TrimSpace(os.Getenv("MAX_GAP_BUCKETS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid MAX_GAP_BUCKETS: %q", v)
		}
		cfg.MaxGapBuckets = n
	}

	cfg.DataStart = time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC)
	if v := strings.TrimSpace(os.Getenv("DATA_START")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, fmt.Errorf("invalid DATA_START: %w", err)
		}
		cfg.DataStart = t
	}

	if err := parseSite(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseSite(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("SITE_LAT")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SITE_LAT: %w", err)
		}
		cfg.Geo.SiteLat = f
	}
	if v := strings.TrimSpace(os.Getenv("SITE_LON")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SITE_LON: %w", err)
		}
		cfg.Geo.SiteLon = f
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
