package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "aq_mesh_api", cfg.AirQualityBroker)
	assert.Equal(t, "NE Travel Data API", cfg.TrafficBroker)
	assert.Equal(t, 30, cfg.AirSensorCount)
	assert.Equal(t, 20, cfg.VehicleCount)
	assert.Equal(t, time.Hour, cfg.ResampleFreq)
	assert.Equal(t, 6, cfg.MaxGapBuckets)
	assert.Equal(t, time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC), cfg.DataStart)
	assert.Equal(t, "Newcastle upon Tyne", cfg.Geo.AreaOfInterest)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RESAMPLE_FREQ", "30m")
	t.Setenv("MAX_GAP_BUCKETS", "12")
	t.Setenv("DATA_START", "2024-01-15")
	t.Setenv("SITE_LAT", "55.1")
	t.Setenv("SITE_LON", "-1.7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.ResampleFreq)
	assert.Equal(t, 12, cfg.MaxGapBuckets)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), cfg.DataStart)
	assert.Equal(t, 55.1, cfg.Geo.SiteLat)
	assert.Equal(t, -1.7, cfg.Geo.SiteLon)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("RESAMPLE_FREQ", "yearly")
	_, err := Load()
	assert.Error(t, err)
}

func TestBrokersOrder(t *testing.T) {
	cfg := &Config{AirQualityBroker: "aq", TrafficBroker: "traffic"}
	assert.Equal(t, []string{"traffic", "aq"}, cfg.Brokers())
}
