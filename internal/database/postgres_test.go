package database

import (
	"testing"
	"time"

	"github.com/radiusdt/campaign-analytics/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig(t *testing.T) {
	pc, err := poolConfig(config.DatabaseConfig{
		Host:              "db.internal",
		Port:              5433,
		User:              "analytics",
		Password:          "pw",
		DBName:            "analytics",
		SSLMode:           "disable",
		MaxConns:          12,
		MinConns:          3,
		ConnectTimeout:    2 * time.Second,
		MaxConnLifetime:   10 * time.Minute,
		MaxConnIdleTime:   time.Minute,
		HealthCheckPeriod: 15 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(12), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, 10*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, 15*time.Second, pc.HealthCheckPeriod)
	assert.Equal(t, 2*time.Second, pc.ConnConfig.ConnectTimeout)
	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, applicationName, pc.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfig_ZeroKeepsDefaults(t *testing.T) {
	pc, err := poolConfig(config.DatabaseConfig{
		Host:    "localhost",
		Port:    5432,
		User:    "u",
		DBName:  "d",
		SSLMode: "disable",
	})
	require.NoError(t, err)

	assert.Positive(t, pc.MaxConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, pc.MaxConnIdleTime)
}
