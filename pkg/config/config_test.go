package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		StoreDriver:           "memory",
		MongoConnTimeout:      DefaultMongoConnTimeout,
		Port:                  DefaultPort,
		RequestTimeout:        DefaultRequestTimeout,
		IdempotencyTTL:        DefaultIdempotencyTTL,
		MaxRequestSize:        DefaultMaxRequestSize,
		ReadTimeout:           DefaultReadTimeout,
		WriteTimeout:          DefaultWriteTimeout,
		IdleTimeout:           DefaultIdleTimeout,
		ShutdownTimeout:       DefaultShutdownTimeout,
		Timezone:              "Asia/Jakarta",
		ReminderDueSoonWindow: DefaultReminderDueSoonWindow,
		PhoneRegion:           DefaultPhoneRegion,
		NotifyDriver:          DefaultNotifyDriver,
		NotifyTopic:           DefaultNotifyTopic,
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	require.NotNil(t, cfg.Location)
	assert.Equal(t, "Asia/Jakarta", cfg.Location.String())
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "0"
	cfg.StoreDriver = "redis"
	cfg.Timezone = "Mars/Olympus"
	cfg.NotifyDriver = "sms"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "Port")
	assert.Contains(t, msg, "StoreDriver")
	assert.Contains(t, msg, "Timezone")
	assert.Contains(t, msg, "NotifyDriver")
	assert.Equal(t, 4, strings.Count(msg, "\n  "))
}

func TestValidate_MongoRequiresURI(t *testing.T) {
	cfg := validConfig()
	cfg.StoreDriver = "mongo"
	cfg.MongoURI = "localhost:27017"
	cfg.MongoDatabaseName = "rental"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MongoURI")
}

func TestValidate_BookingRateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.BookingRateLimit = 3
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BookingRateWindow")

	cfg.BookingRateWindow = time.Minute
	require.NoError(t, cfg.Validate())

	cfg.BookingRateLimit = -1
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BookingRateLimit")
}

func TestNow_UsesClockAndLocation(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	fixed := time.Date(2025, 3, 15, 3, 0, 0, 0, time.UTC)
	cfg.Clock = func() time.Time { return fixed }

	now := cfg.Now()
	assert.True(t, now.Equal(fixed))
	assert.Equal(t, 10, now.Hour())
}

func TestRedaction(t *testing.T) {
	assert.Equal(t, "mongodb://***:***@db:27017", redactMongoURI("mongodb://user:secret@db:27017"))
	assert.Equal(t, "postgres://***:***@db/rental", redactDSN("postgres://user:secret@db/rental"))
	assert.Equal(t, "host=db password=*** dbname=rental", redactDSN("host=db password=secret dbname=rental"))
}

func TestNormalizePagination(t *testing.T) {
	assert.Equal(t, 10, NormalizePaginationLimit(0))
	assert.Equal(t, DefaultPaginationLimit, NormalizePaginationLimit(1000))
	assert.Equal(t, 25, NormalizePaginationLimit(25))
	assert.Equal(t, int64(0), NormalizeOffset(-5))
}
