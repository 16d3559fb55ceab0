package config

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/logger"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/store"
)

type Config struct {
	StoreDriver       string
	StoreDSN          string
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string
	Env  string

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	// BookingRateLimit caps bookings created per customer phone within
	// BookingRateWindow. Zero disables the limit.
	BookingRateLimit  int
	BookingRateWindow time.Duration

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Timezone              string
	Location              *time.Location
	ReminderDueSoonWindow time.Duration
	PhoneRegion           string

	NotifyDriver  string
	NotifyTopic   string
	EnableTracing bool

	Log   *logger.Logger
	Store store.Store
	// Clock returns the current time; tests pin it.
	Clock func() time.Time
}

func Load(serviceName string) *Config {
	cfg := &Config{
		StoreDriver:       strings.ToLower(getEnvStr(EnvStoreDriver, DefaultStoreDriver)),
		StoreDSN:          getEnvStr(EnvStoreDSN, DefaultStoreDSN),
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),
		Env:  getEnvStr(EnvEnv, DefaultEnv),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		BookingRateLimit:  getEnvNum(EnvBookingRateLimit, DefaultBookingRateLimit),
		BookingRateWindow: getEnvDuration(EnvBookingRateWindow, DefaultBookingRateWindow),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Timezone:              getEnvStr(EnvTimezone, DefaultTimezone),
		ReminderDueSoonWindow: getEnvDuration(EnvReminderDueSoonWindow, DefaultReminderDueSoonWindow),
		PhoneRegion:           strings.ToUpper(getEnvStr(EnvPhoneRegion, DefaultPhoneRegion)),

		NotifyDriver:  strings.ToLower(getEnvStr(EnvNotifyDriver, DefaultNotifyDriver)),
		NotifyTopic:   getEnvStr(EnvNotifyTopic, DefaultNotifyTopic),
		EnableTracing: getEnvBool(EnvEnableTracing, false),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Clock: time.Now,
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// SetStore opens the configured entity store and exits on failure.
func (cfg *Config) SetStore() {
	s, err := store.Open(context.Background(), cfg.StoreOptions())
	if err != nil {
		cfg.Log.Fatal("Failed to open entity store",
			"error", err,
			"driver", cfg.StoreDriver,
		)
	}

	cfg.Log.Info("Successfully opened entity store", "driver", cfg.StoreDriver)
	cfg.Store = s
}

func (cfg *Config) StoreOptions() store.Options {
	return store.Options{
		Driver:        cfg.StoreDriver,
		DSN:           cfg.StoreDSN,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabaseName,
		ConnTimeout:   cfg.MongoConnTimeout,
		ReadTimeout:   cfg.ReadTimeout,
		WriteTimeout:  cfg.WriteTimeout,
		Tracing:       cfg.EnableTracing,
	}
}

// Now returns the current time in the configured location.
func (cfg *Config) Now() time.Time {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return clock().In(cfg.Loc())
}

func (cfg *Config) Loc() *time.Location {
	if cfg.Location == nil {
		return time.Local
	}
	return cfg.Location
}

func (cfg *Config) IsLocal() bool {
	return strings.EqualFold(cfg.Env, "LOCAL")
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.StoreDriver {
	case store.DriverMemory:
	case store.DriverSQLite, store.DriverPostgres:
		if cfg.StoreDSN == "" {
			errors = append(errors, fmt.Sprintf("StoreDSN cannot be empty for driver %s", cfg.StoreDriver))
		}
	case store.DriverMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
	default:
		errors = append(errors, fmt.Sprintf("StoreDriver must be one of [memory, sqlite, postgres, mongo], got: %s", cfg.StoreDriver))
	}

	if loc, err := time.LoadLocation(cfg.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("Timezone is not a valid IANA zone, got: %s", cfg.Timezone))
	} else {
		cfg.Location = loc
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.ReminderDueSoonWindow < 0 {
		errors = append(errors, fmt.Sprintf("ReminderDueSoonWindow cannot be negative, got: %s", cfg.ReminderDueSoonWindow))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.BookingRateLimit < 0 {
		errors = append(errors, fmt.Sprintf("BookingRateLimit cannot be negative, got: %d", cfg.BookingRateLimit))
	}
	if cfg.BookingRateLimit > 0 && cfg.BookingRateWindow <= 0 {
		errors = append(errors, fmt.Sprintf("BookingRateWindow must be positive, got: %s", cfg.BookingRateWindow))
	}

	if len(cfg.PhoneRegion) != 2 {
		errors = append(errors, fmt.Sprintf("PhoneRegion must be a two-letter region code, got: %s", cfg.PhoneRegion))
	}

	if cfg.NotifyDriver != "log" && cfg.NotifyDriver != "kafka" {
		errors = append(errors, fmt.Sprintf("NotifyDriver must be one of [log, kafka], got: %s", cfg.NotifyDriver))
	}
	if cfg.NotifyDriver == "kafka" && cfg.NotifyTopic == "" {
		errors = append(errors, "NotifyTopic cannot be empty when NotifyDriver is kafka")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"store_driver", cfg.StoreDriver,
		"store_dsn", redactDSN(cfg.StoreDSN),
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"env", cfg.Env,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"booking_rate_limit", cfg.BookingRateLimit,
		"booking_rate_window", cfg.BookingRateWindow,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"timezone", cfg.Timezone,
		"reminder_due_soon_window", cfg.ReminderDueSoonWindow,
		"phone_region", cfg.PhoneRegion,
		"notify_driver", cfg.NotifyDriver,
		"notify_topic", cfg.NotifyTopic,
		"enable_tracing", cfg.EnableTracing,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func redactDSN(dsn string) string {
	dsn = regexp.MustCompile(`(://)[^:/@]+:[^@]+@`).ReplaceAllString(dsn, "${1}***:***@")
	return regexp.MustCompile(`(password=)\S+`).ReplaceAllString(dsn, "${1}***")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	if cfg.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := cfg.Store.Close(ctx); err != nil {
		cfg.Log.Error("Failed to close entity store", "error", err)
	}
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
