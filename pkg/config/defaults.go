package config

import "time"

const (
	DefaultStoreDriver       = "sqlite"
	DefaultStoreDSN          = "file:rental.db?_pragma=busy_timeout(5000)"
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "rental"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultEnv      = "DEV"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultBookingRateLimit  = 5
	DefaultBookingRateWindow = time.Hour

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	DefaultTimezone              = "Local"
	DefaultReminderDueSoonWindow = 3 * 24 * time.Hour
	DefaultPhoneRegion           = "ID"

	DefaultNotifyDriver = "log"
	DefaultNotifyTopic  = "rental.notifications"
)
