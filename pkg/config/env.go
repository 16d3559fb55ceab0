package config

const (
	EnvStoreDriver       = "STORE_DRIVER"
	EnvStoreDSN          = "STORE_DSN"
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"
	EnvEnv      = "ENV"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvBookingRateLimit  = "BOOKING_RATE_LIMIT"
	EnvBookingRateWindow = "BOOKING_RATE_WINDOW"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvTimezone              = "TIMEZONE"
	EnvReminderDueSoonWindow = "REMINDER_DUE_SOON_WINDOW"
	EnvPhoneRegion           = "PHONE_REGION"

	EnvNotifyDriver  = "NOTIFY_DRIVER"
	EnvNotifyTopic   = "NOTIFY_TOPIC"
	EnvEnableTracing = "ENABLE_TRACING"
)
