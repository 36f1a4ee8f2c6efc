package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisURL      = "REDIS_URL"
	EnvMonthCacheTTL = "MONTH_CACHE_TTL"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvStripeWebhookSecret    = "STRIPE_WEBHOOK_SECRET"
	EnvStripeWebhookTolerance = "STRIPE_WEBHOOK_TOLERANCE"

	EnvBookingConfirmedTopic = "BOOKING_CONFIRMED_TOPIC"
	EnvCalendarChangedTopic  = "CALENDAR_CHANGED_TOPIC"
	EnvEventsDLQTopic        = "EVENTS_DLQ_TOPIC"
	EnvCacheWorkerGroupID    = "CACHE_WORKER_GROUP_ID"
	EnvEventsEnabled         = "EVENTS_ENABLED"

	EnvTimeZone = "BUSINESS_TIME_ZONE"
	EnvCurrency = "CURRENCY"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvBookingLockTTL = "BOOKING_LOCK_TTL"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
