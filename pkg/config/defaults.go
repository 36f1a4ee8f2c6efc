package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "propshoot"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisURL      = ""
	DefaultMonthCacheTTL = 5 * time.Minute

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultStripeWebhookTolerance = 5 * time.Minute

	DefaultBookingConfirmedTopic = "propshoot.booking.confirmed"
	DefaultCalendarChangedTopic  = "propshoot.calendar.changed"
	DefaultEventsDLQTopic        = "propshoot.events.dlq"
	DefaultCacheWorkerGroupID    = "propshoot-cache-worker"
	DefaultEventsEnabled         = false

	DefaultTimeZone = "Europe/London"
	DefaultCurrency = "gbp"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB
	DefaultBookingLockTTL = 10 * time.Second

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
