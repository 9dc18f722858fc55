package constants

const (
	CookieKeySecretToken = "secret_token"
)

// viper keys
const (
	ViperServerAddr        = "server.addr"
	ViperServerCORSOrigins = "server.cors_origins"
	ViperSecretKey         = "auth.secret"
	ViperJWTSigningKey     = "auth.signing_key"
	ViperDatabaseDSN       = "database.dsn"
	ViperLogLevel          = "logging.level"
	ViperCacheSize         = "dashboard.cache_size"
	ViperMinSamples        = "dashboard.min_samples"
	ViperMaxGenotypes      = "dashboard.max_genotypes"
	ViperBackfillSources   = "ingest.sources"
	ViperBackfillRetries   = "ingest.retries"
	ViperBackfillInterval  = "ingest.retry_interval"
	ViperFormatter         = "formatter"
)
