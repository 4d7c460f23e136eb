package config

const (
	EnvPrefix = "ORDERDESK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DefaultParserTimezone = "America/New_York"

	EnvAppEnv   = "ORDERDESK_APP_ENV"
	EnvPort     = "ORDERDESK_APP_PORT"
	EnvLogLevel = "ORDERDESK_LOG_LEVEL"

	EnvDBDSN  = "ORDERDESK_DB_DSN"
	EnvDBHost = "ORDERDESK_DB_HOST"
	EnvDBUser = "ORDERDESK_DB_USER"
	EnvDBName = "ORDERDESK_DB_NAME"

	EnvRedisURL = "ORDERDESK_REDIS_URL"

	EnvJWTSecret = "ORDERDESK_JWT_SECRET"
	EnvJWTIssuer = "ORDERDESK_JWT_ISSUER"

	EnvGCPProjectID      = "ORDERDESK_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic = "ORDERDESK_PUBSUB_ORDERS_TOPIC"

	EnvParserTimezone      = "ORDERDESK_PARSER_TIMEZONE"
	EnvWebhookSharedSecret = "ORDERDESK_WEBHOOK_SHARED_SECRET"
	EnvIngestStaleAfter    = "ORDERDESK_INGEST_STALE_AFTER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
