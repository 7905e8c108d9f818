// Package config manages configuration for the EMS view host.
//
// Values are layered: Default, then an optional YAML file named by
// EMS_CONFIG_FILE, then environment variables:
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, env, timeouts, CORS origins)
//   - UpstreamConfig: event platform base URL, timeout and user agent
//   - StoreConfig: data backend ("remote" or "surrealdb") and SurrealDB settings
//   - JWTConfig: bearer token verification keys and issuer
//   - ViewsConfig: open view TTL and sweep interval
//   - TelemetryConfig: OTLP trace endpoint and service name
//
// # Environment Variables
//
//	SERVER_PORT, SERVER_ENV, SERVER_READ_TIMEOUT, SERVER_WRITE_TIMEOUT
//	CORS_ALLOWED_ORIGINS (comma separated)
//	UPSTREAM_BASE_URL, UPSTREAM_TIMEOUT, UPSTREAM_USER_AGENT
//	STORE_BACKEND, DB_HOST, DB_PORT, DB_NAMESPACE, DB_DATABASE, DB_USER, DB_PASSWORD
//	JWT_PUBLIC_KEY_PATH, JWT_PRIVATE_KEY_PATH, JWT_ISSUER, JWT_EXPIRATION_MINS, JWT_ALLOW_UNVERIFIED
//	VIEW_TTL, VIEW_SWEEP_INTERVAL
//	OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_SERVICE_NAME
//
// Validate reports every problem at once through errors.Join.
package config
