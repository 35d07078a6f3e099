// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, CORS, request limits). AppConfig is everything specific
// to GatherHub: database connection, session cookies, and domain
// defaults. The struct is passed to most lifecycle hooks, so anything
// needed during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: gatherhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL of the deployed app (used in logs and client hints)
	BaseURL string

	// DefaultEventImage is the placeholder used when an event draft
	// carries no image URL.
	DefaultEventImage string
}
