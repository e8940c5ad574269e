// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, log level, CORS, body limits); this
// struct carries everything CampusDesk itself needs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (32+ characters)
	SessionName   string        // Cookie name for sessions (default: campusdesk-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Bearer tokens for the "api" guard. A blank secret disables the guard.
	APITokenSecret string
	APITokenTTL    time.Duration

	// Audit logging destinations per category: all | db | log | off
	AuditLogAuth   string
	AuditLogAccess string
	AuditLogAdmin  string

	// Audit events and login records older than AuditRetention are pruned
	// every RetentionInterval. Zero retention keeps everything.
	AuditRetention    time.Duration
	RetentionInterval time.Duration

	// Login form posts allowed per IP per minute; 0 disables throttling.
	LoginRateLimit int

	// Database call deadlines (see system/timeouts)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Bootstrap admin, created on startup when AdminEmail is set.
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// Base URL for absolute links
	BaseURL string // e.g., "https://desk.example.edu" or "http://localhost:3000"
}
