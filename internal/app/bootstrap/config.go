// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/campusdesk/internal/app/system/auditlog"
	"github.com/dalemusser/campusdesk/internal/app/system/inputval"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const minSecretLen = 32

// appConfigKeys defines the configuration keys for CampusDesk.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: CAMPUSDESK_MONGO_URI, CAMPUSDESK_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "campusdesk", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (32+ characters; must be strong in production)"},
	{Name: "session_name", Default: "campusdesk-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 8h, 24h)"},

	// Bearer tokens
	{Name: "api_token_secret", Default: "", Desc: "HS256 secret for API bearer tokens (blank disables the api guard)"},
	{Name: "api_token_ttl", Default: "1h", Desc: "API bearer token lifetime"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_access", Default: "log", Desc: "Access decision logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "audit_retention", Default: "0s", Desc: "Prune audit events and login records older than this (0 keeps everything, e.g. 2160h)"},
	{Name: "retention_interval", Default: "1h", Desc: "How often the retention worker runs"},

	{Name: "login_rate_limit", Default: 10, Desc: "Login attempts per IP per minute (0 disables)"},

	// Database deadlines
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document database calls"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list and aggregate database calls"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for multi-collection writes"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the bootstrap admin (created on startup if missing)"},
	{Name: "admin_password", Default: "", Desc: "Initial password for the bootstrap admin"},
	{Name: "admin_name", Default: "Administrator", Desc: "Display name for the bootstrap admin"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for absolute links"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CAMPUSDESK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CAMPUSDESK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		APITokenSecret: appValues.String("api_token_secret"),
		APITokenTTL:    appValues.Duration("api_token_ttl", time.Hour),

		AuditLogAuth:   appValues.String("audit_log_auth"),
		AuditLogAccess: appValues.String("audit_log_access"),
		AuditLogAdmin:  appValues.String("audit_log_admin"),

		AuditRetention:    appValues.Duration("audit_retention", 0),
		RetentionInterval: appValues.Duration("retention_interval", time.Hour),

		LoginRateLimit: appValues.Int("login_rate_limit"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
		AdminName:     appValues.String("admin_name"),

		BaseURL: appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Everything is checked before the first connection attempt so a typo
// fails fast with a clear message.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	if len(appCfg.SessionKey) < minSecretLen {
		return fmt.Errorf("session_key must be at least %d characters", minSecretLen)
	}
	if appCfg.APITokenSecret != "" && len(appCfg.APITokenSecret) < minSecretLen {
		return fmt.Errorf("api_token_secret must be at least %d characters", minSecretLen)
	}

	for key, mode := range map[string]string{
		"audit_log_auth":   appCfg.AuditLogAuth,
		"audit_log_access": appCfg.AuditLogAccess,
		"audit_log_admin":  appCfg.AuditLogAdmin,
	} {
		if !auditlog.ValidMode(mode) {
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", key, mode)
		}
	}

	if appCfg.AuditRetention < 0 {
		return fmt.Errorf("audit_retention must not be negative")
	}
	if appCfg.AuditRetention > 0 && appCfg.RetentionInterval <= 0 {
		return fmt.Errorf("retention_interval must be positive when audit_retention is set")
	}

	if appCfg.LoginRateLimit < 0 {
		return fmt.Errorf("login_rate_limit must not be negative")
	}

	if appCfg.AdminEmail != "" && !inputval.IsValidEmail(appCfg.AdminEmail) {
		return fmt.Errorf("admin_email %q is not a valid email address", appCfg.AdminEmail)
	}

	return nil
}
