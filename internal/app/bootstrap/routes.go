// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	apitokenfeature "github.com/dalemusser/campusdesk/internal/app/features/apitoken"
	auditlogfeature "github.com/dalemusser/campusdesk/internal/app/features/auditlog"
	complaintsfeature "github.com/dalemusser/campusdesk/internal/app/features/complaints"
	dashboardfeature "github.com/dalemusser/campusdesk/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/campusdesk/internal/app/features/errors"
	healthfeature "github.com/dalemusser/campusdesk/internal/app/features/health"
	homefeature "github.com/dalemusser/campusdesk/internal/app/features/home"
	loginfeature "github.com/dalemusser/campusdesk/internal/app/features/login"
	logoutfeature "github.com/dalemusser/campusdesk/internal/app/features/logout"
	metricsfeature "github.com/dalemusser/campusdesk/internal/app/features/metrics"
	"github.com/dalemusser/campusdesk/internal/app/store/audit"
	userstore "github.com/dalemusser/campusdesk/internal/app/store/users"
	"github.com/dalemusser/campusdesk/internal/app/system/auditlog"
	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/app/system/authz"
	"github.com/dalemusser/campusdesk/internal/app/system/navigation"
	"github.com/dalemusser/campusdesk/internal/app/system/routing"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Every feature contributes its routes as
// data to one routing.Table; the table is then mounted with the middleware
// registry so route names double as redirect targets.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	fetcher := userstore.NewFetcher(db, logger)

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	// Fresh user data on each request: role changes and disabled accounts
	// take effect immediately.
	sessionMgr.SetUserFetcher(fetcher)

	var bearer *auth.BearerGuard
	guards := auth.NewGuards(sessionMgr)
	if appCfg.APITokenSecret != "" {
		bearer, err = auth.NewBearerGuard(appCfg.APITokenSecret, appCfg.APITokenTTL, fetcher)
		if err != nil {
			logger.Error("bearer guard init failed", zap.Error(err))
			return nil, err
		}
		guards = auth.NewGuards(sessionMgr, bearer)
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	m, err := metricsfeature.New()
	if err != nil {
		logger.Error("metrics init failed", zap.Error(err))
		return nil, err
	}
	accessMetrics, err := authz.NewMetrics(m.Registry)
	if err != nil {
		logger.Error("access metrics init failed", zap.Error(err))
		return nil, err
	}

	table := routing.NewTable()
	rd := navigation.NewRedirector(table, sessionMgr, logger)
	al := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:   appCfg.AuditLogAuth,
		Access: appCfg.AuditLogAccess,
		Admin:  appCfg.AuditLogAdmin,
	})
	errLog := errorsfeature.NewErrorLogger(logger)
	access := authz.NewAccessGuard(guards, rd, al, accessMetrics, logger)

	table.Add(homefeature.Routes(homefeature.NewHandler(rd, logger))...)
	table.Add(healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger))...)
	table.Add(metricsfeature.Routes(m)...)
	table.Add(loginfeature.Routes(loginfeature.NewHandler(db, sessionMgr, rd, al, errLog, logger), appCfg.LoginRateLimit)...)
	table.Add(logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, al, logger))...)
	table.Add(dashboardfeature.Routes(dashboardfeature.NewHandler(db, rd, errLog, logger))...)
	table.Add(complaintsfeature.Routes(complaintsfeature.NewHandler(db, al, errLog, logger))...)
	table.Add(auditlogfeature.Routes(auditlogfeature.NewHandler(db, errLog, logger))...)
	if bearer != nil {
		table.Add(apitokenfeature.Routes(apitokenfeature.NewHandler(db, bearer, al, errLog, logger))...)
	}

	if err := table.Err(); err != nil {
		logger.Error("route table invalid", zap.Error(err))
		return nil, err
	}
	if _, ok := table.Path(authz.LoginRoute); !ok {
		err := fmt.Errorf("no route named %q for refused requests", authz.LoginRoute)
		logger.Error("route table invalid", zap.Error(err))
		return nil, err
	}

	reg := newRegistry(middlewareDeps{
		Guards:   guards,
		Access:   access,
		Redirect: rd,
		Log:      logger,
	})

	r := chi.NewRouter()
	r.Use(m.Instrument)
	// Loads the session user into context; handlers read it via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	if err := table.Mount(r, reg); err != nil {
		logger.Error("route mount failed", zap.Error(err))
		return nil, err
	}
	logger.Info("routes mounted", zap.Int("count", len(table.Routes())))

	return r, nil
}
