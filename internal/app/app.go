// Package app is the composition root: it builds every store, service and
// handler from a Config and mounts them on one echo instance.
package app

import (
	"context"
	"fmt"
	"net/http"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hms/hms/internal/config"
	"github.com/hms/hms/internal/domain/appointments"
	"github.com/hms/hms/internal/domain/billing"
	"github.com/hms/hms/internal/domain/emergency"
	"github.com/hms/hms/internal/domain/hospital"
	"github.com/hms/hms/internal/domain/prescriptions"
	"github.com/hms/hms/internal/domain/reports"
	"github.com/hms/hms/internal/domain/settings"
	"github.com/hms/hms/internal/domain/telemedicine"
	"github.com/hms/hms/internal/platform/appstate"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/cache"
	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/form"
	"github.com/hms/hms/internal/platform/middleware"
	"github.com/hms/hms/internal/platform/mqtt"
	"github.com/hms/hms/internal/platform/view"
	"github.com/hms/hms/internal/platform/websocket"
)

// Version is reported by /health.
const Version = "0.1.0"

type routeRegistrar interface {
	RegisterRoutes(api *echo.Group)
}

// Repositories are the per-entity stores, either all in memory or all in
// Postgres.
type Repositories struct {
	Appointments  appointments.Repository
	Claims        billing.Repository
	Fleet         emergency.Repository
	Alerts        appstate.AlertRepository
	Hospital      hospital.Repositories
	Prescriptions prescriptions.Repository
	Telemedicine  telemedicine.Repository
	Settings      settings.Repository
}

// NewMemoryRepositories returns fixture-seeded in-memory stores.
func NewMemoryRepositories() Repositories {
	return Repositories{
		Appointments:  appointments.NewMemoryRepository(),
		Claims:        billing.NewMemoryRepository(),
		Fleet:         emergency.NewMemoryRepository(),
		Alerts:        emergency.NewAlertMemoryRepository(),
		Hospital:      hospital.NewMemoryRepositories(),
		Prescriptions: prescriptions.NewMemoryRepository(),
		Telemedicine:  telemedicine.NewMemoryRepository(),
		Settings:      settings.NewMemoryRepository(),
	}
}

// NewPostgresRepositories returns stores over the records table. Run Seed
// first to load the fixtures.
func NewPostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Appointments:  appointments.NewPostgresRepository(pool),
		Claims:        billing.NewPostgresRepository(pool),
		Fleet:         emergency.NewPostgresRepository(pool),
		Alerts:        emergency.NewAlertPostgresRepository(pool),
		Hospital:      hospital.NewPostgresRepositories(pool),
		Prescriptions: prescriptions.NewPostgresRepository(pool),
		Telemedicine:  telemedicine.NewPostgresRepository(pool),
		Settings:      settings.NewPostgresRepository(pool),
	}
}

// App holds the application context shared by every page.
type App struct {
	cfg    *config.Config
	logger zerolog.Logger
	clock  clock.Clock

	pool  *pgxpool.Pool
	redis *redis.Client
	mqtt  pahomqtt.Client

	Repos     Repositories
	Hub       *websocket.Hub
	Alerts    *appstate.Store
	Sessions  *auth.Store
	Directory *auth.Directory
	Issuer    *auth.TokenIssuer

	Emergency *emergency.Service
	Reports   *reports.Service

	handlers []routeRegistrar
}

// New connects the configured backends and builds every service. Close
// releases them.
func New(ctx context.Context, cfg *config.Config, clk clock.Clock, logger zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger, clock: clk}

	if cfg.UsesPostgres() {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		a.Repos = NewPostgresRepositories(pool)
		logger.Info().Msg("connected to database")
	} else {
		a.Repos = NewMemoryRepositories()
	}

	var reportCache cache.Cache = cache.NewMemory(clk)
	if cfg.RedisURL != "" {
		rc, client, err := cache.NewRedis(ctx, cfg.RedisURL, "hms:")
		if err != nil {
			a.Close()
			return nil, err
		}
		reportCache, a.redis = rc, client
		logger.Info().Msg("report cache backed by redis")
	}

	dir, err := auth.NewDirectory(bcrypt.DefaultCost, auth.DemoUsers...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("building user directory: %w", err)
	}
	a.Directory = dir
	a.Sessions = auth.NewStore(clk)
	a.Issuer = auth.NewTokenIssuer(cfg.SigningKey(), cfg.TokenTTL, clk)

	a.Hub = websocket.NewHub(logger)
	a.Alerts = appstate.New(a.Repos.Alerts, a.Hub, logger)

	submit := form.NewSubmitter(clk, cfg.SimulatedLatency, logger)
	loader := view.NewLoader(clk, cfg.SimulatedLatency)

	apts := appointments.NewService(a.Repos.Appointments, submit, loader, clk, logger)
	claims := billing.NewService(a.Repos.Claims, submit, loader, clk, logger)
	a.Emergency = emergency.NewService(a.Repos.Fleet, a.Alerts, submit, loader, clk, logger)
	hosp := hospital.NewService(a.Repos.Hospital, submit, loader, clk, logger)
	rx := prescriptions.NewService(a.Repos.Prescriptions, submit, loader, clk, logger)
	tele := telemedicine.NewService(a.Repos.Telemedicine, a.Repos.Appointments, a.Hub, submit, clk, logger)
	set := settings.NewService(a.Repos.Settings, dir, a.Sessions, submit, logger)
	a.Reports = reports.NewService(reports.Sources{
		Appointments:  a.Repos.Appointments,
		Claims:        a.Repos.Claims,
		Prescriptions: a.Repos.Prescriptions,
		Staff:         a.Repos.Hospital.Staff,
		Inventory:     a.Repos.Hospital.Inventory,
		Fleet:         a.Repos.Fleet,
		Alerts:        a.Alerts,
	}, reportCache, cfg.ReportCacheTTL, clk, logger)

	a.handlers = []routeRegistrar{
		auth.NewHandler(a.Sessions, dir, a.Issuer, logger),
		appointments.NewHandler(apts),
		billing.NewHandler(claims),
		emergency.NewHandler(a.Emergency),
		hospital.NewHandler(hosp),
		prescriptions.NewHandler(rx),
		reports.NewHandler(a.Reports),
		telemedicine.NewHandler(tele),
		settings.NewHandler(set),
		websocket.NewHandler(a.Hub, cfg.CORSOrigins, logger),
	}
	return a, nil
}

// StartTelemetry connects to the MQTT broker when one is configured and
// feeds ambulance telemetry into the emergency service.
func (a *App) StartTelemetry() error {
	if !a.cfg.MQTTEnabled() {
		return nil
	}
	client, err := mqtt.Connect(mqtt.Config{
		Broker:   a.cfg.MQTTBroker,
		ClientID: a.cfg.MQTTClientID,
		Username: a.cfg.MQTTUsername,
		Password: a.cfg.MQTTPassword,
	}, a.Emergency, a.logger)
	if err != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", err)
	}
	a.mqtt = client
	return nil
}

// Router builds the echo instance with global middleware, health checks and
// every page under /api/v1.
func (a *App) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(a.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: a.cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	if a.cfg.RequestTimeout > 0 {
		e.Use(middleware.RequestTimeout(a.cfg.RequestTimeout))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": Version,
			"store":   a.cfg.Store,
		})
	})
	if a.pool != nil {
		e.GET("/health/db", db.HealthHandler(a.pool))
	}

	apiV1 := e.Group("/api/v1")
	if a.cfg.IsDev() {
		apiV1.Use(auth.DevSessionMiddleware(a.Sessions, a.Issuer, auth.DemoUsers[0], a.logger))
	} else {
		apiV1.Use(auth.SessionMiddleware(a.Sessions, a.Issuer, a.logger))
	}
	rl := middleware.RateLimitConfig{
		RequestsPerSecond: a.cfg.RateLimitRPS,
		BurstSize:         a.cfg.RateLimitBurst,
	}
	if rl.RequestsPerSecond <= 0 {
		rl = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rl))

	for _, h := range a.handlers {
		h.RegisterRoutes(apiV1)
	}
	return e
}

// Close disconnects MQTT, Redis and the database pool.
func (a *App) Close() {
	if a.mqtt != nil {
		a.mqtt.Disconnect(250)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("closing redis")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
