package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/cargoplanner-go/internal/adapters/api"
	"github.com/andrescamacho/cargoplanner-go/internal/adapters/metrics"
	"github.com/andrescamacho/cargoplanner-go/internal/adapters/persistence"
	"github.com/andrescamacho/cargoplanner-go/internal/application/common"
	"github.com/andrescamacho/cargoplanner-go/internal/application/planner"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/ports"
	"github.com/andrescamacho/cargoplanner-go/internal/infrastructure/config"
	"github.com/andrescamacho/cargoplanner-go/internal/infrastructure/database"
	"github.com/andrescamacho/cargoplanner-go/internal/infrastructure/logging"
)

// app holds everything a command needs, wired from configuration
type app struct {
	cfg      *config.Config
	userCfg  *config.UserConfig
	logger   *slog.Logger
	client   *api.PlannerClient
	db       *gorm.DB
	cache    ports.CatalogCache
	history  *persistence.GormPlanHistoryRepository
	mediator common.Mediator
	metrics  *metrics.Server
}

// newApp loads configuration and wires the planner. The database is optional:
// when it cannot be opened the session runs without catalog cache or history.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if backendURL != "" {
		cfg.API.BaseURL = backendURL
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	a := &app{cfg: cfg, logger: logging.Setup(cfg.Logging)}

	a.userCfg = &config.UserConfig{}
	if handler, err := config.NewUserConfigHandler(); err == nil {
		if userCfg, err := handler.Load(); err == nil {
			a.userCfg = userCfg
		}
	}

	var apiMetrics *metrics.APIMetricsCollector
	var commandMetrics *metrics.CommandMetricsCollector
	if cfg.Metrics.Enabled {
		reg := metrics.InitRegistry()
		apiMetrics = metrics.NewAPIMetricsCollector()
		commandMetrics = metrics.NewCommandMetricsCollector()
		if err := apiMetrics.Register(reg); err != nil {
			return nil, fmt.Errorf("failed to register API metrics: %w", err)
		}
		if err := commandMetrics.Register(reg); err != nil {
			return nil, fmt.Errorf("failed to register command metrics: %w", err)
		}
		srv, err := metrics.StartServer(reg, cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
		if err != nil {
			return nil, err
		}
		a.metrics = srv
		a.logger.Info("Metrics endpoint listening", "addr", srv.Addr(), "path", cfg.Metrics.Path)
	}

	clientCfg := api.ClientConfig{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RateLimit.Requests,
		Burst:             cfg.API.RateLimit.Burst,
		MaxFailures:       cfg.API.CircuitBreaker.MaxFailures,
		ResetTimeout:      cfg.API.CircuitBreaker.ResetTimeout,
	}
	if apiMetrics != nil {
		clientCfg.Metrics = apiMetrics
	}
	a.client = api.NewPlannerClientWithConfig(clientCfg)

	deps := planner.Dependencies{Service: a.client}
	if cfg.Database.Disabled {
		a.logger.Info("Database disabled, running without catalog cache or history")
	} else if db, err := database.NewConnection(&cfg.Database); err != nil {
		a.logger.Warn("Database unavailable, running without catalog cache or history", "error", err)
	} else {
		a.db = db
		a.cache = persistence.NewGormCatalogCache(db, nil)
		a.history = persistence.NewGormPlanHistoryRepository(db)
		deps.Cache = a.cache
		deps.History = a.history
	}

	a.mediator = common.NewMediator()
	a.mediator.Use(metrics.PrometheusMiddleware(commandMetrics))
	if err := planner.RegisterHandlers(a.mediator, deps); err != nil {
		return nil, err
	}

	return a, nil
}

// context returns a context carrying the app logger
func (a *app) context(parent context.Context) context.Context {
	return common.WithLogger(parent, logging.NewSlogLogger(a.logger))
}

func (a *app) close() {
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = a.metrics.Shutdown(ctx)
	}
	if a.db != nil {
		_ = database.Close(a.db)
	}
}

// sessionDefaults layers user preferences over config over built-in defaults
func (a *app) sessionDefaults() planner.SessionDefaults {
	d := planner.SessionDefaults{
		Mode:      catalog.TransportMode(a.cfg.Session.DefaultMode),
		CargoType: catalog.CargoType(a.cfg.Session.DefaultCargoType),
	}
	if mode, err := catalog.ParseTransportMode(a.userCfg.DefaultMode); err == nil {
		d.Mode = mode
	}
	if cargo, err := catalog.ParseCargoType(a.userCfg.DefaultCargoType); err == nil {
		d.CargoType = cargo
	}
	d.CarrierID = a.userCfg.DefaultCarrier
	return d
}

// startLoop runs a planner loop for the lifetime of ctx and loads the catalog
func (a *app) startLoop(ctx context.Context, defaults planner.SessionDefaults) (*planner.Loop, error) {
	loop := planner.NewLoop(planner.NewSession(defaults), a.mediator)
	go func() {
		_ = loop.Run(ctx)
	}()

	first, err := loop.Do(ctx, planner.CatalogRequested{})
	if err != nil {
		return nil, err
	}
	if _, err := loop.Await(ctx, func(s planner.Snapshot) bool { return s.Seq > first.Seq }); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return loop, nil
}

// loadCatalog fetches the catalog without a session
func (a *app) loadCatalog(ctx context.Context) (*planner.LoadCatalogResponse, error) {
	resp, err := a.mediator.Send(ctx, &planner.LoadCatalogQuery{})
	if err != nil {
		return nil, err
	}
	return resp.(*planner.LoadCatalogResponse), nil
}

// parseModeFlag accepts an empty value as "not set"
func parseModeFlag(value string) (catalog.TransportMode, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return catalog.ParseTransportMode(value)
}

func parseCargoFlag(value string) (catalog.CargoType, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return catalog.ParseCargoType(value)
}
