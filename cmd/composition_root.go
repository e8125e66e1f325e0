package cmd

import (
	"log/slog"
	"net/http"

	httpadapter "tracking/internal/adapters/in/http"
	"tracking/internal/adapters/out/postgres"
	"tracking/internal/adapters/out/redis/feedcache"
	"tracking/internal/adapters/out/umov"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/ports"
	"tracking/internal/jobs"
	"tracking/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters, use cases and jobs. Shared dependencies are
// built once in NewCompositionRoot; handlers are created on demand.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	gormDB      *gorm.DB
	redisClient *redis.Client

	registry *prometheus.Registry
	sink     metrics.Sink

	sessions   *postgres.GormReadSessionFactory
	umovClient *umov.Client
	feeds      ports.FeedClient
	reconciler *queries.OrderReconciler
}

// NewCompositionRoot builds the shared dependencies. redisClient may be nil,
// which disables the feed cache.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, redisClient *redis.Client, logger *slog.Logger) *CompositionRoot {
	c := &CompositionRoot{
		cfg:         cfg,
		logger:      logger,
		gormDB:      gormDB,
		redisClient: redisClient,
	}

	if cfg.MetricsEnabled {
		c.registry = prometheus.NewRegistry()
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		c.sink = metrics.NewPrometheusSink(c.registry, logger)
	} else {
		c.sink = metrics.NewNoopSink()
	}

	c.sessions = postgres.NewGormReadSessionFactory(gormDB)
	c.umovClient = umov.NewClient(cfg.Umov, &http.Client{}, c.sink, logger)

	c.feeds = c.umovClient
	if redisClient != nil {
		c.feeds = feedcache.New(redisClient, c.umovClient, cfg.FeedCacheTTL, c.sink, logger)
	}

	c.reconciler = queries.NewOrderReconciler(c.feeds, cfg.ReconcileConcurrency, c.sink, logger)

	return c
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.sessions, c.reconciler)
}

func (c *CompositionRoot) CreateGetOrderDetailsQueryHandler() queries.GetOrderDetailsQueryHandler {
	return queries.NewGetOrderDetailsQueryHandler(c.sessions, c.reconciler)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateGetCustomerOrdersQueryHandler(),
		c.CreateGetOrderDetailsQueryHandler(),
		c.logger,
	)
}

// CreateRouter returns the echo instance serving the API. /metrics is only
// mounted when metrics are enabled.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	routerCfg := httpadapter.RouterConfig{
		RequestTimeout: c.cfg.HTTPRequestTimeout,
		Logger:         c.logger,
	}
	if c.registry != nil {
		routerCfg.Gatherer = c.registry
	}

	return httpadapter.NewRouter(c.CreateHTTPServer(), routerCfg)
}

// CreateJobManager returns the background jobs. The provider probe is left out
// when no schedule is configured.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var scheduled []jobs.Job
	if c.cfg.ProbeSchedule != "" {
		scheduled = append(scheduled, jobs.NewProviderProbeJob(
			c.umovClient,
			c.sink,
			c.cfg.ProbeSchedule,
			c.cfg.Umov.RequestTimeout,
			c.logger,
		))
	}
	return jobs.NewJobManager(scheduled...)
}
