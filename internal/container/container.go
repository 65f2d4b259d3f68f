package container

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-registration/config"
	"github.com/oksasatya/go-user-registration/internal/application"
	"github.com/oksasatya/go-user-registration/internal/domain/repository"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/memory"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/migration"
	pginfra "github.com/oksasatya/go-user-registration/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/rabbitmq"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/relational"
	"github.com/oksasatya/go-user-registration/internal/metrics"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
)

// Container owns the application's long-lived components. main builds one
// and passes it to the router; nothing here is package-global.
type Container struct {
	Config      *config.Config
	Logger      *logrus.Logger
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics
	Repo        repository.UserRepository
	Events      application.EventPublisher
	UserService *application.Service

	closers []func()
}

// New connects storage for cfg.StorageDriver (running its migrations first),
// the optional event publisher, and builds the user service on top.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.New(c.Registry)

	repo, err := c.buildRepository(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Repo = repo
	c.Events = c.buildEvents()
	c.UserService = application.NewService(c.Repo, c.Events, c.Metrics, logger)
	return c, nil
}

func (c *Container) buildRepository(ctx context.Context) (repository.UserRepository, error) {
	cfg := c.Config
	log := c.Logger.WithField("storage", cfg.StorageDriver)

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		if err := migration.Run(cfg.PostgresDSN(), migration.LayoutPostgres, cfg.MigrationsDir, c.Logger); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		pool, err := pginfra.NewPool(ctx, pginfra.PoolOptions{
			DSN:             cfg.PostgresDSN(),
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLife,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		c.closers = append(c.closers, pool.Close)
		log.Info("storage ready")
		return pginfra.NewUserRepository(pool), nil

	case config.DriverRelational:
		if err := migration.Run(cfg.PostgresDSN(), migration.LayoutRelational, cfg.MigrationsDir, c.Logger); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		db, err := relational.Open(ctx, cfg.PostgresDSN(), int(cfg.DBMaxConns), int(cfg.DBMinConns), cfg.DBMaxConnLife)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() { _ = db.Close() })
		log.Info("storage ready")
		return relational.NewUserRepository(db), nil

	case config.DriverRedis:
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("storage ready")
		return redisstore.NewUserRepository(rdb, cfg.RedisKeyPrefix), nil

	case config.DriverMemory:
		log.Warn("in-memory storage: data is lost on restart")
		return memory.NewUserRepository(), nil
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}

// buildEvents never fails: without a broker the service runs with events
// switched off.
func (c *Container) buildEvents() application.EventPublisher {
	cfg := c.Config
	if !cfg.EventsEnabled {
		return rabbitmq.NopPublisher{}
	}
	pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQUserEventsQueue)
	if err != nil {
		c.Logger.WithError(err).Warn("rabbitmq unavailable; user events disabled")
		return rabbitmq.NopPublisher{}
	}
	c.closers = append(c.closers, pub.Close)
	c.Logger.WithField("queue", cfg.RabbitMQUserEventsQueue).Info("user events enabled")
	return rabbitmq.NewUserEventPublisher(pub, 0)
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
