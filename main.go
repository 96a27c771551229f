// Command storeapi serves the Stores REST API and runs its background workers.
//
// @title Stores REST API
// @version 1.0
// @description Stores, items and tags with JWT authentication.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/user/storeapi-go/auth"
	"github.com/user/storeapi-go/background"
	"github.com/user/storeapi-go/catalog"
	"github.com/user/storeapi-go/config"
	"github.com/user/storeapi-go/db"
	_ "github.com/user/storeapi-go/docs" // Generated Swagger docs
	"github.com/user/storeapi-go/logging"
	"github.com/user/storeapi-go/mail"
	"github.com/user/storeapi-go/metrics"
	"github.com/user/storeapi-go/tasks"
	"github.com/user/storeapi-go/users"
)

const shutdownTimeout = 30 * time.Second

func main() {
	app := &cli.App{
		Name:           "storeapi",
		Usage:          "Stores REST API",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: runServe,
			},
			{
				Name:   "worker",
				Usage:  "process queued tasks from Redis",
				Action: runWorker,
			},
			{
				Name:  "migrate",
				Usage: "manage the database schema",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "apply all pending migrations",
						Action: runMigrateUp,
					},
					{
						Name:  "down",
						Usage: "roll back migrations",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back, 0 for all"},
						},
						Action: runMigrateDown,
					},
					{
						Name:   "version",
						Usage:  "print the current schema version",
						Action: runMigrateVersion,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("storeapi failed")
	}
}

// bootstrap loads .env and the configuration and builds the logger.
func bootstrap() (*config.AppConfig, *logrus.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logging.New(cfg.Log)
	if envErr != nil {
		log.WithError(envErr).Debug(".env file not loaded")
	}
	return cfg, log, nil
}

// backends are the blocklist and queue implementations picked from the config.
type backends struct {
	redis     *redis.Client
	blocklist auth.Blocklist
	queue     tasks.Queue
	memQueue  *tasks.MemoryQueue
}

func newBackends(cfg *config.AppConfig, log logrus.FieldLogger) (*backends, error) {
	if !cfg.Redis.Enabled() {
		log.Warn("REDIS_URL not set, using in-process blocklist and queue")
		q := tasks.NewMemoryQueue(256)
		return &backends{blocklist: auth.NewMemoryBlocklist(), queue: q, memQueue: q}, nil
	}
	client, err := db.NewRedisClient(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	return &backends{
		redis:     client,
		blocklist: auth.NewRedisBlocklist(client),
		queue:     tasks.NewRedisQueue(client, cfg.Queue.Name),
	}, nil
}

func (b *backends) Close() {
	if b.memQueue != nil {
		b.memQueue.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

func runServe(c *cli.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	database, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.DB.AutoMigrate {
		if err := db.RunMigrations(cfg.DB); err != nil {
			return err
		}
		log.Info("database migrations applied")
	}

	be, err := newBackends(cfg, log)
	if err != nil {
		return err
	}
	defer be.Close()

	m := metrics.New()
	queue := tasks.WithEnqueueHook(be.queue, func(t tasks.Task) { m.TaskEnqueued(t.Type) })

	tokens := auth.NewTokenManager(cfg.Auth)
	userRepo := auth.NewSQLUserRepository(database.DB)
	authService := auth.NewAuthService(userRepo, tokens, be.blocklist, queue, log)

	var limiter *auth.IPRateLimiter
	if cfg.Auth.LoginRateLimit > 0 {
		limiter = auth.NewIPRateLimiter(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateBurst)
	}

	health := map[string]HealthCheck{"database": database.Ping}
	if be.redis != nil {
		health["redis"] = func(ctx context.Context) error { return be.redis.Ping(ctx).Err() }
	}

	router := newRouter(routerDeps{
		log:       log,
		metrics:   m,
		tokens:    tokens,
		blocklist: be.blocklist,
		auth:      auth.NewHandlers(authService, tokens, be.blocklist, limiter),
		users:     users.NewUserHandlers(users.NewUserService(userRepo, log)),
		catalog:   catalog.NewHandlers(catalog.NewService(catalog.NewSQLRepository(database.DB), log)),
		health:    health,
	})

	stopWorkers := make(chan struct{})
	var workersDone <-chan struct{}
	switch {
	case cfg.Queue.RunWorker:
		workersDone = background.StartTaskWorkerService(queue, background.Handlers(mail.New(cfg.Mail, log), log),
			cfg.Queue.Concurrency, m, log, stopWorkers)
	case be.memQueue != nil:
		log.Warn("RUN_WORKER is off and REDIS_URL is not set, queued tasks will not be processed")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		close(stopWorkers)
		return fmt.Errorf("http server: %w", err)
	}

	log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	close(stopWorkers)
	waitWorkers(shutdownCtx, workersDone, log)
	log.Info("server stopped gracefully")
	return nil
}

func runWorker(c *cli.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	if !cfg.Redis.Enabled() {
		return errors.New("the worker command needs REDIS_URL to share the queue with the API")
	}

	be, err := newBackends(cfg, log)
	if err != nil {
		return err
	}
	defer be.Close()

	stopWorkers := make(chan struct{})
	done := background.StartTaskWorkerService(be.queue, background.Handlers(mail.New(cfg.Mail, log), log),
		cfg.Queue.Concurrency, nil, log, stopWorkers)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	close(stopWorkers)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	waitWorkers(shutdownCtx, done, log)
	return nil
}

func waitWorkers(ctx context.Context, done <-chan struct{}, log logrus.FieldLogger) {
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn("task workers did not stop before the shutdown deadline")
	}
}

func runMigrateUp(*cli.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	if err := db.RunMigrations(cfg.DB); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

func runMigrateDown(c *cli.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	steps := c.Int("steps")
	if err := db.RollbackMigrations(cfg.DB, steps); err != nil {
		return err
	}
	log.WithField("steps", steps).Info("migrations rolled back")
	return nil
}

func runMigrateVersion(*cli.Context) error {
	cfg, _, err := bootstrap()
	if err != nil {
		return err
	}
	version, dirty, err := db.MigrationVersion(cfg.DB)
	if err != nil {
		return err
	}
	fmt.Printf("version %d (dirty: %t)\n", version, dirty)
	return nil
}
