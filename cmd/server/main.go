// Command server runs the TimeTracker automation engine: rule-driven
// reactions to tracker events, fed over HTTP, Kafka, and an internal
// scheduler.
//
// main wires dependencies from the environment and keeps the lifecycle
// small. Everything optional degrades cleanly: no database means in-memory
// stores, no tracker connection means webhook-only actions and no
// scheduler, no brokers means no Kafka source.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/actions"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/adapters/trackerhttp"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/handler"
	enginemetrics "github.com/DRYTRIX/TimeTracker-sub005/internal/automation/metrics"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/ports"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/store/execution"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/store/rule"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/ingress/kafka"
	jwttoken "github.com/DRYTRIX/TimeTracker-sub005/internal/jwt_token"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/platform/config"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/platform/httpserver"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/platform/logger"
	platformmetrics "github.com/DRYTRIX/TimeTracker-sub005/internal/platform/metrics"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/platform/postgres"
	platformredis "github.com/DRYTRIX/TimeTracker-sub005/internal/platform/redis"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/platform/tracing"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/scheduler"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/scheduler/fireguard"
	authmw "github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/middleware/auth"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/middleware/logging"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/middleware/metadata"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/middleware/requestid"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/middleware/requesttime"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/middleware/timeout"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

const (
	serviceName    = "timetracker-automation"
	jwtIssuer      = "timetracker-core"
	jwtAudience    = "timetracker-automation"
	requestTimeout = 15 * time.Second
	shutdownGrace  = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("service exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	platformmetrics.SetBuildInfo(Version)

	shutdownTracing, err := tracing.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("tracing shutdown failed", "error", err)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	// Stores: Postgres when configured, in-memory otherwise. The seed file
	// only applies to memory mode; with a database, rules are managed by
	// the tracker core writing the same tables.
	var (
		ruleStore rule.Store
		execStore execution.Store
	)
	switch {
	case cfg.DatabaseURL != "":
		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer db.Close()

		cached, err := rule.NewCached(rule.NewPostgres(db), rule.WithCacheLogger(log))
		if err != nil {
			return err
		}
		listener, err := rule.NewChangeListener(cfg.DatabaseURL, cached, rule.WithListenerLogger(log))
		if err != nil {
			return err
		}
		g.Go(func() error { return listener.Run(ctx) })

		ruleStore = cached
		execStore = execution.NewPostgres(db)

	case cfg.RuleSeedPath != "":
		seeded, err := rule.SeedMemory(ctx, cfg.RuleSeedPath)
		if err != nil {
			return fmt.Errorf("load rule seed: %w", err)
		}
		log.InfoContext(ctx, "rules loaded from seed file", "path", cfg.RuleSeedPath)
		ruleStore = seeded
		execStore = execution.NewMemory()

	default:
		log.WarnContext(ctx, "no database and no seed file; starting with zero rules")
		ruleStore = rule.NewMemory()
		execStore = execution.NewMemory()
	}

	// Action registry. Tracker-backed actions need the tracker connection;
	// webhook_call works regardless.
	registry := automation.NewHandlerRegistry()
	webhook := actions.NewWebhook(
		actions.WithWebhookSecret(cfg.WebhookSecret),
		actions.WithWebhookLogger(log),
	)
	if err := webhook.Register(registry); err != nil {
		return err
	}

	var feed ports.SchedulerFeed
	if cfg.TrackerBaseURL != "" {
		tracker, err := trackerhttp.New(cfg.TrackerBaseURL, trackerhttp.WithToken(cfg.TrackerToken))
		if err != nil {
			return fmt.Errorf("tracker client: %w", err)
		}
		handlers, err := actions.NewHandlers(tracker)
		if err != nil {
			return err
		}
		if err := handlers.Register(registry); err != nil {
			return err
		}
		feed = tracker
	} else {
		log.WarnContext(ctx, "tracker connection not configured; only webhook actions are available")
	}

	// Engine.
	engineMetrics := enginemetrics.New()
	matcher, err := automation.NewMatcher(ruleStore)
	if err != nil {
		return err
	}
	dispatcher, err := automation.NewDispatcher(registry,
		automation.WithActionTimeout(cfg.ActionTimeout),
		automation.WithDispatcherLogger(log),
		automation.WithDispatcherMetrics(engineMetrics),
	)
	if err != nil {
		return err
	}
	recorder, err := automation.NewRecorder(execStore,
		automation.WithRecorderLogger(log),
		automation.WithRecorderMetrics(engineMetrics),
	)
	if err != nil {
		return err
	}
	engine, err := automation.New(matcher, dispatcher, recorder,
		automation.WithLogger(log),
		automation.WithMetrics(engineMetrics),
		automation.WithWorkers(cfg.Workers),
		automation.WithQueueSize(cfg.QueueSize),
		automation.WithEventTimeout(cfg.EventDeadline),
	)
	if err != nil {
		return err
	}
	g.Go(func() error { return engine.Run(ctx) })

	// Scheduler, with the Redis fire guard when Redis is configured.
	if cfg.SchedulerEnabled() {
		schedOpts := []scheduler.Option{
			scheduler.WithInterval(cfg.SchedulerInterval),
			scheduler.WithGuardTTL(cfg.GuardTTL),
			scheduler.WithLogger(log),
		}
		if cfg.RedisURL != "" {
			redisClient, err := platformredis.New(ctx, cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			defer redisClient.Close()
			schedOpts = append(schedOpts, scheduler.WithGuard(fireguard.NewRedis(redisClient.Client)))
		}
		sched, err := scheduler.New(engine, scheduler.Sources(feed, cfg.DeadlineHorizon), schedOpts...)
		if err != nil {
			return err
		}
		g.Go(func() error { return sched.Run(ctx) })
	}

	// Kafka source.
	if cfg.KafkaEnabled() {
		source, err := kafka.New(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroup, engine,
			kafka.WithLogger(log),
		)
		if err != nil {
			return fmt.Errorf("kafka source: %w", err)
		}
		g.Go(func() error { return source.Run(ctx) })
	}

	// HTTP surface.
	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, jwtIssuer, jwtAudience)
	validator := jwttoken.NewJWTServiceAdapter(jwtService)
	var keys authmw.KeyVerifier
	if cfg.APIKeyHash != "" {
		keys = authmw.NewStaticKeyVerifier(cfg.APIKeyHash, "operator")
	}

	api := handler.New(engine, execStore, ruleStore, log)

	router := chi.NewRouter()
	router.Use(requestid.Middleware)
	router.Use(requesttime.Middleware)
	router.Use(timeout.Middleware(requestTimeout))
	router.Use(metadata.ClientMetadata)
	router.Use(logging.RequestLogger(log))
	router.Use(logging.Recovery(log))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Method(http.MethodGet, "/metrics", platformmetrics.Handler())

	router.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(validator, keys, log))
		api.Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)
	g.Go(func() error {
		log.InfoContext(ctx, "automation service listening",
			"addr", cfg.Addr,
			"version", Version,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
