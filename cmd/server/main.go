// Command server wires the configuration gateway: platform pieces first,
// then the domain services, then the HTTP surface and background workers.
// Business logic lives in the internal service packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"confgate/internal/audit"
	"confgate/internal/hosting"
	"confgate/internal/hosting/catalog"
	httpapi "confgate/internal/http"
	jwttoken "confgate/internal/jwt_token"
	"confgate/internal/platform/config"
	"confgate/internal/platform/httpserver"
	"confgate/internal/platform/logger"
	"confgate/internal/platform/metrics"
	platformredis "confgate/internal/platform/redis"
	"confgate/internal/settings/handler"
	"confgate/internal/settings/models"
	"confgate/internal/settings/notify"
	"confgate/internal/settings/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "confgate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	idle, err := models.ParseDuration(cfg.Initial.Idle)
	if err != nil {
		return fmt.Errorf("initial configuration: %w", err)
	}
	initial, err := models.New(cfg.Initial.Folder, idle)
	if err != nil {
		return fmt.Errorf("initial configuration: %w", err)
	}

	m := metrics.New()
	notifier := notify.New(notify.WithLogger(log))

	var binder hosting.Binder = hosting.NoopBinder{}
	if cfg.Domains.Binder == config.BinderFolder {
		binder = hosting.FolderBinder{}
	}
	manager, err := hosting.NewManager(binder, hosting.WithLogger(log))
	if err != nil {
		return err
	}

	var pingers []httpapi.Pinger

	var cat catalog.Catalog
	switch cfg.Catalog.Backend {
	case config.CatalogFilesystem:
		cat = catalog.NewFilesystem()
	case config.CatalogPostgres:
		db, err := sql.Open("postgres", cfg.Catalog.PostgresURL)
		if err != nil {
			return fmt.Errorf("open catalog database: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping catalog database: %w", err)
		}
		pingers = append(pingers, dbPinger{db})
		if cat, err = catalog.NewPostgres(db); err != nil {
			return err
		}
	default:
		cat = catalog.NewInMemory()
	}

	if cfg.Redis.URL != "" {
		rdb, err := platformredis.New(cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect catalog cache: %w", err)
		}
		defer rdb.Close()
		pingers = append(pingers, rdb)
		if cat, err = catalog.NewCached(cat, rdb.Client,
			catalog.WithTTL(cfg.Redis.CacheTTL),
			catalog.WithLogger(log),
		); err != nil {
			return err
		}
	}

	journal := audit.NewInMemoryStore(cfg.Journal.Retention)
	var sink audit.Sink = journal
	if len(cfg.Journal.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaSink(ctx, cfg.Journal.KafkaBrokers,
			audit.WithKafkaTopic(cfg.Journal.KafkaTopic),
			audit.WithKafkaLogger(log),
		)
		if err != nil {
			return fmt.Errorf("connect audit broker: %w", err)
		}
		defer kafka.Close()
		sink = audit.NewFanoutSink(journal, kafka)
	}

	inbox := make(chan audit.Event, cfg.Journal.QueueSize)
	worker, err := audit.NewWorker(sink, inbox, log)
	if err != nil {
		return err
	}
	emitter, err := audit.NewQueuePublisher(inbox, log)
	if err != nil {
		return err
	}
	reader, err := audit.NewPublisher(journal)
	if err != nil {
		return err
	}

	gateway, err := service.NewGateway(initial, notifier, manager, cat,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAuditPublisher(emitter),
		service.WithTracer(otel.Tracer("confgate")),
	)
	if err != nil {
		return err
	}

	var reaper *hosting.Reaper
	if cfg.Domains.ReapInterval > 0 {
		reaper, err = hosting.NewReaper(gateway, time.Duration(initial.Idle()), cfg.Domains.ReapInterval, log)
		if err != nil {
			return err
		}
		// An accepted update retunes the watchdog at runtime.
		if _, err := notifier.OnIdleChange(func(ctx context.Context, old, new models.Duration) error {
			reaper.SetIdle(time.Duration(new))
			return nil
		}); err != nil {
			return err
		}
	}

	guard := httpapi.AdminGuard{Token: cfg.Admin.Token, TokenHash: cfg.Admin.TokenHash}
	if cfg.Admin.JWTSecret != "" {
		jwtSvc := jwttoken.NewService(cfg.Admin.JWTSecret, "confgate", "confgate-admin")
		guard.Bearer = func(token string) error {
			_, err := jwtSvc.ValidateAdminToken(token)
			return err
		}
	}

	h := handler.New(gateway, reader, log)
	router := httpapi.NewRouter(h, guard, log, pingers...)
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.Run(gctx)
	})
	if reaper != nil {
		g.Go(func() error {
			return reaper.Run(gctx)
		})
	}
	g.Go(func() error {
		log.Info("starting confgate",
			"addr", cfg.Server.Addr,
			"catalog_backend", cfg.Catalog.Backend,
			"folder", cfg.Initial.Folder,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("confgate stopped")
	return nil
}

// dbPinger adapts database/sql to the health probe interface.
type dbPinger struct {
	db *sql.DB
}

func (p dbPinger) Health(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
