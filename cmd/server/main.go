package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"compliancecore/internal/audit"
	auditcache "compliancecore/internal/audit/cache"
	audithandler "compliancecore/internal/audit/handler"
	auditmetrics "compliancecore/internal/audit/metrics"
	"compliancecore/internal/export"
	exporthandler "compliancecore/internal/export/handler"
	exportmetrics "compliancecore/internal/export/metrics"
	"compliancecore/internal/export/storage"
	"compliancecore/internal/gate"
	gatehandler "compliancecore/internal/gate/handler"
	licensestore "compliancecore/internal/gate/store/license"
	titlestore "compliancecore/internal/gate/store/title"
	httpapi "compliancecore/internal/http"
	"compliancecore/internal/mapper"
	mapperhandler "compliancecore/internal/mapper/handler"
	planhandler "compliancecore/internal/plan/handler"
	"compliancecore/internal/platform/config"
	"compliancecore/internal/platform/httpserver"
	"compliancecore/internal/platform/logger"
	"compliancecore/internal/platform/postgres"
	platformredis "compliancecore/internal/platform/redis"
	"compliancecore/internal/trail"
)

// main wires dependencies and keeps the server lifecycle small.
// Business logic lives in the internal feature packages. External
// collaborators (redis, postgres, kafka, renderer) are optional and
// fall back to in-process implementations when unconfigured.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Trail sink: kafka when brokers are configured, memory otherwise.
	var sink trail.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := trail.NewKafkaSink(cfg.Kafka.Brokers, trail.WithTopic(cfg.Kafka.Topic))
		if err != nil {
			log.Error("kafka trail sink unavailable", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("trail sink: kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		sink = trail.NewMemorySink()
		log.Info("trail sink: memory")
	}
	publisher := trail.NewPublisher(sink, trail.WithAsyncBuffer(256), trail.WithLogger(log))
	defer publisher.Close()

	// Audit cache: redis when configured, per-process memory otherwise.
	var cache audit.Cache
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		cache = auditcache.NewRedis(redisClient.Client)
		log.Info("audit cache: redis")
	} else {
		cache = auditcache.NewMemory()
		log.Info("audit cache: memory")
	}

	auditSvc := audit.New(
		audit.WithCache(cache),
		audit.WithTTL(cfg.AuditCacheTTL),
		audit.WithLogger(log),
		audit.WithMetrics(auditmetrics.New()),
	)

	// Gate stores: postgres when configured, memory otherwise.
	var (
		licenses gate.LicenseStore
		titles   gate.TitleStore
		gateOpts = []gate.Option{
			gate.WithTrail(publisher),
			gate.WithLogger(log),
		}
	)
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		log.Error("postgres unavailable", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		licenses = licensestore.NewPostgres(db)
		titles = titlestore.NewPostgres(db)
		gateOpts = append(gateOpts, gate.WithTxRunner(newGatePostgresTx(db)))
		log.Info("gate stores: postgres")
	} else {
		licenses = licensestore.NewMemory()
		titles = titlestore.NewMemory()
		log.Info("gate stores: memory")
	}

	gateSvc, err := gate.New(licenses, titles, gateOpts...)
	if err != nil {
		log.Error("gate service init failed", "error", err)
		os.Exit(1)
	}

	registry := mapper.New()

	exportOpts := []export.Option{
		export.WithMaxConcurrentRenders(int64(cfg.MaxConcurrentRenders)),
		export.WithMetrics(exportmetrics.New()),
		export.WithTrail(publisher),
		export.WithLogger(log),
	}
	if cfg.RendererURL != "" {
		exportOpts = append(exportOpts, export.WithRasterizer(export.NewHTTPRasterizer(cfg.RendererURL)))
		log.Info("pdf rasterizer configured", "url", cfg.RendererURL)
	} else {
		log.Warn("no renderer configured, pdf exports disabled")
	}
	exportSvc, err := export.New(registry, storage.NewMemory(), exportOpts...)
	if err != nil {
		log.Error("export service init failed", "error", err)
		os.Exit(1)
	}

	router := httpapi.NewRouter(log,
		audithandler.New(auditSvc, log),
		exporthandler.New(exportSvc, log),
		gatehandler.New(gateSvc, log),
		planhandler.New(auditSvc, log),
		mapperhandler.New(log),
	)

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("compliancecore listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
