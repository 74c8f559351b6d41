package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"shipgate/internal/audit"
	auditmemory "shipgate/internal/audit/store/memory"
	"shipgate/internal/compliance"
	compliancemetrics "shipgate/internal/compliance/metrics"
	"shipgate/internal/extraction"
	extractionmetrics "shipgate/internal/extraction/metrics"
	"shipgate/internal/pipeline"
	"shipgate/internal/platform/config"
	"shipgate/internal/platform/httpserver"
	"shipgate/internal/platform/logger"
	"shipgate/internal/platform/metrics"
	platformredis "shipgate/internal/platform/redis"
	"shipgate/internal/rules"
	rulesmemory "shipgate/internal/rules/store/memory"
	rulespostgres "shipgate/internal/rules/store/postgres"
	"shipgate/internal/rules/store/rediscache"
	httptransport "shipgate/internal/transport/http"
)

// main wires dependencies and owns the server lifecycle. Business logic lives
// in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Rule store: postgres when configured, otherwise a seeded in-memory
	// store so the engine is usable out of the box.
	var ruleStore rules.Store
	if cfg.DatabaseURL != "" {
		db, err := rulespostgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ruleStore = rulespostgres.New(db)
	} else {
		mem := rulesmemory.New()
		rulesmemory.Seed(mem)
		ruleStore = mem
		log.Info("no DATABASE_URL set, using seeded in-memory rule store")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	var cache *rediscache.Store
	if redisClient != nil {
		defer redisClient.Close()
		cache = rediscache.New(ruleStore, redisClient.Client, cfg.Redis.RuleCacheTTL, log)
		ruleStore = cache
	}

	catalog := rules.NewCatalog(ruleStore, log)
	if err := catalog.Initialize(ctx); err != nil {
		log.Error("rule catalog initialization failed", "error", err)
		os.Exit(1)
	}
	catalog.EnsureCommonFieldRules()
	log.Info("rule catalog loaded", "rules", catalog.Len())

	var llm extraction.TextTransformer
	if cfg.LLM.APIKey != "" {
		gemini, err := extraction.NewGeminiTransformer(ctx, cfg.LLM)
		if err != nil {
			log.Warn("gemini client unavailable, continuing without LLM tier", "error", err)
		} else {
			llm = gemini
			log.Info("llm extraction tier enabled", "model", cfg.LLM.Model)
		}
	}

	platformMetrics := metrics.New()
	extractionMetrics := extractionmetrics.New()
	extractor := extraction.New(catalog, llm, log, extractionMetrics)
	csvExtractor := extraction.NewCSV(catalog, log)
	scorer := extraction.NewScorer(catalog, extractionMetrics)
	validator := compliance.NewValidator(catalog, log, compliancemetrics.New())
	publisher := audit.NewPublisher(auditmemory.New(), log, audit.WithAsyncBuffer(256))
	defer publisher.Close()

	var invalidator pipeline.RuleCacheInvalidator
	if cache != nil {
		invalidator = cache
	}
	svc := pipeline.NewService(catalog, extractor, csvExtractor, scorer, validator, publisher, invalidator, log, platformMetrics)

	var health []httptransport.HealthChecker
	if redisClient != nil {
		health = append(health, redisClient)
	}
	handler := httptransport.NewHandler(svc, log, health...)
	router := httptransport.NewRouter(handler, cfg.APIToken, log, prometheus.DefaultGatherer)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting shipgate", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
