package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"minerva/internal/adapters/ai"
	"minerva/internal/adapters/brokerage"
	"minerva/internal/adapters/config"
	"minerva/internal/adapters/errors/noop"
	"minerva/internal/adapters/errors/sentry"
	"minerva/internal/coordinator"
	"minerva/internal/metrics"
	"minerva/internal/router"
	"minerva/internal/search"
	"minerva/internal/trend"
	"minerva/pkg/errors"
	"minerva/pkg/logger"
)

func main() {
	metricsAddr := flag.String("metrics", "", "expose Prometheus metrics on this address (e.g. :9090)")
	asJSON := flag.Bool("json", false, "print the report as JSON instead of text")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: minerva [-metrics :9090] <query>")
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	// Initialize error tracker
	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	// Initialize metrics
	metrics.Init()
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Warnf("metrics server stopped: %v", err)
			}
		}()
	}

	ctx := context.Background()

	coord, err := buildCoordinator(ctx, cfg, log)
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}

	rep := coord.Handle(ctx, query)
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			log.Fatalf("encode report: %v", err)
		}
	} else {
		fmt.Print(rep.Render())
	}

	if rep.Partial() {
		os.Exit(1)
	}
}

// buildCoordinator wires the full query pipeline from configuration.
func buildCoordinator(ctx context.Context, cfg *config.Config, log *logger.Logger) (*coordinator.Coordinator, error) {
	brokerCfg := &brokerage.Config{
		AppKey:    cfg.Brokerage.AppKey,
		SecretKey: cfg.Brokerage.SecretKey,
		Mock:      cfg.Brokerage.Mock,
		Timeout:   cfg.Brokerage.Timeout,
	}
	auth := brokerage.NewAuthenticator(brokerCfg)
	invoker := brokerage.NewInvoker(brokerCfg, cfg.Brokerage.RateLimit)

	classifier := buildClassifier(ctx, cfg, log)

	provider, err := search.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.Search.Model, cfg.Search.Timeout)
	if err != nil {
		return nil, errors.Wrap(err, "search provider")
	}
	fanout := search.NewFanOut(provider)

	var trends trend.Provider
	if cfg.Trend.BaseURL != "" {
		trends, err = trend.NewHTTPProvider(cfg.Trend)
		if err != nil {
			return nil, errors.Wrap(err, "trend provider")
		}
	} else {
		log.Info("No trend gateway configured, trend analysis disabled")
	}

	return coordinator.New(auth, invoker, classifier, fanout, trends), nil
}

// buildClassifier prefers the LLM classifier when enabled and a provider key
// is available, and falls back to keyword rules otherwise.
func buildClassifier(ctx context.Context, cfg *config.Config, log *logger.Logger) router.Classifier {
	if cfg.AI.LLMRouting {
		completer, err := ai.NewCompleter(ctx, cfg.AI)
		if err == nil {
			log.Infof("Intent routing via %s", completer.Name())
			return router.NewLLMClassifier(completer)
		}
		log.Warnf("LLM routing unavailable, using keyword rules: %v", err)
	}
	return router.NewRuleClassifier()
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}
