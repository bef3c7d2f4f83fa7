package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdulhalimzhr/tokotok/catalog"
	"github.com/abdulhalimzhr/tokotok/config"
	"github.com/abdulhalimzhr/tokotok/httpapi"
	"github.com/abdulhalimzhr/tokotok/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	defaultCfg := config.Load()
	listenDefault := defaultCfg.ListenAddr
	if value, ok := config.EnvString("STOREFRONT_ADDR"); ok {
		listenDefault = value
	}
	apiDefault := defaultCfg.APIBaseURL
	if value, ok := config.EnvString("STOREFRONT_API_URL"); ok {
		apiDefault = value
	}
	cacheDefault := defaultCfg.CacheFile
	if value, ok := config.EnvString("STOREFRONT_CACHE_FILE"); ok {
		cacheDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("STOREFRONT_METRICS_ADDR"); ok {
		metricsDefault = value
	}
	pageSizeDefault := defaultCfg.DefaultPageSize
	if value, ok, err := config.EnvInt("STOREFRONT_PAGE_SIZE"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid STOREFRONT_PAGE_SIZE: %v\n", err)
		os.Exit(1)
	} else if ok {
		pageSizeDefault = value
	}
	timeoutDefault := defaultCfg.Timeout
	if value, ok, err := config.EnvDuration("STOREFRONT_TIMEOUT"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid STOREFRONT_TIMEOUT: %v\n", err)
		os.Exit(1)
	} else if ok {
		timeoutDefault = value
	}

	listenAddr := flag.String("addr", listenDefault, "HTTP listen address")
	apiBaseURL := flag.String("api-url", apiDefault, "Remote catalog API base URL")
	cacheFile := flag.String("cache-file", cacheDefault, "Persisted state file path")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	pageSize := flag.Int("page-size", pageSizeDefault, "Default catalog page size")
	timeout := flag.Duration("timeout", timeoutDefault, "Remote request timeout")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.ListenAddr = *listenAddr
	cfg.APIBaseURL = *apiBaseURL
	cfg.CacheFile = *cacheFile
	cfg.MetricsAddr = *metricsAddr
	cfg.DefaultPageSize = *pageSize
	cfg.Timeout = *timeout
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := catalog.NewMetrics()
	client, err := catalog.NewClient(cfg, metrics)
	if err != nil {
		slog.Error("initialising catalog client", slog.Any("error", err))
		os.Exit(1)
	}

	kv, err := storage.NewFileKV(cfg.CacheFile)
	if err != nil {
		slog.Error("initialising state store", slog.Any("error", err))
		os.Exit(1)
	}
	cache := catalog.NewCategoryCache(kv, cfg.CategoryCacheKey)
	store := catalog.NewStore(client, cache, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting storefront",
		slog.String("addr", cfg.ListenAddr),
		slog.String("api_url", cfg.APIBaseURL),
	)

	// Warm the store so the first page render has data; failures here
	// only set the error flag, the retry path stays available.
	warmCtx, cancelWarm := context.WithTimeout(ctx, cfg.Timeout)
	if err := store.LoadAll(warmCtx); err != nil {
		slog.Error("initial product load failed", slog.Any("error", err))
	}
	store.LoadCategories(warmCtx)
	cancelWarm()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	httpapi.NewHandler(store, cfg).RegisterRoutes(router)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", slog.Any("error", err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
