package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trends-search/internal/config"
	"trends-search/internal/handler"
	"trends-search/internal/service"
	"trends-search/pkg/logger"
	"trends-search/pkg/storage"
	"trends-search/pkg/trends"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	app := &Application{}

	flag.StringVar(&app.configPath, "config", "config/dev.yaml", "Configuration file path")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := app.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func (app *Application) Run() error {
	cfg, err := config.NewManager().Load(app.configPath)
	if err != nil {
		return err
	}
	if app.debug {
		cfg.Logger.Level = "debug"
	}

	logger.SetLogger(logger.New(cfg.Logger))
	appLog := logger.GetLogger().WithField("component", "main")
	secureLog := logger.GetSecurityLogger()

	upstream := trends.NewClient(cfg.Provider.TrendsConfig())
	credentials := upstream.Stats().Keys

	secureLog.SafeInfo("Configuration loaded", map[string]interface{}{
		"config":        app.configPath,
		"port":          cfg.Server.Port,
		"endpoint":      cfg.Provider.Endpoint,
		"credentials":   credentials,
		"cache_enabled": cfg.Cache.Enabled,
	})
	if credentials == 0 {
		appLog.Warn("No provider API key configured; searches will fail until API_KEY or TRENDS_PROVIDER_API_KEYS is set")
	}

	var cache storage.Cache
	if cfg.Cache.Enabled {
		mc := storage.NewMemoryCacheWithTTL(cfg.Cache.MaxSize, cfg.Cache.TTL())
		defer mc.Close()
		cache = mc
	}

	svc := service.NewSearchService(upstream, cache)
	server := handler.NewServer(svc, svc, handler.Options{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		appLog.Info("Shutdown signal received")
		cancel()
	}()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	appLog.Info("Shutting down gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	appLog.Info("Server stopped")
	return nil
}
