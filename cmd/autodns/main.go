package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/bakerboy448/autodns/api/v1"
	"github.com/bakerboy448/autodns/api/v1/middleware"
	"github.com/bakerboy448/autodns/internal/config"
	"github.com/bakerboy448/autodns/internal/dns/providers/cloudflare"
	"github.com/bakerboy448/autodns/internal/mapping"
	"github.com/bakerboy448/autodns/internal/metrics"
	"github.com/bakerboy448/autodns/internal/notify"
	"github.com/bakerboy448/autodns/internal/ratelimit"
	"github.com/bakerboy448/autodns/internal/updater"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log := logrus.NewEntry(logger)

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Info("✓ Configuration loaded")

	// 2. Load token mapping
	store, err := mapping.Load(cfg.MappingFile)
	if err != nil {
		log.Fatalf("Failed to load token mapping: %v", err)
	}
	if store.Len() == 0 {
		log.Warnf("Token mapping %s is empty; generate tokens with autodnsctl", cfg.MappingFile)
	} else {
		log.Infof("✓ Loaded %d token mapping(s)", store.Len())
	}

	// 3. Build collaborators
	provider := cloudflare.New(cloudflare.Config{
		ZoneID:   cfg.Cloudflare.ZoneID,
		APIToken: cfg.Cloudflare.APIToken,
		Email:    cfg.Cloudflare.Email,
		APIKey:   cfg.Cloudflare.APIKey,
		Timeout:  time.Duration(cfg.ProviderTimeoutSec) * time.Second,
	})

	notifier, err := notify.NewRouter(cfg.Notifications.Enabled, cfg.Notifications.URLs, log)
	if err != nil {
		log.Fatalf("Failed to initialize notifier: %v", err)
	}

	u := updater.New(updater.Options{
		Store:    store,
		Provider: provider,
		Notifier: notifier,
		Limiter:  ratelimit.New(time.Duration(cfg.RateLimitMinutes) * time.Minute),
		Logger:   log,
	})

	// 4. Initialize Gin router
	metrics.InitMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	v1.SetupRouter(r, u)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Infof("✓ Server started on %s", cfg.HTTPAddr)

	// 5. Wait for shutdown signal
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown: %v", err)
	}
	// Let in-flight notifications finish before exiting
	u.Drain()
	log.Info("Server stopped gracefully")
}
