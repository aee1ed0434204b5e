package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/practice-comms-hub/cmd/mainconfig"
	"github.com/wolfman30/practice-comms-hub/internal/api/router"
	"github.com/wolfman30/practice-comms-hub/internal/channels"
	"github.com/wolfman30/practice-comms-hub/internal/channels/email"
	"github.com/wolfman30/practice-comms-hub/internal/channels/sms"
	"github.com/wolfman30/practice-comms-hub/internal/channels/voice"
	"github.com/wolfman30/practice-comms-hub/internal/commlog"
	appconfig "github.com/wolfman30/practice-comms-hub/internal/config"
	"github.com/wolfman30/practice-comms-hub/internal/dispatch"
	"github.com/wolfman30/practice-comms-hub/internal/observability/metrics"
	"github.com/wolfman30/practice-comms-hub/internal/templates"
	"github.com/wolfman30/practice-comms-hub/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.NewForEnv(cfg.LogLevel, cfg.Env)
	logger.Info("starting practice-comms-hub API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
	} else {
		logger.Warn("DATABASE_URL not set; running with builtin templates and no audit persistence")
	}

	redisClient := buildRedisClient(ctx, cfg, logger)

	registry := prometheus.NewRegistry()
	dispatchMetrics := metrics.NewDispatchMetrics(registry)

	var templatePool templates.PgxPool
	var logPool commlog.PgxPool
	if pool != nil {
		templatePool = pool
		logPool = pool
	}
	templateStore := templates.NewStore(templatePool, redisClient, cfg.TemplateCacheTTL, logger)
	logStore := commlog.NewStore(logPool)
	recorder := commlog.NewRecorder(logStore, dispatchMetrics, logger)

	senders := buildSenders(ctx, cfg, logger)
	dispatcher := dispatch.NewDispatcher(templateStore, senders, recorder, dispatchMetrics, logger)

	routerCfg := &router.Config{
		Logger:           logger,
		DispatchHandler:  dispatch.NewHandler(dispatcher, logger),
		HistoryHandler:   commlog.NewHandler(logStore, logger),
		TemplatesHandler: templates.NewHandler(templateStore, logger),
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AdminJWTSecret:   cfg.AdminJWTSecret,
		SendRatePerMin:   cfg.SendRatePerMin,
		SendBurst:        cfg.SendBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildSenders wires one adapter per channel. Channels with no configured
// vendor are left out of the map; dispatching to them fails with a provider
// error rather than at startup.
func buildSenders(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) map[channels.Channel]channels.Sender {
	senders := map[channels.Channel]channels.Sender{}

	switch cfg.EmailProvider {
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config for SES", "error", err)
		} else if sender := email.NewSESSender(sesv2.NewFromConfig(awsCfg), email.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); sender != nil {
			senders[channels.Email] = sender
			logger.Info("email sender configured", "provider", "ses")
		}
	default:
		if sender := email.NewSendGridSender(email.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			senders[channels.Email] = sender
			logger.Info("email sender configured", "provider", "sendgrid")
		}
	}

	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		senders[channels.SMS] = sms.NewSender(sms.Config{
			AccountSID:       cfg.TwilioAccountSID,
			AuthToken:        cfg.TwilioAuthToken,
			FromNumber:       cfg.TwilioFromNumber,
			BaseURL:          cfg.TwilioBaseURL,
			SegmentRateCents: cfg.SMSSegmentRateCents,
		}, logger)
		logger.Info("sms sender configured", "provider", "twilio")
	}

	senders[channels.Voice] = voice.NewSender(cfg.VoiceFromNumber, logger)

	if _, ok := senders[channels.Email]; !ok {
		logger.Warn("no email sender configured; email dispatches will fail")
	}
	if _, ok := senders[channels.SMS]; !ok {
		logger.Warn("no sms sender configured; sms dispatches will fail")
	}
	return senders
}

// buildRedisClient returns a configured Redis client or nil when disabled.
// A failed ping disables the cache rather than aborting startup.
func buildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	options := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		options.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, template cache disabled", "error", err)
		return nil
	}
	return client
}
