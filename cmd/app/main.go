package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"telegram-referral-bot/internal/application"
	"telegram-referral-bot/internal/config"
	tele "telegram-referral-bot/internal/infra/adapters/telegram"
	pg "telegram-referral-bot/internal/infra/db/postgres"
	"telegram-referral-bot/internal/infra/i18n"
	"telegram-referral-bot/internal/infra/logging"
	"telegram-referral-bot/internal/infra/metrics"
	red "telegram-referral-bot/internal/infra/redis"
	"telegram-referral-bot/internal/infra/web"
	"telegram-referral-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	codeRepo := pg.NewCodeRepo(pool)
	activityRepo, err := pg.NewActivityRepo(pool)
	if err != nil {
		logger.Fatal().Err(err).Msg("activity repo init failed")
	}
	tm := pg.NewTxManager(pool)

	// ---- Use cases ----
	policy := usecase.NewEligibilityPolicy(activityRepo, cfg.Referral.RateLimitWindow)
	codeUC := usecase.NewCodeUseCase(codeRepo, activityRepo, policy, tm, cfg.Referral.UsageLimit, logger)
	statsUC := usecase.NewStatsUseCase(codeRepo, activityRepo, logger)

	// ---- Facade + translator ----
	facade := application.NewBotFacade(codeUC, statsUC)
	translator, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Bot.Language)
	if err != nil {
		logger.Fatal().Err(err).Msg("translator init failed")
	}

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(cfg, facade, translator, rateLimiter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram init failed")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Admin HTTP server ----
	auth := web.NewAuthManager(cfg.Admin.Secret, cfg.Admin.TokenTTL)
	srv := web.NewServer(codeUC, statsUC, auth, cfg.Admin.Secret, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("admin http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	botAdapter.Reaper().Stop()
	_ = server.Shutdown(context.Background())
}
