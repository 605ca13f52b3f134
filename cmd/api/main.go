package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lawbridge-platform/internal/accounts"
	"lawbridge-platform/internal/advocates"
	"lawbridge-platform/internal/auth"
	"lawbridge-platform/internal/calls"
	"lawbridge-platform/internal/config"
	"lawbridge-platform/internal/httpapi"
	"lawbridge-platform/internal/mail"
	"lawbridge-platform/internal/otp"
	"lawbridge-platform/internal/telephony"
	"lawbridge-platform/internal/wallet"
	"lawbridge-platform/pkg/logger"
	"lawbridge-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	var mailer mail.Sender
	if cfg.Resend.APIKey != "" {
		mailer = mail.NewResendClient(cfg.Resend)
	} else {
		log.Warn("RESEND_API_KEY not set, mail delivery disabled")
		mailer = mail.NewDisabled(log)
	}

	accountsSvc := accounts.NewService(db)
	advocatesSvc := advocates.NewService(db)
	walletSvc := wallet.NewService(db)
	otpSvc := otp.NewService(otp.NewRedisStore(rdb), mailer, log)

	gateway := telephony.NewExotelClient(cfg.Exotel)
	callStore := calls.NewPostgresStore(db)
	engine := calls.NewEngine(callStore, walletSvc, advocatesSvc, gateway, cfg.Billing, log)

	if cfg.App.AdminEmail != "" {
		if _, err := accountsSvc.EnsureAdmin(rootCtx, cfg.App.AdminEmail); err != nil {
			log.Error("admin bootstrap failed", "err", err)
			os.Exit(1)
		}
	}

	api := httpapi.New(authManager, otpSvc, accountsSvc, advocatesSvc, walletSvc, engine, mailer)
	webhooks := telephony.NewWebhookHandler(engine, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, api, webhooks, auth.RequireAccessToken(authManager), db, rdb)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
