package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"llm-usage-ledger/internal/app"
	"llm-usage-ledger/internal/core/config"
	"llm-usage-ledger/internal/core/server"
	"llm-usage-ledger/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := app.NewLogger(cfg)
	defer cleanup()
	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log, cfg.App.Name)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(cctx); err != nil {
			log.Warn("close resources", zap.Error(err))
		}
	}()

	r := router.NewAPIEngine(log, router.Deps{
		ServiceName: cfg.App.Name,
		Pinger:      a.Store,
		Modules:     a.Modules,
		Limits:      app.Limits(cfg),
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("ledger api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("ledger api stopped with error", zap.Error(err))
		return
	}
	log.Info("ledger api stopped gracefully")
}
