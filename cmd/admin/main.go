package main

import (
	"context"
	"flag"
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
	"llm-usage-ledger/internal/core/auth"
	"llm-usage-ledger/internal/core/config"
	"llm-usage-ledger/internal/core/server"
	"llm-usage-ledger/internal/transport/http/router"
)

func main() {
	issue := flag.Bool("issue-token", false, "print an admin token and exit")
	uid := flag.String("uid", "admin", "subject uid for -issue-token")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := app.NewLogger(cfg)
	defer cleanup()

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret is empty; set APP_JWT_SECRET")
	}
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	if *issue {
		tok, err := jwter.Issue(*uid, auth.RoleAdmin)
		if err != nil {
			log.Fatal("issue token", zap.Error(err))
		}
		fmt.Println(tok)
		return
	}
	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log, cfg.App.Name+"-admin")
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Close(cctx)
	}()

	r := router.NewAdminEngine(log, router.Deps{
		Pinger:  a.Store,
		Modules: a.Modules,
		Limits:  app.Limits(cfg),
	}, jwter)

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	// 启动前打印可点击地址
	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("admin api stopped with error", zap.Error(err))
		return
	}
	log.Info("admin api stopped gracefully")
}
