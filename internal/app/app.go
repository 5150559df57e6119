// Package app 两个入口（api / admin）共用的装配逻辑
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"llm-usage-ledger/internal/core/cache"
	"llm-usage-ledger/internal/core/config"
	"llm-usage-ledger/internal/core/database"
	"llm-usage-ledger/internal/core/logger"
	"llm-usage-ledger/internal/core/tracing"
	"llm-usage-ledger/internal/repo"
	"llm-usage-ledger/internal/service"
	"llm-usage-ledger/internal/transport/http/handler"
	"llm-usage-ledger/internal/transport/http/router"
)

// NewLogger 按配置构造 zap，并把标准库 log / gin 默认输出接进来
func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	l, sync := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Service:     cfg.App.Name,
		Env:         cfg.App.Env,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File != "",
			Filename:   cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		},
	})
	undo := logger.RedirectStdLog(l, zapcore.InfoLevel)
	gin.DefaultWriter = logger.ToWriter(l, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l, zapcore.ErrorLevel)
	return l, func() {
		undo()
		sync()
	}
}

// App 装配好的依赖
type App struct {
	Store   *repo.Store
	Cache   *cache.Cache
	Modules *router.Registry

	closers []func(context.Context) error
}

// New 打开数据库（可选迁移）、缓存、tracing，组装 service 与 handler
func New(ctx context.Context, cfg *config.Config, l *zap.Logger, serviceName string) (*App, error) {
	a := &App{}

	shutdown, err := tracing.Init(ctx, l, tracing.Config{
		Enabled:     cfg.Trace.Enabled,
		ServiceName: serviceName,
		Environment: cfg.App.Env,
		Exporter:    cfg.Trace.Exporter,
		Endpoint:    cfg.Trace.Endpoint,
		Insecure:    cfg.Trace.Insecure,
		SampleRatio: cfg.Trace.SampleRatio,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, shutdown)

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SlowThresholdMs:    cfg.DB.SlowThresholdMs,
		PrepareStmt:        cfg.DB.PrepareStmt,
		Logger:             l,
	})
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("db open: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	l.Info("database connected", zap.String("driver", cfg.DB.Driver), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}
	a.Store = repo.NewStore(db)

	if cfg.Redis.Addr != "" {
		a.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		a.closers = append(a.closers, func(context.Context) error { return a.Cache.Close() })
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := a.Cache.Ping(pctx); err != nil {
			// redis 不可用时统计照样回源，只是没有缓存
			l.Warn("redis ping failed, stats will bypass cache until it recovers", zap.Error(err))
		} else {
			l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
		cancel()
	}

	stats := service.NewStatsCache(a.Cache, time.Duration(cfg.Cache.StatsTTLSec)*time.Second, cfg.Cache.KeyPrefix, l)
	llms := service.NewLlmService(a.Store, stats, l)
	usage := service.NewUsageService(a.Store, stats, l)
	users := service.NewUserService(a.Store, stats, l)

	a.Modules = router.NewRegistry(
		handler.NewLlmHandler(llms, usage),
		handler.NewUsageHandler(usage),
		handler.NewUserHandler(users, usage),
	)
	return a, nil
}

// Limits 配置 → 路由入口保护参数
func Limits(cfg *config.Config) router.Limits {
	return router.Limits{
		RPS:           cfg.Limits.RPS,
		Burst:         cfg.Limits.Burst,
		MaxConcurrent: cfg.Limits.MaxConcurrent,
		MaxBodyBytes:  cfg.Limits.MaxBodyBytes,
		Timeout:       time.Duration(cfg.Limits.RequestTimeoutSec) * time.Second,
	}
}

// Close 逆序释放
func (a *App) Close(ctx context.Context) error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
