package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"llm-usage-ledger/internal/core/server"
	"llm-usage-ledger/internal/domain"
	mdw "llm-usage-ledger/internal/transport/http/middleware"
	resp "llm-usage-ledger/internal/transport/http/response"
)

// Pinger 健康检查依赖（repo.Store 实现）
type Pinger interface {
	Ping(ctx context.Context) error
}

// Limits 入口保护参数；零值字段用默认值
type Limits struct {
	RPS           float64
	Burst         int
	MaxConcurrent int64
	MaxBodyBytes  int64
	Timeout       time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.RPS <= 0 {
		l.RPS = 200
	}
	if l.Burst <= 0 {
		l.Burst = 400
	}
	if l.MaxConcurrent <= 0 {
		l.MaxConcurrent = 300
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 1 << 20
	}
	if l.Timeout <= 0 {
		l.Timeout = 10 * time.Second
	}
	return l
}

type Deps struct {
	ServiceName string
	Pinger      Pinger
	Modules     *Registry
	Limits      Limits
}

// NewAPIEngine 对外的账本接口，挂在根路径
func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	lim := d.Limits.withDefaults()
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		mdw.RequestID(),
		otelgin.Middleware(d.ServiceName),
		server.CORS(),
		mdw.RateLimitPerIP(rate.Limit(lim.RPS), lim.Burst),
		mdw.ConcurrencyLimit(lim.MaxConcurrent),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(lim.Timeout),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)
	mountFallbacks(r)

	r.GET("/health", health(d.Pinger))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	d.Modules.MountAllAPI(&r.RouterGroup)
	return r
}

func health(p Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			if err := p.Ping(c.Request.Context()); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": 0})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	}
}

// 未知路由 / 方法不匹配也走统一错误体
func mountFallbacks(r *gin.Engine) {
	r.NoRoute(func(c *gin.Context) { resp.Abort(c, domain.CodeNoHandlerFound, "") })
	r.NoMethod(func(c *gin.Context) { resp.Abort(c, domain.CodeMethodNotSupported, "") })
}
