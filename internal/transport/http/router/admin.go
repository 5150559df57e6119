package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"llm-usage-ledger/internal/core/auth"
	"llm-usage-ledger/internal/core/server"
	mdw "llm-usage-ledger/internal/transport/http/middleware"
)

// NewAdminEngine 后台只读接口，/admin/v1 下统一要求 admin 角色
func NewAdminEngine(l *zap.Logger, d Deps, jwter *auth.JWTer) *gin.Engine {
	lim := d.Limits.withDefaults()
	r := server.NewRouter(l)
	r.HandleMethodNotAllowed = true
	// 后台流量小，整站一个桶
	r.Use(mdw.RequestID(), mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst))
	mountFallbacks(r)

	r.GET("/health", health(d.Pinger))

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, auth.RoleAdmin))
	d.Modules.MountAllAdmin(admin)
	return r
}
