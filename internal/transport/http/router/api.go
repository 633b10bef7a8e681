package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-shop-api/internal/core/auth"
	"go-shop-api/internal/core/server"
	"go-shop-api/internal/service"
	httpez "go-shop-api/internal/transport/http/ez"
	mdw "go-shop-api/internal/transport/http/middleware"
)

// pageQ 列表通用分页入参（page 从 0 起）
type pageQ struct {
	Page int `form:"page,default=0"`
	Size int `form:"size,default=10"`
}

type APIDeps struct {
	Auth     *service.AuthService
	Products *service.ProductService
	Orders   *service.OrderService
}

func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, deps APIDeps) *gin.Engine {
	r := server.NewEngine(l)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.RateLimitPerIP(20, 40),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// 鉴权分组（/me、订单都挂这里才能拿到 userId）
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, ""))

	mountAuthActions(api, authed, deps.Auth)
	mountProductActions(api, deps.Products)
	mountOrderActions(authed, deps.Orders)

	return r
}

// ---------- 动作注册：/auth/register + /auth/login + /me ----------

func mountAuthActions(api, authed *gin.RouterGroup, svc *service.AuthService) {
	ezPublic := httpez.New(api)

	httpez.RegisterAction[service.RegisterInput, *service.AuthOut](ezPublic, httpez.Action[service.RegisterInput, *service.AuthOut]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.RegisterInput) (*service.AuthOut, error) {
			return svc.Register(c, *in)
		},
	})

	httpez.RegisterAction[service.LoginInput, *service.AuthOut](ezPublic, httpez.Action[service.LoginInput, *service.AuthOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.LoginInput) (*service.AuthOut, error) {
			return svc.Login(c, *in)
		},
	})

	ezAuth := httpez.New(authed)

	httpez.RegisterAction[struct{}, *service.UserOut](ezAuth, httpez.Action[struct{}, *service.UserOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.UserOut, error) {
			return svc.Me(c, c.GetString("userId"))
		},
	})
}
