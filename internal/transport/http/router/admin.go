package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-shop-api/internal/core/auth"
	"go-shop-api/internal/core/server"
	"go-shop-api/internal/domain"
	"go-shop-api/internal/service"
	httpez "go-shop-api/internal/transport/http/ez"
	mdw "go-shop-api/internal/transport/http/middleware"
)

type AdminDeps struct {
	Products *service.ProductService
	Reports  *service.ReportService
	Users    domain.UserRepository
}

func NewAdminEngine(l *zap.Logger, jwter *auth.JWTer, deps AdminDeps) *gin.Engine {
	r := server.NewEngine(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 管理端 v1（统一要求 ADMIN 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, domain.RoleAdmin))

	mountProductAdminActions(admin, deps.Products)
	mountReportActions(admin, deps.Reports)
	mountUserAdminActions(admin, deps.Users)

	return r
}

// ---------- 商品管理：增 / 改（显式 patch） / 删 ----------

func mountProductAdminActions(admin *gin.RouterGroup, svc *service.ProductService) {
	ez := httpez.New(admin)

	httpez.RegisterAction[service.CreateProductInput, *service.ProductOut](ez, httpez.Action[service.CreateProductInput, *service.ProductOut]{
		Method: http.MethodPost,
		Path:   "/products",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.CreateProductInput) (*service.ProductOut, error) {
			return svc.Create(c, *in)
		},
	})

	httpez.RegisterAction[service.UpdateProductInput, *service.ProductOut](ez, httpez.Action[service.UpdateProductInput, *service.ProductOut]{
		Method: http.MethodPut,
		Path:   "/products/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.UpdateProductInput) (*service.ProductOut, error) {
			return svc.Update(c, c.Param("id"), *in)
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/products/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := svc.Delete(c, c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})
}

// ---------- 报表：只读聚合，全部限定 PAID ----------

func mountReportActions(admin *gin.RouterGroup, svc *service.ReportService) {
	ez := httpez.New(admin)

	httpez.RegisterAction[struct{}, []domain.TopUser](ez, httpez.Action[struct{}, []domain.TopUser]{
		Method: http.MethodGet,
		Path:   "/reports/top-users",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.TopUser, error) {
			return svc.TopUsers(c)
		},
	})

	httpez.RegisterAction[struct{}, []domain.UserAverageTicket](ez, httpez.Action[struct{}, []domain.UserAverageTicket]{
		Method: http.MethodGet,
		Path:   "/reports/average-tickets",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.UserAverageTicket, error) {
			return svc.AverageTickets(c)
		},
	})

	type revenueQ struct {
		Year  int `form:"year" binding:"required"`
		Month int `form:"month" binding:"required"`
	}
	httpez.RegisterAction[revenueQ, *domain.MonthlyRevenue](ez, httpez.Action[revenueQ, *domain.MonthlyRevenue]{
		Method: http.MethodGet,
		Path:   "/reports/monthly-revenue",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *revenueQ) (*domain.MonthlyRevenue, error) {
			return svc.MonthlyRevenue(c, in.Year, in.Month)
		},
	})
}

// ---------- 用户列表 ----------

func mountUserAdminActions(admin *gin.RouterGroup, users domain.UserRepository) {
	ez := httpez.New(admin)

	type listQ struct {
		Page int    `form:"page,default=0"`
		Size int    `form:"size,default=20"`
		Q    string `form:"q"` // 按 email/name 模糊搜
	}
	type row struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		Role      string    `json:"role"`
		CreatedAt time.Time `json:"createdAt"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}

	httpez.RegisterAction[listQ, listOut](ez, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			if in.Size <= 0 || in.Size > 100 {
				in.Size = 20
			}
			if in.Page < 0 {
				in.Page = 0
			}
			us, total, err := users.List(c, in.Q, in.Page*in.Size, in.Size)
			if err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}
			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, row{
					ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})
}
