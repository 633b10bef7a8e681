package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-shop-api/internal/service"
	httpez "go-shop-api/internal/transport/http/ez"
)

// mountOrderActions 订单侧全部要求登录；身份取自中间件写入的 userId
func mountOrderActions(authed *gin.RouterGroup, svc *service.OrderService) {
	ez := httpez.New(authed)

	httpez.RegisterAction[service.CreateOrderInput, *service.OrderOut](ez, httpez.Action[service.CreateOrderInput, *service.OrderOut]{
		Method: http.MethodPost,
		Path:   "/orders",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.CreateOrderInput) (*service.OrderOut, error) {
			return svc.Create(c, c.GetString("userId"), *in)
		},
	})

	httpez.RegisterAction[struct{}, *service.OrderOut](ez, httpez.Action[struct{}, *service.OrderOut]{
		Method: http.MethodPost,
		Path:   "/orders/:id/pay",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.OrderOut, error) {
			return svc.Pay(c, c.GetString("userId"), c.Param("id"))
		},
	})

	httpez.RegisterAction[pageQ, *service.Page[service.OrderOut]](ez, httpez.Action[pageQ, *service.Page[service.OrderOut]]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *pageQ) (*service.Page[service.OrderOut], error) {
			return svc.ListByUser(c, c.GetString("userId"), in.Page, in.Size)
		},
	})

	httpez.RegisterAction[struct{}, *service.OrderOut](ez, httpez.Action[struct{}, *service.OrderOut]{
		Method: http.MethodGet,
		Path:   "/orders/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.OrderOut, error) {
			return svc.Get(c, c.GetString("userId"), c.Param("id"))
		},
	})
}
