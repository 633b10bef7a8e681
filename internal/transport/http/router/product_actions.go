package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-shop-api/internal/service"
	httpez "go-shop-api/internal/transport/http/ez"
)

// mountProductActions 商品公共读侧（无需登录）
func mountProductActions(api *gin.RouterGroup, svc *service.ProductService) {
	ez := httpez.New(api)

	httpez.RegisterAction[pageQ, *service.Page[service.ProductOut]](ez, httpez.Action[pageQ, *service.Page[service.ProductOut]]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (*service.Page[service.ProductOut], error) {
			return svc.List(c, in.Page, in.Size)
		},
	})

	type searchQ struct {
		Name string `form:"name" binding:"required"`
		Page int    `form:"page,default=0"`
		Size int    `form:"size,default=10"`
	}
	httpez.RegisterAction[searchQ, *service.Page[service.ProductOut]](ez, httpez.Action[searchQ, *service.Page[service.ProductOut]]{
		Method: http.MethodGet,
		Path:   "/products/search",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *searchQ) (*service.Page[service.ProductOut], error) {
			return svc.Search(c, in.Name, in.Page, in.Size)
		},
	})

	httpez.RegisterAction[struct{}, []string](ez, httpez.Action[struct{}, []string]{
		Method: http.MethodGet,
		Path:   "/products/categories",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]string, error) {
			return svc.Categories(c)
		},
	})

	httpez.RegisterAction[pageQ, *service.Page[service.ProductOut]](ez, httpez.Action[pageQ, *service.Page[service.ProductOut]]{
		Method: http.MethodGet,
		Path:   "/products/category/:category",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (*service.Page[service.ProductOut], error) {
			return svc.ListByCategory(c, c.Param("category"), in.Page, in.Size)
		},
	})

	httpez.RegisterAction[struct{}, *service.ProductOut](ez, httpez.Action[struct{}, *service.ProductOut]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.ProductOut, error) {
			return svc.Get(c, c.Param("id"))
		},
	})
}
