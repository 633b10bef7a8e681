package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shop-api/internal/service"
	resp "go-shop-api/internal/transport/http/response"
	"go.uber.org/zap"
)

func newProductFixture() (*memStore, *service.ProductService) {
	s := newMemStore()
	// 缓存置空，走直读路径
	svc := service.NewProductService(s.repos().Products, nil, time.Minute, zap.NewNop())
	return s, svc
}

func TestProductCreate(t *testing.T) {
	s, svc := newProductFixture()

	out, err := svc.Create(context.Background(), service.CreateProductInput{
		Name:          "  Keyboard  ",
		Description:   "mechanical",
		Price:         dec("49.90"),
		Category:      "peripherals",
		StockQuantity: 10,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Keyboard", out.Name, "name trimmed")
	assert.Equal(t, 10, out.StockQuantity)
	require.Contains(t, s.products, out.ID)
}

func TestProductCreate_InvalidPrice(t *testing.T) {
	_, svc := newProductFixture()

	for _, price := range []string{"0", "-1.50"} {
		_, err := svc.Create(context.Background(), service.CreateProductInput{
			Name: "Keyboard", Price: dec(price), Category: "peripherals",
		})
		requireAErr(t, err, resp.CodeBadRequest)
	}
}

func TestProductUpdate_ExplicitPatch(t *testing.T) {
	s, svc := newProductFixture()
	seedProduct(s, "p1", "Keyboard", "49.90", 10)
	s.products["p1"].Description = "mechanical"

	newPrice := dec("59.90")
	out, err := svc.Update(context.Background(), "p1", service.UpdateProductInput{
		Price: &newPrice,
	})
	require.NoError(t, err)

	// 只有传入的字段被改，其余保持原值
	assert.True(t, out.Price.Equal(dec("59.90")))
	assert.Equal(t, "Keyboard", out.Name)
	assert.Equal(t, "mechanical", out.Description)
	assert.Equal(t, 10, out.StockQuantity)

	// 显式置空描述
	empty := ""
	out, err = svc.Update(context.Background(), "p1", service.UpdateProductInput{
		Description: &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, "", out.Description)
	assert.True(t, out.Price.Equal(dec("59.90")))
}

func TestProductUpdate_Invalid(t *testing.T) {
	s, svc := newProductFixture()
	seedProduct(s, "p1", "Keyboard", "49.90", 10)

	bad := decimal.Zero
	_, err := svc.Update(context.Background(), "p1", service.UpdateProductInput{Price: &bad})
	requireAErr(t, err, resp.CodeBadRequest)

	neg := -1
	_, err = svc.Update(context.Background(), "p1", service.UpdateProductInput{StockQuantity: &neg})
	requireAErr(t, err, resp.CodeBadRequest)

	_, err = svc.Update(context.Background(), "ghost", service.UpdateProductInput{})
	requireAErr(t, err, resp.CodeNotFound)
}

func TestProductDelete(t *testing.T) {
	s, svc := newProductFixture()
	seedProduct(s, "p1", "Keyboard", "49.90", 10)

	require.NoError(t, svc.Delete(context.Background(), "p1"))
	assert.NotContains(t, s.products, "p1")

	err := svc.Delete(context.Background(), "p1")
	requireAErr(t, err, resp.CodeNotFound)
}

func TestProductGet(t *testing.T) {
	s, svc := newProductFixture()
	seedProduct(s, "p1", "Keyboard", "49.90", 10)

	out, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", out.Name)

	_, err = svc.Get(context.Background(), "ghost")
	requireAErr(t, err, resp.CodeNotFound)
}

func TestProductSearch(t *testing.T) {
	s, svc := newProductFixture()
	seedProduct(s, "p1", "Mechanical Keyboard", "49.90", 10)
	seedProduct(s, "p2", "Wireless Mouse", "19.90", 5)
	seedProduct(s, "p3", "Keyboard Wrist Rest", "9.90", 3)

	page, err := svc.Search(context.Background(), "keyboard", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total, "case-insensitive substring match")

	page, err = svc.Search(context.Background(), "trackball", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.Empty(t, page.Items)

	_, err = svc.Search(context.Background(), "   ", 0, 10)
	requireAErr(t, err, resp.CodeBadRequest)
}

func TestProductListByCategoryAndCategories(t *testing.T) {
	s, svc := newProductFixture()
	seedProduct(s, "p1", "Keyboard", "49.90", 10)
	seedProduct(s, "p2", "Mouse", "19.90", 5)
	s.products["p2"].Category = "accessories"

	page, err := svc.ListByCategory(context.Background(), "general", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "Keyboard", page.Items[0].Name)

	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"accessories", "general"}, cats)
}

func TestProductList_PageWindowDefaults(t *testing.T) {
	s, svc := newProductFixture()
	for i := 0; i < 12; i++ {
		seedProduct(s, string(rune('a'+i)), "P", "1.00", 1)
	}

	// size<=0 落到默认 10
	page, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 10, page.Size)

	// 负页码按第 0 页处理
	page, err = svc.List(context.Background(), -3, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Page)
	assert.Len(t, page.Items, 5)
}
