package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-shop-api/internal/domain"
	"go-shop-api/internal/service"
	"go-shop-api/internal/transport/http/ez"
)

var errNotFound = gorm.ErrRecordNotFound

// requireAErr 断言错误带指定业务码
func requireAErr(t *testing.T, err error, code int) *ez.AErr {
	t.Helper()
	require.Error(t, err)
	var ae *ez.AErr
	require.ErrorAs(t, err, &ae)
	require.Equal(t, code, ae.Code, "unexpected error code, msg=%q", ae.Error())
	return ae
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newOrderFixture() (*memStore, *service.OrderService) {
	s := newMemStore()
	svc := service.NewOrderService(&memTx{s: s}, s.repos().Orders, zap.NewNop())
	return s, svc
}

func seedProduct(s *memStore, id, name, price string, stock int) {
	s.products[id] = &domain.Product{
		ID:            id,
		Name:          name,
		Price:         dec(price),
		Category:      "general",
		StockQuantity: stock,
	}
}

func seedUser(s *memStore, id, email, role string) {
	s.users[id] = &domain.User{ID: id, Email: email, Name: email, Role: role}
}

// 静态断言：内存仓储满足领域接口
var (
	_ domain.UserRepository    = (*memUsers)(nil)
	_ domain.ProductRepository = (*memProducts)(nil)
	_ domain.OrderRepository   = (*memOrders)(nil)
	_ domain.TxManager         = (*memTx)(nil)
)
