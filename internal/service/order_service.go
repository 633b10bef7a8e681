package service

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-shop-api/internal/domain"
	"go-shop-api/internal/transport/http/ez"
	"go-shop-api/pkg/utils"
)

var (
	ordersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "orders_created_total", Help: "Orders placed (PENDING)"})
	ordersPaid = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "orders_paid_total", Help: "Orders transitioned to PAID"})
	ordersCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "orders_cancelled_total", Help: "Orders cancelled at payment for lack of stock"})
)

func init() { prometheus.MustRegister(ordersCreated, ordersPaid, ordersCancelled) }

// errStockShort 支付复核失败的内部信号：让事务回滚，再走取消路径
var errStockShort = errors.New("stock short at payment")

type OrderService struct {
	tx     domain.TxManager
	orders domain.OrderRepository
	log    *zap.Logger
}

func NewOrderService(tx domain.TxManager, orders domain.OrderRepository, log *zap.Logger) *OrderService {
	return &OrderService{tx: tx, orders: orders, log: log}
}

type OrderItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CreateOrderInput struct {
	Items []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

type OrderItemOut struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

type OrderOut struct {
	ID          string             `json:"id"`
	Status      domain.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Items       []OrderItemOut     `json:"items"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Create 下单：校验商品与库存后落 PENDING 订单。
// 单价在此刻定格到行项上，之后支付不再回读商品价格。
// 这一步不动库存 —— 库存只在支付时扣减。
func (s *OrderService) Create(ctx context.Context, userID string, in CreateOrderInput) (*OrderOut, error) {
	if len(in.Items) == 0 {
		return nil, ez.BadRequest("items must not be empty")
	}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, ez.BadRequest("quantity must be at least 1")
		}
	}

	var out *OrderOut
	err := s.tx.InTx(ctx, func(r domain.Repos) error {
		ids := make([]string, 0, len(in.Items))
		seen := make(map[string]struct{}, len(in.Items))
		for _, it := range in.Items {
			if _, ok := seen[it.ProductID]; !ok {
				seen[it.ProductID] = struct{}{}
				ids = append(ids, it.ProductID)
			}
		}

		products, err := r.Products.FindByIDs(ctx, ids)
		if err != nil {
			return ez.Internal("load products failed", err)
		}
		if len(products) != len(ids) {
			return ez.NotFound("one or more products not found")
		}
		byID := make(map[string]*domain.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		// 第一次库存校验：只查不扣
		for _, it := range in.Items {
			p := byID[it.ProductID]
			if p.StockQuantity < it.Quantity {
				return ez.Conflict("insufficient stock for product: " + p.Name)
			}
		}

		order := &domain.Order{
			ID:     utils.NewID(),
			UserID: userID,
			Status: domain.OrderPending,
		}
		total := decimal.Zero
		for _, it := range in.Items {
			p := byID[it.ProductID]
			line := domain.OrderItem{
				ID:          utils.NewID(),
				OrderID:     order.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    it.Quantity,
				UnitPrice:   p.Price,
				TotalPrice:  p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
			}
			order.Items = append(order.Items, line)
			total = total.Add(line.TotalPrice)
		}
		order.TotalAmount = total

		if err := r.Orders.Create(ctx, order); err != nil {
			return ez.Internal("create order failed", err)
		}
		out = orderOut(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	ordersCreated.Inc()
	s.log.Info("order created",
		zap.String("order", out.ID),
		zap.String("user", userID),
		zap.String("total", out.TotalAmount.String()),
	)
	return out, nil
}

// Pay 支付：所有权 + PENDING 状态 + 库存复核，扣减与状态流转共一个事务。
// 复核失败时事务回滚（库存不动），订单随后单独落 CANCELLED —— 这是
// 有意的终态写入，不属于部分失败。
func (s *OrderService) Pay(ctx context.Context, userID, orderID string) (*OrderOut, error) {
	var out *OrderOut
	var shortName string

	err := s.tx.InTx(ctx, func(r domain.Repos) error {
		o, err := r.Orders.FindByID(ctx, orderID)
		if err != nil {
			return ez.Internal("load order failed", err)
		}
		if o == nil {
			return ez.NotFound("order not found")
		}
		if o.UserID != userID {
			return ez.Forbidden("order does not belong to current user")
		}
		if o.Status != domain.OrderPending {
			return ez.BadRequest("order is not pending")
		}

		// 第二次库存校验：下单到支付之间库存可能已被并发订单吃掉
		ids := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			ids = append(ids, it.ProductID)
		}
		products, err := r.Products.FindByIDs(ctx, ids)
		if err != nil {
			return ez.Internal("load products failed", err)
		}
		byID := make(map[string]*domain.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}
		for _, it := range o.Items {
			p, ok := byID[it.ProductID]
			if !ok || p.StockQuantity < it.Quantity {
				shortName = it.ProductName
				return errStockShort
			}
		}

		// 扣减：条件更新兜底复核与提交间的竞争
		for _, it := range o.Items {
			if err := r.Products.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					shortName = it.ProductName
					return errStockShort
				}
				return ez.Internal("decrement stock failed", err)
			}
		}

		if err := r.Orders.UpdateStatus(ctx, o.ID, domain.OrderPaid); err != nil {
			return ez.Internal("update order status failed", err)
		}
		o.Status = domain.OrderPaid
		out = orderOut(o)
		return nil
	})

	if errors.Is(err, errStockShort) {
		// 终态：取消单独提交，库存保持原样
		if e := s.orders.UpdateStatus(ctx, orderID, domain.OrderCancelled); e != nil {
			s.log.Error("cancel order failed", zap.String("order", orderID), zap.Error(e))
		}
		ordersCancelled.Inc()
		s.log.Warn("order cancelled at payment",
			zap.String("order", orderID),
			zap.String("product", shortName),
		)
		return nil, ez.Conflict("insufficient stock for product: " + shortName + ". Order cancelled.")
	}
	if err != nil {
		return nil, err
	}

	ordersPaid.Inc()
	s.log.Info("order paid", zap.String("order", orderID), zap.String("user", userID))
	return out, nil
}

func (s *OrderService) Get(ctx context.Context, userID, orderID string) (*OrderOut, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, ez.Internal("load order failed", err)
	}
	if o == nil {
		return nil, ez.NotFound("order not found")
	}
	if o.UserID != userID {
		return nil, ez.Forbidden("order does not belong to current user")
	}
	return orderOut(o), nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID string, page, size int) (*Page[OrderOut], error) {
	offset, limit, p, sz := pageWindow(page, size)
	orders, total, err := s.orders.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, ez.Internal("list orders failed", err)
	}
	items := make([]OrderOut, 0, len(orders))
	for i := range orders {
		items = append(items, *orderOut(&orders[i]))
	}
	return &Page[OrderOut]{Items: items, Total: total, Page: p, Size: sz}, nil
}

func orderOut(o *domain.Order) *OrderOut {
	items := make([]OrderItemOut, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemOut{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	return &OrderOut{
		ID:          o.ID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
