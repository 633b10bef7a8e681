package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderCancelled OrderStatus = "CANCELLED"
	// SHIPPED/DELIVERED 由履约侧写入，本服务只读
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
)

type Order struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	UserID      string          `gorm:"size:36;index;not null" json:"userId"`
	Status      OrderStatus     `gorm:"size:16;not null;default:PENDING" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 下单时定格 unit_price / product_name，之后不再回读商品
type OrderItem struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	OrderID     string          `gorm:"size:36;index;not null" json:"-"`
	ProductID   string          `gorm:"size:36;index;not null" json:"productId"`
	ProductName string          `gorm:"size:191;not null" json:"productName"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
}

func (OrderItem) TableName() string { return "order_items" }

type OrderRepository interface {
	// Create 订单与行项一次写入
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]Order, int64, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error
}
