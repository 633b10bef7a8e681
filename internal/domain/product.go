package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInsufficientStock 带保护条件的扣减失败（库存不够）
var ErrInsufficientStock = errors.New("insufficient stock")

type Product struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	Name          string          `gorm:"size:191;not null" json:"name"`
	Description   string          `gorm:"size:1024" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Category      string          `gorm:"size:64;index" json:"category"`
	StockQuantity int             `gorm:"not null;default:0" json:"stockQuantity"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	// FindByIDs 按 id 集合批量取（订单校验一次往返）
	FindByIDs(ctx context.Context, ids []string) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]Product, int64, error)
	SearchByName(ctx context.Context, name string, offset, limit int) ([]Product, int64, error)
	ListByCategory(ctx context.Context, category string, offset, limit int) ([]Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	// DecrementStock 条件扣减：stock_quantity >= qty 才生效，否则 ErrInsufficientStock
	DecrementStock(ctx context.Context, id string, qty int) error
}
