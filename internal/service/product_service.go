package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-shop-api/internal/core/cache"
	"go-shop-api/internal/domain"
	"go-shop-api/internal/transport/http/ez"
	"go-shop-api/pkg/utils"
)

const cacheKeyCategories = "product:categories"

type ProductService struct {
	products domain.ProductRepository
	cache    *cache.Cache // 可为 nil（未配置 redis）
	ttl      time.Duration
	log      *zap.Logger
}

func NewProductService(products domain.ProductRepository, c *cache.Cache, ttl time.Duration, log *zap.Logger) *ProductService {
	return &ProductService{products: products, cache: c, ttl: ttl, log: log}
}

type CreateProductInput struct {
	Name          string          `json:"name" binding:"required,max=191"`
	Description   string          `json:"description" binding:"omitempty,max=1024"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	Category      string          `json:"category" binding:"required,max=64"`
	StockQuantity int             `json:"stockQuantity" binding:"min=0"`
}

// UpdateProductInput 显式 patch：nil 字段保留原值
type UpdateProductInput struct {
	Name          *string          `json:"name" binding:"omitempty,max=191"`
	Description   *string          `json:"description" binding:"omitempty,max=1024"`
	Price         *decimal.Decimal `json:"price"`
	Category      *string          `json:"category" binding:"omitempty,max=64"`
	StockQuantity *int             `json:"stockQuantity"`
}

type ProductOut struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stockQuantity"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*ProductOut, error) {
	if !in.Price.IsPositive() {
		return nil, ez.BadRequest("price must be greater than zero")
	}
	if in.StockQuantity < 0 {
		return nil, ez.BadRequest("stock quantity must not be negative")
	}
	p := &domain.Product{
		ID:            utils.NewID(),
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		Category:      strings.TrimSpace(in.Category),
		StockQuantity: in.StockQuantity,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, ez.Internal("create product failed", err)
	}
	s.invalidate(ctx, p.ID)
	return productOut(p), nil
}

func (s *ProductService) Update(ctx context.Context, id string, in UpdateProductInput) (*ProductOut, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, ez.Internal("find product failed", err)
	}
	if p == nil {
		return nil, ez.NotFound("product not found")
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, ez.BadRequest("price must be greater than zero")
		}
		p.Price = *in.Price
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return nil, ez.BadRequest("stock quantity must not be negative")
		}
		p.StockQuantity = *in.StockQuantity
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, ez.Internal("update product failed", err)
	}
	s.invalidate(ctx, p.ID)
	return productOut(p), nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ez.NotFound("product not found")
		}
		return ez.Internal("delete product failed", err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*ProductOut, error) {
	load := func(ctx context.Context) (*ProductOut, error) {
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, nil
		}
		return productOut(p), nil
	}

	var out *ProductOut
	var err error
	if s.cache != nil {
		out, err = cache.GetOrLoadJSON[ProductOut](s.cache, ctx, "product:"+id, s.ttl, load)
	} else {
		out, err = load(ctx)
	}
	if err != nil {
		return nil, ez.Internal("find product failed", err)
	}
	if out == nil {
		return nil, ez.NotFound("product not found")
	}
	return out, nil
}

func (s *ProductService) List(ctx context.Context, page, size int) (*Page[ProductOut], error) {
	offset, limit, p, sz := pageWindow(page, size)
	ps, total, err := s.products.List(ctx, offset, limit)
	if err != nil {
		return nil, ez.Internal("list products failed", err)
	}
	return productPage(ps, total, p, sz), nil
}

func (s *ProductService) Search(ctx context.Context, name string, page, size int) (*Page[ProductOut], error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ez.BadRequest("name is required")
	}
	offset, limit, p, sz := pageWindow(page, size)
	ps, total, err := s.products.SearchByName(ctx, name, offset, limit)
	if err != nil {
		return nil, ez.Internal("search products failed", err)
	}
	return productPage(ps, total, p, sz), nil
}

func (s *ProductService) ListByCategory(ctx context.Context, category string, page, size int) (*Page[ProductOut], error) {
	offset, limit, p, sz := pageWindow(page, size)
	ps, total, err := s.products.ListByCategory(ctx, category, offset, limit)
	if err != nil {
		return nil, ez.Internal("list products failed", err)
	}
	return productPage(ps, total, p, sz), nil
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	load := func(ctx context.Context) (*[]string, error) {
		cats, err := s.products.Categories(ctx)
		if err != nil {
			return nil, err
		}
		return &cats, nil
	}

	var cats *[]string
	var err error
	if s.cache != nil {
		cats, err = cache.GetOrLoadJSON[[]string](s.cache, ctx, cacheKeyCategories, s.ttl, load)
	} else {
		cats, err = load(ctx)
	}
	if err != nil {
		return nil, ez.Internal("list categories failed", err)
	}
	if cats == nil {
		return []string{}, nil
	}
	return *cats, nil
}

// invalidate 商品写路径后清缓存；库存读写从不走缓存（见 OrderService）
func (s *ProductService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "product:"+id, cacheKeyCategories); err != nil {
		s.log.Warn("cache invalidate failed", zap.String("product", id), zap.Error(err))
	}
}

func productOut(p *domain.Product) *ProductOut {
	return &ProductOut{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func productPage(ps []domain.Product, total int64, page, size int) *Page[ProductOut] {
	items := make([]ProductOut, 0, len(ps))
	for i := range ps {
		items = append(items, *productOut(&ps[i]))
	}
	return &Page[ProductOut]{Items: items, Total: total, Page: page, Size: size}
}
