package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-shop-api/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *ProductRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	var ps []domain.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ps).Error
	return ps, err
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProductRepo) List(ctx context.Context, offset, limit int) ([]domain.Product, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&domain.Product{}), offset, limit)
}

func (r *ProductRepo) SearchByName(ctx context.Context, name string, offset, limit int) ([]domain.Product, int64, error) {
	// LOWER 两侧转小写，MySQL/Postgres 通吃
	tx := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%")
	return r.page(tx, offset, limit)
}

func (r *ProductRepo) ListByCategory(ctx context.Context, category string, offset, limit int) ([]domain.Product, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Product{}).Where("category = ?", category)
	return r.page(tx, offset, limit)
}

func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Distinct("category").Order("category").Pluck("category", &cats).Error
	return cats, err
}

// DecrementStock 条件更新兜底：即便隔离级别只有 read-committed，
// stock_quantity >= qty 的 guard 也保证库存不会被并发扣成负数
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *ProductRepo) page(tx *gorm.DB, offset, limit int) ([]domain.Product, int64, error) {
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ps []domain.Product
	if err := tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&ps).Error; err != nil {
		return nil, 0, err
	}
	return ps, total, nil
}
