package repo

import (
	"context"

	"gorm.io/gorm"

	"go-shop-api/internal/domain"
)

// NewRepos 在同一个 *gorm.DB（或事务句柄）上组装仓储集合
func NewRepos(db *gorm.DB) domain.Repos {
	return domain.Repos{
		Users:    NewUserRepo(db),
		Products: NewProductRepo(db),
		Orders:   NewOrderRepo(db),
	}
}

type TxManager struct{ db *gorm.DB }

func NewTxManager(db *gorm.DB) *TxManager { return &TxManager{db: db} }

// InTx fn 内的仓储全部绑定到同一个数据库事务；fn 报错整体回滚
func (m *TxManager) InTx(ctx context.Context, fn func(r domain.Repos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}
