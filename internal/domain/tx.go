package domain

import "context"

// Repos 同一事务（或同一连接）上的仓储集合
type Repos struct {
	Users    UserRepository
	Products ProductRepository
	Orders   OrderRepository
}

// TxManager 把 fn 里的所有写入收进一个事务：fn 返回 error 即整体回滚
type TxManager interface {
	InTx(ctx context.Context, fn func(r Repos) error) error
}
