package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go-shop-api/internal/domain"
)

// memStore 内存版持久层，配合 memTx 模拟“要么全部提交要么全部回滚”
type memStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	products map[string]*domain.Product
	orders   map[string]*domain.Order
	seq      int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*domain.User{},
		products: map[string]*domain.Product{},
		orders:   map[string]*domain.Order{},
	}
}

func (s *memStore) repos() domain.Repos {
	return domain.Repos{
		Users:    &memUsers{s: s},
		Products: &memProducts{s: s},
		Orders:   &memOrders{s: s},
	}
}

func (s *memStore) snapshot() (map[string]*domain.User, map[string]*domain.Product, map[string]*domain.Order, int) {
	users := make(map[string]*domain.User, len(s.users))
	for k, v := range s.users {
		u := *v
		users[k] = &u
	}
	products := make(map[string]*domain.Product, len(s.products))
	for k, v := range s.products {
		p := *v
		products[k] = &p
	}
	orders := make(map[string]*domain.Order, len(s.orders))
	for k, v := range s.orders {
		o := *v
		o.Items = append([]domain.OrderItem(nil), v.Items...)
		orders[k] = &o
	}
	return users, products, orders, s.seq
}

// memTx 错误即恢复快照，模拟数据库事务回滚
type memTx struct{ s *memStore }

func (t *memTx) InTx(_ context.Context, fn func(r domain.Repos) error) error {
	users, products, orders, seq := t.s.snapshot()
	if err := fn(t.s.repos()); err != nil {
		t.s.users, t.s.products, t.s.orders, t.s.seq = users, products, orders, seq
		return err
	}
	return nil
}

// ---------- users ----------

type memUsers struct{ s *memStore }

func (r *memUsers) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.FindByEmail(ctx, email)
	return u != nil, err
}

func (r *memUsers) List(_ context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.User
	for _, u := range r.s.users {
		if q == "" || strings.Contains(u.Email, q) || strings.Contains(u.Name, q) {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return window(all, offset, limit), int64(len(all)), nil
}

// ---------- products ----------

type memProducts struct{ s *memStore }

func (r *memProducts) Create(_ context.Context, p *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProducts) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *memProducts) FindByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProducts) Update(_ context.Context, p *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProducts) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return errNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *memProducts) List(_ context.Context, offset, limit int) ([]domain.Product, int64, error) {
	return r.filtered(func(*domain.Product) bool { return true }, offset, limit)
}

func (r *memProducts) SearchByName(_ context.Context, name string, offset, limit int) ([]domain.Product, int64, error) {
	needle := strings.ToLower(name)
	return r.filtered(func(p *domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}, offset, limit)
}

func (r *memProducts) ListByCategory(_ context.Context, category string, offset, limit int) ([]domain.Product, int64, error) {
	return r.filtered(func(p *domain.Product) bool { return p.Category == category }, offset, limit)
}

func (r *memProducts) Categories(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]struct{}{}
	var cats []string
	for _, p := range r.s.products {
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			cats = append(cats, p.Category)
		}
	}
	sort.Strings(cats)
	return cats, nil
}

func (r *memProducts) DecrementStock(_ context.Context, id string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.StockQuantity < qty {
		return domain.ErrInsufficientStock
	}
	p.StockQuantity -= qty
	return nil
}

func (r *memProducts) filtered(keep func(*domain.Product) bool, offset, limit int) ([]domain.Product, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.Product
	for _, p := range r.s.products {
		if keep(p) {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return window(all, offset, limit), int64(len(all)), nil
}

// ---------- orders ----------

type memOrders struct{ s *memStore }

func (r *memOrders) Create(_ context.Context, o *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	r.s.seq++
	// 递增时间戳，保证 newest-first 排序可断言
	cp.CreatedAt = time.Unix(int64(r.s.seq), 0)
	cp.UpdatedAt = cp.CreatedAt
	o.CreatedAt, o.UpdatedAt = cp.CreatedAt, cp.UpdatedAt
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *memOrders) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orders[id]; ok {
		cp := *o
		cp.Items = append([]domain.OrderItem(nil), o.Items...)
		return &cp, nil
	}
	return nil, nil
}

func (r *memOrders) ListByUser(_ context.Context, userID string, offset, limit int) ([]domain.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			cp := *o
			cp.Items = append([]domain.OrderItem(nil), o.Items...)
			all = append(all, cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return window(all, offset, limit), int64(len(all)), nil
}

func (r *memOrders) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return errNotFound
	}
	o.Status = status
	return nil
}

func window[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
