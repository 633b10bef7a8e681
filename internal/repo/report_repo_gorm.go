package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-shop-api/internal/domain"
)

type ReportRepo struct{ db *gorm.DB }

func NewReportRepo(db *gorm.DB) *ReportRepo { return &ReportRepo{db: db} }

// TopUsersBySpending 只统计 USER 角色；LEFT JOIN 让零消费用户也能上榜，
// 并列时按 email 升序
func (r *ReportRepo) TopUsersBySpending(ctx context.Context, limit int) ([]domain.TopUser, error) {
	var rows []domain.TopUser
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS user_id, u.email, u.name,
		       COUNT(CASE WHEN o.status = 'PAID' THEN o.id END)                    AS order_count,
		       COALESCE(SUM(CASE WHEN o.status = 'PAID' THEN o.total_amount END), 0) AS total_spent
		FROM users u
		LEFT JOIN orders o ON o.user_id = u.id
		WHERE u.role = 'USER'
		GROUP BY u.id, u.email, u.name
		ORDER BY total_spent DESC, u.email ASC
		LIMIT ?`, limit).Scan(&rows).Error
	return rows, err
}

func (r *ReportRepo) AverageTicketByUser(ctx context.Context) ([]domain.UserAverageTicket, error) {
	var rows []domain.UserAverageTicket
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.email, u.name, AVG(o.total_amount) AS average_ticket
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.status = 'PAID'
		GROUP BY u.id, u.email, u.name
		ORDER BY average_ticket DESC`).Scan(&rows).Error
	return rows, err
}

func (r *ReportRepo) RevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		TotalRevenue decimal.Decimal
		OrderCount   int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_amount), 0) AS total_revenue,
		       COUNT(id)                      AS order_count
		FROM orders
		WHERE status = 'PAID' AND created_at >= ? AND created_at <= ?`, from, to).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.TotalRevenue, row.OrderCount, nil
}
