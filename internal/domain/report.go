package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type TopUser struct {
	UserID     string          `json:"userId"`
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	OrderCount int64           `json:"orderCount"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

type UserAverageTicket struct {
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	AverageTicket decimal.Decimal `json:"averageTicket"`
}

type MonthlyRevenue struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	OrderCount   int64           `json:"orderCount"`
}

// ReportRepository 只读聚合，全部限定 PAID 订单
type ReportRepository interface {
	TopUsersBySpending(ctx context.Context, limit int) ([]TopUser, error)
	AverageTicketByUser(ctx context.Context) ([]UserAverageTicket, error)
	RevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error)
}
