package service

import (
	"context"
	"time"

	"go-shop-api/internal/domain"
	"go-shop-api/internal/transport/http/ez"
)

const topUsersLimit = 5

type ReportService struct {
	reports domain.ReportRepository
}

func NewReportService(reports domain.ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

func (s *ReportService) TopUsers(ctx context.Context) ([]domain.TopUser, error) {
	rows, err := s.reports.TopUsersBySpending(ctx, topUsersLimit)
	if err != nil {
		return nil, ez.Internal("top users report failed", err)
	}
	return rows, nil
}

func (s *ReportService) AverageTickets(ctx context.Context) ([]domain.UserAverageTicket, error) {
	rows, err := s.reports.AverageTicketByUser(ctx)
	if err != nil {
		return nil, ez.Internal("average ticket report failed", err)
	}
	return rows, nil
}

// MonthlyRevenue 自然月闭区间 [1 号 00:00:00, 月末 23:59:59]；
// 空月份返回 0 值，不报错
func (s *ReportService) MonthlyRevenue(ctx context.Context, year, month int) (*domain.MonthlyRevenue, error) {
	if month < 1 || month > 12 {
		return nil, ez.BadRequest("month must be between 1 and 12")
	}
	if year < 1 {
		return nil, ez.BadRequest("year must be positive")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	total, count, err := s.reports.RevenueBetween(ctx, from, to)
	if err != nil {
		return nil, ez.Internal("monthly revenue report failed", err)
	}
	return &domain.MonthlyRevenue{
		Year:         year,
		Month:        month,
		TotalRevenue: total,
		OrderCount:   count,
	}, nil
}
