package services

import (
	"context"
	"time"

	"giftguardian/internal/core"
	"giftguardian/internal/storage"

	"github.com/shopspring/decimal"
)

// SpendingReport is the stats page: one row per person plus totals.
type SpendingReport struct {
	Rows      []core.SpendingRow
	Year      *int
	Years     []int
	GiftCount int
	Total     decimal.Decimal
}

type StatsService struct {
	store *storage.SQLiteRepository
}

func NewStatsService(store *storage.SQLiteRepository) *StatsService {
	return &StatsService{store: store}
}

// Spending aggregates gift prices per person, restricted to year when set.
func (s *StatsService) Spending(ctx context.Context, year *int, today time.Time) (SpendingReport, error) {
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return SpendingReport{}, err
	}
	gifts, err := s.store.ListGifts(ctx)
	if err != nil {
		return SpendingReport{}, err
	}

	rows := core.AggregateSpending(people, gifts, year)
	count, total := core.SpendingTotals(rows)
	return SpendingReport{
		Rows:      rows,
		Year:      year,
		Years:     core.AvailableYears(gifts, today),
		GiftCount: count,
		Total:     total,
	}, nil
}
