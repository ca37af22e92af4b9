package services

import (
	"context"
	"time"

	"giftguardian/internal/core"
	"giftguardian/internal/storage"
)

// RecentGiftsLimit is how many of the newest gifts the dashboard lists.
const RecentGiftsLimit = 5

type Dashboard struct {
	Upcoming    []core.UpcomingEvent
	Ranked      []core.UpcomingEvent
	RecentGifts []core.Gift
}

// More is how many ranked events did not fit the dashboard.
func (d Dashboard) More() int {
	return len(d.Ranked) - len(d.Upcoming)
}

type DashboardService struct {
	store *storage.SQLiteRepository
}

func NewDashboardService(store *storage.SQLiteRepository) *DashboardService {
	return &DashboardService{store: store}
}

// Load ranks every birthday and occasion relative to today. Nothing is
// cached; the ranking is rebuilt on each call. Same-day events keep the
// order people were added in.
func (s *DashboardService) Load(ctx context.Context, today time.Time) (Dashboard, error) {
	people, err := s.store.ListPeopleInStoreOrder(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	occasions, err := s.store.ListPersonOccasions(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := s.store.RecentGifts(ctx, RecentGiftsLimit)
	if err != nil {
		return Dashboard{}, err
	}

	ranked := core.RankUpcoming(core.GroupSchedules(people, occasions), today)
	return Dashboard{
		Upcoming:    core.TopUpcoming(ranked, core.DashboardUpcomingLimit),
		Ranked:      ranked,
		RecentGifts: recent,
	}, nil
}
