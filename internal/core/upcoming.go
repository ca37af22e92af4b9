package core

import (
	"fmt"
	"sort"
	"time"
)

// DashboardUpcomingLimit is how many upcoming events the dashboard shows.
const DashboardUpcomingLimit = 5

const (
	EventBirthday EventKind = "birthday"
	EventOccasion EventKind = "occasion"
)

type EventKind string

// PersonSchedule is a person together with their custom occasion dates,
// in the order the store returned them.
type PersonSchedule struct {
	Person    Person
	Occasions []PersonOccasion
}

// UpcomingEvent is one resolved birthday or occasion.
type UpcomingEvent struct {
	PersonID     int64
	PersonName   string
	Kind         EventKind
	OccasionName string
	Label        string
	Date         time.Time
	DaysUntil    int
	// Age the person turns; only set for birthdays with a known year.
	Age int
}

// RankUpcoming resolves every birthday and occasion and orders them soonest first.
// Events on the same day keep generation order: people in input order, each
// person's birthday before their occasions.
func RankUpcoming(people []PersonSchedule, today time.Time) []UpcomingEvent {
	events := make([]UpcomingEvent, 0, len(people))
	for _, ps := range people {
		p := ps.Person
		occ := NextOccurrence(p.Birthday(), today)
		events = append(events, UpcomingEvent{
			PersonID:   p.ID,
			PersonName: p.Name,
			Kind:       EventBirthday,
			Label:      fmt.Sprintf("%s's Birthday", p.Name),
			Date:       occ.Date,
			DaysUntil:  occ.DaysUntil,
			Age:        AgeOn(p.Birthday(), occ.Date),
		})

		for _, po := range ps.Occasions {
			occ := NextOccurrence(po.Rule(), today)
			events = append(events, UpcomingEvent{
				PersonID:     p.ID,
				PersonName:   p.Name,
				Kind:         EventOccasion,
				OccasionName: po.OccasionName,
				Label:        fmt.Sprintf("%s's %s", p.Name, po.OccasionName),
				Date:         occ.Date,
				DaysUntil:    occ.DaysUntil,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].DaysUntil < events[j].DaysUntil
	})
	return events
}

// TopUpcoming returns at most n events from a ranked list.
func TopUpcoming(events []UpcomingEvent, n int) []UpcomingEvent {
	if n < 0 {
		n = 0
	}
	if len(events) <= n {
		return events
	}
	return events[:n]
}

// GroupSchedules attaches occasions to their people, preserving both orders.
// Occasions whose person is not in people are dropped.
func GroupSchedules(people []Person, occasions []PersonOccasion) []PersonSchedule {
	byPerson := make(map[int64][]PersonOccasion, len(people))
	for _, po := range occasions {
		byPerson[po.PersonID] = append(byPerson[po.PersonID], po)
	}
	out := make([]PersonSchedule, len(people))
	for i, p := range people {
		out[i] = PersonSchedule{Person: p, Occasions: byPerson[p.ID]}
	}
	return out
}
