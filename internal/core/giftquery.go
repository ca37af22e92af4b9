package core

import (
	"slices"
	"sort"
	"strings"
	"time"
)

const (
	SortDefault   GiftSort = "default"
	SortPriceAsc  GiftSort = "price_asc"
	SortPriceDesc GiftSort = "price_desc"
	SortNameAsc   GiftSort = "name_asc"
	SortNameDesc  GiftSort = "name_desc"
)

// GiftSort is the single ordering applied to a gift listing.
type GiftSort string

// ParseGiftSort maps unknown keys to SortDefault.
func ParseGiftSort(s string) GiftSort {
	switch gs := GiftSort(strings.TrimSpace(s)); gs {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return gs
	default:
		return SortDefault
	}
}

// GiftFilter narrows a gift listing. Zero values mean "no restriction" and
// the set fields are combined with AND.
type GiftFilter struct {
	PersonIDs  []int64
	OccasionID *int64
	Year       *int
	Status     GiftStatus
	Search     string
}

// IsEmpty reports whether the filter restricts nothing.
func (f GiftFilter) IsEmpty() bool {
	return len(f.PersonIDs) == 0 && f.OccasionID == nil && f.Year == nil &&
		f.Status == "" && strings.TrimSpace(f.Search) == ""
}

// Matches applies every set criterion to g.
func (f GiftFilter) Matches(g Gift) bool {
	if len(f.PersonIDs) > 0 && !slices.Contains(f.PersonIDs, g.PersonID) {
		return false
	}
	if f.OccasionID != nil && (g.OccasionID == nil || *g.OccasionID != *f.OccasionID) {
		return false
	}
	if f.Year != nil && (g.Year == nil || *g.Year != *f.Year) {
		return false
	}
	if f.Status != "" && g.Status != f.Status {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		if !strings.Contains(strings.ToLower(g.ItemName), strings.ToLower(q)) {
			return false
		}
	}
	return true
}

// QueryGifts filters and sorts gifts into a new slice; the input is untouched.
//
// The default order is newest first by id. Explicit sorts are stable over
// that order, so equal prices or names stay newest first. A missing price
// sorts as the lowest value.
func QueryGifts(gifts []Gift, f GiftFilter, by GiftSort) []Gift {
	out := make([]Gift, 0, len(gifts))
	for _, g := range gifts {
		if f.Matches(g) {
			out = append(out, g)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	switch by {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return priceLess(out[i], out[j]) })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return priceLess(out[j], out[i]) })
	case SortNameAsc:
		sort.SliceStable(out, func(i, j int) bool { return nameLess(out[i], out[j]) })
	case SortNameDesc:
		sort.SliceStable(out, func(i, j int) bool { return nameLess(out[j], out[i]) })
	}
	return out
}

func priceLess(a, b Gift) bool {
	switch {
	case a.Price == nil:
		return b.Price != nil
	case b.Price == nil:
		return false
	default:
		return a.Price.LessThan(*b.Price)
	}
}

// nameLess compares bytewise, like SQLite's default BINARY collation, so
// upper case sorts before lower case.
func nameLess(a, b Gift) bool {
	return a.ItemName < b.ItemName
}

// AvailableYears lists the distinct gift years, newest first, for the year
// filter. It falls back to the current year so the control is never empty.
func AvailableYears(gifts []Gift, now time.Time) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, g := range gifts {
		if g.Year == nil {
			continue
		}
		if _, ok := seen[*g.Year]; ok {
			continue
		}
		seen[*g.Year] = struct{}{}
		years = append(years, *g.Year)
	}
	if len(years) == 0 {
		return []int{now.Year()}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
