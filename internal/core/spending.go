package core

import "github.com/shopspring/decimal"

// SpendingRow is one person's gift count and total.
type SpendingRow struct {
	PersonID   int64
	PersonName string
	GiftCount  int
	Total      decimal.Decimal
}

// AggregateSpending groups gifts per person, optionally restricted to year.
// Every person appears exactly once, in input order, including those with no
// gifts. Missing prices count as zero.
func AggregateSpending(people []Person, gifts []Gift, year *int) []SpendingRow {
	rows := make([]SpendingRow, len(people))
	index := make(map[int64]int, len(people))
	for i, p := range people {
		rows[i] = SpendingRow{PersonID: p.ID, PersonName: p.Name, Total: decimal.Zero}
		index[p.ID] = i
	}

	for _, g := range gifts {
		if year != nil && (g.Year == nil || *g.Year != *year) {
			continue
		}
		i, ok := index[g.PersonID]
		if !ok {
			continue
		}
		rows[i].GiftCount++
		rows[i].Total = rows[i].Total.Add(g.PriceOrZero())
	}
	return rows
}

// SpendingTotals sums a set of rows.
func SpendingTotals(rows []SpendingRow) (count int, total decimal.Decimal) {
	total = decimal.Zero
	for _, r := range rows {
		count += r.GiftCount
		total = total.Add(r.Total)
	}
	return count, total
}
