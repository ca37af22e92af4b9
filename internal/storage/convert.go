package storage

import (
	"database/sql"

	"giftguardian/internal/core"
)

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func int64FromNull(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func personParams(p core.Person) PersonParams {
	return PersonParams{
		Name:          p.Name,
		RelationID:    nullInt64(p.RelationID),
		BirthdayMonth: int64(p.BirthdayMonth),
		BirthdayDay:   int64(p.BirthdayDay),
		BirthdayYear:  nullInt(p.BirthdayYear),
	}
}

func toPerson(row Person) core.Person {
	return core.Person{
		ID:            row.ID,
		Name:          row.Name,
		RelationID:    int64FromNull(row.RelationID),
		RelationName:  row.RelationName.String,
		BirthdayMonth: int(row.BirthdayMonth),
		BirthdayDay:   int(row.BirthdayDay),
		BirthdayYear:  intFromNull(row.BirthdayYear),
	}
}

func toPersonOccasion(row PersonOccasion) core.PersonOccasion {
	return core.PersonOccasion{
		ID:           row.ID,
		PersonID:     row.PersonID,
		OccasionID:   row.OccasionID,
		OccasionName: row.OccasionName,
		Month:        int(row.Month),
		Day:          int(row.Day),
		Year:         intFromNull(row.Year),
	}
}

func toPersonOccasions(rows []PersonOccasion) []core.PersonOccasion {
	out := make([]core.PersonOccasion, len(rows))
	for i, row := range rows {
		out[i] = toPersonOccasion(row)
	}
	return out
}

func giftParams(g core.Gift) GiftParams {
	var cents sql.NullInt64
	if g.Price != nil {
		cents = sql.NullInt64{Int64: core.Cents(*g.Price), Valid: true}
	}
	return GiftParams{
		ItemName:   g.ItemName,
		PriceCents: cents,
		OccasionID: nullInt64(g.OccasionID),
		Year:       nullInt(g.Year),
		Status:     string(g.Status),
		ImagePath:  g.ImagePath,
		PersonID:   g.PersonID,
	}
}

func toGift(row Gift) core.Gift {
	g := core.Gift{
		ID:           row.ID,
		ItemName:     row.ItemName,
		OccasionID:   int64FromNull(row.OccasionID),
		OccasionName: row.OccasionName.String,
		Year:         intFromNull(row.Year),
		Status:       core.GiftStatus(row.Status),
		ImagePath:    row.ImagePath,
		PersonID:     row.PersonID,
		PersonName:   row.PersonName,
	}
	if row.PriceCents.Valid {
		p := core.PriceFromCents(row.PriceCents.Int64)
		g.Price = &p
	}
	return g
}

func toGifts(rows []Gift) []core.Gift {
	out := make([]core.Gift, len(rows))
	for i, row := range rows {
		out[i] = toGift(row)
	}
	return out
}
