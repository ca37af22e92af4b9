package storage

import "database/sql"

// Row types mirror the tables plus the joined display names.

type Relation struct {
	ID   int64
	Name string
}

type Occasion struct {
	ID   int64
	Name string
}

type Person struct {
	ID            int64
	Name          string
	RelationID    sql.NullInt64
	RelationName  sql.NullString
	BirthdayMonth int64
	BirthdayDay   int64
	BirthdayYear  sql.NullInt64
}

type PersonOccasion struct {
	ID           int64
	PersonID     int64
	OccasionID   int64
	OccasionName string
	Month        int64
	Day          int64
	Year         sql.NullInt64
}

type Gift struct {
	ID           int64
	ItemName     string
	PriceCents   sql.NullInt64
	OccasionID   sql.NullInt64
	OccasionName sql.NullString
	Year         sql.NullInt64
	Status       string
	ImagePath    string
	PersonID     int64
	PersonName   string
}
