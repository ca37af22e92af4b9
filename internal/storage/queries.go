package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Relations

const listRelations = `SELECT id, name FROM relation ORDER BY name, id`

func (q *Queries) ListRelations(ctx context.Context) ([]Relation, error) {
	rows, err := q.db.QueryContext(ctx, listRelations)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Relation
	for rows.Next() {
		var i Relation
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createRelation = `INSERT INTO relation (name) VALUES (?) RETURNING id, name`

func (q *Queries) CreateRelation(ctx context.Context, name string) (Relation, error) {
	var i Relation
	err := q.db.QueryRowContext(ctx, createRelation, name).Scan(&i.ID, &i.Name)
	return i, err
}

const deleteRelation = `DELETE FROM relation WHERE id = ?`

func (q *Queries) DeleteRelation(ctx context.Context, id int64) (int64, error) {
	return execRows(ctx, q.db, deleteRelation, id)
}

const countRelationsByName = `SELECT COUNT(*) FROM relation WHERE name = ?`

func (q *Queries) CountRelationsByName(ctx context.Context, name string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countRelationsByName, name).Scan(&n)
	return n, err
}

// Occasions

const listOccasions = `SELECT id, name FROM occasion ORDER BY name, id`

func (q *Queries) ListOccasions(ctx context.Context) ([]Occasion, error) {
	rows, err := q.db.QueryContext(ctx, listOccasions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Occasion
	for rows.Next() {
		var i Occasion
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createOccasion = `INSERT INTO occasion (name) VALUES (?) RETURNING id, name`

func (q *Queries) CreateOccasion(ctx context.Context, name string) (Occasion, error) {
	var i Occasion
	err := q.db.QueryRowContext(ctx, createOccasion, name).Scan(&i.ID, &i.Name)
	return i, err
}

const deleteOccasion = `DELETE FROM occasion WHERE id = ?`

func (q *Queries) DeleteOccasion(ctx context.Context, id int64) (int64, error) {
	return execRows(ctx, q.db, deleteOccasion, id)
}

const countOccasionsByName = `SELECT COUNT(*) FROM occasion WHERE name = ?`

func (q *Queries) CountOccasionsByName(ctx context.Context, name string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countOccasionsByName, name).Scan(&n)
	return n, err
}

// People

const personColumns = `p.id, p.name, p.relation_id, r.name, p.birthday_month, p.birthday_day, p.birthday_year
FROM person p LEFT JOIN relation r ON r.id = p.relation_id`

func scanPerson(s interface{ Scan(...any) error }) (Person, error) {
	var i Person
	err := s.Scan(&i.ID, &i.Name, &i.RelationID, &i.RelationName, &i.BirthdayMonth, &i.BirthdayDay, &i.BirthdayYear)
	return i, err
}

const listPeople = `SELECT ` + personColumns + ` ORDER BY p.name, p.id`

const listPeopleByID = `SELECT ` + personColumns + ` ORDER BY p.id`

func (q *Queries) ListPeople(ctx context.Context) ([]Person, error) {
	return q.queryPeople(ctx, listPeople)
}

func (q *Queries) ListPeopleByID(ctx context.Context) ([]Person, error) {
	return q.queryPeople(ctx, listPeopleByID)
}

func (q *Queries) queryPeople(ctx context.Context, query string) ([]Person, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Person
	for rows.Next() {
		i, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getPerson = `SELECT ` + personColumns + ` WHERE p.id = ?`

func (q *Queries) GetPerson(ctx context.Context, id int64) (Person, error) {
	return scanPerson(q.db.QueryRowContext(ctx, getPerson, id))
}

type PersonParams struct {
	Name          string
	RelationID    sql.NullInt64
	BirthdayMonth int64
	BirthdayDay   int64
	BirthdayYear  sql.NullInt64
}

const createPerson = `INSERT INTO person (name, relation_id, birthday_month, birthday_day, birthday_year)
VALUES (?, ?, ?, ?, ?) RETURNING id`

func (q *Queries) CreatePerson(ctx context.Context, arg PersonParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createPerson,
		arg.Name, arg.RelationID, arg.BirthdayMonth, arg.BirthdayDay, arg.BirthdayYear,
	).Scan(&id)
	return id, err
}

const updatePerson = `UPDATE person
SET name = ?, relation_id = ?, birthday_month = ?, birthday_day = ?, birthday_year = ?
WHERE id = ?`

func (q *Queries) UpdatePerson(ctx context.Context, id int64, arg PersonParams) (int64, error) {
	return execRows(ctx, q.db, updatePerson,
		arg.Name, arg.RelationID, arg.BirthdayMonth, arg.BirthdayDay, arg.BirthdayYear, id)
}

const deletePerson = `DELETE FROM person WHERE id = ?`

func (q *Queries) DeletePerson(ctx context.Context, id int64) (int64, error) {
	return execRows(ctx, q.db, deletePerson, id)
}

const listGiftImagesByPerson = `SELECT image_path FROM gift WHERE person_id = ? AND image_path != '' ORDER BY id`

func (q *Queries) ListGiftImagesByPerson(ctx context.Context, personID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listGiftImagesByPerson, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// Person occasions

const personOccasionColumns = `po.id, po.person_id, po.occasion_id, o.name, po.month, po.day, po.year
FROM person_occasion po JOIN occasion o ON o.id = po.occasion_id`

func scanPersonOccasion(s interface{ Scan(...any) error }) (PersonOccasion, error) {
	var i PersonOccasion
	err := s.Scan(&i.ID, &i.PersonID, &i.OccasionID, &i.OccasionName, &i.Month, &i.Day, &i.Year)
	return i, err
}

const listPersonOccasions = `SELECT ` + personOccasionColumns + ` ORDER BY po.person_id, po.id`

func (q *Queries) ListPersonOccasions(ctx context.Context) ([]PersonOccasion, error) {
	return q.queryPersonOccasions(ctx, listPersonOccasions)
}

const listPersonOccasionsByPerson = `SELECT ` + personOccasionColumns + ` WHERE po.person_id = ? ORDER BY po.id`

func (q *Queries) ListPersonOccasionsByPerson(ctx context.Context, personID int64) ([]PersonOccasion, error) {
	return q.queryPersonOccasions(ctx, listPersonOccasionsByPerson, personID)
}

func (q *Queries) queryPersonOccasions(ctx context.Context, query string, args ...any) ([]PersonOccasion, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PersonOccasion
	for rows.Next() {
		i, err := scanPersonOccasion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getPersonOccasion = `SELECT ` + personOccasionColumns + ` WHERE po.id = ?`

func (q *Queries) GetPersonOccasion(ctx context.Context, id int64) (PersonOccasion, error) {
	return scanPersonOccasion(q.db.QueryRowContext(ctx, getPersonOccasion, id))
}

type CreatePersonOccasionParams struct {
	PersonID   int64
	OccasionID int64
	Month      int64
	Day        int64
	Year       sql.NullInt64
}

const createPersonOccasion = `INSERT INTO person_occasion (person_id, occasion_id, month, day, year)
VALUES (?, ?, ?, ?, ?) RETURNING id`

func (q *Queries) CreatePersonOccasion(ctx context.Context, arg CreatePersonOccasionParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createPersonOccasion,
		arg.PersonID, arg.OccasionID, arg.Month, arg.Day, arg.Year,
	).Scan(&id)
	return id, err
}

const deletePersonOccasion = `DELETE FROM person_occasion WHERE id = ?`

func (q *Queries) DeletePersonOccasion(ctx context.Context, id int64) (int64, error) {
	return execRows(ctx, q.db, deletePersonOccasion, id)
}

// Gifts

const giftColumns = `g.id, g.item_name, g.price_cents, g.occasion_id, o.name, g.year, g.status, g.image_path, g.person_id, p.name
FROM gift g
JOIN person p ON p.id = g.person_id
LEFT JOIN occasion o ON o.id = g.occasion_id`

func scanGift(s interface{ Scan(...any) error }) (Gift, error) {
	var i Gift
	err := s.Scan(&i.ID, &i.ItemName, &i.PriceCents, &i.OccasionID, &i.OccasionName,
		&i.Year, &i.Status, &i.ImagePath, &i.PersonID, &i.PersonName)
	return i, err
}

const listGifts = `SELECT ` + giftColumns + ` ORDER BY g.id DESC`

func (q *Queries) ListGifts(ctx context.Context) ([]Gift, error) {
	return q.queryGifts(ctx, listGifts)
}

const listGiftsByPerson = `SELECT ` + giftColumns + ` WHERE g.person_id = ? ORDER BY g.id DESC`

func (q *Queries) ListGiftsByPerson(ctx context.Context, personID int64) ([]Gift, error) {
	return q.queryGifts(ctx, listGiftsByPerson, personID)
}

const recentGifts = `SELECT ` + giftColumns + ` ORDER BY g.id DESC LIMIT ?`

func (q *Queries) RecentGifts(ctx context.Context, limit int64) ([]Gift, error) {
	return q.queryGifts(ctx, recentGifts, limit)
}

func (q *Queries) queryGifts(ctx context.Context, query string, args ...any) ([]Gift, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Gift
	for rows.Next() {
		i, err := scanGift(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getGift = `SELECT ` + giftColumns + ` WHERE g.id = ?`

func (q *Queries) GetGift(ctx context.Context, id int64) (Gift, error) {
	return scanGift(q.db.QueryRowContext(ctx, getGift, id))
}

type GiftParams struct {
	ItemName   string
	PriceCents sql.NullInt64
	OccasionID sql.NullInt64
	Year       sql.NullInt64
	Status     string
	ImagePath  string
	PersonID   int64
}

const createGift = `INSERT INTO gift (item_name, price_cents, occasion_id, year, status, image_path, person_id)
VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`

func (q *Queries) CreateGift(ctx context.Context, arg GiftParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createGift,
		arg.ItemName, arg.PriceCents, arg.OccasionID, arg.Year, arg.Status, arg.ImagePath, arg.PersonID,
	).Scan(&id)
	return id, err
}

const updateGift = `UPDATE gift
SET item_name = ?, price_cents = ?, occasion_id = ?, year = ?, status = ?, image_path = ?, person_id = ?
WHERE id = ?`

func (q *Queries) UpdateGift(ctx context.Context, id int64, arg GiftParams) (int64, error) {
	return execRows(ctx, q.db, updateGift,
		arg.ItemName, arg.PriceCents, arg.OccasionID, arg.Year, arg.Status, arg.ImagePath, arg.PersonID, id)
}

const deleteGift = `DELETE FROM gift WHERE id = ?`

func (q *Queries) DeleteGift(ctx context.Context, id int64) (int64, error) {
	return execRows(ctx, q.db, deleteGift, id)
}

func execRows(ctx context.Context, db DBTX, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
