package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"giftguardian/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateName    = errors.New("name already exists")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// dsn enables foreign keys on every pooled connection; cascades depend on it.
func dsn(dbPath string) string {
	return dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping backs the /readyz check.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Relations

func (r *SQLiteRepository) ListRelations(ctx context.Context) ([]core.Relation, error) {
	rows, err := r.queries.ListRelations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	out := make([]core.Relation, len(rows))
	for i, row := range rows {
		out[i] = core.Relation{ID: row.ID, Name: row.Name}
	}
	return out, nil
}

func (r *SQLiteRepository) RelationNameExists(ctx context.Context, name string) (bool, error) {
	n, err := r.queries.CountRelationsByName(ctx, name)
	if err != nil {
		return false, fmt.Errorf("count relations: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) CreateRelation(ctx context.Context, name string) (core.Relation, error) {
	row, err := r.queries.CreateRelation(ctx, name)
	if err != nil {
		return core.Relation{}, fmt.Errorf("create relation %q: %w", name, translate(err))
	}
	slog.InfoContext(ctx, "Relation saved", "id", row.ID, "name", row.Name)
	return core.Relation{ID: row.ID, Name: row.Name}, nil
}

func (r *SQLiteRepository) DeleteRelation(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteRelation(ctx, id)
	if err != nil {
		return fmt.Errorf("delete relation %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete relation %d: %w", id, ErrNotFound)
	}
	return nil
}

// Occasions

func (r *SQLiteRepository) ListOccasions(ctx context.Context) ([]core.Occasion, error) {
	rows, err := r.queries.ListOccasions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list occasions: %w", err)
	}
	out := make([]core.Occasion, len(rows))
	for i, row := range rows {
		out[i] = core.Occasion{ID: row.ID, Name: row.Name}
	}
	return out, nil
}

func (r *SQLiteRepository) OccasionNameExists(ctx context.Context, name string) (bool, error) {
	n, err := r.queries.CountOccasionsByName(ctx, name)
	if err != nil {
		return false, fmt.Errorf("count occasions: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) CreateOccasion(ctx context.Context, name string) (core.Occasion, error) {
	row, err := r.queries.CreateOccasion(ctx, name)
	if err != nil {
		return core.Occasion{}, fmt.Errorf("create occasion %q: %w", name, translate(err))
	}
	slog.InfoContext(ctx, "Occasion saved", "id", row.ID, "name", row.Name)
	return core.Occasion{ID: row.ID, Name: row.Name}, nil
}

// DeleteOccasion cascades to person occasions and clears the occasion of gifts.
func (r *SQLiteRepository) DeleteOccasion(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteOccasion(ctx, id)
	if err != nil {
		return fmt.Errorf("delete occasion %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete occasion %d: %w", id, ErrNotFound)
	}
	return nil
}

// People

// ListPeople orders people by name for display.
func (r *SQLiteRepository) ListPeople(ctx context.Context) ([]core.Person, error) {
	rows, err := r.queries.ListPeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return toPeople(rows), nil
}

// ListPeopleInStoreOrder returns people in insertion order, the order the
// upcoming ranking keeps for same-day events.
func (r *SQLiteRepository) ListPeopleInStoreOrder(ctx context.Context) ([]core.Person, error) {
	rows, err := r.queries.ListPeopleByID(ctx)
	if err != nil {
		return nil, fmt.Errorf("list people by id: %w", err)
	}
	return toPeople(rows), nil
}

func toPeople(rows []Person) []core.Person {
	out := make([]core.Person, len(rows))
	for i, row := range rows {
		out[i] = toPerson(row)
	}
	return out
}

func (r *SQLiteRepository) GetPerson(ctx context.Context, id int64) (core.Person, error) {
	row, err := r.queries.GetPerson(ctx, id)
	if err != nil {
		return core.Person{}, fmt.Errorf("get person %d: %w", id, translate(err))
	}
	return toPerson(row), nil
}

func (r *SQLiteRepository) CreatePerson(ctx context.Context, p core.Person) (core.Person, error) {
	id, err := r.queries.CreatePerson(ctx, personParams(p))
	if err != nil {
		return core.Person{}, fmt.Errorf("create person: %w", translate(err))
	}
	slog.InfoContext(ctx, "Person saved", "id", id, "name", p.Name)
	return r.GetPerson(ctx, id)
}

func (r *SQLiteRepository) UpdatePerson(ctx context.Context, p core.Person) error {
	n, err := r.queries.UpdatePerson(ctx, p.ID, personParams(p))
	if err != nil {
		return fmt.Errorf("update person %d: %w", p.ID, translate(err))
	}
	if n == 0 {
		return fmt.Errorf("update person %d: %w", p.ID, ErrNotFound)
	}
	return nil
}

// DeletePerson removes the person together with their occasions and gifts.
// It returns the image paths of the deleted gifts so the caller can remove
// the files.
func (r *SQLiteRepository) DeletePerson(ctx context.Context, id int64) ([]string, error) {
	var images []string
	err := r.withTx(ctx, func(q *Queries) error {
		var err error
		images, err = q.ListGiftImagesByPerson(ctx, id)
		if err != nil {
			return fmt.Errorf("list gift images: %w", err)
		}
		n, err := q.DeletePerson(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete person %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Person deleted", "id", id, "gift_images", len(images))
	return images, nil
}

// Person occasions

func (r *SQLiteRepository) ListPersonOccasions(ctx context.Context) ([]core.PersonOccasion, error) {
	rows, err := r.queries.ListPersonOccasions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list person occasions: %w", err)
	}
	return toPersonOccasions(rows), nil
}

func (r *SQLiteRepository) ListPersonOccasionsByPerson(ctx context.Context, personID int64) ([]core.PersonOccasion, error) {
	rows, err := r.queries.ListPersonOccasionsByPerson(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("list occasions of person %d: %w", personID, err)
	}
	return toPersonOccasions(rows), nil
}

func (r *SQLiteRepository) CreatePersonOccasion(ctx context.Context, po core.PersonOccasion) (core.PersonOccasion, error) {
	id, err := r.queries.CreatePersonOccasion(ctx, CreatePersonOccasionParams{
		PersonID:   po.PersonID,
		OccasionID: po.OccasionID,
		Month:      int64(po.Month),
		Day:        int64(po.Day),
		Year:       nullInt(po.Year),
	})
	if err != nil {
		return core.PersonOccasion{}, fmt.Errorf("create person occasion: %w", translate(err))
	}
	row, err := r.queries.GetPersonOccasion(ctx, id)
	if err != nil {
		return core.PersonOccasion{}, fmt.Errorf("get person occasion %d: %w", id, translate(err))
	}
	return toPersonOccasion(row), nil
}

// DeletePersonOccasion returns the deleted entry so callers know its owner.
func (r *SQLiteRepository) DeletePersonOccasion(ctx context.Context, id int64) (core.PersonOccasion, error) {
	var deleted PersonOccasion
	err := r.withTx(ctx, func(q *Queries) error {
		var err error
		deleted, err = q.GetPersonOccasion(ctx, id)
		if err != nil {
			return translate(err)
		}
		_, err = q.DeletePersonOccasion(ctx, id)
		return err
	})
	if err != nil {
		return core.PersonOccasion{}, fmt.Errorf("delete person occasion %d: %w", id, err)
	}
	return toPersonOccasion(deleted), nil
}

// Gifts

// ListGifts returns every gift, newest first.
func (r *SQLiteRepository) ListGifts(ctx context.Context) ([]core.Gift, error) {
	rows, err := r.queries.ListGifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gifts: %w", err)
	}
	return toGifts(rows), nil
}

func (r *SQLiteRepository) ListGiftsByPerson(ctx context.Context, personID int64) ([]core.Gift, error) {
	rows, err := r.queries.ListGiftsByPerson(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("list gifts of person %d: %w", personID, err)
	}
	return toGifts(rows), nil
}

func (r *SQLiteRepository) RecentGifts(ctx context.Context, limit int) ([]core.Gift, error) {
	rows, err := r.queries.RecentGifts(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("recent gifts: %w", err)
	}
	return toGifts(rows), nil
}

func (r *SQLiteRepository) GetGift(ctx context.Context, id int64) (core.Gift, error) {
	row, err := r.queries.GetGift(ctx, id)
	if err != nil {
		return core.Gift{}, fmt.Errorf("get gift %d: %w", id, translate(err))
	}
	return toGift(row), nil
}

func (r *SQLiteRepository) CreateGift(ctx context.Context, g core.Gift) (core.Gift, error) {
	id, err := r.queries.CreateGift(ctx, giftParams(g))
	if err != nil {
		return core.Gift{}, fmt.Errorf("create gift: %w", translate(err))
	}
	slog.InfoContext(ctx, "Gift saved",
		"id", id,
		"item", g.ItemName,
		"person_id", g.PersonID,
		"status", g.Status)
	return r.GetGift(ctx, id)
}

func (r *SQLiteRepository) UpdateGift(ctx context.Context, g core.Gift) error {
	n, err := r.queries.UpdateGift(ctx, g.ID, giftParams(g))
	if err != nil {
		return fmt.Errorf("update gift %d: %w", g.ID, translate(err))
	}
	if n == 0 {
		return fmt.Errorf("update gift %d: %w", g.ID, ErrNotFound)
	}
	return nil
}

// DeleteGift removes the record and returns its image path, empty when the
// gift had none.
func (r *SQLiteRepository) DeleteGift(ctx context.Context, id int64) (string, error) {
	var image string
	err := r.withTx(ctx, func(q *Queries) error {
		row, err := q.GetGift(ctx, id)
		if err != nil {
			return translate(err)
		}
		image = row.ImagePath
		_, err = q.DeleteGift(ctx, id)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("delete gift %d: %w", id, err)
	}
	return image, nil
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := se.Error()
		switch {
		case strings.Contains(msg, "UNIQUE"):
			return ErrDuplicateName
		case strings.Contains(msg, "FOREIGN KEY"):
			return ErrInvalidReference
		}
	}
	return err
}
