package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusIdea   GiftStatus = "Idea"
	StatusBought GiftStatus = "Bought"
	StatusGiven  GiftStatus = "Given"
)

// Maximum name lengths, matching the column sizes.
const (
	MaxCategoryNameLen = 50
	MaxPersonNameLen   = 100
	MaxItemNameLen     = 200
)

type (
	GiftStatus string

	// Relation groups people (e.g. "Sibling").
	Relation struct {
		ID   int64
		Name string
	}

	// Occasion is a named kind of recurring event (e.g. "Christmas").
	Occasion struct {
		ID   int64
		Name string
	}

	Person struct {
		ID            int64
		Name          string
		RelationID    *int64
		RelationName  string // resolved by the store, empty when unset
		BirthdayMonth int
		BirthdayDay   int
		BirthdayYear  *int
	}

	// PersonOccasion binds a person to an occasion with its own date,
	// e.g. a wedding anniversary.
	PersonOccasion struct {
		ID           int64
		PersonID     int64
		OccasionID   int64
		OccasionName string
		Month        int
		Day          int
		Year         *int
	}

	Gift struct {
		ID           int64
		ItemName     string
		Price        *decimal.Decimal
		OccasionID   *int64
		OccasionName string
		Year         *int
		Status       GiftStatus
		ImagePath    string
		PersonID     int64
		PersonName   string
	}
)

var (
	ErrEmptyName     = errors.New("empty name")
	ErrNameTooLong   = errors.New("name too long")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidDay    = errors.New("invalid day")
	ErrInvalidYear   = errors.New("invalid year")
	ErrInvalidPrice  = errors.New("invalid price")
	ErrInvalidStatus = errors.New("invalid status")
	ErrMissingPerson = errors.New("missing person")
)

// GiftStatuses lists the statuses in display order.
func GiftStatuses() []GiftStatus {
	return []GiftStatus{StatusIdea, StatusBought, StatusGiven}
}

// ParseGiftStatus accepts only the exact enumeration values.
func ParseGiftStatus(s string) (GiftStatus, error) {
	switch st := GiftStatus(strings.TrimSpace(s)); st {
	case StatusIdea, StatusBought, StatusGiven:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s GiftStatus) String() string {
	return string(s)
}

// ValidateMonthDay checks a month/day pair against a non-leap reference year.
// Feb 29 is accepted and resolved specially by NextOccurrence.
func ValidateMonthDay(month, day int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	if day < 1 {
		return ErrInvalidDay
	}
	if month == int(time.February) && day == 29 {
		return nil
	}
	if day > daysIn(time.Month(month), 2023) {
		return ErrInvalidDay
	}
	return nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func validateYear(y *int) error {
	if y == nil {
		return nil
	}
	if *y < 1 || *y > 9999 {
		return ErrInvalidYear
	}
	return nil
}

func validateName(name string, max int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > max {
		return ErrNameTooLong
	}
	return nil
}

func (r Relation) Validate() error {
	return validateName(r.Name, MaxCategoryNameLen)
}

func (o Occasion) Validate() error {
	return validateName(o.Name, MaxCategoryNameLen)
}

func (p Person) Validate() error {
	if err := validateName(p.Name, MaxPersonNameLen); err != nil {
		return err
	}
	if err := ValidateMonthDay(p.BirthdayMonth, p.BirthdayDay); err != nil {
		return err
	}
	return validateYear(p.BirthdayYear)
}

// Birthday returns the person's birthday as a recurrence rule.
func (p Person) Birthday() RecurrenceRule {
	return RecurrenceRule{Month: p.BirthdayMonth, Day: p.BirthdayDay, Year: p.BirthdayYear}
}

func (po PersonOccasion) Validate() error {
	if po.PersonID <= 0 {
		return ErrMissingPerson
	}
	if po.OccasionID <= 0 {
		return errors.New("missing occasion")
	}
	if err := ValidateMonthDay(po.Month, po.Day); err != nil {
		return err
	}
	return validateYear(po.Year)
}

// Rule returns the occasion date as a recurrence rule.
func (po PersonOccasion) Rule() RecurrenceRule {
	return RecurrenceRule{Month: po.Month, Day: po.Day, Year: po.Year}
}

func (g Gift) Validate() error {
	if err := validateName(g.ItemName, MaxItemNameLen); err != nil {
		return err
	}
	if g.PersonID <= 0 {
		return ErrMissingPerson
	}
	if g.Price != nil && g.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if _, err := ParseGiftStatus(string(g.Status)); err != nil {
		return err
	}
	return validateYear(g.Year)
}

// PriceOrZero treats a missing price as zero.
func (g Gift) PriceOrZero() decimal.Decimal {
	if g.Price == nil {
		return decimal.Zero
	}
	return *g.Price
}
