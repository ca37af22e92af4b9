package core

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func TestValidateMonthDay(t *testing.T) {
	cases := []struct {
		month, day int
		ok         bool
	}{
		{1, 1, true},
		{1, 31, true},
		{2, 28, true},
		{2, 29, true}, // leap day is storable
		{2, 30, false},
		{4, 30, true},
		{4, 31, false},
		{12, 31, true},
		{0, 1, false},
		{13, 1, false},
		{6, 0, false},
	}
	for _, tc := range cases {
		err := ValidateMonthDay(tc.month, tc.day)
		if tc.ok && err != nil {
			t.Fatalf("%d/%d expected ok, got %v", tc.month, tc.day, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%d/%d expected error", tc.month, tc.day)
		}
	}
}

func TestParseGiftStatus(t *testing.T) {
	for _, s := range []string{"Idea", "Bought", "Given", " Given "} {
		if _, err := ParseGiftStatus(s); err != nil {
			t.Fatalf("%q expected ok, got %v", s, err)
		}
	}
	for _, s := range []string{"", "idea", "Lost"} {
		if _, err := ParseGiftStatus(s); err != ErrInvalidStatus {
			t.Fatalf("%q expected ErrInvalidStatus, got %v", s, err)
		}
	}
}

func TestPersonValidate(t *testing.T) {
	good := Person{Name: "Anna", BirthdayMonth: 2, BirthdayDay: 29, BirthdayYear: intPtr(1992)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Person{
		{Name: " ", BirthdayMonth: 1, BirthdayDay: 1},
		{Name: strings.Repeat("x", MaxPersonNameLen+1), BirthdayMonth: 1, BirthdayDay: 1},
		{Name: "Anna", BirthdayMonth: 4, BirthdayDay: 31},
		{Name: "Anna", BirthdayMonth: 1, BirthdayDay: 1, BirthdayYear: intPtr(0)},
	}
	for i, p := range bads {
		if err := p.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGiftValidate(t *testing.T) {
	price := decimal.RequireFromString("19.99")
	good := Gift{ItemName: "Book", PersonID: 1, Status: StatusIdea, Price: &price}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	neg := decimal.RequireFromString("-1")
	bads := []Gift{
		{ItemName: "", PersonID: 1, Status: StatusIdea},
		{ItemName: "Book", PersonID: 0, Status: StatusIdea},
		{ItemName: "Book", PersonID: 1, Status: "Wrapped"},
		{ItemName: "Book", PersonID: 1, Status: StatusIdea, Price: &neg},
	}
	for i, g := range bads {
		if err := g.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestPersonOccasionValidate(t *testing.T) {
	good := PersonOccasion{PersonID: 1, OccasionID: 2, Month: 6, Day: 12}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (PersonOccasion{PersonID: 1, Month: 6, Day: 12}).Validate(); err == nil {
		t.Fatalf("expected error for missing occasion")
	}
	if err := (PersonOccasion{PersonID: 1, OccasionID: 2, Month: 6, Day: 31}).Validate(); err == nil {
		t.Fatalf("expected error for June 31")
	}
}
