package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"giftguardian/internal/core"

	"github.com/shopspring/decimal"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "giftguardian.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func intPtr(v int) *int { return &v }

func mustPerson(t *testing.T, repo *SQLiteRepository, p core.Person) core.Person {
	t.Helper()
	got, err := repo.CreatePerson(context.Background(), p)
	if err != nil {
		t.Fatalf("CreatePerson(%s) error = %v", p.Name, err)
	}
	return got
}

func mustGift(t *testing.T, repo *SQLiteRepository, g core.Gift) core.Gift {
	t.Helper()
	got, err := repo.CreateGift(context.Background(), g)
	if err != nil {
		t.Fatalf("CreateGift(%s) error = %v", g.ItemName, err)
	}
	return got
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "giftguardian.db")
	for i := 0; i < 2; i++ {
		repo, err := NewSQLiteRepository(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		repo.Close()
	}
}

func TestRelations(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	rel, err := repo.CreateRelation(ctx, "Sibling")
	if err != nil {
		t.Fatalf("CreateRelation() error = %v", err)
	}
	if rel.ID == 0 || rel.Name != "Sibling" {
		t.Fatalf("CreateRelation() = %+v", rel)
	}

	if _, err := repo.CreateRelation(ctx, "Sibling"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate CreateRelation() error = %v, want ErrDuplicateName", err)
	}

	exists, err := repo.RelationNameExists(ctx, "Sibling")
	if err != nil || !exists {
		t.Errorf("RelationNameExists() = %v, %v; want true", exists, err)
	}

	if err := repo.DeleteRelation(ctx, rel.ID); err != nil {
		t.Fatalf("DeleteRelation() error = %v", err)
	}
	if err := repo.DeleteRelation(ctx, rel.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteRelation() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteRelationClearsPeople(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	rel, _ := repo.CreateRelation(ctx, "Friend")
	p := mustPerson(t, repo, core.Person{Name: "Ann", RelationID: &rel.ID, BirthdayMonth: 3, BirthdayDay: 4})
	if p.RelationName != "Friend" {
		t.Fatalf("RelationName = %q, want Friend", p.RelationName)
	}

	if err := repo.DeleteRelation(ctx, rel.ID); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetPerson(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RelationID != nil || got.RelationName != "" {
		t.Errorf("relation not cleared: %+v", got)
	}
}

func TestPeopleOrderedByName(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, name := range []string{"Maria", "Carlo", "Zoe"} {
		mustPerson(t, repo, core.Person{Name: name, BirthdayMonth: 1, BirthdayDay: 1})
	}

	people, err := repo.ListPeople(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range people {
		names = append(names, p.Name)
	}
	want := []string{"Carlo", "Maria", "Zoe"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ListPeople() names = %v, want %v", names, want)
		}
	}

	inserted, err := repo.ListPeopleInStoreOrder(ctx)
	if err != nil {
		t.Fatal(err)
	}
	names = names[:0]
	for _, p := range inserted {
		names = append(names, p.Name)
	}
	want = []string{"Maria", "Carlo", "Zoe"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ListPeopleInStoreOrder() names = %v, want %v", names, want)
		}
	}
}

func TestUpdatePerson(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	p := mustPerson(t, repo, core.Person{Name: "Ann", BirthdayMonth: 2, BirthdayDay: 29, BirthdayYear: intPtr(1992)})
	p.Name = "Anna"
	p.BirthdayYear = nil
	if err := repo.UpdatePerson(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetPerson(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Anna" || got.BirthdayYear != nil || got.BirthdayDay != 29 {
		t.Errorf("GetPerson() = %+v", got)
	}

	if err := repo.UpdatePerson(ctx, core.Person{ID: 999, Name: "x", BirthdayMonth: 1, BirthdayDay: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdatePerson(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetPerson(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPerson(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeletePersonCascades(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	occ, _ := repo.CreateOccasion(ctx, "Anniversary")
	ann := mustPerson(t, repo, core.Person{Name: "Ann", BirthdayMonth: 5, BirthdayDay: 5})
	bob := mustPerson(t, repo, core.Person{Name: "Bob", BirthdayMonth: 6, BirthdayDay: 6})

	if _, err := repo.CreatePersonOccasion(ctx, core.PersonOccasion{PersonID: ann.ID, OccasionID: occ.ID, Month: 9, Day: 1}); err != nil {
		t.Fatal(err)
	}
	mustGift(t, repo, core.Gift{ItemName: "Book", PersonID: ann.ID, Status: core.StatusIdea, ImagePath: "20240101120000_book.png"})
	mustGift(t, repo, core.Gift{ItemName: "Pen", PersonID: ann.ID, Status: core.StatusIdea})
	mustGift(t, repo, core.Gift{ItemName: "Hat", PersonID: bob.ID, Status: core.StatusIdea})

	images, err := repo.DeletePerson(ctx, ann.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 1 || images[0] != "20240101120000_book.png" {
		t.Errorf("DeletePerson() images = %v", images)
	}

	gifts, _ := repo.ListGifts(ctx)
	if len(gifts) != 1 || gifts[0].PersonID != bob.ID {
		t.Errorf("gifts after delete = %+v", gifts)
	}
	occs, _ := repo.ListPersonOccasions(ctx)
	if len(occs) != 0 {
		t.Errorf("person occasions after delete = %+v", occs)
	}

	if _, err := repo.DeletePerson(ctx, ann.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeletePerson() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteOccasionCascades(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	occ, _ := repo.CreateOccasion(ctx, "Christmas")
	p := mustPerson(t, repo, core.Person{Name: "Ann", BirthdayMonth: 5, BirthdayDay: 5})
	if _, err := repo.CreatePersonOccasion(ctx, core.PersonOccasion{PersonID: p.ID, OccasionID: occ.ID, Month: 12, Day: 25}); err != nil {
		t.Fatal(err)
	}
	g := mustGift(t, repo, core.Gift{ItemName: "Scarf", PersonID: p.ID, OccasionID: &occ.ID, Status: core.StatusBought})
	if g.OccasionName != "Christmas" {
		t.Fatalf("OccasionName = %q", g.OccasionName)
	}

	if err := repo.DeleteOccasion(ctx, occ.ID); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetGift(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.OccasionID != nil || got.OccasionName != "" {
		t.Errorf("gift occasion not cleared: %+v", got)
	}
	occs, _ := repo.ListPersonOccasionsByPerson(ctx, p.ID)
	if len(occs) != 0 {
		t.Errorf("person occasions = %+v, want none", occs)
	}
}

func TestDeletePersonOccasionReturnsOwner(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	occ, _ := repo.CreateOccasion(ctx, "Name Day")
	p := mustPerson(t, repo, core.Person{Name: "Ann", BirthdayMonth: 5, BirthdayDay: 5})
	po, err := repo.CreatePersonOccasion(ctx, core.PersonOccasion{PersonID: p.ID, OccasionID: occ.ID, Month: 7, Day: 26, Year: intPtr(2001)})
	if err != nil {
		t.Fatal(err)
	}
	if po.OccasionName != "Name Day" || po.Year == nil || *po.Year != 2001 {
		t.Fatalf("CreatePersonOccasion() = %+v", po)
	}

	deleted, err := repo.DeletePersonOccasion(ctx, po.ID)
	if err != nil {
		t.Fatal(err)
	}
	if deleted.PersonID != p.ID {
		t.Errorf("deleted.PersonID = %d, want %d", deleted.PersonID, p.ID)
	}
	if _, err := repo.DeletePersonOccasion(ctx, po.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestGiftRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	p := mustPerson(t, repo, core.Person{Name: "Ann", BirthdayMonth: 5, BirthdayDay: 5})
	price := decimal.RequireFromString("19.99")
	g := mustGift(t, repo, core.Gift{ItemName: "Lamp", Price: &price, Year: intPtr(2024), PersonID: p.ID, Status: core.StatusGiven})

	if g.Price == nil || !g.Price.Equal(price) {
		t.Errorf("Price = %v, want 19.99", g.Price)
	}
	if g.PersonName != "Ann" || g.Status != core.StatusGiven {
		t.Errorf("CreateGift() = %+v", g)
	}

	g.Price = nil
	g.ItemName = "Desk lamp"
	if err := repo.UpdateGift(ctx, g); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.GetGift(ctx, g.ID)
	if got.Price != nil || got.ItemName != "Desk lamp" {
		t.Errorf("after update = %+v", got)
	}

	image, err := repo.DeleteGift(ctx, g.ID)
	if err != nil || image != "" {
		t.Errorf("DeleteGift() = %q, %v", image, err)
	}
	if _, err := repo.DeleteGift(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteGift() error = %v, want ErrNotFound", err)
	}
}

func TestGiftRequiresExistingPerson(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateGift(context.Background(), core.Gift{ItemName: "Orphan", PersonID: 42, Status: core.StatusIdea})
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("CreateGift() error = %v, want ErrInvalidReference", err)
	}
}

func TestGiftListings(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	ann := mustPerson(t, repo, core.Person{Name: "Ann", BirthdayMonth: 5, BirthdayDay: 5})
	bob := mustPerson(t, repo, core.Person{Name: "Bob", BirthdayMonth: 6, BirthdayDay: 6})
	years := []*int{intPtr(2023), nil, intPtr(2024), intPtr(2023), nil, intPtr(2022), intPtr(2024)}
	for i, y := range years {
		owner := ann.ID
		if i%2 == 1 {
			owner = bob.ID
		}
		mustGift(t, repo, core.Gift{ItemName: "g", PersonID: owner, Year: y, Status: core.StatusIdea})
	}

	all, _ := repo.ListGifts(ctx)
	if len(all) != len(years) {
		t.Fatalf("ListGifts() len = %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID < all[i].ID {
			t.Fatalf("ListGifts() not newest first: %d before %d", all[i-1].ID, all[i].ID)
		}
	}

	recent, _ := repo.RecentGifts(ctx, 5)
	if len(recent) != 5 || recent[0].ID != all[0].ID {
		t.Errorf("RecentGifts() = %d items", len(recent))
	}

	bobs, _ := repo.ListGiftsByPerson(ctx, bob.ID)
	if len(bobs) != 3 {
		t.Errorf("ListGiftsByPerson() len = %d, want 3", len(bobs))
	}
}
