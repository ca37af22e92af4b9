package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"giftguardian/internal/core"
	applog "giftguardian/internal/log"
	"giftguardian/internal/metrics"
	"giftguardian/internal/storage"
	"giftguardian/internal/uploads"

	"github.com/shopspring/decimal"
)

// PersonInput is a parsed person form.
type PersonInput struct {
	Name       string
	RelationID *int64
	Month      int
	Day        int
	Year       *int
}

// OccasionDateInput binds an occasion to a person with its own date.
type OccasionDateInput struct {
	OccasionID int64
	Month      int
	Day        int
	Year       *int
}

type PeopleListing struct {
	People    []core.Person
	Relations []core.Relation
}

type PersonForm struct {
	Person    core.Person
	Relations []core.Relation
}

// ProfileOccasion is a person occasion with its next date resolved.
type ProfileOccasion struct {
	core.PersonOccasion
	Next core.Occurrence
}

// Profile is the person detail page.
type Profile struct {
	Person       core.Person
	NextBirthday core.Occurrence
	TurnsAge     int
	Occasions    []ProfileOccasion
	Gifts        []core.Gift
	GiftTotal    decimal.Decimal
	AllOccasions []core.Occasion
}

type PeopleService struct {
	store  *storage.SQLiteRepository
	images imageFiles
}

func NewPeopleService(store *storage.SQLiteRepository, images *uploads.ImageStore, m *metrics.Metrics) *PeopleService {
	return &PeopleService{
		store:  store,
		images: imageFiles{store: images, metrics: m},
	}
}

func (s *PeopleService) List(ctx context.Context) (PeopleListing, error) {
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return PeopleListing{}, err
	}
	relations, err := s.store.ListRelations(ctx)
	if err != nil {
		return PeopleListing{}, err
	}
	return PeopleListing{People: people, Relations: relations}, nil
}

func (s *PeopleService) Form(ctx context.Context, id int64) (PersonForm, error) {
	p, err := s.store.GetPerson(ctx, id)
	if err != nil {
		return PersonForm{}, err
	}
	relations, err := s.store.ListRelations(ctx)
	if err != nil {
		return PersonForm{}, err
	}
	return PersonForm{Person: p, Relations: relations}, nil
}

func (s *PeopleService) Create(ctx context.Context, in PersonInput) (core.Person, error) {
	p := in.toPerson()
	if err := validatePerson(p); err != nil {
		return core.Person{}, err
	}
	created, err := s.store.CreatePerson(ctx, p)
	if err != nil {
		return core.Person{}, referenceError(err)
	}
	return created, nil
}

func (s *PeopleService) Update(ctx context.Context, id int64, in PersonInput) error {
	if _, err := s.store.GetPerson(ctx, id); err != nil {
		return err
	}
	p := in.toPerson()
	p.ID = id
	if err := validatePerson(p); err != nil {
		return err
	}
	return referenceError(s.store.UpdatePerson(ctx, p))
}

// Delete removes a person with their occasions and gifts, then the images of
// those gifts, best-effort.
func (s *PeopleService) Delete(ctx context.Context, id int64) error {
	images, err := s.store.DeletePerson(ctx, id)
	if err != nil {
		return err
	}
	applog.FromContext(ctx).WithComponent(applog.ComponentPeople).InfoContext(ctx, "Person deleted",
		applog.FieldPersonID, id,
		"gift_images", len(images))
	s.images.remove(ctx, images...)
	return nil
}

// Profile resolves the person's next birthday and occasion dates relative
// to today and lists their gifts, newest first.
func (s *PeopleService) Profile(ctx context.Context, id int64, today time.Time) (Profile, error) {
	p, err := s.store.GetPerson(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	occs, err := s.store.ListPersonOccasionsByPerson(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	gifts, err := s.store.ListGiftsByPerson(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	all, err := s.store.ListOccasions(ctx)
	if err != nil {
		return Profile{}, err
	}

	next := core.NextOccurrence(p.Birthday(), today)
	profile := Profile{
		Person:       p,
		NextBirthday: next,
		TurnsAge:     core.AgeOn(p.Birthday(), next.Date),
		Occasions:    make([]ProfileOccasion, len(occs)),
		Gifts:        gifts,
		AllOccasions: all,
	}
	for i, po := range occs {
		profile.Occasions[i] = ProfileOccasion{PersonOccasion: po, Next: core.NextOccurrence(po.Rule(), today)}
	}

	rows := core.AggregateSpending([]core.Person{p}, gifts, nil)
	_, profile.GiftTotal = core.SpendingTotals(rows)
	return profile, nil
}

// AddOccasion attaches an occasion date to an existing person.
func (s *PeopleService) AddOccasion(ctx context.Context, personID int64, in OccasionDateInput) (core.PersonOccasion, error) {
	if _, err := s.store.GetPerson(ctx, personID); err != nil {
		return core.PersonOccasion{}, err
	}
	po := core.PersonOccasion{
		PersonID:   personID,
		OccasionID: in.OccasionID,
		Month:      in.Month,
		Day:        in.Day,
		Year:       in.Year,
	}
	if err := po.Validate(); err != nil {
		return core.PersonOccasion{}, invalid("occasion date", err)
	}
	created, err := s.store.CreatePersonOccasion(ctx, po)
	if err != nil {
		return core.PersonOccasion{}, referenceError(err)
	}
	return created, nil
}

// DeleteOccasion removes a person occasion and returns the owner's id.
func (s *PeopleService) DeleteOccasion(ctx context.Context, id int64) (int64, error) {
	po, err := s.store.DeletePersonOccasion(ctx, id)
	if err != nil {
		return 0, err
	}
	return po.PersonID, nil
}

func (in PersonInput) toPerson() core.Person {
	return core.Person{
		Name:          strings.TrimSpace(in.Name),
		RelationID:    in.RelationID,
		BirthdayMonth: in.Month,
		BirthdayDay:   in.Day,
		BirthdayYear:  in.Year,
	}
}

func validatePerson(p core.Person) error {
	if err := p.Validate(); err != nil {
		field := "birthday"
		if errors.Is(err, core.ErrEmptyName) || errors.Is(err, core.ErrNameTooLong) {
			field = "name"
		}
		return invalid(field, err)
	}
	return nil
}
