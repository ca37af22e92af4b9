package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"giftguardian/internal/core"
	applog "giftguardian/internal/log"
	"giftguardian/internal/metrics"
	"giftguardian/internal/storage"
	"giftguardian/internal/uploads"

	"github.com/shopspring/decimal"
)

// GiftInput is a parsed gift form.
type GiftInput struct {
	ItemName   string
	PersonID   int64
	OccasionID *int64
	Price      *decimal.Decimal
	Year       *int
	Status     core.GiftStatus
	Image      *ImageUpload
}

// GiftListing is everything the gift list page shows.
type GiftListing struct {
	Gifts     []core.Gift
	People    []core.Person
	Occasions []core.Occasion
	Years     []int
	Statuses  []core.GiftStatus
	Filter    core.GiftFilter
	Sort      core.GiftSort
}

// GiftForm holds the choices of the gift edit form.
type GiftForm struct {
	Gift      core.Gift
	People    []core.Person
	Occasions []core.Occasion
	Statuses  []core.GiftStatus
}

// GiftService orchestrates gift records and their images.
type GiftService struct {
	store   *storage.SQLiteRepository
	images  imageFiles
	metrics *metrics.Metrics
}

func NewGiftService(store *storage.SQLiteRepository, images *uploads.ImageStore, m *metrics.Metrics) *GiftService {
	return &GiftService{
		store:   store,
		images:  imageFiles{store: images, metrics: m},
		metrics: m,
	}
}

// List loads all gifts, then filters and sorts them in memory.
func (s *GiftService) List(ctx context.Context, filter core.GiftFilter, sort core.GiftSort, today time.Time) (GiftListing, error) {
	gifts, err := s.store.ListGifts(ctx)
	if err != nil {
		return GiftListing{}, err
	}
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return GiftListing{}, err
	}
	occasions, err := s.store.ListOccasions(ctx)
	if err != nil {
		return GiftListing{}, err
	}

	return GiftListing{
		Gifts:     core.QueryGifts(gifts, filter, sort),
		People:    people,
		Occasions: occasions,
		Years:     core.AvailableYears(gifts, today),
		Statuses:  core.GiftStatuses(),
		Filter:    filter,
		Sort:      sort,
	}, nil
}

// Form loads a gift with the choices for editing it.
func (s *GiftService) Form(ctx context.Context, id int64) (GiftForm, error) {
	g, err := s.store.GetGift(ctx, id)
	if err != nil {
		return GiftForm{}, err
	}
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return GiftForm{}, err
	}
	occasions, err := s.store.ListOccasions(ctx)
	if err != nil {
		return GiftForm{}, err
	}
	return GiftForm{Gift: g, People: people, Occasions: occasions, Statuses: core.GiftStatuses()}, nil
}

func (s *GiftService) Create(ctx context.Context, in GiftInput) (core.Gift, error) {
	g := in.toGift()
	if err := validateGift(g); err != nil {
		return core.Gift{}, err
	}

	image, err := s.images.save(ctx, in.Image)
	if err != nil {
		return core.Gift{}, fmt.Errorf("save gift image: %w", err)
	}
	g.ImagePath = image

	created, err := s.store.CreateGift(ctx, g)
	if err != nil {
		s.images.remove(ctx, image)
		return core.Gift{}, referenceError(err)
	}

	s.metrics.GiftCreated()
	s.logger(ctx).LogGiftSaved(ctx, applog.OpCreate, created.ID, created.ItemName, created.PersonID, created.Status.String())
	return created, nil
}

// Update rewrites a gift. A newly uploaded image replaces the reference;
// the previous file is left on disk.
func (s *GiftService) Update(ctx context.Context, id int64, in GiftInput) error {
	existing, err := s.store.GetGift(ctx, id)
	if err != nil {
		return err
	}

	g := in.toGift()
	g.ID = id
	g.ImagePath = existing.ImagePath
	if err := validateGift(g); err != nil {
		return err
	}

	image, err := s.images.save(ctx, in.Image)
	if err != nil {
		return fmt.Errorf("save gift image: %w", err)
	}
	if image != "" {
		g.ImagePath = image
	}

	if err := s.store.UpdateGift(ctx, g); err != nil {
		if image != "" {
			s.images.remove(ctx, image)
		}
		return referenceError(err)
	}

	s.logger(ctx).LogGiftSaved(ctx, applog.OpUpdate, g.ID, g.ItemName, g.PersonID, g.Status.String())
	return nil
}

// Delete removes the record first and then its image, best-effort.
func (s *GiftService) Delete(ctx context.Context, id int64) error {
	image, err := s.store.DeleteGift(ctx, id)
	if err != nil {
		return err
	}
	s.metrics.GiftDeleted()
	s.images.remove(ctx, image)
	return nil
}

func (s *GiftService) logger(ctx context.Context) *applog.StructuredLogger {
	return applog.NewStructuredLogger(applog.FromContext(ctx).WithComponent(applog.ComponentGifts))
}

func (in GiftInput) toGift() core.Gift {
	return core.Gift{
		ItemName:   strings.TrimSpace(in.ItemName),
		Price:      in.Price,
		OccasionID: in.OccasionID,
		Year:       in.Year,
		Status:     in.Status,
		PersonID:   in.PersonID,
	}
}

func validateGift(g core.Gift) error {
	if err := g.Validate(); err != nil {
		field := "gift"
		switch {
		case errors.Is(err, core.ErrEmptyName), errors.Is(err, core.ErrNameTooLong):
			field = "item name"
		case errors.Is(err, core.ErrMissingPerson):
			field = "person"
		case errors.Is(err, core.ErrInvalidPrice):
			field = "price"
		case errors.Is(err, core.ErrInvalidStatus):
			field = "status"
		case errors.Is(err, core.ErrInvalidYear):
			field = "year"
		}
		return invalid(field, err)
	}
	return nil
}

// referenceError turns a dangling person or occasion id into a validation
// error; both come from form choices that may have been deleted meanwhile.
func referenceError(err error) error {
	if errors.Is(err, storage.ErrInvalidReference) {
		return invalid("reference", err)
	}
	return err
}
