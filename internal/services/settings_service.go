package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"giftguardian/internal/core"
	"giftguardian/internal/storage"
)

type Settings struct {
	Relations []core.Relation
	Occasions []core.Occasion
}

// SettingsService manages the relation and occasion vocabularies.
type SettingsService struct {
	store *storage.SQLiteRepository
}

func NewSettingsService(store *storage.SQLiteRepository) *SettingsService {
	return &SettingsService{store: store}
}

func (s *SettingsService) Load(ctx context.Context) (Settings, error) {
	relations, err := s.store.ListRelations(ctx)
	if err != nil {
		return Settings{}, err
	}
	occasions, err := s.store.ListOccasions(ctx)
	if err != nil {
		return Settings{}, err
	}
	return Settings{Relations: relations, Occasions: occasions}, nil
}

func (s *SettingsService) AddRelation(ctx context.Context, name string) (core.Relation, error) {
	r := core.Relation{Name: strings.TrimSpace(name)}
	if err := r.Validate(); err != nil {
		return core.Relation{}, invalid("relation name", err)
	}
	exists, err := s.store.RelationNameExists(ctx, r.Name)
	if err != nil {
		return core.Relation{}, err
	}
	if exists {
		return core.Relation{}, fmt.Errorf("relation %q: %w", r.Name, ErrDuplicate)
	}
	created, err := s.store.CreateRelation(ctx, r.Name)
	return created, duplicateError(err)
}

func (s *SettingsService) DeleteRelation(ctx context.Context, id int64) error {
	return s.store.DeleteRelation(ctx, id)
}

func (s *SettingsService) AddOccasion(ctx context.Context, name string) (core.Occasion, error) {
	o := core.Occasion{Name: strings.TrimSpace(name)}
	if err := o.Validate(); err != nil {
		return core.Occasion{}, invalid("occasion name", err)
	}
	exists, err := s.store.OccasionNameExists(ctx, o.Name)
	if err != nil {
		return core.Occasion{}, err
	}
	if exists {
		return core.Occasion{}, fmt.Errorf("occasion %q: %w", o.Name, ErrDuplicate)
	}
	created, err := s.store.CreateOccasion(ctx, o.Name)
	return created, duplicateError(err)
}

// DeleteOccasion removes the occasion, every person date bound to it, and
// clears it from gifts.
func (s *SettingsService) DeleteOccasion(ctx context.Context, id int64) error {
	return s.store.DeleteOccasion(ctx, id)
}

// duplicateError covers the race between the existence check and the insert.
func duplicateError(err error) error {
	if errors.Is(err, storage.ErrDuplicateName) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	return err
}
