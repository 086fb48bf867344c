package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/segmentio/ksuid"

	"github.com/ovaphlow/pitchfork/service-game-store-go/internal/game/entity"
	"github.com/ovaphlow/pitchfork/service-game-store-go/pkg/utilities"
)

var (
	ErrNotFound  = errors.New("game not found")
	ErrInvalidID = errors.New("invalid game id")
)

// Store is the data access surface the game service needs. The sqlx-backed
// repo satisfies it; tests use an in-memory fake.
type Store interface {
	Insert(ctx context.Context, g *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	List(ctx context.Context, sortBy, sortOrder string, limit int) ([]*entity.Game, error)
	UpdateFields(ctx context.Context, id string, p *entity.GamePatch) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// ListOptions are the public listing knobs. SortBy values other than
// price/name/ratings are ignored; SortOrder defaults to ascending.
type ListOptions struct {
	Limit     int
	SortBy    string
	SortOrder string
}

// Service implements catalog CRUD on top of a Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create assigns a fresh identifier, persists the record, then re-reads it
// so the returned shape matches what is actually stored.
func (s *Service) Create(ctx context.Context, g *entity.Game) (*entity.Game, error) {
	g.ID = utilities.NewKSUID()
	if err := s.store.Insert(ctx, g); err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	created, err := s.store.GetByID(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("read back game: %w", err)
	}
	return created, nil
}

// List returns the catalog in the requested order, fully materialized.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*entity.Game, error) {
	order := opts.SortOrder
	if order != "desc" {
		order = "asc"
	}
	games, err := s.store.List(ctx, opts.SortBy, order, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// Get returns the game with the given identifier. A malformed identifier is
// reported distinctly from a missing record.
func (s *Service) Get(ctx context.Context, id string) (*entity.Game, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	g, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	return g, nil
}

// Update applies the non-nil patch fields, then re-reads and returns the
// current record. An empty patch skips the write entirely; existence is
// decided by the re-read, so a zero-row write is not itself an error.
func (s *Service) Update(ctx context.Context, id string, p *entity.GamePatch) (*entity.Game, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if !p.Empty() {
		if _, err := s.store.UpdateFields(ctx, id, p); err != nil {
			return nil, fmt.Errorf("update game: %w", err)
		}
	}
	g, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read back game: %w", err)
	}
	return g, nil
}

// Delete removes the game with the given identifier.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// validateID checks identifier syntax. Game identifiers are KSUIDs.
func validateID(id string) error {
	if _, err := ksuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}
