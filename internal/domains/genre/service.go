package genre

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"readinghub-backend/pkg/crud"
	"readinghub-backend/pkg/database"
)

// Service is the genre surface: pipeline defaults end to end, with hooks
// enforcing name uniqueness and the delete guard.
type Service interface {
	Create(ctx context.Context, req CreateGenreRequest) (GenreResponse, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateGenreRequest) (*GenreResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Get(ctx context.Context, search GenreSearch) (crud.Result[GenreResponse], error)
	GetByID(ctx context.Context, id uuid.UUID) (*GenreResponse, error)
}

type genreService struct {
	pipeline *crud.Pipeline[Genre, GenreResponse, GenreSearch, CreateGenreRequest, UpdateGenreRequest]
}

func NewService(repo Repository, uow database.UnitOfWork) Service {
	build := func(req CreateGenreRequest) (*Genre, error) {
		now := time.Now().UTC()
		return &Genre{
			ID:        uuid.New(),
			Name:      strings.TrimSpace(req.Name),
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}

	apply := func(g *Genre, req UpdateGenreRequest) {
		g.Name = strings.TrimSpace(req.Name)
		g.UpdatedAt = time.Now().UTC()
	}

	hooks := crud.Hooks[Genre, CreateGenreRequest, UpdateGenreRequest]{
		BeforeInsert: func(ctx context.Context, g *Genre, _ CreateGenreRequest) error {
			exists, err := repo.ExistsByName(ctx, g.Name, g.ID)
			if err != nil {
				return fmt.Errorf("check genre name: %w", err)
			}
			if exists {
				return ErrDuplicateGenre
			}
			return nil
		},
		BeforeUpdate: func(ctx context.Context, g *Genre, req UpdateGenreRequest) error {
			exists, err := repo.ExistsByName(ctx, req.Name, g.ID)
			if err != nil {
				return fmt.Errorf("check genre name: %w", err)
			}
			if exists {
				return ErrDuplicateGenre
			}
			return nil
		},
		BeforeDelete: func(ctx context.Context, g *Genre) error {
			inUse, err := repo.InUse(ctx, g.ID)
			if err != nil {
				return fmt.Errorf("check genre references: %w", err)
			}
			if inUse {
				return ErrGenreInUse
			}
			return nil
		},
	}

	return &genreService{
		pipeline: crud.New(repo, uow, build, apply, toResponse, hooks),
	}
}

func (s *genreService) Create(ctx context.Context, req CreateGenreRequest) (GenreResponse, error) {
	return s.pipeline.Create(ctx, req)
}

func (s *genreService) Update(ctx context.Context, id uuid.UUID, req UpdateGenreRequest) (*GenreResponse, error) {
	return s.pipeline.Update(ctx, id, req)
}

func (s *genreService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.pipeline.Delete(ctx, id)
}

func (s *genreService) Get(ctx context.Context, search GenreSearch) (crud.Result[GenreResponse], error) {
	return s.pipeline.Get(ctx, search)
}

func (s *genreService) GetByID(ctx context.Context, id uuid.UUID) (*GenreResponse, error) {
	return s.pipeline.GetByID(ctx, id)
}
