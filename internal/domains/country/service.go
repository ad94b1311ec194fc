package country

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"readinghub-backend/pkg/crud"
	"readinghub-backend/pkg/database"
)

type Service interface {
	Create(ctx context.Context, req CreateCountryRequest) (CountryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateCountryRequest) (*CountryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Get(ctx context.Context, search CountrySearch) (crud.Result[CountryResponse], error)
	GetByID(ctx context.Context, id uuid.UUID) (*CountryResponse, error)
}

type countryService struct {
	pipeline *crud.Pipeline[Country, CountryResponse, CountrySearch, CreateCountryRequest, UpdateCountryRequest]
}

func NewService(repo Repository, uow database.UnitOfWork) Service {
	build := func(req CreateCountryRequest) (*Country, error) {
		now := time.Now().UTC()
		return &Country{
			ID:        uuid.New(),
			Name:      strings.TrimSpace(req.Name),
			Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}

	apply := func(c *Country, req UpdateCountryRequest) {
		c.Name = strings.TrimSpace(req.Name)
		c.Code = strings.ToUpper(strings.TrimSpace(req.Code))
		c.UpdatedAt = time.Now().UTC()
	}

	hooks := crud.Hooks[Country, CreateCountryRequest, UpdateCountryRequest]{
		BeforeInsert: func(ctx context.Context, c *Country, _ CreateCountryRequest) error {
			exists, err := repo.Exists(ctx, c.Name, c.Code, c.ID)
			if err != nil {
				return fmt.Errorf("check country: %w", err)
			}
			if exists {
				return ErrDuplicateCountry
			}
			return nil
		},
		BeforeUpdate: func(ctx context.Context, c *Country, req UpdateCountryRequest) error {
			exists, err := repo.Exists(ctx, req.Name, req.Code, c.ID)
			if err != nil {
				return fmt.Errorf("check country: %w", err)
			}
			if exists {
				return ErrDuplicateCountry
			}
			return nil
		},
	}

	return &countryService{
		pipeline: crud.New(repo, uow, build, apply, toResponse, hooks),
	}
}

func (s *countryService) Create(ctx context.Context, req CreateCountryRequest) (CountryResponse, error) {
	return s.pipeline.Create(ctx, req)
}

func (s *countryService) Update(ctx context.Context, id uuid.UUID, req UpdateCountryRequest) (*CountryResponse, error) {
	return s.pipeline.Update(ctx, id, req)
}

func (s *countryService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.pipeline.Delete(ctx, id)
}

func (s *countryService) Get(ctx context.Context, search CountrySearch) (crud.Result[CountryResponse], error) {
	return s.pipeline.Get(ctx, search)
}

func (s *countryService) GetByID(ctx context.Context, id uuid.UUID) (*CountryResponse, error) {
	return s.pipeline.GetByID(ctx, id)
}
