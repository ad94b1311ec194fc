package bookclub

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"readinghub-backend/internal/shared/auth"
	"readinghub-backend/pkg/crud"
	"readinghub-backend/pkg/database"
)

// Service is the book club surface. Update and Delete take the acting user:
// only the creator or an admin may modify a club. That rule belongs to the
// caller, not the pipeline, so the pipeline stays ownership-agnostic.
type Service interface {
	Create(ctx context.Context, actor auth.Context, req CreateBookClubRequest) (BookClubResponse, error)
	Update(ctx context.Context, actor auth.Context, id uuid.UUID, req UpdateBookClubRequest) (*BookClubResponse, error)
	Delete(ctx context.Context, actor auth.Context, id uuid.UUID) (bool, error)
	Get(ctx context.Context, search BookClubSearch) (crud.Result[BookClubResponse], error)
	GetByID(ctx context.Context, id uuid.UUID) (*BookClubResponse, error)
}

type clubService struct {
	repo     Repository
	uow      database.UnitOfWork
	pipeline *crud.Pipeline[BookClub, BookClubResponse, BookClubSearch, CreateBookClubRequest, UpdateBookClubRequest]
}

func NewService(repo Repository, uow database.UnitOfWork) Service {
	apply := func(b *BookClub, req UpdateBookClubRequest) {
		b.Name = strings.TrimSpace(req.Name)
		b.Description = req.Description
		b.UpdatedAt = time.Now().UTC()
	}

	return &clubService{
		repo: repo,
		uow:  uow,
		pipeline: crud.New(
			repo,
			uow,
			nil,
			apply,
			toResponse,
			crud.Hooks[BookClub, CreateBookClubRequest, UpdateBookClubRequest]{},
		),
	}
}

// Create is built here rather than in the pipeline because the entity needs
// the acting user as creator.
func (s *clubService) Create(ctx context.Context, actor auth.Context, req CreateBookClubRequest) (BookClubResponse, error) {
	var resp BookClubResponse
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		club := &BookClub{
			ID:          uuid.New(),
			Name:        strings.TrimSpace(req.Name),
			Description: req.Description,
			CreatedBy:   actor.UserID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.Insert(ctx, club); err != nil {
			return err
		}
		resp = toResponse(club)
		return nil
	})
	if err != nil {
		return BookClubResponse{}, err
	}
	return resp, nil
}

func (s *clubService) Update(ctx context.Context, actor auth.Context, id uuid.UUID, req UpdateBookClubRequest) (*BookClubResponse, error) {
	var resp *BookClubResponse
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		club, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if club == nil {
			return nil
		}
		if err := s.authorize(actor, club); err != nil {
			return err
		}
		resp, err = s.pipeline.Update(ctx, id, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *clubService) Delete(ctx context.Context, actor auth.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		club, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if club == nil {
			return nil
		}
		if err := s.authorize(actor, club); err != nil {
			return err
		}
		deleted, err = s.pipeline.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *clubService) authorize(actor auth.Context, club *BookClub) error {
	if actor.UserID == club.CreatedBy || actor.IsAdmin() {
		return nil
	}
	return ErrNotClubOwner
}

func (s *clubService) Get(ctx context.Context, search BookClubSearch) (crud.Result[BookClubResponse], error) {
	return s.pipeline.Get(ctx, search)
}

func (s *clubService) GetByID(ctx context.Context, id uuid.UUID) (*BookClubResponse, error) {
	return s.pipeline.GetByID(ctx, id)
}
