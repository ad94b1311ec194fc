package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"readinghub-backend/internal/domains/author/model"
	"readinghub-backend/internal/domains/author/repository"
	"readinghub-backend/internal/domains/moderation"
	"readinghub-backend/internal/shared/auth"
	"readinghub-backend/pkg/crud"
	"readinghub-backend/pkg/database"
)

// authorService is the author-family moderation specialization. Structurally
// it mirrors the book service: state-aware Create/Update, pipeline defaults
// for everything else. Authors have no association set to replace and no
// accepted-event subscriber.
type authorService struct {
	repo     repository.RepositoryInterface
	uow      database.UnitOfWork
	pipeline *crud.Pipeline[model.Author, model.AuthorResponse, model.AuthorSearch, model.CreateAuthorRequest, model.UpdateAuthorRequest]
	now      func() time.Time
}

func NewService(repo repository.RepositoryInterface, uow database.UnitOfWork) ServiceInterface {
	s := &authorService{
		repo: repo,
		uow:  uow,
		now:  time.Now,
	}
	s.pipeline = crud.New(
		repo,
		uow,
		nil,
		nil,
		func(a *model.Author) model.AuthorResponse { return model.ToAuthorResponse(a) },
		crud.Hooks[model.Author, model.CreateAuthorRequest, model.UpdateAuthorRequest]{},
	)
	return s
}

func (s *authorService) Create(ctx context.Context, actor auth.Context, req model.CreateAuthorRequest) (*model.AuthorResponse, error) {
	dob, err := model.ParseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("invalid date_of_birth: %w", err)
	}

	var resp *model.AuthorResponse
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByNameAndBirthDate(ctx, req.Name, dob, uuid.Nil)
		if err != nil {
			return fmt.Errorf("check author natural key: %w", err)
		}
		if exists {
			return model.ErrDuplicateAuthor
		}

		now := s.now().UTC()
		author := &model.Author{
			ID:          uuid.New(),
			Name:        strings.TrimSpace(req.Name),
			DateOfBirth: dob,
			Biography:   req.Biography,
			CountryID:   req.CountryID,
			PhotoURL:    req.PhotoURL,
			State:       moderation.InitialState(actor),
			CreatedBy:   actor.UserID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := s.repo.Insert(ctx, author); err != nil {
			return err
		}

		loaded, err := s.repo.FindByID(ctx, author.ID)
		if err != nil {
			return err
		}
		r := model.ToAuthorResponse(loaded)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Update re-checks the natural key before the state gate; a duplicate is
// reported even for a declined author whose update would be rejected anyway.
func (s *authorService) Update(ctx context.Context, id uuid.UUID, req model.UpdateAuthorRequest) (*model.AuthorResponse, error) {
	dob, err := model.ParseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("invalid date_of_birth: %w", err)
	}

	var resp *model.AuthorResponse
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		author, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if author == nil {
			return nil
		}

		exists, err := s.repo.ExistsByNameAndBirthDate(ctx, req.Name, dob, author.ID)
		if err != nil {
			return fmt.Errorf("check author natural key: %w", err)
		}
		if exists {
			return model.ErrDuplicateAuthor
		}

		if err := moderation.EnsureUpdatable(author); err != nil {
			return err
		}

		// CreatedBy is write-once; req.CreatedBy is deliberately ignored.
		author.Name = strings.TrimSpace(req.Name)
		author.DateOfBirth = dob
		author.Biography = req.Biography
		author.CountryID = req.CountryID
		author.PhotoURL = req.PhotoURL
		author.Touch(s.now().UTC())

		if err := s.repo.Save(ctx, author); err != nil {
			return err
		}

		loaded, err := s.repo.FindByID(ctx, author.ID)
		if err != nil {
			return err
		}
		r := model.ToAuthorResponse(loaded)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *authorService) Accept(ctx context.Context, id uuid.UUID) (*model.AuthorResponse, error) {
	return s.transition(ctx, id, moderation.Accept)
}

func (s *authorService) Decline(ctx context.Context, id uuid.UUID) (*model.AuthorResponse, error) {
	return s.transition(ctx, id, moderation.Decline)
}

func (s *authorService) transition(
	ctx context.Context,
	id uuid.UUID,
	apply func(moderation.Moderatable, time.Time) error,
) (*model.AuthorResponse, error) {
	var resp *model.AuthorResponse
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		author, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if author == nil {
			return nil
		}

		if err := apply(author, s.now().UTC()); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, author); err != nil {
			return err
		}

		loaded, err := s.repo.FindByID(ctx, author.ID)
		if err != nil {
			return err
		}
		r := model.ToAuthorResponse(loaded)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.pipeline.Delete(ctx, id)
}

func (s *authorService) Get(ctx context.Context, search model.AuthorSearch) (crud.Result[model.AuthorResponse], error) {
	return s.pipeline.Get(ctx, search)
}

func (s *authorService) GetByID(ctx context.Context, id uuid.UUID) (*model.AuthorResponse, error) {
	return s.pipeline.GetByID(ctx, id)
}
