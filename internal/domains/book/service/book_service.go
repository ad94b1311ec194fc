package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"readinghub-backend/internal/domains/book/model"
	"readinghub-backend/internal/domains/book/repository"
	"readinghub-backend/internal/domains/moderation"
	"readinghub-backend/internal/shared/auth"
	"readinghub-backend/pkg/crud"
	"readinghub-backend/pkg/database"
	"readinghub-backend/pkg/logger"
)

// bookService is the moderation specialization of the generic pipeline:
// Create and Update are replaced wholesale with state-aware versions, while
// Delete/Get/GetByID reuse the pipeline defaults.
type bookService struct {
	repo     repository.RepositoryInterface
	uow      database.UnitOfWork
	pipeline *crud.Pipeline[model.Book, model.BookResponse, model.BookSearch, model.CreateBookRequest, model.UpdateBookRequest]
	events   EventPublisher
	now      func() time.Time
}

// NewService creates a book service. events may be nil when no notification
// collaborator is wired (worker-less deployments, tests).
func NewService(repo repository.RepositoryInterface, uow database.UnitOfWork, events EventPublisher) ServiceInterface {
	s := &bookService{
		repo:   repo,
		uow:    uow,
		events: events,
		now:    time.Now,
	}
	s.pipeline = crud.New(
		repo,
		uow,
		nil,
		nil,
		func(b *model.Book) model.BookResponse { return model.ToBookResponse(b) },
		crud.Hooks[model.Book, model.CreateBookRequest, model.UpdateBookRequest]{},
	)
	return s
}

// Create handles the virtual Initial state: validates the natural key and
// the genre invariant, persists the new row as Submitted (Accepted for
// moderator submissions) and reloads it with its related rows.
func (s *bookService) Create(ctx context.Context, actor auth.Context, req model.CreateBookRequest) (*model.BookResponse, error) {
	var resp *model.BookResponse
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByTitleAndAuthor(ctx, req.Title, req.AuthorID, uuid.Nil)
		if err != nil {
			return fmt.Errorf("check book natural key: %w", err)
		}
		if exists {
			return model.ErrDuplicateBook
		}
		if len(req.GenreIDs) == 0 {
			return model.ErrNoGenres
		}

		now := s.now().UTC()
		book := &model.Book{
			ID:          uuid.New(),
			Title:       strings.TrimSpace(req.Title),
			AuthorID:    req.AuthorID,
			Description: req.Description,
			PageCount:   req.PageCount,
			State:       moderation.InitialState(actor),
			CreatedBy:   actor.UserID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := s.repo.Insert(ctx, book); err != nil {
			return err
		}
		if err := s.repo.ReplaceGenres(ctx, book.ID, req.GenreIDs); err != nil {
			return err
		}

		loaded, err := s.repo.FindByID(ctx, book.ID)
		if err != nil {
			return err
		}
		r := model.ToBookResponse(loaded)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Update edits a submitted or accepted book. The natural-key check runs
// before the state gate, so a duplicate title is reported even when the
// book is declined and the update would be rejected anyway.
func (s *bookService) Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.BookResponse, error) {
	var resp *model.BookResponse
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		book, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if book == nil {
			return nil
		}

		exists, err := s.repo.ExistsByTitleAndAuthor(ctx, req.Title, req.AuthorID, book.ID)
		if err != nil {
			return fmt.Errorf("check book natural key: %w", err)
		}
		if exists {
			return model.ErrDuplicateBook
		}

		if err := moderation.EnsureUpdatable(book); err != nil {
			return err
		}
		if len(req.GenreIDs) == 0 {
			return model.ErrNoGenres
		}

		// CreatedBy is write-once; req.CreatedBy is deliberately ignored.
		book.Title = strings.TrimSpace(req.Title)
		book.AuthorID = req.AuthorID
		book.Description = req.Description
		book.PageCount = req.PageCount
		book.Touch(s.now().UTC())

		if err := s.repo.Save(ctx, book); err != nil {
			return err
		}
		if err := s.repo.ReplaceGenres(ctx, book.ID, req.GenreIDs); err != nil {
			return err
		}

		loaded, err := s.repo.FindByID(ctx, book.ID)
		if err != nil {
			return err
		}
		r := model.ToBookResponse(loaded)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Accept transitions the book to Accepted and publishes the accepted event
// once the unit of work has committed. Publish failures are logged, never
// surfaced: the transition does not depend on delivery.
func (s *bookService) Accept(ctx context.Context, id uuid.UUID) (*model.BookResponse, error) {
	resp, event, err := s.transition(ctx, id, moderation.Accept)
	if err != nil {
		return nil, err
	}

	if resp != nil && event != nil && s.events != nil {
		if err := s.events.BookAccepted(ctx, *event); err != nil {
			logger.Error("failed to publish book accepted event", err)
		}
	}
	return resp, nil
}

// Decline transitions the book to Declined.
func (s *bookService) Decline(ctx context.Context, id uuid.UUID) (*model.BookResponse, error) {
	resp, _, err := s.transition(ctx, id, moderation.Decline)
	return resp, err
}

func (s *bookService) transition(
	ctx context.Context,
	id uuid.UUID,
	apply func(moderation.Moderatable, time.Time) error,
) (*model.BookResponse, *model.BookAcceptedEvent, error) {
	var resp *model.BookResponse
	var event *model.BookAcceptedEvent

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		book, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if book == nil {
			return nil
		}

		if err := apply(book, s.now().UTC()); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, book); err != nil {
			return err
		}

		loaded, err := s.repo.FindByID(ctx, book.ID)
		if err != nil {
			return err
		}
		r := model.ToBookResponse(loaded)
		resp = &r
		event = &model.BookAcceptedEvent{
			BookID:    loaded.ID,
			Title:     loaded.Title,
			CreatedBy: loaded.CreatedBy,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return resp, event, nil
}

// Delete has no state constraint; it is the pipeline default.
func (s *bookService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.pipeline.Delete(ctx, id)
}

func (s *bookService) Get(ctx context.Context, search model.BookSearch) (crud.Result[model.BookResponse], error) {
	return s.pipeline.Get(ctx, search)
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.BookResponse, error) {
	return s.pipeline.GetByID(ctx, id)
}
