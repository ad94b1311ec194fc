package service

import (
	"context"

	"github.com/google/uuid"

	"readinghub-backend/internal/domains/book/model"
	"readinghub-backend/internal/shared/auth"
	"readinghub-backend/pkg/crud"
)

// EventPublisher delivers the fire-and-forget "book accepted" event to the
// notification collaborator.
type EventPublisher interface {
	BookAccepted(ctx context.Context, event model.BookAcceptedEvent) error
}

// ServiceInterface is the book moderation surface. Update, Accept, Decline,
// Delete and GetByID return nil/false without an error when the id does not
// exist: resource absence is the caller's decision, rule violations abort.
type ServiceInterface interface {
	Create(ctx context.Context, actor auth.Context, req model.CreateBookRequest) (*model.BookResponse, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.BookResponse, error)
	Accept(ctx context.Context, id uuid.UUID) (*model.BookResponse, error)
	Decline(ctx context.Context, id uuid.UUID) (*model.BookResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Get(ctx context.Context, search model.BookSearch) (crud.Result[model.BookResponse], error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.BookResponse, error)
}
