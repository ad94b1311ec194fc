package service

import (
	"context"

	"github.com/google/uuid"

	"readinghub-backend/internal/domains/author/model"
	"readinghub-backend/internal/shared/auth"
	"readinghub-backend/pkg/crud"
)

// ServiceInterface is the author moderation surface. Missing ids yield
// nil/false sentinels, never errors.
type ServiceInterface interface {
	Create(ctx context.Context, actor auth.Context, req model.CreateAuthorRequest) (*model.AuthorResponse, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateAuthorRequest) (*model.AuthorResponse, error)
	Accept(ctx context.Context, id uuid.UUID) (*model.AuthorResponse, error)
	Decline(ctx context.Context, id uuid.UUID) (*model.AuthorResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Get(ctx context.Context, search model.AuthorSearch) (crud.Result[model.AuthorResponse], error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.AuthorResponse, error)
}
