package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"readinghub-backend/internal/domains/author/model"
	"readinghub-backend/pkg/crud"
)

// RepositoryInterface is the author entity store.
type RepositoryInterface interface {
	crud.Repository[model.Author, model.AuthorSearch]

	// ExistsByNameAndBirthDate reports whether another author occupies the
	// natural key (name, dateOfBirth). Name comparison trims whitespace and
	// ignores case; declined rows are NOT excluded. excludeID skips the row
	// being updated; pass uuid.Nil on create.
	ExistsByNameAndBirthDate(ctx context.Context, name string, dateOfBirth time.Time, excludeID uuid.UUID) (bool, error)
}
