package repository

import (
	"context"

	"github.com/google/uuid"

	"readinghub-backend/internal/domains/book/model"
	"readinghub-backend/pkg/crud"
)

// RepositoryInterface is the book entity store: the generic pipeline
// contract plus the operations the moderation handlers need.
type RepositoryInterface interface {
	crud.Repository[model.Book, model.BookSearch]

	// ExistsByTitleAndAuthor reports whether another book occupies the
	// natural key (title, authorID). The comparison trims whitespace and
	// ignores case, and does NOT exclude declined rows. excludeID skips
	// the row being updated; pass uuid.Nil on create.
	ExistsByTitleAndAuthor(ctx context.Context, title string, authorID uuid.UUID, excludeID uuid.UUID) (bool, error)

	// ReplaceGenres swaps the book's genre associations wholesale:
	// delete-all, re-insert-selected. Never an incremental patch.
	ReplaceGenres(ctx context.Context, bookID uuid.UUID, genreIDs []uuid.UUID) error
}
