package model

import (
	"time"

	"github.com/google/uuid"

	"readinghub-backend/internal/domains/moderation"
)

// Book is a user-submitted catalog entry. Its natural key is
// (title, author_id): unique across all books regardless of moderation
// state, compared case-insensitively with surrounding whitespace trimmed.
type Book struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	Title       string           `json:"title" db:"title"`
	AuthorID    uuid.UUID        `json:"author_id" db:"author_id"`
	Description *string          `json:"description" db:"description"`
	PageCount   *int             `json:"page_count" db:"page_count"`
	State       moderation.State `json:"state" db:"state"`
	CreatedBy   uuid.UUID        `json:"created_by" db:"created_by"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`

	// Related rows, populated on load.
	AuthorName string     `json:"author_name" db:"-"`
	Genres     []GenreRef `json:"genres" db:"-"`
}

// GenreRef is a genre association carried alongside a loaded book.
type GenreRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (b *Book) EntityName() string { return "book" }

func (b *Book) ModerationState() moderation.State { return b.State }

func (b *Book) SetModerationState(s moderation.State) { b.State = s }

func (b *Book) Touch(now time.Time) { b.UpdatedAt = now }

// GenreIDs returns the ids of the book's current genre associations.
func (b *Book) GenreIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(b.Genres))
	for i, g := range b.Genres {
		ids[i] = g.ID
	}
	return ids
}
