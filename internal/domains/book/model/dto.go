package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"readinghub-backend/internal/shared/utils"
	"readinghub-backend/pkg/crud"
)

// CreateBookRequest carries a new catalog submission.
type CreateBookRequest struct {
	Title       string      `json:"title"`
	AuthorID    uuid.UUID   `json:"author_id"`
	Description *string     `json:"description,omitempty"`
	PageCount   *int        `json:"page_count,omitempty"`
	GenreIDs    []uuid.UUID `json:"genre_ids"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.AuthorID,
			validation.Required.Error("author_id is required"),
		),
		validation.Field(&r.PageCount,
			validation.Min(1).Error("page_count must be positive"),
		),
	)
}

// UpdateBookRequest carries an edit of an existing submission. CreatedBy is
// accepted on the wire for client compatibility but never applied: the
// creator is write-once.
type UpdateBookRequest struct {
	Title       string      `json:"title"`
	AuthorID    uuid.UUID   `json:"author_id"`
	Description *string     `json:"description,omitempty"`
	PageCount   *int        `json:"page_count,omitempty"`
	GenreIDs    []uuid.UUID `json:"genre_ids"`
	CreatedBy   *uuid.UUID  `json:"created_by,omitempty"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.AuthorID,
			validation.Required.Error("author_id is required"),
		),
		validation.Field(&r.PageCount,
			validation.Min(1).Error("page_count must be positive"),
		),
	)
}

// BookSearch filters the paginated listing.
type BookSearch struct {
	crud.SearchOptions
	Title     string     `form:"title"`
	AuthorID  *uuid.UUID `form:"author_id"`
	State     string     `form:"state"`
	GenreID   *uuid.UUID `form:"genre_id"`
	CreatedBy *uuid.UUID `form:"created_by"`
}

// BookResponse is the flattened output representation of a book with its
// related rows.
type BookResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	AuthorID    uuid.UUID  `json:"author_id"`
	AuthorName  string     `json:"author_name,omitempty"`
	Description *string    `json:"description,omitempty"`
	PageCount   *int       `json:"page_count,omitempty"`
	BookState   string     `json:"book_state"`
	Genres      []GenreRef `json:"genres"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToBookResponse projects a loaded book into its output representation.
func ToBookResponse(b *Book) BookResponse {
	genres := b.Genres
	if genres == nil {
		genres = []GenreRef{}
	}
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		AuthorID:    b.AuthorID,
		AuthorName:  b.AuthorName,
		Description: b.Description,
		PageCount:   b.PageCount,
		BookState:   b.State.String(),
		Genres:      genres,
		CreatedBy:   b.CreatedBy,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// BookAcceptedEvent is published when a book passes moderation. Consumers
// notify the creator; delivery is fire-and-forget.
type BookAcceptedEvent struct {
	BookID    uuid.UUID `json:"book_id"`
	Title     string    `json:"title"`
	CreatedBy uuid.UUID `json:"created_by"`
}

// NormalizedTitle is the natural-key form of a title.
func NormalizedTitle(title string) string {
	return utils.NormalizeKey(title)
}
