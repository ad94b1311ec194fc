// Package bookclub is a plain pipeline family whose response carries joined
// data: the member count rides along on every read, so the family overrides
// the response mapper instead of using a column-for-column one.
package bookclub

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"readinghub-backend/internal/shared/response"
	"readinghub-backend/pkg/crud"
	"readinghub-backend/pkg/logger"
)

type BookClub struct {
	ID          uuid.UUID
	Name        string
	Description *string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// MemberCount is derived from book_club_members at read time; it is
	// never written back.
	MemberCount int64
}

type CreateBookClubRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (r CreateBookClubRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
	)
}

type UpdateBookClubRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (r UpdateBookClubRequest) Validate() error {
	return CreateBookClubRequest(r).Validate()
}

type BookClubSearch struct {
	crud.SearchOptions
	Name      string     `form:"name"`
	CreatedBy *uuid.UUID `form:"created_by"`
}

type BookClubResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   uuid.UUID `json:"created_by"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toResponse(b *BookClub) BookClubResponse {
	return BookClubResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		CreatedBy:   b.CreatedBy,
		MemberCount: b.MemberCount,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

var (
	ErrDuplicateBookClub = errors.New("a book club with this name already exists")
	ErrNotClubOwner      = errors.New("only the club creator or an admin may modify a club")
)

func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, ErrDuplicateBookClub):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrNotClubOwner):
		response.Forbidden(c, err.Error())
	default:
		logger.Error("book club operation failed", err)
		response.InternalServerError(c, "internal server error")
	}
	return true
}
