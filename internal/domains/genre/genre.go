// Package genre is a plain pipeline family: no moderation state, rules
// expressed entirely through hooks.
package genre

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

type Genre struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateGenreRequest struct {
	Name string `json:"name"`
}

func (r CreateGenreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 100),
		),
	)
}

type UpdateGenreRequest struct {
	Name string `json:"name"`
}

func (r UpdateGenreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 100),
		),
	)
}

type GenreSearch struct {
	crud.SearchOptions
	Name string `form:"name"`
}

type GenreResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(g *Genre) GenreResponse {
	return GenreResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

var (
	ErrDuplicateGenre = errors.New("a genre with this name already exists")
	ErrGenreInUse     = errors.New("genre is still referenced by books")
)

// HandleError translates a service error into an HTTP response. Returns
// true when the error was handled.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, ErrDuplicateGenre):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrGenreInUse):
		response.Conflict(c, err.Error())
	default:
		logger.Error("genre operation failed", err)
		response.InternalServerError(c, "internal server error")
	}
	return true
}
