package model

import (
	"errors"

	"github.com/gin-gonic/gin"

	"readinghub-backend/internal/domains/moderation"
	"readinghub-backend/internal/shared/response"
	"readinghub-backend/pkg/logger"
)

var (
	ErrDuplicateBook = errors.New("a book with this title already exists for this author")
	ErrNoGenres      = errors.New("a book must have at least one genre")
)

// HandleBookError translates a service error into an HTTP response.
// Returns true when the error was handled.
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, ErrDuplicateBook):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrNoGenres):
		response.BadRequest(c, err.Error())
	default:
		var declined *moderation.DeclinedUpdateError
		var notAllowed *moderation.NotAllowedError
		switch {
		case errors.As(err, &declined):
			response.Forbidden(c, declined.Error())
		case errors.As(err, &notAllowed):
			response.Conflict(c, notAllowed.Error())
		default:
			logger.Error("book operation failed", err)
			response.InternalServerError(c, "internal server error")
		}
	}
	return true
}
