package model

import (
	"errors"

	"github.com/gin-gonic/gin"

	"readinghub-backend/internal/domains/moderation"
	"readinghub-backend/internal/shared/response"
	"readinghub-backend/pkg/logger"
)

var ErrDuplicateAuthor = errors.New("an author with this name and date of birth already exists")

// HandleAuthorError translates a service error into an HTTP response.
// Returns true when the error was handled.
func HandleAuthorError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var declined *moderation.DeclinedUpdateError
	var notAllowed *moderation.NotAllowedError
	switch {
	case errors.Is(err, ErrDuplicateAuthor):
		response.Conflict(c, err.Error())
	case errors.As(err, &declined):
		response.Forbidden(c, declined.Error())
	case errors.As(err, &notAllowed):
		response.Conflict(c, notAllowed.Error())
	default:
		logger.Error("author operation failed", err)
		response.InternalServerError(c, "internal server error")
	}
	return true
}
