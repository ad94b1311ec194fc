package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"readinghub-backend/internal/domains/book/model"
	"readinghub-backend/internal/domains/user"
	"readinghub-backend/internal/infrastructure/email"
)

// AcceptedEmailHandler consumes the book-accepted event on the worker and
// emails the creator.
type AcceptedEmailHandler struct {
	users  user.Repository
	emails email.Service
}

func NewAcceptedEmailHandler(users user.Repository, emails email.Service) *AcceptedEmailHandler {
	return &AcceptedEmailHandler{users: users, emails: emails}
}

func (h *AcceptedEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var event model.BookAcceptedEvent
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal BookAccepted payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	creator, err := h.users.GetByID(ctx, event.CreatedBy)
	if err != nil {
		return fmt.Errorf("resolve creator %s: %w", event.CreatedBy, err)
	}

	data := email.BookAcceptedData{
		Email:     creator.Email,
		Name:      creator.DisplayName,
		BookTitle: event.Title,
	}
	if err := h.emails.SendBookAcceptedEmail(ctx, data); err != nil {
		return fmt.Errorf("send book accepted email: %w", err)
	}

	log.Info().
		Str("book_id", event.BookID.String()).
		Str("email", creator.Email).
		Msg("Book accepted email sent")
	return nil
}
