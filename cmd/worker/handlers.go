package main

import (
	"github.com/hibiken/asynq"

	bookJob "readinghub-backend/internal/domains/book/job"
	"readinghub-backend/internal/shared"
	"readinghub-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	acceptedEmail *bookJob.AcceptedEmailHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		acceptedEmail: bookJob.NewAcceptedEmailHandler(c.UserRepo, c.EmailService),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeBookAcceptedEmail, h.acceptedEmail.ProcessTask)
}
