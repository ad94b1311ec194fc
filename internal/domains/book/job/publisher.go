package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"readinghub-backend/internal/domains/book/model"
	types "readinghub-backend/internal/shared"
)

// AsynqPublisher delivers book events to the background worker queue.
type AsynqPublisher struct {
	client *asynq.Client
}

func NewAsynqPublisher(client *asynq.Client) *AsynqPublisher {
	return &AsynqPublisher{client: client}
}

func (p *AsynqPublisher) BookAccepted(ctx context.Context, event model.BookAcceptedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal book accepted event: %w", err)
	}

	task := asynq.NewTask(types.TypeBookAcceptedEmail, payload)
	if _, err := p.client.EnqueueContext(ctx, task, asynq.Queue(types.QueueEmail), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue book accepted email: %w", err)
	}
	return nil
}
