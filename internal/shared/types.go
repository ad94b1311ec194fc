package shared

// Asynq task types and queues.
const (
	TypeBookAcceptedEmail = "email:book_accepted"

	QueueEmail   = "email"
	QueueDefault = "default"
)
