package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Outbox row lifecycle: pending → sent, or pending → failed → sent once the
// worker retries it. Rows are written inside the same transaction as the
// domain change (cycle activation, attendance escalation) so an event exists
// iff the change committed.
const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// maxBackoffSteps caps the linear retry backoff at 10 * 15s.
const maxBackoffSteps = 10

type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxStore struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxStore{db: db}
}

// WithTx binds the store to the caller's transaction so the event row
// commits or rolls back with the domain write.
func (s *outboxStore) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxStore{db: s.db, tx: tx}
}

func (s *outboxStore) Create(ctx context.Context, event OutboxEvent) error {
	const insert = `
INSERT INTO outbox_events
	(id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := s.runner().ExecContext(ctx, insert,
		event.ID, event.RequestID, event.AggregateType,
		event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status,
	)
	return err
}

// ListPending returns publishable rows oldest-first: everything pending,
// plus failed rows whose backoff window has elapsed.
func (s *outboxStore) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	const query = `
SELECT id::text, aggregate_type, aggregate_id::text, event_type, topic,
	payload, status, retry_count, COALESCE(next_retry_at, created_at)
FROM outbox_events
WHERE status IN ($1, $2)
	AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY created_at ASC
LIMIT $3
`
	rows, err := s.db.QueryContext(ctx, query, OutboxStatusPending, OutboxStatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batch := make([]OutboxEvent, 0, limit)
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(
			&ev.ID, &ev.AggregateType, &ev.AggregateID, &ev.EventType,
			&ev.Topic, &ev.Payload, &ev.Status, &ev.RetryCount, &ev.NextRetryAt,
		); err != nil {
			return nil, err
		}
		batch = append(batch, ev)
	}
	return batch, rows.Err()
}

func (s *outboxStore) MarkSent(ctx context.Context, id string) error {
	const update = `
UPDATE outbox_events
SET status = $2, processed_at = NOW(), error_message = NULL, updated_at = NOW()
WHERE id = $1
`
	_, err := s.db.ExecContext(ctx, update, id, OutboxStatusSent)
	return err
}

func (s *outboxStore) MarkFailed(ctx context.Context, id string, reason string) error {
	update := fmt.Sprintf(`
UPDATE outbox_events
SET status = $2,
	retry_count = retry_count + 1,
	error_message = LEFT($3, 500),
	next_retry_at = NOW() + (LEAST(retry_count + 1, %d) * INTERVAL '15 seconds'),
	updated_at = NOW()
WHERE id = $1
`, maxBackoffSteps)
	_, err := s.db.ExecContext(ctx, update, id, OutboxStatusFailed, reason)
	return err
}

func (s *outboxStore) runner() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// ValidateOutboxEvent rejects rows that could never be published.
func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
