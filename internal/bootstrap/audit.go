package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AuditEntry records one administrative action against a domain record.
type AuditEntry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Reason     string
	OccurredAt time.Time
}

// AuditLogger receives administrative actions that must leave a trail,
// such as attendance overrides.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry)
}

type zapAuditLogger struct {
	logger *zap.Logger
}

// NewZapAuditLogger writes the audit trail through the structured logger.
// Shipping to a dedicated audit store is handled downstream of log
// collection.
func NewZapAuditLogger(logger ...*zap.Logger) AuditLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &zapAuditLogger{logger: l}
}

func (a *zapAuditLogger) Record(_ context.Context, entry AuditEntry) {
	a.logger.Info("audit",
		zap.String("actor_id", entry.ActorID),
		zap.String("action", entry.Action),
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID),
		zap.String("reason", entry.Reason),
		zap.Time("occurred_at", entry.OccurredAt),
	)
}
