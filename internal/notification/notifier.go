package notification

import (
	"context"

	"go.uber.org/zap"
)

// Notification is the payload handed to the delivery collaborator. Actual
// delivery (mail, chat, push) lives outside this service; this package only
// defines the seam and a log-backed default.
type Notification struct {
	Recipient string
	Subject   string
	Body      string
	Kind      string
}

//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type logNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notification")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification")
	}
	return &logNotifier{logger: l}
}

func (n *logNotifier) Notify(ctx context.Context, note Notification) error {
	n.logger.Info("notification dispatched",
		zap.String("recipient", note.Recipient),
		zap.String("kind", note.Kind),
		zap.String("subject", note.Subject),
	)
	return nil
}
