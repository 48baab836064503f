package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-workforce/internal/events"
	"go-workforce/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeCycleLifecycle turns committed review-cycle activation events into
// notifications. Delivery failures leave the message uncommitted so it is
// retried; decode failures are committed and dropped (poison messages).
func ConsumeCycleLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier notification.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.cycle_lifecycle")
	log.Info("cycle lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("cycle lifecycle consumer stopped")
				return
			}
			log.Error("fetch cycle lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.ReviewCycleActivatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode review_cycle_activated event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		err = notifier.Notify(ctx, notification.Notification{
			Recipient: event.ActivatedBy,
			Kind:      "review_cycle_activated",
			Subject:   fmt.Sprintf("Review cycle %s %d is now active", event.CycleName, event.Year),
			Body: fmt.Sprintf(
				"Activation created %d performance reviews (%d skipped).",
				event.ReviewsCreated, event.ReviewsSkipped,
			),
		})
		if err != nil {
			log.Error("dispatch cycle activation notification failed",
				zap.String("cycle_id", event.CycleID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit cycle lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("cycle activation notification dispatched",
			zap.String("cycle_id", event.CycleID),
			zap.Int("reviews_created", event.ReviewsCreated),
			zap.Int("reviews_skipped", event.ReviewsSkipped),
		)
	}
}
