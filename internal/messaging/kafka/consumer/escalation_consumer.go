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

// ConsumeAttendanceEscalations notifies HR about records flagged past the
// manager. Same delivery contract as the lifecycle consumer: poison messages
// are committed and dropped, delivery failures stay uncommitted.
func ConsumeAttendanceEscalations(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier notification.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_escalation")
	log.Info("attendance escalation consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance escalation consumer stopped")
				return
			}
			log.Error("fetch escalation message failed", zap.Error(err))
			continue
		}

		var event events.AttendanceEscalatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode attendance_escalated event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		err = notifier.Notify(ctx, notification.Notification{
			Recipient: "hr",
			Kind:      "attendance_escalated",
			Subject:   fmt.Sprintf("Attendance dispute escalated for %s", event.Date),
			Body: fmt.Sprintf(
				"Employee %s escalated attendance record %s to HR. Notes: %s",
				event.EmployeeID, event.RecordID, event.Notes,
			),
		})
		if err != nil {
			log.Error("dispatch escalation notification failed",
				zap.String("record_id", event.RecordID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit escalation message failed", zap.Error(err))
			continue
		}

		log.Info("escalation notification dispatched",
			zap.String("record_id", event.RecordID),
			zap.String("employee_id", event.EmployeeID),
		)
	}
}
