package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-workforce/internal/events"
	"go-workforce/internal/messaging/kafka/consumer"
	"go-workforce/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer dispatches notifications for lifecycle and escalation events
// until interrupted.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	notifier := notification.NewLogNotifier()

	lifecycleReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{kafkaBroker},
		GroupID: "workforce-notifications",
		Topic:   events.ReviewCycleActivatedTopic,
	})
	defer lifecycleReader.Close()

	escalationReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{kafkaBroker},
		GroupID: "workforce-notifications",
		Topic:   events.AttendanceEscalatedTopic,
	})
	defer escalationReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeCycleLifecycle(ctx, lifecycleReader, notifier, logger)
	go consumer.ConsumeAttendanceEscalations(ctx, escalationReader, notifier, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
