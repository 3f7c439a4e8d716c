package events

import (
	"context"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/teranga-tours/service-booking/internal/kafka"
)

// CancellationHandler releases resources consumed by a cancelled booking.
type CancellationHandler interface {
	HandleBookingCancelled(ctx context.Context, event BookingCancelledEvent) error
}

// BookingEventConsumer listens to booking events and releases promotion
// usage when a booking that consumed a code is cancelled.
type BookingEventConsumer struct {
	consumer *kafka.Consumer
	handler  CancellationHandler
	logger   *zap.Logger
}

// NewBookingEventConsumer creates a new consumer for booking events.
func NewBookingEventConsumer(
	brokers []string,
	groupID string,
	handler CancellationHandler,
	logger *zap.Logger,
) *BookingEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicBookingEvents, logger)
	return &BookingEventConsumer{
		consumer: consumer,
		handler:  handler,
		logger:   logger,
	}
}

// Start begins consuming booking events. It blocks until the context is cancelled.
func (c *BookingEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// handleMessage routes incoming Kafka messages to the appropriate handler.
func (c *BookingEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return err
	}

	switch {
	case strings.EqualFold(cloudEvent.Type, BookingCancelled):
		return c.handleBookingCancelled(ctx, cloudEvent)

	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

// handleBookingCancelled processes a BookingCancelledEvent.
func (c *BookingEventConsumer) handleBookingCancelled(ctx context.Context, ce kafka.CloudEvent) error {
	var event BookingCancelledEvent
	if err := ce.ParseData(&event); err != nil {
		c.logger.Error("failed to parse BookingCancelledEvent data", zap.Error(err))
		return err
	}

	c.logger.Info("handling booking cancelled event",
		zap.String("reference", event.Reference),
	)
	return c.handler.HandleBookingCancelled(ctx, event)
}

// Close closes the underlying Kafka consumer.
func (c *BookingEventConsumer) Close() error {
	return c.consumer.Close()
}
