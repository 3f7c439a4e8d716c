package saga

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranga-tours/service-booking/internal/domain/booking"
	"github.com/teranga-tours/service-booking/internal/domain/promotion"
	"github.com/teranga-tours/service-booking/internal/events"
	"github.com/teranga-tours/service-booking/internal/kafka"
)

// EventPublisher is the subset of the Kafka producer the saga needs.
type EventPublisher interface {
	Publish(ctx context.Context, topic, source, eventType, key string, data interface{}) error
}

// BookingSagaService orchestrates the booking submission workflow.
type BookingSagaService struct {
	bookingRepo   booking.BookingRepository
	promotionRepo promotion.PromotionRepository
	producer      EventPublisher
	logger        *zap.Logger
}

// NewBookingSagaService creates a new BookingSagaService.
func NewBookingSagaService(
	bookingRepo booking.BookingRepository,
	promotionRepo promotion.PromotionRepository,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingSagaService {
	return &BookingSagaService{
		bookingRepo:   bookingRepo,
		promotionRepo: promotionRepo,
		producer:      producer,
		logger:        logger,
	}
}

// SubmitBookingSaga persists the booking, consumes the promotion usage
// atomically, confirms the booking and publishes a booking.submitted
// event. Validation and the usage increment are no longer two
// unsynchronized reads: the increment is conditional at the storage layer,
// and a failed increment fails the submission as "promotion exhausted".
func (s *BookingSagaService) SubmitBookingSaga(ctx context.Context, b *booking.Booking) error {
	saga := NewSaga("submit_booking", s.logger)

	// Step 1: Save the pending booking
	saga.AddStep(SagaStep{
		Name: "save_booking",
		Execute: func(ctx context.Context) error {
			return s.bookingRepo.Save(ctx, b)
		},
		Compensate: func(ctx context.Context) error {
			b.MarkFailed()
			return s.bookingRepo.Update(ctx, b)
		},
	})

	// Step 2: Consume the promotion usage, if one was applied
	if promoID := b.PromotionID(); promoID != nil {
		saga.AddStep(SagaStep{
			Name: "consume_promotion_usage",
			Execute: func(ctx context.Context) error {
				ok, err := s.promotionRepo.TryIncrementUsage(ctx, *promoID)
				if err != nil {
					return err
				}
				if !ok {
					return promotion.ErrExhausted
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.promotionRepo.ReleaseUsage(ctx, *promoID)
			},
		})
	}

	// Step 3: Confirm the booking
	saga.AddStep(SagaStep{
		Name: "confirm_booking",
		Execute: func(ctx context.Context) error {
			if err := b.Confirm(); err != nil {
				return err
			}
			return s.bookingRepo.Update(ctx, b)
		},
	})

	// Step 4: Publish booking.submitted (no compensation; failures here
	// are logged by the orchestrator and must not lose the booking)
	saga.AddStep(SagaStep{
		Name: "publish_booking_submitted",
		Execute: func(ctx context.Context) error {
			event := events.BookingSubmittedEvent{
				BookingID:   b.ID(),
				Reference:   b.Reference(),
				CircuitID:   b.CircuitID(),
				PromotionID: b.PromotionID(),
				TotalXOF:    b.TotalXOF(),
				OccurredAt:  time.Now().UTC(),
			}
			if err := s.producer.Publish(ctx, events.TopicBookingEvents, events.Source,
				events.BookingSubmitted, b.Reference(), event); err != nil {
				// The booking is already confirmed; treat the event as
				// best-effort rather than rolling back a real sale.
				s.logger.Error("failed to publish booking.submitted",
					zap.String("reference", b.Reference()),
					zap.Error(err),
				)
			}
			return nil
		},
	})

	return saga.Execute(ctx)
}

// CancelBookingSaga cancels a confirmed booking and publishes
// booking.cancelled; the promotion usage release happens in the event
// consumer so external cancellations follow the same path.
func (s *BookingSagaService) CancelBookingSaga(ctx context.Context, b *booking.Booking, reason string) error {
	saga := NewSaga("cancel_booking", s.logger)

	saga.AddStep(SagaStep{
		Name: "cancel_booking",
		Execute: func(ctx context.Context) error {
			if err := b.Cancel(); err != nil {
				return err
			}
			return s.bookingRepo.Update(ctx, b)
		},
	})

	saga.AddStep(SagaStep{
		Name: "publish_booking_cancelled",
		Execute: func(ctx context.Context) error {
			event := events.BookingCancelledEvent{
				BookingID:   b.ID(),
				Reference:   b.Reference(),
				PromotionID: b.PromotionID(),
				Reason:      reason,
				OccurredAt:  time.Now().UTC(),
			}
			if err := s.producer.Publish(ctx, events.TopicBookingEvents, events.Source,
				events.BookingCancelled, b.Reference(), event); err != nil {
				s.logger.Error("failed to publish booking.cancelled",
					zap.String("reference", b.Reference()),
					zap.Error(err),
				)
			}
			return nil
		},
	})

	return saga.Execute(ctx)
}

var _ EventPublisher = (*kafka.Producer)(nil)
