package events

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies this service in CloudEvent envelopes.
const Source = "service-booking"

// Topics.
const (
	TopicBookingEvents = "booking.events"
)

// Event types on booking.events.
const (
	BookingSubmitted = "booking.submitted"
	BookingCancelled = "booking.cancelled"
)

// BookingSubmittedEvent is published after a booking saga completes.
type BookingSubmittedEvent struct {
	BookingID   uuid.UUID  `json:"booking_id"`
	Reference   string     `json:"reference"`
	CircuitID   uuid.UUID  `json:"circuit_id"`
	PromotionID *uuid.UUID `json:"promotion_id,omitempty"`
	TotalXOF    int64      `json:"total_xof"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

// BookingCancelledEvent is published when an operator cancels a booking.
type BookingCancelledEvent struct {
	BookingID   uuid.UUID  `json:"booking_id"`
	Reference   string     `json:"reference"`
	PromotionID *uuid.UUID `json:"promotion_id,omitempty"`
	Reason      string     `json:"reason"`
	OccurredAt  time.Time  `json:"occurred_at"`
}
