package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Save(ctx context.Context, b *Booking) error
	Update(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindByReference(ctx context.Context, reference string) (*Booking, error)
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)
}
