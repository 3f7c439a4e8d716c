package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teranga-tours/service-booking/internal/domain"
	"github.com/teranga-tours/service-booking/internal/domain/currency"
)

// Status represents the booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Booking is the aggregate root for a submitted tour booking. All amounts
// are stored in XOF; the display currency only affects rendering.
type Booking struct {
	id              uuid.UUID
	reference       string
	circuitID       uuid.UUID
	customerName    string
	customerEmail   string
	customerPhone   string
	adults          int
	children        int
	displayCurrency currency.Currency
	promotionID     *uuid.UUID
	promotionCode   string
	subtotalXOF     int64
	discountXOF     int64
	totalXOF        int64
	status          Status
	createdAt       time.Time
	updatedAt       time.Time
}

// NewBooking creates a pending booking with already-computed amounts. The
// amounts come from the pricing engine; this constructor only guards the
// structural invariants.
func NewBooking(
	circuitID uuid.UUID,
	customerName, customerEmail, customerPhone string,
	adults, children int,
	displayCurrency currency.Currency,
	promotionID *uuid.UUID,
	promotionCode string,
	subtotalXOF, discountXOF int64,
) (*Booking, error) {
	if customerName == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	if customerEmail == "" {
		return nil, fmt.Errorf("customer email is required")
	}
	if adults < 1 {
		return nil, fmt.Errorf("at least one adult is required")
	}
	if children < 0 {
		return nil, fmt.Errorf("children must not be negative")
	}
	if subtotalXOF < 0 || discountXOF < 0 || discountXOF > subtotalXOF {
		return nil, fmt.Errorf("invalid amounts")
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		reference:       newReference(),
		circuitID:       circuitID,
		customerName:    customerName,
		customerEmail:   customerEmail,
		customerPhone:   customerPhone,
		adults:          adults,
		children:        children,
		displayCurrency: displayCurrency,
		promotionID:     promotionID,
		promotionCode:   promotionCode,
		subtotalXOF:     subtotalXOF,
		discountXOF:     discountXOF,
		totalXOF:        subtotalXOF - discountXOF,
		status:          StatusPending,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// newReference generates the customer-facing booking reference.
func newReference() string {
	return "TRG-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// Reconstruct rebuilds a Booking from persistence.
func Reconstruct(
	id uuid.UUID,
	reference string,
	circuitID uuid.UUID,
	customerName, customerEmail, customerPhone string,
	adults, children int,
	displayCurrency currency.Currency,
	promotionID *uuid.UUID,
	promotionCode string,
	subtotalXOF, discountXOF, totalXOF int64,
	status Status,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id: id, reference: reference, circuitID: circuitID,
		customerName: customerName, customerEmail: customerEmail, customerPhone: customerPhone,
		adults: adults, children: children, displayCurrency: displayCurrency,
		promotionID: promotionID, promotionCode: promotionCode,
		subtotalXOF: subtotalXOF, discountXOF: discountXOF, totalXOF: totalXOF,
		status: status, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// Confirm transitions a pending booking to confirmed once the submission
// saga has completed.
func (b *Booking) Confirm() error {
	if b.status != StatusPending {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions a confirmed booking to cancelled.
func (b *Booking) Cancel() error {
	if b.status != StatusConfirmed {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// Fail marks a pending booking as failed during saga compensation.
func (b *Booking) Fail() error {
	if b.status != StatusPending {
		return domain.NewInvalidStateError(string(b.status), string(StatusFailed))
	}
	b.status = StatusFailed
	b.updatedAt = time.Now().UTC()
	return nil
}

// MarkFailed forces the failed state. Saga compensation can run after
// Confirm has already flipped the in-memory status, so unlike Fail there
// is no transition guard; a rolled-back submission must never persist as
// confirmed.
func (b *Booking) MarkFailed() {
	b.status = StatusFailed
	b.updatedAt = time.Now().UTC()
}

// Travelers returns the raw headcount (not the billable-unit count).
func (b *Booking) Travelers() int {
	return b.adults + b.children
}

// Getters.
func (b *Booking) ID() uuid.UUID                       { return b.id }
func (b *Booking) Reference() string                   { return b.reference }
func (b *Booking) CircuitID() uuid.UUID                { return b.circuitID }
func (b *Booking) CustomerName() string                { return b.customerName }
func (b *Booking) CustomerEmail() string               { return b.customerEmail }
func (b *Booking) CustomerPhone() string               { return b.customerPhone }
func (b *Booking) Adults() int                         { return b.adults }
func (b *Booking) Children() int                       { return b.children }
func (b *Booking) DisplayCurrency() currency.Currency  { return b.displayCurrency }
func (b *Booking) PromotionID() *uuid.UUID             { return b.promotionID }
func (b *Booking) PromotionCode() string               { return b.promotionCode }
func (b *Booking) SubtotalXOF() int64                  { return b.subtotalXOF }
func (b *Booking) DiscountXOF() int64                  { return b.discountXOF }
func (b *Booking) TotalXOF() int64                     { return b.totalXOF }
func (b *Booking) Status() Status                      { return b.status }
func (b *Booking) CreatedAt() time.Time                { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time                { return b.updatedAt }
