package promotion

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiscountKind represents the type of discount.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// Validation outcomes. Handlers collapse all of them into one generic
// "invalid code" message so a scoped or exhausted code is
// indistinguishable from one that does not exist.
var (
	ErrNotFound     = errors.New("promotion not found")
	ErrNotStarted   = errors.New("promotion not yet valid")
	ErrExpired      = errors.New("promotion expired")
	ErrExhausted    = errors.New("promotion usage limit reached")
	ErrMinTravelers = errors.New("traveler count below promotion minimum")
)

// NormalizeCode uppercases and trims a customer-entered code. An empty
// result means no promotion was attempted.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Promotion is the aggregate root for discount codes.
type Promotion struct {
	id           uuid.UUID
	code         string
	kind         DiscountKind
	value        int64 // percentage (1-100) or fixed amount in XOF
	circuitID    *uuid.UUID
	startDate    *time.Time
	endDate      *time.Time
	minTravelers int
	usageLimit   *int
	usageCount   int
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewPromotion creates a new promotion. circuitID of nil means the code
// applies to every circuit; startDate/endDate of nil mean the window is
// unbounded on that side; usageLimit of nil means unlimited.
func NewPromotion(
	code string,
	kind DiscountKind,
	value int64,
	circuitID *uuid.UUID,
	startDate, endDate *time.Time,
	minTravelers int,
	usageLimit *int,
) (*Promotion, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("promotion code is required")
	}
	if kind != DiscountPercentage && kind != DiscountFixed {
		return nil, fmt.Errorf("invalid discount kind: %s", kind)
	}
	if value <= 0 {
		return nil, fmt.Errorf("discount value must be positive")
	}
	if kind == DiscountPercentage && value > 100 {
		return nil, fmt.Errorf("percentage discount cannot exceed 100")
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, fmt.Errorf("end_date must be after start_date")
	}
	if minTravelers < 1 {
		minTravelers = 1
	}
	if usageLimit != nil && *usageLimit < 1 {
		return nil, fmt.Errorf("usage_limit must be positive when set")
	}

	now := time.Now().UTC()
	return &Promotion{
		id:           uuid.New(),
		code:         code,
		kind:         kind,
		value:        value,
		circuitID:    circuitID,
		startDate:    startDate,
		endDate:      endDate,
		minTravelers: minTravelers,
		usageLimit:   usageLimit,
		usageCount:   0,
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a Promotion from persistence.
func Reconstruct(
	id uuid.UUID,
	code string,
	kind DiscountKind,
	value int64,
	circuitID *uuid.UUID,
	startDate, endDate *time.Time,
	minTravelers int,
	usageLimit *int,
	usageCount int,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Promotion {
	return &Promotion{
		id: id, code: code, kind: kind, value: value,
		circuitID: circuitID, startDate: startDate, endDate: endDate,
		minTravelers: minTravelers, usageLimit: usageLimit, usageCount: usageCount,
		isActive: isActive, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ValidateFor checks whether the promotion may be applied to a booking on
// the given circuit with the given traveler count at time now. Checks run
// in order and stop at the first failure. A scope mismatch returns
// ErrNotFound on purpose: the API must not reveal that the code exists
// for a different circuit.
func (p *Promotion) ValidateFor(circuitID uuid.UUID, travelers int, now time.Time) error {
	if !p.isActive {
		return ErrNotFound
	}
	if p.circuitID != nil && *p.circuitID != circuitID {
		return ErrNotFound
	}
	if p.startDate != nil && now.Before(*p.startDate) {
		return ErrNotStarted
	}
	if p.endDate != nil && now.After(*p.endDate) {
		return ErrExpired
	}
	if p.usageLimit != nil && p.usageCount >= *p.usageLimit {
		return ErrExhausted
	}
	if travelers < p.minTravelers {
		return ErrMinTravelers
	}
	return nil
}

// Discount returns the discount amount for a subtotal in XOF. Percentage
// discounts round half-up; fixed discounts never exceed the subtotal.
func (p *Promotion) Discount(subtotalXOF int64) int64 {
	switch p.kind {
	case DiscountPercentage:
		return (subtotalXOF*p.value + 50) / 100
	case DiscountFixed:
		if p.value > subtotalXOF {
			return subtotalXOF
		}
		return p.value
	default:
		return 0
	}
}

// Apply returns the discounted total, never below zero.
func (p *Promotion) Apply(subtotalXOF int64) int64 {
	total := subtotalXOF - p.Discount(subtotalXOF)
	if total < 0 {
		return 0
	}
	return total
}

// Deactivate turns the code off without deleting its usage history.
func (p *Promotion) Deactivate() {
	p.isActive = false
	p.updatedAt = time.Now().UTC()
}

// Getters.
func (p *Promotion) ID() uuid.UUID          { return p.id }
func (p *Promotion) Code() string           { return p.code }
func (p *Promotion) Kind() DiscountKind     { return p.kind }
func (p *Promotion) Value() int64           { return p.value }
func (p *Promotion) CircuitID() *uuid.UUID  { return p.circuitID }
func (p *Promotion) StartDate() *time.Time  { return p.startDate }
func (p *Promotion) EndDate() *time.Time    { return p.endDate }
func (p *Promotion) MinTravelers() int      { return p.minTravelers }
func (p *Promotion) UsageLimit() *int       { return p.usageLimit }
func (p *Promotion) UsageCount() int        { return p.usageCount }
func (p *Promotion) IsActive() bool         { return p.isActive }
func (p *Promotion) CreatedAt() time.Time   { return p.createdAt }
func (p *Promotion) UpdatedAt() time.Time   { return p.updatedAt }
