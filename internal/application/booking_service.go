package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranga-tours/service-booking/internal/domain"
	bookingDomain "github.com/teranga-tours/service-booking/internal/domain/booking"
	circuitDomain "github.com/teranga-tours/service-booking/internal/domain/circuit"
	"github.com/teranga-tours/service-booking/internal/domain/currency"
	"github.com/teranga-tours/service-booking/internal/domain/pricing"
	promotionDomain "github.com/teranga-tours/service-booking/internal/domain/promotion"
	"github.com/teranga-tours/service-booking/internal/events"
	"github.com/teranga-tours/service-booking/internal/metrics"
	"github.com/teranga-tours/service-booking/internal/saga"
)

// QuoteRequest is a draft booking to be priced without persisting anything.
type QuoteRequest struct {
	CircuitSlug   string `json:"circuit_slug" binding:"required"`
	Adults        int    `json:"adults" binding:"required,min=1"`
	Children      int    `json:"children" binding:"min=0"`
	PromotionCode string `json:"promotion_code"`
	Currency      string `json:"currency"`
}

// SubmitBookingRequest is a draft booking plus the customer's contact details.
type SubmitBookingRequest struct {
	CircuitSlug   string `json:"circuit_slug" binding:"required"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone"`
	Adults        int    `json:"adults" binding:"required,min=1"`
	Children      int    `json:"children" binding:"min=0"`
	PromotionCode string `json:"promotion_code"`
	Currency      string `json:"currency"`
}

// QuoteDTO is the priced draft returned to the booking page. Amounts are
// in XOF; Display* fields carry the selected-currency rendering.
type QuoteDTO struct {
	CircuitSlug       string `json:"circuit_slug"`
	Adults            int    `json:"adults"`
	Children          int    `json:"children"`
	BillableTravelers int    `json:"billable_travelers"`
	SubtotalXOF       int64  `json:"subtotal_xof"`
	DiscountXOF       int64  `json:"discount_xof"`
	TotalXOF          int64  `json:"total_xof"`
	Currency          string `json:"currency"`
	DisplaySubtotal   string `json:"display_subtotal"`
	DisplayTotal      string `json:"display_total"`
	PromotionCode     string `json:"promotion_code,omitempty"`
	PromotionValid    bool   `json:"promotion_valid"`
	PromotionMessage  string `json:"promotion_message,omitempty"`
}

// BookingDTO is the API response representation of a booking.
type BookingDTO struct {
	ID            uuid.UUID `json:"id"`
	Reference     string    `json:"reference"`
	CircuitID     uuid.UUID `json:"circuit_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Adults        int       `json:"adults"`
	Children      int       `json:"children"`
	Currency      string    `json:"currency"`
	PromotionCode string    `json:"promotion_code,omitempty"`
	SubtotalXOF   int64     `json:"subtotal_xof"`
	DiscountXOF   int64     `json:"discount_xof"`
	TotalXOF      int64     `json:"total_xof"`
	DisplayTotal  string    `json:"display_total"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// BookingService handles booking use cases.
type BookingService struct {
	bookingRepo  bookingDomain.BookingRepository
	circuitRepo  circuitDomain.CircuitRepository
	promotionSvc *PromotionService
	sagaSvc      *saga.BookingSagaService
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo bookingDomain.BookingRepository,
	circuitRepo circuitDomain.CircuitRepository,
	promotionSvc *PromotionService,
	sagaSvc *saga.BookingSagaService,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		circuitRepo:  circuitRepo,
		promotionSvc: promotionSvc,
		sagaSvc:      sagaSvc,
		metrics:      m,
		logger:       logger,
	}
}

// pricedDraft is the outcome of pricing a draft booking.
type pricedDraft struct {
	circuit     *circuitDomain.Circuit
	promo       *promotionDomain.Promotion
	display     currency.Currency
	subtotalXOF int64
	discountXOF int64
	promoValid  bool
	promoMsg    string
}

// price runs the pricing pipeline for a draft: estimate the subtotal,
// resolve the promotion and compute the discount. An invalid code never
// fails the draft; it prices without a discount and carries the generic
// rejection message.
func (s *BookingService) price(ctx context.Context, slug, code, currencyCode string, adults, children int) (*pricedDraft, error) {
	c, err := s.circuitRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, domain.NewNotFoundError("circuit")
	}

	headcount := adults + children
	if !c.AcceptsParticipants(headcount) {
		return nil, domain.NewValidationError(fmt.Sprintf(
			"this circuit takes %d to %d participants", c.MinParticipants(), c.MaxParticipants()))
	}

	display, err := currency.Parse(currencyCode)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	draft := &pricedDraft{
		circuit:     c,
		display:     display,
		subtotalXOF: pricing.Estimate(c.PriceXOF(), adults, children),
	}

	promo, err := s.promotionSvc.Resolve(ctx, code, c.ID(), headcount)
	switch {
	case err == nil && promo != nil:
		draft.promo = promo
		draft.promoValid = true
		draft.discountXOF = promo.Discount(draft.subtotalXOF)
	case err == nil:
		// no code attempted
	case isPromotionRejection(err):
		draft.promoMsg = invalidCodeMessage
	default:
		return nil, err
	}

	return draft, nil
}

// Quote prices a draft booking without persisting anything. Calling it
// again with a different code fully replaces the previous discount; two
// promotions never stack.
func (s *BookingService) Quote(ctx context.Context, req QuoteRequest) (*QuoteDTO, error) {
	draft, err := s.price(ctx, req.CircuitSlug, req.PromotionCode, req.Currency, req.Adults, req.Children)
	if err != nil {
		return nil, err
	}

	totalXOF := draft.subtotalXOF - draft.discountXOF
	prefs := currency.DisplayPreferences{Currency: draft.display, Language: "fr"}

	dto := &QuoteDTO{
		CircuitSlug:       req.CircuitSlug,
		Adults:            req.Adults,
		Children:          req.Children,
		BillableTravelers: pricing.BillableTravelers(req.Adults, req.Children),
		SubtotalXOF:       draft.subtotalXOF,
		DiscountXOF:       draft.discountXOF,
		TotalXOF:          totalXOF,
		Currency:          string(draft.display),
		DisplaySubtotal:   currency.Format(draft.subtotalXOF, prefs),
		DisplayTotal:      currency.Format(totalXOF, prefs),
		PromotionValid:    draft.promoValid,
		PromotionMessage:  draft.promoMsg,
	}
	if draft.promo != nil {
		dto.PromotionCode = draft.promo.Code()
	}
	return dto, nil
}

// Submit prices the draft, persists the booking and runs the submission
// saga. A code that fails validation rejects the submission outright so a
// customer is never silently charged full price after seeing a discount.
func (s *BookingService) Submit(ctx context.Context, req SubmitBookingRequest) (*BookingDTO, error) {
	draft, err := s.price(ctx, req.CircuitSlug, req.PromotionCode, req.Currency, req.Adults, req.Children)
	if err != nil {
		return nil, err
	}
	if promotionDomain.NormalizeCode(req.PromotionCode) != "" && !draft.promoValid {
		s.metrics.BookingsFailed.Inc()
		return nil, domain.NewValidationError(invalidCodeMessage)
	}

	var promoID *uuid.UUID
	var promoCode string
	if draft.promo != nil {
		id := draft.promo.ID()
		promoID = &id
		promoCode = draft.promo.Code()
	}

	b, err := bookingDomain.NewBooking(
		draft.circuit.ID(),
		req.CustomerName, req.CustomerEmail, req.CustomerPhone,
		req.Adults, req.Children,
		draft.display,
		promoID, promoCode,
		draft.subtotalXOF, draft.discountXOF,
	)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.sagaSvc.SubmitBookingSaga(ctx, b); err != nil {
		s.metrics.BookingsFailed.Inc()
		if errors.Is(err, promotionDomain.ErrExhausted) {
			// Lost the race on the last usage slot: the atomic increment
			// failed after validation passed.
			return nil, domain.NewConflictError(invalidCodeMessage)
		}
		return nil, err
	}

	s.metrics.BookingsSubmitted.Inc()
	if draft.promo != nil {
		s.metrics.PromotionsApplied.Inc()
	}

	s.logger.Info("booking submitted",
		zap.String("reference", b.Reference()),
		zap.String("circuit", req.CircuitSlug),
		zap.Int64("total_xof", b.TotalXOF()),
	)

	dto := s.toBookingDTO(b)
	return &dto, nil
}

// GetByReference returns a booking by its customer-facing reference.
func (s *BookingService) GetByReference(ctx context.Context, reference string) (*BookingDTO, error) {
	b, err := s.bookingRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	dto := s.toBookingDTO(b)
	return &dto, nil
}

// ListBookings returns bookings with pagination (admin only).
func (s *BookingService) ListBookings(ctx context.Context, page, limit int) ([]*BookingDTO, int64, error) {
	bookings, total, err := s.bookingRepo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]*BookingDTO, len(bookings))
	for i, b := range bookings {
		dto := s.toBookingDTO(b)
		dtos[i] = &dto
	}
	return dtos, total, nil
}

// CancelBooking cancels a confirmed booking (admin only). The promotion
// usage is released by the booking.cancelled event consumer.
func (s *BookingService) CancelBooking(ctx context.Context, id uuid.UUID, reason string) (*BookingDTO, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.sagaSvc.CancelBookingSaga(ctx, b, reason); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		zap.String("reference", b.Reference()),
		zap.String("reason", reason),
	)

	dto := s.toBookingDTO(b)
	return &dto, nil
}

// HandleBookingCancelled releases the promotion usage consumed by a
// cancelled booking. Invoked by the booking.events consumer.
func (s *BookingService) HandleBookingCancelled(ctx context.Context, event events.BookingCancelledEvent) error {
	if event.PromotionID == nil {
		return nil
	}
	s.logger.Info("releasing promotion usage",
		zap.String("reference", event.Reference),
		zap.String("promotion_id", event.PromotionID.String()),
	)
	return s.promotionSvc.repo.ReleaseUsage(ctx, *event.PromotionID)
}

func (s *BookingService) toBookingDTO(b *bookingDomain.Booking) BookingDTO {
	prefs := currency.DisplayPreferences{Currency: b.DisplayCurrency(), Language: "fr"}
	return BookingDTO{
		ID:            b.ID(),
		Reference:     b.Reference(),
		CircuitID:     b.CircuitID(),
		CustomerName:  b.CustomerName(),
		CustomerEmail: b.CustomerEmail(),
		CustomerPhone: b.CustomerPhone(),
		Adults:        b.Adults(),
		Children:      b.Children(),
		Currency:      string(b.DisplayCurrency()),
		PromotionCode: b.PromotionCode(),
		SubtotalXOF:   b.SubtotalXOF(),
		DiscountXOF:   b.DiscountXOF(),
		TotalXOF:      b.TotalXOF(),
		DisplayTotal:  currency.Format(b.TotalXOF(), prefs),
		Status:        string(b.Status()),
		CreatedAt:     b.CreatedAt(),
	}
}
