package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranga-tours/service-booking/internal/domain"
	promotionDomain "github.com/teranga-tours/service-booking/internal/domain/promotion"
	"github.com/teranga-tours/service-booking/internal/metrics"
)

// invalidCodeMessage is the single message shown for every rejection
// reason, so callers cannot probe which codes exist or why one failed.
const invalidCodeMessage = "invalid promotion code"

// CreatePromotionRequest holds data to create a promotion.
type CreatePromotionRequest struct {
	Code         string     `json:"code" binding:"required"`
	Kind         string     `json:"kind" binding:"required"`
	Value        int64      `json:"value" binding:"required"`
	CircuitID    *uuid.UUID `json:"circuit_id"`
	StartDate    *string    `json:"start_date"`
	EndDate      *string    `json:"end_date"`
	MinTravelers int        `json:"min_travelers"`
	UsageLimit   *int       `json:"usage_limit"`
}

// ValidatePromotionRequest holds data to preview a promotion against a draft booking.
type ValidatePromotionRequest struct {
	Code        string    `json:"code" binding:"required"`
	CircuitID   uuid.UUID `json:"circuit_id" binding:"required"`
	Adults      int       `json:"adults" binding:"required,min=1"`
	Children    int       `json:"children" binding:"min=0"`
	SubtotalXOF int64     `json:"subtotal_xof" binding:"required,gt=0"`
}

// PromotionDTO is the API response representation of a promotion.
type PromotionDTO struct {
	ID           uuid.UUID  `json:"id"`
	Code         string     `json:"code"`
	Kind         string     `json:"kind"`
	Value        int64      `json:"value"`
	CircuitID    *uuid.UUID `json:"circuit_id,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	MinTravelers int        `json:"min_travelers"`
	UsageLimit   *int       `json:"usage_limit,omitempty"`
	UsageCount   int        `json:"usage_count"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

// PromotionValidationDTO is the result of previewing a promotion code.
type PromotionValidationDTO struct {
	Valid       bool   `json:"valid"`
	Code        string `json:"code"`
	DiscountXOF int64  `json:"discount_xof"`
	TotalXOF    int64  `json:"total_xof"`
	Message     string `json:"message,omitempty"`
}

// PromotionService handles promotion use cases.
type PromotionService struct {
	repo    promotionDomain.PromotionRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewPromotionService creates a new PromotionService.
func NewPromotionService(repo promotionDomain.PromotionRepository, m *metrics.Metrics, logger *zap.Logger) *PromotionService {
	return &PromotionService{repo: repo, metrics: m, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// CreatePromotion creates a new promotion (admin only).
func (s *PromotionService) CreatePromotion(ctx context.Context, req CreatePromotionRequest) (*PromotionDTO, error) {
	startDate, err := parseOptionalDate(req.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := parseOptionalDate(req.EndDate, "end_date")
	if err != nil {
		return nil, err
	}

	p, err := promotionDomain.NewPromotion(
		req.Code,
		promotionDomain.DiscountKind(req.Kind),
		req.Value,
		req.CircuitID,
		startDate, endDate,
		req.MinTravelers,
		req.UsageLimit,
	)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save promotion: %w", err)
	}

	s.logger.Info("promotion created", zap.String("code", p.Code()))
	return toPromotionDTO(p), nil
}

// DeactivatePromotion turns a promotion off (admin only).
func (s *PromotionService) DeactivatePromotion(ctx context.Context, id uuid.UUID) (*PromotionDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Deactivate()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to deactivate promotion: %w", err)
	}

	s.logger.Info("promotion deactivated", zap.String("code", p.Code()))
	return toPromotionDTO(p), nil
}

// DeletePromotion removes a promotion (admin only).
func (s *PromotionService) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ListPromotions returns every promotion (admin only).
func (s *PromotionService) ListPromotions(ctx context.Context) ([]*PromotionDTO, error) {
	promotions, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]*PromotionDTO, len(promotions))
	for i, p := range promotions {
		dtos[i] = toPromotionDTO(p)
	}
	return dtos, nil
}

// Resolve normalizes a code and returns the promotion if it is valid for
// the circuit and traveler count. The first return is nil when no code
// was attempted. Every rejection reason maps onto invalidCodeMessage at
// the API; the distinct error is kept for logs and tests.
func (s *PromotionService) Resolve(ctx context.Context, code string, circuitID uuid.UUID, travelers int) (*promotionDomain.Promotion, error) {
	normalized := promotionDomain.NormalizeCode(code)
	if normalized == "" {
		return nil, nil
	}

	p, err := s.repo.FindActiveByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.PromotionsRejected.Inc()
			return nil, promotionDomain.ErrNotFound
		}
		return nil, err
	}

	if err := p.ValidateFor(circuitID, travelers, s.now()); err != nil {
		s.metrics.PromotionsRejected.Inc()
		s.logger.Info("promotion rejected",
			zap.String("code", normalized),
			zap.String("reason", err.Error()),
		)
		return nil, err
	}

	return p, nil
}

// Validate previews a promotion against a draft booking subtotal.
func (s *PromotionService) Validate(ctx context.Context, req ValidatePromotionRequest) (*PromotionValidationDTO, error) {
	normalized := promotionDomain.NormalizeCode(req.Code)

	p, err := s.Resolve(ctx, req.Code, req.CircuitID, req.Adults+req.Children)
	if err != nil {
		if isPromotionRejection(err) {
			return &PromotionValidationDTO{
				Valid:    false,
				Code:     normalized,
				TotalXOF: req.SubtotalXOF,
				Message:  invalidCodeMessage,
			}, nil
		}
		return nil, err
	}
	if p == nil {
		return &PromotionValidationDTO{
			Valid:    false,
			Code:     normalized,
			TotalXOF: req.SubtotalXOF,
			Message:  invalidCodeMessage,
		}, nil
	}

	return &PromotionValidationDTO{
		Valid:       true,
		Code:        p.Code(),
		DiscountXOF: p.Discount(req.SubtotalXOF),
		TotalXOF:    p.Apply(req.SubtotalXOF),
	}, nil
}

// isPromotionRejection reports whether err is one of the expected
// validation outcomes rather than an infrastructure failure.
func isPromotionRejection(err error) bool {
	return errors.Is(err, promotionDomain.ErrNotFound) ||
		errors.Is(err, promotionDomain.ErrNotStarted) ||
		errors.Is(err, promotionDomain.ErrExpired) ||
		errors.Is(err, promotionDomain.ErrExhausted) ||
		errors.Is(err, promotionDomain.ErrMinTravelers)
}

func parseOptionalDate(value *string, field string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid %s format (use RFC3339)", field))
	}
	return &t, nil
}

func toPromotionDTO(p *promotionDomain.Promotion) *PromotionDTO {
	return &PromotionDTO{
		ID:           p.ID(),
		Code:         p.Code(),
		Kind:         string(p.Kind()),
		Value:        p.Value(),
		CircuitID:    p.CircuitID(),
		StartDate:    p.StartDate(),
		EndDate:      p.EndDate(),
		MinTravelers: p.MinTravelers(),
		UsageLimit:   p.UsageLimit(),
		UsageCount:   p.UsageCount(),
		IsActive:     p.IsActive(),
		CreatedAt:    p.CreatedAt(),
	}
}
