package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranga-tours/service-booking/internal/cache"
	"github.com/teranga-tours/service-booking/internal/domain"
	circuitDomain "github.com/teranga-tours/service-booking/internal/domain/circuit"
	"github.com/teranga-tours/service-booking/internal/domain/itinerary"
	"github.com/teranga-tours/service-booking/internal/metrics"
)

// CreateCircuitRequest holds data to create a circuit or excursion.
type CreateCircuitRequest struct {
	Kind            string `json:"kind" binding:"required"`
	TitleFR         string `json:"title_fr" binding:"required"`
	TitleEN         string `json:"title_en"`
	DescriptionFR   string `json:"description_fr"`
	DescriptionEN   string `json:"description_en"`
	PriceXOF        int64  `json:"price_xof" binding:"required,gt=0"`
	MinParticipants int    `json:"min_participants" binding:"required,min=1"`
	MaxParticipants int    `json:"max_participants" binding:"required,min=1"`
	DurationDays    int    `json:"duration_days" binding:"required,min=1"`
}

// UpdateCircuitRequest holds the editable circuit fields.
type UpdateCircuitRequest struct {
	TitleFR         string `json:"title_fr" binding:"required"`
	TitleEN         string `json:"title_en"`
	DescriptionFR   string `json:"description_fr"`
	DescriptionEN   string `json:"description_en"`
	PriceXOF        int64  `json:"price_xof" binding:"required,gt=0"`
	MinParticipants int    `json:"min_participants" binding:"required,min=1"`
	MaxParticipants int    `json:"max_participants" binding:"required,min=1"`
	DurationDays    int    `json:"duration_days" binding:"required,min=1"`
}

// StageRequest holds data to create or update an itinerary stage.
type StageRequest struct {
	DayNumber       int    `json:"day_number" binding:"required,min=1"`
	StageNumber     int    `json:"stage_number" binding:"required,min=1"`
	TitleFR         string `json:"title_fr" binding:"required"`
	TitleEN         string `json:"title_en"`
	DescriptionFR   string `json:"description_fr"`
	DescriptionEN   string `json:"description_en"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	DisplayOrder    int    `json:"display_order"`
}

// CircuitDTO is the API response representation of a circuit.
type CircuitDTO struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Kind            string    `json:"kind"`
	TitleFR         string    `json:"title_fr"`
	TitleEN         string    `json:"title_en"`
	DescriptionFR   string    `json:"description_fr"`
	DescriptionEN   string    `json:"description_en"`
	PriceXOF        int64     `json:"price_xof"`
	MinParticipants int       `json:"min_participants"`
	MaxParticipants int       `json:"max_participants"`
	DurationDays    int       `json:"duration_days"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// CircuitDetailDTO is a circuit with its grouped itinerary.
type CircuitDetailDTO struct {
	CircuitDTO
	Itinerary []itinerary.DayGroup `json:"itinerary"`
}

// CircuitService handles circuit and itinerary use cases.
type CircuitService struct {
	repo    circuitDomain.CircuitRepository
	cache   *cache.CircuitDetailCache
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCircuitService creates a new CircuitService.
func NewCircuitService(
	repo circuitDomain.CircuitRepository,
	detailCache *cache.CircuitDetailCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CircuitService {
	return &CircuitService{repo: repo, cache: detailCache, metrics: m, logger: logger}
}

// CreateCircuit creates a new circuit (admin only).
func (s *CircuitService) CreateCircuit(ctx context.Context, req CreateCircuitRequest) (*CircuitDTO, error) {
	c, err := circuitDomain.NewCircuit(
		circuitDomain.Kind(req.Kind),
		req.TitleFR, req.TitleEN, req.DescriptionFR, req.DescriptionEN,
		req.PriceXOF, req.MinParticipants, req.MaxParticipants, req.DurationDays,
	)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save circuit: %w", err)
	}

	s.logger.Info("circuit created", zap.String("slug", c.Slug()))
	dto := toCircuitDTO(c)
	return &dto, nil
}

// UpdateCircuit updates a circuit and invalidates its cached detail (admin only).
func (s *CircuitService) UpdateCircuit(ctx context.Context, id uuid.UUID, req UpdateCircuitRequest) (*CircuitDTO, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = c.UpdateDetails(
		req.TitleFR, req.TitleEN, req.DescriptionFR, req.DescriptionEN,
		req.PriceXOF, req.MinParticipants, req.MaxParticipants, req.DurationDays,
	)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update circuit: %w", err)
	}

	s.invalidateDetail(ctx, c.Slug())
	dto := toCircuitDTO(c)
	return &dto, nil
}

// DeactivateCircuit hides a circuit from the public catalogue (admin only).
func (s *CircuitService) DeactivateCircuit(ctx context.Context, id uuid.UUID) (*CircuitDTO, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Deactivate()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to deactivate circuit: %w", err)
	}

	s.invalidateDetail(ctx, c.Slug())
	dto := toCircuitDTO(c)
	return &dto, nil
}

// DeleteCircuit removes a circuit and its stages (admin only).
func (s *CircuitService) DeleteCircuit(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateDetail(ctx, c.Slug())
	return nil
}

// ListCircuits returns active circuits for the public catalogue.
func (s *CircuitService) ListCircuits(ctx context.Context, page, limit int) ([]*CircuitDTO, int64, error) {
	circuits, total, err := s.repo.ListActive(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toCircuitDTOs(circuits), total, nil
}

// ListAllCircuits returns every circuit, active or not (admin only).
func (s *CircuitService) ListAllCircuits(ctx context.Context, page, limit int) ([]*CircuitDTO, int64, error) {
	circuits, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toCircuitDTOs(circuits), total, nil
}

// GetCircuitDetail returns a circuit with its day-grouped itinerary,
// served from the cache when possible.
func (s *CircuitService) GetCircuitDetail(ctx context.Context, slug string) (*CircuitDetailDTO, error) {
	key := cache.Key(slug)

	if s.cache != nil {
		var cached CircuitDetailDTO
		if s.cache.Get(ctx, key, &cached) {
			s.metrics.CacheHits.Inc()
			return &cached, nil
		}
		s.metrics.CacheMisses.Inc()
	}

	c, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, domain.NewNotFoundError("circuit")
	}

	stages, err := s.repo.FindStages(ctx, c.ID())
	if err != nil {
		return nil, err
	}

	detail := &CircuitDetailDTO{
		CircuitDTO: toCircuitDTO(c),
		Itinerary:  itinerary.Group(stages),
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, detail)
	}
	return detail, nil
}

// GetItinerary returns just the day-grouped stages of a circuit.
func (s *CircuitService) GetItinerary(ctx context.Context, slug string) ([]itinerary.DayGroup, error) {
	detail, err := s.GetCircuitDetail(ctx, slug)
	if err != nil {
		return nil, err
	}
	return detail.Itinerary, nil
}

// AddStage appends a stage to a circuit's itinerary (admin only).
func (s *CircuitService) AddStage(ctx context.Context, circuitID uuid.UUID, req StageRequest) (*itinerary.Stage, error) {
	c, err := s.repo.FindByID(ctx, circuitID)
	if err != nil {
		return nil, err
	}
	if req.DayNumber > c.DurationDays() {
		return nil, domain.NewValidationError(
			fmt.Sprintf("day_number %d exceeds circuit duration of %d days", req.DayNumber, c.DurationDays()))
	}

	stage := itinerary.Stage{
		ID:              uuid.New(),
		CircuitID:       circuitID,
		DayNumber:       req.DayNumber,
		StageNumber:     req.StageNumber,
		TitleFR:         req.TitleFR,
		TitleEN:         req.TitleEN,
		DescriptionFR:   req.DescriptionFR,
		DescriptionEN:   req.DescriptionEN,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		DisplayOrder:    req.DisplayOrder,
	}
	if err := stage.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.SaveStage(ctx, &stage); err != nil {
		return nil, fmt.Errorf("failed to save stage: %w", err)
	}

	s.invalidateDetail(ctx, c.Slug())
	return &stage, nil
}

// UpdateStage replaces a stage's fields (admin only).
func (s *CircuitService) UpdateStage(ctx context.Context, circuitID, stageID uuid.UUID, req StageRequest) (*itinerary.Stage, error) {
	c, err := s.repo.FindByID(ctx, circuitID)
	if err != nil {
		return nil, err
	}
	if req.DayNumber > c.DurationDays() {
		return nil, domain.NewValidationError(
			fmt.Sprintf("day_number %d exceeds circuit duration of %d days", req.DayNumber, c.DurationDays()))
	}

	stage := itinerary.Stage{
		ID:              stageID,
		CircuitID:       circuitID,
		DayNumber:       req.DayNumber,
		StageNumber:     req.StageNumber,
		TitleFR:         req.TitleFR,
		TitleEN:         req.TitleEN,
		DescriptionFR:   req.DescriptionFR,
		DescriptionEN:   req.DescriptionEN,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		DisplayOrder:    req.DisplayOrder,
	}
	if err := stage.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStage(ctx, &stage); err != nil {
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}

	s.invalidateDetail(ctx, c.Slug())
	return &stage, nil
}

// DeleteStage removes a stage (admin only).
func (s *CircuitService) DeleteStage(ctx context.Context, circuitID, stageID uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, circuitID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteStage(ctx, stageID); err != nil {
		return err
	}
	s.invalidateDetail(ctx, c.Slug())
	return nil
}

func (s *CircuitService) invalidateDetail(ctx context.Context, slug string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.Key(slug))
	}
}

func toCircuitDTO(c *circuitDomain.Circuit) CircuitDTO {
	return CircuitDTO{
		ID:              c.ID(),
		Slug:            c.Slug(),
		Kind:            string(c.Kind()),
		TitleFR:         c.TitleFR(),
		TitleEN:         c.TitleEN(),
		DescriptionFR:   c.DescriptionFR(),
		DescriptionEN:   c.DescriptionEN(),
		PriceXOF:        c.PriceXOF(),
		MinParticipants: c.MinParticipants(),
		MaxParticipants: c.MaxParticipants(),
		DurationDays:    c.DurationDays(),
		IsActive:        c.IsActive(),
		CreatedAt:       c.CreatedAt(),
	}
}

func toCircuitDTOs(circuits []*circuitDomain.Circuit) []*CircuitDTO {
	dtos := make([]*CircuitDTO, len(circuits))
	for i, c := range circuits {
		dto := toCircuitDTO(c)
		dtos[i] = &dto
	}
	return dtos
}
