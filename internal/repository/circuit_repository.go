package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teranga-tours/service-booking/internal/domain"
	circuitDomain "github.com/teranga-tours/service-booking/internal/domain/circuit"
	"github.com/teranga-tours/service-booking/internal/domain/itinerary"
)

// CircuitModel is the GORM model for the circuits table.
type CircuitModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug            string    `gorm:"type:varchar(200);uniqueIndex;not null"`
	Kind            string    `gorm:"type:varchar(20);not null"`
	TitleFR         string    `gorm:"type:varchar(200);not null"`
	TitleEN         string    `gorm:"type:varchar(200)"`
	DescriptionFR   string    `gorm:"type:text"`
	DescriptionEN   string    `gorm:"type:text"`
	PriceXOF        int64     `gorm:"not null"`
	MinParticipants int       `gorm:"not null"`
	MaxParticipants int       `gorm:"not null"`
	DurationDays    int       `gorm:"not null"`
	IsActive        bool      `gorm:"default:true;index"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (CircuitModel) TableName() string { return "circuits" }

// StageModel is the GORM model for the circuit_stages table.
type StageModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CircuitID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_circuit_day_stage"`
	DayNumber       int       `gorm:"not null;uniqueIndex:idx_circuit_day_stage"`
	StageNumber     int       `gorm:"not null;uniqueIndex:idx_circuit_day_stage"`
	TitleFR         string    `gorm:"type:varchar(200);not null"`
	TitleEN         string    `gorm:"type:varchar(200)"`
	DescriptionFR   string    `gorm:"type:text"`
	DescriptionEN   string    `gorm:"type:text"`
	StartTime       string    `gorm:"type:varchar(10)"`
	EndTime         string    `gorm:"type:varchar(10)"`
	DurationMinutes int       `gorm:"default:0"`
	DisplayOrder    int       `gorm:"default:0"`
}

// TableName sets the table name.
func (StageModel) TableName() string { return "circuit_stages" }

// GormCircuitRepository implements CircuitRepository using GORM.
type GormCircuitRepository struct {
	db *gorm.DB
}

// NewGormCircuitRepository creates a new GormCircuitRepository.
func NewGormCircuitRepository(db *gorm.DB) *GormCircuitRepository {
	return &GormCircuitRepository{db: db}
}

// Save persists a new circuit.
func (r *GormCircuitRepository) Save(ctx context.Context, c *circuitDomain.Circuit) error {
	model := toCircuitModel(c)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing circuit.
func (r *GormCircuitRepository) Update(ctx context.Context, c *circuitDomain.Circuit) error {
	model := toCircuitModel(c)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a circuit and its stages.
func (r *GormCircuitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&StageModel{}, "circuit_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&CircuitModel{}, "id = ?", id).Error
	})
}

// FindByID returns a circuit by ID.
func (r *GormCircuitRepository) FindByID(ctx context.Context, id uuid.UUID) (*circuitDomain.Circuit, error) {
	var model CircuitModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("circuit")
		}
		return nil, err
	}
	return toCircuitDomain(&model), nil
}

// FindBySlug returns a circuit by its public slug.
func (r *GormCircuitRepository) FindBySlug(ctx context.Context, slug string) (*circuitDomain.Circuit, error) {
	var model CircuitModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("circuit")
		}
		return nil, err
	}
	return toCircuitDomain(&model), nil
}

// ListActive returns active circuits with pagination, newest first.
func (r *GormCircuitRepository) ListActive(ctx context.Context, page, limit int) ([]*circuitDomain.Circuit, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("is_active = ?", true), page, limit)
}

// ListAll returns every circuit with pagination (admin).
func (r *GormCircuitRepository) ListAll(ctx context.Context, page, limit int) ([]*circuitDomain.Circuit, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx), page, limit)
}

func (r *GormCircuitRepository) list(ctx context.Context, q *gorm.DB, page, limit int) ([]*circuitDomain.Circuit, int64, error) {
	var total int64
	if err := q.Model(&CircuitModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []CircuitModel
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	circuits := make([]*circuitDomain.Circuit, len(models))
	for i, m := range models {
		circuits[i] = toCircuitDomain(&m)
	}
	return circuits, total, nil
}

// SaveStage inserts a stage.
func (r *GormCircuitRepository) SaveStage(ctx context.Context, s *itinerary.Stage) error {
	model := toStageModel(s)
	return r.db.WithContext(ctx).Create(&model).Error
}

// UpdateStage persists changes to a stage.
func (r *GormCircuitRepository) UpdateStage(ctx context.Context, s *itinerary.Stage) error {
	model := toStageModel(s)
	return r.db.WithContext(ctx).Save(&model).Error
}

// DeleteStage removes a stage.
func (r *GormCircuitRepository) DeleteStage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&StageModel{}, "id = ?", id).Error
}

// FindStages returns all stages of a circuit ordered by (day, stage).
func (r *GormCircuitRepository) FindStages(ctx context.Context, circuitID uuid.UUID) ([]itinerary.Stage, error) {
	var models []StageModel
	err := r.db.WithContext(ctx).
		Where("circuit_id = ?", circuitID).
		Order("day_number ASC, stage_number ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	stages := make([]itinerary.Stage, len(models))
	for i, m := range models {
		stages[i] = toStageDomain(&m)
	}
	return stages, nil
}

func toCircuitModel(c *circuitDomain.Circuit) CircuitModel {
	return CircuitModel{
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
		UpdatedAt:       c.UpdatedAt(),
	}
}

func toCircuitDomain(m *CircuitModel) *circuitDomain.Circuit {
	return circuitDomain.Reconstruct(
		m.ID, m.Slug, circuitDomain.Kind(m.Kind),
		m.TitleFR, m.TitleEN, m.DescriptionFR, m.DescriptionEN,
		m.PriceXOF, m.MinParticipants, m.MaxParticipants, m.DurationDays,
		m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
}

func toStageModel(s *itinerary.Stage) StageModel {
	return StageModel{
		ID:              s.ID,
		CircuitID:       s.CircuitID,
		DayNumber:       s.DayNumber,
		StageNumber:     s.StageNumber,
		TitleFR:         s.TitleFR,
		TitleEN:         s.TitleEN,
		DescriptionFR:   s.DescriptionFR,
		DescriptionEN:   s.DescriptionEN,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationMinutes: s.DurationMinutes,
		DisplayOrder:    s.DisplayOrder,
	}
}

func toStageDomain(m *StageModel) itinerary.Stage {
	return itinerary.Stage{
		ID:              m.ID,
		CircuitID:       m.CircuitID,
		DayNumber:       m.DayNumber,
		StageNumber:     m.StageNumber,
		TitleFR:         m.TitleFR,
		TitleEN:         m.TitleEN,
		DescriptionFR:   m.DescriptionFR,
		DescriptionEN:   m.DescriptionEN,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		DurationMinutes: m.DurationMinutes,
		DisplayOrder:    m.DisplayOrder,
	}
}
