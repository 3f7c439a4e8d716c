package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teranga-tours/service-booking/internal/domain"
	promotionDomain "github.com/teranga-tours/service-booking/internal/domain/promotion"
)

// PromotionModel is the GORM model for the promotions table.
type PromotionModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code         string     `gorm:"type:varchar(50);uniqueIndex;not null"`
	Kind         string     `gorm:"type:varchar(20);not null"`
	Value        int64      `gorm:"not null"`
	CircuitID    *uuid.UUID `gorm:"type:uuid;index"`
	StartDate    *time.Time
	EndDate      *time.Time
	MinTravelers int  `gorm:"default:1"`
	UsageLimit   *int
	UsageCount   int  `gorm:"default:0"`
	IsActive     bool `gorm:"default:true;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (PromotionModel) TableName() string { return "promotions" }

// GormPromotionRepository implements PromotionRepository using GORM.
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository.
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// Save persists a new promotion.
func (r *GormPromotionRepository) Save(ctx context.Context, p *promotionDomain.Promotion) error {
	model := toPromotionModel(p)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing promotion.
func (r *GormPromotionRepository) Update(ctx context.Context, p *promotionDomain.Promotion) error {
	model := toPromotionModel(p)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a promotion.
func (r *GormPromotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&PromotionModel{}, "id = ?", id).Error
}

// FindByID returns a promotion by ID.
func (r *GormPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotionDomain.Promotion, error) {
	var model PromotionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("promotion")
		}
		return nil, err
	}
	return toPromotionDomain(&model), nil
}

// FindActiveByCode returns the active promotion matching the normalized
// code. Inactive and missing codes both come back as not found.
func (r *GormPromotionRepository) FindActiveByCode(ctx context.Context, code string) (*promotionDomain.Promotion, error) {
	var model PromotionModel
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", code, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("promotion")
		}
		return nil, err
	}
	return toPromotionDomain(&model), nil
}

// ListAll returns every promotion, newest first.
func (r *GormPromotionRepository) ListAll(ctx context.Context) ([]*promotionDomain.Promotion, error) {
	var models []PromotionModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	promotions := make([]*promotionDomain.Promotion, len(models))
	for i, m := range models {
		promotions[i] = toPromotionDomain(&m)
	}
	return promotions, nil
}

// TryIncrementUsage atomically increments usage_count while it is below
// the limit. A zero rows-affected result means the code is exhausted;
// concurrent submissions cannot overshoot the cap.
func (r *GormPromotionRepository) TryIncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE promotions
		 SET usage_count = usage_count + 1, updated_at = NOW()
		 WHERE id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)`, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReleaseUsage decrements usage_count, flooring at zero.
func (r *GormPromotionRepository) ReleaseUsage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE promotions
		 SET usage_count = GREATEST(usage_count - 1, 0), updated_at = NOW()
		 WHERE id = ?`, id).Error
}

func toPromotionModel(p *promotionDomain.Promotion) PromotionModel {
	return PromotionModel{
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
		UpdatedAt:    p.UpdatedAt(),
	}
}

func toPromotionDomain(m *PromotionModel) *promotionDomain.Promotion {
	return promotionDomain.Reconstruct(
		m.ID, m.Code, promotionDomain.DiscountKind(m.Kind), m.Value,
		m.CircuitID, m.StartDate, m.EndDate,
		m.MinTravelers, m.UsageLimit, m.UsageCount,
		m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
}
