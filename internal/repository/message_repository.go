package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teranga-tours/service-booking/internal/domain"
	messageDomain "github.com/teranga-tours/service-booking/internal/domain/message"
)

// MessageModel is the GORM model for the messages table.
type MessageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Email     string    `gorm:"type:varchar(200);not null"`
	Subject   string    `gorm:"type:varchar(200)"`
	Body      string    `gorm:"type:text;not null"`
	Read      bool      `gorm:"default:false;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (MessageModel) TableName() string { return "messages" }

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Save persists a new message.
func (r *GormMessageRepository) Save(ctx context.Context, m *messageDomain.Message) error {
	model := toMessageModel(m)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing message.
func (r *GormMessageRepository) Update(ctx context.Context, m *messageDomain.Message) error {
	model := toMessageModel(m)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a message.
func (r *GormMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&MessageModel{}, "id = ?", id).Error
}

// FindByID returns a message by ID.
func (r *GormMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*messageDomain.Message, error) {
	var model MessageModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("message")
		}
		return nil, err
	}
	return toMessageDomain(&model), nil
}

// ListAll returns messages with pagination, newest first (admin).
func (r *GormMessageRepository) ListAll(ctx context.Context, page, limit int) ([]*messageDomain.Message, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&MessageModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []MessageModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	messages := make([]*messageDomain.Message, len(models))
	for i, m := range models {
		messages[i] = toMessageDomain(&m)
	}
	return messages, total, nil
}

func toMessageModel(m *messageDomain.Message) MessageModel {
	return MessageModel{
		ID:        m.ID(),
		Name:      m.Name(),
		Email:     m.Email(),
		Subject:   m.Subject(),
		Body:      m.Body(),
		Read:      m.Read(),
		CreatedAt: m.CreatedAt(),
		UpdatedAt: m.UpdatedAt(),
	}
}

func toMessageDomain(m *MessageModel) *messageDomain.Message {
	return messageDomain.Reconstruct(
		m.ID, m.Name, m.Email, m.Subject, m.Body, m.Read,
		m.CreatedAt, m.UpdatedAt,
	)
}
