package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teranga-tours/service-booking/internal/domain"
	bookingDomain "github.com/teranga-tours/service-booking/internal/domain/booking"
	"github.com/teranga-tours/service-booking/internal/domain/currency"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Reference       string     `gorm:"type:varchar(20);uniqueIndex;not null"`
	CircuitID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerName    string     `gorm:"type:varchar(200);not null"`
	CustomerEmail   string     `gorm:"type:varchar(200);not null"`
	CustomerPhone   string     `gorm:"type:varchar(50)"`
	Adults          int        `gorm:"not null"`
	Children        int        `gorm:"not null;default:0"`
	DisplayCurrency string     `gorm:"type:varchar(3);not null;default:'XOF'"`
	PromotionID     *uuid.UUID `gorm:"type:uuid;index"`
	PromotionCode   string     `gorm:"type:varchar(50)"`
	SubtotalXOF     int64      `gorm:"not null"`
	DiscountXOF     int64      `gorm:"not null;default:0"`
	TotalXOF        int64      `gorm:"not null"`
	Status          string     `gorm:"type:varchar(20);not null;index"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

// TableName sets the table name.
func (BookingModel) TableName() string { return "bookings" }

// GormBookingRepository implements BookingRepository using GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing booking.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByID returns a booking by ID.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking")
		}
		return nil, err
	}
	return toBookingDomain(&model), nil
}

// FindByReference returns a booking by its customer-facing reference.
func (r *GormBookingRepository) FindByReference(ctx context.Context, reference string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking")
		}
		return nil, err
	}
	return toBookingDomain(&model), nil
}

// ListAll returns bookings with pagination, newest first (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []BookingModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bookings[i] = toBookingDomain(&m)
	}
	return bookings, total, nil
}

func toBookingModel(b *bookingDomain.Booking) BookingModel {
	return BookingModel{
		ID:              b.ID(),
		Reference:       b.Reference(),
		CircuitID:       b.CircuitID(),
		CustomerName:    b.CustomerName(),
		CustomerEmail:   b.CustomerEmail(),
		CustomerPhone:   b.CustomerPhone(),
		Adults:          b.Adults(),
		Children:        b.Children(),
		DisplayCurrency: string(b.DisplayCurrency()),
		PromotionID:     b.PromotionID(),
		PromotionCode:   b.PromotionCode(),
		SubtotalXOF:     b.SubtotalXOF(),
		DiscountXOF:     b.DiscountXOF(),
		TotalXOF:        b.TotalXOF(),
		Status:          string(b.Status()),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}

func toBookingDomain(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(
		m.ID, m.Reference, m.CircuitID,
		m.CustomerName, m.CustomerEmail, m.CustomerPhone,
		m.Adults, m.Children,
		currency.Currency(m.DisplayCurrency),
		m.PromotionID, m.PromotionCode,
		m.SubtotalXOF, m.DiscountXOF, m.TotalXOF,
		bookingDomain.Status(m.Status),
		m.CreatedAt, m.UpdatedAt,
	)
}
