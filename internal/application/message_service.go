package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranga-tours/service-booking/internal/domain"
	messageDomain "github.com/teranga-tours/service-booking/internal/domain/message"
)

// CreateMessageRequest holds a contact-form submission.
type CreateMessageRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

// MessageDTO is the API response representation of a contact message.
type MessageDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageService handles contact message use cases.
type MessageService struct {
	repo   messageDomain.MessageRepository
	logger *zap.Logger
}

// NewMessageService creates a new MessageService.
func NewMessageService(repo messageDomain.MessageRepository, logger *zap.Logger) *MessageService {
	return &MessageService{repo: repo, logger: logger}
}

// CreateMessage stores a contact-form submission.
func (s *MessageService) CreateMessage(ctx context.Context, req CreateMessageRequest) (*MessageDTO, error) {
	m, err := messageDomain.NewMessage(req.Name, req.Email, req.Subject, req.Body)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	s.logger.Info("contact message received", zap.String("email", req.Email))
	return toMessageDTO(m), nil
}

// ListMessages returns messages with pagination (admin only).
func (s *MessageService) ListMessages(ctx context.Context, page, limit int) ([]*MessageDTO, int64, error) {
	messages, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]*MessageDTO, len(messages))
	for i, m := range messages {
		dtos[i] = toMessageDTO(m)
	}
	return dtos, total, nil
}

// MarkMessageRead flags a message as handled (admin only).
func (s *MessageService) MarkMessageRead(ctx context.Context, id uuid.UUID) (*MessageDTO, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.MarkRead()
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	return toMessageDTO(m), nil
}

// DeleteMessage removes a message (admin only).
func (s *MessageService) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func toMessageDTO(m *messageDomain.Message) *MessageDTO {
	return &MessageDTO{
		ID:        m.ID(),
		Name:      m.Name(),
		Email:     m.Email(),
		Subject:   m.Subject(),
		Body:      m.Body(),
		Read:      m.Read(),
		CreatedAt: m.CreatedAt(),
	}
}
