package message

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is a contact-form entry from the public site.
type Message struct {
	id        uuid.UUID
	name      string
	email     string
	subject   string
	body      string
	read      bool
	createdAt time.Time
	updatedAt time.Time
}

// NewMessage creates a new unread message.
func NewMessage(name, email, subject, body string) (*Message, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if body == "" {
		return nil, fmt.Errorf("message body is required")
	}

	now := time.Now().UTC()
	return &Message{
		id:        uuid.New(),
		name:      name,
		email:     email,
		subject:   subject,
		body:      body,
		read:      false,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Message from persistence.
func Reconstruct(id uuid.UUID, name, email, subject, body string, read bool, createdAt, updatedAt time.Time) *Message {
	return &Message{
		id: id, name: name, email: email, subject: subject, body: body,
		read: read, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// MarkRead flags the message as handled by an operator.
func (m *Message) MarkRead() {
	m.read = true
	m.updatedAt = time.Now().UTC()
}

// Getters.
func (m *Message) ID() uuid.UUID        { return m.id }
func (m *Message) Name() string         { return m.name }
func (m *Message) Email() string        { return m.email }
func (m *Message) Subject() string      { return m.subject }
func (m *Message) Body() string         { return m.body }
func (m *Message) Read() bool           { return m.read }
func (m *Message) CreatedAt() time.Time { return m.createdAt }
func (m *Message) UpdatedAt() time.Time { return m.updatedAt }

// MessageRepository defines persistence operations for contact messages.
type MessageRepository interface {
	Save(ctx context.Context, m *Message) error
	Update(ctx context.Context, m *Message) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)
	ListAll(ctx context.Context, page, limit int) ([]*Message, int64, error)
}
