package promotion

import (
	"context"

	"github.com/google/uuid"
)

// PromotionRepository defines persistence operations for promotions.
type PromotionRepository interface {
	Save(ctx context.Context, p *Promotion) error
	Update(ctx context.Context, p *Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Promotion, error)

	// FindActiveByCode looks up an active promotion by normalized code.
	// Inactive and missing codes are both reported as not found.
	FindActiveByCode(ctx context.Context, code string) (*Promotion, error)

	ListAll(ctx context.Context) ([]*Promotion, error)

	// TryIncrementUsage atomically increments usage_count if the limit
	// has not been reached. It returns false when the promotion is
	// exhausted, without modifying the row.
	TryIncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)

	// ReleaseUsage decrements usage_count, flooring at zero. Called when
	// a booking that consumed the code is cancelled or rolled back.
	ReleaseUsage(ctx context.Context, id uuid.UUID) error
}
