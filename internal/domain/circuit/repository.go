package circuit

import (
	"context"

	"github.com/google/uuid"

	"github.com/teranga-tours/service-booking/internal/domain/itinerary"
)

// CircuitRepository defines persistence operations for circuits and their
// itinerary stages.
type CircuitRepository interface {
	Save(ctx context.Context, c *Circuit) error
	Update(ctx context.Context, c *Circuit) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Circuit, error)
	FindBySlug(ctx context.Context, slug string) (*Circuit, error)
	ListActive(ctx context.Context, page, limit int) ([]*Circuit, int64, error)
	ListAll(ctx context.Context, page, limit int) ([]*Circuit, int64, error)

	// SaveStage inserts a stage; the (circuit, day, stage) uniqueness is
	// enforced by the database.
	SaveStage(ctx context.Context, s *itinerary.Stage) error
	UpdateStage(ctx context.Context, s *itinerary.Stage) error
	DeleteStage(ctx context.Context, id uuid.UUID) error

	// FindStages returns all stages of a circuit ordered by
	// (day_number, stage_number).
	FindStages(ctx context.Context, circuitID uuid.UUID) ([]itinerary.Stage, error)
}
