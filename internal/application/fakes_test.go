package application

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/teranga-tours/service-booking/internal/domain"
	bookingDomain "github.com/teranga-tours/service-booking/internal/domain/booking"
	circuitDomain "github.com/teranga-tours/service-booking/internal/domain/circuit"
	"github.com/teranga-tours/service-booking/internal/domain/itinerary"
	promotionDomain "github.com/teranga-tours/service-booking/internal/domain/promotion"
	"github.com/teranga-tours/service-booking/internal/metrics"
)

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// fakePromotionRepo is an in-memory PromotionRepository.
type fakePromotionRepo struct {
	mu         sync.Mutex
	promotions map[uuid.UUID]*promotionDomain.Promotion
	released   []uuid.UUID
	exhausted  bool
}

func newFakePromotionRepo(promotions ...*promotionDomain.Promotion) *fakePromotionRepo {
	r := &fakePromotionRepo{promotions: make(map[uuid.UUID]*promotionDomain.Promotion)}
	for _, p := range promotions {
		r.promotions[p.ID()] = p
	}
	return r
}

func (r *fakePromotionRepo) Save(_ context.Context, p *promotionDomain.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promotions[p.ID()] = p
	return nil
}

func (r *fakePromotionRepo) Update(_ context.Context, p *promotionDomain.Promotion) error {
	return r.Save(nil, p)
}

func (r *fakePromotionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.promotions, id)
	return nil
}

func (r *fakePromotionRepo) FindByID(_ context.Context, id uuid.UUID) (*promotionDomain.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.promotions[id]
	if !ok {
		return nil, domain.NewNotFoundError("promotion")
	}
	return p, nil
}

func (r *fakePromotionRepo) FindActiveByCode(_ context.Context, code string) (*promotionDomain.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.promotions {
		if p.Code() == code && p.IsActive() {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("promotion")
}

func (r *fakePromotionRepo) ListAll(_ context.Context) ([]*promotionDomain.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*promotionDomain.Promotion, 0, len(r.promotions))
	for _, p := range r.promotions {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePromotionRepo) TryIncrementUsage(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.exhausted {
		return false, nil
	}
	if _, ok := r.promotions[id]; !ok {
		return false, domain.NewNotFoundError("promotion")
	}
	return true, nil
}

func (r *fakePromotionRepo) ReleaseUsage(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = append(r.released, id)
	return nil
}

// fakeCircuitRepo is an in-memory CircuitRepository.
type fakeCircuitRepo struct {
	mu       sync.Mutex
	circuits map[uuid.UUID]*circuitDomain.Circuit
	stages   map[uuid.UUID][]itinerary.Stage
}

func newFakeCircuitRepo(circuits ...*circuitDomain.Circuit) *fakeCircuitRepo {
	r := &fakeCircuitRepo{
		circuits: make(map[uuid.UUID]*circuitDomain.Circuit),
		stages:   make(map[uuid.UUID][]itinerary.Stage),
	}
	for _, c := range circuits {
		r.circuits[c.ID()] = c
	}
	return r
}

func (r *fakeCircuitRepo) Save(_ context.Context, c *circuitDomain.Circuit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.circuits[c.ID()] = c
	return nil
}

func (r *fakeCircuitRepo) Update(_ context.Context, c *circuitDomain.Circuit) error {
	return r.Save(nil, c)
}

func (r *fakeCircuitRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.circuits, id)
	delete(r.stages, id)
	return nil
}

func (r *fakeCircuitRepo) FindByID(_ context.Context, id uuid.UUID) (*circuitDomain.Circuit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.circuits[id]
	if !ok {
		return nil, domain.NewNotFoundError("circuit")
	}
	return c, nil
}

func (r *fakeCircuitRepo) FindBySlug(_ context.Context, slugValue string) (*circuitDomain.Circuit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.circuits {
		if c.Slug() == slugValue {
			return c, nil
		}
	}
	return nil, domain.NewNotFoundError("circuit")
}

func (r *fakeCircuitRepo) ListActive(_ context.Context, _, _ int) ([]*circuitDomain.Circuit, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*circuitDomain.Circuit
	for _, c := range r.circuits {
		if c.IsActive() {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeCircuitRepo) ListAll(_ context.Context, _, _ int) ([]*circuitDomain.Circuit, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*circuitDomain.Circuit, 0, len(r.circuits))
	for _, c := range r.circuits {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCircuitRepo) SaveStage(_ context.Context, s *itinerary.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages[s.CircuitID] = append(r.stages[s.CircuitID], *s)
	return nil
}

func (r *fakeCircuitRepo) UpdateStage(_ context.Context, s *itinerary.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.stages[s.CircuitID]
	for i := range list {
		if list[i].ID == s.ID {
			list[i] = *s
			return nil
		}
	}
	return domain.NewNotFoundError("stage")
}

func (r *fakeCircuitRepo) DeleteStage(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for circuitID, list := range r.stages {
		for i := range list {
			if list[i].ID == id {
				r.stages[circuitID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return domain.NewNotFoundError("stage")
}

func (r *fakeCircuitRepo) FindStages(_ context.Context, circuitID uuid.UUID) ([]itinerary.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]itinerary.Stage(nil), r.stages[circuitID]...), nil
}

// fakeBookingRepo is an in-memory BookingRepository.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	return r.Save(nil, b)
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking")
	}
	return b, nil
}

func (r *fakeBookingRepo) FindByReference(_ context.Context, reference string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.Reference() == reference {
			return b, nil
		}
	}
	return nil, domain.NewNotFoundError("booking")
}

func (r *fakeBookingRepo) ListAll(_ context.Context, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Topic     string
	EventType string
	Key       string
}

func (p *fakePublisher) Publish(_ context.Context, topic, _, eventType, key string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, EventType: eventType, Key: key})
	return nil
}
