package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranga-tours/service-booking/internal/application"
	"github.com/teranga-tours/service-booking/internal/domain"
	bookingDomain "github.com/teranga-tours/service-booking/internal/domain/booking"
	circuitDomain "github.com/teranga-tours/service-booking/internal/domain/circuit"
	"github.com/teranga-tours/service-booking/internal/domain/itinerary"
	promotionDomain "github.com/teranga-tours/service-booking/internal/domain/promotion"
	"github.com/teranga-tours/service-booking/internal/metrics"
	"github.com/teranga-tours/service-booking/internal/saga"
)

// memBookingRepo holds bookings keyed by ID.
type memBookingRepo struct {
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func (r *memBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	r.bookings[b.ID()] = b
	return nil
}

func (r *memBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	r.bookings[b.ID()] = b
	return nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking")
	}
	return b, nil
}

func (r *memBookingRepo) FindByReference(_ context.Context, reference string) (*bookingDomain.Booking, error) {
	for _, b := range r.bookings {
		if b.Reference() == reference {
			return b, nil
		}
	}
	return nil, domain.NewNotFoundError("booking")
}

func (r *memBookingRepo) ListAll(_ context.Context, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	out := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

// memPromotionRepo is an empty promotion store.
type memPromotionRepo struct{}

func (memPromotionRepo) Save(_ context.Context, _ *promotionDomain.Promotion) error   { return nil }
func (memPromotionRepo) Update(_ context.Context, _ *promotionDomain.Promotion) error { return nil }
func (memPromotionRepo) Delete(_ context.Context, _ uuid.UUID) error                  { return nil }

func (memPromotionRepo) FindByID(_ context.Context, _ uuid.UUID) (*promotionDomain.Promotion, error) {
	return nil, domain.NewNotFoundError("promotion")
}

func (memPromotionRepo) FindActiveByCode(_ context.Context, _ string) (*promotionDomain.Promotion, error) {
	return nil, domain.NewNotFoundError("promotion")
}

func (memPromotionRepo) ListAll(_ context.Context) ([]*promotionDomain.Promotion, error) {
	return nil, nil
}

func (memPromotionRepo) TryIncrementUsage(_ context.Context, _ uuid.UUID) (bool, error) {
	return true, nil
}

func (memPromotionRepo) ReleaseUsage(_ context.Context, _ uuid.UUID) error { return nil }

// memCircuitRepo is an empty circuit store.
type memCircuitRepo struct{}

func (memCircuitRepo) Save(_ context.Context, _ *circuitDomain.Circuit) error   { return nil }
func (memCircuitRepo) Update(_ context.Context, _ *circuitDomain.Circuit) error { return nil }
func (memCircuitRepo) Delete(_ context.Context, _ uuid.UUID) error              { return nil }

func (memCircuitRepo) FindByID(_ context.Context, _ uuid.UUID) (*circuitDomain.Circuit, error) {
	return nil, domain.NewNotFoundError("circuit")
}

func (memCircuitRepo) FindBySlug(_ context.Context, _ string) (*circuitDomain.Circuit, error) {
	return nil, domain.NewNotFoundError("circuit")
}

func (memCircuitRepo) ListActive(_ context.Context, _, _ int) ([]*circuitDomain.Circuit, int64, error) {
	return nil, 0, nil
}

func (memCircuitRepo) ListAll(_ context.Context, _, _ int) ([]*circuitDomain.Circuit, int64, error) {
	return nil, 0, nil
}

func (memCircuitRepo) SaveStage(_ context.Context, _ *itinerary.Stage) error   { return nil }
func (memCircuitRepo) UpdateStage(_ context.Context, _ *itinerary.Stage) error { return nil }
func (memCircuitRepo) DeleteStage(_ context.Context, _ uuid.UUID) error        { return nil }

func (memCircuitRepo) FindStages(_ context.Context, _ uuid.UUID) ([]itinerary.Stage, error) {
	return nil, nil
}

// nopPublisher drops every event.
type nopPublisher struct{}

func (nopPublisher) Publish(_ context.Context, _, _, _, _ string, _ interface{}) error { return nil }

func newTestBookingRouter(t *testing.T, bookings ...*bookingDomain.Booking) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	m := metrics.New(prometheus.NewRegistry())

	bookingRepo := &memBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
	for _, b := range bookings {
		bookingRepo.bookings[b.ID()] = b
	}
	promotionRepo := memPromotionRepo{}

	sagaSvc := saga.NewBookingSagaService(bookingRepo, promotionRepo, nopPublisher{}, logger)
	promotionSvc := application.NewPromotionService(promotionRepo, m, logger)
	bookingSvc := application.NewBookingService(bookingRepo, memCircuitRepo{}, promotionSvc, sagaSvc, m, logger)

	router := gin.New()
	handler := NewBookingHandler(bookingSvc)
	handler.RegisterRoutes(router.Group("/api/v1"), func(c *gin.Context) { c.Next() })
	return router
}

func newConfirmedBooking(t *testing.T) *bookingDomain.Booking {
	t.Helper()
	b, err := bookingDomain.NewBooking(uuid.New(),
		"Awa Diop", "awa@example.sn", "", 2, 0, "XOF", nil, "", 40000, 0)
	require.NoError(t, err)
	require.NoError(t, b.Confirm())
	return b
}

func TestCancelBooking_EmptyBodyAllowed(t *testing.T) {
	b := newConfirmedBooking(t)
	router := newTestBookingRouter(t, b)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/bookings/"+b.ID().String()+"/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, bookingDomain.StatusCancelled, b.Status())
}

func TestCancelBooking_MalformedBodyRejected(t *testing.T) {
	b := newConfirmedBooking(t)
	router := newTestBookingRouter(t, b)

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/admin/bookings/"+b.ID().String()+"/cancel",
		strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, bookingDomain.StatusConfirmed, b.Status())
}

func TestCancelBooking_InvalidIDRejected(t *testing.T) {
	router := newTestBookingRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/bookings/not-a-uuid/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
