package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranga-tours/service-booking/internal/domain"
	"github.com/teranga-tours/service-booking/internal/domain/itinerary"
)

func newTestCircuitService(repo *fakeCircuitRepo) *CircuitService {
	return NewCircuitService(repo, nil, testMetrics(), testLogger())
}

func TestCreateCircuit_DerivesSlug(t *testing.T) {
	svc := newTestCircuitService(newFakeCircuitRepo())

	dto, err := svc.CreateCircuit(context.Background(), CreateCircuitRequest{
		Kind:            "circuit",
		TitleFR:         "Circuit Sine Saloum et Pays Bassari",
		PriceXOF:        150000,
		MinParticipants: 2,
		MaxParticipants: 12,
		DurationDays:    7,
	})
	require.NoError(t, err)
	assert.Equal(t, "circuit-sine-saloum-et-pays-bassari", dto.Slug)
	assert.True(t, dto.IsActive)
}

func TestCreateCircuit_ExcursionMustLastOneDay(t *testing.T) {
	svc := newTestCircuitService(newFakeCircuitRepo())

	_, err := svc.CreateCircuit(context.Background(), CreateCircuitRequest{
		Kind:            "excursion",
		TitleFR:         "Excursion Lac Rose",
		PriceXOF:        25000,
		MinParticipants: 1,
		MaxParticipants: 10,
		DurationDays:    2,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetCircuitDetail_GroupsItineraryByDay(t *testing.T) {
	c := mustCircuit(t, "Circuit Casamance", 120000, 2, 10, 3)
	repo := newFakeCircuitRepo(c)
	svc := newTestCircuitService(repo)

	for _, s := range []itinerary.Stage{
		{ID: uuid.New(), CircuitID: c.ID(), DayNumber: 2, StageNumber: 1, TitleFR: "Ziguinchor"},
		{ID: uuid.New(), CircuitID: c.ID(), DayNumber: 1, StageNumber: 1, TitleFR: "Depart Dakar"},
		{ID: uuid.New(), CircuitID: c.ID(), DayNumber: 1, StageNumber: 2, TitleFR: "Ferry"},
	} {
		stage := s
		require.NoError(t, repo.SaveStage(context.Background(), &stage))
	}

	detail, err := svc.GetCircuitDetail(context.Background(), c.Slug())
	require.NoError(t, err)
	require.Len(t, detail.Itinerary, 2)
	assert.Equal(t, 1, detail.Itinerary[0].DayNumber)
	assert.Len(t, detail.Itinerary[0].Stages, 2)
	assert.Equal(t, 2, detail.Itinerary[1].DayNumber)
}

func TestGetCircuitDetail_InactiveIsNotFound(t *testing.T) {
	c := mustCircuit(t, "Circuit Retire", 100000, 1, 10, 3)
	c.Deactivate()
	svc := newTestCircuitService(newFakeCircuitRepo(c))

	_, err := svc.GetCircuitDetail(context.Background(), c.Slug())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetItinerary_EmptyCircuitReturnsEmptyGroups(t *testing.T) {
	c := mustCircuit(t, "Circuit Sans Etapes", 100000, 1, 10, 3)
	svc := newTestCircuitService(newFakeCircuitRepo(c))

	groups, err := svc.GetItinerary(context.Background(), c.Slug())
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestAddStage_RejectsDayBeyondDuration(t *testing.T) {
	c := mustCircuit(t, "Circuit Court", 100000, 1, 10, 2)
	svc := newTestCircuitService(newFakeCircuitRepo(c))

	_, err := svc.AddStage(context.Background(), c.ID(), StageRequest{
		DayNumber:   3,
		StageNumber: 1,
		TitleFR:     "Trop loin",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateStage_RejectsDayBeyondDuration(t *testing.T) {
	c := mustCircuit(t, "Circuit Court", 100000, 1, 10, 2)
	repo := newFakeCircuitRepo(c)
	svc := newTestCircuitService(repo)

	stage, err := svc.AddStage(context.Background(), c.ID(), StageRequest{
		DayNumber:   2,
		StageNumber: 1,
		TitleFR:     "Marche de Thies",
	})
	require.NoError(t, err)

	// An edit must not move the stage past the circuit's duration.
	_, err = svc.UpdateStage(context.Background(), c.ID(), stage.ID, StageRequest{
		DayNumber:   3,
		StageNumber: 1,
		TitleFR:     "Marche de Thies",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateCircuit_KeepsSlugStable(t *testing.T) {
	c := mustCircuit(t, "Circuit Original", 100000, 1, 10, 3)
	svc := newTestCircuitService(newFakeCircuitRepo(c))

	dto, err := svc.UpdateCircuit(context.Background(), c.ID(), UpdateCircuitRequest{
		TitleFR:         "Circuit Renomme",
		PriceXOF:        110000,
		MinParticipants: 1,
		MaxParticipants: 10,
		DurationDays:    3,
	})
	require.NoError(t, err)
	assert.Equal(t, "circuit-original", dto.Slug)
	assert.Equal(t, "Circuit Renomme", dto.TitleFR)
}
