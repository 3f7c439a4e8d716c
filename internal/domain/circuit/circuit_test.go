package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCircuit(t *testing.T) {
	c, err := NewCircuit(KindCircuit,
		"Circuit Sine Saloum et Pays Bassari", "Sine Saloum and Bassari Country tour",
		"Huit jours entre fleuve et savane.", "Eight days from river to savanna.",
		450000, 2, 12, 8)
	require.NoError(t, err)

	assert.Equal(t, "circuit-sine-saloum-et-pays-bassari", c.Slug())
	assert.Equal(t, int64(450000), c.PriceXOF())
	assert.True(t, c.IsActive())
	assert.True(t, c.AcceptsParticipants(2))
	assert.True(t, c.AcceptsParticipants(12))
	assert.False(t, c.AcceptsParticipants(1))
	assert.False(t, c.AcceptsParticipants(13))
}

func TestNewCircuit_Validation(t *testing.T) {
	_, err := NewCircuit("voyage", "T", "", "", "", 1000, 1, 10, 3)
	assert.Error(t, err, "unknown kind")

	_, err = NewCircuit(KindCircuit, "", "", "", "", 1000, 1, 10, 3)
	assert.Error(t, err, "missing French title")

	_, err = NewCircuit(KindCircuit, "T", "", "", "", 0, 1, 10, 3)
	assert.Error(t, err, "non-positive price")

	_, err = NewCircuit(KindCircuit, "T", "", "", "", 1000, 5, 2, 3)
	assert.Error(t, err, "max below min")

	_, err = NewCircuit(KindExcursion, "Journée au Lac Rose", "", "", "", 25000, 1, 20, 2)
	assert.Error(t, err, "multi-day excursion")

	_, err = NewCircuit(KindExcursion, "Journée au Lac Rose", "", "", "", 25000, 1, 20, 1)
	assert.NoError(t, err)
}

func TestUpdateDetails_KeepsSlug(t *testing.T) {
	c, err := NewCircuit(KindCircuit, "Saint-Louis et le Djoudj", "", "", "", 300000, 2, 10, 4)
	require.NoError(t, err)
	originalSlug := c.Slug()

	require.NoError(t, c.UpdateDetails("Saint-Louis, Djoudj et Langue de Barbarie", "", "", "", 320000, 2, 10, 5))
	assert.Equal(t, originalSlug, c.Slug())
	assert.Equal(t, int64(320000), c.PriceXOF())
	assert.Equal(t, 5, c.DurationDays())

	assert.Error(t, c.UpdateDetails("", "", "", "", 320000, 2, 10, 5))
}
