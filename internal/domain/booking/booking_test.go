package booking

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranga-tours/service-booking/internal/domain/currency"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	b, err := NewBooking(uuid.New(),
		"Awa Ndiaye", "awa@example.sn", "+221771234567",
		2, 3, currency.EUR, nil, "", 40000, 6000)
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	b := newTestBooking(t)

	assert.True(t, strings.HasPrefix(b.Reference(), "TRG-"))
	assert.Len(t, b.Reference(), 12)
	assert.Equal(t, StatusPending, b.Status())
	assert.Equal(t, int64(34000), b.TotalXOF(), "total is subtotal minus discount")
	assert.Equal(t, 5, b.Travelers())
}

func TestNewBooking_Validation(t *testing.T) {
	circuitID := uuid.New()

	_, err := NewBooking(circuitID, "", "a@b.sn", "", 1, 0, currency.XOF, nil, "", 1000, 0)
	assert.Error(t, err, "missing name")

	_, err = NewBooking(circuitID, "A", "", "", 1, 0, currency.XOF, nil, "", 1000, 0)
	assert.Error(t, err, "missing email")

	_, err = NewBooking(circuitID, "A", "a@b.sn", "", 0, 2, currency.XOF, nil, "", 1000, 0)
	assert.Error(t, err, "no adults")

	_, err = NewBooking(circuitID, "A", "a@b.sn", "", 1, -1, currency.XOF, nil, "", 1000, 0)
	assert.Error(t, err, "negative children")

	_, err = NewBooking(circuitID, "A", "a@b.sn", "", 1, 0, currency.XOF, nil, "", 1000, 2000)
	assert.Error(t, err, "discount above subtotal")
}

func TestLifecycle(t *testing.T) {
	b := newTestBooking(t)

	require.NoError(t, b.Confirm())
	assert.Equal(t, StatusConfirmed, b.Status())

	assert.Error(t, b.Confirm(), "double confirm")

	require.NoError(t, b.Cancel())
	assert.Equal(t, StatusCancelled, b.Status())

	assert.Error(t, b.Cancel(), "double cancel")
}

func TestFail_OnlyFromPending(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.Fail())
	assert.Equal(t, StatusFailed, b.Status())

	confirmed := newTestBooking(t)
	require.NoError(t, confirmed.Confirm())
	assert.Error(t, confirmed.Fail())
}

func TestMarkFailed_ForcesFailedFromAnyStatus(t *testing.T) {
	b := newTestBooking(t)
	b.MarkFailed()
	assert.Equal(t, StatusFailed, b.Status())

	confirmed := newTestBooking(t)
	require.NoError(t, confirmed.Confirm())
	confirmed.MarkFailed()
	assert.Equal(t, StatusFailed, confirmed.Status())
}
