package actioncode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	issuedAt := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

	raw := Encode(ActionCheckIn, 42, issuedAt)
	assert.Equal(t, "SWD-CHECKIN-42-1717234200", raw)

	code, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, ActionCheckIn, code.Action)
	assert.Equal(t, uint(42), code.EventID)
	assert.Equal(t, issuedAt, code.IssuedAt)
}

func TestDecode_CheckOut(t *testing.T) {
	code, err := Decode(Encode(ActionCheckOut, 7, time.Unix(1717234200, 0)))

	require.NoError(t, err)
	assert.Equal(t, ActionCheckOut, code.Action)
	assert.Equal(t, uint(7), code.EventID)
}

func TestDecode_TrimsWhitespace(t *testing.T) {
	code, err := Decode("  SWD-CHECKIN-3-1717234200\n")

	require.NoError(t, err)
	assert.Equal(t, uint(3), code.EventID)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "not-a-code"},
		{"wrong prefix", "QRX-CHECKIN-1-1717234200"},
		{"unknown action", "SWD-PAUSE-1-1717234200"},
		{"missing event id", "SWD-CHECKIN-1717234200"},
		{"zero event id", "SWD-CHECKIN-0-1717234200"},
		{"non-numeric event id", "SWD-CHECKIN-abc-1717234200"},
		{"non-numeric timestamp", "SWD-CHECKIN-1-later"},
		{"zero timestamp", "SWD-CHECKIN-1-0"},
		{"extra segment", "SWD-CHECKIN-1-1717234200-extra"},
		{"lowercase action", "SWD-checkin-1-1717234200"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.raw)
			assert.ErrorIs(t, err, ErrInvalidCode)
		})
	}
}
