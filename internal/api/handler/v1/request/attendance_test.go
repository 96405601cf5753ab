package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func float64Ptr(v float64) *float64 {
	return &v
}

func TestScanRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ScanRequest
		wantErr bool
	}{
		{
			name: "valid with location",
			req: ScanRequest{
				Code:      "SWD-CHECKIN-42-1717234200",
				Latitude:  float64Ptr(25.2048),
				Longitude: float64Ptr(55.2708),
			},
		},
		{
			name: "valid without location",
			req: ScanRequest{
				Code: "SWD-CHECKIN-42-1717234200",
			},
		},
		{
			name:    "missing code",
			req:     ScanRequest{Latitude: float64Ptr(25.0), Longitude: float64Ptr(55.0)},
			wantErr: true,
		},
		{
			name: "latitude out of range",
			req: ScanRequest{
				Code:      "SWD-CHECKIN-42-1717234200",
				Latitude:  float64Ptr(91.0),
				Longitude: float64Ptr(55.0),
			},
			wantErr: true,
		},
		{
			name: "longitude out of range",
			req: ScanRequest{
				Code:      "SWD-CHECKIN-42-1717234200",
				Latitude:  float64Ptr(25.0),
				Longitude: float64Ptr(-181.0),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScanRequest_HasLocation(t *testing.T) {
	assert.False(t, (&ScanRequest{}).HasLocation())
	assert.False(t, (&ScanRequest{Latitude: float64Ptr(25.0)}).HasLocation())
	assert.False(t, (&ScanRequest{Longitude: float64Ptr(55.0)}).HasLocation())
	assert.True(t, (&ScanRequest{Latitude: float64Ptr(25.0), Longitude: float64Ptr(55.0)}).HasLocation())
}

func TestCreateEventRequest_Validate(t *testing.T) {
	valid := CreateEventRequest{
		Title:        "Beach Cleanup",
		Latitude:     float64Ptr(25.2048),
		Longitude:    float64Ptr(55.2708),
		RadiusMeters: 100,
	}
	assert.NoError(t, valid.Validate())

	missingCoords := CreateEventRequest{Title: "Beach Cleanup"}
	assert.Error(t, missingCoords.Validate())

	hugeRadius := valid
	hugeRadius.RadiusMeters = 50000
	assert.Error(t, hugeRadius.Validate())
}
