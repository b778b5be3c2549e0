package ais

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCoords(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"origin", 0, 0, true},
		{"max bounds", 90, 180, true},
		{"min bounds", -90, -180, true},
		{"aislib no-fix sentinel", 91, 181, false},
		{"lat out of range", 90.1, 0, false},
		{"lon out of range", 0, 180.1, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, validCoords(c.lat, c.lon))
		})
	}
}

func TestPointEntryUsesLatFirstConvention(t *testing.T) {
	entry := pointEntry(123456789, 51.5, -0.12)
	assert.Equal(t, float32(51.5), entry.MBR.X1)
	assert.Equal(t, float32(-0.12), entry.MBR.Y1)
	assert.Equal(t, entry.MBR.X1, entry.MBR.X2)
	assert.Equal(t, entry.MBR.Y1, entry.MBR.Y2)
	assert.Equal(t, uint32(123456789), entry.Payload.MMSI)
}
