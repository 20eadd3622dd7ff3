package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestDeriveDirection(t *testing.T) {
	tests := []struct {
		name         string
		recent, past float64
		want         Direction
	}{
		{"rise above threshold", 12.1, 10.0, DirectionUp},
		{"small dip is flat", 9.9, 10.0, DirectionFlat},
		{"drop below threshold", 7.0, 10.0, DirectionDown},
		{"exactly plus twenty percent is flat", 12.0, 10.0, DirectionFlat},
		{"exactly minus twenty percent is flat", 8.0, 10.0, DirectionFlat},
		{"zero past is flat", 5.0, 0, DirectionFlat},
		{"negative past is flat", 5.0, -3.0, DirectionFlat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveDirection(d(tt.recent), d(tt.past)))
		})
	}
}

func TestDerivePersistence(t *testing.T) {
	tests := []struct {
		name          string
		recent, prior float64
		want          Persistence
	}{
		{"moderate move is sustained", 1.5, 1.0, PersistenceSustained},
		{"doubling exactly is sustained", 2.0, 1.0, PersistenceSustained},
		{"spike is one off", 2.5, 1.0, PersistenceOneOff},
		{"collapse is one off", -0.5, 1.0, PersistenceOneOff},
		{"zero prior is unknown", 2.0, 0, PersistenceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePersistence(d(tt.recent), d(tt.prior)))
		})
	}
}

func TestDeriveSeasonality(t *testing.T) {
	uniform := []decimal.Decimal{d(10), d(10.2), d(9.8), d(10.1), d(9.9), d(10)}
	spiky := []decimal.Decimal{d(10), d(30), d(5), d(28), d(6), d(31)}

	assert.Equal(t, SeasonalitySteady, DeriveSeasonality(uniform))
	assert.Equal(t, SeasonalitySeasonal, DeriveSeasonality(spiky))
	assert.Equal(t, SeasonalityUnknown, DeriveSeasonality([]decimal.Decimal{d(1), d(2), d(3)}))
	assert.Equal(t, SeasonalityUnknown, DeriveSeasonality(nil))
}
