package normalize

import (
	"github.com/shopspring/decimal"
)

// Direction labels the movement between two window averages.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Persistence labels whether a movement looks like a lasting shift or a spike.
type Persistence string

const (
	PersistenceSustained Persistence = "sustained"
	PersistenceOneOff    Persistence = "one_off"
	PersistenceUnknown   Persistence = "unknown"
)

// Seasonality labels the shape of a series of periodic bucket means.
type Seasonality string

const (
	SeasonalitySeasonal Seasonality = "seasonal"
	SeasonalitySteady   Seasonality = "steady"
	SeasonalityUnknown  Seasonality = "unknown"
)

var (
	directionThreshold   = decimal.NewFromFloat(0.20)
	persistenceThreshold = decimal.NewFromInt(1)
	seasonalityThreshold = decimal.NewFromFloat(0.3)
)

// minSeasonalBuckets is the fewest periodic buckets a coefficient of
// variation can be judged on.
const minSeasonalBuckets = 4

// DeriveDirection classifies the relative change between a recent window
// average and a past window average. A past average at or below zero makes
// the relative change undefined and classifies as flat rather than guessing.
func DeriveDirection(recent, past decimal.Decimal) Direction {
	if past.Sign() <= 0 {
		return DirectionFlat
	}
	change := recent.Sub(past).Div(past)
	switch {
	case change.GreaterThan(directionThreshold):
		return DirectionUp
	case change.LessThan(directionThreshold.Neg()):
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// DerivePersistence judges whether the move from the prior window to the
// recent one is a sustained shift or a one-off spike. A swing of more than
// 100% in either direction reads as a spike.
func DerivePersistence(recent, prior decimal.Decimal) Persistence {
	if prior.Sign() <= 0 {
		return PersistenceUnknown
	}
	change := recent.Sub(prior).Div(prior)
	if change.Abs().GreaterThan(persistenceThreshold) {
		return PersistenceOneOff
	}
	return PersistenceSustained
}

// DeriveSeasonality classifies a series of periodic bucket means by their
// coefficient of variation. Fewer than minSeasonalBuckets buckets is not
// enough signal to decide either way.
func DeriveSeasonality(bucketMeans []decimal.Decimal) Seasonality {
	if len(bucketMeans) < minSeasonalBuckets {
		return SeasonalityUnknown
	}
	mean := decimal.Sum(bucketMeans[0], bucketMeans[1:]...).Div(decimal.NewFromInt(int64(len(bucketMeans))))
	if mean.Sign() <= 0 {
		return SeasonalityUnknown
	}
	var sq decimal.Decimal
	for _, v := range bucketMeans {
		d := v.Sub(mean)
		sq = sq.Add(d.Mul(d))
	}
	variance := sq.Div(decimal.NewFromInt(int64(len(bucketMeans))))
	cv := sqrt(variance).Div(mean)
	if cv.GreaterThan(seasonalityThreshold) {
		return SeasonalitySeasonal
	}
	return SeasonalitySteady
}

// sqrt computes a decimal square root by Newton iteration, which is plenty
// for a coefficient-of-variation comparison against a coarse threshold.
func sqrt(d decimal.Decimal) decimal.Decimal {
	if d.Sign() <= 0 {
		return decimal.Zero
	}
	two := decimal.NewFromInt(2)
	guess := d.Div(two)
	if guess.Sign() == 0 {
		guess = d
	}
	for i := 0; i < 32; i++ {
		next := guess.Add(d.Div(guess)).Div(two)
		if next.Sub(guess).Abs().LessThan(decimal.New(1, -12)) {
			return next
		}
		guess = next
	}
	return guess
}
