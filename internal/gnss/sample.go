package gnss

import (
	"math/rand"
	"time"
)

// Sample is one positional reading, the unit of work for the sender.
// Degrees and minutes are kept separate because that is how the wire
// format wants them; see Encode.
type Sample struct {
	Time time.Time // UTC, used for both the time and date fields

	LatDegrees   int     // [0,90)
	LatMinutes   float64 // [0,60)
	LatDirection string  // "N" or "S"

	LonDegrees   int     // [0,180)
	LonMinutes   float64 // [0,60)
	LonDirection string  // "E" or "W"

	SpeedKnots float64
	CourseDeg  float64

	VariationDeg       float64
	VariationDirection string // "E" or "W"

	Status string // "A" (valid) / "V" (void)
	Mode   string // positioning mode, "A" = autonomous
}

// Source is anything that can provide position samples over time.
// Implementations: random synthetic source, serial GNSS receiver,
// fixed samples in tests.
type Source interface {
	Next() (Sample, error)
}

// precisionFactor gives the synthetic fractional degrees six decimal
// digits, matching typical receiver resolution.
const precisionFactor = 1000000

type randomSource struct {
	rng *rand.Rand
}

// NewRandomSource returns a Source that synthesizes plausible fixes
// from the wall clock and a private RNG. It stands in for a real
// receiver when no hardware is attached.
func NewRandomSource() Source {
	return &randomSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *randomSource) Next() (Sample, error) {
	latVal := float64(r.rng.Intn(90)) + float64(r.rng.Intn(precisionFactor))/precisionFactor
	lonVal := float64(r.rng.Intn(180)) + float64(r.rng.Intn(precisionFactor))/precisionFactor

	latDeg, latMin := SplitDegrees(latVal)
	lonDeg, lonMin := SplitDegrees(lonVal)

	s := Sample{
		Time:               time.Now().UTC(),
		LatDegrees:         latDeg,
		LatMinutes:         latMin,
		LonDegrees:         lonDeg,
		LonMinutes:         lonMin,
		VariationDirection: "E",
		Status:             "A",
		Mode:               "A",
	}

	if r.rng.Intn(2) == 0 {
		s.LatDirection = "N"
	} else {
		s.LatDirection = "S"
	}
	if r.rng.Intn(2) == 0 {
		s.LonDirection = "E"
	} else {
		s.LonDirection = "W"
	}
	if r.rng.Intn(2) == 1 {
		s.VariationDirection = "W"
	}

	return s, nil
}

// SplitDegrees decomposes a decimal-degree value into the integer
// degree part and the fractional part expressed in minutes.
func SplitDegrees(v float64) (int, float64) {
	deg := int(v)
	return deg, (v - float64(deg)) * 60
}
