package geo

// Band is a distance tier around the player.
type Band uint8

const (
	BandNear Band = iota
	BandMid
	BandFar
	// BandBeyond is tracked but drawn nowhere.
	BandBeyond
)

func (b Band) String() string {
	switch b {
	case BandNear:
		return "near"
	case BandMid:
		return "mid"
	case BandFar:
		return "far"
	default:
		return "beyond"
	}
}

// Rings holds the outer edge of each band in metres.
type Rings struct {
	Near float64
	Mid  float64
	Far  float64
}

// DefaultRings are the stock band edges.
var DefaultRings = Rings{Near: 7, Mid: 20, Far: 35}

// Band classifies a distance. Edges are inclusive.
func (r Rings) Band(d float64) Band {
	switch {
	case d <= r.Near:
		return BandNear
	case d <= r.Mid:
		return BandMid
	case d <= r.Far:
		return BandFar
	default:
		return BandBeyond
	}
}

// MaxRange is the far edge, never below 1.
func (r Rings) MaxRange() float64 {
	if r.Far <= 0 {
		return 1
	}
	return r.Far
}

// Normalized maps a distance to [0, 1] against the far edge.
func (r Rings) Normalized(d float64) float64 {
	return Clamp01(d / r.MaxRange())
}
