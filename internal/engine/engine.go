package engine

// Variant names a closed set of scoring-engine policies. Like the
// teacher's game.Difficulty/config.Judgements pairing (a small table of
// named constants, not dynamic dispatch), Variant selects one of a fixed
// handful of Engine values rather than participating in an interface
// hierarchy.
type Variant uint8

const (
	CloneHero Variant = iota
	RockBand
)

func (v Variant) String() string {
	switch v {
	case CloneHero:
		return "CH"
	case RockBand:
		return "RB"
	default:
		return "unknown"
	}
}

// Engine is the read-only policy surface distinguishing CH and RB scoring.
// All fields are plain constants; the optimiser and point-set builder are
// engine-agnostic except where they read these values.
type Engine struct {
	Variant Variant

	BaseNoteValue      int64   // points for a single note hit
	SustainPointsPerBeat float64 // fractional hold points per beat of sustain
	WhammySPGainRate   float64 // SP gained per beat of whammy, in [0,1] units
	SPDrainPerBeat     float64 // SP drained per beat of active SP (1/32 bar per beat)
	MinSPToActivate    float64 // 0.5
	MaxSP              float64 // 1.0
	SPPerPhrase        float64 // 0.25
	BurstSizeBeats     float64 // tail-of-sustain burst window, 0 for RB

	ChordsMultiplySustains bool
	HasBRE                 bool
	TimingWindow           float64 // seconds, input-timing half-window

	// RespectsTempoChanges is false for RB: its Converter ignores every BPM
	// event after the first and treats the whole song as running at the
	// opening tempo.
	RespectsTempoChanges bool
}

// CH is Clone Hero's engine policy.
func CH() Engine {
	return Engine{
		Variant:                CloneHero,
		BaseNoteValue:          50,
		SustainPointsPerBeat:   25,
		WhammySPGainRate:       1.0 / 30.0,
		SPDrainPerBeat:         1.0 / 32.0,
		MinSPToActivate:        0.5,
		MaxSP:                  1.0,
		SPPerPhrase:            0.25,
		BurstSizeBeats:         0.25,
		ChordsMultiplySustains: false,
		HasBRE:                 false,
		TimingWindow:           0.07,
		RespectsTempoChanges:   true,
	}
}

// RB is Rock Band's engine policy.
func RB() Engine {
	return Engine{
		Variant:                RockBand,
		BaseNoteValue:          25,
		SustainPointsPerBeat:   12,
		WhammySPGainRate:       0.034,
		SPDrainPerBeat:         1.0 / 32.0,
		MinSPToActivate:        0.5,
		MaxSP:                  1.0,
		SPPerPhrase:            0.25,
		BurstSizeBeats:         0,
		ChordsMultiplySustains: true,
		HasBRE:                 true,
		TimingWindow:           0.1,
		RespectsTempoChanges:   false,
	}
}

// For looks up the policy for a Variant.
func For(v Variant) Engine {
	if v == RockBand {
		return RB()
	}
	return CH()
}

// MultiplierFor returns the streak multiplier (1 before the 10th point,
// then 2/3/4, capped at 4) that
// applies to the hitIndex-th scored point (1-based, sustain subpoints
// excluded per engine policy, per §9's open question resolved here: the
// schedule is 10th/20th/30th point, i.e. every point from the 10th through
// the 19th is 2x, 20th through 29th is 3x, 30th onward is 4x).
func MultiplierFor(hitIndex int) int {
	m := 1 + hitIndex/10
	if m > 4 {
		m = 4
	}
	return m
}
