// Package points expands a NoteTrack into an ordered sequence of scoring
// Points. Grounded on the teacher's parser.DefaultParser note-expansion
// loop (createNote, hold/denominator bookkeeping in default.go),
// generalised from StepMania row/measure semantics to tick/sustain/phrase
// semantics.
package points

import "starpower/internal/chart"

// Point is one scorable event: an anchor note or a sustain subpoint.
type Point struct {
	Beat    chart.Beat
	Measure chart.Measure
	Second  chart.Second

	Value int64

	// HitIndex is this point's 1-based position in hit order, excluding
	// subpoints the engine does not count toward the multiplier ladder
	// (hold subpoints never advance it; see IsHoldSubpoint).
	HitIndex int

	IsSPGranting    bool // last point of a completed SP phrase: +0.25 SP
	IsHoldSubpoint  bool
	IsUnisonGranting bool

	// Multiplier is the streak multiplier (1, 2, 3 or 4) that applies when this
	// point is collected outside SP; precomputed because activation never
	// reorders hit order.
	Multiplier int
}

// PointSet is the ordered sequence of Points built from a NoteTrack, plus
// the tail-point index for each SP phrase.
type PointSet struct {
	Points []Point

	// PhraseTailIndex[i] is the index into Points of phrase i's SP-granting
	// tail point.
	PhraseTailIndex []int

	// SoloBonuses holds, per Solo, the bonus awarded if every note in that
	// Solo interval is hit; applied externally to PointSet
	// scoring, after path search, at the solo's end tick.
	SoloBonuses []SoloBonus
}

// SoloBonus is one solo's end tick and bonus value, carried alongside the
// PointSet for the optimiser's caller to add after search.
type SoloBonus struct {
	EndTick chart.Tick
	Bonus   int64
}

// Len and At give index-style access that lets the optimiser treat PointSet as an
// indexable ordered sequence rather than a one-shot stream, per §9's
// "iterator-like traversal" note, so pruning refinements may skip backward.
func (ps *PointSet) Len() int { return len(ps.Points) }

func (ps *PointSet) At(i int) Point { return ps.Points[i] }
