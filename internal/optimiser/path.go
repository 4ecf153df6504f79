// Package optimiser implements the branch-and-bound path search of §4.4.
// Grounded on program.Program.RenderGame's Active/SetActive sliding
// window, generalised from a rendering cursor into a search cursor over
// the same kind of ordered, indexable sequence (§9's "iterator-like
// traversal" note).
package optimiser

import "starpower/internal/chart"

// Activation is a contiguous segment [StartIndex, EndIndex] of a PointSet,
// plus the Beat at which SP was actually engaged and at which it ended.
type Activation struct {
	StartIndex, EndIndex int
	EngageBeat, EndBeat   chart.Beat
}

// Path is an ordered list of Activations with monotone, non-overlapping
// point ranges, plus its cached total score.
type Path struct {
	Activations []Activation
	Score       int64
}

// Empty is the trivial Path returned when no activation is feasible.
func Empty() Path {
	return Path{}
}
