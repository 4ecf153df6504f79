package optimiser

import (
	"math"

	"starpower/internal/chart"
	"starpower/internal/points"
	"starpower/internal/song"
	"starpower/internal/spbar"
)

// quantStep is the memoisation grid size for SpBar, per §9: "quantise to
// fixed-point (e.g., multiply by 10,000 and round) for table lookup."
const quantStep = 10000

type barKey struct {
	min, max int32
}

func quantise(b spbar.Bar) barKey {
	return barKey{
		min: int32(math.Round(b.Min * quantStep)),
		max: int32(math.Round(b.Max * quantStep)),
	}
}

type memoKey struct {
	index int
	bar   barKey
}

type tailResult struct {
	score int64
	acts  []Activation
}

// searcher owns one memo table and the ProcessedSong it searches over. A
// fresh searcher per goroutine is how the optional parallel fan-out keeps
// memo tables partitioned, per §5's requirement.
type searcher struct {
	proc *song.Processed
	memo map[memoKey]tailResult
}

func newSearcher(proc *song.Processed) *searcher {
	return &searcher{proc: proc, memo: make(map[memoKey]tailResult)}
}

// squeezeWindowBeats converts the engine's timing window (seconds) to an
// approximate beats window at the point's local tempo, widened by the
// squeeze fraction, per §4.2's squeeze-settings description.
func (s *searcher) squeezeWindowBeats(b chart.Beat) chart.Beat {
	window := s.proc.Engine.TimingWindow * s.proc.Squeeze.Squeeze
	// Convert using the local tempo: one beat lasts BeatsToSeconds(b+1)-BeatsToSeconds(b).
	secPerBeat := float64(s.proc.Converter.BeatsToSeconds(b+1) - s.proc.Converter.BeatsToSeconds(b))
	if secPerBeat <= 0 {
		return 0
	}
	return chart.Beat(window / secPerBeat)
}

// solve returns the best achievable tail score (and its activations) from
// point index i onward, given the current reachable SpBar and the Beat at
// which the previous activation ended (or a very small sentinel if none).
func (s *searcher) solve(i int, bar spbar.Bar, prevEnd chart.Beat) tailResult {
	n := s.proc.Points.Len()
	if i >= n {
		return tailResult{}
	}

	key := memoKey{index: i, bar: quantise(bar)}
	if r, ok := s.memo[key]; ok {
		return r
	}

	pt := s.proc.Points.At(i)

	// Option 1: skip this point. SP grows from whammying sustains inside
	// SP phrases between here and the next point (active=false: no
	// drain), plus a discrete +0.25 if this point completes a phrase.
	nextBar := bar
	if i+1 < n {
		next := s.proc.Points.At(i + 1)
		nextBar = s.proc.SPData.Propagate(bar, pt.Beat, next.Beat, 0, 1, false)
	}
	if pt.IsSPGranting {
		nextBar = nextBar.AddPhrase(s.proc.Engine.SPPerPhrase)
	}
	skip := s.solve(i+1, nextBar, prevEnd)
	best := tailResult{score: pointScore(pt) + skip.score, acts: skip.acts}

	// Option 2: activate starting at i.
	if bar.FullEnoughToActivate(s.proc.Engine.MinSPToActivate) {
		if act := s.bestActivationFrom(i, bar, prevEnd); act.score > best.score {
			best = act
		}
	}

	s.memo[key] = best
	return best
}

func pointScore(p points.Point) int64 {
	return p.Value * int64(p.Multiplier)
}

// bestActivationFrom tries every feasible end point j >= i for an
// activation starting at i, per §4.4 point 3: the feasible set of j is an
// upward-closed prefix once SpData reports the bar unreachable, so the
// loop breaks on the first infeasible j.
func (s *searcher) bestActivationFrom(i int, bar spbar.Bar, prevEnd chart.Beat) tailResult {
	n := s.proc.Points.Len()
	first := s.proc.Points.At(i)

	window := s.squeezeWindowBeats(first.Beat)
	earliest := first.Beat - window
	if prevEnd > earliest {
		earliest = prevEnd
	}

	best := tailResult{score: -1}
	var cumulative int64

	for j := i; j < n; j++ {
		pt := s.proc.Points.At(j)
		latestWindow := s.squeezeWindowBeats(pt.Beat)
		latest := pt.Beat + latestWindow

		outBar := s.proc.SPData.Propagate(bar, earliest, latest, 0, 1, true)
		if outBar.Failed() {
			break
		}

		cumulative += pt.Value * 4 // M_k = 4 during SP regardless of base multiplier

		tail := s.solve(j+1, outBar, latest)
		total := cumulative + tail.score
		if total > best.score {
			acts := make([]Activation, 0, len(tail.acts)+1)
			acts = append(acts, Activation{
				StartIndex: i,
				EndIndex:   j,
				EngageBeat: earliest,
				EndBeat:    latest,
			})
			acts = append(acts, tail.acts...)
			best = tailResult{score: total, acts: acts}
		}
	}
	return best
}

// Optimise runs the sequential branch-and-bound search of §4.4.
func Optimise(proc *song.Processed) Path {
	s := newSearcher(proc)
	r := s.solve(0, spbar.Zero(), chart.Beat(math.Inf(-1)))
	return Path{Activations: r.acts, Score: r.score + bonuses(proc)}
}
