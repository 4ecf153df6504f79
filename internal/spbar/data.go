package spbar

import (
	"sort"

	"starpower/internal/chart"
	"starpower/internal/engine"
)

// WhammyRange is a beat interval, derived from a sustain intersected with
// an SP phrase, during which whammy grants SP. Breakpoints are built once
// per ProcessedSong and are immutable thereafter.
type WhammyRange struct {
	StartBeat, EndBeat chart.Beat
}

// Data precomputes the whammy ranges for a NoteTrack and answers SP
// propagation queries over them.
type Data struct {
	ranges []WhammyRange
	eng    engine.Engine
}

// Build derives whammy ranges from sustains intersected with SP phrases;
// outside phrases, whammy does not grant SP, per §4.3.
func Build(track chart.NoteTrack, conv converter, eng engine.Engine) *Data {
	d := &Data{eng: eng}

	phraseIdx := 0
	for _, n := range track.Notes {
		if !n.IsSustain() {
			continue
		}
		for phraseIdx < len(track.StarPowerPhrases) && track.StarPowerPhrases[phraseIdx].End() <= n.Position {
			phraseIdx++
		}
		for i := phraseIdx; i < len(track.StarPowerPhrases); i++ {
			p := track.StarPowerPhrases[i]
			if p.Start >= n.End() {
				break
			}
			lo := maxTick(n.Position, p.Start)
			hi := minTick(n.End(), p.End())
			if lo >= hi {
				continue
			}
			d.ranges = append(d.ranges, WhammyRange{
				StartBeat: conv.TickToBeat(lo),
				EndBeat:   conv.TickToBeat(hi),
			})
		}
	}
	return d
}

// converter is the subset of *tempo.Converter that Data needs; declared
// locally to keep this package free of a direct tempo import cycle risk
// and to keep tests able to supply a fake.
type converter interface {
	TickToBeat(chart.Tick) chart.Beat
}

func maxTick(a, b chart.Tick) chart.Tick {
	if a > b {
		return a
	}
	return b
}

func minTick(a, b chart.Tick) chart.Tick {
	if a < b {
		return a
	}
	return b
}

// netRateAt returns the net SP rate (per beat) at beat b for a given
// whammy fraction in [0,1] (the extreme choices defining Min/Max): gain
// rate while whammying inside a range, minus the constant drain rate if
// active is true, or plain gain/zero if not — whammying a sustain inside
// an SP phrase grants SP whether or not SP is currently active; the drain
// term only applies while an activation is spending it.
func (d *Data) netRateAt(b chart.Beat, whammyFraction float64, active bool) float64 {
	inRange := false
	for _, r := range d.ranges {
		if b >= r.StartBeat && b < r.EndBeat {
			inRange = true
			break
		}
	}
	var rate float64
	if inRange {
		rate = d.eng.WhammySPGainRate * whammyFraction
	}
	if active {
		rate -= d.eng.SPDrainPerBeat
	}
	return rate
}

// breakpoints returns the ordered set of beats where the net rate
// function could change slope within [start, end]: the endpoints plus
// every whammy-range boundary inside the interval.
func (d *Data) breakpoints(start, end chart.Beat) []chart.Beat {
	bps := []chart.Beat{start}
	for _, r := range d.ranges {
		if r.StartBeat > start && r.StartBeat < end {
			bps = append(bps, r.StartBeat)
		}
		if r.EndBeat > start && r.EndBeat < end {
			bps = append(bps, r.EndBeat)
		}
	}
	bps = append(bps, end)
	sort.Slice(bps, func(i, j int) bool { return bps[i] < bps[j] })
	return bps
}

// Propagate computes the outgoing Bar after a span from start to end beat,
// given the incoming bar and the extreme whammy fractions available. When
// active is true (the span is inside an activation), SP also drains and
// running out before end fails the span (Max pinned to Unreachable);
// when active is false (the span is between activations), whammying a
// sustain inside an SP phrase still accrues SP, but running SP at zero is
// not a failure — there is simply nothing to lose.
func (d *Data) Propagate(in Bar, start, end chart.Beat, minWhammy, maxWhammy float64, active bool) Bar {
	if end < start {
		return in
	}
	lo := d.integrate(in.Min, start, end, minWhammy, active)
	hi := d.integrate(in.Max, start, end, maxWhammy, active)
	if active && hi < 0 {
		hi = Unreachable
	}
	if lo < 0 {
		lo = 0
	}
	return Bar{Min: lo, Max: hi}
}

func (d *Data) integrate(start0 float64, start, end chart.Beat, whammyFraction float64, active bool) float64 {
	sp := start0
	bps := d.breakpoints(start, end)
	for i := 1; i < len(bps); i++ {
		a, b := bps[i-1], bps[i]
		rate := d.netRateAt((a+b)/2, whammyFraction, active)
		sp += rate * float64(b-a)
		if sp >= d.eng.MaxSP {
			sp = d.eng.MaxSP
		}
		if sp < 0 {
			if active {
				return -1 // failed: ran out before end
			}
			sp = 0
		}
	}
	return sp
}
