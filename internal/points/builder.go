package points

import (
	"math"
	"sort"

	"golang.org/x/exp/slices"

	"starpower/internal/chart"
	"starpower/internal/engine"
	"starpower/internal/tempo"
)

// Squeeze is the 5-tuple of timing-tolerance settings from §4.2. Squeeze
// and EarlyWhammy are fractions in [0,1]; the others are Second offsets.
type Squeeze struct {
	Squeeze      float64
	EarlyWhammy  float64
	LazyWhammy   chart.Second
	VideoLag     chart.Second
	WhammyDelay  chart.Second
}

// chordGroup is every note sharing one tick position.
type chordGroup struct {
	position chart.Tick
	notes    []chart.Note
}

func groupChords(notes []chart.Note) []chordGroup {
	sorted := make([]chart.Note, len(notes))
	copy(sorted, notes)
	slices.SortFunc(sorted, func(a, b chart.Note) bool { return a.Position < b.Position })

	var groups []chordGroup
	for _, n := range sorted {
		if len(groups) > 0 && groups[len(groups)-1].position == n.Position {
			groups[len(groups)-1].notes = append(groups[len(groups)-1].notes, n)
			continue
		}
		groups = append(groups, chordGroup{position: n.Position, notes: []chart.Note{n}})
	}
	return groups
}

// Build expands a NoteTrack into a PointSet, per §4.2. conv must already be
// built from the same NoteTrack's SyncTrack/resolution/engine.
func Build(track chart.NoteTrack, conv *tempo.Converter, eng engine.Engine, sq Squeeze, unisons []chart.UnisonPhrase) *PointSet {
	groups := groupChords(track.Notes)
	ps := &PointSet{}

	toPoint := func(t chart.Tick, value int64, holdSub bool) Point {
		b := conv.TickToBeat(t)
		return Point{
			Beat:    b,
			Measure: conv.BeatsToMeasures(b),
			Second:  conv.BeatsToSeconds(b) + sq.VideoLag,
			Value:   value,
			IsHoldSubpoint: holdSub,
		}
	}

	hitIndex := 0
	assignMultiplier := func(p *Point) {
		if p.IsHoldSubpoint {
			// Hold subpoints inherit the current streak multiplier but do
			// not themselves advance the hit-order ladder.
			p.Multiplier = engine.MultiplierFor(hitIndex)
			return
		}
		hitIndex++
		p.HitIndex = hitIndex
		p.Multiplier = engine.MultiplierFor(hitIndex)
	}

	phraseIdx := 0
	phraseTail := make([]int, len(track.StarPowerPhrases))
	for i := range phraseTail {
		phraseTail[i] = -1
	}

	unisonTicks := map[chart.Tick]bool{}
	for _, u := range unisons {
		unisonTicks[u.Start] = true
	}

	for _, g := range groups {
		chordSize := int64(len(g.notes))
		anchorValue := eng.BaseNoteValue * chordSize
		anchor := toPoint(g.position, anchorValue, false)
		assignMultiplier(&anchor)

		// Advance phraseIdx to the phrase (if any) covering this position,
		// and mark whether this anchor is the phrase's last note.
		for phraseIdx < len(track.StarPowerPhrases) && track.StarPowerPhrases[phraseIdx].End() <= g.position {
			phraseIdx++
		}
		inPhrase := phraseIdx < len(track.StarPowerPhrases) && track.StarPowerPhrases[phraseIdx].Contains(g.position)
		if inPhrase {
			phraseTail[phraseIdx] = len(ps.Points)
		}
		if unisonTicks[g.position] {
			anchor.IsUnisonGranting = true
		}

		ps.Points = append(ps.Points, anchor)

		// Longest sustain in the chord determines the shared hold stream
		// for CH; RB multiplies the stream per colour instead.
		maxLen := chart.Tick(0)
		for _, n := range g.notes {
			if n.Length > maxLen {
				maxLen = n.Length
			}
		}
		if maxLen <= 0 {
			continue
		}

		streams := 1
		if eng.ChordsMultiplySustains {
			streams = len(g.notes)
		}
		for s := 0; s < streams; s++ {
			subs := expandSustain(g.position, maxLen, conv.Resolution(), eng, toPoint)
			for i := range subs {
				assignMultiplier(&subs[i])
			}
			ps.Points = append(ps.Points, subs...)
		}
	}

	for _, idx := range phraseTail {
		if idx >= 0 {
			ps.Points[idx].IsSPGranting = true
		}
		ps.PhraseTailIndex = append(ps.PhraseTailIndex, idx)
	}

	// Stability matters here (hold subpoints must stay after their anchor
	// when beats tie), and x/exp/slices has no stable-sort counterpart to
	// SortFunc at this vintage.
	sort.SliceStable(ps.Points, func(i, j int) bool {
		a, b := ps.Points[i], ps.Points[j]
		if a.Beat != b.Beat {
			return a.Beat < b.Beat
		}
		return !a.IsHoldSubpoint && b.IsHoldSubpoint
	})

	// The sort can move an anchor ahead of an earlier note's hold
	// subpoints; re-point each phrase's tail at its sorted index.
	tail := 0
	for i, p := range ps.Points {
		for p.IsSPGranting && ps.PhraseTailIndex[tail] < 0 {
			tail++
		}
		if p.IsSPGranting {
			ps.PhraseTailIndex[tail] = i
			tail++
		}
	}

	for _, s := range track.Solos {
		ps.SoloBonuses = append(ps.SoloBonuses, SoloBonus{EndTick: s.End, Bonus: s.Bonus})
	}

	return ps
}

// expandSustain walks the ticks of one sustain, emitting a 1-point
// subpoint each time the accumulated fractional sustain total crosses an
// integer, capped at one emission per tick (the §4.2 edge-case guard
// against runaway subpoint counts at resolutions too coarse for the
// engine's sustain rate), plus one final burst subpoint carrying any
// leftover fractional tail if the engine has a nonzero burst window.
func expandSustain(start chart.Tick, length chart.Tick, resolution int64, eng engine.Engine, toPoint func(chart.Tick, int64, bool) Point) []Point {
	if length <= 0 {
		return nil
	}
	pointsPerTick := eng.SustainPointsPerBeat / float64(resolution)

	var out []Point
	var acc float64
	end := start + length
	for t := start + 1; t <= end; t++ {
		acc += pointsPerTick
		if acc >= 1.0 {
			out = append(out, toPoint(t, 1, true))
			acc -= 1.0
			if acc >= 1.0 {
				acc = 0 // clamp the carry: at most one subpoint per tick
			}
		}
	}
	if acc > 1e-9 && eng.BurstSizeBeats > 0 {
		out = append(out, toPoint(end, 1, true))
	}
	return out
}

// totalSustainPoints returns the whole number of hold points a sustain of
// the given length earns at the engine's sustain rate, without the burst
// subpoint. Nothing in the module calls it.
func totalSustainPoints(length chart.Tick, resolution int64, eng engine.Engine) float64 {
	return math.Floor(float64(length) * eng.SustainPointsPerBeat / float64(resolution))
}
