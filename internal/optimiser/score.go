package optimiser

import "starpower/internal/song"

// UnisonBonus is the flat bonus awarded when a unison-granting point is
// collected, per §9's glossary entry ("awards an extra bonus") — the exact
// value is not pinned down by the source spec, so it is fixed here as a
// documented decision (see DESIGN.md).
const UnisonBonus int64 = 100

// bonuses sums the solo and unison bonuses that apply unconditionally: the
// optimiser never decides to miss a note, only when to spend SP, so every
// solo is completed and every unison phrase collected in any Path it
// returns.
func bonuses(proc *song.Processed) int64 {
	var total int64
	for _, sb := range proc.Points.SoloBonuses {
		total += sb.Bonus
	}
	for _, p := range proc.Points.Points {
		if p.IsUnisonGranting {
			total += UnisonBonus
		}
	}
	return total
}

// activeRanges returns, for each point index, whether it falls within some
// activation's [StartIndex, EndIndex] range of path.
func activeRanges(path Path, n int) []bool {
	active := make([]bool, n)
	for _, a := range path.Activations {
		for i := a.StartIndex; i <= a.EndIndex && i < n; i++ {
			active[i] = true
		}
	}
	return active
}

// Score recomputes the total score of a Path against a ProcessedSong, per
// §6's `score` operation. It is independent of whatever the optimiser
// internally accumulated; tests use it to cross-check that figure.
func Score(proc *song.Processed, path Path) int64 {
	n := proc.Points.Len()
	active := activeRanges(path, n)

	var total int64
	for i := 0; i < n; i++ {
		p := proc.Points.At(i)
		if active[i] {
			total += p.Value * 4
		} else {
			total += p.Value * int64(p.Multiplier)
		}
	}
	return total + bonuses(proc)
}
