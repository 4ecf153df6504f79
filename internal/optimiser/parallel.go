package optimiser

import (
	"math"

	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/sync/errgroup"

	"starpower/internal/chart"
	"starpower/internal/song"
	"starpower/internal/spbar"
)

// OptimiseParallel is the optional parallel variant of §5's "parallelism
// opportunity": the top-level decision of where the first activation
// starts and ends partitions the remaining search into independent
// subtrees (everything from EndIndex+1 onward), so each candidate first
// activation is explored by its own worker with its own memo table,
// bounded by github.com/remeh/sizedwaitgroup, and merged by best score
// with golang.org/x/sync/errgroup carrying the first worker error (there
// are none today; the plumbing exists for a future cancellable search).
func OptimiseParallel(proc *song.Processed, maxWorkers int) Path {
	n := proc.Points.Len()
	if n == 0 {
		return Path{Score: bonuses(proc)}
	}
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	type candidate struct {
		score int64
		acts  []Activation
	}

	results := make([]candidate, n)
	swg := sizedwaitgroup.New(maxWorkers)
	var g errgroup.Group

	// Walk the deterministic pre-activation bar forward once, sequentially,
	// so each worker starts from the correct reachable bar at its index —
	// this pass has no branching (skipping never forks state) so it costs
	// nothing to share. The same walk records the score of the points
	// skipped before each index (a worker's search covers only the points
	// from its index on) and sums the never-activate baseline score, the
	// candidate the per-index fan-out below cannot represent on its own (no
	// index stands for "no activation anywhere").
	bars := make([]spbar.Bar, n)
	prefix := make([]int64, n)
	bar := spbar.Zero()
	var neverActivate int64
	for i := 0; i < n; i++ {
		bars[i] = bar
		prefix[i] = neverActivate
		pt := proc.Points.At(i)
		neverActivate += pointScore(pt)
		if i+1 < n {
			next := proc.Points.At(i + 1)
			bar = proc.SPData.Propagate(bar, pt.Beat, next.Beat, 0, 1, false)
		}
		if pt.IsSPGranting {
			bar = bar.AddPhrase(proc.Engine.SPPerPhrase)
		}
	}

	for i := 0; i < n; i++ {
		i := i
		if !bars[i].FullEnoughToActivate(proc.Engine.MinSPToActivate) {
			results[i] = candidate{score: -1}
			continue
		}
		swg.Add()
		g.Go(func() error {
			defer swg.Done()
			s := newSearcher(proc)
			act := s.bestActivationFrom(i, bars[i], chart.Beat(math.Inf(-1)))
			results[i] = candidate{score: prefix[i] + act.score, acts: act.acts}
			return nil
		})
	}
	swg.Wait()
	_ = g.Wait()

	best := candidate{score: neverActivate}
	for _, c := range results {
		if c.score > best.score {
			best = c
		}
	}
	return Path{Activations: best.acts, Score: best.score + bonuses(proc)}
}
