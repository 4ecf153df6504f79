package optimiser

import (
	"testing"

	"starpower/internal/chart"
	"starpower/internal/engine"
	"starpower/internal/points"
	"starpower/internal/song"
)

// plainNotesTrack returns a NoteTrack of n single notes, one per beat, with
// no SP phrases at all: there is never enough SP to activate, so the
// optimiser's only lever is the hit-order multiplier ladder.
func plainNotesTrack(n int) chart.NoteTrack {
	notes := make([]chart.Note, n)
	for i := 0; i < n; i++ {
		notes[i] = chart.Note{Position: chart.Tick(i * 192), Colour: chart.Colour{Lane: 0}}
	}
	return chart.NoteTrack{Notes: notes, Resolution: 192}
}

func buildProcessed(t *testing.T, track chart.NoteTrack) *song.Processed {
	t.Helper()
	proc, err := song.Build(chart.Song{Track: track}, points.Squeeze{}, engine.CH(), song.DrumSettings{}, 100)
	if err != nil {
		t.Fatal(err)
	}
	return proc
}

func TestOptimiseWithoutSPMatchesLadderSum(t *testing.T) {
	proc := buildProcessed(t, plainNotesTrack(15))

	var want int64
	for i := 1; i <= 15; i++ {
		want += proc.Engine.BaseNoteValue * int64(engine.MultiplierFor(i))
	}

	path := Optimise(proc)
	if path.Score != want {
		t.Fatalf("score = %d, expected %d", path.Score, want)
	}
	if len(path.Activations) != 0 {
		t.Fatalf("expected no activations with no SP phrases, got %v", path.Activations)
	}
}

func TestScoreMatchesOptimiseScore(t *testing.T) {
	proc := buildProcessed(t, plainNotesTrack(25))
	path := Optimise(proc)
	if got := Score(proc, path); got != path.Score {
		t.Fatalf("Score recomputed %d, Optimise reported %d", got, path.Score)
	}
}

// phraseTrack builds enough notes and SP phrases to let the optimiser
// activate at least once: two completed phrases grant 0.25 SP each, enough
// to clear the 0.5 activation threshold, followed by a run of plain notes
// to spend it on.
func phraseTrack() chart.NoteTrack {
	notes := []chart.Note{
		{Position: 0, Colour: chart.Colour{Lane: 0}},
		{Position: 192, Colour: chart.Colour{Lane: 0}},
	}
	for i := 2; i < 20; i++ {
		notes = append(notes, chart.Note{Position: chart.Tick(i * 192), Colour: chart.Colour{Lane: 0}})
	}
	return chart.NoteTrack{
		Notes: notes,
		StarPowerPhrases: []chart.StarPowerPhrase{
			{Start: 0, Length: 192},
			{Start: 192, Length: 192},
		},
		Resolution: 192,
	}
}

func TestOptimiseNeverScoresBelowNeverActivating(t *testing.T) {
	proc := buildProcessed(t, phraseTrack())

	var baseline int64
	for _, p := range proc.Points.Points {
		baseline += p.Value * int64(p.Multiplier)
	}

	path := Optimise(proc)
	if path.Score < baseline {
		t.Fatalf("optimised score %d is worse than never activating (%d)", path.Score, baseline)
	}
}

func TestOptimiseParallelAgreesWithSequential(t *testing.T) {
	proc := buildProcessed(t, phraseTrack())

	seq := Optimise(proc)
	par := OptimiseParallel(proc, 4)
	if seq.Score != par.Score {
		t.Fatalf("sequential score %d, parallel score %d", seq.Score, par.Score)
	}
}

func TestOptimiseEmptySong(t *testing.T) {
	proc := buildProcessed(t, chart.NoteTrack{Resolution: 192})
	path := Optimise(proc)
	if path.Score != 0 {
		t.Fatalf("empty song should score 0, got %d", path.Score)
	}
	if len(path.Activations) != 0 {
		t.Fatal("empty song should have no activations")
	}
}
