package spbar

import (
	"testing"

	"starpower/internal/chart"
	"starpower/internal/engine"
)

func TestPropagateGainOnly(t *testing.T) {
	eng := engine.Engine{WhammySPGainRate: 0.1, SPDrainPerBeat: 0.05, MaxSP: 1}
	d := &Data{eng: eng, ranges: []WhammyRange{{StartBeat: 0, EndBeat: 4}}}

	out := d.Propagate(Zero(), 0, 4, 0, 1, false)
	if out.Min != 0 {
		t.Fatalf("Min = %v, expected 0 (no whammy)", out.Min)
	}
	if !approxEqual(out.Max, 0.4) {
		t.Fatalf("Max = %v, expected 0.4", out.Max)
	}
}

func TestPropagateDrainWhileActive(t *testing.T) {
	eng := engine.Engine{SPDrainPerBeat: 0.05, MaxSP: 1}
	d := &Data{eng: eng}

	out := d.Propagate(Full(), 0, 8, 0, 0, true)
	if !approxEqual(out.Min, 0.6) || !approxEqual(out.Max, 0.6) {
		t.Fatalf("got %+v, expected {0.6 0.6}", out)
	}
}

func TestPropagateFailsWhenDrainedBeforeEnd(t *testing.T) {
	eng := engine.Engine{SPDrainPerBeat: 0.05, MaxSP: 1}
	d := &Data{eng: eng}

	out := d.Propagate(Full(), 0, 40, 0, 0, true)
	if !out.Failed() {
		t.Fatalf("expected an unreachable bar, got %+v", out)
	}
	if out.Min != 0 {
		t.Fatalf("Min should clamp to 0 even on failure, got %v", out.Min)
	}
}

func TestPropagateNoOpWhenNotActiveAndEmpty(t *testing.T) {
	eng := engine.Engine{SPDrainPerBeat: 0.05, MaxSP: 1}
	d := &Data{eng: eng}

	out := d.Propagate(Zero(), 0, 100, 0, 0, false)
	if out.Min != 0 || out.Max != 0 {
		t.Fatalf("idle SP with no whammy should stay at zero, got %+v", out)
	}
}

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}

type identityConverter struct{}

func (identityConverter) TickToBeat(t chart.Tick) chart.Beat { return chart.Beat(t) }

func TestBuildDerivesWhammyRangeFromSustainInsidePhrase(t *testing.T) {
	track := chart.NoteTrack{
		Notes: []chart.Note{
			{Position: 10, Length: 20, Colour: chart.Colour{Lane: 0}}, // spans [10,30)
		},
		StarPowerPhrases: []chart.StarPowerPhrase{
			{Start: 5, Length: 10}, // spans [5,15)
		},
	}
	eng := engine.Engine{WhammySPGainRate: 1, MaxSP: 1}
	d := Build(track, identityConverter{}, eng)

	if len(d.ranges) != 1 {
		t.Fatalf("got %d whammy ranges, expected 1", len(d.ranges))
	}
	r := d.ranges[0]
	if r.StartBeat != 10 || r.EndBeat != 15 {
		t.Fatalf("range = %+v, expected [10,15) (the sustain/phrase intersection)", r)
	}
}

func TestBuildSkipsSustainsOutsideAnyPhrase(t *testing.T) {
	track := chart.NoteTrack{
		Notes: []chart.Note{
			{Position: 100, Length: 20, Colour: chart.Colour{Lane: 0}},
		},
	}
	d := Build(track, identityConverter{}, engine.CH())
	if len(d.ranges) != 0 {
		t.Fatalf("got %d whammy ranges, expected 0", len(d.ranges))
	}
}
