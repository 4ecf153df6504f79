package points

import (
	"testing"

	"starpower/internal/chart"
	"starpower/internal/engine"
	"starpower/internal/tempo"
)

func TestGroupChords(t *testing.T) {
	notes := []chart.Note{
		{Position: 192, Colour: chart.Colour{Lane: 1}},
		{Position: 0, Colour: chart.Colour{Lane: 0}},
		{Position: 0, Colour: chart.Colour{Lane: 2}},
	}
	groups := groupChords(notes)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, expected 2", len(groups))
	}
	if groups[0].position != 0 || len(groups[0].notes) != 2 {
		t.Fatalf("first group: %+v", groups[0])
	}
	if groups[1].position != 192 || len(groups[1].notes) != 1 {
		t.Fatalf("second group: %+v", groups[1])
	}
}

// expandSustain is exercised with a synthetic rate (1 point per 2 ticks)
// chosen so every intermediate value is exactly representable in float64,
// keeping the test deterministic without needing to run the program.
func TestExpandSustainExactRate(t *testing.T) {
	eng := engine.Engine{SustainPointsPerBeat: 1, BurstSizeBeats: 0}
	toPoint := func(tick chart.Tick, value int64, hold bool) Point {
		return Point{Beat: chart.Beat(tick), Value: value, IsHoldSubpoint: hold}
	}

	out := expandSustain(0, 4, 2, eng, toPoint)
	if len(out) != 2 {
		t.Fatalf("got %d subpoints, expected 2", len(out))
	}
	if out[0].Beat != 2 || out[1].Beat != 4 {
		t.Fatalf("subpoint ticks: %v, %v", out[0].Beat, out[1].Beat)
	}
	for _, p := range out {
		if !p.IsHoldSubpoint || p.Value != 1 {
			t.Fatalf("subpoint not a 1-point hold subpoint: %+v", p)
		}
	}
}

func TestExpandSustainZeroLength(t *testing.T) {
	eng := engine.Engine{SustainPointsPerBeat: 25}
	toPoint := func(tick chart.Tick, value int64, hold bool) Point { return Point{} }
	if out := expandSustain(0, 0, 192, eng, toPoint); out != nil {
		t.Fatalf("expected no subpoints for zero length, got %v", out)
	}
}

func TestBuildSingleNote(t *testing.T) {
	conv := tempo.New(chart.SyncTrack{}, 192, true)
	eng := engine.CH()
	track := chart.NoteTrack{
		Notes: []chart.Note{
			{Position: 0, Colour: chart.Colour{Lane: 0}},
		},
		Resolution: 192,
	}
	ps := Build(track, conv, eng, Squeeze{}, nil)
	if ps.Len() != 1 {
		t.Fatalf("got %d points, expected 1", ps.Len())
	}
	p := ps.At(0)
	if p.Value != eng.BaseNoteValue {
		t.Fatalf("value = %d, expected %d", p.Value, eng.BaseNoteValue)
	}
	if p.Multiplier != 1 || p.HitIndex != 1 {
		t.Fatalf("multiplier/hitIndex = %d/%d, expected 1/1", p.Multiplier, p.HitIndex)
	}
}

func TestBuildChordValueAndSPGrant(t *testing.T) {
	conv := tempo.New(chart.SyncTrack{}, 192, true)
	eng := engine.CH()
	track := chart.NoteTrack{
		Notes: []chart.Note{
			{Position: 0, Colour: chart.Colour{Lane: 0}},
			{Position: 0, Colour: chart.Colour{Lane: 1}},
		},
		StarPowerPhrases: []chart.StarPowerPhrase{
			{Start: 0, Length: 192},
		},
		Resolution: 192,
	}
	ps := Build(track, conv, eng, Squeeze{}, nil)
	if ps.Len() != 1 {
		t.Fatalf("got %d points, expected 1", ps.Len())
	}
	p := ps.At(0)
	if p.Value != eng.BaseNoteValue*2 {
		t.Fatalf("chord value = %d, expected %d", p.Value, eng.BaseNoteValue*2)
	}
	if !p.IsSPGranting {
		t.Fatal("sole note of a completed phrase should be SP-granting")
	}
}

func TestBuildUnisonGrant(t *testing.T) {
	conv := tempo.New(chart.SyncTrack{}, 192, true)
	eng := engine.CH()
	track := chart.NoteTrack{
		Notes: []chart.Note{
			{Position: 384, Colour: chart.Colour{Lane: 0}},
		},
		Resolution: 192,
	}
	ps := Build(track, conv, eng, Squeeze{}, []chart.UnisonPhrase{{Start: 384}})
	if !ps.At(0).IsUnisonGranting {
		t.Fatal("note at a unison phrase's start tick should be unison-granting")
	}
}

// TestHoldSubpointsInheritMultiplier checks that sustain subpoints carry the
// streak multiplier active when the sustain started, without themselves
// advancing the hit-order ladder.
func TestHoldSubpointsInheritMultiplier(t *testing.T) {
	conv := tempo.New(chart.SyncTrack{}, 25, true)
	eng := engine.Engine{BaseNoteValue: 50, SustainPointsPerBeat: 25}

	var notes []chart.Note
	for i := 0; i < 9; i++ {
		notes = append(notes, chart.Note{Position: chart.Tick(i * 25), Colour: chart.Colour{Lane: 0}})
	}
	// The 10th anchor note (hitIndex 10, multiplier 2) carries a one-beat
	// sustain; its subpoints should also score at multiplier 2.
	notes = append(notes, chart.Note{Position: 225, Length: 25, Colour: chart.Colour{Lane: 0}})

	track := chart.NoteTrack{Notes: notes, Resolution: 25}
	ps := Build(track, conv, eng, Squeeze{}, nil)

	anchor := ps.At(9)
	if anchor.HitIndex != 10 || anchor.Multiplier != 2 {
		t.Fatalf("10th anchor: hitIndex=%d multiplier=%d", anchor.HitIndex, anchor.Multiplier)
	}
	for i := 10; i < ps.Len(); i++ {
		sub := ps.At(i)
		if !sub.IsHoldSubpoint {
			t.Fatalf("point %d expected to be a hold subpoint: %+v", i, sub)
		}
		if sub.Multiplier != 2 {
			t.Fatalf("hold subpoint %d multiplier = %d, expected 2", i, sub.Multiplier)
		}
		if sub.HitIndex != 0 {
			t.Fatalf("hold subpoint %d should not advance HitIndex, got %d", i, sub.HitIndex)
		}
	}
}
