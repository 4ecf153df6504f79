// Package song bundles the Converter, PointSet, and SpData built from a
// Song into the immutable ProcessedSong the optimiser consumes. Grounded
// on program.Program.Init's construction order (Parser, then Scorer, then
// Theme), generalised to Converter -> PointSet -> SpData.
package song

import (
	"sort"

	"starpower/internal/chart"
	"starpower/internal/engine"
	"starpower/internal/points"
	"starpower/internal/spbar"
	"starpower/internal/starerr"
	"starpower/internal/tempo"
)

// DrumSettings holds drum-only SP activation settings. Build stores them on
// Processed unchanged; the optimiser does not read them, so
// RequireFillToActivate does not restrict where activations start.
type DrumSettings struct {
	RequireFillToActivate bool
}

// Processed is the immutable bundle the optimiser operates on.
type Processed struct {
	Converter *tempo.Converter
	Points    *points.PointSet
	SPData    *spbar.Data
	Engine    engine.Engine
	Squeeze   points.Squeeze
	Drum      DrumSettings

	Warnings []starerr.Warning
}

// Build constructs a Processed from a Song, per §4.6/§6's `build`
// operation. speedup is a percentage multiplier (100 = no change);
// speedup <= 0 is rejected with InvalidSong.
func Build(s chart.Song, sq points.Squeeze, eng engine.Engine, drum DrumSettings, speedupPercent float64) (*Processed, error) {
	if speedupPercent <= 0 {
		return nil, starerr.New(starerr.InvalidSong, "speedup must be positive")
	}
	if s.Track.Resolution <= 0 {
		return nil, starerr.New(starerr.InvalidSong, "resolution must be positive")
	}

	track, warnings := validateAndClean(s.Track)

	sync := s.Sync
	speedup := speedupPercent / 100.0
	if speedup != 1.0 {
		sync = rescaleTempo(sync, speedup)
		sq.LazyWhammy /= chart.Second(speedup)
		sq.VideoLag /= chart.Second(speedup)
		sq.WhammyDelay /= chart.Second(speedup)
	}

	conv := tempo.New(sync, track.Resolution, eng.RespectsTempoChanges)
	pointSet := points.Build(track, conv, eng, sq, s.UnisonPhrases)
	spData := spbar.Build(track, conv, eng)

	return &Processed{
		Converter: conv,
		Points:    pointSet,
		SPData:    spData,
		Engine:    eng,
		Squeeze:   sq,
		Drum:      drum,
		Warnings:  warnings,
	}, nil
}

// rescaleTempo multiplies every BPM by speedup and re-normalises the map,
// per §4.6's "multiplies every BPM by k/100".
func rescaleTempo(sync chart.SyncTrack, speedup float64) chart.SyncTrack {
	out := chart.SyncTrack{
		TimeSignatureEvents: sync.TimeSignatureEvents,
	}
	events := sync.BPMEvents
	if len(events) == 0 || events[0].Position != 0 {
		// The implicit 120 BPM opening tempo is rescaled like any other.
		events = append([]chart.BPMEvent{{Position: 0, MicroBPM: 120_000_000}}, events...)
	}
	out.BPMEvents = make([]chart.BPMEvent, len(events))
	for i, ev := range events {
		out.BPMEvents[i] = chart.BPMEvent{
			Position: ev.Position,
			MicroBPM: int64(float64(ev.MicroBPM) * speedup),
		}
	}
	return out
}

// validateAndClean sorts notes, merges exact duplicates, and drops
// Inconsistent records (phrases with no notes in range, overlapping
// phrases, solos with end < start), collecting a Warning per dropped
// record rather than aborting, per §7's recoverable-condition policy.
func validateAndClean(t chart.NoteTrack) (chart.NoteTrack, []starerr.Warning) {
	var warnings []starerr.Warning

	notes := dedupNotes(t.Notes)

	var phrases []chart.StarPowerPhrase
	prevEnd := chart.Tick(-1)
	for _, p := range t.StarPowerPhrases {
		if p.Start < prevEnd {
			warnings = append(warnings, starerr.Warning{Kind: starerr.Inconsistent, Message: "overlapping SP phrase dropped"})
			continue
		}
		if !anyNoteInRange(notes, p.Start, p.End()) {
			warnings = append(warnings, starerr.Warning{Kind: starerr.Inconsistent, Message: "SP phrase with no notes dropped"})
			continue
		}
		phrases = append(phrases, p)
		prevEnd = p.End()
	}

	var solos []chart.Solo
	for _, s := range t.Solos {
		if s.End < s.Start {
			warnings = append(warnings, starerr.Warning{Kind: starerr.Inconsistent, Message: "solo with end < start dropped"})
			continue
		}
		solos = append(solos, s)
	}

	t.Notes = notes
	t.StarPowerPhrases = phrases
	t.Solos = solos
	return t, warnings
}

func dedupNotes(notes []chart.Note) []chart.Note {
	sorted := make([]chart.Note, len(notes))
	copy(sorted, notes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		if sorted[i].Colour.Family != sorted[j].Colour.Family {
			return sorted[i].Colour.Family < sorted[j].Colour.Family
		}
		return sorted[i].Colour.Lane < sorted[j].Colour.Lane
	})

	out := sorted[:0:0]
	for _, n := range sorted {
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.Position == n.Position && last.Colour == n.Colour {
				continue // duplicate at same tick and colour: merged away
			}
		}
		out = append(out, n)
	}
	return out
}

func anyNoteInRange(notes []chart.Note, start, end chart.Tick) bool {
	for _, n := range notes {
		if n.Position >= start && n.Position < end {
			return true
		}
	}
	return false
}
