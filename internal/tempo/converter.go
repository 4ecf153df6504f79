// Package tempo implements the bidirectional mapping between Tick, Beat,
// Measure, and Second used by the rest of the core. It is grounded on the
// teacher's parser.DefaultParser.getSecondsPerNote BPM-segment walk,
// generalised from a single forward linear scan into a precomputed,
// binary-searchable table that also inverts and extrapolates.
package tempo

import (
	"sort"

	"starpower/internal/chart"
)

// segment is the cumulative state at one sync event plus the constant rate
// that applies until the next one.
type segment struct {
	startTick    chart.Tick
	startBeat    chart.Beat
	startMeasure chart.Measure
	startSecond  chart.Second

	beatsPerSecond float64 // local tempo, in beats/second
	beatsPerMeasure float64 // local time signature, in beats/measure
}

// Converter performs Tick/Beat/Measure/Second conversions for one song.
// Immutable once built.
type Converter struct {
	resolution int64
	tempoSegs  []segment // ordered by startBeat; tempo changes only
	tsSegs     []segment // ordered by startBeat; time-signature changes only
	respectsTempoChanges bool
}

// New builds a Converter from a SyncTrack and resolution. If
// respectsTempoChanges is false (RB's policy), BPM events after the first
// are ignored and the whole song is treated as running at the initial
// tempo; RB still honours time-signature changes for Measure math.
func New(sync chart.SyncTrack, resolution int64, respectsTempoChanges bool) *Converter {
	if resolution <= 0 {
		resolution = 192
	}

	bpmEvents := sync.BPMEvents
	if len(bpmEvents) == 0 || bpmEvents[0].Position != 0 {
		bpmEvents = append([]chart.BPMEvent{{Position: 0, MicroBPM: 120_000_000}}, bpmEvents...)
	}
	if !respectsTempoChanges {
		bpmEvents = bpmEvents[:1]
	}

	tsEvents := sync.TimeSignatureEvents
	if len(tsEvents) == 0 || tsEvents[0].Position != 0 {
		tsEvents = append([]chart.TimeSignatureEvent{{Position: 0, Numerator: 4, Denominator: 4}}, tsEvents...)
	}

	c := &Converter{resolution: resolution, respectsTempoChanges: respectsTempoChanges}

	// Build the tempo table: cumulative beat/second at each BPM event.
	var beat chart.Beat
	var second chart.Second
	prevTick := chart.Tick(0)
	for i, ev := range bpmEvents {
		if i > 0 {
			dTicks := ev.Position - prevTick
			dBeats := dTicks.ToBeat(resolution)
			rate := microBPMToBeatsPerSecond(bpmEvents[i-1].MicroBPM)
			beat += dBeats
			second += chart.Second(float64(dBeats) / rate)
		}
		c.tempoSegs = append(c.tempoSegs, segment{
			startTick:      ev.Position,
			startBeat:      beat,
			startSecond:    second,
			beatsPerSecond: microBPMToBeatsPerSecond(ev.MicroBPM),
		})
		prevTick = ev.Position
	}

	// Build the time-signature table: cumulative beat/measure at each TS
	// event.
	beat = 0
	var measure chart.Measure
	prevTick = 0
	for i, ev := range tsEvents {
		if i > 0 {
			dTicks := ev.Position - prevTick
			dBeats := dTicks.ToBeat(resolution)
			beatsPerMeasure := timeSigBeatsPerMeasure(tsEvents[i-1])
			beat += dBeats
			measure += chart.Measure(float64(dBeats) / beatsPerMeasure)
		}
		c.tsSegs = append(c.tsSegs, segment{
			startTick:       ev.Position,
			startBeat:       beat,
			startMeasure:    measure,
			beatsPerMeasure: timeSigBeatsPerMeasure(ev),
		})
		prevTick = ev.Position
	}

	return c
}

func microBPMToBeatsPerSecond(microBPM int64) float64 {
	bpm := float64(microBPM) / 1_000_000.0
	return bpm / 60.0
}

func timeSigBeatsPerMeasure(ev chart.TimeSignatureEvent) float64 {
	num, den := ev.Numerator, ev.Denominator
	if num <= 0 {
		num = 4
	}
	if den <= 0 {
		den = 4
	}
	return 4.0 * float64(num) / float64(den)
}

// findByBeat returns the last segment whose startBeat <= b, extrapolating
// with the first/last segment's rate outside the table's range.
func findByBeat(segs []segment, b chart.Beat) segment {
	i := sort.Search(len(segs), func(i int) bool { return segs[i].startBeat > b })
	if i == 0 {
		return segs[0]
	}
	return segs[i-1]
}

func findBySecond(segs []segment, s chart.Second) segment {
	i := sort.Search(len(segs), func(i int) bool { return segs[i].startSecond > s })
	if i == 0 {
		return segs[0]
	}
	return segs[i-1]
}

func findByMeasure(segs []segment, m chart.Measure) segment {
	i := sort.Search(len(segs), func(i int) bool { return segs[i].startMeasure > m })
	if i == 0 {
		return segs[0]
	}
	return segs[i-1]
}

// BeatsToSeconds converts a Beat to a Second, extrapolating with the final
// segment's rate for beats past the last tempo event (and with the first
// segment's rate for beats before it, including negative beats — required
// by the squeeze-window math at song start).
func (c *Converter) BeatsToSeconds(b chart.Beat) chart.Second {
	seg := findByBeat(c.tempoSegs, b)
	return seg.startSecond + chart.Second(float64(b-seg.startBeat)/seg.beatsPerSecond)
}

// SecondsToBeats is the inverse of BeatsToSeconds.
func (c *Converter) SecondsToBeats(s chart.Second) chart.Beat {
	seg := findBySecond(c.tempoSegs, s)
	return seg.startBeat + chart.Beat(float64(s-seg.startSecond)*seg.beatsPerSecond)
}

// BeatsToMeasures converts a Beat to a Measure.
func (c *Converter) BeatsToMeasures(b chart.Beat) chart.Measure {
	seg := findByBeat(c.tsSegs, b)
	return seg.startMeasure + chart.Measure(float64(b-seg.startBeat)/seg.beatsPerMeasure)
}

// MeasuresToBeats is the inverse of BeatsToMeasures.
func (c *Converter) MeasuresToBeats(m chart.Measure) chart.Beat {
	seg := findByMeasure(c.tsSegs, m)
	return seg.startBeat + chart.Beat(float64(m-seg.startMeasure)*seg.beatsPerMeasure)
}

// TickToBeat converts a Tick to a Beat using the converter's resolution.
func (c *Converter) TickToBeat(t chart.Tick) chart.Beat {
	return t.ToBeat(c.resolution)
}

// BeatToTick converts a Beat back to the nearest Tick.
func (c *Converter) BeatToTick(b chart.Beat) chart.Tick {
	return b.ToTick(c.resolution)
}

// Resolution returns the ticks-per-quarter-note this Converter was built
// with.
func (c *Converter) Resolution() int64 {
	return c.resolution
}
