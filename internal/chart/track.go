package chart

// StarPowerPhrase is the half-open tick interval [Start, Start+Length)
// covering the notes that contribute to SP when the phrase is completed
// cleanly.
type StarPowerPhrase struct {
	Start  Tick
	Length Tick
}

// End is the phrase's exclusive end tick.
func (p StarPowerPhrase) End() Tick {
	return p.Start + p.Length
}

// Contains reports whether t lies in the phrase's half-open interval.
func (p StarPowerPhrase) Contains(t Tick) bool {
	return t >= p.Start && t < p.End()
}

// Solo is a tick interval awarding a fixed bonus if every note within it is
// hit. The bonus is applied externally to PointSet scoring, at the solo's
// end tick, per the Point Set Builder's design.
type Solo struct {
	Start Tick
	End   Tick
	Bonus int64
}

// DrumFill is a tick interval that gates drum SP activation.
type DrumFill struct {
	Start Tick
	End   Tick
}

// BPMEvent ties a tick to a tempo, expressed in micro-BPM (BPM * 1e6) to
// keep the SyncTrack free of floating point until a Converter is built.
type BPMEvent struct {
	Position Tick
	MicroBPM int64
}

// TimeSignatureEvent ties a tick to a time signature.
type TimeSignatureEvent struct {
	Position    Tick
	Numerator   int
	Denominator int
}

// SyncTrack holds the ordered BPM and time-signature events of a chart. A
// chart with no explicit event at tick 0 is treated as if it had an
// implicit 120 BPM, 4/4 event there; SyncTrack itself stores only the
// explicit events and a Converter fills in the implicit one.
type SyncTrack struct {
	BPMEvents           []BPMEvent
	TimeSignatureEvents []TimeSignatureEvent
}

// NoteTrack is one instrument/difficulty's notes plus its phrase, solo,
// and drum-fill annotations, and the resolution they are expressed in.
type NoteTrack struct {
	Notes            []Note
	StarPowerPhrases []StarPowerPhrase
	Solos            []Solo
	DrumFills        []DrumFill

	// HasBRE marks the presence of a big-rock-ending region; BRE is an
	// RB-only concept carried as a hook, never scored by the CH engine.
	HasBRE   bool
	BREStart Tick
	BREEnd   Tick

	// DiscoFlips hold tick positions where a drum disco-flip marker swaps
	// the snare/hihat lane mapping for downstream rendering. The core does
	// not interpret them; they are preserved for the renderer collaborator.
	DiscoFlips []Tick

	Resolution int64
}

// UnisonPhrase is a tick interval present, at the same start tick, in two
// or more instruments' NoteTracks. Song.UnisonPhrases is populated by
// whoever assembles a multi-instrument Song; within the core, a single
// NoteTrack carries no notion of unison by itself.
type UnisonPhrase struct {
	Start Tick
}

// Song bundles one instrument's NoteTrack with the SyncTrack it is played
// against and any cross-instrument unison annotations relevant to it. Song
// values are immutable once constructed; nothing in the core mutates them.
type Song struct {
	Track         NoteTrack
	Sync          SyncTrack
	UnisonPhrases []UnisonPhrase
}
