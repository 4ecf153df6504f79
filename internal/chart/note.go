package chart

// Family identifies which fret layout a Colour belongs to. It is a closed
// set: every Colour value carries exactly one Family and an ordinal within
// it, never a dynamically dispatched type.
type Family uint8

const (
	FamilyFiveFret Family = iota
	FamilySixFretGHL
	FamilyDrum
)

// Colour is a note's fret/pad assignment. For FamilyDrum, Cymbal/Tom/Kick
// distinguish the pad; DoubleKick marks the second kick pedal lane used by
// two-kick-pedal charts.
type Colour struct {
	Family Family
	Lane   uint8 // ordinal within the family: 0=green/white1/kick, etc.

	Cymbal     bool
	Tom        bool
	Kick       bool
	DoubleKick bool
}

// NoteFlags carries rendering-relevant flags the core preserves but never
// scores on.
type NoteFlags struct {
	Tap         bool
	ForcedHOPO  bool
}

// Note is one note event: position, sustain length (0 for a non-sustain
// note), colour, and preserved-but-unscored flags.
type Note struct {
	Position Tick
	Length   Tick
	Colour   Colour
	Flags    NoteFlags
}

// End is the tick one past the note's sustain, i.e. Position+Length for a
// sustain and Position for a tap note.
func (n Note) End() Tick {
	return n.Position + n.Length
}

// IsSustain reports whether the note has positive length.
func (n Note) IsSustain() bool {
	return n.Length > 0
}
