package chart

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
)

// Digest returns a stable identifier for a NoteTrack's notes and SP
// phrases. It exists only for the run-history cache (internal/history);
// the pure core never hashes its inputs. Mirrors the teacher's
// DefaultScorer.hashChart, generalised from hashing a chart's raw note-field
// text to hashing the binary-encoded note/phrase slices so that two
// structurally identical NoteTracks parsed from different file formats
// still digest to the same key.
func (t NoteTrack) Digest() string {
	h := sha256.New()
	var buf [8]byte

	put := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	put(t.Resolution)
	for _, n := range t.Notes {
		put(int64(n.Position))
		put(int64(n.Length))
		put(int64(n.Colour.Family))
		put(int64(n.Colour.Lane))
	}
	for _, p := range t.StarPowerPhrases {
		put(int64(p.Start))
		put(int64(p.Length))
	}

	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
