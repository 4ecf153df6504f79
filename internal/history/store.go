// Package history caches optimiser results keyed by the digest of the
// NoteTrack they were computed from, so re-running the optimiser on an
// unchanged chart and engine can skip the search entirely.
package history

import (
	"database/sql"
	"encoding/json"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"starpower/internal/chart"
	"starpower/internal/engine"
	"starpower/internal/optimiser"
)

// Store is a SQLite-backed cache of optimisation runs.
type Store struct {
	db *sql.DB
}

// Record is one cached run, keyed by chart digest and engine variant.
type Record struct {
	Digest  string
	Variant engine.Variant
	Path    optimiser.Path
}

type activationRow struct {
	StartIndex int     `json:"start_index"`
	EndIndex   int     `json:"end_index"`
	Engage     float64 `json:"engage_beat"`
	End        float64 `json:"end_beat"`
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	const initStatement = `
	create table if not exists runs (
		digest text not null,
		variant integer not null,
		score integer not null,
		activations bytearray not null,
		primary key (digest, variant)
	);
	`
	if _, err := db.Exec(initStatement); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save persists path for a (digest, variant) pair, overwriting any prior run.
func (s *Store) Save(digest string, variant engine.Variant, path optimiser.Path) {
	rows := make([]activationRow, len(path.Activations))
	for i, a := range path.Activations {
		rows[i] = activationRow{
			StartIndex: a.StartIndex,
			EndIndex:   a.EndIndex,
			Engage:     float64(a.EngageBeat),
			End:        float64(a.EndBeat),
		}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		log.Println("history: unable to marshal activations", err)
		return
	}
	_, err = s.db.Exec(
		"insert or replace into runs(digest, variant, score, activations) values(?, ?, ?, ?)",
		digest, uint8(variant), path.Score, data,
	)
	if err != nil {
		log.Println("history: unable to save run", err)
	}
}

// Load returns a previously cached run, and whether one was found.
func (s *Store) Load(digest string, variant engine.Variant) (optimiser.Path, bool) {
	var score int64
	var data []byte
	row := s.db.QueryRow("select score, activations from runs where digest = ? and variant = ?", digest, uint8(variant))
	if err := row.Scan(&score, &data); err != nil {
		if err != sql.ErrNoRows {
			log.Println("history: unable to load run", err)
		}
		return optimiser.Path{}, false
	}
	var rows []activationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		log.Println("history: unable to unmarshal activations", err)
		return optimiser.Path{}, false
	}
	path := optimiser.Path{Score: score}
	for _, r := range rows {
		path.Activations = append(path.Activations, optimiser.Activation{
			StartIndex: r.StartIndex,
			EndIndex:   r.EndIndex,
			EngageBeat: chart.Beat(r.Engage),
			EndBeat:    chart.Beat(r.End),
		})
	}
	return path, true
}
