package store

import (
	"database/sql"
	"fmt"

	// tell sql to use sqlite
	_ "modernc.org/sqlite"
)

// Writer is the part of the store the ingest pipeline needs: append
// one raw sentence, get back its row id.
type Writer interface {
	Insert(rawSentence string) (int64, error)
}

// Store persists accepted GNSS sentences in a SQLite database. The
// table is append-only; nothing in this program updates or deletes
// rows.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the sentence database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS GNSS_DATA(
				ID INTEGER PRIMARY KEY AUTOINCREMENT,
				NMEA_DATA TEXT NOT NULL)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create GNSS_DATA table: %w", err)
	}

	return &Store{db: db}, nil
}

// Insert appends one sentence and returns the assigned id. The
// sentence is bound as a parameter; it is received off the wire and
// must never be spliced into the statement text.
func (s *Store) Insert(rawSentence string) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO GNSS_DATA (NMEA_DATA) VALUES (?)`, rawSentence)
	if err != nil {
		return 0, fmt.Errorf("insert sentence: %w", err)
	}
	return res.LastInsertId()
}

// Count returns the number of stored sentences.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM GNSS_DATA`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sentences: %w", err)
	}
	return n, nil
}

// Record is one stored sentence row.
type Record struct {
	ID       int64  `json:"id"`
	Sentence string `json:"sentence"`
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT ID, NMEA_DATA FROM GNSS_DATA ORDER BY ID DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent sentences: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Sentence); err != nil {
			return nil, fmt.Errorf("scan sentence row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
