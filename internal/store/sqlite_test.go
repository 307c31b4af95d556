package store

import (
	"path/filepath"
	"testing"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "gnss_data.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndCount(t *testing.T) {
	s := openTempStore(t)

	sentences := []string{
		"$GPRMC,120000.00,A,4530.5,N,12015.25,W,0.0,0.0,011024,0.0,E,A*15",
		"$GPRMC,120002.00,A,1212.25,S,8805.5,E,0.0,0.0,011024,0.0,W,A*2A",
	}

	var lastID int64
	for _, raw := range sentences {
		id, err := s.Insert(raw)
		if err != nil {
			t.Fatalf("Insert(%q) error: %v", raw, err)
		}
		if id <= lastID {
			t.Fatalf("id %d not increasing (previous %d)", id, lastID)
		}
		lastID = id
	}

	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != int64(len(sentences)) {
		t.Fatalf("Count() = %d, want %d", n, len(sentences))
	}
}

func TestRecentNewestFirst(t *testing.T) {
	s := openTempStore(t)

	for _, raw := range []string{"first", "second", "third"} {
		if _, err := s.Insert(raw); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	records, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Recent(2) returned %d records", len(records))
	}
	if records[0].Sentence != "third" || records[1].Sentence != "second" {
		t.Fatalf("Recent(2) = %+v, want newest first", records)
	}
}

func TestInsertHostileInput(t *testing.T) {
	s := openTempStore(t)

	// The sentence comes off the wire; quotes and SQL in the payload
	// must land in the table verbatim.
	hostile := `$GPRMC,'); DROP TABLE GNSS_DATA;--`
	if _, err := s.Insert(hostile); err != nil {
		t.Fatalf("Insert(%q) error: %v", hostile, err)
	}

	records, err := s.Recent(1)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(records) != 1 || records[0].Sentence != hostile {
		t.Fatalf("stored %+v, want the hostile payload verbatim", records)
	}

	if n, err := s.Count(); err != nil || n != 1 {
		t.Fatalf("Count() = %d, %v after hostile insert", n, err)
	}
}
