package gnss

import (
	"strings"
	"testing"
)

func TestRandomSourceRanges(t *testing.T) {
	src := NewRandomSource()

	for i := 0; i < 200; i++ {
		s, err := src.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}

		if s.LatDegrees < 0 || s.LatDegrees >= 90 {
			t.Fatalf("lat degrees %d out of [0,90)", s.LatDegrees)
		}
		if s.LatMinutes < 0 || s.LatMinutes >= 60 {
			t.Fatalf("lat minutes %v out of [0,60)", s.LatMinutes)
		}
		if s.LonDegrees < 0 || s.LonDegrees >= 180 {
			t.Fatalf("lon degrees %d out of [0,180)", s.LonDegrees)
		}
		if s.LonMinutes < 0 || s.LonMinutes >= 60 {
			t.Fatalf("lon minutes %v out of [0,60)", s.LonMinutes)
		}
		if s.LatDirection != "N" && s.LatDirection != "S" {
			t.Fatalf("lat direction %q", s.LatDirection)
		}
		if s.LonDirection != "E" && s.LonDirection != "W" {
			t.Fatalf("lon direction %q", s.LonDirection)
		}
		if s.VariationDirection != "E" && s.VariationDirection != "W" {
			t.Fatalf("variation direction %q", s.VariationDirection)
		}
		if s.SpeedKnots != 0 || s.CourseDeg != 0 || s.VariationDeg != 0 {
			t.Fatalf("synthetic source must emit zero speed/course/variation, got %+v", s)
		}
		if s.Status != "A" || s.Mode != "A" {
			t.Fatalf("synthetic source must emit a valid autonomous fix, got %+v", s)
		}
		if s.Time.Location().String() != "UTC" {
			t.Fatalf("sample time not UTC: %v", s.Time)
		}
	}
}

func TestRandomSourceEncodes(t *testing.T) {
	src := NewRandomSource()

	for i := 0; i < 50; i++ {
		s, err := src.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}

		sentence := Encode(s)
		if !strings.HasPrefix(sentence, "$GPRMC,") {
			t.Fatalf("encoded sentence %q missing prefix", sentence)
		}
		if !VerifyChecksum(sentence) {
			t.Fatalf("encoded sentence %q fails checksum verification", sentence)
		}
	}
}
