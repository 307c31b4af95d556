package gnss

import (
	"testing"
	"time"
)

func TestValidatorPermissive(t *testing.T) {
	v := Validator{}

	cases := []struct {
		name string
		raw  string
		want bool
	}{
		{"full sentence", "$GPRMC,120000.00,A,4530.5,N,12015.25,W,0.0,0.0,011024,0.0,E,A*15", true},
		{"prefix only", "$GPRMC", true},
		{"prefix plus garbage", "$GPRMCnonsense", true},
		{"bad checksum still accepted", "$GPRMC,120000.00,A,4530.5,N,12015.25,W,0.0,0.0,011024,0.0,E,A*00", true},
		{"empty", "", false},
		{"other sentence type", "$GPGGA,120000.00,4530.5,N,12015.25,W,1,8,1.0,10.0,M,0.0,M,,*5C", false},
		{"missing dollar", "GPRMC,120000.00,A", false},
		{"lowercase talker", "$gprmc,120000.00,A", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := v.IsAcceptable(tc.raw); got != tc.want {
				t.Fatalf("IsAcceptable(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestValidatorStrict(t *testing.T) {
	v := Validator{Strict: true}

	// A freshly encoded sentence carries a correct checksum and a
	// parseable RMC field layout.
	sentence := Encode(Sample{
		Time:               time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC),
		LatDegrees:         45,
		LatMinutes:         30.5,
		LatDirection:       "N",
		LonDegrees:         120,
		LonMinutes:         15.25,
		LonDirection:       "W",
		VariationDirection: "E",
		Status:             "A",
		Mode:               "A",
	})
	if !v.IsAcceptable(sentence) {
		t.Fatalf("strict IsAcceptable(%q) = false, want true", sentence)
	}

	rejected := []struct {
		name string
		raw  string
	}{
		{"prefix only", "$GPRMC"},
		{"prefix plus garbage", "$GPRMCnonsense"},
		{"bad checksum", "$GPRMC,120000.00,A,4530.5,N,12015.25,W,0.0,0.0,011024,0.0,E,A*00"},
		{"empty", ""},
	}

	for _, tc := range rejected {
		t.Run(tc.name, func(t *testing.T) {
			if v.IsAcceptable(tc.raw) {
				t.Fatalf("strict IsAcceptable(%q) = true, want false", tc.raw)
			}
		})
	}
}
