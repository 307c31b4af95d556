package gnss

import (
	"strings"

	nmea "github.com/adrianmo/go-nmea"
)

const rmcPrefix = "$GPRMC"

// Validator decides whether a raw received string is an acceptable
// GPRMC sentence.
//
// The default (permissive) policy accepts any string starting with
// "$GPRMC", nothing more — that is the contract the existing feed
// consumers were built against. Strict additionally requires a full
// NMEA parse: checksum, field count, and RMC field ranges. Strict is
// meant for feeds from real receivers; the synthetic encoder's
// free-width minute field can trip a strict parse.
type Validator struct {
	Strict bool
}

// IsAcceptable reports whether raw should be ingested.
func (v Validator) IsAcceptable(raw string) bool {
	if !strings.HasPrefix(raw, rmcPrefix) {
		return false
	}
	if !v.Strict {
		return true
	}

	s, err := nmea.Parse(raw)
	if err != nil {
		return false
	}
	return s.DataType() == nmea.TypeRMC
}
