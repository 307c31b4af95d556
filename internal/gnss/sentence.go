// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gnss

import (
	"fmt"
	"strconv"
	"strings"
)

// Checksum XORs every byte of sentence after the leading '$'.
// The result is what NMEA-0183 expects between '*' and the line end.
func Checksum(sentence string) byte {
	var cs byte
	for i := 1; i < len(sentence); i++ {
		cs ^= sentence[i]
	}
	return cs
}

// ChecksumHex renders Checksum as exactly two uppercase hex digits.
func ChecksumHex(sentence string) string {
	return fmt.Sprintf("%02X", Checksum(sentence))
}

// VerifyChecksum recomputes the checksum over the body between '$'
// and '*' and compares it against the trailing two hex digits.
func VerifyChecksum(sentence string) bool {
	if !strings.HasPrefix(sentence, "$") {
		return false
	}
	star := strings.LastIndexByte(sentence, '*')
	if star < 0 || len(sentence) < star+3 {
		return false
	}
	want := strings.ToUpper(sentence[star+1 : star+3])
	return ChecksumHex(sentence[:star]) == want
}

// Encode renders a sample as a GPRMC sentence:
//
//	$GPRMC,<hhmmss.ss>,A,<lat>,<N|S>,<lon>,<E|W>,<speed>,<course>,<ddmmyy>,<var>,<E|W>,A*<CS>
//
// The degree and minute parts of lat/lon are concatenated with no
// separator and the minute value is printed at its natural precision,
// not padded to the strict DDMM.MMMM shape. Consumers of this feed
// already depend on that layout, so it is kept as-is.
func Encode(s Sample) string {
	var b strings.Builder

	b.WriteString("$GPRMC,")
	b.WriteString(formatTime(s))
	b.WriteString(",")
	b.WriteString(s.Status)
	b.WriteString(",")
	b.WriteString(strconv.Itoa(s.LatDegrees))
	b.WriteString(formatMinutes(s.LatMinutes))
	b.WriteString(",")
	b.WriteString(s.LatDirection)
	b.WriteString(",")
	b.WriteString(strconv.Itoa(s.LonDegrees))
	b.WriteString(formatMinutes(s.LonMinutes))
	b.WriteString(",")
	b.WriteString(s.LonDirection)
	b.WriteString(",")
	b.WriteString(formatFixed(s.SpeedKnots))
	b.WriteString(",")
	b.WriteString(formatFixed(s.CourseDeg))
	b.WriteString(",")
	b.WriteString(formatDate(s))
	b.WriteString(",")
	b.WriteString(formatFixed(s.VariationDeg))
	b.WriteString(",")
	b.WriteString(s.VariationDirection)
	b.WriteString(",")
	b.WriteString(s.Mode)

	body := b.String()
	return body + "*" + ChecksumHex(body)
}

// formatTime renders HHMMSS.00 from the sample's UTC timestamp.
// Sub-second precision is always ".00"; the receivers this feed was
// built for ignore it.
func formatTime(s Sample) string {
	t := s.Time.UTC()
	return fmt.Sprintf("%02d%02d%02d.00", t.Hour(), t.Minute(), t.Second())
}

// formatDate renders DDMMYY from the sample's UTC timestamp.
func formatDate(s Sample) string {
	t := s.Time.UTC()
	return fmt.Sprintf("%02d%02d%02d", t.Day(), int(t.Month()), t.Year()%100)
}

// formatMinutes prints a minute value at its shortest round-trip
// precision, e.g. 30.5 -> "30.5".
func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

// formatFixed prints speed, course, and variation with one decimal,
// so a zero value comes out as the literal "0.0".
func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
