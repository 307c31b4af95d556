// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gnss

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"
)

type serialSource struct {
	port   io.ReadCloser
	reader *bufio.Reader
}

// NewSerialSource opens a GNSS receiver on the given serial port and
// returns a Source that yields one Sample per RMC sentence read from
// it. Non-RMC sentences and lines that fail a checksum-verified parse
// are skipped.
func NewSerialSource(portName string, baudRate int) (Source, error) {
	opts := serial.OpenOptions{
		PortName:        portName,
		BaudRate:        uint(baudRate),
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open GNSS serial port %s: %w", portName, err)
	}

	return &serialSource{port: port, reader: bufio.NewReader(port)}, nil
}

func (s *serialSource) Next() (Sample, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return Sample{}, fmt.Errorf("GNSS serial read: %w", err)
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "$") || !VerifyChecksum(line) {
			continue
		}

		parsed, err := nmea.Parse(line)
		if err != nil {
			// noisy receiver or partial sentence; try the next line
			continue
		}
		if parsed.DataType() != nmea.TypeRMC {
			continue
		}

		return sampleFromRMC(parsed.(nmea.RMC)), nil
	}
}

func (s *serialSource) Close() error {
	return s.port.Close()
}

// sampleFromRMC converts the library's decimal-degree fix back into
// the degree/minute split the wire format wants.
func sampleFromRMC(m nmea.RMC) Sample {
	latDeg, latMin := SplitDegrees(math.Abs(m.Latitude))
	lonDeg, lonMin := SplitDegrees(math.Abs(m.Longitude))

	smp := Sample{
		Time: time.Date(2000+m.Date.YY, time.Month(m.Date.MM), m.Date.DD,
			m.Time.Hour, m.Time.Minute, m.Time.Second, 0, time.UTC),
		LatDegrees:         latDeg,
		LatMinutes:         latMin,
		LatDirection:       "N",
		LonDegrees:         lonDeg,
		LonMinutes:         lonMin,
		LonDirection:       "E",
		SpeedKnots:         m.Speed,
		CourseDeg:          m.Course,
		VariationDeg:       math.Abs(m.Variation),
		VariationDirection: "E",
		Status:             string(m.Validity),
		Mode:               "A",
	}

	if m.Latitude < 0 {
		smp.LatDirection = "S"
	}
	if m.Longitude < 0 {
		smp.LonDirection = "W"
	}
	if m.Variation < 0 {
		smp.VariationDirection = "W"
	}

	return smp
}
