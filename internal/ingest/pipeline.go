// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ingest

import (
	"log"

	"github.com/relabs-tech/gnss_telemetry/internal/gnss"
	"github.com/relabs-tech/gnss_telemetry/internal/store"
)

// Pipeline runs one received message through validation and, on
// acceptance, into the store. One accepted message produces exactly
// one stored record; rejected messages and failed inserts are logged
// and dropped, never retried.
type Pipeline struct {
	validator gnss.Validator
	store     store.Writer
}

// New builds a pipeline from a validation policy and a sentence sink.
func New(v gnss.Validator, w store.Writer) *Pipeline {
	return &Pipeline{validator: v, store: w}
}

// Ingest processes one raw message and reports whether it was stored.
func (p *Pipeline) Ingest(raw string) bool {
	log.Printf("receiver: GNSS data received: %s", raw)

	if !p.validator.IsAcceptable(raw) {
		log.Printf("receiver: invalid NMEA data, dropping")
		return false
	}
	log.Printf("receiver: valid NMEA data")

	id, err := p.store.Insert(raw)
	if err != nil {
		log.Printf("receiver: store error, dropping message: %v", err)
		return false
	}
	log.Printf("receiver: stored sentence with id %d", id)
	return true
}

// Offer enqueues raw without blocking, evicting the oldest pending
// message when the queue is full. It returns false when an eviction
// happened. The MQTT delivery callback calls this, so it must never
// block on a slow store.
func Offer(queue chan string, raw string) bool {
	select {
	case queue <- raw:
		return true
	default:
	}

	// Full: drop the oldest entry and retry once. Another enqueue can
	// win the freed slot; the message is dropped in that case, which
	// is within the at-most-once contract of the feed.
	select {
	case <-queue:
	default:
	}
	select {
	case queue <- raw:
	default:
	}
	return false
}
