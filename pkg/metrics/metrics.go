// Instruction generation counters
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

// Package metrics tracks generation activity as process-wide atomic
// counters and exposes them in Prometheus text format.
package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"earthpath/pkg/pool"
)

// Metrics holds the counters for one engine instance.
type Metrics struct {
	generations        atomic.Uint64
	layers             atomic.Uint64
	bytesEmitted       atomic.Uint64
	envelopeViolations atomic.Uint64
	failures           atomic.Uint64
}

var defaultMetrics = &Metrics{}

// Default returns the process-wide metrics instance.
func Default() *Metrics { return defaultMetrics }

// RecordGeneration records one completed generation.
func (m *Metrics) RecordGeneration(layers int, bytes int) {
	m.generations.Add(1)
	m.layers.Add(uint64(layers))
	m.bytesEmitted.Add(uint64(bytes))
}

// RecordViolations records envelope violations surfaced by a check.
func (m *Metrics) RecordViolations(n int) {
	if n > 0 {
		m.envelopeViolations.Add(uint64(n))
	}
}

// RecordFailure records a generation that returned an error.
func (m *Metrics) RecordFailure() { m.failures.Add(1) }

// Generations returns the completed generation count.
func (m *Metrics) Generations() uint64 { return m.generations.Load() }

// Render writes the counters in Prometheus text exposition format.
func (m *Metrics) Render() string {
	buf := pool.GetLineBuffer()
	defer pool.PutLineBuffer(buf)

	writeCounter(buf, "earthpath_generations_total",
		"Completed instruction generations.", m.generations.Load())
	writeCounter(buf, "earthpath_layers_total",
		"Layers planned across all generations.", m.layers.Load())
	writeCounter(buf, "earthpath_emitted_bytes_total",
		"Instruction bytes emitted.", m.bytesEmitted.Load())
	writeCounter(buf, "earthpath_envelope_violations_total",
		"Envelope violations reported by compatibility checks.", m.envelopeViolations.Load())
	writeCounter(buf, "earthpath_generation_failures_total",
		"Generations that returned an error.", m.failures.Load())

	return buf.String()
}

func writeCounter(buf *pool.LineBuffer, name, help string, value uint64) {
	buf.WriteString("# HELP " + name + " " + help + "\n")
	buf.WriteString("# TYPE " + name + " counter\n")
	buf.WriteString(fmt.Sprintf("%s %d\n", name, value))
}

// Handler serves the counters over HTTP for scrapers.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		fmt.Fprint(w, m.Render())
	})
}
