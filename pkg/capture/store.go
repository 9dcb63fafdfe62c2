/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package capture implements the telemetry capture service: an OTLP sink
// that records every export batch it receives and answers queries about
// them, so tests can observe asynchronously exported telemetry.
package capture

import (
	"fmt"
	"sync"
)

// Signal identifies a telemetry signal kind.
type Signal int

const (
	SignalTraces Signal = iota
	SignalMetrics
	SignalLogs
)

func (s Signal) String() string {
	switch s {
	case SignalTraces:
		return "traces"
	case SignalMetrics:
		return "metrics"
	case SignalLogs:
		return "logs"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// Store holds the captured export batches, one append-only log per signal
// kind. Each log is synchronized independently so trace and metric traffic
// never serialize against each other. A Store is an explicit instance, not
// process state: multiple capture services can coexist in one test binary.
type Store struct {
	traces  signalLog
	metrics signalLog
	logs    signalLog
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) log(kind Signal) *signalLog {
	switch kind {
	case SignalTraces:
		return &s.traces
	case SignalMetrics:
		return &s.metrics
	case SignalLogs:
		return &s.logs
	default:
		panic(fmt.Sprintf("unknown signal kind %d", int(kind)))
	}
}

// Append records one serialized export batch for the given signal kind.
func (s *Store) Append(kind Signal, batch []byte) {
	s.log(kind).append(batch)
}

// Snapshot returns a copy of the batch log for the given signal kind, in
// insertion order. Callers must treat the batch contents as read-only.
func (s *Store) Snapshot(kind Signal) [][]byte {
	return s.log(kind).snapshot()
}

// Len returns the number of captured batches for the given signal kind.
func (s *Store) Len(kind Signal) int {
	return s.log(kind).len()
}

// Clear empties every signal log. The per-log critical sections are taken in
// a fixed order.
func (s *Store) Clear() {
	s.traces.clear()
	s.metrics.clear()
	s.logs.clear()
}

// signalLog is the synchronized append-only log backing one signal kind.
type signalLog struct {
	mu      sync.RWMutex
	batches [][]byte
}

func (l *signalLog) append(batch []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.batches = append(l.batches, batch)
}

func (l *signalLog) snapshot() [][]byte {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([][]byte, len(l.batches))
	copy(out, l.batches)

	return out
}

func (l *signalLog) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.batches)
}

func (l *signalLog) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.batches = nil
}
