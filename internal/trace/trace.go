// Package trace records the steps a compile session executed.
//
// The trace is observational only: recording never affects which steps
// run or their outcome.
package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// SessionTrace is the ordered record of every step of every pass in one
// invocation.
//
// Events carry their own ordering keys (Pass, Seq); Canonicalize restores
// execution order regardless of the order events were collected in.
type SessionTrace struct {
	Session string  `json:"session"`
	Engine  string  `json:"engine"`
	Events  []Event `json:"events"`
}

// EventKind discriminates Event. The string values appear in trace files;
// do not rename.
type EventKind string

const (
	EventStepStarted   EventKind = "StepStarted"
	EventStepSucceeded EventKind = "StepSucceeded"
	EventStepFailed    EventKind = "StepFailed"
	EventStepSkipped   EventKind = "StepSkipped"
)

// Event is a single step transition.
type Event struct {
	Kind EventKind `json:"kind"`

	// Pass numbers compile passes within a session, starting at 1.
	Pass int `json:"pass"`

	// Seq is the step's position within its pass, starting at 0.
	Seq int `json:"seq"`

	// Step is the step kind (main engine, bibliography, index, asymptote).
	Step string `json:"step"`

	Program  string `json:"program,omitempty"`
	Argument string `json:"argument,omitempty"`
}

// Validate checks basic invariants and returns a descriptive error.
func (t *SessionTrace) Validate() error {
	if t == nil {
		return errors.New("trace is nil")
	}
	if t.Session == "" {
		return errors.New("session is required")
	}
	for i, e := range t.Events {
		if e.Kind == "" {
			return fmt.Errorf("events[%d].kind is required", i)
		}
		if e.Step == "" {
			return fmt.Errorf("events[%d].step is required for kind %q", i, e.Kind)
		}
		if e.Pass < 1 {
			return fmt.Errorf("events[%d].pass must be positive", i)
		}
	}
	return nil
}

// Canonicalize sorts events by (pass, seq, kind order).
func (t *SessionTrace) Canonicalize() {
	if t == nil {
		return
	}
	sort.SliceStable(t.Events, func(i, j int) bool {
		a, b := t.Events[i], t.Events[j]
		if a.Pass != b.Pass {
			return a.Pass < b.Pass
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return kindOrder(a.Kind) < kindOrder(b.Kind)
	})
}

func kindOrder(k EventKind) int {
	switch k {
	case EventStepStarted:
		return 10
	case EventStepSucceeded:
		return 20
	case EventStepFailed:
		return 30
	case EventStepSkipped:
		return 40
	default:
		return 1000
	}
}

// CanonicalJSON returns the canonical JSON encoding of the trace.
// It canonicalizes a copy so the caller's slice is left untouched.
func (t SessionTrace) CanonicalJSON() ([]byte, error) {
	cp := SessionTrace{Session: t.Session, Engine: t.Engine}
	cp.Events = make([]Event, len(t.Events))
	copy(cp.Events, t.Events)
	cp.Canonicalize()
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&cp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Hash returns the sha256 hex digest of the canonical JSON bytes.
func (t SessionTrace) Hash() (string, error) {
	b, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return ComputeTraceHash(b), nil
}

// WriteFile writes the canonical JSON encoding to path, replacing any
// previous file atomically.
func (t SessionTrace) WriteFile(path string) error {
	b, err := t.CanonicalJSON()
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write trace: %w", err)
	}
	return nil
}
