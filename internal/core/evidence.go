package core

import (
	"time"

	"github.com/google/uuid"
)

// Evidence is a single finding produced by a collector. Records are
// immutable once created; the ID is what opinions cite.
type Evidence struct {
	ID         string    `json:"id"`
	Goal       string    `json:"goal"`
	Found      bool      `json:"found"`
	Content    string    `json:"content,omitempty"`
	Location   string    `json:"location"`
	Rationale  string    `json:"rationale"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewEvidence creates a positive or negative evidence record with a fresh ID.
// Confidence is clamped into [0,1].
func NewEvidence(goal string, found bool, location, rationale string, confidence float64) Evidence {
	return Evidence{
		ID:         uuid.NewString(),
		Goal:       goal,
		Found:      found,
		Location:   location,
		Rationale:  rationale,
		Confidence: ClampConfidence(confidence),
		CreatedAt:  time.Now().UTC(),
	}
}

// MissingEvidence records that a goal could not be satisfied.
func MissingEvidence(goal, location, rationale string) Evidence {
	return NewEvidence(goal, false, location, rationale, 0)
}

// WithContent returns a copy of the record carrying the given content.
func (e Evidence) WithContent(content string) Evidence {
	e.Content = content
	return e
}

// ClampConfidence bounds a confidence value to [0,1].
func ClampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}

// EvidenceMap holds evidence buckets keyed by collector name. Keys keep
// the order in which they were merged so that flattening is stable.
type EvidenceMap struct {
	order   []string
	buckets map[string][]Evidence
}

// NewEvidenceMap creates an empty evidence map.
func NewEvidenceMap() *EvidenceMap {
	return &EvidenceMap{buckets: make(map[string][]Evidence)}
}

// Merge adds the records of one collector. Keys are disjoint: merging a
// collector name twice is a state error.
func (m *EvidenceMap) Merge(collector string, records []Evidence) error {
	if _, exists := m.buckets[collector]; exists {
		return ErrState(CodeDuplicateCollector, "evidence already merged for collector "+collector)
	}
	bucket := make([]Evidence, len(records))
	copy(bucket, records)
	m.order = append(m.order, collector)
	m.buckets[collector] = bucket
	return nil
}

// Collectors returns the collector names in merge order.
func (m *EvidenceMap) Collectors() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Bucket returns a copy of the records merged for a collector.
func (m *EvidenceMap) Bucket(collector string) []Evidence {
	records := m.buckets[collector]
	out := make([]Evidence, len(records))
	copy(out, records)
	return out
}

// Buckets returns a copy of all buckets keyed by collector.
func (m *EvidenceMap) Buckets() map[string][]Evidence {
	out := make(map[string][]Evidence, len(m.buckets))
	for k := range m.buckets {
		out[k] = m.Bucket(k)
	}
	return out
}

// Len returns the total number of records across all buckets.
func (m *EvidenceMap) Len() int {
	n := 0
	for _, records := range m.buckets {
		n += len(records)
	}
	return n
}

// Flatten returns every record ordered by collector merge order, then by
// the order within each bucket.
func (m *EvidenceMap) Flatten() []Evidence {
	out := make([]Evidence, 0, m.Len())
	for _, k := range m.order {
		out = append(out, m.buckets[k]...)
	}
	return out
}

// Index returns the records keyed by evidence ID.
func (m *EvidenceMap) Index() map[string]Evidence {
	idx := make(map[string]Evidence, m.Len())
	for _, records := range m.buckets {
		for _, e := range records {
			idx[e.ID] = e
		}
	}
	return idx
}
