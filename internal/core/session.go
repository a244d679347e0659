package core

import (
	"time"

	"plugsetup/pkg/schema"
)

// Session represents one in-progress (or just-finished) configuration
// conversation for a target plugin. All fields except Mutations,
// CollectedValues and Completed are immutable after creation.
//
// Operations on a single session must be serialized by the caller; the
// conversational flow guarantees one request/response pair completes before
// the next is issued.
type Session struct {
	ID              string
	PluginID        string
	Schema          schema.ConfigSchema
	Mutations       []schema.Mutation
	CollectedValues map[string]schema.Value
	Completed       bool
	CreatedAt       time.Time
}

// NewSession creates a session for the given plugin and setup schema.
func NewSession(id, pluginID string, configSchema schema.ConfigSchema) *Session {
	return &Session{
		ID:              id,
		PluginID:        pluginID,
		Schema:          configSchema,
		Mutations:       make([]schema.Mutation, 0),
		CollectedValues: make(map[string]schema.Value),
		CreatedAt:       time.Now(),
	}
}

// AppendMutation records a reversible side effect at the end of the ledger.
// Insertion order defines LIFO rollback order.
func (s *Session) AppendMutation(m schema.Mutation) {
	s.Mutations = append(s.Mutations, m)
}

// RecordValue stores a successfully saved field value. Last write wins.
func (s *Session) RecordValue(key string, value schema.Value) {
	s.CollectedValues[key] = value
}

// CollectedFieldNames returns the names of fields configured so far, in
// schema order where declared, with any extra keys appended.
func (s *Session) CollectedFieldNames() []string {
	names := make([]string, 0, len(s.CollectedValues))
	seen := make(map[string]bool, len(s.CollectedValues))
	for _, f := range s.Schema.Fields {
		if _, ok := s.CollectedValues[f.Name]; ok {
			names = append(names, f.Name)
			seen[f.Name] = true
		}
	}
	for key := range s.CollectedValues {
		if !seen[key] {
			names = append(names, key)
		}
	}
	return names
}

// ClearLedger drops all recorded mutations and collected values. Only the
// rollback engine calls this, after every compensation has been attempted.
func (s *Session) ClearLedger() {
	s.Mutations = s.Mutations[:0]
	s.CollectedValues = make(map[string]schema.Value)
}
