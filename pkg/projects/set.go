package projects

import (
	"strings"
	"sync"

	"github.com/agentstation/halloffame/pkg/errors"
)

// Set is the working set of one run: an ordered, concurrency-safe collection
// of records keyed by ID. It is passed explicitly to every source so that a
// run has a single owner of its state.
type Set struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*Record
}

// NewSet creates a set holding the given records. Later duplicates of an ID
// are ignored.
func NewSet(records ...*Record) *Set {
	s := &Set{records: make(map[string]*Record, len(records))}
	for _, r := range records {
		_ = s.Add(r)
	}
	return s
}

// Get returns a record by id and whether it exists.
func (s *Set) Get(id string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	return r, ok
}

// Add adds a record, returning an error if its ID is already present.
func (s *Set) Add(r *Record) error {
	if r == nil {
		return &errors.ValidationError{Field: "record", Message: "cannot be nil"}
	}
	if r.ID == "" {
		return &errors.ValidationError{Field: "record.ID", Message: "cannot be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[r.ID]; exists {
		return errors.NewResourceError("add", "record", r.ID, errors.ErrAlreadyExists)
	}
	s.records[r.ID] = r
	s.order = append(s.order, r.ID)
	return nil
}

// FindByGitHub returns the record whose canonical source URL points at the
// GitHub project owner/repo, falling back to the record with that ID.
func (s *Set) FindByGitHub(project string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		r := s.records[id]
		if p, ok := GitHubProject(r.Source.String()); ok && strings.EqualFold(p, project) {
			return r, true
		}
	}
	r, ok := s.records[project]
	return r, ok
}

// List returns all records in insertion order.
func (s *Set) List() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// Valid returns the valid records in insertion order.
func (s *Set) Valid() []*Record {
	var out []*Record
	for _, r := range s.List() {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
