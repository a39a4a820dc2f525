package reconciler

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/sources"
)

// Result represents the outcome of a reconciliation run.
type Result struct {
	// RunID identifies the run in logs and reports.
	RunID string

	// Records holds every record of the working set, including invalid
	// ones, for the next run's cache.
	Records []*projects.Record

	// Projects is the canonical output keyed by record ID. Only valid
	// records with fetched info appear here.
	Projects map[string]*projects.Info

	// Unresolved lists the record IDs each registry could not match.
	Unresolved map[sources.ID][]string

	// Discovery is nil when discovery did not run.
	Discovery *sources.DiscoveryReport

	// Errors holds the failures that were recovered during the run.
	Errors []error

	// Metadata
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the reconciliation process.
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Sources that took part, in merge order
	Sources []sources.ID

	Stats ResultStatistics
}

// ResultStatistics contains statistics about the reconciliation.
type ResultStatistics struct {
	Records    int
	Invalid    int
	Created    int
	Projects   int
	Unresolved int
}

// NewResult creates a new result with a fresh run ID.
func NewResult() *Result {
	return &Result{
		RunID:      uuid.NewString(),
		Projects:   make(map[string]*projects.Info),
		Unresolved: make(map[sources.ID][]string),
		Metadata: ResultMetadata{
			StartTime: time.Now(),
		},
	}
}

// IsSuccess returns true if nothing had to be recovered.
func (r *Result) IsSuccess() bool {
	return len(r.Errors) == 0
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	msg := fmt.Sprintf("Collected %d projects from %d records (%d invalid, %d unresolved lookups)",
		s.Projects, s.Records, s.Invalid, s.Unresolved)
	if !r.IsSuccess() {
		msg += fmt.Sprintf(", %d recovered errors", len(r.Errors))
	}
	return msg
}

// Finalize computes the statistics and the duration.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)

	stats := ResultStatistics{
		Records:  len(r.Records),
		Projects: len(r.Projects),
	}
	for _, rec := range r.Records {
		if !rec.Valid() {
			stats.Invalid++
		}
	}
	for _, ids := range r.Unresolved {
		stats.Unresolved += len(ids)
	}
	if r.Discovery != nil {
		stats.Created = len(r.Discovery.Created)
	}
	r.Metadata.Stats = stats
}
