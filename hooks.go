package halloffame

import (
	"sync"

	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/reconciler"
)

// Hook function types for collection events
type (
	// RecordAddedHook is called for a record that was not in the cache or overrides
	RecordAddedHook func(rec *projects.Record)

	// RecordInvalidatedHook is called for a record that became invalid during a run
	RecordInvalidatedHook func(rec *projects.Record)

	// ProjectCollectedHook is called for every project in the canonical output
	ProjectCollectedHook func(id string, info *projects.Info)
)

// hooks manages event callbacks for collection runs
type hooks struct {
	mu                  sync.RWMutex
	onRecordAdded       []RecordAddedHook
	onRecordInvalidated []RecordInvalidatedHook
	onProjectCollected  []ProjectCollectedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnRecordAdded registers a callback for new records
func (h *hooks) OnRecordAdded(fn RecordAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordAdded = append(h.onRecordAdded, fn)
}

// OnRecordInvalidated registers a callback for invalidated records
func (h *hooks) OnRecordInvalidated(fn RecordInvalidatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordInvalidated = append(h.onRecordInvalidated, fn)
}

// OnProjectCollected registers a callback for collected projects
func (h *hooks) OnProjectCollected(fn ProjectCollectedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onProjectCollected = append(h.onProjectCollected, fn)
}

// triggerRun compares the records known before the run with the result and
// triggers the matching hooks. before maps record IDs to their validity.
func (h *hooks) triggerRun(before map[string]bool, result *reconciler.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, rec := range result.Records {
		wasValid, existed := before[rec.ID]
		if !existed {
			for _, hook := range h.onRecordAdded {
				hook(rec)
			}
		}
		if (!existed || wasValid) && !rec.Valid() {
			for _, hook := range h.onRecordInvalidated {
				hook(rec)
			}
		}
	}

	for _, rec := range result.Records {
		if info, ok := result.Projects[rec.ID]; ok {
			for _, hook := range h.onProjectCollected {
				hook(rec.ID, info)
			}
		}
	}
}
