package sources

import (
	"github.com/agentstation/halloffame/pkg/constants"
)

// ResolveOptions configures a resolver run.
type ResolveOptions struct {
	// Concurrency bounds the number of in-flight requests.
	Concurrency int
	// MaxCandidates caps the rejected candidates kept per record.
	MaxCandidates int
}

// ResolveOption is a function that configures ResolveOptions.
type ResolveOption func(*ResolveOptions)

func defaultResolveOptions() *ResolveOptions {
	return &ResolveOptions{
		Concurrency:   constants.MaxConcurrentRequests,
		MaxCandidates: constants.MaxReportedCandidates,
	}
}

// NewResolveOptions applies opts over the defaults.
func NewResolveOptions(opts ...ResolveOption) *ResolveOptions {
	o := defaultResolveOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithConcurrency bounds the fan-out. Values below one are ignored.
func WithConcurrency(n int) ResolveOption {
	return func(o *ResolveOptions) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithMaxCandidates caps the rejected candidates reported per record.
func WithMaxCandidates(n int) ResolveOption {
	return func(o *ResolveOptions) {
		if n >= 0 {
			o.MaxCandidates = n
		}
	}
}
