package reconciler

import (
	"github.com/agentstation/halloffame/pkg/constants"
	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/sources"
)

// options configures a reconciler.
type options struct {
	discovery   sources.Discoverer
	registries  []sources.Registry
	concurrency int
}

func defaultOptions() *options {
	return &options{
		concurrency: constants.MaxConcurrentRequests,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithDiscovery sets the discovery source run before the registries.
func WithDiscovery(d sources.Discoverer) Option {
	return func(o *options) error {
		if d == nil {
			return &errors.ValidationError{
				Field:   "discovery",
				Message: "cannot be nil",
			}
		}
		o.discovery = d
		return nil
	}
}

// WithRegistries sets the registries. Their order is the merge order:
// the first registry wins title, description, icon and URL ties.
func WithRegistries(regs ...sources.Registry) Option {
	return func(o *options) error {
		seen := make(map[sources.ID]bool, len(regs))
		for _, reg := range regs {
			if reg == nil {
				return &errors.ValidationError{
					Field:   "registries",
					Message: "cannot contain nil",
				}
			}
			if seen[reg.ID()] {
				return &errors.ValidationError{
					Field:   "registries",
					Value:   string(reg.ID()),
					Message: "duplicate registry",
				}
			}
			seen[reg.ID()] = true
		}
		o.registries = regs
		return nil
	}
}

// WithConcurrency bounds the in-flight requests of each registry.
func WithConcurrency(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return &errors.ValidationError{
				Field:   "concurrency",
				Value:   n,
				Message: "must be at least 1",
			}
		}
		o.concurrency = n
		return nil
	}
}
