package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/halloffame"
	"github.com/agentstation/halloffame/pkg/constants"
)

// Compile-time interface check.
var _ Interface = (*Mock)(nil)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	CollectorFunc    func(...halloffame.Option) (halloffame.Collector, error)
	PathsFunc        func() Paths
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Collector returns a collector using the mock function or a default one.
func (m *Mock) Collector(opts ...halloffame.Option) (halloffame.Collector, error) {
	if m.CollectorFunc != nil {
		return m.CollectorFunc(opts...)
	}
	return halloffame.New(opts...)
}

// Paths returns paths using the mock function or the defaults.
func (m *Mock) Paths() Paths {
	if m.PathsFunc != nil {
		return m.PathsFunc()
	}
	return Paths{
		Cache:    constants.DefaultCacheFile,
		Store:    "yaml",
		Search:   constants.DefaultSearchConfigFile,
		Projects: constants.DefaultProjectsFile,
	}
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
