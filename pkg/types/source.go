//nolint:revive // Package types provides common type definitions
package types

import "slices"

// SourceID identifies one of the external sources a project can be found in.
type SourceID string

// String returns the string representation of a source ID.
func (id SourceID) String() string {
	return string(id)
}

// Source identifiers.
const (
	// GitHubID identifies the GitHub code search index used for discovery.
	GitHubID SourceID = "github"

	// ModrinthID identifies the Modrinth registry.
	ModrinthID SourceID = "modrinth"

	// CurseForgeID identifies the CurseForge registry.
	CurseForgeID SourceID = "curseforge"
)

// SourceIDs returns all source identifiers in their fixed merge order.
func SourceIDs() []SourceID {
	return []SourceID{
		GitHubID,
		ModrinthID,
		CurseForgeID,
	}
}

// IsValid returns true if this is a known source identifier.
func (id SourceID) IsValid() bool {
	return slices.Contains(SourceIDs(), id)
}
