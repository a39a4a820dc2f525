// Package projects defines the project record model shared by every stage of
// a collection run: the provenance-tracked Record, the Info a source reports
// for a project, and the Set that holds one run's working records.
package projects
