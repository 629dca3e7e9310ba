// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldFlavor   = "flavor"
	FieldJobs     = "jobs"
	FieldCapacity = "capacity"
	FieldEnabled  = "enabled"

	// Snapshot and cache fields.
	FieldBuffer   = "buffer"
	FieldVersion  = "version"
	FieldDuration = "duration"
	FieldEntries  = "entries"

	// Link validation fields.
	FieldURL    = "url"
	FieldTarget = "target"
	FieldLine   = "line"

	// Continuation fields.
	FieldAction = "action"
	FieldCaret  = "caret"

	// Watch fields.
	FieldEvent = "event"
	FieldAddr  = "addr"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesWithIssues = "files_with_issues"
	FieldErrorsTotal     = "errors_total"

	// Build fields.
	FieldCommit = "commit"
	FieldBuilt  = "built"
)
