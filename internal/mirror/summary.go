package mirror

import (
	"github.com/temirov/gh2fj/internal/hosting"
)

// OwnerSummary aggregates the repository outcomes of a single owner.
type OwnerSummary struct {
	Owner    string
	Kind     hosting.OwnerKind
	Migrated int
	Existing int
	Errors   []string
	Total    int
	// Failure is set when the owner could not be processed at all.
	Failure error
}

// ErrorCount returns the number of repositories that failed.
func (summary OwnerSummary) ErrorCount() int {
	return len(summary.Errors)
}

// Failed reports whether processing of the owner was aborted.
func (summary OwnerSummary) Failed() bool {
	return summary.Failure != nil
}

func (summary *OwnerSummary) record(repository hosting.Repository, result hosting.MigrationResult) {
	summary.Total++
	switch {
	case result.Outcome == hosting.MigrationOutcomeMigrated:
		summary.Migrated++
	case result.Outcome == hosting.MigrationOutcomeUpdated:
		summary.Existing++
	case result.Outcome.IsError():
		summary.Errors = append(summary.Errors, repository.Name+": "+result.Message)
	}
}

// RunSummary aggregates a complete synchronization run.
type RunSummary struct {
	RunID    string
	Identity string
	Owners   []OwnerSummary
}

// RunTotals sums the per-owner counters of a run.
type RunTotals struct {
	Migrated     int
	Existing     int
	Errors       int
	Total        int
	FailedOwners int
}

// Totals sums counters across every owner.
func (summary RunSummary) Totals() RunTotals {
	totals := RunTotals{}
	for _, owner := range summary.Owners {
		totals.Migrated += owner.Migrated
		totals.Existing += owner.Existing
		totals.Errors += owner.ErrorCount()
		totals.Total += owner.Total
		if owner.Failed() {
			totals.FailedOwners++
		}
	}
	return totals
}
