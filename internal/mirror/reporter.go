package mirror

import (
	"github.com/temirov/gh2fj/internal/hosting"
)

// ProgressReporter receives human-facing progress events from a run.
type ProgressReporter interface {
	IdentityResolved(login string)
	OwnerStarted(owner string, kind hosting.OwnerKind)
	RepositoriesListing(owner string)
	RepositoriesListed(owner string, count int)
	RepositoryProcessed(summary OwnerSummary)
	OwnerCompleted(summary OwnerSummary)
	OwnerFailed(summary OwnerSummary)
	RunCompleted(summary RunSummary)
}

type silentReporter struct{}

func (silentReporter) IdentityResolved(string) {}
func (silentReporter) OwnerStarted(string, hosting.OwnerKind) {}
func (silentReporter) RepositoriesListing(string) {}
func (silentReporter) RepositoriesListed(string, int) {}
func (silentReporter) RepositoryProcessed(OwnerSummary) {}
func (silentReporter) OwnerCompleted(OwnerSummary) {}
func (silentReporter) OwnerFailed(OwnerSummary) {}
func (silentReporter) RunCompleted(RunSummary) {}
