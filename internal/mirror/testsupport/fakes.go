package testsupport

import (
	"context"
	"strconv"

	"github.com/temirov/gh2fj/internal/hosting"
	"github.com/temirov/gh2fj/internal/mirror"
)

// SourceStub serves accounts and repositories from memory.
type SourceStub struct {
	Identity          string
	IdentityError     error
	Accounts          map[string]hosting.Account
	Organizations     map[string]hosting.Account
	OwnedRepositories map[string][]hosting.Repository
	ListingErrors     map[string]error
	IdentityRequests  int
	ListedOwners      []string
}

// AuthenticatedIdentity returns the configured identity or error.
func (source *SourceStub) AuthenticatedIdentity(context.Context) (string, error) {
	source.IdentityRequests++
	if source.IdentityError != nil {
		return "", source.IdentityError
	}
	return source.Identity, nil
}

// Account returns the configured user profile or a not-found error.
func (source *SourceStub) Account(_ context.Context, login string) (hosting.Account, error) {
	if account, exists := source.Accounts[login]; exists {
		return account, nil
	}
	return hosting.Account{}, NotFoundError("GetAccount")
}

// Organization returns the configured organization profile or a not-found error.
func (source *SourceStub) Organization(_ context.Context, login string) (hosting.Account, error) {
	if organization, exists := source.Organizations[login]; exists {
		return organization, nil
	}
	return hosting.Account{}, NotFoundError("GetOrganization")
}

// Repositories yields the configured repositories, then the configured listing error if any.
func (source *SourceStub) Repositories(_ context.Context, owner string, _ hosting.OwnerKind) hosting.RepositorySequence {
	source.ListedOwners = append(source.ListedOwners, owner)
	if listingError, failing := source.ListingErrors[owner]; failing {
		return FailingRepositories(listingError, source.OwnedRepositories[owner]...)
	}
	return hosting.RepositoriesOf(source.OwnedRepositories[owner]...)
}

// FailingRepositories builds a sequence that yields the provided repositories and then fails.
func FailingRepositories(failure error, repositories ...hosting.Repository) hosting.RepositorySequence {
	return func(yield func(hosting.Repository, error) bool) {
		for _, repository := range repositories {
			if !yield(repository, nil) {
				return
			}
		}
		yield(hosting.Repository{}, failure)
	}
}

// DestinationStub keeps destination state in memory and records every call.
type DestinationStub struct {
	ExistingAccounts      map[string]bool
	ExistingOrganizations map[string]bool
	ExistingRepositories  map[string]bool
	EnsureErrors          map[string]error
	MigrationFailures     map[string]string
	CreatedAccounts       []string
	CreatedOrganizations  []string
	MigrationRequests     []hosting.MigrationRequest
	CreatedMirrors        []string
}

// NewDestinationStub constructs an empty destination.
func NewDestinationStub() *DestinationStub {
	return &DestinationStub{
		ExistingAccounts:      map[string]bool{},
		ExistingOrganizations: map[string]bool{},
		ExistingRepositories:  map[string]bool{},
		EnsureErrors:          map[string]error{},
		MigrationFailures:     map[string]string{},
	}
}

// EnsureAccount creates the account when it is not yet present.
func (destination *DestinationStub) EnsureAccount(_ context.Context, account hosting.Account) (hosting.EnsureResult, error) {
	if ensureError, failing := destination.EnsureErrors[account.Login]; failing {
		return hosting.EnsureResult{}, ensureError
	}
	if destination.ExistingAccounts[account.Login] {
		return hosting.EnsureResult{}, nil
	}
	destination.ExistingAccounts[account.Login] = true
	destination.CreatedAccounts = append(destination.CreatedAccounts, account.Login)
	return hosting.EnsureResult{Created: true}, nil
}

// EnsureOrganization creates the organization when it is not yet present.
func (destination *DestinationStub) EnsureOrganization(_ context.Context, organization hosting.Account) (hosting.EnsureResult, error) {
	if ensureError, failing := destination.EnsureErrors[organization.Login]; failing {
		return hosting.EnsureResult{}, ensureError
	}
	if destination.ExistingOrganizations[organization.Login] {
		return hosting.EnsureResult{}, nil
	}
	destination.ExistingOrganizations[organization.Login] = true
	destination.CreatedOrganizations = append(destination.CreatedOrganizations, organization.Login)
	return hosting.EnsureResult{Created: true}, nil
}

// MigrateRepository creates the mirror when absent and reports updated otherwise.
func (destination *DestinationStub) MigrateRepository(_ context.Context, request hosting.MigrationRequest) hosting.MigrationResult {
	destination.MigrationRequests = append(destination.MigrationRequests, request)
	fullName := request.Owner + "/" + request.Name
	if message, failing := destination.MigrationFailures[fullName]; failing {
		return hosting.MigrationResult{Outcome: hosting.MigrationOutcomeTransientError, Message: message}
	}
	if destination.ExistingRepositories[fullName] {
		return hosting.MigrationResult{Outcome: hosting.MigrationOutcomeUpdated}
	}
	destination.ExistingRepositories[fullName] = true
	destination.CreatedMirrors = append(destination.CreatedMirrors, fullName)
	return hosting.MigrationResult{Outcome: hosting.MigrationOutcomeMigrated}
}

// RecordingReporter captures progress events as readable strings.
type RecordingReporter struct {
	Events    []string
	Completed []mirror.OwnerSummary
	Failed    []mirror.OwnerSummary
	Run       *mirror.RunSummary
}

// IdentityResolved records the identity event.
func (reporter *RecordingReporter) IdentityResolved(login string) {
	reporter.Events = append(reporter.Events, "identity:"+login)
}

// OwnerStarted records the owner start event.
func (reporter *RecordingReporter) OwnerStarted(owner string, kind hosting.OwnerKind) {
	reporter.Events = append(reporter.Events, "start:"+kind.String()+":"+owner)
}

// RepositoriesListing records the listing event.
func (reporter *RecordingReporter) RepositoriesListing(owner string) {
	reporter.Events = append(reporter.Events, "listing:"+owner)
}

// RepositoriesListed records the listed event.
func (reporter *RecordingReporter) RepositoriesListed(owner string, count int) {
	reporter.Events = append(reporter.Events, "listed:"+owner+":"+strconv.Itoa(count))
}

// RepositoryProcessed records repository progress.
func (reporter *RecordingReporter) RepositoryProcessed(summary mirror.OwnerSummary) {
	reporter.Events = append(reporter.Events, "repository:"+summary.Owner)
}

// OwnerCompleted records the completed owner summary.
func (reporter *RecordingReporter) OwnerCompleted(summary mirror.OwnerSummary) {
	reporter.Events = append(reporter.Events, "completed:"+summary.Owner)
	reporter.Completed = append(reporter.Completed, summary)
}

// OwnerFailed records the failed owner summary.
func (reporter *RecordingReporter) OwnerFailed(summary mirror.OwnerSummary) {
	reporter.Events = append(reporter.Events, "failed:"+summary.Owner)
	reporter.Failed = append(reporter.Failed, summary)
}

// RunCompleted records the final run summary.
func (reporter *RecordingReporter) RunCompleted(summary mirror.RunSummary) {
	reporter.Events = append(reporter.Events, "run-completed")
	reporter.Run = &summary
}

// NotFoundError builds a 404 operation error.
func NotFoundError(operation hosting.OperationName) error {
	return hosting.OperationError{Operation: operation, StatusCode: 404}
}
