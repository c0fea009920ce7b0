package mirror_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/gh2fj/internal/hosting"
	"github.com/temirov/gh2fj/internal/mirror"
	"github.com/temirov/gh2fj/internal/mirror/testsupport"
)

const (
	testIdentityConstant         = "octocat"
	testSourceTokenConstant      = "source-token"
	testDestinationURLConstant   = "https://forgejo.example.com"
	testDestinationTokenConstant = "destination-token"
	testRunIDConstant            = "run-1234"
)

func repositoryFixture(owner string, name string) hosting.Repository {
	return hosting.Repository{
		Name:        name,
		FullName:    owner + "/" + name,
		Description: name + " description",
		CloneURL:    "https://github.com/" + owner + "/" + name + ".git",
		OwnerLogin:  owner,
	}
}

func newSourceStub() *testsupport.SourceStub {
	return &testsupport.SourceStub{
		Identity: testIdentityConstant,
		Accounts: map[string]hosting.Account{
			"alice": {Login: "alice"},
			"bob":   {Login: "bob"},
			"carol": {Login: "carol"},
		},
		Organizations: map[string]hosting.Account{
			"acme": {Login: "acme"},
		},
		OwnedRepositories: map[string][]hosting.Repository{
			"alice": {repositoryFixture("alice", "one"), repositoryFixture("alice", "two")},
			"bob":   {repositoryFixture("bob", "three")},
			"carol": {repositoryFixture("carol", "four")},
			"acme":  {repositoryFixture("acme", "widgets")},
		},
		ListingErrors: map[string]error{},
	}
}

func baseRunOptions() mirror.RunOptions {
	return mirror.RunOptions{
		RunID:            testRunIDConstant,
		SourceToken:      testSourceTokenConstant,
		DestinationURL:   testDestinationURLConstant,
		DestinationToken: testDestinationTokenConstant,
	}
}

func newService(testInstance *testing.T, logger *zap.Logger, source mirror.SourceRepository, destination mirror.DestinationRepository, reporter mirror.ProgressReporter) *mirror.Service {
	service, creationError := mirror.NewService(mirror.ServiceDependencies{
		Logger:      logger,
		Source:      source,
		Destination: destination,
		Reporter:    reporter,
	})
	require.NoError(testInstance, creationError)
	return service
}

func TestNewServiceRequiresCollaborators(testInstance *testing.T) {
	_, missingSourceError := mirror.NewService(mirror.ServiceDependencies{Destination: testsupport.NewDestinationStub()})
	require.Error(testInstance, missingSourceError)

	_, missingDestinationError := mirror.NewService(mirror.ServiceDependencies{Source: newSourceStub()})
	require.Error(testInstance, missingDestinationError)
}

func TestRunRejectsMissingRequiredSettings(testInstance *testing.T) {
	testCases := []struct {
		name              string
		mutate            func(options *mirror.RunOptions)
		expectedFieldName string
	}{
		{name: "source token", mutate: func(options *mirror.RunOptions) { options.SourceToken = " " }, expectedFieldName: "github.token"},
		{name: "destination url", mutate: func(options *mirror.RunOptions) { options.DestinationURL = "" }, expectedFieldName: "forgejo.url"},
		{name: "destination token", mutate: func(options *mirror.RunOptions) { options.DestinationToken = "" }, expectedFieldName: "forgejo.token"},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			source := newSourceStub()
			service := newService(subTest, nil, source, testsupport.NewDestinationStub(), nil)

			options := baseRunOptions()
			testCase.mutate(&options)

			_, runError := service.Run(context.Background(), options)

			var configurationError mirror.ConfigurationError
			require.ErrorAs(subTest, runError, &configurationError)
			require.Equal(subTest, testCase.expectedFieldName, configurationError.FieldName)
			require.Zero(subTest, source.IdentityRequests)
		})
	}
}

func TestRunAbortsWhenAuthenticationFails(testInstance *testing.T) {
	source := newSourceStub()
	source.IdentityError = hosting.AuthenticationError{Cause: errors.New("bad credentials")}
	destination := testsupport.NewDestinationStub()
	reporter := &testsupport.RecordingReporter{}
	service := newService(testInstance, nil, source, destination, reporter)

	options := baseRunOptions()
	options.Users = []string{"alice"}
	_, runError := service.Run(context.Background(), options)

	require.Error(testInstance, runError)
	require.True(testInstance, hosting.IsAuthenticationFailure(runError))
	require.Empty(testInstance, reporter.Events)
	require.Empty(testInstance, destination.MigrationRequests)
}

func TestRunWithoutOwnersReportsIdentityOnly(testInstance *testing.T) {
	reporter := &testsupport.RecordingReporter{}
	service := newService(testInstance, nil, newSourceStub(), testsupport.NewDestinationStub(), reporter)

	summary, runError := service.Run(context.Background(), baseRunOptions())
	require.NoError(testInstance, runError)

	require.Equal(testInstance, testIdentityConstant, summary.Identity)
	require.Equal(testInstance, testRunIDConstant, summary.RunID)
	require.Empty(testInstance, summary.Owners)
	require.Equal(testInstance, []string{"identity:" + testIdentityConstant, "run-completed"}, reporter.Events)
}

func TestRunGeneratesRunIdentifier(testInstance *testing.T) {
	service := newService(testInstance, nil, newSourceStub(), testsupport.NewDestinationStub(), nil)

	options := baseRunOptions()
	options.RunID = ""
	summary, runError := service.Run(context.Background(), options)
	require.NoError(testInstance, runError)
	require.Len(testInstance, summary.RunID, 36)
}

func TestRunIsolatesUserFailures(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.DebugLevel)
	source := newSourceStub()
	source.ListingErrors["bob"] = hosting.OperationError{Operation: "ListRepositories", StatusCode: 502}
	destination := testsupport.NewDestinationStub()
	reporter := &testsupport.RecordingReporter{}
	service := newService(testInstance, zap.New(observedCore), source, destination, reporter)

	options := baseRunOptions()
	options.Users = []string{"alice", "bob", "carol"}
	summary, runError := service.Run(context.Background(), options)
	require.NoError(testInstance, runError)

	require.Len(testInstance, summary.Owners, 3)
	require.False(testInstance, summary.Owners[0].Failed())
	require.True(testInstance, summary.Owners[1].Failed())
	require.False(testInstance, summary.Owners[2].Failed())
	require.Equal(testInstance, 2, summary.Owners[0].Migrated)
	require.Equal(testInstance, 1, summary.Owners[2].Migrated)
	require.Equal(testInstance, mirror.RunTotals{Migrated: 3, Total: 3, FailedOwners: 1}, summary.Totals())

	require.Len(testInstance, reporter.Completed, 2)
	require.Len(testInstance, reporter.Failed, 1)
	require.Equal(testInstance, "bob", reporter.Failed[0].Owner)
	require.Equal(testInstance, []string{"alice/one", "alice/two", "carol/four"}, destination.CreatedMirrors)

	failureEntries := observedLogs.FilterMessage("Failed to process user").All()
	require.Len(testInstance, failureEntries, 1)
	require.Equal(testInstance, zapcore.ErrorLevel, failureEntries[0].Level)
	require.Equal(testInstance, "bob", failureEntries[0].ContextMap()["owner"])
	require.Equal(testInstance, testRunIDConstant, failureEntries[0].ContextMap()["run_id"])
}

func TestRunSkipsFailingOrganizations(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.DebugLevel)
	source := newSourceStub()
	destination := testsupport.NewDestinationStub()
	destination.EnsureErrors["ghost-org"] = errors.New("forbidden")
	source.Organizations["ghost-org"] = hosting.Account{Login: "ghost-org"}
	reporter := &testsupport.RecordingReporter{}
	service := newService(testInstance, zap.New(observedCore), source, destination, reporter)

	options := baseRunOptions()
	options.Organizations = []string{"ghost-org", "acme"}
	summary, runError := service.Run(context.Background(), options)
	require.NoError(testInstance, runError)

	require.Len(testInstance, summary.Owners, 2)
	require.EqualError(testInstance, summary.Owners[0].Failure, "forbidden")
	require.Equal(testInstance, hosting.OrganizationOwnerKind, summary.Owners[0].Kind)
	require.Equal(testInstance, []string{"acme"}, source.ListedOwners)

	skipEntries := observedLogs.FilterMessage("Skipping organization").All()
	require.Len(testInstance, skipEntries, 1)
	require.Equal(testInstance, zapcore.WarnLevel, skipEntries[0].Level)
	require.Empty(testInstance, observedLogs.FilterMessage("Failed to process user").All())
}

func TestRunTreatsMissingSourceAccountAsOwnerFailure(testInstance *testing.T) {
	destination := testsupport.NewDestinationStub()
	service := newService(testInstance, nil, newSourceStub(), destination, nil)

	options := baseRunOptions()
	options.Users = []string{"nobody"}
	summary, runError := service.Run(context.Background(), options)
	require.NoError(testInstance, runError)

	require.Len(testInstance, summary.Owners, 1)
	require.True(testInstance, hosting.IsNotFound(summary.Owners[0].Failure))
	require.Empty(testInstance, destination.CreatedAccounts)
}

func TestRunMigratesOrganizationRepositoriesUnderOverrideOwner(testInstance *testing.T) {
	destination := testsupport.NewDestinationStub()
	service := newService(testInstance, nil, newSourceStub(), destination, nil)

	options := baseRunOptions()
	options.Users = []string{"alice"}
	options.Organizations = []string{"acme"}
	options.OrganizationOwner = "mirrors"
	_, runError := service.Run(context.Background(), options)
	require.NoError(testInstance, runError)

	require.Equal(testInstance, []string{"alice/one", "alice/two", "mirrors/widgets"}, destination.CreatedMirrors)
	require.Equal(testInstance, []string{"acme"}, destination.CreatedOrganizations)
	for _, request := range destination.MigrationRequests {
		require.Equal(testInstance, testSourceTokenConstant, request.AuthToken)
	}
	require.Equal(testInstance, "https://github.com/acme/widgets.git", destination.MigrationRequests[2].CloneURL)
	require.Equal(testInstance, "widgets description", destination.MigrationRequests[2].Description)
}

func TestRunCountsRepositoryErrors(testInstance *testing.T) {
	destination := testsupport.NewDestinationStub()
	destination.ExistingRepositories["alice/one"] = true
	destination.MigrationFailures["alice/two"] = "patch failed: boom"
	service := newService(testInstance, nil, newSourceStub(), destination, nil)

	options := baseRunOptions()
	options.Users = []string{"alice"}
	summary, runError := service.Run(context.Background(), options)
	require.NoError(testInstance, runError)

	ownerSummary := summary.Owners[0]
	require.False(testInstance, ownerSummary.Failed())
	require.Equal(testInstance, 0, ownerSummary.Migrated)
	require.Equal(testInstance, 1, ownerSummary.Existing)
	require.Equal(testInstance, []string{"two: patch failed: boom"}, ownerSummary.Errors)
	require.Equal(testInstance, 2, ownerSummary.Total)

	totals := summary.Totals()
	require.Equal(testInstance, mirror.RunTotals{Existing: 1, Errors: 1, Total: 2}, totals)
}

func TestRunIsIdempotent(testInstance *testing.T) {
	source := newSourceStub()
	destination := testsupport.NewDestinationStub()
	service := newService(testInstance, nil, source, destination, nil)

	options := baseRunOptions()
	options.Users = []string{"alice"}
	options.Organizations = []string{"acme"}

	firstSummary, firstError := service.Run(context.Background(), options)
	require.NoError(testInstance, firstError)
	require.Equal(testInstance, 3, firstSummary.Totals().Migrated)

	secondSummary, secondError := service.Run(context.Background(), options)
	require.NoError(testInstance, secondError)
	require.Equal(testInstance, mirror.RunTotals{Existing: 3, Total: 3}, secondSummary.Totals())

	require.Equal(testInstance, []string{"alice"}, destination.CreatedAccounts)
	require.Equal(testInstance, []string{"acme"}, destination.CreatedOrganizations)
	require.Len(testInstance, destination.CreatedMirrors, 3)
}

func TestRunListingModes(testInstance *testing.T) {
	testCases := []struct {
		name             string
		streamListing    bool
		expectedMigrated int
		expectedEvents   []string
	}{
		{
			name:             "materialized listing migrates nothing when paging fails",
			streamListing:    false,
			expectedMigrated: 0,
			expectedEvents:   []string{"identity:octocat", "start:user:alice", "listing:alice", "failed:alice", "run-completed"},
		},
		{
			name:             "streamed listing migrates pages fetched before the failure",
			streamListing:    true,
			expectedMigrated: 2,
			expectedEvents:   []string{"identity:octocat", "start:user:alice", "listing:alice", "repository:alice", "repository:alice", "failed:alice", "run-completed"},
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			source := newSourceStub()
			source.ListingErrors["alice"] = errors.New("page 2 unavailable")
			destination := testsupport.NewDestinationStub()
			reporter := &testsupport.RecordingReporter{}
			service := newService(subTest, nil, source, destination, reporter)

			options := baseRunOptions()
			options.Users = []string{"alice"}
			options.StreamListing = testCase.streamListing
			summary, runError := service.Run(context.Background(), options)
			require.NoError(subTest, runError)

			require.True(subTest, summary.Owners[0].Failed())
			require.Equal(subTest, testCase.expectedMigrated, summary.Owners[0].Migrated)
			require.Equal(subTest, testCase.expectedEvents, reporter.Events)
		})
	}
}

func TestRunReportsListedRepositoryCount(testInstance *testing.T) {
	reporter := &testsupport.RecordingReporter{}
	service := newService(testInstance, nil, newSourceStub(), testsupport.NewDestinationStub(), reporter)

	options := baseRunOptions()
	options.Users = []string{"alice"}
	_, runError := service.Run(context.Background(), options)
	require.NoError(testInstance, runError)

	require.Equal(testInstance, []string{
		"identity:octocat",
		"start:user:alice",
		"listing:alice",
		"listed:alice:2",
		"repository:alice",
		"repository:alice",
		"completed:alice",
		"run-completed",
	}, reporter.Events)
	require.NotNil(testInstance, reporter.Run)
	require.Len(testInstance, reporter.Run.Owners, 1)
}

func TestRunStopsWhenContextCancelled(testInstance *testing.T) {
	destination := testsupport.NewDestinationStub()
	service := newService(testInstance, nil, newSourceStub(), destination, nil)

	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	options := baseRunOptions()
	options.Users = []string{"alice"}
	_, runError := service.Run(cancelledContext, options)
	require.ErrorIs(testInstance, runError, context.Canceled)
	require.Empty(testInstance, destination.CreatedAccounts)
}
