package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/temirov/gh2fj/internal/hosting"
)

const (
	sourceTokenFieldNameConstant            = "github.token"
	destinationURLFieldNameConstant         = "forgejo.url"
	destinationTokenFieldNameConstant       = "forgejo.token"
	requiredSettingMissingMessageConstant   = "required setting is missing"
	configurationErrorTemplateConstant      = "%s: %s"
	sourceRepositoryMissingMessageConstant  = "source repository not configured"
	destinationMissingMessageConstant       = "destination repository not configured"
	identityResolutionErrorTemplateConstant = "unable to resolve authenticated identity: %w"
	logMessageRunStartedConstant            = "Mirror run started"
	logMessageIdentityResolvedConstant      = "Authenticated with GitHub"
	logMessageUserFailedConstant            = "Failed to process user"
	logMessageOrganizationSkippedConstant   = "Skipping organization"
	logMessageOwnerMirroredConstant         = "Owner mirrored"
	logMessageRepositoryProcessedConstant   = "Repository processed"
	logMessageRunCompletedConstant          = "Mirror run completed"
	logFieldRunIDConstant                   = "run_id"
	logFieldIdentityConstant                = "identity"
	logFieldOwnerConstant                   = "owner"
	logFieldOwnerKindConstant               = "owner_kind"
	logFieldTargetOwnerConstant             = "target_owner"
	logFieldRepositoryConstant              = "repository"
	logFieldOutcomeConstant                 = "outcome"
	logFieldMigratedConstant                = "migrated"
	logFieldExistingConstant                = "existing"
	logFieldErrorsConstant                  = "errors"
	logFieldTotalConstant                   = "total"
	logFieldUsersConstant                   = "users"
	logFieldOrganizationsConstant           = "organizations"
	logFieldStreamingConstant               = "streaming"
)

// ConfigurationError reports a required setting that is absent.
type ConfigurationError struct {
	FieldName string
	Message   string
}

// Error describes the configuration problem.
func (configurationError ConfigurationError) Error() string {
	return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.FieldName, configurationError.Message)
}

var (
	errSourceRepositoryMissing      = errors.New(sourceRepositoryMissingMessageConstant)
	errDestinationRepositoryMissing = errors.New(destinationMissingMessageConstant)
)

// SourceRepository reads accounts and repositories from the source service.
type SourceRepository interface {
	AuthenticatedIdentity(executionContext context.Context) (string, error)
	Account(executionContext context.Context, login string) (hosting.Account, error)
	Organization(executionContext context.Context, login string) (hosting.Account, error)
	Repositories(executionContext context.Context, owner string, ownerKind hosting.OwnerKind) hosting.RepositorySequence
}

// DestinationRepository provisions accounts and mirrors on the destination service.
type DestinationRepository interface {
	EnsureAccount(executionContext context.Context, account hosting.Account) (hosting.EnsureResult, error)
	EnsureOrganization(executionContext context.Context, organization hosting.Account) (hosting.EnsureResult, error)
	MigrateRepository(executionContext context.Context, request hosting.MigrationRequest) hosting.MigrationResult
}

// ServiceDependencies describes the collaborators of a mirror run.
type ServiceDependencies struct {
	Logger      *zap.Logger
	Source      SourceRepository
	Destination DestinationRepository
	Reporter    ProgressReporter
}

// RunOptions configures a single mirror run.
type RunOptions struct {
	RunID             string
	SourceToken       string
	DestinationURL    string
	DestinationToken  string
	Users             []string
	Organizations     []string
	OrganizationOwner string
	StreamListing     bool
}

// Validate reports the first required setting that is missing.
func (options RunOptions) Validate() error {
	requiredSettings := []struct {
		fieldName string
		value     string
	}{
		{fieldName: sourceTokenFieldNameConstant, value: options.SourceToken},
		{fieldName: destinationURLFieldNameConstant, value: options.DestinationURL},
		{fieldName: destinationTokenFieldNameConstant, value: options.DestinationToken},
	}

	for _, requiredSetting := range requiredSettings {
		if len(strings.TrimSpace(requiredSetting.value)) == 0 {
			return ConfigurationError{FieldName: requiredSetting.fieldName, Message: requiredSettingMissingMessageConstant}
		}
	}
	return nil
}

// Service mirrors GitHub owners into Forgejo.
type Service struct {
	logger      *zap.Logger
	source      SourceRepository
	destination DestinationRepository
	reporter    ProgressReporter
}

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Source == nil {
		return nil, errSourceRepositoryMissing
	}
	if dependencies.Destination == nil {
		return nil, errDestinationRepositoryMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = silentReporter{}
	}

	return &Service{
		logger:      logger,
		source:      dependencies.Source,
		destination: dependencies.Destination,
		reporter:    reporter,
	}, nil
}

// Run mirrors every configured user and then every configured organization.
// Only configuration and authentication failures are returned; owner and
// repository failures are recorded in the summary.
func (service *Service) Run(executionContext context.Context, options RunOptions) (RunSummary, error) {
	if validationError := options.Validate(); validationError != nil {
		return RunSummary{}, validationError
	}

	runID := strings.TrimSpace(options.RunID)
	if len(runID) == 0 {
		runID = uuid.NewString()
	}
	logger := service.logger.With(zap.String(logFieldRunIDConstant, runID))
	logger.Info(
		logMessageRunStartedConstant,
		zap.Strings(logFieldUsersConstant, options.Users),
		zap.Strings(logFieldOrganizationsConstant, options.Organizations),
		zap.Bool(logFieldStreamingConstant, options.StreamListing),
	)

	identity, identityError := service.source.AuthenticatedIdentity(executionContext)
	if identityError != nil {
		return RunSummary{}, fmt.Errorf(identityResolutionErrorTemplateConstant, identityError)
	}
	logger.Info(logMessageIdentityResolvedConstant, zap.String(logFieldIdentityConstant, identity))
	service.reporter.IdentityResolved(identity)

	runSummary := RunSummary{RunID: runID, Identity: identity}

	for _, user := range options.Users {
		ownerSummary, cancellationError := service.processOwner(executionContext, logger, user, hosting.UserOwnerKind, options)
		if cancellationError != nil {
			return runSummary, cancellationError
		}
		runSummary.Owners = append(runSummary.Owners, ownerSummary)
	}

	for _, organization := range options.Organizations {
		ownerSummary, cancellationError := service.processOwner(executionContext, logger, organization, hosting.OrganizationOwnerKind, options)
		if cancellationError != nil {
			return runSummary, cancellationError
		}
		runSummary.Owners = append(runSummary.Owners, ownerSummary)
	}

	totals := runSummary.Totals()
	logger.Info(
		logMessageRunCompletedConstant,
		zap.Int(logFieldMigratedConstant, totals.Migrated),
		zap.Int(logFieldExistingConstant, totals.Existing),
		zap.Int(logFieldErrorsConstant, totals.Errors),
		zap.Int(logFieldTotalConstant, totals.Total),
	)
	service.reporter.RunCompleted(runSummary)

	return runSummary, nil
}

// processOwner isolates owner failures in the summary. The returned error is
// non-nil only when the run context was cancelled.
func (service *Service) processOwner(executionContext context.Context, logger *zap.Logger, owner string, ownerKind hosting.OwnerKind, options RunOptions) (OwnerSummary, error) {
	service.reporter.OwnerStarted(owner, ownerKind)

	ownerSummary := OwnerSummary{Owner: owner, Kind: ownerKind}
	mirrorError := service.mirrorOwner(executionContext, logger, &ownerSummary, options)
	if mirrorError == nil {
		logger.Info(
			logMessageOwnerMirroredConstant,
			zap.String(logFieldOwnerConstant, owner),
			zap.String(logFieldOwnerKindConstant, ownerKind.String()),
			zap.Int(logFieldMigratedConstant, ownerSummary.Migrated),
			zap.Int(logFieldExistingConstant, ownerSummary.Existing),
			zap.Int(logFieldErrorsConstant, ownerSummary.ErrorCount()),
			zap.Int(logFieldTotalConstant, ownerSummary.Total),
		)
		service.reporter.OwnerCompleted(ownerSummary)
		return ownerSummary, nil
	}

	if errors.Is(mirrorError, context.Canceled) || errors.Is(mirrorError, context.DeadlineExceeded) {
		return ownerSummary, mirrorError
	}

	ownerSummary.Failure = mirrorError
	if ownerKind == hosting.OrganizationOwnerKind {
		logger.Warn(logMessageOrganizationSkippedConstant, zap.String(logFieldOwnerConstant, owner), zap.Error(mirrorError))
	} else {
		logger.Error(logMessageUserFailedConstant, zap.String(logFieldOwnerConstant, owner), zap.Error(mirrorError))
	}
	service.reporter.OwnerFailed(ownerSummary)
	return ownerSummary, nil
}

func (service *Service) mirrorOwner(executionContext context.Context, logger *zap.Logger, ownerSummary *OwnerSummary, options RunOptions) error {
	if contextError := executionContext.Err(); contextError != nil {
		return contextError
	}

	if ensureError := service.ensureOwner(executionContext, ownerSummary.Owner, ownerSummary.Kind); ensureError != nil {
		return ensureError
	}

	targetOwner := ownerSummary.Owner
	if ownerSummary.Kind == hosting.OrganizationOwnerKind && len(strings.TrimSpace(options.OrganizationOwner)) > 0 {
		targetOwner = strings.TrimSpace(options.OrganizationOwner)
	}

	service.reporter.RepositoriesListing(ownerSummary.Owner)
	repositories := service.source.Repositories(executionContext, ownerSummary.Owner, ownerSummary.Kind)

	if !options.StreamListing {
		listedRepositories, listingError := hosting.CollectRepositories(repositories)
		if listingError != nil {
			return listingError
		}
		service.reporter.RepositoriesListed(ownerSummary.Owner, len(listedRepositories))
		repositories = hosting.RepositoriesOf(listedRepositories...)
	}

	for repository, listingError := range repositories {
		if listingError != nil {
			return listingError
		}

		result := service.destination.MigrateRepository(executionContext, hosting.MigrationRequest{
			CloneURL:    repository.CloneURL,
			Name:        repository.Name,
			Owner:       targetOwner,
			Description: repository.Description,
			AuthToken:   options.SourceToken,
		})
		ownerSummary.record(repository, result)

		logger.Debug(
			logMessageRepositoryProcessedConstant,
			zap.String(logFieldRepositoryConstant, repository.FullName),
			zap.String(logFieldTargetOwnerConstant, targetOwner),
			zap.String(logFieldOutcomeConstant, string(result.Outcome)),
		)
		service.reporter.RepositoryProcessed(*ownerSummary)
	}

	return nil
}

// ensureOwner fetches the source profile and provisions it on the destination.
// Best-effort side effects reported by the destination are not inspected.
func (service *Service) ensureOwner(executionContext context.Context, owner string, ownerKind hosting.OwnerKind) error {
	if ownerKind == hosting.OrganizationOwnerKind {
		organization, fetchError := service.source.Organization(executionContext, owner)
		if fetchError != nil {
			return fetchError
		}
		_, ensureError := service.destination.EnsureOrganization(executionContext, organization)
		return ensureError
	}

	account, fetchError := service.source.Account(executionContext, owner)
	if fetchError != nil {
		return fetchError
	}
	_, ensureError := service.destination.EnsureAccount(executionContext, account)
	return ensureError
}
