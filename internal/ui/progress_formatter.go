package ui

import (
	"fmt"

	"github.com/temirov/gh2fj/internal/hosting"
	"github.com/temirov/gh2fj/internal/mirror"
)

const (
	identityMessageTemplateConstant        = "Authenticated as GitHub user: %s"
	processingUserMessageTemplateConstant  = "Processing GitHub user: %s"
	processingOrgMessageTemplateConstant   = "Processing GitHub org: %s"
	fetchingRepositoriesTemplateConstant   = "Fetching repositories for %s..."
	processingRepositoriesTemplateConstant = "Processing %d repositories for %s..."
	ownerCountersTemplateConstant          = "%s: %d migrated, %d existing, %d errors (%d total)"
	userFailureTemplateConstant            = "Failed to process user %s: %s"
	organizationSkipTemplateConstant       = "Skipping org %s: %s"
	repositoryErrorTemplateConstant        = "  -> %s"
	runCompletedMessageConstant            = "Mirroring completed!"
	unknownFailureMessageConstant          = "unknown error"
)

// ProgressFormatter builds the human-readable messages of a mirror run.
type ProgressFormatter struct{}

// BuildIdentityMessage formats the authenticated identity notice.
func (formatter ProgressFormatter) BuildIdentityMessage(login string) string {
	return fmt.Sprintf(identityMessageTemplateConstant, login)
}

// BuildOwnerStartedMessage formats the notice shown while an owner is provisioned.
func (formatter ProgressFormatter) BuildOwnerStartedMessage(owner string, kind hosting.OwnerKind) string {
	if kind == hosting.OrganizationOwnerKind {
		return fmt.Sprintf(processingOrgMessageTemplateConstant, owner)
	}
	return fmt.Sprintf(processingUserMessageTemplateConstant, owner)
}

// BuildListingMessage formats the notice shown while repositories are listed.
func (formatter ProgressFormatter) BuildListingMessage(owner string) string {
	return fmt.Sprintf(fetchingRepositoriesTemplateConstant, owner)
}

// BuildListedMessage formats the notice shown once the listing is complete.
func (formatter ProgressFormatter) BuildListedMessage(owner string, count int) string {
	return fmt.Sprintf(processingRepositoriesTemplateConstant, count, owner)
}

// BuildCountersMessage formats the per-owner counters line.
func (formatter ProgressFormatter) BuildCountersMessage(summary mirror.OwnerSummary) string {
	return fmt.Sprintf(ownerCountersTemplateConstant, summary.Owner, summary.Migrated, summary.Existing, summary.ErrorCount(), summary.Total)
}

// BuildOwnerFailureMessage formats the notice for an owner that could not be processed.
func (formatter ProgressFormatter) BuildOwnerFailureMessage(summary mirror.OwnerSummary) string {
	failureMessage := unknownFailureMessageConstant
	if summary.Failure != nil {
		failureMessage = summary.Failure.Error()
	}
	if summary.Kind == hosting.OrganizationOwnerKind {
		return fmt.Sprintf(organizationSkipTemplateConstant, summary.Owner, failureMessage)
	}
	return fmt.Sprintf(userFailureTemplateConstant, summary.Owner, failureMessage)
}

// BuildRepositoryErrorMessage formats a single itemized repository error.
func (formatter ProgressFormatter) BuildRepositoryErrorMessage(message string) string {
	return fmt.Sprintf(repositoryErrorTemplateConstant, message)
}

// BuildRunCompletedMessage formats the closing notice.
func (formatter ProgressFormatter) BuildRunCompletedMessage() string {
	return runCompletedMessageConstant
}
