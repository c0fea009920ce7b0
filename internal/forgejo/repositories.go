package forgejo

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/gh2fj/internal/hosting"
)

const (
	repositoryPathConstant                = "/repos/{owner}/{repository}"
	mirrorSyncPathConstant                = "/repos/{owner}/{repository}/mirror-sync"
	migratePathConstant                   = "/repos/migrate"
	migrationServiceConstant              = "github"
	patchFailedTemplateConstant           = "patch failed: %s"
	getRepositoryOperationConstant        = hosting.OperationName("GetRepository")
	mirrorSyncOperationConstant           = hosting.OperationName("MirrorSync")
	editRepositoryOperationConstant       = hosting.OperationName("EditRepository")
	migrateRepositoryOperationConstant    = hosting.OperationName("MigrateRepository")
	logMessageMirrorSyncFailedConstant    = "Mirror sync request failed"
	logMessageMigratingRepositoryConstant = "Migrating repository"
)

type repositoryPayload struct {
	Mirror bool `json:"mirror"`
}

type editRepositoryPayload struct {
	Private     bool   `json:"private"`
	Description string `json:"description"`
}

type migrateRepositoryPayload struct {
	CloneAddress string `json:"clone_addr"`
	Mirror       bool   `json:"mirror"`
	RepoName     string `json:"repo_name"`
	RepoOwner    string `json:"repo_owner"`
	Description  string `json:"description"`
	Private      bool   `json:"private"`
	Service      string `json:"service"`
	AuthToken    string `json:"auth_token"`
}

// MigrateRepository creates a private pull mirror of the request's clone URL,
// or refreshes the existing repository: a mirror sync is requested when it is
// a mirror, then privacy and description are patched. Failures are reported
// in the result, never returned.
func (client *Client) MigrateRepository(executionContext context.Context, request hosting.MigrationRequest) hosting.MigrationResult {
	existing := repositoryPayload{}
	response, lookupError := client.request(executionContext).
		SetPathParams(repositoryPathParameters(request)).
		SetResult(&existing).
		Get(repositoryPathConstant)
	lookupError = client.checkResponse(getRepositoryOperationConstant, response, lookupError)

	switch {
	case lookupError == nil:
		return client.refreshRepository(executionContext, request, existing.Mirror)
	case hosting.IsNotFound(lookupError):
		return client.createMirror(executionContext, request)
	default:
		return hosting.MigrationResult{Outcome: hosting.MigrationOutcomeTransientError, Message: lookupError.Error()}
	}
}

func (client *Client) refreshRepository(executionContext context.Context, request hosting.MigrationRequest, isMirror bool) hosting.MigrationResult {
	if isMirror {
		response, syncError := client.request(executionContext).
			SetPathParams(repositoryPathParameters(request)).
			Post(mirrorSyncPathConstant)
		if syncError = client.checkResponse(mirrorSyncOperationConstant, response, syncError); syncError != nil {
			client.logger.Debug(logMessageMirrorSyncFailedConstant, zap.String(logFieldRepositoryConstant, request.Owner+"/"+request.Name), zap.Error(syncError))
		}
	}

	response, patchError := client.request(executionContext).
		SetPathParams(repositoryPathParameters(request)).
		SetBody(editRepositoryPayload{Private: true, Description: request.Description}).
		Patch(repositoryPathConstant)
	if patchError = client.checkResponse(editRepositoryOperationConstant, response, patchError); patchError != nil {
		return hosting.MigrationResult{
			Outcome: hosting.MigrationOutcomeTransientError,
			Message: fmt.Sprintf(patchFailedTemplateConstant, patchError.Error()),
		}
	}

	return hosting.MigrationResult{Outcome: hosting.MigrationOutcomeUpdated}
}

func (client *Client) createMirror(executionContext context.Context, request hosting.MigrationRequest) hosting.MigrationResult {
	client.logger.Debug(logMessageMigratingRepositoryConstant, zap.String(logFieldRepositoryConstant, request.Owner+"/"+request.Name))

	response, migrateError := client.request(executionContext).
		SetBody(migrateRepositoryPayload{
			CloneAddress: request.CloneURL,
			Mirror:       true,
			RepoName:     request.Name,
			RepoOwner:    request.Owner,
			Description:  request.Description,
			Private:      true,
			Service:      migrationServiceConstant,
			AuthToken:    request.AuthToken,
		}).
		Post(migratePathConstant)
	if migrateError = client.checkResponse(migrateRepositoryOperationConstant, response, migrateError); migrateError != nil {
		return hosting.MigrationResult{Outcome: hosting.MigrationOutcomeTransientError, Message: migrateError.Error()}
	}

	return hosting.MigrationResult{Outcome: hosting.MigrationOutcomeMigrated}
}

func repositoryPathParameters(request hosting.MigrationRequest) map[string]string {
	return map[string]string{
		ownerPathParameterConstant:      request.Owner,
		repositoryPathParameterConstant: request.Name,
	}
}
