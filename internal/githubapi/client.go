package githubapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/temirov/gh2fj/internal/hosting"
)

const (
	defaultPageSizeConstant                    = 100
	sortByPushedConstant                       = "pushed"
	sortDirectionAscendingConstant             = "asc"
	visibilityAllConstant                      = "all"
	affiliationOwnerConstant                   = "owner"
	authenticatedUserLookupConstant            = ""
	baseURLPathSuffixConstant                  = "/"
	tokenNotConfiguredMessageConstant          = "github token not configured"
	logMessageFetchingRepositoriesPageConstant = "Fetching repositories page"
	logMessageIdentityLookupFailedConstant     = "Authenticated identity unavailable, using public listing"
	logMessageAuthenticatedListingConstant     = "Listing repositories of the authenticated user"
	logFieldOwnerConstant                      = "owner"
	logFieldOwnerKindConstant                  = "owner_kind"
	logFieldPageConstant                       = "page"
	authenticatedIdentityOperationConstant     = hosting.OperationName("GetAuthenticatedIdentity")
	getAccountOperationConstant                = hosting.OperationName("GetAccount")
	getOrganizationOperationConstant           = hosting.OperationName("GetOrganization")
	listRepositoriesOperationConstant          = hosting.OperationName("ListRepositories")
)

var (
	// ErrTokenNotConfigured indicates the client was constructed without a token.
	ErrTokenNotConfigured = errors.New(tokenNotConfiguredMessageConstant)
)

// ClientConfiguration configures the GitHub client.
type ClientConfiguration struct {
	Token string
	// BaseURL overrides the API root, e.g. https://ghe.example.com/api/v3/.
	BaseURL    string
	PageSize   int
	HTTPClient *http.Client
}

// Client reads accounts and repositories from GitHub.
type Client struct {
	logger             *zap.Logger
	gitHub             *github.Client
	pageSize           int
	authenticatedLogin string
}

type repositoryPageLister func(listingContext context.Context, page int) ([]*github.Repository, *github.Response, error)

// NewClient constructs a GitHub client authenticated with a static token.
func NewClient(logger *zap.Logger, configuration ClientConfiguration) (*Client, error) {
	trimmedToken := strings.TrimSpace(configuration.Token)
	if len(trimmedToken) == 0 {
		return nil, ErrTokenNotConfigured
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	transportContext := context.Background()
	if configuration.HTTPClient != nil {
		transportContext = context.WithValue(transportContext, oauth2.HTTPClient, configuration.HTTPClient)
	}
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: trimmedToken})
	gitHubClient := github.NewClient(oauth2.NewClient(transportContext, tokenSource))

	trimmedBaseURL := strings.TrimSpace(configuration.BaseURL)
	if len(trimmedBaseURL) > 0 {
		parsedBaseURL, parseError := url.Parse(trimmedBaseURL)
		if parseError != nil {
			return nil, parseError
		}
		if !strings.HasSuffix(parsedBaseURL.Path, baseURLPathSuffixConstant) {
			parsedBaseURL.Path += baseURLPathSuffixConstant
		}
		gitHubClient.BaseURL = parsedBaseURL
	}

	pageSize := configuration.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSizeConstant
	}

	return &Client{logger: logger, gitHub: gitHubClient, pageSize: pageSize}, nil
}

// AuthenticatedIdentity returns the login owning the configured token. The
// first successful lookup is cached for the lifetime of the client.
func (client *Client) AuthenticatedIdentity(executionContext context.Context) (string, error) {
	if len(client.authenticatedLogin) > 0 {
		return client.authenticatedLogin, nil
	}

	user, response, lookupError := client.gitHub.Users.Get(executionContext, authenticatedUserLookupConstant)
	if lookupError != nil {
		statusCode := statusCodeOf(response, lookupError)
		operationError := hosting.OperationError{Operation: authenticatedIdentityOperationConstant, StatusCode: statusCode, Cause: lookupError}
		if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
			return "", hosting.AuthenticationError{Cause: operationError}
		}
		return "", operationError
	}

	client.authenticatedLogin = user.GetLogin()
	return client.authenticatedLogin, nil
}

// Account fetches the public profile of a user.
func (client *Client) Account(executionContext context.Context, login string) (hosting.Account, error) {
	user, response, lookupError := client.gitHub.Users.Get(executionContext, login)
	if lookupError != nil {
		return hosting.Account{}, hosting.OperationError{Operation: getAccountOperationConstant, StatusCode: statusCodeOf(response, lookupError), Cause: lookupError}
	}

	return hosting.Account{
		Login:       user.GetLogin(),
		DisplayName: user.GetName(),
		Description: user.GetBio(),
		AvatarURL:   user.GetAvatarURL(),
		Email:       user.GetEmail(),
		WebsiteURL:  user.GetBlog(),
		Location:    user.GetLocation(),
	}, nil
}

// Organization fetches the public profile of an organization.
func (client *Client) Organization(executionContext context.Context, login string) (hosting.Account, error) {
	organization, response, lookupError := client.gitHub.Organizations.Get(executionContext, login)
	if lookupError != nil {
		return hosting.Account{}, hosting.OperationError{Operation: getOrganizationOperationConstant, StatusCode: statusCodeOf(response, lookupError), Cause: lookupError}
	}

	return hosting.Account{
		Login:       organization.GetLogin(),
		DisplayName: organization.GetName(),
		Description: organization.GetDescription(),
		AvatarURL:   organization.GetAvatarURL(),
		Email:       organization.GetEmail(),
		WebsiteURL:  organization.GetBlog(),
		Location:    organization.GetLocation(),
	}, nil
}

// Repositories lists the repositories of an owner, oldest push first. Pages are
// fetched as the sequence is consumed; ranging again restarts from page one.
func (client *Client) Repositories(executionContext context.Context, owner string, ownerKind hosting.OwnerKind) hosting.RepositorySequence {
	return func(yield func(hosting.Repository, error) bool) {
		lister := client.resolvePageLister(executionContext, owner, ownerKind)
		page := 0
		for {
			client.logger.Debug(
				logMessageFetchingRepositoriesPageConstant,
				zap.String(logFieldOwnerConstant, owner),
				zap.String(logFieldOwnerKindConstant, ownerKind.String()),
				zap.Int(logFieldPageConstant, page),
			)

			repositories, response, listError := lister(executionContext, page)
			if listError != nil {
				yield(hosting.Repository{}, hosting.OperationError{Operation: listRepositoriesOperationConstant, StatusCode: statusCodeOf(response, listError), Cause: listError})
				return
			}

			for _, repository := range repositories {
				if !yield(toRepository(repository), nil) {
					return
				}
			}

			if response == nil || response.NextPage == 0 {
				return
			}
			page = response.NextPage
		}
	}
}

// ListRepositories exhausts Repositories and returns the full listing.
func (client *Client) ListRepositories(executionContext context.Context, owner string, ownerKind hosting.OwnerKind) ([]hosting.Repository, error) {
	return hosting.CollectRepositories(client.Repositories(executionContext, owner, ownerKind))
}

func (client *Client) resolvePageLister(executionContext context.Context, owner string, ownerKind hosting.OwnerKind) repositoryPageLister {
	if ownerKind == hosting.OrganizationOwnerKind {
		return func(listingContext context.Context, page int) ([]*github.Repository, *github.Response, error) {
			return client.gitHub.Repositories.ListByOrg(listingContext, owner, &github.RepositoryListByOrgOptions{
				Sort:        sortByPushedConstant,
				Direction:   sortDirectionAscendingConstant,
				ListOptions: github.ListOptions{Page: page, PerPage: client.pageSize},
			})
		}
	}

	authenticatedLogin, identityError := client.AuthenticatedIdentity(executionContext)
	if identityError != nil {
		client.logger.Debug(logMessageIdentityLookupFailedConstant, zap.String(logFieldOwnerConstant, owner), zap.Error(identityError))
	}

	if identityError == nil && strings.EqualFold(authenticatedLogin, owner) {
		client.logger.Debug(logMessageAuthenticatedListingConstant, zap.String(logFieldOwnerConstant, owner))
		return func(listingContext context.Context, page int) ([]*github.Repository, *github.Response, error) {
			return client.gitHub.Repositories.ListByAuthenticatedUser(listingContext, &github.RepositoryListByAuthenticatedUserOptions{
				Visibility:  visibilityAllConstant,
				Affiliation: affiliationOwnerConstant,
				Sort:        sortByPushedConstant,
				Direction:   sortDirectionAscendingConstant,
				ListOptions: github.ListOptions{Page: page, PerPage: client.pageSize},
			})
		}
	}

	return func(listingContext context.Context, page int) ([]*github.Repository, *github.Response, error) {
		return client.gitHub.Repositories.ListByUser(listingContext, owner, &github.RepositoryListByUserOptions{
			Sort:        sortByPushedConstant,
			Direction:   sortDirectionAscendingConstant,
			ListOptions: github.ListOptions{Page: page, PerPage: client.pageSize},
		})
	}
}

func toRepository(repository *github.Repository) hosting.Repository {
	return hosting.Repository{
		Name:        repository.GetName(),
		FullName:    repository.GetFullName(),
		Description: repository.GetDescription(),
		CloneURL:    repository.GetCloneURL(),
		Private:     repository.GetPrivate(),
		OwnerLogin:  repository.GetOwner().GetLogin(),
	}
}

func statusCodeOf(response *github.Response, failure error) int {
	if response != nil && response.Response != nil {
		return response.StatusCode
	}
	var errorResponse *github.ErrorResponse
	if errors.As(failure, &errorResponse) && errorResponse.Response != nil {
		return errorResponse.Response.StatusCode
	}
	return 0
}
