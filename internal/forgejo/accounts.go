package forgejo

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/gh2fj/internal/hosting"
)

const (
	ownerPathConstant                      = "/{segment}/{login}"
	segmentPathParameterConstant           = "segment"
	adminUsersPathConstant                 = "/admin/users"
	adminUserPathConstant                  = "/admin/users/{login}"
	organizationPathConstant               = "/orgs/{login}"
	organizationsPathConstant              = "/orgs"
	userVisibilityConstant                 = "limited"
	organizationVisibilityConstant         = "private"
	getUserOperationConstant               = hosting.OperationName("GetUser")
	createUserOperationConstant            = hosting.OperationName("CreateUser")
	editUserOperationConstant              = hosting.OperationName("EditUser")
	getOrganizationOperationConstant       = hosting.OperationName("GetOrganization")
	createOrganizationOperationConstant    = hosting.OperationName("CreateOrganization")
	editOrganizationOperationConstant      = hosting.OperationName("EditOrganization")
	logMessageCreatingUserConstant         = "Creating Forgejo user"
	logMessageCreatingOrganizationConstant = "Creating Forgejo organization"
)

type createUserPayload struct {
	Email              string `json:"email"`
	LoginName          string `json:"login_name"`
	Username           string `json:"username"`
	Password           string `json:"password"`
	MustChangePassword bool   `json:"must_change_password"`
	FullName           string `json:"full_name"`
	Visibility         string `json:"visibility"`
}

type editUserPayload struct {
	LoginName   string `json:"login_name"`
	FullName    string `json:"full_name"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

type organizationPayload struct {
	Username    string `json:"username,omitempty"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	Visibility  string `json:"visibility"`
}

// EnsureAccount creates the user when absent and refreshes its profile and
// avatar on every call. Only lookup and creation failures are returned.
func (client *Client) EnsureAccount(executionContext context.Context, account hosting.Account) (hosting.EnsureResult, error) {
	lookupError := client.lookupOwner(executionContext, getUserOperationConstant, account.Login, hosting.UserOwnerKind)

	result := hosting.EnsureResult{}
	switch {
	case lookupError == nil:
	case hosting.IsNotFound(lookupError):
		if creationError := client.createUser(executionContext, account); creationError != nil {
			return hosting.EnsureResult{}, creationError
		}
		result.Created = true
	default:
		return hosting.EnsureResult{}, lookupError
	}

	result.SideEffects = append(result.SideEffects,
		client.editUser(executionContext, account),
		client.UploadAvatar(executionContext, account.Login, account.AvatarURL, hosting.UserOwnerKind),
	)
	return result, nil
}

// EnsureOrganization creates the organization when absent. Existing
// organizations get their profile refreshed; both paths upload the avatar.
func (client *Client) EnsureOrganization(executionContext context.Context, organization hosting.Account) (hosting.EnsureResult, error) {
	lookupError := client.lookupOwner(executionContext, getOrganizationOperationConstant, organization.Login, hosting.OrganizationOwnerKind)

	result := hosting.EnsureResult{}
	switch {
	case lookupError == nil:
		result.SideEffects = append(result.SideEffects, client.editOrganization(executionContext, organization))
	case hosting.IsNotFound(lookupError):
		if creationError := client.createOrganization(executionContext, organization); creationError != nil {
			return hosting.EnsureResult{}, creationError
		}
		result.Created = true
	default:
		return hosting.EnsureResult{}, lookupError
	}

	result.SideEffects = append(result.SideEffects,
		client.UploadAvatar(executionContext, organization.Login, organization.AvatarURL, hosting.OrganizationOwnerKind),
	)
	return result, nil
}

func (client *Client) lookupOwner(executionContext context.Context, operation hosting.OperationName, login string, ownerKind hosting.OwnerKind) error {
	response, lookupError := client.request(executionContext).
		SetPathParams(map[string]string{
			segmentPathParameterConstant: ownerKind.PathSegment(),
			loginPathParameterConstant:   login,
		}).
		Get(ownerPathConstant)
	return client.checkResponse(operation, response, lookupError)
}

func (client *Client) createUser(executionContext context.Context, account hosting.Account) error {
	client.logger.Info(logMessageCreatingUserConstant, zap.String(logFieldLoginConstant, account.Login))

	response, creationError := client.request(executionContext).
		SetBody(createUserPayload{
			Email:              account.EmailOrPlaceholder(),
			LoginName:          account.Login,
			Username:           account.Login,
			Password:           client.defaultPassword,
			MustChangePassword: false,
			FullName:           account.DisplayNameOrLogin(),
			Visibility:         userVisibilityConstant,
		}).
		Post(adminUsersPathConstant)
	return client.checkResponse(createUserOperationConstant, response, creationError)
}

func (client *Client) editUser(executionContext context.Context, account hosting.Account) hosting.BestEffortResult {
	response, editError := client.request(executionContext).
		SetPathParam(loginPathParameterConstant, account.Login).
		SetBody(editUserPayload{
			LoginName:   account.Login,
			FullName:    account.DisplayNameOrLogin(),
			Website:     account.WebsiteURL,
			Location:    account.Location,
			Description: account.Description,
			Visibility:  userVisibilityConstant,
		}).
		Patch(adminUserPathConstant)
	return hosting.BestEffortResult{
		Operation: editUserOperationConstant,
		Err:       client.checkResponse(editUserOperationConstant, response, editError),
	}
}

func (client *Client) createOrganization(executionContext context.Context, organization hosting.Account) error {
	client.logger.Info(logMessageCreatingOrganizationConstant, zap.String(logFieldLoginConstant, organization.Login))

	response, creationError := client.request(executionContext).
		SetBody(organizationPayload{
			Username:    organization.Login,
			FullName:    organization.DisplayNameOrLogin(),
			Description: organization.Description,
			Website:     organization.WebsiteURL,
			Location:    organization.Location,
			Visibility:  organizationVisibilityConstant,
		}).
		Post(organizationsPathConstant)
	return client.checkResponse(createOrganizationOperationConstant, response, creationError)
}

func (client *Client) editOrganization(executionContext context.Context, organization hosting.Account) hosting.BestEffortResult {
	response, editError := client.request(executionContext).
		SetPathParam(loginPathParameterConstant, organization.Login).
		SetBody(organizationPayload{
			FullName:    organization.DisplayNameOrLogin(),
			Description: organization.Description,
			Website:     organization.WebsiteURL,
			Location:    organization.Location,
			Visibility:  organizationVisibilityConstant,
		}).
		Patch(organizationPathConstant)
	return hosting.BestEffortResult{
		Operation: editOrganizationOperationConstant,
		Err:       client.checkResponse(editOrganizationOperationConstant, response, editError),
	}
}
