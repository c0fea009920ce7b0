package forgejo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/temirov/gh2fj/internal/hosting"
)

const (
	apiPathSuffixConstant               = "/api/v1"
	authorizationHeaderConstant         = "Authorization"
	authorizationTemplateConstant       = "token %s"
	contentTypeHeaderConstant           = "Content-Type"
	contentTypeJSONConstant             = "application/json"
	sudoHeaderConstant                  = "Sudo"
	loginPathParameterConstant          = "login"
	ownerPathParameterConstant          = "owner"
	repositoryPathParameterConstant     = "repository"
	defaultUserPasswordConstant         = "ChangeMe123!"
	baseURLNotConfiguredMessageConstant = "forgejo url not configured"
	tokenNotConfiguredMessageConstant   = "forgejo token not configured"
	logMessageRequestFailedConstant     = "Forgejo request failed"
	logFieldOperationConstant           = "operation"
	logFieldStatusConstant              = "status"
	logFieldLoginConstant               = "login"
	logFieldRepositoryConstant          = "repository"
)

var (
	// ErrBaseURLNotConfigured indicates the client was constructed without a Forgejo URL.
	ErrBaseURLNotConfigured = errors.New(baseURLNotConfiguredMessageConstant)
	// ErrTokenNotConfigured indicates the client was constructed without a Forgejo token.
	ErrTokenNotConfigured = errors.New(tokenNotConfiguredMessageConstant)
)

// ClientConfiguration configures the Forgejo client.
type ClientConfiguration struct {
	BaseURL         string
	Token           string
	DefaultPassword string
	// Timeout bounds each request. Zero leaves the transport default in place.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client provisions accounts and repositories on a Forgejo instance.
type Client struct {
	logger          *zap.Logger
	api             *resty.Client
	downloader      *resty.Client
	defaultPassword string
}

type apiErrorPayload struct {
	Message string `json:"message"`
}

// NewClient constructs a Forgejo client rooted at <BaseURL>/api/v1.
func NewClient(logger *zap.Logger, configuration ClientConfiguration) (*Client, error) {
	trimmedBaseURL := strings.TrimRight(strings.TrimSpace(configuration.BaseURL), "/")
	if len(trimmedBaseURL) == 0 {
		return nil, ErrBaseURLNotConfigured
	}

	trimmedToken := strings.TrimSpace(configuration.Token)
	if len(trimmedToken) == 0 {
		return nil, ErrTokenNotConfigured
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	defaultPassword := configuration.DefaultPassword
	if len(strings.TrimSpace(defaultPassword)) == 0 {
		defaultPassword = defaultUserPasswordConstant
	}

	apiClient := newRestyClient(configuration.HTTPClient, configuration.Timeout).
		SetBaseURL(trimmedBaseURL+apiPathSuffixConstant).
		SetHeader(authorizationHeaderConstant, fmt.Sprintf(authorizationTemplateConstant, trimmedToken)).
		SetHeader(contentTypeHeaderConstant, contentTypeJSONConstant)

	return &Client{
		logger:          logger,
		api:             apiClient,
		downloader:      newRestyClient(configuration.HTTPClient, configuration.Timeout),
		defaultPassword: defaultPassword,
	}, nil
}

func newRestyClient(httpClient *http.Client, timeout time.Duration) *resty.Client {
	var restyClient *resty.Client
	if httpClient != nil {
		restyClient = resty.NewWithClient(httpClient)
	} else {
		restyClient = resty.New()
	}
	if timeout > 0 {
		restyClient.SetTimeout(timeout)
	}
	return restyClient
}

func (client *Client) request(executionContext context.Context) *resty.Request {
	return client.api.R().SetContext(executionContext).SetError(&apiErrorPayload{})
}

// checkResponse converts transport failures and non-2xx responses into hosting.OperationError.
func (client *Client) checkResponse(operation hosting.OperationName, response *resty.Response, requestError error) error {
	if requestError != nil {
		statusCode := 0
		if response != nil && response.RawResponse != nil {
			statusCode = response.StatusCode()
		}
		return hosting.OperationError{Operation: operation, StatusCode: statusCode, Cause: requestError}
	}

	if !response.IsError() {
		return nil
	}

	message := response.Status()
	if payload, ok := response.Error().(*apiErrorPayload); ok && len(strings.TrimSpace(payload.Message)) > 0 {
		message = payload.Message
	}

	if response.StatusCode() != http.StatusNotFound {
		client.logger.Debug(
			logMessageRequestFailedConstant,
			zap.String(logFieldOperationConstant, string(operation)),
			zap.Int(logFieldStatusConstant, response.StatusCode()),
		)
	}

	return hosting.OperationError{Operation: operation, StatusCode: response.StatusCode(), Cause: errors.New(message)}
}
