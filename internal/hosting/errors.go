package hosting

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	operationErrorMessageTemplateConstant        = "%s operation failed"
	operationErrorStatusTemplateConstant         = "%s operation failed with status %d"
	operationErrorWithCauseTemplateConstant      = "%s operation failed: %s"
	operationErrorStatusCauseTemplateConstant    = "%s operation failed with status %d: %s"
	authenticationErrorMessageConstant           = "source authentication failed"
	authenticationErrorWithCauseTemplateConstant = "source authentication failed: %s"
)

// OperationName labels a remote API workflow for error reporting.
type OperationName string

// OperationError wraps a failed remote call together with the HTTP status, when known.
type OperationError struct {
	Operation  OperationName
	StatusCode int
	Cause      error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	switch {
	case operationError.Cause == nil && operationError.StatusCode == 0:
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	case operationError.Cause == nil:
		return fmt.Sprintf(operationErrorStatusTemplateConstant, operationError.Operation, operationError.StatusCode)
	case operationError.StatusCode == 0:
		return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
	default:
		return fmt.Sprintf(operationErrorStatusCauseTemplateConstant, operationError.Operation, operationError.StatusCode, operationError.Cause)
	}
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// AuthenticationError indicates the source credential was rejected.
type AuthenticationError struct {
	Cause error
}

// Error describes the authentication failure.
func (authenticationError AuthenticationError) Error() string {
	if authenticationError.Cause == nil {
		return authenticationErrorMessageConstant
	}
	return fmt.Sprintf(authenticationErrorWithCauseTemplateConstant, authenticationError.Cause)
}

// Unwrap exposes the underlying cause.
func (authenticationError AuthenticationError) Unwrap() error {
	return authenticationError.Cause
}

// IsNotFound reports whether the error describes an entity absent on the queried service.
func IsNotFound(err error) bool {
	var operationError OperationError
	if !errors.As(err, &operationError) {
		return false
	}
	return operationError.StatusCode == http.StatusNotFound
}

// IsAuthenticationFailure reports whether the error is an AuthenticationError.
func IsAuthenticationFailure(err error) bool {
	var authenticationError AuthenticationError
	return errors.As(err, &authenticationError)
}
