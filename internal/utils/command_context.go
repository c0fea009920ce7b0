package utils

import "context"

const (
	runIDContextKeyConstant = commandContextKey("runID")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithRunID attaches the identifier of the current run to the provided context.
func (accessor CommandContextAccessor) WithRunID(parentContext context.Context, runID string) context.Context {
	return accessor.withValue(parentContext, runIDContextKeyConstant, runID)
}

// RunID extracts the run identifier from the provided context.
func (accessor CommandContextAccessor) RunID(executionContext context.Context) (string, bool) {
	return accessor.stringValue(executionContext, runIDContextKeyConstant)
}

func (accessor CommandContextAccessor) withValue(parentContext context.Context, key commandContextKey, value string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, key, value)
}

func (accessor CommandContextAccessor) stringValue(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	value, available := executionContext.Value(key).(string)
	if !available || len(value) == 0 {
		return "", false
	}
	return value, true
}
