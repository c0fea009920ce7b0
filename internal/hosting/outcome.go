package hosting

// MigrationOutcome classifies the result of a single repository migration attempt.
type MigrationOutcome string

// Migration outcome enumerations.
const (
	MigrationOutcomeMigrated       MigrationOutcome = "migrated"
	MigrationOutcomeUpdated        MigrationOutcome = "updated"
	MigrationOutcomeExistsError    MigrationOutcome = "exists-error"
	MigrationOutcomeTransientError MigrationOutcome = "transient-error"
)

// IsError reports whether the outcome counts as a failed repository.
func (outcome MigrationOutcome) IsError() bool {
	return outcome == MigrationOutcomeExistsError || outcome == MigrationOutcomeTransientError
}

// MigrationRequest describes a repository to migrate or refresh on the destination.
type MigrationRequest struct {
	CloneURL    string
	Name        string
	Owner       string
	Description string
	AuthToken   string
}

// MigrationResult pairs a migration outcome with the failure message, if any.
type MigrationResult struct {
	Outcome MigrationOutcome
	Message string
}

// BestEffortResult records a cosmetic side effect whose failure callers may ignore.
type BestEffortResult struct {
	Operation OperationName
	Skipped   bool
	Err       error
}

// Succeeded reports whether the side effect ran and completed.
func (result BestEffortResult) Succeeded() bool {
	return !result.Skipped && result.Err == nil
}

// EnsureResult summarizes an ensure operation on the destination.
type EnsureResult struct {
	Created     bool
	SideEffects []BestEffortResult
}
