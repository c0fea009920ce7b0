package hosting

import (
	"iter"
	"strings"
)

const (
	placeholderEmailDomainConstant = "@example.com"
)

// Account describes a user or organization profile. Only Login is required.
type Account struct {
	Login       string
	DisplayName string
	Description string
	AvatarURL   string
	Email       string
	WebsiteURL  string
	Location    string
}

// DisplayNameOrLogin returns the display name, falling back to the login.
func (account Account) DisplayNameOrLogin() string {
	trimmedDisplayName := strings.TrimSpace(account.DisplayName)
	if len(trimmedDisplayName) == 0 {
		return account.Login
	}
	return trimmedDisplayName
}

// EmailOrPlaceholder returns the account email or a generated <login>@example.com address.
func (account Account) EmailOrPlaceholder() string {
	trimmedEmail := strings.TrimSpace(account.Email)
	if len(trimmedEmail) == 0 {
		return account.Login + placeholderEmailDomainConstant
	}
	return trimmedEmail
}

// Repository is a snapshot of a source repository at listing time.
type Repository struct {
	Name        string
	FullName    string
	Description string
	CloneURL    string
	Private     bool
	OwnerLogin  string
}

// RepositorySequence yields repositories page by page. Ranging over it again
// restarts from the first page. A non-nil error ends the sequence.
type RepositorySequence iter.Seq2[Repository, error]

// CollectRepositories exhausts the sequence and returns every repository it
// produced, or the first error encountered.
func CollectRepositories(sequence RepositorySequence) ([]Repository, error) {
	repositories := make([]Repository, 0)
	if sequence == nil {
		return repositories, nil
	}
	for repository, sequenceError := range sequence {
		if sequenceError != nil {
			return nil, sequenceError
		}
		repositories = append(repositories, repository)
	}
	return repositories, nil
}

// RepositoriesOf builds a sequence over an in-memory slice.
func RepositoriesOf(repositories ...Repository) RepositorySequence {
	return func(yield func(Repository, error) bool) {
		for _, repository := range repositories {
			if !yield(repository, nil) {
				return
			}
		}
	}
}
