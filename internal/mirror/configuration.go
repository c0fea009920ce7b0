package mirror

import (
	"strings"
	"time"
)

const (
	loginListSeparatorConstant  = ","
	defaultUserPasswordConstant = "ChangeMe123!"
)

// SourceConfiguration holds the GitHub section of the configuration.
type SourceConfiguration struct {
	Token         string   `mapstructure:"token"`
	BaseURL       string   `mapstructure:"base_url"`
	Users         []string `mapstructure:"users"`
	Organizations []string `mapstructure:"orgs"`
}

// DestinationConfiguration holds the Forgejo section of the configuration.
type DestinationConfiguration struct {
	URL               string        `mapstructure:"url"`
	Token             string        `mapstructure:"token"`
	OrganizationOwner string        `mapstructure:"org_owner"`
	DefaultPassword   string        `mapstructure:"default_password"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// BehaviorConfiguration holds the mirror section of the configuration.
type BehaviorConfiguration struct {
	StreamListing bool `mapstructure:"stream_listing"`
}

// CommandConfiguration captures everything the sync command needs.
type CommandConfiguration struct {
	Source      SourceConfiguration
	Destination DestinationConfiguration
	Behavior    BehaviorConfiguration
}

// DefaultCommandConfiguration returns baseline configuration values for the sync command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Destination: DestinationConfiguration{DefaultPassword: defaultUserPasswordConstant},
	}
}

// Sanitize trims configured values and splits comma-separated login lists,
// dropping empty entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Source.Token = strings.TrimSpace(configuration.Source.Token)
	sanitized.Source.BaseURL = strings.TrimSpace(configuration.Source.BaseURL)
	sanitized.Source.Users = sanitizeLogins(configuration.Source.Users)
	sanitized.Source.Organizations = sanitizeLogins(configuration.Source.Organizations)
	sanitized.Destination.URL = strings.TrimSpace(configuration.Destination.URL)
	sanitized.Destination.Token = strings.TrimSpace(configuration.Destination.Token)
	sanitized.Destination.OrganizationOwner = strings.TrimSpace(configuration.Destination.OrganizationOwner)
	if len(strings.TrimSpace(configuration.Destination.DefaultPassword)) == 0 {
		sanitized.Destination.DefaultPassword = defaultUserPasswordConstant
	}
	if configuration.Destination.Timeout < 0 {
		sanitized.Destination.Timeout = 0
	}
	return sanitized
}

// RunOptions converts the configuration into options for Service.Run.
func (configuration CommandConfiguration) RunOptions(runID string) RunOptions {
	return RunOptions{
		RunID:             runID,
		SourceToken:       configuration.Source.Token,
		DestinationURL:    configuration.Destination.URL,
		DestinationToken:  configuration.Destination.Token,
		Users:             configuration.Source.Users,
		Organizations:     configuration.Source.Organizations,
		OrganizationOwner: configuration.Destination.OrganizationOwner,
		StreamListing:     configuration.Behavior.StreamListing,
	}
}

func sanitizeLogins(entries []string) []string {
	sanitized := make([]string, 0, len(entries))
	for _, entry := range entries {
		for _, login := range strings.Split(entry, loginListSeparatorConstant) {
			trimmedLogin := strings.TrimSpace(login)
			if len(trimmedLogin) == 0 {
				continue
			}
			sanitized = append(sanitized, trimmedLogin)
		}
	}
	return sanitized
}
