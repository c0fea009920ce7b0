package cli

import (
	"bytes"
	_ "embed"

	"github.com/temirov/gh2fj/internal/utils"
)

// defaultConfigurationContent mirrors DefaultConfigurationValues as a YAML document.
//
//go:embed default_config.yaml
var defaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a private copy of the bundled default
// configuration together with its viper configuration type.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return bytes.Clone(defaultConfigurationContent), configurationTypeConstant
}

// DefaultConfigurationValues lists every configuration key with its default so
// that each one can be overridden from the environment.
func DefaultConfigurationValues() map[string]any {
	return map[string]any{
		commonLogLevelConfigKeyConstant:         string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:        string(utils.LogFormatConsole),
		gitHubTokenConfigKeyConstant:            "",
		gitHubBaseURLConfigKeyConstant:          "",
		gitHubUsersConfigKeyConstant:            []string{},
		gitHubOrganizationsConfigKeyConstant:    []string{},
		forgejoURLConfigKeyConstant:             "",
		forgejoTokenConfigKeyConstant:           "",
		forgejoOrgOwnerConfigKeyConstant:        "",
		forgejoDefaultPasswordConfigKeyConstant: defaultUserPasswordConstant,
		forgejoTimeoutConfigKeyConstant:         defaultTimeoutConstant,
		mirrorStreamListingConfigKeyConstant:    false,
	}
}
