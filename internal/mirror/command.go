package mirror

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gh2fj/internal/forgejo"
	"github.com/temirov/gh2fj/internal/githubapi"
	"github.com/temirov/gh2fj/internal/githubauth"
	"github.com/temirov/gh2fj/internal/utils"
)

const (
	commandUseConstant                     = "sync"
	commandShortDescriptionConstant        = "Mirror GitHub users and organizations into Forgejo"
	commandLongDescriptionConstant         = "sync ensures every configured GitHub user and organization exists on Forgejo and migrates each of their repositories as a private pull mirror. Existing mirrors are re-synced and kept private."
	usersFlagNameConstant                  = "users"
	usersFlagUsageConstant                 = "Comma-separated GitHub users to mirror (overrides configuration)"
	organizationsFlagNameConstant          = "orgs"
	organizationsFlagUsageConstant         = "Comma-separated GitHub organizations to mirror (overrides configuration)"
	streamFlagNameConstant                 = "stream"
	streamFlagUsageConstant                = "Migrate repositories while listing pages are still being fetched"
	sourceClientCreationErrorTemplate      = "unable to construct GitHub client: %w"
	destinationClientCreationErrorTemplate = "unable to construct Forgejo client: %w"
	logMessageSourceTokenFallbackConstant  = "GitHub token resolved from fallback environment variable"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ReporterProvider builds the progress reporter for a command invocation.
type ReporterProvider func(command *cobra.Command) ProgressReporter

// SourceProvider constructs the source repository from configuration.
type SourceProvider func(logger *zap.Logger, configuration CommandConfiguration) (SourceRepository, error)

// DestinationProvider constructs the destination repository from configuration.
type DestinationProvider func(logger *zap.Logger, configuration CommandConfiguration) (DestinationRepository, error)

// CommandBuilder assembles the sync Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	ReporterProvider      ReporterProvider
	SourceProvider        SourceProvider
	DestinationProvider   DestinationProvider
}

// Build constructs the sync command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runSync,
	}

	command.Flags().StringSlice(usersFlagNameConstant, nil, usersFlagUsageConstant)
	command.Flags().StringSlice(organizationsFlagNameConstant, nil, organizationsFlagUsageConstant)
	command.Flags().Bool(streamFlagNameConstant, false, streamFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runSync(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	configuration := builder.parseConfiguration(command, logger)

	contextAccessor := utils.NewCommandContextAccessor()
	runID, _ := contextAccessor.RunID(command.Context())

	options := configuration.RunOptions(runID)
	if validationError := options.Validate(); validationError != nil {
		return validationError
	}

	source, sourceError := builder.resolveSource(logger, configuration)
	if sourceError != nil {
		return fmt.Errorf(sourceClientCreationErrorTemplate, sourceError)
	}

	destination, destinationError := builder.resolveDestination(logger, configuration)
	if destinationError != nil {
		return fmt.Errorf(destinationClientCreationErrorTemplate, destinationError)
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:      logger,
		Source:      source,
		Destination: destination,
		Reporter:    builder.resolveReporter(command),
	})
	if serviceError != nil {
		return serviceError
	}

	_, runError := service.Run(command.Context(), options)
	return runError
}

func (builder *CommandBuilder) parseConfiguration(command *cobra.Command, logger *zap.Logger) CommandConfiguration {
	configuration := builder.resolveConfiguration()

	if command != nil {
		if command.Flags().Changed(usersFlagNameConstant) {
			users, _ := command.Flags().GetStringSlice(usersFlagNameConstant)
			configuration.Source.Users = users
		}
		if command.Flags().Changed(organizationsFlagNameConstant) {
			organizations, _ := command.Flags().GetStringSlice(organizationsFlagNameConstant)
			configuration.Source.Organizations = organizations
		}
		if command.Flags().Changed(streamFlagNameConstant) {
			streamListing, _ := command.Flags().GetBool(streamFlagNameConstant)
			configuration.Behavior.StreamListing = streamListing
		}
	}

	if len(strings.TrimSpace(configuration.Source.Token)) == 0 {
		if fallbackToken, found := githubauth.ResolveToken(nil); found {
			logger.Debug(logMessageSourceTokenFallbackConstant)
			configuration.Source.Token = fallbackToken
		}
	}

	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveReporter(command *cobra.Command) ProgressReporter {
	if builder.ReporterProvider == nil {
		return nil
	}
	return builder.ReporterProvider(command)
}

func (builder *CommandBuilder) resolveSource(logger *zap.Logger, configuration CommandConfiguration) (SourceRepository, error) {
	if builder.SourceProvider != nil {
		return builder.SourceProvider(logger, configuration)
	}
	return githubapi.NewClient(logger, githubapi.ClientConfiguration{
		Token:   configuration.Source.Token,
		BaseURL: configuration.Source.BaseURL,
	})
}

func (builder *CommandBuilder) resolveDestination(logger *zap.Logger, configuration CommandConfiguration) (DestinationRepository, error) {
	if builder.DestinationProvider != nil {
		return builder.DestinationProvider(logger, configuration)
	}
	return forgejo.NewClient(logger, forgejo.ClientConfiguration{
		BaseURL:         configuration.Destination.URL,
		Token:           configuration.Destination.Token,
		DefaultPassword: configuration.Destination.DefaultPassword,
		Timeout:         configuration.Destination.Timeout,
	})
}
