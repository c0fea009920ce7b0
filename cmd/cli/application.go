package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/gh2fj/internal/mirror"
	"github.com/temirov/gh2fj/internal/ui"
	"github.com/temirov/gh2fj/internal/utils"
)

const (
	applicationNameConstant                  = "gh2fj"
	applicationShortDescriptionConstant      = "Mirror GitHub accounts and repositories into Forgejo"
	applicationLongDescriptionConstant       = "gh2fj recreates GitHub users and organizations on a Forgejo instance and keeps their repositories there as private pull mirrors."
	configFileFlagNameConstant               = "config"
	configFileFlagUsageConstant              = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                 = "log-level"
	logLevelFlagUsageConstant                = "Override the configured log level."
	logFormatFlagNameConstant                = "log-format"
	logFormatFlagUsageConstant               = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant           = "common"
	commonLogLevelConfigKeyConstant          = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant         = commonConfigurationKeyConstant + ".log_format"
	gitHubConfigurationKeyConstant           = "github"
	gitHubTokenConfigKeyConstant             = gitHubConfigurationKeyConstant + ".token"
	gitHubBaseURLConfigKeyConstant           = gitHubConfigurationKeyConstant + ".base_url"
	gitHubUsersConfigKeyConstant             = gitHubConfigurationKeyConstant + ".users"
	gitHubOrganizationsConfigKeyConstant     = gitHubConfigurationKeyConstant + ".orgs"
	forgejoConfigurationKeyConstant          = "forgejo"
	forgejoURLConfigKeyConstant              = forgejoConfigurationKeyConstant + ".url"
	forgejoTokenConfigKeyConstant            = forgejoConfigurationKeyConstant + ".token"
	forgejoOrgOwnerConfigKeyConstant         = forgejoConfigurationKeyConstant + ".org_owner"
	forgejoDefaultPasswordConfigKeyConstant  = forgejoConfigurationKeyConstant + ".default_password"
	forgejoTimeoutConfigKeyConstant          = forgejoConfigurationKeyConstant + ".timeout"
	mirrorStreamListingConfigKeyConstant     = "mirror.stream_listing"
	defaultPasswordEnvironmentConstant       = "FORGEJO_DEFAULT_PASSWORD"
	legacyDefaultPasswordEnvironmentConstant = "DEFAULT_PASSWORD"
	defaultUserPasswordConstant              = "ChangeMe123!"
	defaultTimeoutConstant                   = "0s"
	environmentPrefixConstant                = ""
	environmentFileNameConstant              = ".env"
	configurationNameConstant                = "config"
	configurationTypeConstant                = "yaml"
	configurationInitializedMessageConstant  = "configuration initialized"
	configurationLogLevelFieldConstant       = "log_level"
	configurationLogFormatFieldConstant      = "log_format"
	configurationFileFieldConstant           = "config_file"
	environmentFilesFieldConstant            = "environment_files"
	runIDFieldConstant                       = "run_id"
	configurationLoadErrorTemplateConstant   = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant      = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant          = "unable to flush logger: %w"
	rootCommandInfoMessageConstant           = "gh2fj CLI executed"
	rootCommandDebugMessageConstant          = "gh2fj CLI diagnostics"
	logFieldCommandNameConstant              = "command_name"
	logFieldArgumentCountConstant            = "argument_count"
	logFieldArgumentsConstant                = "arguments"
	loggerNotInitializedMessageConstant      = "logger not initialized"
	defaultConfigurationSearchPathConstant   = "."
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common  ApplicationCommonConfiguration  `mapstructure:"common"`
	GitHub  mirror.SourceConfiguration      `mapstructure:"github"`
	Forgejo mirror.DestinationConfiguration `mapstructure:"forgejo"`
	Mirror  mirror.BehaviorConfiguration    `mapstructure:"mirror"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)
	configurationLoader.SetEnvironmentFiles(environmentFileNameConstant)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	syncBuilder := mirror.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: application.mirrorConfiguration,
		ReporterProvider: func(command *cobra.Command) mirror.ProgressReporter {
			output := command.OutOrStdout()
			return ui.NewConsoleReporter(output, command.ErrOrStderr(), ui.IsInteractive(output))
		},
	}
	syncCommand, syncBuildError := syncBuilder.Build()
	if syncBuildError == nil {
		cobraCommand.AddCommand(syncCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// SetOutput redirects standard and error output of the command hierarchy.
func (application *Application) SetOutput(output io.Writer, errorOutput io.Writer) {
	application.rootCommand.SetOut(output)
	application.rootCommand.SetErr(errorOutput)
}

// SetArguments replaces the command-line arguments used by Execute.
func (application *Application) SetArguments(arguments []string) {
	application.rootCommand.SetArgs(arguments)
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, DefaultConfigurationValues(), &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration
	application.applyLegacyEnvironment()

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.ParseLogLevel(application.configuration.Common.LogLevel),
		utils.ParseLogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	runID := uuid.NewString()
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.Strings(environmentFilesFieldConstant, application.configurationMetadata.EnvironmentFilesUsed),
		zap.String(runIDFieldConstant, runID),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithRunID(command.Context(), runID)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

// applyLegacyEnvironment honors DEFAULT_PASSWORD when FORGEJO_DEFAULT_PASSWORD is unset.
func (application *Application) applyLegacyEnvironment() {
	if _, configured := os.LookupEnv(defaultPasswordEnvironmentConstant); configured {
		return
	}
	legacyPassword, legacyConfigured := os.LookupEnv(legacyDefaultPasswordEnvironmentConstant)
	if !legacyConfigured || len(strings.TrimSpace(legacyPassword)) == 0 {
		return
	}
	application.configuration.Forgejo.DefaultPassword = legacyPassword
}

func (application *Application) mirrorConfiguration() mirror.CommandConfiguration {
	return mirror.CommandConfiguration{
		Source:      application.configuration.GitHub,
		Destination: application.configuration.Forgejo,
		Behavior:    application.configuration.Mirror,
	}
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Debug(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	return command.Help()
}

func (application *Application) flushLogger() error {
	return application.syncLoggerInstance(application.logger)
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
