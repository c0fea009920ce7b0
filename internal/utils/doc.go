// Package utils exposes reusable helpers consumed by the CLI and its commands.
//
// ConfigurationLoader layers embedded defaults, an optional YAML file, dotenv
// files and environment variables through Viper. LoggerFactory builds zap
// loggers, and CommandContextAccessor carries per-invocation values such as
// the run identifier through command contexts.
package utils
