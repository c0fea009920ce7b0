package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/temirov/gh2fj/internal/hosting"
	"github.com/temirov/gh2fj/internal/mirror"
	"github.com/temirov/gh2fj/internal/utils"
)

const (
	spinnerCharacterSetIndexConstant = 14
	spinnerRefreshIntervalConstant   = 100 * time.Millisecond
	spinnerSuffixPrefixConstant      = " "
)

// ConsoleReporter implements mirror.ProgressReporter for terminals and pipes.
// Transient status updates are drawn by a spinner only when live updates are
// enabled, and severity colors follow the same switch. Summary lines and the
// final table are always written.
type ConsoleReporter struct {
	output               io.Writer
	errorOutput          io.Writer
	formatter            ProgressFormatter
	statusSpinner        *spinner.Spinner
	failureColor         *color.Color
	skipColor            *color.Color
	repositoryErrorColor *color.Color
}

// NewConsoleReporter constructs a reporter writing summaries to output and
// itemized repository errors to errorOutput.
func NewConsoleReporter(output io.Writer, errorOutput io.Writer, liveUpdates bool) *ConsoleReporter {
	if output == nil {
		output = io.Discard
	}
	if errorOutput == nil {
		errorOutput = output
	}
	reporter := &ConsoleReporter{
		output:               utils.NewFlushingWriter(output),
		errorOutput:          utils.NewFlushingWriter(errorOutput),
		formatter:            ProgressFormatter{},
		failureColor:         color.New(color.FgRed, color.Bold),
		skipColor:            color.New(color.FgYellow),
		repositoryErrorColor: color.New(color.FgRed),
	}

	for _, severityColor := range []*color.Color{reporter.failureColor, reporter.skipColor, reporter.repositoryErrorColor} {
		if liveUpdates {
			severityColor.EnableColor()
		} else {
			severityColor.DisableColor()
		}
	}

	if liveUpdates {
		reporter.statusSpinner = spinner.New(
			spinner.CharSets[spinnerCharacterSetIndexConstant],
			spinnerRefreshIntervalConstant,
			spinner.WithWriter(output),
			spinner.WithHiddenCursor(true),
		)
	}
	return reporter
}

// IsInteractive reports whether the writer is a terminal able to render a live status line.
func IsInteractive(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// IdentityResolved prints the authenticated identity.
func (reporter *ConsoleReporter) IdentityResolved(login string) {
	reporter.printLine(reporter.output, nil, reporter.formatter.BuildIdentityMessage(login))
}

// OwnerStarted updates the live line for the owner being provisioned.
func (reporter *ConsoleReporter) OwnerStarted(owner string, kind hosting.OwnerKind) {
	reporter.updateLiveLine(reporter.formatter.BuildOwnerStartedMessage(owner, kind))
}

// RepositoriesListing updates the live line while repositories are fetched.
func (reporter *ConsoleReporter) RepositoriesListing(owner string) {
	reporter.updateLiveLine(reporter.formatter.BuildListingMessage(owner))
}

// RepositoriesListed updates the live line with the number of repositories to process.
func (reporter *ConsoleReporter) RepositoriesListed(owner string, count int) {
	reporter.updateLiveLine(reporter.formatter.BuildListedMessage(owner, count))
}

// RepositoryProcessed updates the live line with the running counters.
func (reporter *ConsoleReporter) RepositoryProcessed(summary mirror.OwnerSummary) {
	reporter.updateLiveLine(reporter.formatter.BuildCountersMessage(summary))
}

// OwnerCompleted prints the final counters of an owner followed by its repository errors.
func (reporter *ConsoleReporter) OwnerCompleted(summary mirror.OwnerSummary) {
	reporter.printLine(reporter.output, nil, reporter.formatter.BuildCountersMessage(summary))
	reporter.printRepositoryErrors(summary)
}

// OwnerFailed prints the failure notice of an owner.
func (reporter *ConsoleReporter) OwnerFailed(summary mirror.OwnerSummary) {
	severityColor := reporter.failureColor
	if summary.Kind == hosting.OrganizationOwnerKind {
		severityColor = reporter.skipColor
	}
	reporter.printLine(reporter.output, severityColor, reporter.formatter.BuildOwnerFailureMessage(summary))
	reporter.printRepositoryErrors(summary)
}

// RunCompleted prints the closing notice and, when owners were processed, the summary table.
func (reporter *ConsoleReporter) RunCompleted(summary mirror.RunSummary) {
	reporter.printLine(reporter.output, nil, reporter.formatter.BuildRunCompletedMessage())
	if len(summary.Owners) == 0 {
		return
	}
	RenderSummaryTable(reporter.output, summary)
}

func (reporter *ConsoleReporter) printRepositoryErrors(summary mirror.OwnerSummary) {
	for _, message := range summary.Errors {
		reporter.printLine(reporter.errorOutput, reporter.repositoryErrorColor, reporter.formatter.BuildRepositoryErrorMessage(message))
	}
}

func (reporter *ConsoleReporter) updateLiveLine(message string) {
	if reporter.statusSpinner == nil {
		return
	}
	reporter.statusSpinner.Lock()
	reporter.statusSpinner.Suffix = spinnerSuffixPrefixConstant + message
	reporter.statusSpinner.Unlock()
	if !reporter.statusSpinner.Active() {
		reporter.statusSpinner.Start()
	}
}

// printLine stops the spinner, which erases its line, before writing a permanent line.
func (reporter *ConsoleReporter) printLine(writer io.Writer, lineColor *color.Color, message string) {
	if reporter.statusSpinner != nil && reporter.statusSpinner.Active() {
		reporter.statusSpinner.Stop()
	}
	if lineColor != nil {
		message = lineColor.Sprint(message)
	}
	_, _ = fmt.Fprintln(writer, message)
}
