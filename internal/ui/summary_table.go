package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/temirov/gh2fj/internal/hosting"
	"github.com/temirov/gh2fj/internal/mirror"
)

const (
	ownerColumnConstant          = "Owner"
	kindColumnConstant           = "Kind"
	migratedColumnConstant       = "Migrated"
	existingColumnConstant       = "Existing"
	errorsColumnConstant         = "Errors"
	totalColumnConstant          = "Total"
	statusColumnConstant         = "Status"
	totalsLabelConstant          = "All owners"
	statusOKConstant             = "ok"
	statusWithErrorsConstant     = "with errors"
	statusFailedConstant         = "failed"
	statusSkippedConstant        = "skipped"
	emptyCellConstant            = ""
	failedOwnersTemplateConstant = "%d failed"
)

// RenderSummaryTable writes one row per owner plus a totals footer.
func RenderSummaryTable(writer io.Writer, summary mirror.RunSummary) {
	table := tablewriter.NewWriter(writer)
	table.SetHeader([]string{
		ownerColumnConstant,
		kindColumnConstant,
		migratedColumnConstant,
		existingColumnConstant,
		errorsColumnConstant,
		totalColumnConstant,
		statusColumnConstant,
	})
	table.SetAutoFormatHeaders(false)

	for _, owner := range summary.Owners {
		table.Append([]string{
			owner.Owner,
			owner.Kind.String(),
			strconv.Itoa(owner.Migrated),
			strconv.Itoa(owner.Existing),
			strconv.Itoa(owner.ErrorCount()),
			strconv.Itoa(owner.Total),
			ownerStatus(owner),
		})
	}

	totals := summary.Totals()
	table.SetFooter([]string{
		totalsLabelConstant,
		emptyCellConstant,
		strconv.Itoa(totals.Migrated),
		strconv.Itoa(totals.Existing),
		strconv.Itoa(totals.Errors),
		strconv.Itoa(totals.Total),
		fmt.Sprintf(failedOwnersTemplateConstant, totals.FailedOwners),
	})
	table.Render()
}

func ownerStatus(owner mirror.OwnerSummary) string {
	switch {
	case owner.Failed() && owner.Kind == hosting.OrganizationOwnerKind:
		return statusSkippedConstant
	case owner.Failed():
		return statusFailedConstant
	case owner.ErrorCount() > 0:
		return statusWithErrorsConstant
	default:
		return statusOKConstant
	}
}
