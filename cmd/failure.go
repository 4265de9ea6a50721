package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jpi-tools/schedule-export/core/model"
	"github.com/jpi-tools/schedule-export/infra/jpi"
)

const persistLine = "If the issue persists, please contact your JPI representative."

// failureLines turns an export error into the console explanation shown to
// the planner.
func failureLines(err error, path string) []string {
	switch {
	case errors.Is(err, context.Canceled):
		return []string{"The export was interrupted."}
	case errors.Is(err, os.ErrPermission), heldByProcess(err):
		return []string{
			fmt.Sprintf("The file %s is currently open by another process", path),
			"Please close the file and try again.",
		}
	case errors.Is(err, jpi.ErrJPI):
		return []string{"A JPI related issue has occurred. Please try again later.", persistLine}
	case errors.Is(err, model.ErrShape), errors.Is(err, model.ErrParse):
		return []string{"Invalid data detected. Please try again later.", persistLine}
	}
	return []string{"An unexpected error has occurred. Please try again later.", persistLine}
}
