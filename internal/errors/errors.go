// Package errors renders command failures for the terminal.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/dailies/internal/identity"
	"github.com/julianstephens/dailies/internal/logger"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/validation"
)

// Format renders err behind an "Error: " prefix. Sign-in failures use their
// user-facing message, form errors get one line per field, and storage
// failures say whether a read or a save went wrong.
func Format(err error) string {
	if err == nil {
		return ""
	}

	var fields validation.FieldErrors
	var se *storage.Error
	switch {
	case identity.Code(err) != "":
		return "Error: " + identity.Message(err)
	case stderrors.As(err, &fields):
		lines := strings.Split(fields.FormatReport(), "; ")
		return "Error: please fix the following:\n  " + strings.Join(lines, "\n  ")
	case stderrors.Is(err, storage.ErrNotLoaded):
		return fmt.Sprintf("Error: %v. Run 'dailies init' first", err)
	case stderrors.As(err, &se) && se.Op == storage.OpRead:
		return fmt.Sprintf("Error: couldn't load your data: %v", err)
	case stderrors.As(err, &se):
		return fmt.Sprintf("Error: couldn't save your changes: %v", err)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs err, prints it and exits with status 1. A nil err is a no-op.
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err, "auth_code", identity.Code(err))
		fmt.Fprintln(os.Stderr, Format(err))
		os.Exit(1)
	}
}
