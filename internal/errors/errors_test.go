package errors

import (
	"fmt"
	"testing"

	"github.com/julianstephens/dailies/internal/identity"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/validation"
)

func TestFormat(t *testing.T) {
	path := storage.Doc("users", "u1")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"simple error", fmt.Errorf("boom"), "Error: boom"},
		{"wrapped error", fmt.Errorf("saving status: %w", fmt.Errorf("disk full")), "Error: saving status: disk full"},
		{
			"auth error",
			fmt.Errorf("signin: %w", &identity.AuthError{Code: "auth/email-already-in-use"}),
			"Error: " + identity.Message(&identity.AuthError{Code: "auth/email-already-in-use"}),
		},
		{
			"field errors",
			validation.FieldErrors{validation.FieldEmail: "Email is required", validation.FieldName: "Name is required"},
			"Error: please fix the following:\n  name: Name is required\n  email: Email is required",
		},
		{"not loaded", storage.ErrNotLoaded, "Error: storage not loaded. Run 'dailies init' first"},
		{
			"failed read",
			storage.Wrap(storage.OpRead, path, fmt.Errorf("timeout")),
			"Error: couldn't load your data: storage read users/u1 failed: timeout",
		},
		{
			"failed write",
			storage.Wrap(storage.OpWrite, path, fmt.Errorf("disk full")),
			"Error: couldn't save your changes: storage write users/u1 failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
