package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		email    string
		password string
		confirm  string
		want     map[string]string
	}{
		{
			name:     "valid",
			fullName: "Ada Lovelace",
			email:    "ada@example.com",
			password: "Secret1",
			confirm:  "Secret1",
			want:     map[string]string{},
		},
		{
			name: "all empty",
			want: map[string]string{
				FieldName:            "Full name is required",
				FieldEmail:           "Email is required",
				FieldPassword:        "Password is required",
				FieldConfirmPassword: "Please confirm your password",
			},
		},
		{
			name:     "short name and bad email",
			fullName: " A ",
			email:    "ada@example",
			password: "Secret1",
			confirm:  "Secret1",
			want: map[string]string{
				FieldName:  "Name must be at least 2 characters",
				FieldEmail: "Please enter a valid email address",
			},
		},
		{
			name:     "short password",
			fullName: "Ada",
			email:    "ada@example.com",
			password: "Ab1",
			confirm:  "Ab1",
			want:     map[string]string{FieldPassword: "Password must be at least 6 characters"},
		},
		{
			name:     "weak password",
			fullName: "Ada",
			email:    "ada@example.com",
			password: "secret12",
			confirm:  "secret12",
			want:     map[string]string{FieldPassword: "Password must contain uppercase, lowercase, and number"},
		},
		{
			name:     "mismatch",
			fullName: "Ada",
			email:    "ada@example.com",
			password: "Secret1",
			confirm:  "Secret2",
			want:     map[string]string{FieldConfirmPassword: "Passwords do not match"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateRegistration(tt.fullName, tt.email, tt.password, tt.confirm)
			if len(got) != len(tt.want) {
				t.Fatalf("ValidateRegistration() = %v, want %v", got, tt.want)
			}
			for field, msg := range tt.want {
				if got[field] != msg {
					t.Errorf("%s = %q, want %q", field, got[field], msg)
				}
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     map[string]string
	}{
		{name: "valid", email: " ada@example.com ", password: "whatever", want: map[string]string{}},
		{name: "login does not enforce complexity", email: "ada@example.com", password: "abcdef", want: map[string]string{}},
		{
			name: "empty",
			want: map[string]string{FieldEmail: "Email is required", FieldPassword: "Password is required"},
		},
		{
			name:     "short password",
			email:    "ada@example.com",
			password: "abc",
			want:     map[string]string{FieldPassword: "Password must be at least 6 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateLogin(tt.email, tt.password)
			if len(got) != len(tt.want) {
				t.Fatalf("ValidateLogin() = %v, want %v", got, tt.want)
			}
			for field, msg := range tt.want {
				if got[field] != msg {
					t.Errorf("%s = %q, want %q", field, got[field], msg)
				}
			}
		})
	}
}

func TestValidatePasswordReset(t *testing.T) {
	if got := ValidatePasswordReset("  "); got[FieldEmail] != "Email address is required" {
		t.Errorf("empty email = %q", got[FieldEmail])
	}
	if got := ValidatePasswordReset("nope"); got[FieldEmail] != "Please enter a valid email address" {
		t.Errorf("invalid email = %q", got[FieldEmail])
	}
	if got := ValidatePasswordReset("ada@example.com"); got.HasErrors() {
		t.Errorf("valid email returned %v", got)
	}
}

func TestFieldErrorsAsError(t *testing.T) {
	if err := (FieldErrors{}).Err(); err != nil {
		t.Errorf("empty FieldErrors.Err() = %v, want nil", err)
	}

	err := ValidateLogin("", "").Err()
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("errors.As(%v, FieldErrors) = false", err)
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "email: Email is required") || !strings.Contains(msg, "password: Password is required") {
		t.Errorf("Error() = %q, want email before password", msg)
	}
}
