package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/julianstephens/dailies/internal/constants"
)

// Field names used as FieldErrors keys
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// FieldErrors maps a form field to its first failing rule
type FieldErrors map[string]string

// HasErrors returns true if any field failed
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

// Error joins the messages in field order so FieldErrors can be returned as an error
func (fe FieldErrors) Error() string {
	return fe.FormatReport()
}

// FormatReport returns a human-readable report of all failing fields
func (fe FieldErrors) FormatReport() string {
	if !fe.HasErrors() {
		return "No validation errors."
	}
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return fieldRank(fields[i]) < fieldRank(fields[j]) })

	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", field, fe[field])
	}
	return b.String()
}

func fieldRank(field string) int {
	switch field {
	case FieldName:
		return 0
	case FieldEmail:
		return 1
	case FieldPassword:
		return 2
	case FieldConfirmPassword:
		return 3
	}
	return 4
}

// Err returns fe as an error, or nil when every field passed
func (fe FieldErrors) Err() error {
	if !fe.HasErrors() {
		return nil
	}
	return fe
}

func (fe FieldErrors) check(field string, err error) {
	if err != nil {
		fe[field] = err.Error()
	}
}

// Name checks a display name
func Name(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("Full name is required")
	}
	if len([]rune(name)) < constants.MinDisplayNameLen {
		return fmt.Errorf("Name must be at least %d characters", constants.MinDisplayNameLen)
	}
	return nil
}

// Email checks an email address
func Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return errors.New("Please enter a valid email address")
	}
	return nil
}

// LoginPassword checks a password on the sign-in form
func LoginPassword(password string) error {
	if password == "" {
		return errors.New("Password is required")
	}
	if len(password) < constants.MinPasswordLength {
		return fmt.Errorf("Password must be at least %d characters", constants.MinPasswordLength)
	}
	return nil
}

// NewPassword checks a password being chosen at registration or reset
func NewPassword(password string) error {
	if err := LoginPassword(password); err != nil {
		return err
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return errors.New("Password must contain uppercase, lowercase, and number")
	}
	return nil
}

// Confirmation checks that the confirmation matches password
func Confirmation(password, confirm string) error {
	if confirm == "" {
		return errors.New("Please confirm your password")
	}
	if confirm != password {
		return errors.New("Passwords do not match")
	}
	return nil
}

// ResetEmail checks the address on the password-reset form
func ResetEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("Email address is required")
	}
	return Email(email)
}

// ValidateRegistration checks the sign-up form
func ValidateRegistration(name, email, password, confirm string) FieldErrors {
	fe := FieldErrors{}
	fe.check(FieldName, Name(name))
	fe.check(FieldEmail, Email(email))
	fe.check(FieldPassword, NewPassword(password))
	fe.check(FieldConfirmPassword, Confirmation(password, confirm))
	return fe
}

// ValidateLogin checks the sign-in form
func ValidateLogin(email, password string) FieldErrors {
	fe := FieldErrors{}
	fe.check(FieldEmail, Email(email))
	fe.check(FieldPassword, LoginPassword(password))
	return fe
}

// ValidatePasswordReset checks the forgot-password form
func ValidatePasswordReset(email string) FieldErrors {
	fe := FieldErrors{}
	fe.check(FieldEmail, ResetEmail(email))
	return fe
}
