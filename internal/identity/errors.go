package identity

import (
	"errors"
	"fmt"
)

// Error codes reported by a Provider
const (
	CodeUserNotFound         = "auth/user-not-found"
	CodeWrongPassword        = "auth/wrong-password"
	CodeInvalidCredential    = "auth/invalid-credential"
	CodeEmailAlreadyInUse    = "auth/email-already-in-use"
	CodeWeakPassword         = "auth/weak-password"
	CodeInvalidEmail         = "auth/invalid-email"
	CodeUserDisabled         = "auth/user-disabled"
	CodeTooManyRequests      = "auth/too-many-requests"
	CodeNetworkRequestFailed = "auth/network-request-failed"
	CodeRequiresRecentLogin  = "auth/requires-recent-login"
	CodeOperationNotAllowed  = "auth/operation-not-allowed"
	CodeInvalidActionCode    = "auth/invalid-action-code"
)

// ErrNotSignedIn is returned when an operation needs a current user
var ErrNotSignedIn = errors.New("not signed in")

const defaultMessage = "An unexpected error occurred. Please try again."

var messages = map[string]string{
	CodeUserNotFound:         "No account found with this email address.",
	CodeWrongPassword:        "Invalid email or password. Please check your credentials.",
	CodeInvalidCredential:    "Invalid email or password. Please check your credentials.",
	CodeEmailAlreadyInUse:    "An account with this email already exists.",
	CodeWeakPassword:         "Password should be at least 6 characters long.",
	CodeInvalidEmail:         "Please enter a valid email address.",
	CodeUserDisabled:         "This account has been temporarily disabled. Contact support for assistance.",
	CodeTooManyRequests:      "Too many unsuccessful attempts. Please wait a moment before trying again.",
	CodeNetworkRequestFailed: "Network error. Please check your internet connection and try again.",
	CodeRequiresRecentLogin:  "This operation requires recent authentication. Please log in again.",
	CodeOperationNotAllowed:  "This sign-in method is not enabled. Please contact support.",
}

// AuthError is a provider failure tagged with a stable code
type AuthError struct {
	Code string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func authErr(code string, format string, args ...any) *AuthError {
	return &AuthError{Code: code, Err: fmt.Errorf(format, args...)}
}

// Code extracts the AuthError code from err, or "" if err is not an AuthError
func Code(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// Message maps err to the text shown to the user. Unknown codes fall back to
// the error's own message.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := messages[Code(err)]; ok {
		return msg
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		if ae.Err != nil && ae.Err.Error() != "" {
			return ae.Err.Error()
		}
		return defaultMessage
	}
	if err.Error() != "" {
		return err.Error()
	}
	return defaultMessage
}
