// Package identity signs users in and manages their accounts.
package identity

import (
	"context"
	"time"
)

// User is the signed-in account as seen by the rest of the app
type User struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
	CreatedAt     time.Time
}

// Provider is the account service the app talks to. Failures are *AuthError
// values and are never retried.
type Provider interface {
	SignUp(ctx context.Context, email, password, displayName string) (User, error)
	SignIn(ctx context.Context, email, password string) (User, error)
	SignOut(ctx context.Context) error
	// CurrentUser returns ErrNotSignedIn when no session exists.
	CurrentUser(ctx context.Context) (User, error)
	SendEmailVerification(ctx context.Context) error
	// Reload re-reads the current user from the provider.
	Reload(ctx context.Context) (User, error)
	SendPasswordReset(ctx context.Context, email string) error
	DeleteCurrentUser(ctx context.Context) error
}
