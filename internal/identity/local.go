package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/keyring"
	"github.com/julianstephens/dailies/internal/logger"
	"github.com/julianstephens/dailies/internal/storage"
)

const resetTokenTTL = time.Hour

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// account is the stored record at accounts/{email}
type account struct {
	UID           string     `json:"uid"`
	Email         string     `json:"email"`
	DisplayName   string     `json:"displayName"`
	PasswordHash  string     `json:"passwordHash"`
	EmailVerified bool       `json:"emailVerified"`
	Disabled      bool       `json:"disabled"`
	CreatedAt     time.Time  `json:"createdAt"`
	FailedLogins  int        `json:"failedLogins"`
	FailureStart  *time.Time `json:"failureStart,omitempty"`
	VerifyToken   string     `json:"verifyToken,omitempty"`
	ResetToken    string     `json:"resetToken,omitempty"`
	ResetExpires  *time.Time `json:"resetExpires,omitempty"`
}

func (a account) user() User {
	return User{
		UID:           a.UID,
		Email:         a.Email,
		DisplayName:   a.DisplayName,
		EmailVerified: a.EmailVerified,
		CreatedAt:     a.CreatedAt,
	}
}

// Local is a Provider backed by the document store. Accounts live under
// accounts/{email} next to the user data.
type Local struct {
	store    storage.Provider
	sessions SessionStore
	mailer   Mailer
	now      func() time.Time
	cost     int

	// EmailPasswordEnabled turns the email/password method on or off.
	EmailPasswordEnabled bool
}

// NewLocal creates a Local provider with email/password sign-in enabled. A
// nil mailer drops account emails.
func NewLocal(store storage.Provider, sessions SessionStore, mailer Mailer) *Local {
	if mailer == nil {
		mailer = DiscardMailer{}
	}
	return &Local{
		store:                store,
		sessions:             sessions,
		mailer:               mailer,
		now:                  time.Now,
		cost:                 bcrypt.DefaultCost,
		EmailPasswordEnabled: true,
	}
}

// SetClock replaces the clock used for rate limiting and session age.
func (l *Local) SetClock(now func() time.Time) {
	l.now = now
}

// SetCost replaces the bcrypt cost used for new password hashes.
func (l *Local) SetCost(cost int) {
	l.cost = cost
}

// NormalizeEmail trims and lowercases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func accountPath(email string) storage.Path {
	return storage.Doc(constants.CollectionAccounts, email)
}

func networkErr(err error) error {
	return &AuthError{Code: CodeNetworkRequestFailed, Err: err}
}

func (l *Local) checkEnabled() error {
	if !l.EmailPasswordEnabled {
		return authErr(CodeOperationNotAllowed, "email/password sign-in is disabled")
	}
	return nil
}

func (l *Local) checkEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return authErr(CodeInvalidEmail, "invalid email %q", email)
	}
	if strings.Contains(email, "/") {
		return authErr(CodeInvalidEmail, "email %q must not contain '/'", email)
	}
	return nil
}

// getAccount returns (nil, nil) when the account does not exist
func (l *Local) getAccount(ctx context.Context, email string) (*account, error) {
	doc, err := l.store.Get(ctx, accountPath(email))
	if storage.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, networkErr(err)
	}
	var acct account
	if err := doc.DataTo(&acct); err != nil {
		return nil, networkErr(err)
	}
	return &acct, nil
}

func (l *Local) putAccount(ctx context.Context, acct *account) error {
	fields, err := storage.Fields(acct)
	if err != nil {
		return networkErr(err)
	}
	if err := l.store.Set(ctx, accountPath(acct.Email), fields); err != nil {
		return networkErr(err)
	}
	return nil
}

func (l *Local) findByToken(ctx context.Context, match func(account) bool) (*account, error) {
	docs, err := l.store.GetCollection(ctx, storage.Collection(constants.CollectionAccounts))
	if err != nil {
		return nil, networkErr(err)
	}
	for _, doc := range docs {
		var acct account
		if err := doc.DataTo(&acct); err != nil {
			continue
		}
		if match(acct) {
			return &acct, nil
		}
	}
	return nil, nil
}

func (l *Local) SignUp(ctx context.Context, email, password, displayName string) (User, error) {
	if err := l.checkEnabled(); err != nil {
		return User{}, err
	}
	email = NormalizeEmail(email)
	displayName = strings.TrimSpace(displayName)
	if err := l.checkEmail(email); err != nil {
		return User{}, err
	}
	if len(password) < constants.MinPasswordLength {
		return User{}, authErr(CodeWeakPassword, "password shorter than %d characters", constants.MinPasswordLength)
	}

	existing, err := l.getAccount(ctx, email)
	if err != nil {
		return User{}, err
	}
	if existing != nil {
		return User{}, authErr(CodeEmailAlreadyInUse, "account %s exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := l.now()
	acct := &account{
		UID:          uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	fields, err := storage.Fields(acct)
	if err != nil {
		return User{}, networkErr(err)
	}

	batch := storage.NewBatch().
		Set(accountPath(email), fields).
		Set(storage.Doc(constants.CollectionUsers, acct.UID), map[string]any{
			"createdAt":   now,
			"displayName": displayName,
			"hobbies":     []string{},
		}, storage.Merge())
	if err := l.store.Commit(ctx, batch); err != nil {
		return User{}, networkErr(err)
	}

	if err := l.startSession(acct); err != nil {
		return User{}, err
	}
	logger.Info("Account created", "uid", acct.UID)

	if err := l.sendVerification(ctx, acct); err != nil {
		return acct.user(), err
	}
	return acct.user(), nil
}

func (l *Local) startSession(acct *account) error {
	err := l.sessions.Save(keyring.Session{UID: acct.UID, Email: acct.Email, SignedInAt: l.now()})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (l *Local) SignIn(ctx context.Context, email, password string) (User, error) {
	if err := l.checkEnabled(); err != nil {
		return User{}, err
	}
	email = NormalizeEmail(email)
	if err := l.checkEmail(email); err != nil {
		return User{}, err
	}

	acct, err := l.getAccount(ctx, email)
	if err != nil {
		return User{}, err
	}
	if acct == nil {
		return User{}, authErr(CodeUserNotFound, "no account for %s", email)
	}
	if acct.Disabled {
		return User{}, authErr(CodeUserDisabled, "account %s is disabled", email)
	}

	now := l.now()
	windowOpen := acct.FailureStart != nil && now.Sub(*acct.FailureStart) < constants.FailedSignInWindow
	if windowOpen && acct.FailedLogins >= constants.MaxFailedSignIns {
		return User{}, authErr(CodeTooManyRequests, "%d failed sign-ins since %s", acct.FailedLogins, acct.FailureStart.Format(time.RFC3339))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		if !windowOpen {
			acct.FailureStart = &now
			acct.FailedLogins = 0
		}
		acct.FailedLogins++
		if err := l.putAccount(ctx, acct); err != nil {
			return User{}, err
		}
		logger.Warn("Failed sign-in", "email", email, "attempts", acct.FailedLogins)
		return User{}, authErr(CodeWrongPassword, "password mismatch for %s", email)
	}

	if acct.FailedLogins > 0 {
		acct.FailedLogins = 0
		acct.FailureStart = nil
		if err := l.putAccount(ctx, acct); err != nil {
			return User{}, err
		}
	}

	if err := l.startSession(acct); err != nil {
		return User{}, err
	}
	logger.Info("Signed in", "uid", acct.UID)
	return acct.user(), nil
}

func (l *Local) SignOut(ctx context.Context) error {
	if err := l.sessions.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// current resolves the session to its account
func (l *Local) current(ctx context.Context) (*account, keyring.Session, error) {
	session, err := l.sessions.Load()
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, keyring.Session{}, ErrNotSignedIn
	}
	if err != nil {
		return nil, keyring.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	acct, err := l.getAccount(ctx, session.Email)
	if err != nil {
		return nil, session, err
	}
	if acct == nil || acct.UID != session.UID {
		// The account was deleted elsewhere.
		_ = l.sessions.Clear()
		return nil, session, ErrNotSignedIn
	}
	if acct.Disabled {
		return nil, session, authErr(CodeUserDisabled, "account %s is disabled", acct.Email)
	}
	return acct, session, nil
}

func (l *Local) CurrentUser(ctx context.Context) (User, error) {
	acct, _, err := l.current(ctx)
	if err != nil {
		return User{}, err
	}
	return acct.user(), nil
}

func (l *Local) Reload(ctx context.Context) (User, error) {
	return l.CurrentUser(ctx)
}

func (l *Local) SendEmailVerification(ctx context.Context) error {
	acct, _, err := l.current(ctx)
	if err != nil {
		return err
	}
	return l.sendVerification(ctx, acct)
}

func (l *Local) sendVerification(ctx context.Context, acct *account) error {
	acct.VerifyToken = uuid.NewString()
	if err := l.putAccount(ctx, acct); err != nil {
		return err
	}
	return l.mailer.Send(ctx, Mail{
		To:      acct.Email,
		Subject: "Verify your email for " + constants.AppName,
		Body:    fmt.Sprintf("Run `%s account verify --token %s` to verify your email address.", constants.AppName, acct.VerifyToken),
		Token:   acct.VerifyToken,
	})
}

// VerifyEmail completes the verification flow started by SendEmailVerification.
func (l *Local) VerifyEmail(ctx context.Context, token string) (User, error) {
	if token == "" {
		return User{}, authErr(CodeInvalidActionCode, "empty verification code")
	}
	acct, err := l.findByToken(ctx, func(a account) bool { return a.VerifyToken == token })
	if err != nil {
		return User{}, err
	}
	if acct == nil {
		return User{}, authErr(CodeInvalidActionCode, "verification code is invalid or already used")
	}
	acct.EmailVerified = true
	acct.VerifyToken = ""
	if err := l.putAccount(ctx, acct); err != nil {
		return User{}, err
	}
	return acct.user(), nil
}

func (l *Local) SendPasswordReset(ctx context.Context, email string) error {
	if err := l.checkEnabled(); err != nil {
		return err
	}
	email = NormalizeEmail(email)
	if err := l.checkEmail(email); err != nil {
		return err
	}
	acct, err := l.getAccount(ctx, email)
	if err != nil {
		return err
	}
	if acct == nil {
		return authErr(CodeUserNotFound, "no account for %s", email)
	}

	expires := l.now().Add(resetTokenTTL)
	acct.ResetToken = uuid.NewString()
	acct.ResetExpires = &expires
	if err := l.putAccount(ctx, acct); err != nil {
		return err
	}
	return l.mailer.Send(ctx, Mail{
		To:      acct.Email,
		Subject: "Reset your " + constants.AppName + " password",
		Body:    fmt.Sprintf("Run `%s account reset-password --token %s` within an hour to choose a new password.", constants.AppName, acct.ResetToken),
		Token:   acct.ResetToken,
	})
}

// ConfirmPasswordReset sets a new password using a code from SendPasswordReset.
func (l *Local) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return authErr(CodeWeakPassword, "password shorter than %d characters", constants.MinPasswordLength)
	}
	if token == "" {
		return authErr(CodeInvalidActionCode, "empty reset code")
	}
	acct, err := l.findByToken(ctx, func(a account) bool { return a.ResetToken == token })
	if err != nil {
		return err
	}
	if acct == nil || acct.ResetExpires == nil || !l.now().Before(*acct.ResetExpires) {
		return authErr(CodeInvalidActionCode, "reset code is invalid or expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), l.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	acct.PasswordHash = string(hash)
	acct.ResetToken = ""
	acct.ResetExpires = nil
	acct.FailedLogins = 0
	acct.FailureStart = nil
	return l.putAccount(ctx, acct)
}

func (l *Local) DeleteCurrentUser(ctx context.Context) error {
	acct, session, err := l.current(ctx)
	if err != nil {
		return err
	}
	if l.now().Sub(session.SignedInAt) > constants.RecentLoginWindow {
		return authErr(CodeRequiresRecentLogin, "last sign-in at %s", session.SignedInAt.Format(time.RFC3339))
	}

	// The account goes first: without it the user tree is unreachable, while
	// an account without its tree would sign in to an empty list.
	if err := l.store.Delete(ctx, accountPath(acct.Email)); err != nil {
		return networkErr(err)
	}
	if err := l.sessions.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if err := l.store.DeleteTree(ctx, storage.Doc(constants.CollectionUsers, acct.UID)); err != nil {
		logger.Warn("Account deleted but its data was not", "uid", acct.UID, "error", err)
		return networkErr(err)
	}
	logger.Info("Account deleted", "uid", acct.UID)
	return nil
}

var _ Provider = (*Local)(nil)
