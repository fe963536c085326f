// Package account holds the sign-up, sign-in and account management commands.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/identity"
	"github.com/julianstephens/dailies/internal/logger"
	"github.com/julianstephens/dailies/internal/models"
	"github.com/julianstephens/dailies/internal/validation"
)

// emailVerifier and resetConfirmer are provider features outside the core
// Provider interface.
type emailVerifier interface {
	VerifyEmail(ctx context.Context, token string) (identity.User, error)
}

type resetConfirmer interface {
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

// authFailure turns a provider error into the message shown to the user.
func authFailure(action string, err error) error {
	logger.Debug("Account operation failed", "action", action, "code", identity.Code(err), "error", err)
	return errors.New(identity.Message(err))
}

func runForm(form *huh.Form) error {
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("cancelled")
		}
		return err
	}
	return nil
}

type SignupCmd struct {
	Name     string `help:"Display name."`
	Email    string `help:"Email address."`
	Password string `help:"Password. Prompted for when omitted." env:"DAILIES_PASSWORD"`
}

func (c *SignupCmd) Run(ctx *cli.Context) error {
	confirm := c.Password
	if c.Name == "" || c.Email == "" || c.Password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Name").Value(&c.Name).Validate(validation.Name),
				huh.NewInput().Title("Email").Value(&c.Email).Validate(validation.Email),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).
					Value(&c.Password).Validate(validation.NewPassword),
				huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).
					Value(&confirm).Validate(func(s string) error {
					return validation.Confirmation(c.Password, s)
				}),
			),
		)
		if err := runForm(form); err != nil {
			return err
		}
	}

	if errs := validation.ValidateRegistration(c.Name, c.Email, c.Password, confirm); errs.HasErrors() {
		return errs.Err()
	}

	user, err := ctx.Identity.SignUp(ctx.Ctx(), c.Email, c.Password, c.Name)
	if err != nil && user.UID == "" {
		return authFailure("signup", err)
	}
	if err != nil {
		// The account exists; only the verification mail failed.
		fmt.Printf("Warning: %s\n", identity.Message(err))
	}

	if err := ctx.Lists.Setup(ctx.Ctx(), user.UID, nil, models.ExerciseSelection{}); err != nil {
		return fmt.Errorf("account created but the default daily list could not be saved: %w", err)
	}

	fmt.Printf("✓ Welcome, %s! Your account has been created.\n", user.DisplayName)
	fmt.Println("Check your email for a verification code, then run 'dailies account verify --token CODE'.")
	return nil
}

type SigninCmd struct {
	Email    string `help:"Email address."`
	Password string `help:"Password. Prompted for when omitted." env:"DAILIES_PASSWORD"`
}

func (c *SigninCmd) Run(ctx *cli.Context) error {
	if c.Email == "" || c.Password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Email").Value(&c.Email).Validate(validation.Email),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).
					Value(&c.Password).Validate(validation.LoginPassword),
			),
		)
		if err := runForm(form); err != nil {
			return err
		}
	}

	if errs := validation.ValidateLogin(c.Email, c.Password); errs.HasErrors() {
		return errs.Err()
	}

	user, err := ctx.Identity.SignIn(ctx.Ctx(), c.Email, c.Password)
	if err != nil {
		return authFailure("signin", err)
	}
	fmt.Printf("✓ Signed in as %s\n", user.Email)
	if !user.EmailVerified {
		fmt.Println("Your email is not verified yet. Run 'dailies account verify' to resend the code.")
	}
	return nil
}

type SignoutCmd struct{}

func (c *SignoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Identity.SignOut(ctx.Ctx()); err != nil {
		return authFailure("signout", err)
	}
	fmt.Println("✓ Signed out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	printUser(user)
	return nil
}

func printUser(user identity.User) {
	fmt.Printf("Name:     %s\n", user.DisplayName)
	fmt.Printf("Email:    %s\n", user.Email)
	fmt.Printf("Verified: %v\n", user.EmailVerified)
	fmt.Printf("Joined:   %s\n", user.CreatedAt.Format("2006-01-02"))
}

type VerifyCmd struct {
	Token string `help:"Verification code from the email. Omit to resend the email."`
}

func (c *VerifyCmd) Run(ctx *cli.Context) error {
	if c.Token == "" {
		if err := ctx.Identity.SendEmailVerification(ctx.Ctx()); err != nil {
			return authFailure("send-verification", err)
		}
		fmt.Println("✓ Verification email sent")
		return nil
	}

	v, ok := ctx.Identity.(emailVerifier)
	if !ok {
		return errors.New("this account provider verifies email through the link in the message")
	}
	user, err := v.VerifyEmail(ctx.Ctx(), c.Token)
	if err != nil {
		return authFailure("verify", err)
	}
	fmt.Printf("✓ %s verified\n", user.Email)
	return nil
}

type RefreshCmd struct{}

func (c *RefreshCmd) Run(ctx *cli.Context) error {
	user, err := ctx.Identity.Reload(ctx.Ctx())
	if err != nil {
		return authFailure("refresh", err)
	}
	printUser(user)
	return nil
}

type ResetPasswordCmd struct {
	Email    string `help:"Email address to send the reset code to."`
	Token    string `help:"Reset code from the email."`
	Password string `help:"New password. Prompted for when omitted." env:"DAILIES_PASSWORD"`
}

func (c *ResetPasswordCmd) Run(ctx *cli.Context) error {
	if c.Token == "" {
		return c.request(ctx)
	}

	if c.Password == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).
				Value(&c.Password).Validate(validation.NewPassword),
		))
		if err := runForm(form); err != nil {
			return err
		}
	}
	if err := validation.NewPassword(c.Password); err != nil {
		return err
	}

	r, ok := ctx.Identity.(resetConfirmer)
	if !ok {
		return errors.New("this account provider resets passwords through the link in the message")
	}
	if err := r.ConfirmPasswordReset(ctx.Ctx(), c.Token, c.Password); err != nil {
		return authFailure("confirm-reset", err)
	}
	fmt.Println("✓ Password updated. Sign in with your new password.")
	return nil
}

func (c *ResetPasswordCmd) request(ctx *cli.Context) error {
	if c.Email == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&c.Email).Validate(validation.ResetEmail),
		))
		if err := runForm(form); err != nil {
			return err
		}
	}
	if errs := validation.ValidatePasswordReset(c.Email); errs.HasErrors() {
		return errs.Err()
	}

	if err := ctx.Identity.SendPasswordReset(ctx.Ctx(), c.Email); err != nil {
		return authFailure("reset-password", err)
	}
	fmt.Println("✓ Password reset email sent. Run 'dailies account reset-password --token CODE' to finish.")
	return nil
}

type DeleteCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete the account %s and all of its data?", user.Email)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		))
		if err := runForm(form); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Account deletion cancelled.")
			return nil
		}
	}

	if err := ctx.Identity.DeleteCurrentUser(ctx.Ctx()); err != nil {
		if identity.Code(err) == identity.CodeRequiresRecentLogin {
			return fmt.Errorf("%s Run 'dailies account signin' and try again", identity.Message(err))
		}
		return authFailure("delete", err)
	}
	fmt.Println("✓ Account deleted")
	return nil
}
