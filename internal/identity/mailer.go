package identity

import (
	"context"
	"fmt"
	"io"
)

// Mail is an outgoing account email
type Mail struct {
	To      string
	Subject string
	Body    string
	// Token is the one-time code carried by the message
	Token string
}

// Mailer delivers account emails
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// WriterMailer prints mail to W. It stands in for a real mail service on a
// local install.
type WriterMailer struct {
	W io.Writer
}

func (m WriterMailer) Send(ctx context.Context, mail Mail) error {
	_, err := fmt.Fprintf(m.W, "To: %s\nSubject: %s\n\n%s\n", mail.To, mail.Subject, mail.Body)
	return err
}

// DiscardMailer drops every message.
type DiscardMailer struct{}

func (DiscardMailer) Send(ctx context.Context, mail Mail) error {
	return nil
}
