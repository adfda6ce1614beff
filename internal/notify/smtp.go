package notify

import (
	"context"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"

	appLog "surfwatch/internal/log"
)

// SMTPNotifier delivers the report over authenticated SMTP with implicit
// TLS (smtps, typically port 465), as a multipart/alternative message
// with plain and HTML bodies. The authenticated user doubles as the
// sender address.
type SMTPNotifier struct {
	host       string
	port       int
	user       string
	pass       string
	recipients []string
}

// NewSMTP creates an SMTP-backed notifier.
func NewSMTP(host string, port int, user, pass string, recipients []string) *SMTPNotifier {
	// App passwords pasted out of the Gmail UI sometimes carry
	// non-breaking spaces instead of plain ones.
	pass = strings.ReplaceAll(pass, " ", " ")
	return &SMTPNotifier{host: host, port: port, user: user, pass: pass, recipients: recipients}
}

func (n *SMTPNotifier) Notify(ctx context.Context, s Summary) error {
	html, err := HTMLBody(s)
	if err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.From(n.user); err != nil {
		return fmt.Errorf("smtp sender %q: %w", n.user, err)
	}
	if err := msg.To(n.recipients...); err != nil {
		return fmt.Errorf("smtp recipients: %w", err)
	}
	msg.Subject(Subject(s))
	msg.SetBodyString(gomail.TypeTextPlain, PlainBody(s))
	msg.AddAlternativeString(gomail.TypeTextHTML, html)

	client, err := gomail.NewClient(n.host,
		gomail.WithPort(n.port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(n.user),
		gomail.WithPassword(n.pass),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	appLog.Info("report sent via smtp", "host", n.host, "recipient_count", len(n.recipients))
	return nil
}
