package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	appLog "surfwatch/internal/log"
)

// SendGridNotifier delivers the report through the SendGrid v3 API as a
// single mail addressed to all recipients, with plain and HTML bodies.
type SendGridNotifier struct {
	apiKey     string
	from       string
	recipients []string
}

// NewSendGrid creates a SendGrid-backed notifier. from must be a sender
// address verified with SendGrid.
func NewSendGrid(apiKey, from string, recipients []string) *SendGridNotifier {
	return &SendGridNotifier{apiKey: apiKey, from: from, recipients: recipients}
}

func (n *SendGridNotifier) Notify(ctx context.Context, s Summary) error {
	html, err := HTMLBody(s)
	if err != nil {
		return err
	}

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail("Waco Surf Watch", n.from))
	m.Subject = Subject(s)

	p := mail.NewPersonalization()
	for _, rcpt := range n.recipients {
		p.AddTos(mail.NewEmail("", rcpt))
	}
	m.AddPersonalizations(p)

	m.AddContent(
		mail.NewContent("text/plain", PlainBody(s)),
		mail.NewContent("text/html", html),
	)

	client := sendgrid.NewSendClient(n.apiKey)
	resp, err := client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}

	appLog.Info("report sent via sendgrid", "recipient_count", len(n.recipients), "status", resp.StatusCode)
	return nil
}
