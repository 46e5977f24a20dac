package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/casekit/caseflow/internal/domain"
)

// sendMailFunc matches smtp.SendMail and is swapped out in tests.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier delivers notifications as plain-text email through a single
// SMTP relay.
type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth
	send sendMailFunc
}

var _ Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier creates a notifier for the given relay address
// (host:port) and sender. Auth may be nil for open relays.
func NewSMTPNotifier(addr, from string, auth smtp.Auth) *SMTPNotifier {
	return &SMTPNotifier{
		addr: addr,
		from: from,
		auth: auth,
		send: smtp.SendMail,
	}
}

// Notify sends one email. The context is checked before dialing; smtp.SendMail
// itself does not take a context.
func (n *SMTPNotifier) Notify(ctx context.Context, address, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotification, err)
	}
	if address == "" {
		return fmt.Errorf("%w: empty recipient", domain.ErrNotification)
	}

	msg := buildMessage(n.from, address, subject, body)
	if err := n.send(n.addr, n.auth, n.from, []string{address}, msg); err != nil {
		return fmt.Errorf("%w: send to %s: %w", domain.ErrNotification, address, err)
	}
	return nil
}

// buildMessage renders a minimal RFC 5322 plain-text message.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
