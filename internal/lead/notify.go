package lead

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/schema"
	"github.com/mailgun/mailgun-go/v4"
)

// notifyTimeout bounds a single Mailgun send.
const notifyTimeout = 20 * time.Second

// MailgunNotifier emails accepted leads to the advisor inbox.
type MailgunNotifier struct {
	mg      mailgun.Mailgun
	sender  string
	advisor string
}

// NewMailgunNotifier creates a notifier for the given Mailgun domain.
func NewMailgunNotifier(domain, apiKey, sender, advisor string) *MailgunNotifier {
	return &MailgunNotifier{
		mg:      mailgun.NewMailgun(domain, apiKey),
		sender:  sender,
		advisor: advisor,
	}
}

// Notify sends a plain-text copy of the lead.
func (n *MailgunNotifier) Notify(ctx context.Context, req schema.ConsultRequest, imageURL string) error {
	subject := fmt.Sprintf("New consultation: %s (%s, %s)", req.Name, req.Model, req.Hardware)
	message := n.mg.NewMessage(n.sender, subject, leadText(req, imageURL), n.advisor)
	message.SetReplyTo(req.Email)

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	resp, id, err := n.mg.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("mailgun send failed: %w. Response: %s", err, resp)
	}
	contract.Logger.Info().Str("id", id).Str("to", n.advisor).Msg("Advisor notified via Mailgun")
	return nil
}

// leadText renders the lead as the advisor reads it.
func leadText(req schema.ConsultRequest, imageURL string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", req.Name)
	fmt.Fprintf(&sb, "Email: %s\n", req.Email)
	fmt.Fprintf(&sb, "Model: %s\n", req.Model)
	fmt.Fprintf(&sb, "Hardware: %s\n", req.Hardware)
	fmt.Fprintf(&sb, "Leather: %s\n", req.Leather)
	if req.Size != "" {
		fmt.Fprintf(&sb, "Size: %s\n", req.Size)
	}
	if imageURL != "" {
		fmt.Fprintf(&sb, "Image: %s\n", imageURL)
	}
	if req.Message != "" {
		fmt.Fprintf(&sb, "\n%s\n", req.Message)
	}
	return sb.String()
}

// NoopNotifier drops notifications when Mailgun is not configured.
type NoopNotifier struct{}

// Notify does nothing.
func (NoopNotifier) Notify(context.Context, schema.ConsultRequest, string) error { return nil }
