package notify

import (
	"context"
	"time"

	"github.com/seventattoolv/vision-intake/internal/intake"
	"github.com/seventattoolv/vision-intake/pkg/logging"
)

// Delivery reports where a notification actually went after recipient and
// sender resolution.
type Delivery struct {
	To   string
	From string
}

// IntakeNotifier renders and sends the operator notification for one intake
// submission, plus a confirmation copy to the applicant.
type IntakeNotifier struct {
	sender           Sender
	receiver         string
	from             string
	sendConfirmation bool
	logger           *logging.Logger
	now              func() time.Time
}

// IntakeNotifierConfig holds addressing for the notifier. Receiver and From
// must already be resolved through the environment fallback chain.
type IntakeNotifierConfig struct {
	Receiver         string
	From             string
	SendConfirmation bool
}

// NewIntakeNotifier creates a notifier. A nil sender is allowed and surfaces
// as ErrNotConfigured on the first send attempt.
func NewIntakeNotifier(sender Sender, cfg IntakeNotifierConfig, logger *logging.Logger) *IntakeNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &IntakeNotifier{
		sender:           sender,
		receiver:         cfg.Receiver,
		from:             cfg.From,
		sendConfirmation: cfg.SendConfirmation,
		logger:           logger,
		now:              time.Now,
	}
}

// Notify sends the studio notification. The payload-level recipient override
// wins over the configured receiver. The studio email is the success
// criterion; a failed confirmation copy is logged and swallowed.
func (n *IntakeNotifier) Notify(ctx context.Context, rec *intake.Record, dbStatus string) (Delivery, error) {
	if n.sender == nil {
		return Delivery{}, ErrNotConfigured
	}

	to := n.receiver
	if rec.NotifyEmail != "" {
		to = rec.NotifyEmail
	}
	delivery := Delivery{To: to, From: n.from}

	subject, body, html, err := renderNotification(rec, dbStatus, n.now())
	if err != nil {
		return delivery, err
	}

	msg := Message{
		To:      to,
		Subject: subject,
		Body:    body,
		HTML:    html,
		ReplyTo: rec.Email,
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return delivery, err
	}

	if n.sendConfirmation && rec.Email != "" {
		confSubject, confBody, err := renderConfirmation(rec)
		if err != nil {
			n.logger.Error("confirmation render failed", "error", err, "to", rec.Email)
			return delivery, nil
		}
		conf := Message{
			To:      rec.Email,
			ToName:  rec.FullName,
			Subject: confSubject,
			Body:    confBody,
		}
		if err := n.sender.Send(ctx, conf); err != nil {
			n.logger.Error("confirmation send failed", "error", err, "to", rec.Email)
		}
	}

	return delivery, nil
}
