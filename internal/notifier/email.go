package notifier

import (
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/DekuWorks/241RunnersAwareness-sub005/config"
)

// EmailNotifier escalates emergency alerts to the on-call address.
// With no SMTP host configured it logs a simulated send, which keeps
// local development working without a mail relay.
type EmailNotifier struct {
	host   string
	port   int
	user   string
	pass   string
	onCall string
}

func NewEmailNotifier(cfg config.Config) *EmailNotifier {
	return &EmailNotifier{
		host:   cfg.SMTPHost,
		port:   cfg.SMTPPort,
		user:   cfg.SMTPUser,
		pass:   cfg.SMTPPass,
		onCall: cfg.OnCallEmail,
	}
}

func (n *EmailNotifier) EscalateAlert(subject, body string) error {
	if n.host == "" || n.onCall == "" {
		log.Info().
			Str("subject", subject).
			Msg("Simulated escalation email (SMTP not configured)")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.user)
	m.SetHeader("To", n.onCall)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.host, n.port, n.user, n.pass)
	if err := d.DialAndSend(m); err != nil {
		return err
	}
	log.Info().Str("to", n.onCall).Str("subject", subject).Msg("Escalation email sent")
	return nil
}
