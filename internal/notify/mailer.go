package notify

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"github.com/iliyamo/hotel-reservation/internal/config"
)

// ErrMailerUnavailable is returned while the SMTP circuit is open.
var ErrMailerUnavailable = errors.New("mailer unavailable")

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends mail through an SMTP relay.  Consecutive failures
// trip a circuit breaker so a dead relay is not hammered for every
// queued notification.
type SMTPMailer struct {
	from    string
	dialer  dialer
	breaker *gobreaker.CircuitBreaker
}

func NewSMTPMailer(cfg config.SMTPConfig, log logrus.FieldLogger) *SMTPMailer {
	return newSMTPMailer(cfg.From, gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass), log)
}

func newSMTPMailer(from string, d dialer, log logrus.FieldLogger) *SMTPMailer {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "SMTP",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("circuit breaker state changed")
		},
	})
	return &SMTPMailer{from: from, dialer: d, breaker: cb}
}

func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Body)

	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.dialer.DialAndSend(msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrMailerUnavailable
	}
	return err
}

// LogMailer writes emails to the log instead of sending them.  It is
// used when no SMTP host is configured.
type LogMailer struct {
	log logrus.FieldLogger
}

func NewLogMailer(log logrus.FieldLogger) *LogMailer { return &LogMailer{log: log} }

func (l *LogMailer) Send(_ context.Context, m Message) error {
	l.log.WithFields(logrus.Fields{"to": m.To, "subject": m.Subject}).Info(m.Body)
	return nil
}

// NewMailer picks the SMTP mailer when a host is configured.
func NewMailer(cfg config.SMTPConfig, log logrus.FieldLogger) Mailer {
	if cfg.Host == "" {
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg, log)
}
