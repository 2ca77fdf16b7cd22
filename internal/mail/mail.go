package mail

import (
	"context"
	"log"
	"strings"
)

// Mail is one outgoing message. The web app only ever composes and hands
// these off; actual delivery is an external collaborator reached through
// a Sender.
type Mail struct {
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Sender     string   `json:"sender"`
	Recipients []string `json:"recipients"`
}

// Sender delivers outgoing mail, or hands it to something that will.
type Sender interface {
	Send(ctx context.Context, m Mail) error
	Close() error
}

// LogSender writes mail to the server log instead of delivering it.
// This is the default: the system has no SMTP integration, and nothing
// on the critical path may block on a network call.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(_ context.Context, m Mail) error {
	log.Printf("mail (not delivered): to=%s subject=%q\n%s",
		strings.Join(m.Recipients, ","), m.Subject, m.Body)
	return nil
}

func (s *LogSender) Close() error {
	return nil
}
