// Package mail_services delivers notification emails over SMTP. Delivery is
// fire-and-forget: a failed send is logged and never reaches the caller's
// error channel.
package mail_services

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/Goldexcool/TaskTrekBackend/internal/services/board_services"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

type MailService struct {
	cfg    Config
	server string
	auth   smtp.Auth

	// send is swapped out in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg Config) *MailService {
	return &MailService{
		cfg:    cfg,
		server: cfg.Host + ":" + cfg.Port,
		auth:   smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
		send:   smtp.SendMail,
	}
}

// IsConfigured reports whether outbound mail is enabled.
func (s *MailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.From != ""
}

// Notify implements board_services.Notifier. The send happens on its own
// goroutine so a slow SMTP server never blocks the mutation that raised the
// event.
func (s *MailService) Notify(e board_services.Event) {
	if !s.IsConfigured() || e.To == "" {
		return
	}

	subject, body := s.render(e)
	go func() {
		if err := s.deliver(e.To, subject, body); err != nil {
			log.Printf("ERROR: sending %s notification to %s: %v", e.Kind, e.To, err)
		}
	}()
}

func (s *MailService) render(e board_services.Event) (subject, body string) {
	switch e.Kind {
	case board_services.EventTeamMemberAdded:
		return fmt.Sprintf("You were added to the team %q", e.Title),
			fmt.Sprintf("You are now a member of the team %q.", e.Title)
	case board_services.EventBoardMemberAdded:
		return fmt.Sprintf("You were added to the board %q", e.Title),
			fmt.Sprintf("You are now a member of the board %q.", e.Title)
	case board_services.EventTaskAssigned:
		return fmt.Sprintf("Task assigned to you: %s", e.Title),
			fmt.Sprintf("The task %q was assigned to you.", e.Title)
	default:
		return "TaskTrek notification", e.Title
	}
}

func (s *MailService) deliver(to, subject, body string) error {
	from := s.cfg.From
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
	}

	msg := []byte(fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s\r\n",
		to, from, subject, body))

	return s.send(s.server, s.auth, s.cfg.From, []string{to}, msg)
}
