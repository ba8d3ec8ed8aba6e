package services

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailMessage is a single outbound email.
type EmailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers email messages.
type Sender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SendGridSender delivers mail through the SendGrid API.
type SendGridSender struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
	sandbox     bool
}

func NewSendGridSender(apiKey, fromName, fromAddress string, sandbox bool) *SendGridSender {
	return &SendGridSender{
		client:      sendgrid.NewSendClient(apiKey),
		fromName:    fromName,
		fromAddress: fromAddress,
		sandbox:     sandbox,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	from := mail.NewEmail(s.fromName, s.fromAddress)
	to := mail.NewEmail("", msg.To)
	m := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)
	if s.sandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		m.MailSettings = ms
	}

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send email to %s: sendgrid returned status %d", msg.To, resp.StatusCode)
	}
	return nil
}

// MemorySender records messages instead of delivering them. Used in
// tests and local development.
type MemorySender struct {
	mu       sync.Mutex
	messages []EmailMessage
}

func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

func (s *MemorySender) Send(_ context.Context, msg EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// Messages returns a copy of everything sent so far.
func (s *MemorySender) Messages() []EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EmailMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// EmailService builds and sends the account workflow emails.
type EmailService struct {
	sender  Sender
	siteURL string
}

func NewEmailService(sender Sender, siteURL string) *EmailService {
	return &EmailService{sender: sender, siteURL: siteURL}
}

// SendConfirmation mails a verification link for the given address.
func (s *EmailService) SendConfirmation(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/confirm?token=%s", s.siteURL, url.QueryEscape(token))
	msg := EmailMessage{
		To:      to,
		Subject: "Confirm your email address",
		Text:    fmt.Sprintf("Please confirm your email address by visiting %s", link),
		HTML:    fmt.Sprintf(`<p>Please confirm your email address by clicking <a href="%s">this link</a>.</p>`, link),
	}
	return s.sender.Send(ctx, msg)
}

// SendInvite mails a signup invitation carrying the given code. When
// signupURL is empty the configured site signup page is used.
func (s *EmailService) SendInvite(ctx context.Context, to, code, signupURL string) error {
	if signupURL == "" {
		signupURL = s.siteURL + "/signup"
	}
	link := fmt.Sprintf("%s?code=%s", signupURL, url.QueryEscape(code))
	msg := EmailMessage{
		To:      to,
		Subject: "You have been invited to join",
		Text:    fmt.Sprintf("You have been invited to create an account. Sign up at %s using the code %s.", link, code),
		HTML:    fmt.Sprintf(`<p>You have been invited to create an account. <a href="%s">Sign up here</a> using the code <strong>%s</strong>.</p>`, link, code),
	}
	return s.sender.Send(ctx, msg)
}
