package email

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/go-gomail/gomail"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Sender delivers prepared messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Attachment is an in-memory file joined to a message
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// DocumentMail describes the mail carrying a rendered quote or invoice
type DocumentMail struct {
	To         string
	Subject    string
	Title      string
	Identifier string
	IssuerName string
	Attachment Attachment
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	sender Sender
	tmpl   *template.Template
}

// NewEmailService creates a new email service backed by an SMTP dialer
func NewEmailService(config EmailConfig) *EmailService {
	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword)
	return NewEmailServiceWithSender(config, dialer)
}

// NewEmailServiceWithSender creates an email service delivering through sender
func NewEmailServiceWithSender(config EmailConfig, sender Sender) *EmailService {
	return &EmailService{
		config: config,
		sender: sender,
		tmpl:   template.Must(template.New("document").Parse(documentTemplate)),
	}
}

// SendDocument sends a rendered document as a PDF attachment
func (s *EmailService) SendDocument(mail DocumentMail) error {
	msg, err := s.buildDocumentMessage(mail)
	if err != nil {
		return err
	}

	if err := s.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) buildDocumentMessage(mail DocumentMail) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := s.tmpl.Execute(&body, mail); err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/html", body.String())

	att := mail.Attachment
	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	msg.Attach(att.Name,
		gomail.SetHeader(map[string][]string{"Content-Type": {contentType}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(att.Data)
			return err
		}),
	)
	return msg, nil
}

const documentTemplate = `<!DOCTYPE html>
<html lang="fr">
<body style="margin: 0; padding: 24px; font-family: Helvetica, Arial, sans-serif; color: #1a1a2e;">
    <p>Bonjour,</p>
    <p>Veuillez trouver ci-joint {{.Title}} n° <strong>{{.Identifier}}</strong>.</p>
    <p>Nous restons à votre disposition pour toute question.</p>
    <p>Cordialement,<br>{{if .IssuerName}}{{.IssuerName}}{{end}}</p>
</body>
</html>
`
