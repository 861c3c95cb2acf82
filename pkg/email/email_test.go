package email

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-gomail/gomail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	messages []*gomail.Message
	err      error
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	r.messages = append(r.messages, m...)
	return r.err
}

func sampleMail() DocumentMail {
	return DocumentMail{
		To:         "client@example.fr",
		Subject:    "Devis DEV-2024-001",
		Title:      "le devis",
		Identifier: "DEV-2024-001",
		IssuerName: "Studio Lumière",
		Attachment: Attachment{Name: "devis-dev-2024-001.pdf", Data: []byte("%PDF-1.3 test")},
	}
}

func TestSendDocument(t *testing.T) {
	sender := &recordingSender{}
	svc := NewEmailServiceWithSender(EmailConfig{FromEmail: "no-reply@studio.fr", FromName: "Studio"}, sender)

	require.NoError(t, svc.SendDocument(sampleMail()))
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0]
	assert.Equal(t, []string{"client@example.fr"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Devis DEV-2024-001"}, msg.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err := msg.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "devis-dev-2024-001.pdf")
	assert.Contains(t, raw.String(), "application/pdf")
}

func TestSendDocumentPropagatesFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection refused")}
	svc := NewEmailServiceWithSender(EmailConfig{FromEmail: "no-reply@studio.fr"}, sender)

	err := svc.SendDocument(sampleMail())
	assert.ErrorContains(t, err, "connection refused")
}
