package services

import (
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"nid-extraction-service/internal/config"
)

const missingDataSubject = "Missing Data Alert"

// SMTPEmailSender notifies the configured operator address when a processed
// document came back with sentinel-valued fields.
type SMTPEmailSender struct {
	config *config.Config
}

func NewSMTPEmailSender(cfg *config.Config) *SMTPEmailSender {
	return &SMTPEmailSender{config: cfg}
}

// NotifyMissing sends a plain-text alert listing the unreadable field names
// and the document id. Best-effort: callers must never roll back an already
// persisted document when the send fails.
func (s *SMTPEmailSender) NotifyMissing(missing map[string]string, id int64) error {
	if len(missing) == 0 {
		return nil
	}

	body := composeMissingBody(missing, id)
	return s.sendEmail([]string{s.config.NotificationEmail}, missingDataSubject, body)
}

// composeMissingBody builds the alert body. Field names are sorted so the
// message is stable for the same missing set.
func composeMissingBody(missing map[string]string, id int64) string {
	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)

	return fmt.Sprintf("The following fields are missing: %s for row %d.", strings.Join(names, ", "), id)
}

func (s *SMTPEmailSender) sendEmail(recipients []string, subject, body string) error {
	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPass, s.config.SMTPHost)

	message := fmt.Sprintf(`From: %s
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/plain; charset=UTF-8

%s`,
		s.config.SMTPFrom,
		strings.Join(recipients, ", "),
		subject,
		body)

	addr := fmt.Sprintf("%s:%s", s.config.SMTPHost, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.SMTPFrom, recipients, []byte(message))
}
