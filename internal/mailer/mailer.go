package mailer

import (
	"bytes"
	"fmt"
	"io"

	"go-invoicehub/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer dispatches HTML email, optionally with one attachment. Failures are
// surfaced to callers; nothing here retries.
type Mailer interface {
	Send(to, subject, htmlBody string) error
	SendWithAttachment(to, subject, htmlBody string, attachment []byte, filename string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(cfg *config.Config) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	return m.send(to, subject, htmlBody, nil, "")
}

func (m *smtpMailer) SendWithAttachment(to, subject, htmlBody string, attachment []byte, filename string) error {
	return m.send(to, subject, htmlBody, attachment, filename)
}

func (m *smtpMailer) send(to, subject, htmlBody string, attachment []byte, filename string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if attachment != nil {
		msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(attachment))
			return err
		}))
	}

	return m.dialer.DialAndSend(msg)
}

// OTPBody renders the verification-code mail.
func OTPBody(code string) string {
	return fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 480px; margin: 0 auto;">
	  <h2 style="color: #1e293b;">Your verification code</h2>
	  <p style="color: #475569;">Use the code below to continue. It expires in 10 minutes.</p>
	  <p style="font-size: 32px; letter-spacing: 8px; font-weight: bold; color: #4f46e5;">%s</p>
	  <p style="color: #94a3b8; font-size: 12px;">If you did not request this, you can safely ignore this email.</p>
	</div>`, code)
}

// ReminderBody renders the invoice reminder mail.
func ReminderBody(businessName, customerName, invoiceNo, date, status, amount string) string {
	return fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #e2e8f0; border-radius: 8px; overflow: hidden;">
	  <div style="background-color: #4f46e5; padding: 24px; text-align: center;">
	    <h1 style="color: #ffffff; margin: 0; font-size: 24px;">%s</h1>
	  </div>
	  <div style="padding: 30px; background-color: #ffffff;">
	    <p style="font-size: 16px; color: #1e293b;">Dear <strong>%s</strong>,</p>
	    <p style="font-size: 15px; color: #475569;">Thank you for your business. Please find attached the invoice for your recent purchase.</p>
	    <table style="width: 100%%; border-collapse: collapse; margin: 25px 0;">
	      <tr><td style="color: #64748b;">Invoice No:</td><td style="text-align: right; font-weight: bold;">#%s</td></tr>
	      <tr><td style="color: #64748b;">Date:</td><td style="text-align: right; font-weight: bold;">%s</td></tr>
	      <tr><td style="color: #64748b;">Status:</td><td style="text-align: right; font-weight: bold;">%s</td></tr>
	      <tr><td style="font-weight: bold; border-top: 1px solid #e2e8f0;">Total Amount:</td><td style="text-align: right; font-weight: bold; color: #4f46e5; border-top: 1px solid #e2e8f0;">%s</td></tr>
	    </table>
	    <p style="font-size: 14px; color: #475569;">Ignore if already paid.</p>
	    <p style="font-size: 12px; color: #94a3b8; text-align: center; border-top: 1px solid #e2e8f0; padding-top: 16px;">Regards,<br><strong>%s</strong></p>
	  </div>
	</div>`, businessName, customerName, invoiceNo, date, status, amount, businessName)
}
