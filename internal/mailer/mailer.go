package mailer

import (
	"errors"
	"fmt"
	"log"
	"net/textproto"
	"os"
	"time"

	"github.com/kitchenops/kitchenreport/internal/models"

	"gopkg.in/gomail.v2"
)

// maxAttachmentBytes is the provider's attachment ceiling.
const maxAttachmentBytes = 25 * 1024 * 1024

// Mailer delivers the monthly report over authenticated SMTP submission with
// STARTTLS. Every failure is logged and returned; nothing here may crash the
// run.
type Mailer struct {
	host       string
	port       int
	sender     string
	password   string
	recipients []string
}

func New(cfg *models.Config) *Mailer {
	return &Mailer{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		sender:     cfg.SenderEmail,
		password:   cfg.SenderPassword,
		recipients: cfg.Recipients(),
	}
}

// Send emails the report file as an attachment and deletes the local copy
// once the message is accepted. Missing configuration or an oversized file
// aborts the dispatch without sending.
func (m *Mailer) Send(path string, window models.ReportWindow) error {
	if m.sender == "" || m.password == "" || len(m.recipients) == 0 {
		log.Printf("missing email configuration, required: SENDER_EMAIL, SENDER_PASSWORD, RECIPIENT_EMAIL")
		return errors.New("missing email configuration")
	}

	info, err := os.Stat(path)
	if err != nil {
		log.Printf("report file %s does not exist: %v", path, err)
		return fmt.Errorf("report file missing: %w", err)
	}
	log.Printf("report file size: %d bytes", info.Size())
	if info.Size() > maxAttachmentBytes {
		log.Printf("report file too large for email: %.2fMB", float64(info.Size())/1024/1024)
		return fmt.Errorf("report file too large: %d bytes", info.Size())
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", m.recipients...)
	msg.SetHeader("Subject", fmt.Sprintf("%s - التقرير الشهري لزمن الخدمة", window.MonthName()))
	msg.SetBody("text/html", bodyHTML(window))
	msg.Attach(path)

	log.Printf("sending monthly report email to %d recipient(s)...", len(m.recipients))

	dialer := gomail.NewDialer(m.host, m.port, m.sender, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		var protoErr *textproto.Error
		switch {
		case errors.As(err, &protoErr) && (protoErr.Code == 535 || protoErr.Code == 530):
			log.Printf("SMTP authentication failed, check the sender credentials (app password): %v", err)
		case errors.As(err, &protoErr):
			log.Printf("SMTP error %d: %v", protoErr.Code, err)
		default:
			log.Printf("error sending monthly email: %v", err)
		}
		return fmt.Errorf("sending report email: %w", err)
	}

	log.Printf("monthly email sent successfully")

	if err := os.Remove(path); err != nil {
		log.Printf("could not delete temporary report file %s: %v", path, err)
	} else {
		log.Printf("temporary report file deleted: %s", path)
	}

	return nil
}

func bodyHTML(window models.ReportWindow) string {
	return fmt.Sprintf(`
		<h2>التقرير الشهري لزمن الخدمة</h2>
		<p><strong>%s</strong> مرفق لكم التقرير الشهري لزمن الخدمة لشهر </p>
		<p>فترة التقرير: من %s إلى %s</p>
		<p>الملف يحتوي على:</p>
		<ul>
			<li><strong>ملخص الفروع الشهري:</strong> إجمالي الطلبات والطلبات المتأخرة ومتوسط زمن الخدمة لكل فرع للشهر كاملاً</li>
		</ul>
		<p>تم إنشاء التقرير في: %s</p>
	`,
		window.MonthName(),
		window.Start.Format("2006-01-02"),
		window.End.Format("2006-01-02"),
		time.Now().Format("2006-01-02 15:04:05"),
	)
}
