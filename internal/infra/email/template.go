package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltmpl "html/template"
	netmail "net/mail"
	"strings"

	"reportify_notifier/internal/domain/delivery"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var sessionReportTmpl = htmltmpl.Must(
	htmltmpl.New("session_report.gohtml").Option("missingkey=error").ParseFS(templateFS, "templates/session_report.gohtml"),
)

type templateData struct {
	Subject    string
	Body       string
	SchoolName string
}

// RenderHTML wraps the plain text report into the HTML email layout.
// The text is escaped by html/template and keeps its line breaks through CSS.
func RenderHTML(subject, text, schoolName string) (string, error) {
	var buff bytes.Buffer
	data := templateData{Subject: subject, Body: text, SchoolName: schoolName}
	if err := sessionReportTmpl.Execute(&buff, data); err != nil {
		return "", fmt.Errorf("render session report email: %w", err)
	}
	return buff.String(), nil
}

func subjectOf(msg delivery.Message) string {
	if s := strings.TrimSpace(msg.Subject); s != "" {
		return s
	}
	return delivery.ReportSubject
}

// parseRecipient validates an address and returns it in bare form.
func parseRecipient(to string) (string, error) {
	if strings.TrimSpace(to) == "" {
		return "", delivery.ErrNoRecipient
	}
	addr, err := netmail.ParseAddress(to)
	if err != nil {
		return "", fmt.Errorf("%w: %v", delivery.ErrInvalidRecipient, err)
	}
	return addr.Address, nil
}
