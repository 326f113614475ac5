package delivery

import "context"

// ChannelName identifies a delivery channel in outcomes and logs.
type ChannelName string

const (
	ChannelWhatsApp ChannelName = "whatsapp"
	ChannelEmail    ChannelName = "email"
)

// ReportSubject is the subject line of every session report.
const ReportSubject = "Laporan Sesi Kelas - Reportify"

// Message is what a channel delivers. Channels without a subject line ignore Subject.
type Message struct {
	Subject string
	Text    string
}

// Channel is an outbound delivery adapter. Send never returns a Go error:
// every failure, including an unusable recipient, is reported as a failed Result.
type Channel interface {
	Name() ChannelName
	Send(ctx context.Context, recipient string, msg Message) Result
}
