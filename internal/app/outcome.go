package app

import (
	"fmt"
	"time"

	"reportify_notifier/internal/domain/delivery"
)

// RecipientRole tells whom a delivery was addressed to.
type RecipientRole string

const (
	RecipientParent  RecipientRole = "parent"
	RecipientStudent RecipientRole = "student"
)

// DeliveryStatus is the terminal status of one recipient.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
	// DeliverySkipped means WhatsApp failed and the email fallback had already
	// been used for the same student in this run.
	DeliverySkipped DeliveryStatus = "skipped"
)

// Attempt is one channel call made for a recipient.
type Attempt struct {
	Channel  delivery.ChannelName `json:"channel"`
	Address  string               `json:"address"`
	OK       bool                 `json:"ok"`
	Response string               `json:"response,omitempty"`
	Error    string               `json:"error,omitempty"`
}

func attemptOf(channel delivery.ChannelName, address string, res delivery.Result) Attempt {
	a := Attempt{Channel: channel, Address: address, OK: res.OK(), Response: res.Response()}
	if err := res.Err(); err != nil {
		a.Error = err.Error()
	}
	return a
}

// DeliveryOutcome records what happened to one recipient of one student.
type DeliveryOutcome struct {
	StudentID   int64          `json:"id_student"`
	StudentName string         `json:"student_name"`
	Recipient   RecipientRole  `json:"recipient"`
	Status      DeliveryStatus `json:"status"`
	Attempts    []Attempt      `json:"attempts"`
}

// DeliveredVia returns the channel that delivered the message, or "" when none did.
func (o DeliveryOutcome) DeliveredVia() delivery.ChannelName {
	for _, a := range o.Attempts {
		if a.OK {
			return a.Channel
		}
	}
	return ""
}

// ScheduleState is the observability-only terminal state of one schedule run.
type ScheduleState string

const (
	ScheduleFullySent     ScheduleState = "fully-sent"
	SchedulePartiallySent ScheduleState = "partially-sent"
	ScheduleFullyFailed   ScheduleState = "fully-failed"
	// ScheduleAborted means aggregation failed; no sends were made and the marker is untouched.
	ScheduleAborted ScheduleState = "aborted"
)

// ScheduleOutcome is the result of dispatching one schedule for one date.
type ScheduleOutcome struct {
	ScheduleID  int64             `json:"id_schedule"`
	Date        string            `json:"date"`
	ClassName   string            `json:"class_name,omitempty"`
	SubjectName string            `json:"subject_name,omitempty"`
	TimeSlot    string            `json:"time_slot"`
	State       ScheduleState     `json:"state"`
	Students    int               `json:"students"`
	Deliveries  []DeliveryOutcome `json:"deliveries"`
	Marked      bool              `json:"marked"`
	Error       string            `json:"error,omitempty"`
}

// Sent counts recipients that got the report through any channel.
func (o *ScheduleOutcome) Sent() int {
	n := 0
	for _, d := range o.Deliveries {
		if d.Status == DeliverySent {
			n++
		}
	}
	return n
}

// Failed counts recipients that got nothing.
func (o *ScheduleOutcome) Failed() int {
	n := 0
	for _, d := range o.Deliveries {
		if d.Status == DeliveryFailed {
			n++
		}
	}
	return n
}

// settle derives State from the recorded deliveries. Skipped recipients do not count;
// a schedule with nobody to notify is fully sent.
func (o *ScheduleOutcome) settle() {
	sent, failed := o.Sent(), o.Failed()
	switch {
	case failed == 0:
		o.State = ScheduleFullySent
	case sent == 0:
		o.State = ScheduleFullyFailed
	default:
		o.State = SchedulePartiallySent
	}
}

// SweepReport collects the schedule outcomes of one sweep.
type SweepReport struct {
	SweepID   string            `json:"sweep_id"`
	StartedAt time.Time         `json:"started_at"`
	Date      string            `json:"date"`
	Pending   int               `json:"pending"`
	Schedules []ScheduleOutcome `json:"schedules"`
}

// NeedsAttention returns the schedules that were aborted or got no message out at all.
func (r *SweepReport) NeedsAttention() []ScheduleOutcome {
	var out []ScheduleOutcome
	for _, o := range r.Schedules {
		if o.State == ScheduleAborted || o.State == ScheduleFullyFailed || (o.Error != "" && !o.Marked) {
			out = append(out, o)
		}
	}
	return out
}

// Summary renders a one-line digest of the sweep for logs and chat replies.
func (r *SweepReport) Summary() string {
	sent, failed := 0, 0
	for i := range r.Schedules {
		sent += r.Schedules[i].Sent()
		failed += r.Schedules[i].Failed()
	}
	return fmt.Sprintf("sweep %s on %s: %d pending, %d dispatched, %d recipients sent, %d failed",
		r.SweepID, r.Date, r.Pending, len(r.Schedules), sent, failed)
}
