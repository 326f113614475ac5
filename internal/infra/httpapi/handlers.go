package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"reportify_notifier/internal/app"
	idb "reportify_notifier/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type handler struct {
	notifier app.NotificationService
	db       Pinger
	validate *requestValidator
	location *time.Location
	logger   *logrus.Entry
}

type reportRequest struct {
	IDSchedule int64  `json:"id_schedule" validate:"required,gt=0"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WithError(err).Warn("Health check: database unreachable")
		writeJSON(w, http.StatusServiceUnavailable, envelope{
			Status:  false,
			Message: "Database tidak dapat dihubungi",
			Data:    map[string]string{"database": "down"},
		})
		return
	}
	writeOK(w, "OK", map[string]string{"database": "up", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

func (h *handler) sessionSummary(w http.ResponseWriter, r *http.Request) {
	req := reportRequest{Date: r.URL.Query().Get("date")}
	if raw := r.URL.Query().Get("id_schedule"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{
				Message: "Parameter id_schedule dan date wajib diisi",
				Errors:  map[string]string{"id_schedule": "id_schedule harus berupa angka"},
			})
			return
		}
		req.IDSchedule = id
	}
	date, ok := h.validRequest(w, req)
	if !ok {
		return
	}

	preview, err := h.notifier.PreviewSessionReport(r.Context(), req.IDSchedule, date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeOK(w, "Ringkasan sesi berhasil diambil", preview)
}

func (h *handler) sendReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Body request tidak valid")
		return
	}
	date, ok := h.validRequest(w, req)
	if !ok {
		return
	}

	outcome, err := h.notifier.SendSessionReport(r.Context(), req.IDSchedule, date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeOK(w, "Laporan sesi berhasil diproses", outcome)
}

// sweep keeps running after a client disconnect so that started schedules get marked.
func (h *handler) sweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.notifier.RunNotificationSweep(context.WithoutCancel(r.Context()))
	if err != nil {
		if report != nil && !errors.Is(err, app.ErrSweepInProgress) {
			h.logger.WithError(err).WithField("sweep_id", report.SweepID).Error("Manual sweep failed")
			writeJSON(w, http.StatusInternalServerError, envelope{Message: err.Error(), Data: report})
			return
		}
		h.writeServiceError(w, err)
		return
	}
	writeOK(w, report.Summary(), report)
}

// validRequest validates req and parses its date; it writes a 400 and returns false on failure.
func (h *handler) validRequest(w http.ResponseWriter, req reportRequest) (time.Time, bool) {
	fields, err := h.validate.Struct(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, false
	}
	if fields != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "Parameter id_schedule dan date wajib diisi", Errors: fields})
		return time.Time{}, false
	}
	date, err := app.ParseDate(req.Date, h.location)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, false
	}
	return date, true
}

func (h *handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, idb.ErrScheduleNotFound):
		writeError(w, http.StatusNotFound, "Jadwal tidak ditemukan")
	case errors.Is(err, idb.ErrTeachingAssignmentNotFound):
		writeError(w, http.StatusNotFound, "Data pengajaran untuk jadwal ini tidak ditemukan")
	case errors.Is(err, app.ErrSweepInProgress):
		writeError(w, http.StatusConflict, "Sweep notifikasi sedang berjalan")
	default:
		h.logger.WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
