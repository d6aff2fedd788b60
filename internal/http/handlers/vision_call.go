package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/seventattoolv/vision-intake/internal/crm"
	"github.com/seventattoolv/vision-intake/internal/intake"
	"github.com/seventattoolv/vision-intake/internal/notify"
	"github.com/seventattoolv/vision-intake/internal/observability/metrics"
	"github.com/seventattoolv/vision-intake/pkg/logging"
)

// Persistence outcomes surfaced in the response and the notification email.
const (
	DBStatusSuccess = "success"
	DBStatusFailed  = "failed"
	DBStatusSkipped = "skipped"
)

// Notifier sends the operator notification for one normalized submission.
type Notifier interface {
	Notify(ctx context.Context, rec *intake.Record, dbStatus string) (notify.Delivery, error)
}

// VisionCallHandler handles the Vision Call booking intake form.
type VisionCallHandler struct {
	repo         crm.Repository // nil disables persistence
	notifier     Notifier
	metrics      *metrics.IntakeMetrics
	logger       *logging.Logger
	storeTimeout time.Duration
	sendTimeout  time.Duration
}

// VisionCallConfig bounds the two outbound calls. Zero values get defaults.
type VisionCallConfig struct {
	StoreTimeout time.Duration
	SendTimeout  time.Duration
}

// NewVisionCallHandler creates the intake handler. A nil repo degrades
// persistence to "skipped"; the notifier is required.
func NewVisionCallHandler(repo crm.Repository, notifier Notifier, m *metrics.IntakeMetrics, cfg VisionCallConfig, logger *logging.Logger) *VisionCallHandler {
	if notifier == nil {
		panic("handlers: notifier required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 5 * time.Second
	}
	return &VisionCallHandler{
		repo:         repo,
		notifier:     notifier,
		metrics:      m,
		logger:       logger,
		storeTimeout: cfg.StoreTimeout,
		sendTimeout:  cfg.SendTimeout,
	}
}

// intakeResponse is the wire shape for every intake outcome.
type intakeResponse struct {
	OK          bool     `json:"ok"`
	Error       string   `json:"error,omitempty"`
	Missing     []string `json:"missing,omitempty"`
	Skipped     bool     `json:"skipped,omitempty"`
	DeliveredTo string   `json:"deliveredTo,omitempty"`
	UsedFrom    string   `json:"usedFrom,omitempty"`
	Timestamp   string   `json:"timestamp,omitempty"`
	DBStatus    string   `json:"dbStatus,omitempty"`
}

// Submit handles POST (and preflight OPTIONS) for the intake form.
func (h *VisionCallHandler) Submit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.metrics.ObserveLatency(time.Since(start).Seconds())
	}()

	switch r.Method {
	case http.MethodOptions:
		// CORS headers are written by the middleware; nothing else to do.
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		h.metrics.ObserveSubmission("invalid")
		writeJSON(w, http.StatusMethodNotAllowed, intakeResponse{OK: false, Error: "Use POST"})
		return
	}

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.logger.Error("intake payload decode failed", "error", err)
		h.metrics.ObserveSubmission("invalid")
		writeJSON(w, http.StatusBadRequest, intakeResponse{OK: false, Error: "Invalid JSON"})
		return
	}

	rec := intake.Normalize(raw)

	// Honeypot: quietly succeed (bot), no persistence, no email. The response
	// must be indistinguishable from a real success to the submitter.
	if rec.IsSpam() {
		h.metrics.ObserveSubmission("spam")
		writeJSON(w, http.StatusOK, intakeResponse{OK: true, Skipped: true})
		return
	}

	if missing := rec.MissingFields(); len(missing) > 0 {
		h.logger.Error("intake missing fields", "missing", missing, "got_keys", rawKeys(raw))
		h.metrics.ObserveSubmission("invalid")
		writeJSON(w, http.StatusBadRequest, intakeResponse{
			OK:      false,
			Error:   fmt.Sprintf("Missing required field(s): %s", strings.Join(missing, ", ")),
			Missing: missing,
		})
		return
	}

	dbStatus := h.persist(r.Context(), rec)
	h.metrics.ObservePersistence(dbStatus)

	sendCtx, cancel := context.WithTimeout(r.Context(), h.sendTimeout)
	defer cancel()

	delivery, err := h.notifier.Notify(sendCtx, rec, dbStatus)
	if errors.Is(err, notify.ErrNotConfigured) {
		h.logger.Error("intake email provider not configured")
		h.metrics.ObserveEmailSend("config_error")
		h.metrics.ObserveSubmission("config_error")
		writeJSON(w, http.StatusInternalServerError, intakeResponse{OK: false, Error: "Email provider not configured"})
		return
	}
	if err != nil {
		// Provider error detail stays in logs; never in the response body.
		h.logger.Error("intake mail send failed", "error", err)
		h.metrics.ObserveEmailSend("failed")
		h.metrics.ObserveSubmission("delivery_failed")
		writeJSON(w, http.StatusInternalServerError, intakeResponse{OK: false, Error: "Email send failed"})
		return
	}

	h.metrics.ObserveEmailSend("success")
	h.metrics.ObserveSubmission("accepted")
	writeJSON(w, http.StatusOK, intakeResponse{
		OK:          true,
		DeliveredTo: delivery.To,
		UsedFrom:    delivery.From,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		DBStatus:    dbStatus,
	})
}

// persist runs the best-effort CRM write. Failures are downgraded to a status
// string and never abort the request; email is the primary success criterion.
func (h *VisionCallHandler) persist(ctx context.Context, rec *intake.Record) string {
	if h.repo == nil {
		return DBStatusSkipped
	}

	storeCtx, cancel := context.WithTimeout(ctx, h.storeTimeout)
	defer cancel()

	lead, err := crm.RecordIntake(storeCtx, h.repo, rec)
	if err != nil {
		h.logger.Error("intake CRM write failed", "error", err, "email", rec.Email)
		return DBStatusFailed
	}

	h.logger.Info("intake lead recorded", "lead_id", lead.ID, "client_id", lead.ClientID)
	return DBStatusSuccess
}

func writeJSON(w http.ResponseWriter, status int, body intakeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func rawKeys(raw map[string]any) []string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	return keys
}
