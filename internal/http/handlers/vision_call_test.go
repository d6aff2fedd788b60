package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seventattoolv/vision-intake/internal/crm"
	"github.com/seventattoolv/vision-intake/internal/intake"
	"github.com/seventattoolv/vision-intake/internal/notify"
)

type fakeNotifier struct {
	calls    int
	lastRec  *intake.Record
	lastDB   string
	delivery notify.Delivery
	err      error
}

func (f *fakeNotifier) Notify(ctx context.Context, rec *intake.Record, dbStatus string) (notify.Delivery, error) {
	f.calls++
	f.lastRec = rec
	f.lastDB = dbStatus
	if f.err != nil {
		return notify.Delivery{}, f.err
	}
	return f.delivery, nil
}

type brokenRepo struct{}

func (brokenRepo) FindClientByEmail(context.Context, string) (*crm.Client, error) {
	return nil, errors.New("store unreachable")
}
func (brokenRepo) CreateClient(context.Context, *crm.Client) (*crm.Client, error) {
	return nil, errors.New("store unreachable")
}
func (brokenRepo) CreateLead(context.Context, *crm.Lead) (*crm.Lead, error) {
	return nil, errors.New("store unreachable")
}

func validPayload() map[string]any {
	return map[string]any{
		"fullName":  "Jane Doe",
		"email":     "jane@x.com",
		"phone":     "555-1234",
		"meaning":   "test",
		"placement": "forearm",
		"scale":     "small",
		"hear":      "Instagram",
		"consent":   "yes",
	}
}

func defaultDelivery() notify.Delivery {
	return notify.Delivery{To: "careers@seventattoolv.com", From: "careers@seventattoolv.com"}
}

func postJSON(t *testing.T, h *VisionCallHandler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/intake/vision-call", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Submit(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) intakeResponse {
	t.Helper()
	var resp intakeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestSubmit_Success(t *testing.T) {
	repo := crm.NewInMemoryRepository()
	notifier := &fakeNotifier{delivery: defaultDelivery()}
	h := NewVisionCallHandler(repo, notifier, nil, VisionCallConfig{}, nil)

	w := postJSON(t, h, validPayload())

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.OK)
	assert.Equal(t, "careers@seventattoolv.com", resp.DeliveredTo)
	assert.Equal(t, "careers@seventattoolv.com", resp.UsedFrom)
	assert.NotEmpty(t, resp.Timestamp)
	assert.Equal(t, DBStatusSuccess, resp.DBStatus)

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "Jane Doe", notifier.lastRec.FullName)
	assert.Equal(t, 1, repo.LeadCount())
}

func TestSubmit_MethodGate(t *testing.T) {
	notifier := &fakeNotifier{delivery: defaultDelivery()}
	h := NewVisionCallHandler(nil, notifier, nil, VisionCallConfig{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/intake/vision-call", nil)
	w := httptest.NewRecorder()
	h.Submit(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Zero(t, notifier.calls)
}

func TestSubmit_OptionsPreflight(t *testing.T) {
	notifier := &fakeNotifier{delivery: defaultDelivery()}
	h := NewVisionCallHandler(nil, notifier, nil, VisionCallConfig{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/intake/vision-call", nil)
	w := httptest.NewRecorder()
	h.Submit(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, notifier.calls)
}

func TestSubmit_InvalidJSON(t *testing.T) {
	repo := crm.NewInMemoryRepository()
	notifier := &fakeNotifier{delivery: defaultDelivery()}
	h := NewVisionCallHandler(repo, notifier, nil, VisionCallConfig{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/intake/vision-call", strings.NewReader("{"))
	w := httptest.NewRecorder()
	h.Submit(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.OK)
	assert.Equal(t, "Invalid JSON", resp.Error)
	assert.Zero(t, notifier.calls)
	assert.Zero(t, repo.LeadCount())
}

func TestSubmit_MissingFieldsEnumerated(t *testing.T) {
	notifier := &fakeNotifier{delivery: defaultDelivery()}
	h := NewVisionCallHandler(nil, notifier, nil, VisionCallConfig{}, nil)

	w := postJSON(t, h, map[string]any{"fullName": "Jane Doe", "email": "jane@x.com"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.OK)
	assert.ElementsMatch(t, []string{"meaning", "phone", "placement", "scale", "hear", "consent"}, resp.Missing)
	assert.Contains(t, resp.Error, "Missing required field(s)")
	assert.Zero(t, notifier.calls)
}

func TestSubmit_HoneypotSkipsSideEffects(t *testing.T) {
	repo := crm.NewInMemoryRepository()
	notifier := &fakeNotifier{delivery: defaultDelivery()}
	h := NewVisionCallHandler(repo, notifier, nil, VisionCallConfig{}, nil)

	payload := validPayload()
	payload["website"] = "http://spam.example.com"
	w := postJSON(t, h, payload)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.OK)
	assert.True(t, resp.Skipped)

	// Indistinguishable from success for the bot, but zero outbound calls.
	assert.Zero(t, notifier.calls)
	assert.Zero(t, repo.LeadCount())
}

func TestSubmit_HoneypotBeatsValidation(t *testing.T) {
	notifier := &fakeNotifier{delivery: defaultDelivery()}
	h := NewVisionCallHandler(nil, notifier, nil, VisionCallConfig{}, nil)

	// Spam submissions with missing fields still get the quiet success.
	w := postJSON(t, h, map[string]any{"website": "http://spam.example.com"})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.OK)
	assert.True(t, resp.Skipped)
}

func TestSubmit_PersistenceFailureDoesNotAbort(t *testing.T) {
	notifier := &fakeNotifier{delivery: defaultDelivery()}
	h := NewVisionCallHandler(brokenRepo{}, notifier, nil, VisionCallConfig{}, nil)

	w := postJSON(t, h, validPayload())

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.OK)
	assert.Equal(t, DBStatusFailed, resp.DBStatus)

	// The failure is surfaced to the notifier for operator visibility.
	assert.Equal(t, DBStatusFailed, notifier.lastDB)
}

func TestSubmit_NoStoreMeansSkipped(t *testing.T) {
	notifier := &fakeNotifier{delivery: defaultDelivery()}
	h := NewVisionCallHandler(nil, notifier, nil, VisionCallConfig{}, nil)

	w := postJSON(t, h, validPayload())

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, DBStatusSkipped, resp.DBStatus)
	assert.Equal(t, DBStatusSkipped, notifier.lastDB)
}

func TestSubmit_MissingCredentialIsConfigurationError(t *testing.T) {
	notifier := &fakeNotifier{err: notify.ErrNotConfigured}
	h := NewVisionCallHandler(nil, notifier, nil, VisionCallConfig{}, nil)

	w := postJSON(t, h, validPayload())

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.OK)
	assert.Equal(t, "Email provider not configured", resp.Error)
}

func TestSubmit_DeliveryFailureIsTerminal(t *testing.T) {
	repo := crm.NewInMemoryRepository()
	notifier := &fakeNotifier{err: errors.New("smtp 550: provider detail")}
	h := NewVisionCallHandler(repo, notifier, nil, VisionCallConfig{}, nil)

	w := postJSON(t, h, validPayload())

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.OK)
	assert.Equal(t, "Email send failed", resp.Error)
	// Provider detail must never leak into the response body.
	assert.NotContains(t, w.Body.String(), "smtp 550")

	// The lead is not rolled back when delivery fails.
	assert.Equal(t, 1, repo.LeadCount())
}

func TestSubmit_AliasPayloadNormalized(t *testing.T) {
	notifier := &fakeNotifier{delivery: defaultDelivery()}
	h := NewVisionCallHandler(nil, notifier, nil, VisionCallConfig{}, nil)

	w := postJSON(t, h, map[string]any{
		"name":      "Jane Doe",
		"email":     "jane@x.com",
		"tel":       "555-1234",
		"story":     "test",
		"placement": "forearm",
		"size":      "small",
		"referral":  "Instagram",
		"agree":     "on",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jane Doe", notifier.lastRec.FullName)
	assert.Equal(t, "555-1234", notifier.lastRec.Phone)
	assert.Equal(t, "small", notifier.lastRec.Scale)
	assert.True(t, notifier.lastRec.Consent)
}

func TestSubmit_InquiryVariantRecordedOnLead(t *testing.T) {
	repo := crm.NewInMemoryRepository()
	notifier := &fakeNotifier{delivery: defaultDelivery()}
	h := NewVisionCallHandler(repo, notifier, nil, VisionCallConfig{}, nil)

	payload := validPayload()
	payload["form_title"] = "GENERAL CONTACT INQUIRY"
	w := postJSON(t, h, payload)

	require.Equal(t, http.StatusOK, w.Code)
	leads := repo.Leads()
	require.Len(t, leads, 1)
	assert.Equal(t, string(intake.VariantInquiry), leads[0].NotifyVariant)
}
