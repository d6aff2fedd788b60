package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/seventattoolv/vision-intake/internal/intake"
)

func sampleRecord() *intake.Record {
	return &intake.Record{
		FullName:  "Jane Doe",
		Email:     "jane@x.com",
		Phone:     "555-1234",
		Meaning:   "rebirth",
		Placement: "forearm",
		Scale:     "small",
		HearAbout: "Instagram",
		Consent:   true,
	}
}

func TestRenderNotification_BookingVariant(t *testing.T) {
	subject, body, html, err := renderNotification(sampleRecord(), "success", time.Now())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !strings.Contains(subject, "VISION CALL") {
		t.Errorf("expected booking subject, got %q", subject)
	}
	if !strings.Contains(subject, "Jane Doe") {
		t.Errorf("expected applicant name in subject, got %q", subject)
	}
	if !strings.Contains(body, "Vision Call / Booking Intake") {
		t.Errorf("expected booking heading in body")
	}
	if !strings.Contains(body, "Meaning / Story:") {
		t.Errorf("expected booking section label in body")
	}
	if !strings.Contains(html, "#111111") {
		t.Errorf("expected black accent in booking HTML")
	}
	if !strings.Contains(body, "CRM record: success") {
		t.Errorf("expected persistence status in body")
	}
}

func TestRenderNotification_InquiryVariant(t *testing.T) {
	rec := sampleRecord()
	rec.FormTitle = "GENERAL CONTACT INQUIRY"

	subject, body, html, err := renderNotification(rec, "", time.Now())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !strings.Contains(subject, "CONTACT INQUIRY") {
		t.Errorf("expected inquiry subject, got %q", subject)
	}
	if !strings.Contains(body, "General Contact Inquiry") {
		t.Errorf("expected inquiry heading in body")
	}
	if !strings.Contains(body, "Message:") {
		t.Errorf("expected relabeled section in inquiry body")
	}
	if !strings.Contains(html, "#6b7280") {
		t.Errorf("expected grey accent in inquiry HTML")
	}
	if strings.Contains(body, "CRM record:") {
		t.Errorf("empty persistence status should not be rendered")
	}
}

func TestRenderNotification_OptionalFieldPlaceholders(t *testing.T) {
	_, body, _, err := renderNotification(sampleRecord(), "", time.Now())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !strings.Contains(body, "Requested Artist: Not specified") {
		t.Errorf("expected artist placeholder, body:\n%s", body)
	}
	if !strings.Contains(body, "Source Link: Not specified") {
		t.Errorf("expected source link placeholder, body:\n%s", body)
	}
}

func TestRenderNotification_ConsentLabel(t *testing.T) {
	_, body, _, err := renderNotification(sampleRecord(), "", time.Now())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(body, "Consent to review: YES") {
		t.Errorf("expected YES consent label")
	}
}

func TestRenderNotification_VisionSection(t *testing.T) {
	rec := sampleRecord()
	rec.Vision = "a phoenix rising"

	_, body, html, err := renderNotification(rec, "", time.Now())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(body, "a phoenix rising") {
		t.Errorf("expected vision body in text")
	}
	if !strings.Contains(html, "a phoenix rising") {
		t.Errorf("expected vision body in HTML")
	}
}

func TestRenderNotification_HTMLEscapesInput(t *testing.T) {
	rec := sampleRecord()
	rec.Meaning = `<script>alert("x")</script>`

	_, _, html, err := renderNotification(rec, "", time.Now())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("expected HTML-escaped meaning")
	}
}

func TestRenderConfirmation(t *testing.T) {
	subject, body, err := renderConfirmation(sampleRecord())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(subject, "We received your Vision Call request") {
		t.Errorf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "Hi Jane Doe,") {
		t.Errorf("expected greeting with name, got:\n%s", body)
	}
}
