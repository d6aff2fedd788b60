package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.CORSOrigin != "*" {
		t.Errorf("expected default CORS origin *, got %s", cfg.CORSOrigin)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Errorf("expected default provider sendgrid, got %s", cfg.EmailProvider)
	}
	if cfg.SendTimeout != 5*time.Second {
		t.Errorf("expected default send timeout 5s, got %s", cfg.SendTimeout)
	}
}

func TestReceiverPriority(t *testing.T) {
	cfg := &Config{}
	if got := cfg.Receiver(); got != DefaultReceiver {
		t.Errorf("expected default receiver, got %s", got)
	}

	cfg.ToEmail = "fallback@example.com"
	if got := cfg.Receiver(); got != "fallback@example.com" {
		t.Errorf("expected TO_EMAIL fallback, got %s", got)
	}

	cfg.BookingReceiver = "bookings@example.com"
	if got := cfg.Receiver(); got != "bookings@example.com" {
		t.Errorf("expected BOOKING_RECEIVER to win, got %s", got)
	}
}

func TestSenderPriority(t *testing.T) {
	cfg := &Config{}
	if got := cfg.Sender(); got != DefaultSender {
		t.Errorf("expected default sender, got %s", got)
	}

	cfg.FromEmail = "from@example.com"
	if got := cfg.Sender(); got != "from@example.com" {
		t.Errorf("expected FROM_EMAIL fallback, got %s", got)
	}

	cfg.SendFrom = "override@example.com"
	if got := cfg.Sender(); got != "override@example.com" {
		t.Errorf("expected SEND_FROM to win, got %s", got)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_DURATION", "250ms")
	if got := getEnvAsDuration("TEST_DURATION", time.Second); got != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", got)
	}

	t.Setenv("TEST_FLOAT", "2.5")
	if got := getEnvAsFloat("TEST_FLOAT", 1); got != 2.5 {
		t.Errorf("expected 2.5, got %f", got)
	}

	if got := getEnvAsInt("TEST_INT_UNSET", 7); got != 7 {
		t.Errorf("expected default 7, got %d", got)
	}
}
