package crm

import (
	"strings"
	"time"

	"github.com/seventattoolv/vision-intake/internal/intake"
)

// LeadStatusNew is the fixed initial status for every inserted lead.
const LeadStatusNew = "new"

// Client is a deduplicated contact, looked up by email and created on first
// sighting. Repeat submissions from the same email reuse the existing row.
type Client struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	LeadSource string    `json:"lead_source"`
	CreatedAt  time.Time `json:"created_at"`
}

// Lead is one inquiry in the sales pipeline. Leads are always inserted,
// never deduped or updated by this service.
type Lead struct {
	ID               string    `json:"id"`
	ClientID         string    `json:"client_id"`
	Placement        string    `json:"placement"`
	Scale            string    `json:"scale"`
	Vision           string    `json:"vision"`
	Meaning          string    `json:"meaning"`
	ArtistPreference string    `json:"artist_preference"`
	SourceLink       string    `json:"source_link"`
	Status           string    `json:"status"`
	Note             string    `json:"note"`
	NotifyVariant    string    `json:"notify_variant"`
	CreatedAt        time.Time `json:"created_at"`
}

// SplitName derives first/last name from a free-form full name. The first
// whitespace token is the first name; the remainder is the last name, which
// may be empty.
func SplitName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// NewClientFromRecord builds the client row for a first-time submitter.
func NewClientFromRecord(rec *intake.Record) *Client {
	first, last := SplitName(rec.FullName)
	return &Client{
		FirstName:  first,
		LastName:   last,
		Email:      rec.Email,
		Phone:      rec.Phone,
		LeadSource: rec.HearAbout,
	}
}

// NewLeadFromRecord maps a normalized submission onto a lead referencing the
// given client.
func NewLeadFromRecord(rec *intake.Record, clientID string) *Lead {
	return &Lead{
		ClientID:         clientID,
		Placement:        rec.Placement,
		Scale:            rec.Scale,
		Vision:           rec.Vision,
		Meaning:          rec.Meaning,
		ArtistPreference: rec.ArtistOrDefault(),
		SourceLink:       rec.SourceLink,
		Status:           LeadStatusNew,
		Note:             summaryNote(rec),
		NotifyVariant:    string(rec.Variant()),
	}
}

// summaryNote concatenates the vision and meaning bodies for a quick read in
// the CRM.
func summaryNote(rec *intake.Record) string {
	var parts []string
	if rec.Vision != "" {
		parts = append(parts, "Vision: "+rec.Vision)
	}
	if rec.Meaning != "" {
		parts = append(parts, "Meaning: "+rec.Meaning)
	}
	return strings.Join(parts, "\n\n")
}
