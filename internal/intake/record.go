package intake

import (
	"strconv"
	"strings"
)

// Record is the canonical representation of one Vision Call form submission.
// Raw payloads arrive with inconsistent key names across storefront revisions,
// so construction goes through Normalize rather than direct JSON decoding.
type Record struct {
	FullName  string
	Email     string
	Phone     string
	Meaning   string
	Placement string
	Scale     string
	HearAbout string
	Consent   bool

	// Optional fields
	Artist      string
	SourceLink  string
	Vision      string
	FormTitle   string
	Honeypot    string
	NotifyEmail string
}

// NotSpecified is rendered in place of optional fields the applicant left blank.
const NotSpecified = "Not specified"

// fieldAlias maps a canonical field to the raw payload keys that may carry it,
// in priority order. First non-empty value wins.
type fieldAlias struct {
	canonical string
	keys      []string
}

// Aliases exist for backwards compatibility with older storefront form markup.
var aliasTable = []fieldAlias{
	{"meaning", []string{"meaning", "story", "message"}},
	{"fullName", []string{"fullName", "name", "full_name"}},
	{"email", []string{"email", "applicant_email"}},
	{"phone", []string{"phone", "phone_number", "tel"}},
	{"placement", []string{"placement"}},
	{"scale", []string{"scale", "size"}},
	{"hear", []string{"hear", "referral", "how_hear"}},
	{"artist", []string{"artist", "artist_name"}},
	{"sourceLink", []string{"source_link", "sourceLink", "source"}},
	{"vision", []string{"vision", "vision_text"}},
	{"formTitle", []string{"form_title", "formTitle"}},
	{"honeypot", []string{"website", "hp_website", "hp_extra_info"}},
	{"notifyEmail", []string{"notify_email", "notifyEmail"}},
}

var consentKeys = []string{"consent", "agree", "review_consent"}

// requiredFields is the validation order reported back to the form.
var requiredFields = []string{"meaning", "fullName", "email", "phone", "placement", "scale", "hear", "consent"}

// Normalize maps a raw decoded JSON object into a canonical Record. String
// values are trimmed; the consent field is coerced through the truthy test.
func Normalize(raw map[string]any) *Record {
	resolved := make(map[string]string, len(aliasTable))
	for _, fa := range aliasTable {
		for _, key := range fa.keys {
			if v := stringValue(raw[key]); v != "" {
				resolved[fa.canonical] = v
				break
			}
		}
	}

	consent := false
	for _, key := range consentKeys {
		if v, ok := raw[key]; ok {
			consent = truthy(v)
			break
		}
	}

	return &Record{
		FullName:    resolved["fullName"],
		Email:       resolved["email"],
		Phone:       resolved["phone"],
		Meaning:     resolved["meaning"],
		Placement:   resolved["placement"],
		Scale:       resolved["scale"],
		HearAbout:   resolved["hear"],
		Consent:     consent,
		Artist:      resolved["artist"],
		SourceLink:  resolved["sourceLink"],
		Vision:      resolved["vision"],
		FormTitle:   resolved["formTitle"],
		Honeypot:    resolved["honeypot"],
		NotifyEmail: resolved["notifyEmail"],
	}
}

// MissingFields returns every required field that failed validation, in a
// stable order, so the form can highlight all of them at once.
func (r *Record) MissingFields() []string {
	var missing []string
	for _, field := range requiredFields {
		if !r.has(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

func (r *Record) has(field string) bool {
	switch field {
	case "meaning":
		return r.Meaning != ""
	case "fullName":
		return r.FullName != ""
	case "email":
		return r.Email != ""
	case "phone":
		return r.Phone != ""
	case "placement":
		return r.Placement != ""
	case "scale":
		return r.Scale != ""
	case "hear":
		return r.HearAbout != ""
	case "consent":
		return r.Consent
	}
	return false
}

// IsSpam reports whether the hidden honeypot field was filled in. Legitimate
// users never see it; a value means automated submission.
func (r *Record) IsSpam() bool {
	return strings.TrimSpace(r.Honeypot) != ""
}

// Variant selects the notification template. Forms titled as general
// inquiries or contact requests use the neutral variant; everything else is a
// booking intake.
type Variant string

const (
	VariantBooking Variant = "booking"
	VariantInquiry Variant = "inquiry"
)

func (r *Record) Variant() Variant {
	title := strings.ToLower(r.FormTitle)
	if strings.Contains(title, "inquiry") || strings.Contains(title, "contact") {
		return VariantInquiry
	}
	return VariantBooking
}

// ArtistOrDefault returns the requested artist, or the placeholder sentinel.
func (r *Record) ArtistOrDefault() string {
	if r.Artist == "" {
		return NotSpecified
	}
	return r.Artist
}

// stringValue trims string inputs and stringifies scalar booleans; anything
// else is treated as absent.
func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case bool:
		if s {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

// truthy implements the fixed set of accepted consent encodings.
func truthy(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	switch strings.ToLower(strings.TrimSpace(stringValue(v))) {
	case "true", "on", "yes", "1":
		return true
	}
	return false
}
