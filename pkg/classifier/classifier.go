package classifier

import (
	"strings"
	"time"

	appdomain "careerpulse-backend/internal/application/domain"
	emaildomain "careerpulse-backend/internal/email/domain"
)

// Per-field confidence weights. The score is additive and independent of
// which extraction strategy produced the field; the maximum possible sum
// is 1.0.
const (
	weightCompany  = 0.25
	weightRole     = 0.25
	weightStatus   = 0.20
	weightDate     = 0.15
	weightLocation = 0.15
)

const (
	fallbackCompany = "Unknown"
	fallbackRole    = "Unknown Position"
)

// jobVocabulary gates relevance: a message is job-related iff its normalized
// subject+body contains at least one of these terms.
var jobVocabulary = []string{
	"application",
	"applied",
	"applying",
	"position",
	"interview",
	"offer",
	"role",
	"candidate",
	"candidacy",
	"recruiter",
	"recruiting",
	"hiring",
	"job opening",
	"opportunity",
	"resume",
	"talent",
}

// statusGroups are evaluated in priority order: the most specific, most
// terminal signal wins when a message mixes categories.
var statusGroups = []struct {
	status   appdomain.Status
	keywords []string
}{
	{appdomain.StatusRejected, []string{
		"unfortunately",
		"regret to inform",
		"not moving forward",
		"will not be moving forward",
		"not selected",
		"not be proceeding",
		"decided to pursue other candidates",
		"other candidates",
		"position has been filled",
		"rejected",
	}},
	{appdomain.StatusOffer, []string{
		"pleased to offer",
		"excited to offer",
		"job offer",
		"offer letter",
		"offer of employment",
		"extend an offer",
		"congratulations",
		"compensation package",
	}},
	{appdomain.StatusInterview, []string{
		"interview",
		"phone screen",
		"technical screen",
		"schedule a call",
		"schedule a time",
		"meet the team",
		"your availability",
		"hiring manager would like",
	}},
	{appdomain.StatusApplied, []string{
		"application received",
		"application has been received",
		"we received your application",
		"thank you for applying",
		"thanks for applying",
		"application has been submitted",
		"successfully submitted",
		"under review",
		"applied",
	}},
}

// Result is the structured output of classifying one message.
type Result struct {
	EmailID     string           `json:"email_id"`
	Company     string           `json:"company"`
	Role        string           `json:"role"`
	Status      appdomain.Status `json:"status"`
	DateApplied string           `json:"date_applied"`
	Location    *string          `json:"location,omitempty"`
	Confidence  float64          `json:"confidence"`
}

// Classify decides whether a raw message is job-related and, if so, extracts
// structured fields with a diagnostic confidence score. It returns nil for
// non-job messages and never panics on malformed content: unknown formats
// degrade to fallback fields, never to an error.
func Classify(msg *emaildomain.RawMessage) *Result {
	if msg == nil {
		return nil
	}

	body := Normalize(msg.Body)
	text := strings.ToLower(msg.Subject + " " + body)

	if !isJobRelated(text) {
		return nil
	}

	status, statusMatched := detectStatus(text)

	in := extractInput{From: msg.From, Subject: msg.Subject, Body: body}
	company := firstMatch(companyExtractors, in)
	role := firstMatch(roleExtractors, in)
	location := firstMatch(locationExtractors, in)

	date, dateExtracted := applicationDate(msg.ReceivedAt)

	confidence := 0.0
	if company != "" {
		confidence += weightCompany
	} else {
		company = fallbackCompany
	}
	if role != "" {
		confidence += weightRole
	} else {
		role = fallbackRole
	}
	if statusMatched {
		confidence += weightStatus
	}
	if dateExtracted {
		confidence += weightDate
	}

	result := &Result{
		EmailID:     msg.ID,
		Company:     company,
		Role:        role,
		Status:      status,
		DateApplied: date,
		Confidence:  confidence,
	}
	if location != "" {
		result.Location = &location
		result.Confidence += weightLocation
	}
	return result
}

func isJobRelated(text string) bool {
	for _, term := range jobVocabulary {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// detectStatus scans the status keyword groups in priority order
// (rejected > offer > interview > applied) and reports whether any keyword
// matched. Messages with no status signal default to applied.
func detectStatus(text string) (appdomain.Status, bool) {
	for _, group := range statusGroups {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				return group.status, true
			}
		}
	}
	return appdomain.StatusApplied, false
}

// applicationDate normalizes the receipt time to YYYY-MM-DD, falling back to
// the processing date when the message carries no usable timestamp.
func applicationDate(receivedAt time.Time) (string, bool) {
	if receivedAt.IsZero() || receivedAt.Year() < 1990 {
		return time.Now().Format("2006-01-02"), false
	}
	return receivedAt.Format("2006-01-02"), true
}
