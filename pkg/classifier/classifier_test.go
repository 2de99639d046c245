package classifier

import (
	"regexp"
	"strings"
	"testing"
	"time"

	appdomain "careerpulse-backend/internal/application/domain"
	emaildomain "careerpulse-backend/internal/email/domain"
)

var receivedAt = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func message(from, subject, body string) *emaildomain.RawMessage {
	return &emaildomain.RawMessage{
		ID:         "msg-1",
		From:       from,
		Subject:    subject,
		Body:       body,
		ReceivedAt: receivedAt,
	}
}

func TestClassifyRejectsNonJobMail(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
	}{
		{"newsletter", "Your weekly digest", "Here is what happened this week in tech."},
		{"shipping", "Your package has shipped", "Track your order at the link below."},
		{"empty", "", ""},
		{"bank", "Statement available", "Your monthly statement is ready to view."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := Classify(message("noreply@example.com", tt.subject, tt.body)); res != nil {
				t.Fatalf("expected nil for non-job message, got %+v", res)
			}
		})
	}
}

func TestClassifyNilMessage(t *testing.T) {
	if res := Classify(nil); res != nil {
		t.Fatalf("expected nil for nil message, got %+v", res)
	}
}

func TestClassifyConcreteScenario(t *testing.T) {
	res := Classify(message("jobs@acme.com", "Application Received: Backend Engineer", "Thank you for applying..."))
	if res == nil {
		t.Fatal("expected a result for a job-related message")
	}

	if res.Company != "acme" {
		t.Errorf("company = %q, want %q", res.Company, "acme")
	}
	if res.Role != "Backend Engineer" {
		t.Errorf("role = %q, want %q", res.Role, "Backend Engineer")
	}
	if res.Status != appdomain.StatusApplied {
		t.Errorf("status = %q, want %q", res.Status, appdomain.StatusApplied)
	}
	if res.Confidence <= 0 {
		t.Errorf("confidence = %v, want > 0", res.Confidence)
	}
	if res.EmailID != "msg-1" {
		t.Errorf("emailId = %q, want %q", res.EmailID, "msg-1")
	}
}

func TestStatusPriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want appdomain.Status
	}{
		{
			"rejected beats offer",
			"We were impressed and wanted to extend an offer initially, but unfortunately we are not moving forward with your application.",
			appdomain.StatusRejected,
		},
		{
			"rejected beats interview",
			"Thank you for taking the interview. Unfortunately we will not be moving forward.",
			appdomain.StatusRejected,
		},
		{
			"offer beats interview",
			"Following your interview, we are pleased to offer you the position.",
			appdomain.StatusOffer,
		},
		{
			"interview beats applied",
			"We received your application and would like to schedule a call for an interview.",
			appdomain.StatusInterview,
		},
		{
			"plain confirmation",
			"Your application has been received and is under review.",
			appdomain.StatusApplied,
		},
		{
			"no status signal defaults to applied",
			"We saw your profile for this role and think you could be a good fit.",
			appdomain.StatusApplied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(message("talent@globex.com", "Update on your application", tt.body))
			if res == nil {
				t.Fatal("expected a result")
			}
			if res.Status != tt.want {
				t.Errorf("status = %q, want %q", res.Status, tt.want)
			}
		})
	}
}

func TestStatusAlwaysValid(t *testing.T) {
	bodies := []string{
		"Thank you for applying to our company.",
		"interview offer unfortunately congratulations",
		"role",
	}
	for _, body := range bodies {
		res := Classify(message("a@b.co", "position", body))
		if res == nil {
			t.Fatalf("expected result for %q", body)
		}
		if !res.Status.Valid() {
			t.Errorf("status %q is not one of the four enum values", res.Status)
		}
	}
}

func TestConfidenceIsAdditiveAndBounded(t *testing.T) {
	// All five fields extracted: company (sender domain), role (subject),
	// status keyword, receipt date, location.
	full := Classify(message(
		"recruiting@initech.com",
		"Interview for Staff Engineer position",
		"We would like to schedule a call. Location: Austin, TX",
	))
	if full == nil {
		t.Fatal("expected a result")
	}
	want := weightCompany + weightRole + weightStatus + weightDate + weightLocation
	if diff := full.Confidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("confidence = %v, want %v", full.Confidence, want)
	}
	if full.Confidence < 0 || full.Confidence > 1 {
		t.Errorf("confidence %v outside [0,1]", full.Confidence)
	}

	// Nothing extractable beyond the relevance gate: generic sender, no
	// patterns, no status keyword beyond vocabulary, valid date only.
	sparse := Classify(message("someone@gmail.com", "about the role", "just checking in on the role"))
	if sparse == nil {
		t.Fatal("expected a result")
	}
	if diff := sparse.Confidence - weightDate; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("sparse confidence = %v, want %v", sparse.Confidence, weightDate)
	}
	if sparse.Company != "Unknown" {
		t.Errorf("company = %q, want fallback Unknown", sparse.Company)
	}
	if sparse.Role != "Unknown Position" {
		t.Errorf("role = %q, want fallback Unknown Position", sparse.Role)
	}
	if sparse.Location != nil {
		t.Errorf("location = %v, want nil", *sparse.Location)
	}
}

func TestDateAppliedFormat(t *testing.T) {
	datePattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	res := Classify(message("jobs@acme.com", "Application Received: Backend Engineer", "Thank you for applying"))
	if res == nil {
		t.Fatal("expected a result")
	}
	if !datePattern.MatchString(res.DateApplied) {
		t.Errorf("dateApplied %q does not match YYYY-MM-DD", res.DateApplied)
	}
	if res.DateApplied != "2025-03-14" {
		t.Errorf("dateApplied = %q, want 2025-03-14", res.DateApplied)
	}

	// Missing receipt date falls back to the processing date
	msg := message("jobs@acme.com", "Application Received: Backend Engineer", "Thank you for applying")
	msg.ReceivedAt = time.Time{}
	res = Classify(msg)
	if res == nil {
		t.Fatal("expected a result")
	}
	if !datePattern.MatchString(res.DateApplied) {
		t.Errorf("fallback dateApplied %q does not match YYYY-MM-DD", res.DateApplied)
	}
	if res.DateApplied != time.Now().Format("2006-01-02") {
		t.Errorf("fallback dateApplied = %q, want today", res.DateApplied)
	}
}

func TestClassifyHTMLBody(t *testing.T) {
	body := `<html><body><p>Thank you for applying to <b>Globex &amp; Sons</b>.</p>
	<p>We received your application for the <i>Data Scientist</i> position.</p>
	<p>Location: Z&#252;rich</p></body></html>`

	res := Classify(message("no-reply@notify.globex.com", "Your application", body))
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Company != "globex" {
		t.Errorf("company = %q, want globex", res.Company)
	}
	if res.Role != "Data Scientist" {
		t.Errorf("role = %q, want Data Scientist", res.Role)
	}
	if res.Location == nil || *res.Location != "Zürich" {
		t.Errorf("location = %v, want Zürich", res.Location)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"tags stripped", "<div>hello <b>world</b></div>", "hello world"},
		{"entities decoded", "fish &amp; chips &lt;fresh&gt;", "fish & chips <fresh>"},
		{"unicode survives", "<p>résumé — 日本語</p>", "résumé — 日本語"},
		{"whitespace collapsed", "a\n\n  b\t c", "a b c"},
		{"style dropped", "<html><style>p { color: red; }</style><p>body text</p></html>", "body text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompanyFromSenderDomain(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{"jobs@acme.com", "acme"},
		{"Acme Recruiting <jobs@acme.com>", "acme"},
		{"noreply@mail.initech.io", "initech"},
		{"careers@hr.globex.co.uk", "globex"},
		{"someone@gmail.com", ""},
		{"bad-address", ""},
		{"", ""},
	}

	for _, tt := range tests {
		got := companyFromSenderDomain(extractInput{From: tt.from})
		if got != tt.want {
			t.Errorf("companyFromSenderDomain(%q) = %q, want %q", tt.from, got, tt.want)
		}
	}
}

func TestMalformedContentNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"<html><div><p>application",
		strings.Repeat("<", 1000),
		"\xff\xfe invalid utf8 application",
		"<p>&unknownentity; position</p>",
	}

	for _, body := range inputs {
		// must not panic, must either reject or degrade to fallbacks
		res := Classify(message("x@y.z", "hello", body))
		if res != nil && !res.Status.Valid() {
			t.Errorf("degraded result has invalid status %q", res.Status)
		}
	}
}

func TestMergeSecondary(t *testing.T) {
	res := Classify(message("someone@gmail.com", "your application", "we got your application"))
	if res == nil {
		t.Fatal("expected a result")
	}
	if !res.NeedsSecondary() {
		t.Fatal("expected fallback-only result to need secondary extraction")
	}

	before := res.Confidence
	res.MergeSecondary("Hooli", "Site Reliability Engineer")
	if res.Company != "Hooli" || res.Role != "Site Reliability Engineer" {
		t.Errorf("merge did not fill fields: %+v", res)
	}
	want := before + weightCompany + weightRole
	if diff := res.Confidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("confidence after merge = %v, want %v", res.Confidence, want)
	}

	// Extracted fields are never overwritten
	res.MergeSecondary("Other Corp", "Other Role")
	if res.Company != "Hooli" || res.Role != "Site Reliability Engineer" {
		t.Errorf("merge overwrote extracted fields: %+v", res)
	}
}
