package classifier

import (
	"regexp"
	"strings"
)

type extractInput struct {
	From    string
	Subject string
	Body    string
}

// An extractor tries one strategy and returns "" when it finds nothing.
// Extractors for a field run in declared order; the first non-empty result
// wins, so new strategies can be appended without touching control flow.
type extractor func(in extractInput) string

func firstMatch(extractors []extractor, in extractInput) string {
	for _, extract := range extractors {
		if v := extract(in); v != "" {
			return v
		}
	}
	return ""
}

var companyExtractors = []extractor{
	companyFromSenderDomain,
	patternExtractor(companySubjectPatterns, func(in extractInput) string { return in.Subject }),
	patternExtractor(companyBodyPatterns, func(in extractInput) string { return in.Body }),
}

var roleExtractors = []extractor{
	patternExtractor(roleSubjectPatterns, func(in extractInput) string { return in.Subject }),
	patternExtractor(roleBodyPatterns, func(in extractInput) string { return in.Body }),
}

var locationExtractors = []extractor{
	patternExtractor(locationBodyPatterns, func(in extractInput) string { return in.Body }),
}

var (
	companySubjectPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)application (?:at|to|with) ([A-Za-z0-9][\w&.' -]{1,40})`),
		regexp.MustCompile(`(?i)your (?:candidacy|interview) (?:at|with) ([A-Za-z0-9][\w&.' -]{1,40})`),
		regexp.MustCompile(`(?i)offer from ([A-Za-z0-9][\w&.' -]{1,40})`),
	}
	companyBodyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:thank you|thanks) for (?:applying|your application) (?:at|to|with) ([A-Za-z0-9][\w&.' -]{1,40})`),
		regexp.MustCompile(`(?i)(?:position|role|opening|opportunity) (?:at|with) ([A-Za-z0-9][\w&.' -]{1,40})`),
		regexp.MustCompile(`(?i)interest in joining ([A-Za-z0-9][\w&.' -]{1,40})`),
		regexp.MustCompile(`(?i)on behalf of ([A-Za-z0-9][\w&.' -]{1,40})`),
	}

	roleSubjectPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)application (?:received|update|confirmation|status)[:\-]\s*(.{2,60})`),
		regexp.MustCompile(`(?i)for (?:the )?(.{2,60}?) (?:position|role|opening)`),
		regexp.MustCompile(`(?i)(?:position|role|opening)[:\-]\s*(.{2,60})`),
		regexp.MustCompile(`(?i)interview (?:for|invitation[:\-])\s*(.{2,60})`),
	}
	roleBodyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)for (?:the )?(.{2,60}?) (?:position|role|opening)`),
		regexp.MustCompile(`(?i)position of ([^.,;\n]{2,60})`),
		regexp.MustCompile(`(?i)(?:position|role|title)[:\-]\s*([^.,;\n]{2,60})`),
	}

	locationBodyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)location[:\-]\s*([^.;\n]{2,60})`),
		regexp.MustCompile(`(?i)based (?:in|out of) ([^.;\n]{2,50})`),
		regexp.MustCompile(`(?i)located in ([^.;\n]{2,50})`),
		regexp.MustCompile(`(?i)\b(remote|hybrid|on-?site)\b`),
	}
)

// Sender domains that identify a mail service, not an employer.
var genericDomains = map[string]struct{}{
	"gmail":      {},
	"googlemail": {},
	"google":     {},
	"yahoo":      {},
	"outlook":    {},
	"hotmail":    {},
	"live":       {},
	"icloud":     {},
	"aol":        {},
	"proton":     {},
	"protonmail": {},
	"mail":       {},
}

// Routing sub-domain labels skipped when picking the company label out of a
// sender domain like jobs@mail.acme.com.
var routingLabels = map[string]struct{}{
	"mail":          {},
	"email":         {},
	"smtp":          {},
	"careers":       {},
	"jobs":          {},
	"hr":            {},
	"talent":        {},
	"recruiting":    {},
	"notify":        {},
	"notifications": {},
	"noreply":       {},
	"no-reply":      {},
	"us":            {},
	"eu":            {},
}

// companyFromSenderDomain derives the company from the sender address domain:
// jobs@acme.com -> "acme". Generic mail providers yield nothing so the next
// strategy gets a chance.
func companyFromSenderDomain(in extractInput) string {
	addr := in.From
	if start := strings.LastIndex(addr, "<"); start >= 0 {
		addr = addr[start+1:]
		addr = strings.TrimSuffix(strings.TrimSpace(addr), ">")
	}

	at := strings.LastIndex(addr, "@")
	if at < 0 || at == len(addr)-1 {
		return ""
	}
	domain := strings.ToLower(strings.TrimSpace(addr[at+1:]))

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return ""
	}
	// Drop the TLD, then skip routing labels from the left
	labels = labels[:len(labels)-1]
	for len(labels) > 1 {
		if _, skip := routingLabels[labels[0]]; !skip {
			break
		}
		labels = labels[1:]
	}

	candidate := labels[0]
	if _, generic := genericDomains[candidate]; generic {
		return ""
	}
	return candidate
}

// patternExtractor builds an extractor that tries each regexp in order
// against the selected source field.
func patternExtractor(patterns []*regexp.Regexp, source func(in extractInput) string) extractor {
	return func(in extractInput) string {
		text := source(in)
		if text == "" {
			return ""
		}
		for _, re := range patterns {
			if m := re.FindStringSubmatch(text); m != nil {
				if v := cleanCapture(m[1]); v != "" {
					return v
				}
			}
		}
		return ""
	}
}

// cleanCapture trims a regex capture down to a presentable value: cut at
// sentence punctuation, drop dangling connectives, bound the length.
func cleanCapture(s string) string {
	if idx := strings.IndexAny(s, ".!?\n"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.Trim(s, " \t\"'-–:,;")
	for _, suffix := range []string{" at", " with", " for", " the", " a", " an"} {
		s = strings.TrimSuffix(s, suffix)
	}
	if len(s) > 60 {
		s = strings.TrimSpace(s[:60])
	}
	return s
}
