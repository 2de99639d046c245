package domain

import "strings"

// Key is the derived identity used for duplicate detection: the normalized
// (company, role, dateApplied) triple. Matching is exact after normalization;
// a different date is a distinct application instance, not a duplicate.
type Key struct {
	Company     string
	Role        string
	DateApplied string
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// KeyOf derives the duplicate key for an application.
func KeyOf(app *JobApplication) Key {
	return Key{
		Company:     normalize(app.Company),
		Role:        normalize(app.Role),
		DateApplied: strings.TrimSpace(app.DateApplied),
	}
}

type keyStatus struct {
	key    Key
	status Status
}

// Index is the set of (Key, Status) pairs seen so far. A sync run seeds it
// from the store and adds each record it saves, so two messages describing the
// same application within one run dedupe against each other as well.
type Index struct {
	seen map[keyStatus]struct{}
}

func NewIndex(existing []*JobApplication) *Index {
	idx := &Index{seen: make(map[keyStatus]struct{}, len(existing))}
	for _, app := range existing {
		idx.Add(app)
	}
	return idx
}

func (idx *Index) Add(app *JobApplication) {
	idx.seen[keyStatus{key: KeyOf(app), status: app.Status}] = struct{}{}
}

// IsDuplicate reports whether an application with the same duplicate key and
// the same status already exists.
func (idx *Index) IsDuplicate(app *JobApplication) bool {
	_, ok := idx.seen[keyStatus{key: KeyOf(app), status: app.Status}]
	return ok
}
