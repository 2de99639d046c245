package domain

import "testing"

func app(company, role, date string, status Status) *JobApplication {
	return &JobApplication{
		Company:     company,
		Role:        role,
		DateApplied: date,
		Status:      status,
	}
}

func TestKeyOfNormalizes(t *testing.T) {
	a := KeyOf(app("  Acme Corp ", "Backend Engineer", "2025-03-14", StatusApplied))
	b := KeyOf(app("acme corp", "BACKEND ENGINEER", " 2025-03-14 ", StatusApplied))
	if a != b {
		t.Errorf("keys differ after normalization: %+v vs %+v", a, b)
	}
}

func TestIndexIsDuplicate(t *testing.T) {
	existing := []*JobApplication{
		app("Acme", "Backend Engineer", "2025-03-14", StatusApplied),
	}

	tests := []struct {
		name string
		app  *JobApplication
		want bool
	}{
		{
			"same key and status",
			app("Acme", "Backend Engineer", "2025-03-14", StatusApplied),
			true,
		},
		{
			"case and whitespace variant",
			app(" ACME ", "backend engineer", "2025-03-14", StatusApplied),
			true,
		},
		{
			"different status is a progression, not a duplicate",
			app("Acme", "Backend Engineer", "2025-03-14", StatusInterview),
			false,
		},
		{
			"different date is a distinct application",
			app("Acme", "Backend Engineer", "2025-03-15", StatusApplied),
			false,
		},
		{
			"different role",
			app("Acme", "Frontend Engineer", "2025-03-14", StatusApplied),
			false,
		},
		{
			"similar but not equal company",
			app("Acme Inc", "Backend Engineer", "2025-03-14", StatusApplied),
			false,
		},
	}

	idx := NewIndex(existing)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.IsDuplicate(tt.app); got != tt.want {
				t.Errorf("IsDuplicate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndexAddWithinRun(t *testing.T) {
	idx := NewIndex(nil)
	first := app("Globex", "Data Scientist", "2025-03-14", StatusApplied)

	if idx.IsDuplicate(first) {
		t.Fatal("empty index reported a duplicate")
	}
	idx.Add(first)
	if !idx.IsDuplicate(app("globex", "data scientist", "2025-03-14", StatusApplied)) {
		t.Error("record added during the run was not deduped against")
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusApplied, StatusInterview, StatusOffer, StatusRejected} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []Status{"", "pending", "APPLIED"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}
