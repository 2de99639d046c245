package classifier

// NeedsSecondary reports whether heuristic extraction produced only fallback
// values for both company and role, making a secondary extractor worth asking.
func (r *Result) NeedsSecondary() bool {
	return r.Company == fallbackCompany && r.Role == fallbackRole
}

// MergeSecondary fills fallback fields from a secondary extractor, crediting
// the same per-field weights so the additive scoring contract holds no matter
// which strategy produced a field.
func (r *Result) MergeSecondary(company, role string) {
	if company != "" && r.Company == fallbackCompany {
		r.Company = company
		r.Confidence += weightCompany
	}
	if role != "" && r.Role == fallbackRole {
		r.Role = role
		r.Confidence += weightRole
	}
	if r.Confidence > 1.0 {
		r.Confidence = 1.0
	}
}
