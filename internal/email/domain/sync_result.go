package domain

// SyncError records one message that could not be processed during a run.
type SyncError struct {
	MessageID string `json:"message_id"`
	Reason    string `json:"reason"`
}

// SyncResult summarizes one orchestration pass. It lives only for the run's
// response; counts satisfy fetched >= classified >= saved + duplicatesSkipped,
// with Errors accounting for the remainder.
type SyncResult struct {
	Fetched           int         `json:"fetched"`
	Classified        int         `json:"classified"`
	DuplicatesSkipped int         `json:"duplicates_skipped"`
	Saved             int         `json:"saved"`
	Errors            []SyncError `json:"errors"`
}
