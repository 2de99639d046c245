package dto

type SyncRequest struct {
	Query      string `json:"query"`
	After      string `json:"after"` // YYYY-MM-DD
	MaxResults int64  `json:"max_results"`
}

type ProfileResponse struct {
	Connected    bool   `json:"connected"`
	Email        string `json:"email,omitempty"`
	Provider     string `json:"provider,omitempty"`
	Applications int64  `json:"applications"`
}
