package usecase

import (
	"context"
	"time"

	appdomain "careerpulse-backend/internal/application/domain"
	emaildomain "careerpulse-backend/internal/email/domain"
	emaildto "careerpulse-backend/internal/email/dto"
	"careerpulse-backend/pkg/llm"
)

// SyncOptions narrow one sync run. MaxResults is a hard cap on fetched
// messages regardless of how many the provider reports.
type SyncOptions struct {
	Query      string
	After      *time.Time
	MaxResults int64
}

// LLMExtractor is the optional secondary parser consulted when heuristic
// extraction came up empty. nil disables it.
type LLMExtractor interface {
	ExtractApplication(ctx context.Context, subject, body string) (*llm.Extraction, error)
}

type SyncUsecase interface {
	// RunSync drives one end-to-end pass: acquire credential, fetch candidate
	// messages, classify, dedupe, persist. Auth failures abort the run;
	// everything later is isolated per message.
	RunSync(ctx context.Context, userID string, opts SyncOptions) (*emaildomain.SyncResult, error)

	Profile(ctx context.Context, userID string) (*emaildto.ProfileResponse, error)
	ListApplications(userID string) ([]*appdomain.JobApplication, error)
}
