package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	appdomain "careerpulse-backend/internal/application/domain"
	apprepo "careerpulse-backend/internal/application/repository"
	conndomain "careerpulse-backend/internal/connection/domain"
	connusecase "careerpulse-backend/internal/connection/usecase"
	emaildomain "careerpulse-backend/internal/email/domain"
	emaildto "careerpulse-backend/internal/email/dto"
	"careerpulse-backend/pkg/classifier"
)

// Default provider-side queries when the caller narrows nothing. The Gmail
// form pre-filters on the provider; IMAP TEXT search is far cruder, so a
// single broad term does the narrowing there.
const (
	defaultGmailQuery = `application OR interview OR offer OR "thank you for applying"`
	defaultIMAPQuery  = "application"
)

// syncUsecase implements SyncUsecase interface
type syncUsecase struct {
	tokenManager  connusecase.TokenManager
	appRepo       apprepo.ApplicationRepository
	gmailProvider emaildomain.MailProvider
	imapProvider  emaildomain.MailProvider
	llmExtractor  LLMExtractor

	maxConcurrentFetches int
	fetchTimeout         time.Duration
}

// NewSyncUsecase creates a new instance of syncUsecase
func NewSyncUsecase(tokenManager connusecase.TokenManager, appRepo apprepo.ApplicationRepository, gmailProvider, imapProvider emaildomain.MailProvider, llmExtractor LLMExtractor, maxConcurrentFetches int, fetchTimeout time.Duration) SyncUsecase {
	if maxConcurrentFetches <= 0 {
		maxConcurrentFetches = 5
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}
	return &syncUsecase{
		tokenManager:         tokenManager,
		appRepo:              appRepo,
		gmailProvider:        gmailProvider,
		imapProvider:         imapProvider,
		llmExtractor:         llmExtractor,
		maxConcurrentFetches: maxConcurrentFetches,
		fetchTimeout:         fetchTimeout,
	}
}

// messageOutcome carries one message through the fetch+classify stage. A nil
// result with a nil error means the message was fetched but is not
// job-related.
type messageOutcome struct {
	id  string
	res *classifier.Result
	err error
}

func (u *syncUsecase) RunSync(ctx context.Context, userID string, opts SyncOptions) (*emaildomain.SyncResult, error) {
	conn, err := u.tokenManager.Connection(userID)
	if err != nil {
		return nil, err
	}
	if conn == nil || !conn.Connected {
		return nil, conndomain.ErrDisconnected
	}

	// Step 1: credential. Any failure here aborts the run with no partial
	// result.
	token, err := u.tokenManager.AcquireAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	provider := u.providerFor(conn)
	query := opts.Query
	if query == "" {
		if conn.Provider == conndomain.ProviderIMAP {
			query = defaultIMAPQuery
		} else {
			query = defaultGmailQuery
		}
	}

	// Step 2: candidate ids. A failure on this very first fetch aborts the
	// run; per-message failures later do not.
	listCtx, cancelList := context.WithTimeout(ctx, u.fetchTimeout)
	ids, err := provider.ListMessageIDs(listCtx, conn, token, query, opts.After, opts.MaxResults)
	cancelList()
	if err != nil {
		return nil, fmt.Errorf("list candidate messages: %w", err)
	}

	log.Printf("[DEBUG] sync for user %s: %d candidate messages", userID, len(ids))

	// Step 3: fetch and classify in parallel with bounded concurrency.
	// Classification is a pure function, so it runs inside the workers;
	// outcomes keep list order.
	outcomes := make([]messageOutcome, len(ids))
	semaphore := make(chan struct{}, u.maxConcurrentFetches)
	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			fetchCtx, cancel := context.WithTimeout(ctx, u.fetchTimeout)
			defer cancel()

			msg, err := provider.GetMessage(fetchCtx, conn, token, id)
			if err != nil {
				outcomes[i] = messageOutcome{id: id, err: err}
				return
			}

			res := classifier.Classify(msg)
			if res != nil && res.NeedsSecondary() {
				u.assistExtraction(ctx, msg, res)
			}
			outcomes[i] = messageOutcome{id: id, res: res}
		}(i, id)
	}
	wg.Wait()

	// Step 4: dedupe and persist serially so the existing set stays
	// consistent across the batch.
	existing, err := u.appRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("load existing applications: %w", err)
	}
	index := appdomain.NewIndex(existing)
	seenEmailIDs := make(map[string]struct{}, len(existing))
	for _, app := range existing {
		seenEmailIDs[app.EmailID] = struct{}{}
	}

	result := &emaildomain.SyncResult{Errors: []emaildomain.SyncError{}}
	for _, out := range outcomes {
		if out.err != nil {
			result.Errors = append(result.Errors, emaildomain.SyncError{MessageID: out.id, Reason: out.err.Error()})
			continue
		}
		result.Fetched++
		if out.res == nil {
			continue
		}
		result.Classified++

		// Cancellation mid-persist leaves already-saved records intact:
		// a cancelled run is a subset of a completed one, not a rollback.
		if ctx.Err() != nil {
			break
		}

		app := &appdomain.JobApplication{
			UserID:      userID,
			Company:     out.res.Company,
			Role:        out.res.Role,
			Status:      out.res.Status,
			DateApplied: out.res.DateApplied,
			Location:    out.res.Location,
			Confidence:  out.res.Confidence,
			EmailID:     out.res.EmailID,
		}

		// A message persisted by a previous run, or a same-key application
		// already saved this run, is absorbed as a duplicate.
		if _, seen := seenEmailIDs[app.EmailID]; seen {
			result.DuplicatesSkipped++
			continue
		}
		if index.IsDuplicate(app) {
			result.DuplicatesSkipped++
			continue
		}

		if err := u.appRepo.Create(app); err != nil {
			result.Errors = append(result.Errors, emaildomain.SyncError{MessageID: out.id, Reason: fmt.Sprintf("save application: %v", err)})
			continue
		}
		index.Add(app)
		seenEmailIDs[app.EmailID] = struct{}{}
		result.Saved++
	}

	log.Printf("[DEBUG] sync for user %s done: fetched=%d classified=%d saved=%d duplicates=%d errors=%d",
		userID, result.Fetched, result.Classified, result.Saved, result.DuplicatesSkipped, len(result.Errors))
	return result, nil
}

func (u *syncUsecase) providerFor(conn *conndomain.Connection) emaildomain.MailProvider {
	if conn.Provider == conndomain.ProviderIMAP {
		return u.imapProvider
	}
	return u.gmailProvider
}

// assistExtraction consults the optional LLM extractor. It is best effort:
// failures are logged and the heuristic result stands.
func (u *syncUsecase) assistExtraction(ctx context.Context, msg *emaildomain.RawMessage, res *classifier.Result) {
	if u.llmExtractor == nil {
		return
	}

	llmCtx, cancel := context.WithTimeout(ctx, u.fetchTimeout)
	defer cancel()

	extraction, err := u.llmExtractor.ExtractApplication(llmCtx, msg.Subject, classifier.Normalize(msg.Body))
	if err != nil {
		log.Printf("[WARN] secondary extraction failed for message %s: %v", msg.ID, err)
		return
	}
	res.MergeSecondary(extraction.Company, extraction.Role)
}

func (u *syncUsecase) Profile(ctx context.Context, userID string) (*emaildto.ProfileResponse, error) {
	conn, err := u.tokenManager.Connection(userID)
	if err != nil {
		return nil, err
	}

	resp := &emaildto.ProfileResponse{}
	if conn != nil && conn.Connected {
		resp.Connected = true
		resp.Email = conn.Email
		resp.Provider = string(conn.Provider)
	}

	count, err := u.appRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}
	resp.Applications = count
	return resp, nil
}

func (u *syncUsecase) ListApplications(userID string) ([]*appdomain.JobApplication, error) {
	return u.appRepo.ListByUserID(userID)
}
