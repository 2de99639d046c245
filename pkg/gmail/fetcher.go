package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	conndomain "careerpulse-backend/internal/connection/domain"
	emaildomain "careerpulse-backend/internal/email/domain"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	maxResultsPerPage = 500 // Gmail API maximum
	fetchAttempts     = 3
	retryBaseDelay    = 500 * time.Millisecond
)

// Fetcher talks to the Gmail API with a caller-supplied access token. Token
// refresh is not its concern; the token manager hands it valid credentials.
type Fetcher struct {
	// Extra client options; tests point the service at a local endpoint.
	opts []option.ClientOption
}

func NewFetcher() *Fetcher {
	return &Fetcher{}
}

func (f *Fetcher) service(ctx context.Context, accessToken string) (*gmail.Service, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	opts := append([]option.ClientOption{option.WithTokenSource(src)}, f.opts...)
	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}
	return srv, nil
}

// ListMessageIDs returns up to max candidate message ids matching the query,
// newest first. The after date, when present, is rendered into the Gmail
// query verbatim as a date filter.
func (f *Fetcher) ListMessageIDs(ctx context.Context, _ *conndomain.Connection, accessToken, query string, after *time.Time, max int64) ([]string, error) {
	srv, err := f.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	q := query
	if after != nil {
		q = strings.TrimSpace(q + " after:" + after.Format("2006/01/02"))
	}

	if max <= 0 {
		max = maxResultsPerPage
	}

	ids := make([]string, 0, max)
	pageToken := ""
	for int64(len(ids)) < max {
		perPage := max - int64(len(ids))
		if perPage > maxResultsPerPage {
			perPage = maxResultsPerPage
		}

		listQuery := srv.Users.Messages.List("me").MaxResults(perPage)
		if q != "" {
			listQuery = listQuery.Q(q)
		}
		if pageToken != "" {
			listQuery = listQuery.PageToken(pageToken)
		}

		resp, err := listQuery.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}

		for _, msg := range resp.Messages {
			if int64(len(ids)) >= max {
				break
			}
			ids = append(ids, msg.Id)
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return ids, nil
}

// GetMessage fetches one full message, retrying transient provider failures
// with backoff. Every failure is wrapped with the message id so callers never
// see a bare transport error.
func (f *Fetcher) GetMessage(ctx context.Context, _ *conndomain.Connection, accessToken, id string) (*emaildomain.RawMessage, error) {
	srv, err := f.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	var msg *gmail.Message
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		msg, err = srv.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
		if err == nil {
			break
		}
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 404 {
			return nil, fmt.Errorf("fetch message %s: %w", id, emaildomain.ErrNotFound)
		}
		if attempt == fetchAttempts || ctx.Err() != nil {
			return nil, fmt.Errorf("fetch message %s: %w", id, err)
		}

		delay := retryBaseDelay * time.Duration(1<<(attempt-1))
		log.Printf("[WARN] fetch message %s failed (attempt %d/%d), retrying in %s: %v", id, attempt, fetchAttempts, delay, err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("fetch message %s: %w", id, ctx.Err())
		}
	}

	return convertMessage(msg), nil
}

// Profile returns the address of the connected Gmail account.
func (f *Fetcher) Profile(ctx context.Context, accessToken string) (string, error) {
	srv, err := f.service(ctx, accessToken)
	if err != nil {
		return "", err
	}

	profile, err := srv.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// Helper functions

func convertMessage(msg *gmail.Message) *emaildomain.RawMessage {
	raw := &emaildomain.RawMessage{
		ID:         msg.Id,
		ReceivedAt: time.Unix(msg.InternalDate/1000, 0),
	}
	// Metadata-only responses carry no payload
	if msg.Payload == nil {
		return raw
	}

	raw.From = getHeader(msg.Payload.Headers, "From")
	raw.Subject = getHeader(msg.Payload.Headers, "Subject")
	raw.Body = getMessageBody(msg.Payload)
	return raw
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

func getMessageBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	// If the payload itself is the body
	if payload.Body != nil && payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(payload.Body.Data)
		if err == nil {
			return string(data)
		}
	}

	var htmlBody string
	var plainBody string

	var findBody func(parts []*gmail.MessagePart)
	findBody = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.MimeType == "text/html" {
				if part.Body != nil && part.Body.Data != "" {
					data, err := base64.URLEncoding.DecodeString(part.Body.Data)
					if err == nil {
						htmlBody = string(data)
					}
				}
			} else if part.MimeType == "text/plain" {
				if part.Body != nil && part.Body.Data != "" {
					data, err := base64.URLEncoding.DecodeString(part.Body.Data)
					if err == nil {
						plainBody = string(data)
					}
				}
			}

			if len(part.Parts) > 0 {
				findBody(part.Parts)
			}
		}
	}

	findBody(payload.Parts)

	if htmlBody != "" {
		return htmlBody
	}
	return plainBody
}
