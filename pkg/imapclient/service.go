package imapclient

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	conndomain "careerpulse-backend/internal/connection/domain"
	emaildomain "careerpulse-backend/internal/email/domain"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
)

// Service fetches mail over IMAP for accounts connected with an app password.
// It satisfies the same provider contract as the Gmail fetcher; message ids
// are mailbox UIDs rendered as strings.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) connect(conn *conndomain.Connection, password string) (*client.Client, error) {
	addr := fmt.Sprintf("%s:%d", conn.ImapHost, conn.ImapPort)
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial imap server %s: %w", addr, err)
	}

	if err := c.Login(conn.Email, password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("imap login for %s: %w", conn.Email, err)
	}
	return c, nil
}

// ListMessageIDs searches INBOX for candidate messages. The after date maps
// onto the IMAP SINCE criterion; free-text query terms map onto TEXT.
func (s *Service) ListMessageIDs(ctx context.Context, conn *conndomain.Connection, password, query string, after *time.Time, max int64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := s.connect(conn, password)
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("select INBOX: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	if after != nil {
		criteria.Since = *after
	}
	if q := strings.TrimSpace(query); q != "" {
		criteria.Text = []string{q}
	}

	uids, err := c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}

	// Newest first, capped at max
	ids := make([]string, 0, len(uids))
	for i := len(uids) - 1; i >= 0; i-- {
		if max > 0 && int64(len(ids)) >= max {
			break
		}
		ids = append(ids, strconv.FormatUint(uint64(uids[i]), 10))
	}
	return ids, nil
}

// GetMessage fetches one full message body by UID.
func (s *Service) GetMessage(ctx context.Context, conn *conndomain.Connection, password, id string) (*emaildomain.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch message %s: %w", id, err)
	}

	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("fetch message %s: invalid uid: %w", id, err)
	}

	c, err := s.connect(conn, password)
	if err != nil {
		return nil, fmt.Errorf("fetch message %s: %w", id, err)
	}
	defer c.Logout()

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("fetch message %s: select INBOX: %w", id, err)
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uint32(uid))

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchInternalDate}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqset, items, messages)
	}()

	msg := <-messages
	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch message %s: %w", id, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("fetch message %s: %w", id, emaildomain.ErrNotFound)
	}

	raw, err := parseMessage(id, msg, section)
	if err != nil {
		return nil, fmt.Errorf("fetch message %s: %w", id, err)
	}
	return raw, nil
}

func parseMessage(id string, msg *imap.Message, section *imap.BodySectionName) (*emaildomain.RawMessage, error) {
	body := msg.GetBody(section)
	if body == nil {
		return nil, emaildomain.ErrNotFound
	}

	mr, err := mail.CreateReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	raw := &emaildomain.RawMessage{
		ID:         id,
		ReceivedAt: msg.InternalDate,
	}

	if subject, err := mr.Header.Subject(); err == nil {
		raw.Subject = subject
	}
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		raw.From = from[0].String()
	}
	if raw.ReceivedAt.IsZero() {
		if date, err := mr.Header.Date(); err == nil {
			raw.ReceivedAt = date
		}
	}

	var htmlBody, plainBody string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed parts degrade to whatever body we already have
			break
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := header.ContentType()
		data, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch contentType {
		case "text/html":
			htmlBody = string(data)
		case "text/plain":
			plainBody = string(data)
		}
	}

	if htmlBody != "" {
		raw.Body = htmlBody
	} else {
		raw.Body = plainBody
	}
	return raw, nil
}
