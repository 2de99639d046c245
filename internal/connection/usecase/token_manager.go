package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	conndomain "careerpulse-backend/internal/connection/domain"
	conndto "careerpulse-backend/internal/connection/dto"
	"careerpulse-backend/internal/connection/repository"
	"careerpulse-backend/pkg/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// expiryMargin keeps us from handing out tokens that expire mid-request.
const expiryMargin = 60 * time.Second

var gmailScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/userinfo.email",
}

// tokenManager implements TokenManager interface
type tokenManager struct {
	connRepo repository.ConnectionRepository
	profiles ProfileFetcher
	oauthCfg *oauth2.Config

	// Serializes refresh per user so racing refreshes cannot invalidate each
	// other's refresh token.
	refreshMu sync.Mutex
	inflight  map[string]*sync.Mutex
}

// NewTokenManager creates a new instance of tokenManager
func NewTokenManager(connRepo repository.ConnectionRepository, profiles ProfileFetcher, cfg *config.Config) TokenManager {
	return &tokenManager{
		connRepo: connRepo,
		profiles: profiles,
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes:       gmailScopes,
			Endpoint:     google.Endpoint,
		},
		inflight: make(map[string]*sync.Mutex),
	}
}

func (m *tokenManager) userMutex(userID string) *sync.Mutex {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()
	mu, ok := m.inflight[userID]
	if !ok {
		mu = &sync.Mutex{}
		m.inflight[userID] = mu
	}
	return mu
}

func (m *tokenManager) AcquireAccessToken(ctx context.Context, userID string) (string, error) {
	conn, err := m.connRepo.FindByUserID(userID)
	if err != nil {
		return "", err
	}
	if conn == nil || !conn.Connected {
		return "", conndomain.ErrDisconnected
	}

	// IMAP credentials are static app passwords, nothing to refresh.
	if conn.Provider == conndomain.ProviderIMAP {
		return conn.AccessToken, nil
	}

	if !conn.Expired(expiryMargin) {
		return conn.AccessToken, nil
	}

	mu := m.userMutex(userID)
	mu.Lock()
	defer mu.Unlock()

	// Re-read after taking the lock: another request may have refreshed while
	// we waited.
	conn, err = m.connRepo.FindByUserID(userID)
	if err != nil {
		return "", err
	}
	if conn == nil || !conn.Connected {
		return "", conndomain.ErrDisconnected
	}
	if !conn.Expired(expiryMargin) {
		return conn.AccessToken, nil
	}

	return m.refresh(ctx, conn)
}

// refresh exchanges the stored refresh token for a new access token and
// persists the result. Caller must hold the user's refresh mutex.
func (m *tokenManager) refresh(ctx context.Context, conn *conndomain.Connection) (string, error) {
	log.Printf("[DEBUG] refreshing access token for user %s", conn.UserID)

	src := m.oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: conn.RefreshToken})
	token, err := src.Token()
	if err != nil {
		log.Printf("[WARN] token refresh failed for user %s, disconnecting: %v", conn.UserID, err)
		conn.Connected = false
		conn.AccessToken = ""
		conn.RefreshToken = ""
		if updateErr := m.connRepo.Update(conn); updateErr != nil {
			log.Printf("[ERROR] failed to persist disconnect for user %s: %v", conn.UserID, updateErr)
		}
		return "", fmt.Errorf("%w: %v", conndomain.ErrRefreshFailed, err)
	}

	conn.AccessToken = token.AccessToken
	conn.ExpiresAt = token.Expiry
	if token.RefreshToken != "" {
		// Provider rotated the refresh token
		conn.RefreshToken = token.RefreshToken
	}
	if err := m.connRepo.Update(conn); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}

	log.Printf("[DEBUG] access token refreshed for user %s, expires %s", conn.UserID, conn.ExpiresAt.Format(time.RFC3339))
	return conn.AccessToken, nil
}

func (m *tokenManager) AuthURL(state string) string {
	// AccessTypeOffline + consent prompt: we need a refresh token every time
	return m.oauthCfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

func (m *tokenManager) ExchangeCode(ctx context.Context, userID, code string) (*conndomain.Connection, error) {
	token, err := m.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if token.RefreshToken == "" {
		return nil, errors.New("token response missing refresh token")
	}

	email := ""
	if m.profiles != nil {
		email, err = m.profiles.Profile(ctx, token.AccessToken)
		if err != nil {
			log.Printf("[WARN] could not resolve account identity for user %s: %v", userID, err)
		}
	}

	conn := &conndomain.Connection{
		UserID:       userID,
		Provider:     conndomain.ProviderGmail,
		Email:        email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
		Connected:    true,
	}
	if err := m.connRepo.Upsert(conn); err != nil {
		return nil, fmt.Errorf("persist connection: %w", err)
	}
	return conn, nil
}

func (m *tokenManager) ConnectIMAP(userID string, req *conndto.IMAPConnectRequest) error {
	conn := &conndomain.Connection{
		UserID:      userID,
		Provider:    conndomain.ProviderIMAP,
		Email:       req.Email,
		AccessToken: req.Password,
		ImapHost:    req.Host,
		ImapPort:    req.Port,
		Connected:   true,
	}
	return m.connRepo.Upsert(conn)
}

func (m *tokenManager) Disconnect(userID string) error {
	conn, err := m.connRepo.FindByUserID(userID)
	if err != nil {
		return err
	}
	if conn == nil {
		return conndomain.ErrDisconnected
	}

	conn.Connected = false
	conn.AccessToken = ""
	conn.RefreshToken = ""
	return m.connRepo.Update(conn)
}

func (m *tokenManager) ForceRefresh(ctx context.Context, userID string) error {
	conn, err := m.connRepo.FindByUserID(userID)
	if err != nil {
		return err
	}
	if conn == nil || !conn.Connected {
		return conndomain.ErrDisconnected
	}
	if conn.Provider == conndomain.ProviderIMAP {
		return nil
	}

	mu := m.userMutex(userID)
	mu.Lock()
	defer mu.Unlock()

	// Re-read after taking the lock: a refresh that completed while we waited
	// rotated the stored refresh token, and replaying the old one would get
	// the connection force-disconnected over a stale invalid_grant.
	conn, err = m.connRepo.FindByUserID(userID)
	if err != nil {
		return err
	}
	if conn == nil || !conn.Connected {
		return conndomain.ErrDisconnected
	}
	if !conn.Expired(expiryMargin) {
		return nil
	}

	_, err = m.refresh(ctx, conn)
	return err
}

// Status reports the connection state, applying the same refresh-or-disconnect
// decision as AcquireAccessToken when the stored token is expired.
func (m *tokenManager) Status(ctx context.Context, userID string) (*conndto.StatusResponse, error) {
	conn, err := m.connRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if conn == nil || !conn.Connected {
		return &conndto.StatusResponse{Connected: false}, nil
	}

	if conn.Provider == conndomain.ProviderGmail && conn.Expired(expiryMargin) {
		if _, err := m.AcquireAccessToken(ctx, userID); err != nil {
			if errors.Is(err, conndomain.ErrRefreshFailed) || errors.Is(err, conndomain.ErrDisconnected) {
				return &conndto.StatusResponse{Connected: false, Error: "token refresh failed, please reconnect"}, nil
			}
			return nil, err
		}
	}

	return &conndto.StatusResponse{Connected: true, Email: conn.Email}, nil
}

func (m *tokenManager) Connection(userID string) (*conndomain.Connection, error) {
	return m.connRepo.FindByUserID(userID)
}
