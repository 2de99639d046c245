package usecase

import (
	"context"

	conndomain "careerpulse-backend/internal/connection/domain"
	conndto "careerpulse-backend/internal/connection/dto"
)

// ProfileFetcher resolves the mail account identity behind an access token.
type ProfileFetcher interface {
	Profile(ctx context.Context, accessToken string) (string, error)
}

// TokenManager owns the OAuth credential lifecycle: it decides whether a
// stored credential is usable, refreshes it, or invalidates the connection.
type TokenManager interface {
	// AcquireAccessToken returns a valid access token for the user, refreshing
	// transparently when expired. Fails with domain.ErrDisconnected or
	// domain.ErrRefreshFailed; callers must not retry the latter.
	AcquireAccessToken(ctx context.Context, userID string) (string, error)

	AuthURL(state string) string
	ExchangeCode(ctx context.Context, userID, code string) (*conndomain.Connection, error)
	ConnectIMAP(userID string, req *conndto.IMAPConnectRequest) error
	Disconnect(userID string) error
	ForceRefresh(ctx context.Context, userID string) error
	Status(ctx context.Context, userID string) (*conndto.StatusResponse, error)
	Connection(userID string) (*conndomain.Connection, error)
}
