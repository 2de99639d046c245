package delivery

import (
	"errors"
	"net/http"
	"time"

	conndomain "careerpulse-backend/internal/connection/domain"
	conndto "careerpulse-backend/internal/connection/dto"
	"careerpulse-backend/internal/connection/usecase"
	"careerpulse-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type ConnectionHandler struct {
	tokenManager usecase.TokenManager
	config       *config.Config
}

func NewConnectionHandler(tokenManager usecase.TokenManager, cfg *config.Config) *ConnectionHandler {
	return &ConnectionHandler{
		tokenManager: tokenManager,
		config:       cfg,
	}
}

// GmailAuthURL returns the Google authorization URL. The state parameter is a
// short-lived signed token carrying the user id, because the browser redirect
// back from Google carries no session header.
func (h *ConnectionHandler) GmailAuthURL(c *gin.Context) {
	userID := c.GetString("userID")

	state, err := h.signState(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conndto.AuthURLResponse{URL: h.tokenManager.AuthURL(state)})
}

// GmailCallback exchanges the authorization code and persists the connection.
// It is a browser redirect target, so failures render human-readable text.
func (h *ConnectionHandler) GmailCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "Authorization failed: missing code parameter.")
		return
	}

	userID, err := h.verifyState(c.Query("state"))
	if err != nil {
		c.String(http.StatusBadRequest, "Authorization failed: invalid state.")
		return
	}

	conn, err := h.tokenManager.ExchangeCode(c.Request.Context(), userID, code)
	if err != nil {
		c.String(http.StatusBadRequest, "Could not connect your Gmail account: %s", err.Error())
		return
	}

	c.String(http.StatusOK, "Gmail account %s connected. You can close this window.", conn.Email)
}

func (h *ConnectionHandler) Status(c *gin.Context) {
	userID := c.GetString("userID")

	status, err := h.tokenManager.Status(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.tokenManager.Disconnect(userID); err != nil {
		if errors.Is(err, conndomain.ErrDisconnected) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no mailbox connection"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "disconnected"})
}

func (h *ConnectionHandler) Refresh(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.tokenManager.ForceRefresh(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, conndomain.ErrDisconnected):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no mailbox connection"})
		case errors.Is(err, conndomain.ErrRefreshFailed):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token refresh failed, please reconnect"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token refreshed"})
}

func (h *ConnectionHandler) ConnectIMAP(c *gin.Context) {
	userID := c.GetString("userID")

	var req conndto.IMAPConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tokenManager.ConnectIMAP(userID, &req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "imap account connected"})
}

func (h *ConnectionHandler) signState(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(10 * time.Minute).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

func (h *ConnectionHandler) verifyState(state string) (string, error) {
	token, err := jwt.Parse(state, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid state token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid state claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("invalid state claims")
	}
	return userID, nil
}
