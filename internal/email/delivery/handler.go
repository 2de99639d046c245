package delivery

import (
	"errors"
	"net/http"
	"time"

	conndomain "careerpulse-backend/internal/connection/domain"
	emaildto "careerpulse-backend/internal/email/dto"
	"careerpulse-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	syncUsecase usecase.SyncUsecase
}

func NewEmailHandler(syncUsecase usecase.SyncUsecase) *EmailHandler {
	return &EmailHandler{
		syncUsecase: syncUsecase,
	}
}

// Sync runs one fetch-classify-dedupe-persist pass over the connected
// mailbox. Partial failures come back as a 200 with a populated errors array
// so progress is always visible; only auth and token faults are a 401.
func (h *EmailHandler) Sync(c *gin.Context) {
	userID := c.GetString("userID")

	var req emaildto.SyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	opts := usecase.SyncOptions{
		Query:      req.Query,
		MaxResults: req.MaxResults,
	}
	if req.After != "" {
		after, err := time.Parse("2006-01-02", req.After)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "after must be YYYY-MM-DD"})
			return
		}
		opts.After = &after
	}

	result, err := h.syncUsecase.RunSync(c.Request.Context(), userID, opts)
	if err != nil {
		switch {
		case errors.Is(err, conndomain.ErrDisconnected):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no mailbox connection, please connect your account"})
		case errors.Is(err, conndomain.ErrRefreshFailed):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token refresh failed, please reconnect your account"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EmailHandler) Profile(c *gin.Context) {
	userID := c.GetString("userID")

	profile, err := h.syncUsecase.Profile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *EmailHandler) ListApplications(c *gin.Context) {
	userID := c.GetString("userID")

	apps, err := h.syncUsecase.ListApplications(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}
