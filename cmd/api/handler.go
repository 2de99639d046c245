package api

import (
	authUsecase "careerpulse-backend/internal/auth/usecase"
	connUsecase "careerpulse-backend/internal/connection/usecase"
	emailUsecase "careerpulse-backend/internal/email/usecase"
	"careerpulse-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase  authUsecase.AuthUsecase
	tokenManager connUsecase.TokenManager
	syncUsecase  emailUsecase.SyncUsecase
	config       *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, tokenManager connUsecase.TokenManager, syncUc emailUsecase.SyncUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:  authUc,
		tokenManager: tokenManager,
		syncUsecase:  syncUc,
		config:       cfg,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.tokenManager, h.syncUsecase, h.config)

	return r.Run(addr)
}
