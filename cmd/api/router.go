package api

import (
	"net/http"

	authDelivery "careerpulse-backend/internal/auth/delivery"
	authUsecase "careerpulse-backend/internal/auth/usecase"
	connDelivery "careerpulse-backend/internal/connection/delivery"
	connUsecase "careerpulse-backend/internal/connection/usecase"
	emailDelivery "careerpulse-backend/internal/email/delivery"
	emailUsecase "careerpulse-backend/internal/email/usecase"
	"careerpulse-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, tokenManager connUsecase.TokenManager, syncUc emailUsecase.SyncUsecase, cfg *config.Config) {
	authHandler := authDelivery.NewAuthHandler(authUc)
	connHandler := connDelivery.NewConnectionHandler(tokenManager, cfg)
	emailHandler := emailDelivery.NewEmailHandler(syncUc)

	requireAuth := authDelivery.AuthMiddleware(authUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes: app sessions plus mailbox connection lifecycle
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/session/refresh", authHandler.RefreshSession)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.Me)

			auth.GET("/gmail", requireAuth, connHandler.GmailAuthURL)
			// Browser redirect target; carries a signed state instead of a session
			auth.GET("/gmail/callback", connHandler.GmailCallback)
			auth.POST("/imap", requireAuth, connHandler.ConnectIMAP)
			auth.GET("/status", requireAuth, connHandler.Status)
			auth.POST("/disconnect", requireAuth, connHandler.Disconnect)
			auth.POST("/refresh", requireAuth, connHandler.Refresh)
		}

		// Email routes (protected)
		emails := api.Group("/email")
		emails.Use(requireAuth)
		{
			emails.POST("/sync", emailHandler.Sync)
			emails.GET("/profile", emailHandler.Profile)
		}

		// Extracted applications (protected)
		api.GET("/applications", requireAuth, emailHandler.ListApplications)
	}
}
