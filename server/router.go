package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"livestream-backend/domain/repository"
	"livestream-backend/infrastructure/configuration"
	httpHandler "livestream-backend/interfaces/http"
	"livestream-backend/interfaces/middleware"
)

func InitiateRouter(
	cfg configuration.Config,
	userHandler httpHandler.IUserHandler,
	videoHandler httpHandler.IVideoHandler,
	notificationHandler httpHandler.INotificationHandler,
	userRepository repository.IUser,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.MaxMultipartMemory = cfg.App.MaxUploadBytes

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authorized := middleware.Auth(cfg, userRepository)
	api := router.Group("api")

	api.POST("/users/signup", userHandler.Register)
	api.POST("/users/login", userHandler.Login)
	api.GET("/users", userHandler.ListUsers)

	api.GET("/videos", videoHandler.List)
	api.GET("/videos/search", videoHandler.Search)
	api.GET("/videos/:videoId", videoHandler.Get)
	api.GET("/videos/:videoId/stream", videoHandler.Stream)
	api.GET("/videos/:videoId/comments", videoHandler.ListComments)

	api.POST("/videos", authorized, videoHandler.Create)
	api.PUT("/videos/:videoId", authorized, videoHandler.Update)
	api.DELETE("/videos/:videoId", authorized, videoHandler.Delete)
	api.POST("/videos/:videoId/like", authorized, videoHandler.ToggleLike)
	api.POST("/videos/:videoId/comments", authorized, videoHandler.AddComment)
	api.PUT("/videos/:videoId/comments/:commentId", authorized, videoHandler.EditComment)
	api.DELETE("/videos/:videoId/comments/:commentId", authorized, videoHandler.DeleteComment)

	api.GET("/users/me", authorized, userHandler.Me)
	api.PUT("/users/me", authorized, userHandler.UpdateMe)
	api.DELETE("/users/me", authorized, userHandler.DeleteMe)
	api.GET("/users/me/notifications", authorized, notificationHandler.ListMine)
	api.POST("/users/me/notifications/read", authorized, notificationHandler.MarkAllRead)
	api.GET("/users/:id", userHandler.GetUser)
	api.GET("/users/:id/videos", videoHandler.ListByOwner)
	api.POST("/users/:id/toggle-follow", authorized, userHandler.ToggleFollow)

	// Routes for the transcoding worker, guarded by a shared key.
	internal := router.Group("internal")
	internal.Use(middleware.WorkerAuth(cfg))
	internal.PATCH("/videos/:videoId/status", videoHandler.AdvanceStatus)

	return router
}
