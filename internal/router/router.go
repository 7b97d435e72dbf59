package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focustimer/internal/handler"
	"focustimer/internal/middleware"
	"focustimer/internal/service"
)

func New(
	authService *service.AuthService,
	authHandler *handler.AuthHandler,
	syncHandler *handler.SyncHandler,
	corsOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	sync := api.Group("")
	sync.Use(middleware.Auth(authService))
	sync.GET("/tasks", syncHandler.ListTasks)
	sync.POST("/tasks", syncHandler.CreateTask)
	sync.PATCH("/tasks/:id", syncHandler.UpdateTask)
	sync.DELETE("/tasks/:id", syncHandler.DeleteTask)
	sync.GET("/sessions", syncHandler.ListSessions)
	sync.POST("/sessions", syncHandler.SaveSession)
	sync.GET("/settings", syncHandler.GetSettings)
	sync.PUT("/settings", syncHandler.SaveSettings)

	return engine
}
