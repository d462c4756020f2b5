package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"github.com/thomaslittle/usrp-backend/internal/handler"
	"github.com/thomaslittle/usrp-backend/internal/middleware"
	"github.com/thomaslittle/usrp-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	contentHandler *handler.ContentHandler,
	versionHandler *handler.VersionHandler,
	rosterHandler *handler.RosterHandler,
	departmentHandler *handler.DepartmentHandler,
	activityHandler *handler.ActivityHandler,
	notificationHandler *handler.NotificationHandler,
	radioHandler *handler.RadioHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Authentication
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.GetMe)

	// Content and its version history. Reads work anonymously but see
	// only published items; writes require an authenticated editor.
	content := api.Group("/content")
	{
		content.GET("", middleware.OptionalJWTAuth(jwtManager), contentHandler.List)
		content.GET("/search", middleware.OptionalJWTAuth(jwtManager), contentHandler.Search)
		content.GET("/:id", middleware.OptionalJWTAuth(jwtManager), contentHandler.Get)
		content.POST("", middleware.JWTAuth(jwtManager), contentHandler.Create)
		content.PUT("/:id", middleware.JWTAuth(jwtManager), contentHandler.Update)
		content.DELETE("/:id", middleware.JWTAuth(jwtManager), contentHandler.Delete)
		content.POST("/:id/publish", middleware.JWTAuth(jwtManager), contentHandler.Publish)
		content.POST("/:id/unpublish", middleware.JWTAuth(jwtManager), contentHandler.Unpublish)

		versions := content.Group("/:id/versions", middleware.JWTAuth(jwtManager))
		{
			versions.GET("", versionHandler.List)
			versions.GET("/stats", versionHandler.Stats)
			versions.GET("/compare", versionHandler.Compare)
			versions.GET("/:version", versionHandler.Get)
			versions.POST("/:version/restore", versionHandler.Restore)
		}
	}

	// Roster is public; user management is admin only
	api.GET("/roster", middleware.OptionalJWTAuth(jwtManager), rosterHandler.GetRoster)

	users := api.Group("/users", middleware.JWTAuth(jwtManager))
	{
		users.GET("", rosterHandler.ListUsers)
		users.GET("/:id", rosterHandler.GetUser)
		users.PUT("/:id", middleware.RequireRole(domain.RoleAdmin), rosterHandler.UpdateUser)
	}

	departments := api.Group("/departments")
	{
		departments.GET("", departmentHandler.List)
		departments.GET("/:id", departmentHandler.Get)
	}

	activity := api.Group("/activity", middleware.JWTAuth(jwtManager), middleware.RequireRole(domain.RoleAdmin))
	{
		activity.GET("", activityHandler.List)
		activity.GET("/:type/:id", activityHandler.ListForResource)
	}

	notifications := api.Group("/notifications", middleware.JWTAuth(jwtManager))
	{
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.POST("/:id/read", notificationHandler.MarkRead)
	}

	radioGroup := api.Group("/radio")
	{
		radioGroup.POST("/translate", radioHandler.Translate)
		radioGroup.GET("/codes/:code", radioHandler.Lookup)
	}
}
