package router

import (
	"ladle/internal/handlers"
	"ladle/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	authHandler := handlers.NewAuthHandler()
	recipeHandler := handlers.NewRecipeHandler()
	likeHandler := handlers.NewLikeHandler()
	favoriteHandler := handlers.NewFavoriteHandler()
	commentHandler := handlers.NewCommentHandler()
	cuisineHandler := handlers.NewCuisineHandler()
	userHandler := handlers.NewUserHandler()
	notificationHandler := handlers.NewNotificationHandler()
	imageHandler := handlers.NewImageHandler()

	limiter := middleware.NewRateLimiter()

	// Public routes
	r.GET("/recipes", recipeHandler.ListTrending)
	r.GET("/recipes/latest", recipeHandler.ListLatest)
	r.GET("/recipes/:rid", recipeHandler.Detail)
	r.GET("/recipes/:rid/comments", commentHandler.List)
	r.GET("/search", recipeHandler.Search)
	r.GET("/cuisines", cuisineHandler.List)
	r.GET("/cuisines/:name/recipes", recipeHandler.ListByCuisine)
	r.GET("/users/:id", userHandler.Profile)
	r.GET("/img/:id", imageHandler.Proxy)

	auth := r.Group("/auth")
	{
		auth.GET("/captcha", authHandler.Captcha)
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/activate", authHandler.Activate)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	// Protected routes; the rate limiter admits mutations before any
	// handler logic runs
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired(), limiter.Limit())
	{
		authorized.POST("/recipes", recipeHandler.Create)
		authorized.PUT("/recipes/:rid", recipeHandler.Update)
		authorized.DELETE("/recipes/:rid", recipeHandler.Delete)

		authorized.POST("/recipes/:rid/like", likeHandler.Toggle)
		authorized.POST("/recipes/:rid/favorite", favoriteHandler.Toggle)
		authorized.GET("/favorites", favoriteHandler.ListMine)

		authorized.POST("/recipes/:rid/comments", commentHandler.Create)
		authorized.PUT("/comments/:cid", commentHandler.Update)
		authorized.DELETE("/comments/:cid", commentHandler.Delete)

		authorized.POST("/api/upload", imageHandler.Upload)

		authorized.GET("/me", userHandler.Me)
		authorized.PUT("/me/settings", userHandler.UpdateSettings)

		authorized.GET("/notifications", notificationHandler.List)
		authorized.POST("/notifications/:id/read", notificationHandler.Read)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)
		authorized.POST("/notifications/read-all", notificationHandler.ReadAll)
	}
}
