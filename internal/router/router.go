package router

import (
	"time"

	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/crumbapp/crumb-api/internal/handlers"
	"github.com/crumbapp/crumb-api/internal/logger"
	"github.com/crumbapp/crumb-api/internal/middleware"
	"github.com/crumbapp/crumb-api/internal/provider"
	"github.com/crumbapp/crumb-api/internal/repository"
	"github.com/crumbapp/crumb-api/internal/service"
	"github.com/crumbapp/crumb-api/internal/ws"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter sets up the Gin router.
func SetupRouter(cfg *config.Config, database *gorm.DB) *gin.Engine {
	// Create default Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowOrigins = []string{
		"https://api.crumbapp.io",
		"https://crumbapp.io",
		"https://www.crumbapp.io",
	}
	r.Use(cors.New(corsConfig))

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())

	// Basic per-IP rate limit across the API
	r.Use(middleware.RateLimitByIP(10, 5*time.Minute, 15*time.Minute))

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// User-related routes setup
	userRepo := repository.NewUserRepository(database)
	userService := service.NewUserService(cfg, userRepo)
	userHandler := handlers.NewUserHandler(userService)

	// Recipe-related routes setup
	recipeRepo := repository.NewRecipeRepository(database)
	recipeService := service.NewRecipeService(cfg, recipeRepo)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	imageHandler := handlers.NewImageHandler(recipeService)

	// Search routes setup: remote provider with write-through to the local cache
	recipeProvider := provider.NewSpoonacularProvider(cfg.EnvVars.SpoonacularAPIKey, cfg.EnvVars.SpoonacularBaseURL)
	searchService := service.NewSearchService(cfg, recipeProvider, recipeRepo)
	searchHandler := handlers.NewSearchHandler(searchService)

	// Import routes setup: Anthropic extraction with an OpenAI fallback
	primaryExtractor := provider.NewAnthropicExtractionProvider(cfg.EnvVars.AnthropicAPIKey, cfg.Prompts)
	fallbackExtractor := provider.NewOpenAIExtractionProvider(cfg.EnvVars.OpenAIAPIKey, cfg.Prompts)
	importService := service.NewImportService(cfg, recipeRepo, primaryExtractor, fallbackExtractor)
	importHandler := handlers.NewImportHandler(importService)

	// Grocery list routes setup
	groceryRepo := repository.NewGroceryRepository(database)
	groceryService := service.NewGroceryService(cfg, groceryRepo, recipeRepo)
	groceryHandler := handlers.NewGroceryHandler(groceryService)

	// Collection routes setup
	collectionRepo := repository.NewCollectionRepository(database)
	collectionService := service.NewCollectionService(cfg, collectionRepo, recipeRepo)
	collectionHandler := handlers.NewCollectionHandler(collectionService)

	// Group for API routes that don't require token verification
	apiPublic := r.Group("/v1")
	{
		// User-related routes

		// Create a new user
		apiPublic.POST("/users", userHandler.CreateUser)
		// Login a user
		apiPublic.POST("/auth/login", userHandler.LoginUser)
		// Check whether a username is available
		apiPublic.GET("/users/username-availability", userHandler.CheckUsernameAvailability)

		// Recipe-related routes

		// Get a single recipe by its ID
		apiPublic.GET("/recipes/:recipe_id", recipeHandler.GetRecipe)
	}

	// Group for API routes that require token verification
	apiProtected := r.Group("/v1")
	{
		apiProtected.Use(middleware.VerifyTokenMiddleware(cfg))

		// User-related routes
		apiProtected.GET("/users/me", middleware.AttachUserToContext(userService), userHandler.GetCurrentUser)

		// Recipe search with cached fallback
		apiProtected.GET("/recipes/search", middleware.AttachUserToContext(userService), searchHandler.SearchRecipes)

		// Recipe-related routes
		apiProtected.GET("/recipes", middleware.AttachUserToContext(userService), recipeHandler.ListRecipes)
		apiProtected.POST("/recipes", middleware.AttachUserToContext(userService), recipeHandler.CreateRecipe)
		apiProtected.PUT("/recipes/:recipe_id", middleware.AttachUserToContext(userService), recipeHandler.UpdateRecipe)
		apiProtected.DELETE("/recipes/:recipe_id", middleware.AttachUserToContext(userService), recipeHandler.DeleteRecipe)
		apiProtected.POST("/recipes/:recipe_id/image", middleware.AttachUserToContext(userService), imageHandler.UploadRecipeImage)

		// Recipe import from a URL
		apiProtected.POST("/recipes/import", middleware.AttachUserToContext(userService), importHandler.ImportRecipe)

		// Grocery list routes
		apiProtected.POST("/grocery-lists", middleware.AttachUserToContext(userService), groceryHandler.CreateList)
		apiProtected.GET("/grocery-lists", middleware.AttachUserToContext(userService), groceryHandler.ListLists)
		apiProtected.GET("/grocery-lists/:list_id", middleware.AttachUserToContext(userService), groceryHandler.GetList)
		apiProtected.PUT("/grocery-lists/:list_id", middleware.AttachUserToContext(userService), groceryHandler.RenameList)
		apiProtected.DELETE("/grocery-lists/:list_id", middleware.AttachUserToContext(userService), groceryHandler.DeleteList)
		apiProtected.POST("/grocery-lists/:list_id/items", middleware.AttachUserToContext(userService), groceryHandler.AddItems)
		apiProtected.PUT("/grocery-lists/:list_id/items/:item_id", middleware.AttachUserToContext(userService), groceryHandler.UpdateItem)
		apiProtected.DELETE("/grocery-lists/:list_id/items/:item_id", middleware.AttachUserToContext(userService), groceryHandler.RemoveItem)
		apiProtected.POST("/grocery-lists/:list_id/recipes/:recipe_id", middleware.AttachUserToContext(userService), groceryHandler.AddRecipeIngredients)

		// Collection routes
		apiProtected.POST("/collections", middleware.AttachUserToContext(userService), collectionHandler.CreateCollection)
		apiProtected.GET("/collections", middleware.AttachUserToContext(userService), collectionHandler.ListCollections)
		apiProtected.GET("/collections/:collection_id", middleware.AttachUserToContext(userService), collectionHandler.GetCollection)
		apiProtected.PUT("/collections/:collection_id", middleware.AttachUserToContext(userService), collectionHandler.RenameCollection)
		apiProtected.DELETE("/collections/:collection_id", middleware.AttachUserToContext(userService), collectionHandler.DeleteCollection)
		apiProtected.POST("/collections/:collection_id/recipes/:recipe_id", middleware.AttachUserToContext(userService), collectionHandler.AddRecipe)
		apiProtected.DELETE("/collections/:collection_id/recipes/:recipe_id", middleware.AttachUserToContext(userService), collectionHandler.RemoveRecipe)
	}

	// WebSocket routes (authenticated via query param token)
	hub := ws.NewHub()
	go hub.Run()
	grocerySyncHandler := ws.NewGrocerySyncHandler(hub, cfg.EnvVars.JwtSecretKey, userService, groceryService)
	r.GET("/v1/ws/grocery-lists/:list_id", grocerySyncHandler.HandleListSession)

	return r
}
