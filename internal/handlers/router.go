package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-list-api/internal/auth"
	"github.com/yukikurage/todo-list-api/internal/constants"
	"github.com/yukikurage/todo-list-api/internal/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RouterConfig holds everything the HTTP surface is built from.
type RouterConfig struct {
	Log         *zap.Logger
	Tokens      *auth.TokenManager
	CORSOrigins []string
	RateLimit   middleware.RateLimiterConfig

	Accounts *AccountHandler
	Lists    *ListHandler
	Tasks    *TaskHandler
}

// NewRouter wires middleware and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		ginzap.GinzapWithConfig(cfg.Log, &ginzap.Config{
			TimeFormat: time.RFC3339,
			UTC:        true,
			SkipPaths:  []string{"/health"},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{
					zap.String("request_id", middleware.GetRequestID(c)),
				}
				if userID, ok := middleware.GetUserID(c); ok {
					fields = append(fields, zap.Uint64("user_id", userID))
				}
				return fields
			},
		}),
		ginzap.RecoveryWithZap(cfg.Log, true),
		cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", constants.HeaderRequestID},
			ExposeHeaders: []string{"Content-Length", constants.HeaderRequestID},
			MaxAge:        12 * time.Hour,
		}),
	)

	r.HandleMethodNotAllowed = true

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "To-do list API is running",
		})
	})

	requireAuth := middleware.RequireAuth(cfg.Tokens)
	limit := middleware.NewRateLimiter(cfg.RateLimit).Middleware()

	// User routes
	users := r.Group("/users")
	{
		users.POST("", limit, cfg.Accounts.Register)
		users.POST("/login", limit, cfg.Accounts.Login)
		users.POST("/forgot-password", limit, cfg.Accounts.ForgotPassword)
		users.POST("/reset-password/:token", limit, cfg.Accounts.ResetPassword)

		users.GET("/user-profile", requireAuth, cfg.Accounts.GetProfile)
		users.PUT("/update-profile", requireAuth, cfg.Accounts.UpdateProfile)
		users.DELETE("/delete-user", requireAuth, cfg.Accounts.DeleteAccount)
	}

	// List routes (protected)
	lists := r.Group("/lists")
	lists.Use(requireAuth)
	{
		lists.GET("/get-user-lists", cfg.Lists.GetUserLists)
		lists.GET("/get-tasks/:id", cfg.Lists.GetListTasks)
		lists.POST("", cfg.Lists.CreateList)
		lists.PUT("/:id", cfg.Lists.UpdateList)
		lists.DELETE("/:id", cfg.Lists.DeleteList)
	}

	// Task routes (protected)
	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.POST("", cfg.Tasks.CreateTask)
		tasks.PUT("/:id", cfg.Tasks.UpdateTask)
		tasks.DELETE("/:id", cfg.Tasks.DeleteTask)
	}

	return r
}
