package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/SamriekLeeuwin/righthand-ops-hub/controllers"
	"github.com/SamriekLeeuwin/righthand-ops-hub/db"
	"github.com/SamriekLeeuwin/righthand-ops-hub/forms"
	"github.com/SamriekLeeuwin/righthand-ops-hub/kv"
	"github.com/SamriekLeeuwin/righthand-ops-hub/middleware"
	"github.com/SamriekLeeuwin/righthand-ops-hub/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/requestid"
	"github.com/joho/godotenv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// CORS (Cross-Origin Resource Sharing)
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", os.Getenv("CORS_ORIGIN"))
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Origin, Authorization, Accept, Accept-Encoding")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
		} else {
			c.Next()
		}
	}
}

func SlogMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rlog := logger.With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
			"request_id", requestid.Get(c),
		)

		start := time.Now()
		rlog.Debug("request started")
		c.Next()
		duration := time.Since(start)
		rlog.Info("request completed", "status", c.Writer.Status(), "duration", duration)
	}
}

func main() {
	//Load the .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			slog.Error("failed to load the env file")
			os.Exit(1)
		}
	}

	var logger *slog.Logger
	if os.Getenv("ENV") == "PRODUCTION" {
		gin.SetMode(gin.ReleaseMode)
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	//Start the default gin server
	r := gin.Default()

	//Custom form validator
	binding.Validator = new(forms.DefaultValidator)

	r.Use(CORSMiddleware())
	r.Use(requestid.New(requestid.WithCustomHeaderStrKey("X-Request-Id")))
	r.Use(SlogMiddleware(logger))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, os.Getenv("DB_URI"), os.Getenv("DB_NAME"))
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	redisDb, err := strconv.ParseInt(os.Getenv("REDIS_DB"), 0, 0)
	if err != nil {
		slog.Error("failed to parse REDIS_DB env variable", "error", err)
		os.Exit(1)
	}
	redisKV, err := kv.NewRedisKV(os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PASS"), int(redisDb))
	if err != nil {
		slog.Error("failed to connect to key-value store", "error", err)
		os.Exit(1)
	}

	// Signing policy is assembled here once and injected; business logic
	// never reads the environment.
	authService := service.NewAuthService(service.AuthConfig{
		Secret:     os.Getenv("JWT_SECRET"),
		Issuer:     os.Getenv("JWT_ISSUER"),
		AccessTTL:  os.Getenv("JWT_ACCESS_TTL"),
		RefreshTTL: os.Getenv("JWT_REFRESH_TTL"),
	}, database)
	userService := service.NewUserService(database, redisKV, authService, service.BcryptHasher{})

	requireAuth := middleware.RequireAuth(authService, database)
	optionalAuth := middleware.OptionalAuth(authService, database)

	health := controllers.NewHealthController()
	r.GET("/health", health.Health)

	user := controllers.NewUserController(userService)
	auth := controllers.NewAuthController(authService)
	r.POST("/auth/register", user.Register)
	r.POST("/auth/login", user.Login)
	r.POST("/auth/refresh", auth.Refresh)
	r.GET("/auth/me", requireAuth, auth.Me)
	r.POST("/auth/logout", requireAuth, auth.Logout)

	project := controllers.NewProjectController(database)
	r.GET("/projects", optionalAuth, project.List)
	r.GET("/projects/:id", requireAuth, project.Get)
	r.POST("/projects", requireAuth, middleware.RequireAdminOrEditor(), project.Create)
	r.DELETE("/projects/:id", requireAuth, middleware.RequireAdmin(), project.Delete)

	task := controllers.NewTaskController(database)
	r.GET("/projects/:id/tasks", requireAuth, task.List)
	r.POST("/projects/:id/tasks", requireAuth, middleware.RequireAdminOrEditor(), task.Create)
	r.PATCH("/tasks/:id/status", requireAuth, task.UpdateStatus)

	port := os.Getenv("PORT")

	slog.Info("server starting", "port", port, "env", os.Getenv("ENV"), "ssl", os.Getenv("SSL"))

	if os.Getenv("SSL") == "TRUE" {
		SSLKeys := &struct {
			CERT string
			KEY  string
		}{
			CERT: "./cert/myCA.cer",
			KEY:  "./cert/myCA.key",
		}

		r.RunTLS(":"+port, SSLKeys.CERT, SSLKeys.KEY)
	} else {
		r.Run(":" + port)
	}
}
