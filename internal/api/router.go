package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sprintdesk/tracker-api/internal/api/handler"
	"github.com/sprintdesk/tracker-api/internal/api/middleware"
	"github.com/sprintdesk/tracker-api/internal/core/domain"
	"github.com/sprintdesk/tracker-api/internal/core/ports"
	healthhandlers "github.com/sprintdesk/tracker-api/internal/infrastructure/http/handlers"
)

// Deps carries everything the router needs; construction of services happens
// in main so tests can wire stubs.
type Deps struct {
	Auth      ports.AuthService
	Users     ports.UserService
	Projects  ports.ProjectService
	Tasks     ports.TaskService
	Blacklist ports.TokenBlacklist
	JWTSecret string
	Mongo     *mongo.Database
	Redis     *redis.Client
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tracker"))

	authHandler := handler.NewAuthHandler(d.Auth, d.Users)
	userHandler := handler.NewUserHandler(d.Users)
	projectHandler := handler.NewProjectHandler(d.Projects)
	taskHandler := handler.NewTaskHandler(d.Tasks)

	authRequired := middleware.Auth(d.JWTSecret, d.Blacklist)
	writerOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleScrumMaster)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authRequired)
	e.GET("/auth/me", authHandler.Me, authRequired)

	v1 := e.Group("/v1", authRequired)

	// --- Users (management restricted to Admin) ---
	v1.GET("/users", userHandler.List)
	v1.POST("/users", userHandler.Create, adminOnly)
	v1.GET("/users/:id", userHandler.Get)
	v1.PUT("/users/:id", userHandler.Update, adminOnly)
	v1.POST("/users/:id/deactivate", userHandler.Deactivate, adminOnly)

	// --- Projects ---
	v1.GET("/projects", projectHandler.List)
	v1.POST("/projects", projectHandler.Create, writerOnly)
	v1.GET("/projects/:id", projectHandler.Get)
	v1.PUT("/projects/:id", projectHandler.Update, writerOnly)
	v1.DELETE("/projects/:id", projectHandler.Delete, writerOnly)
	v1.GET("/projects/:id/tasks", projectHandler.ListTasks)

	// --- Tasks (status moves and assignment open to any authenticated user) ---
	v1.GET("/tasks", taskHandler.List)
	v1.POST("/tasks", taskHandler.Create, writerOnly)
	v1.GET("/tasks/:id", taskHandler.Get)
	v1.PUT("/tasks/:id", taskHandler.Update, writerOnly)
	v1.DELETE("/tasks/:id", taskHandler.Delete, writerOnly)
	v1.POST("/tasks/:id/status", taskHandler.ChangeStatus)
	v1.POST("/tasks/:id/assign", taskHandler.Assign)
	v1.GET("/tasks/:id/history", taskHandler.History)

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
