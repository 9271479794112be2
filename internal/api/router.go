package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/accountsvc/user-service/docs"
	gql "github.com/accountsvc/user-service/internal/api/graphql"
	"github.com/accountsvc/user-service/internal/api/handler"
	"github.com/accountsvc/user-service/internal/api/middleware"
	"github.com/accountsvc/user-service/internal/core/access"
	"github.com/accountsvc/user-service/internal/core/domain"
	"github.com/accountsvc/user-service/internal/core/ports"
	"github.com/accountsvc/user-service/internal/core/security"
	"github.com/accountsvc/user-service/internal/core/service"
	"github.com/accountsvc/user-service/internal/core/token"
	"github.com/accountsvc/user-service/internal/infrastructure/config"
)

// Deps carries the externally constructed collaborators the router wires
// handlers around.
type Deps struct {
	Users    ports.UserRepository
	Mongo    *mongo.Database
	Redis    *redis.Client
	Throttle ports.LoginThrottle
	Audit    ports.AuditSink
	Config   *config.Config
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("account"))

	// --- Core wiring ---
	codec := token.NewCodec(
		d.Config.Auth.JWTSecret,
		d.Config.Auth.JWTIssuer,
		d.Config.Auth.JWTAudience,
		d.Config.Auth.AccessTTL,
		d.Config.Auth.RefreshTTL,
	)
	hasher := security.NewHasher(d.Config.Auth.BcryptCost)
	engine := access.NewEngine(d.Users)
	users := service.NewUserService(d.Users, hasher, codec, d.Throttle, d.Audit, d.Logger)

	authHandler := handler.NewAuthHandler(users, engine)
	userHandler := handler.NewUserHandler(users, engine)
	authenticate := middleware.Authenticate(codec)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh-token", authHandler.Refresh)
	e.GET("/auth/my-permissions", authHandler.MyPermissions, authenticate)

	// --- User routes ---
	e.POST("/users", userHandler.Create)
	e.GET("/users/profile", userHandler.Profile, authenticate)
	e.GET("/users", userHandler.List, authenticate, middleware.RequireMinRole(engine, domain.RoleAdmin))
	e.GET("/users/:id", userHandler.Get, authenticate, middleware.OwnershipOrMinRole(engine, domain.RoleAdmin))
	e.PUT("/users/:id", userHandler.Update, authenticate, middleware.OwnershipOrMinRole(engine, domain.RoleAdmin))
	e.DELETE("/users/:id", userHandler.Delete, authenticate, middleware.OwnershipOrMinRole(engine, domain.RoleAdmin))

	// --- GraphQL ---
	resolvers := gql.NewResolvers(users, engine)
	schema, err := gql.NewSchema(resolvers)
	if err != nil {
		return nil, err
	}
	e.POST("/graphql", gql.NewHandler(schema, codec).Serve)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)  // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, nil
}
