package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/command-center/internal/config"
	"github.com/stemsi/command-center/internal/handler"
	"github.com/stemsi/command-center/internal/middleware"
	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/response"
	"github.com/stemsi/command-center/internal/service"
	"github.com/stemsi/command-center/internal/validator"
)

// Policy is the access rule attached to a single route.
type Policy string

const (
	// PolicyPublic routes need no token.
	PolicyPublic Policy = "public"
	// PolicyOptional routes attach the caller's identity when a token is sent.
	PolicyOptional Policy = "optional"
	// PolicyAuthenticated routes need any valid token.
	PolicyAuthenticated Policy = "authenticated"
	// PolicyAdmin routes need a valid token with the admin role.
	PolicyAdmin Policy = "admin"
	// PolicyWebSocket routes read the token from ?token=.
	PolicyWebSocket Policy = "websocket"
)

// Route is one entry of the route table.
type Route struct {
	Method  string
	Path    string
	Policy  Policy
	Handler gin.HandlerFunc
	// Before runs after the policy check and before Handler.
	Before []gin.HandlerFunc
}

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Account    *handler.AccountHandler
	Server     *handler.ServerHandler
	Request    *handler.RequestHandler
	Issue      *handler.IssueHandler
	Allocation *handler.AllocationHandler
	WS         *handler.WSHandler
}

// Routes returns the full route table. Every endpoint states its own policy.
// loginLimiter may be nil.
func Routes(h *Handlers, loginLimiter *middleware.RateLimiter) []Route {
	var loginGuards []gin.HandlerFunc
	if loginLimiter != nil {
		loginGuards = append(loginGuards, loginLimiter.Middleware())
	}
	loginGuards = append(loginGuards, middleware.NoStore())
	private := []gin.HandlerFunc{middleware.NoStore()}

	return []Route{
		{Method: http.MethodGet, Path: "/health", Policy: PolicyPublic, Handler: h.Health.Health},

		{Method: http.MethodPost, Path: "/api/auth/login", Policy: PolicyPublic, Handler: h.Auth.Login, Before: loginGuards},
		{Method: http.MethodGet, Path: "/api/user/profile", Policy: PolicyAuthenticated, Handler: h.Auth.Profile, Before: private},
		{Method: http.MethodPut, Path: "/api/user/password", Policy: PolicyAuthenticated, Handler: h.Auth.ChangePassword, Before: private},

		{Method: http.MethodGet, Path: "/api/users", Policy: PolicyPublic, Handler: h.Account.List},
		{Method: http.MethodPost, Path: "/api/users", Policy: PolicyOptional, Handler: h.Account.Create},
		{Method: http.MethodDelete, Path: "/api/users/:userID", Policy: PolicyAdmin, Handler: h.Account.Delete},

		{Method: http.MethodGet, Path: "/api/servers", Policy: PolicyAuthenticated, Handler: h.Server.List},
		{Method: http.MethodPost, Path: "/api/servers", Policy: PolicyAdmin, Handler: h.Server.Create},
		{Method: http.MethodPut, Path: "/api/servers/:serverID", Policy: PolicyAdmin, Handler: h.Server.Update},
		{Method: http.MethodDelete, Path: "/api/servers/:serverID", Policy: PolicyAdmin, Handler: h.Server.Delete},

		{Method: http.MethodGet, Path: "/api/requests", Policy: PolicyAuthenticated, Handler: h.Request.List},
		{Method: http.MethodPost, Path: "/api/requests", Policy: PolicyAuthenticated, Handler: h.Request.Create},
		{Method: http.MethodPut, Path: "/api/requests/:requestID", Policy: PolicyAdmin, Handler: h.Request.UpdateStatus},
		{Method: http.MethodGet, Path: "/api/requests/:requestID/history", Policy: PolicyAdmin, Handler: h.Request.History},

		{Method: http.MethodGet, Path: "/api/issues", Policy: PolicyAuthenticated, Handler: h.Issue.List},
		{Method: http.MethodPost, Path: "/api/issues", Policy: PolicyAuthenticated, Handler: h.Issue.Create},
		{Method: http.MethodPut, Path: "/api/issues/:issueID", Policy: PolicyAdmin, Handler: h.Issue.UpdateStatus},

		{Method: http.MethodGet, Path: "/api/allocations", Policy: PolicyAuthenticated, Handler: h.Allocation.List},
		{Method: http.MethodPost, Path: "/api/allocations", Policy: PolicyAdmin, Handler: h.Allocation.Create},

		{Method: http.MethodGet, Path: "/ws/requests", Policy: PolicyWebSocket, Handler: h.WS.RequestEvents},
	}
}

// guard returns the middleware chain enforcing p.
func guard(p Policy, authService *service.AuthService) []gin.HandlerFunc {
	switch p {
	case PolicyPublic:
		return nil
	case PolicyOptional:
		return []gin.HandlerFunc{middleware.OptionalAuthenticate(authService)}
	case PolicyAuthenticated:
		return []gin.HandlerFunc{middleware.Authenticate(authService)}
	case PolicyAdmin:
		return []gin.HandlerFunc{middleware.Authenticate(authService), middleware.RequireRole(model.RoleAdmin)}
	case PolicyWebSocket:
		return []gin.HandlerFunc{middleware.AuthenticateWS(authService)}
	default:
		panic(fmt.Sprintf("router: unknown policy %q", p))
	}
}

// SetupRouter builds the Gin engine: global middleware first, then every
// route of the table behind its policy.
func SetupRouter(
	authService *service.AuthService,
	routes []Route,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	validator.Setup()

	router := gin.New()
	// A nil list trusts no proxy, so X-Forwarded-For cannot pick the client
	// IP the login limiter keys on.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Error().Err(err).Strs("trusted_proxies", cfg.TrustedProxies).Msg("Invalid TRUSTED_PROXIES, trusting none")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// Restrict to AllowedOrigins when configured; allow all otherwise.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Compress())

	for _, r := range routes {
		chain := append(guard(r.Policy, authService), r.Before...)
		chain = append(chain, r.Handler)
		router.Handle(r.Method, r.Path, chain...)
	}

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	return router
}
