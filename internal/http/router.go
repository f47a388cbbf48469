package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/auth"
	"github.com/geocoder89/sportsbuddy/internal/cache"
	"github.com/geocoder89/sportsbuddy/internal/http/handlers"
	"github.com/geocoder89/sportsbuddy/internal/http/middlewares"
	"github.com/geocoder89/sportsbuddy/internal/observability"
	"github.com/geocoder89/sportsbuddy/internal/observer"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20

// Deps is everything the HTTP layer needs; cmd/api builds it from config.
type Deps struct {
	Log      *slog.Logger
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Clock    clockwork.Clock

	ReleaseMode bool
	CORSOrigins []string
	ServiceName string

	Catalog       handlers.EventCatalog
	Registrations handlers.TeamRegistrar
	Reference     handlers.ReferenceService

	Provider    auth.Provider
	Tokens      *auth.Manager
	Revocations *auth.Revocations
	Users       handlers.UserGetter

	ListCache    cache.Store
	ListCacheTTL time.Duration

	Observer observer.Observer
	Activity handlers.ActivityLog

	Checks map[string]handlers.PingFunc

	// AuthRateLimit caps sign-in and sign-up attempts per client per minute.
	AuthRateLimit int
}

func NewRouter(d Deps) *gin.Engine {
	if d.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.AuthRateLimit <= 0 {
		d.AuthRateLimit = 20
	}
	if d.ServiceName == "" {
		d.ServiceName = "sportsbuddy-api"
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(d.ServiceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// health
	health := handlers.NewHealthHandler(d.Checks)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	var revoked middlewares.RevocationChecker
	if d.Revocations != nil {
		revoked = d.Revocations
	}

	authMW := middlewares.NewAuthMiddleware(d.Tokens, revoked)
	adminOnly := []gin.HandlerFunc{authMW.RequireAuth(), authMW.RequireRole(auth.RoleAdmin)}

	// Wire up handlers
	authHandler := handlers.NewAuthHandler(d.Provider, d.Tokens, d.Revocations, d.Users, d.Observer)
	eventsHandler := handlers.NewEventsHandler(d.Catalog, d.Registrations, d.ListCache, d.ListCacheTTL, d.Prom)
	registrationHandler := handlers.NewRegistrationHandler(d.Catalog, d.Registrations)
	referenceHandler := handlers.NewReferenceHandler(d.Reference)

	limiter := middlewares.NewRateLimiter(d.AuthRateLimit, time.Minute, d.Clock)
	authGroup := r.Group("/auth", limiter.RateLimiterMiddleware(middlewares.KeyByIP))
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/admin/login", authHandler.AdminLogin)
	authGroup.POST("/logout", authMW.RequireAuth(), authHandler.Logout)
	r.GET("/auth/me", authMW.RequireAuth(), authHandler.Me)

	r.GET("/navigate", authMW.OptionalAuth(), handlers.Navigate)

	// reference lookups are public; the sign-up and event forms read them
	r.GET("/sports", eventsHandler.ListSports)
	r.GET("/categories", referenceHandler.ListCategories)
	r.GET("/cities", referenceHandler.ListCities)
	r.GET("/areas", referenceHandler.ListAreas)

	signedIn := r.Group("", authMW.RequireAuth())
	signedIn.GET("/events", eventsHandler.ListEvents)
	signedIn.GET("/events/:id", eventsHandler.GetEventById)
	signedIn.POST("/events/:id/registrations", registrationHandler.Register)
	signedIn.GET("/me/registrations", registrationHandler.ListMine)

	admin := r.Group("/admin", adminOnly...)
	admin.GET("/events", eventsHandler.ListAdminEvents)
	admin.POST("/events", eventsHandler.CreateEvent)
	admin.PATCH("/events/:id", eventsHandler.UpdateEvent)
	admin.DELETE("/events/:id", eventsHandler.DeleteEvent)
	admin.GET("/events/:id/registrations", registrationHandler.ListForEvent)

	admin.GET("/registrations", registrationHandler.ListAll)
	admin.DELETE("/registrations/:registrationId", registrationHandler.Cancel)

	admin.POST("/categories", referenceHandler.CreateCategory)
	admin.PATCH("/categories/:id", referenceHandler.UpdateCategory)
	admin.DELETE("/categories/:id", referenceHandler.DeleteCategory)
	admin.POST("/cities", referenceHandler.CreateCity)
	admin.PATCH("/cities/:id", referenceHandler.UpdateCity)
	admin.DELETE("/cities/:id", referenceHandler.DeleteCity)
	admin.POST("/areas", referenceHandler.CreateArea)
	admin.PATCH("/areas/:id", referenceHandler.UpdateArea)
	admin.DELETE("/areas/:id", referenceHandler.DeleteArea)

	if d.Activity != nil {
		activityHandler := handlers.NewActivityHandler(d.Activity)
		admin.GET("/activity", activityHandler.List)
		admin.DELETE("/activity", activityHandler.Clear)
	}

	return r
}
