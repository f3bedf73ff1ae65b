package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	authhandler "portfolio-api/internal/auth/handler"
	"portfolio-api/internal/auth/credentials"
	"portfolio-api/internal/auth/provider"
	"portfolio-api/internal/auth/provider/google"
	"portfolio-api/internal/auth/provider/openid"
	"portfolio-api/internal/auth/resolver"
	"portfolio-api/internal/config"
	"portfolio-api/internal/handler"
	"portfolio-api/internal/logger"
	"portfolio-api/internal/metrics"
	"portfolio-api/internal/middleware"
	"portfolio-api/internal/repository"
	"portfolio-api/internal/response"
	"portfolio-api/internal/service"
	"portfolio-api/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"gorm.io/gorm"
)

const (
	pruneInterval    = 10 * time.Minute
	msgRouteNotFound = "Route not found"
)

// Deps is everything the router needs that touches the outside world.
type Deps struct {
	DB        *gorm.DB
	Sessions  session.Store
	Providers *provider.Registry
	Started   time.Time
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	store := sessionStore(ctx, cfg, infra)

	providers, err := oauthProviders(ctx, cfg)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	router, err := NewRouter(cfg, Deps{
		DB:        infra.Gorm,
		Sessions:  store,
		Providers: providers,
		Started:   time.Now(),
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	return router, infra.Close, nil
}

func sessionStore(ctx context.Context, cfg config.Config, infra *Infra) session.Store {
	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		store := session.NewPostgresStore(infra.SQL)
		go store.RunPruner(ctx, pruneInterval, func(err error) {
			logger.Warn("session prune failed", map[string]any{"error": err.Error()})
		})
		return store
	case config.SessionStoreMemory:
		logger.Warn("using in-memory session store", nil)
		return session.NewMemoryStore()
	default:
		return session.NewRedisStore(infra.Redis.Client)
	}
}

// oauthProviders registers only the providers whose settings are present.
func oauthProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.GoogleClientID != "" {
		p, err := google.New(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.OIDCIssuer != "" {
		p, err := openid.New(ctx, openid.Config{
			Name:          "oidc",
			Issuer:        cfg.OIDCIssuer,
			ClientID:      cfg.OIDCClientID,
			ClientSecret:  cfg.OIDCClientSecret,
			RedirectURL:   cfg.OIDCRedirectURL,
			PublicBaseURL: cfg.OIDCPublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	return provider.NewRegistry(list...), nil
}

func sessionSecret(cfg config.Config) []byte {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret)
	}
	logger.Warn("SESSION_SECRET not set; sessions will not survive a restart", nil)
	return securecookie.GenerateRandomKey(32)
}

// NewRouter builds the engine: middleware first, then /metrics, the /api
// resources and the OAuth flow.
func NewRouter(cfg config.Config, deps Deps) (*gin.Engine, error) {
	production := cfg.IsProduction()
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	codec, err := session.NewCookieCodec(sessionSecret(cfg), cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	cookie := session.CookieOptions{
		Name:     cfg.SessionCookieName,
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
	}
	sessions := session.NewManager(deps.Sessions, codec, session.Options{
		Cookie:  cookie,
		TTL:     cfg.SessionTTL,
		Rolling: cfg.SessionRolling,
	})
	requireAuth := middleware.GinRequireAuth(middleware.NewAuthMiddleware(sessions))

	users := repository.NewUserRepository(deps.DB)
	creds := credentials.NewService(users, credentials.NewHasher(cfg.BcryptCost))

	started := deps.Started
	if started.IsZero() {
		started = time.Now()
	}

	providers := deps.Providers
	if providers == nil {
		providers = provider.NewRegistry()
	}

	m := metrics.New()

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(
		middleware.Recovery(production),
		middleware.RequestLogger(),
		middleware.Metrics(m),
	)
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		router.Use(middleware.CORS(origins))
	}
	router.Use(middleware.ErrorBoundary(production))

	router.NoRoute(func(c *gin.Context) {
		response.Write(c, response.NotFound(nil, response.WithMessage(msgRouteNotFound)))
	})

	router.GET("/metrics", gin.WrapH(m.Handler()))

	// ----------------------------
	// API Routes
	// ----------------------------

	api := router.Group("/api")

	handler.NewHealthHandler(service.NewHealthService(started)).RegisterRoutes(api)
	handler.NewUserHandler(service.NewUserService(creds, users), sessions).RegisterRoutes(api, requireAuth)
	handler.NewEducationHandler(
		service.NewEducationService(repository.NewEducationRepository(deps.DB)),
	).RegisterRoutes(api, requireAuth)
	handler.NewExperienceHandler(
		service.NewExperienceService(repository.NewExperienceRepository(deps.DB)),
	).RegisterRoutes(api, requireAuth)
	handler.NewProjectHandler(
		service.NewProjectService(repository.NewProjectRepository(deps.DB)),
	).RegisterRoutes(api, requireAuth)

	// ----------------------------
	// OAuth
	// ----------------------------

	authhandler.NewHandler(
		providers,
		sessions,
		resolver.NewLinkingResolver(repository.NewIdentityRepository(deps.DB), users),
		production,
	).RegisterRoutes(router)

	return router, nil
}
