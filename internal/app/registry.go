package app

import (
	"context"

	"github.com/khatias/rdbr-project/internal/auth"
	"github.com/khatias/rdbr-project/internal/cart"
	"github.com/khatias/rdbr-project/internal/catalog"
	"github.com/khatias/rdbr-project/internal/checkout"
	"github.com/khatias/rdbr-project/internal/config"
	"github.com/khatias/rdbr-project/internal/middleware"
	"github.com/khatias/rdbr-project/internal/outbox"
	"github.com/khatias/rdbr-project/internal/proxy"
	"github.com/khatias/rdbr-project/internal/session"
	"github.com/khatias/rdbr-project/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func registerModules(ctx context.Context, router *gin.Engine, cfg config.Config, in infra, fee decimal.Decimal, logger *zap.Logger) {
	client := upstream.NewClient(cfg.UpstreamURL, cfg.UpstreamTimeout, logger)

	// --- Stores ---
	var (
		sessionStore session.Store             = session.NewMemoryStore(cfg.SessionTTL)
		profiles     session.ProfileRepository = session.NewMemoryProfileRepository()
		recorder     outbox.Recorder           = outbox.NewNoopRecorder(logger)
		imageCaches  cart.ImageCacheFactory    = func(string) cart.ImageCache { return cart.NewMemoryImageCache() }
	)
	if in.rdb != nil {
		sessionStore = session.NewRedisStore(in.rdb, cfg.SessionTTL)
		imageCaches = func(sessionKey string) cart.ImageCache {
			return cart.NewRedisImageCache(in.rdb, sessionKey, cfg.SessionTTL, logger)
		}
	}
	if in.db != nil {
		profiles = session.NewProfileRepository(in.db)
		recorder = outbox.NewRecorder(outbox.NewRepository(in.db), logger)
	}

	// --- Services ---
	carts := cart.NewRegistry(cart.NewCoreFactory(client, imageCaches, logger), logger)
	if cfg.CartIdleTTL > 0 {
		go carts.RunSweeper(ctx, cfg.CartIdleTTL/4, cfg.CartIdleTTL)
	}

	sessionService := session.NewService(sessionStore, profiles, session.NewHub(logger), logger)
	catalogService := catalog.NewService(client, logger)
	authService := auth.NewService(client, logger)
	checkoutService := checkout.NewService(checkout.Deps{
		Client:      client,
		Carts:       carts,
		Recorder:    recorder,
		DeliveryFee: fee,
		Logger:      logger,
	})

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, sessionService, carts, auth.CookieConfig{
		Secure: cfg.IsProduction(),
		MaxAge: cfg.SessionTTL,
	}, logger)
	proxyHandler := proxy.NewHandler(client, logger)
	cartHandler := cart.NewHandler(carts, catalogService, logger)
	catalogHandler := catalog.NewHandler(catalogService, logger)
	checkoutHandler := checkout.NewHandler(checkoutService, in.rdb, logger)
	sessionHandler := session.NewHandler(sessionService, logger)

	// --- Routes Registration ---
	router.Use(middleware.RequestID(), middleware.Session())

	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler)
		proxy.RegisterRoutes(api, proxyHandler)
	}

	storefront := router.Group("/api/storefront")
	{
		catalog.RegisterRoutes(storefront, catalogHandler)
		cart.RegisterRoutes(storefront, cartHandler)
		checkout.RegisterRoutes(storefront, checkoutHandler)
		session.RegisterRoutes(storefront, sessionHandler)
	}
}
