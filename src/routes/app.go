package routes

import (
	"movienest/src/auth"
	"movienest/src/cache"
	"movienest/src/middlewares"
	filecontrollers "movienest/src/modules/files/controllers"
	fileservices "movienest/src/modules/files/services"
	listcontrollers "movienest/src/modules/lists/controllers"
	listservices "movienest/src/modules/lists/services"
	moviecontrollers "movienest/src/modules/movies/controllers"
	movieservices "movienest/src/modules/movies/services"
	reccontrollers "movienest/src/modules/recommendations/controllers"
	recservices "movienest/src/modules/recommendations/services"
	trendingcontrollers "movienest/src/modules/trending/controllers"
	trendingservices "movienest/src/modules/trending/services"
	upcomingcontrollers "movienest/src/modules/upcoming/controllers"
	upcomingservices "movienest/src/modules/upcoming/services"
	usercontrollers "movienest/src/modules/users/controllers"
	userservices "movienest/src/modules/users/services"
	"movienest/src/services"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the connections an App is built from. Redis and Objects may be
// nil.
type Deps struct {
	DB            *gorm.DB
	Redis         *redis.Client
	Objects       fileservices.ObjectStore
	Issuer        *auth.Issuer
	CorsOrigins   []string
	RatePerSecond float64
	RateBurst     int
}

// App is the wired HTTP API.
type App struct {
	Router  *gin.Engine
	Hub     *services.EventHub
	Cache   *cache.Store
	Users   *userservices.Service
	Warmers []services.CacheWarmer
}

func NewApp(d Deps) *App {
	store := cache.New(d.Redis)
	hub := services.NewEventHub(d.Redis)

	movieService := movieservices.NewService(d.DB, store)
	userService := userservices.NewService(d.DB, d.Issuer)
	watchlist := listservices.NewWatchlistService(d.DB)
	favorites := listservices.NewFavoriteService(d.DB)
	upcomingService := upcomingservices.NewService(d.DB, store)

	router := gin.New()
	router.Use(middlewares.Recovery(), middlewares.RequestLogger(), corsMiddleware(d.CorsOrigins), middlewares.ErrorHandler())

	burst := d.RateBurst
	if burst <= 0 {
		burst = 1
	}
	limiter := middlewares.NewIPRateLimiter(d.RatePerSecond, burst)

	RegisterRoutes(router, Handlers{
		DB:              d.DB,
		Issuer:          d.Issuer,
		Accounts:        userService,
		AuthLimiter:     limiter.Middleware(),
		WebSocket:       hub.WebSocketHandler,
		Movies:          moviecontrollers.NewController(movieService, hub),
		Users:           usercontrollers.NewController(userService, watchlist, favorites, hub),
		Watchlist:       listcontrollers.NewController(watchlist, hub),
		Favorites:       listcontrollers.NewController(favorites, hub),
		Recommendations: reccontrollers.NewController(recservices.NewService(d.DB, store), hub),
		Trending:        trendingcontrollers.NewController(trendingservices.NewService(d.DB), hub),
		Upcoming:        upcomingcontrollers.NewController(upcomingService, hub),
		Files:           filecontrollers.NewController(fileservices.NewService(d.Objects, store), movieService, hub),
	})

	return &App{
		Router:  router,
		Hub:     hub,
		Cache:   store,
		Users:   userService,
		Warmers: []services.CacheWarmer{movieService, upcomingService},
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders: []string{middlewares.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
