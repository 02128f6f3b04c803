package routes

import (
	"movienest/src/auth"
	"movienest/src/config"
	files "movienest/src/modules/files/controllers"
	lists "movienest/src/modules/lists/controllers"
	movies "movienest/src/modules/movies/controllers"
	recommendations "movienest/src/modules/recommendations/controllers"
	trending "movienest/src/modules/trending/controllers"
	upcoming "movienest/src/modules/upcoming/controllers"
	users "movienest/src/modules/users/controllers"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handlers groups every controller the router mounts.
type Handlers struct {
	DB              *gorm.DB
	Issuer          *auth.Issuer
	Accounts        auth.Accounts
	AuthLimiter     gin.HandlerFunc
	WebSocket       gin.HandlerFunc
	Movies          *movies.Controller
	Users           *users.Controller
	Watchlist       *lists.WatchlistController
	Favorites       *lists.FavoriteController
	Recommendations *recommendations.Controller
	Trending        *trending.Controller
	Upcoming        *upcoming.Controller
	Files           *files.Controller
}

func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if config.CheckConnection(h.DB) {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		}
	})

	if h.WebSocket != nil {
		router.GET("/ws", h.WebSocket)
	}

	api := router.Group("/api/v1")
	authed := auth.RequireAuth(h.Issuer, h.Accounts)
	admin := []gin.HandlerFunc{authed, auth.RequireAdmin()}
	limiter := h.AuthLimiter
	if limiter == nil {
		limiter = func(c *gin.Context) { c.Next() }
	}

	moviesRoutes := api.Group("/movies")
	{
		moviesRoutes.GET("", h.Movies.ListMovies)
		moviesRoutes.GET("search", h.Movies.SearchMovies)
		moviesRoutes.GET("genres", h.Movies.ListGenres)
		moviesRoutes.GET("years", h.Movies.ListYears)
		moviesRoutes.GET("dropdown", h.Movies.Dropdown)
		moviesRoutes.GET(":id", h.Movies.GetMovie)
		moviesRoutes.POST("", append(admin, h.Movies.CreateMovie)...)
		moviesRoutes.PUT(":id", append(admin, h.Movies.UpdateMovie)...)
		moviesRoutes.DELETE(":id", append(admin, h.Movies.DeleteMovie)...)
		if h.Files != nil {
			moviesRoutes.POST(":id/poster", append(admin, h.Files.UploadPoster)...)
		}
	}

	usersRoutes := api.Group("/users")
	{
		usersRoutes.POST("register", limiter, h.Users.Register)
		usersRoutes.POST("login", limiter, h.Users.Login)
		usersRoutes.GET("", append(admin, h.Users.ListUsers)...)
		usersRoutes.GET("search", append(admin, h.Users.SearchUsers)...)
		usersRoutes.GET("dropdown", append(admin, h.Users.Dropdown)...)
		usersRoutes.GET(":id", authed, h.Users.GetUser)
		usersRoutes.GET(":id/lists", authed, h.Users.UserLists)
		usersRoutes.PUT(":id", authed, h.Users.UpdateUser)
		usersRoutes.PUT(":id/role", append(admin, h.Users.UpdateRole)...)
		usersRoutes.DELETE(":id", append(admin, h.Users.DeleteUser)...)
	}

	registerList(api.Group("/watchlist", authed), h.Watchlist)
	registerList(api.Group("/favorites", authed), h.Favorites)

	recommendedRoutes := api.Group("/recommended")
	{
		recommendedRoutes.GET("", h.Recommendations.ListRecommended)
		recommendedRoutes.GET("search", h.Recommendations.SearchRecommended)
		recommendedRoutes.GET(":id", h.Recommendations.GetRecommended)
		recommendedRoutes.POST("", append(admin, h.Recommendations.AddRecommended)...)
		recommendedRoutes.PUT(":id", append(admin, h.Recommendations.UpdateRecommended)...)
		recommendedRoutes.DELETE(":id", append(admin, h.Recommendations.RemoveRecommended)...)
	}

	trendingRoutes := api.Group("/trending")
	{
		trendingRoutes.GET("", h.Trending.ListTrending)
		trendingRoutes.GET("search", h.Trending.SearchTrending)
		trendingRoutes.GET("top", h.Trending.TopTrending)
		trendingRoutes.GET("score-range", h.Trending.ScoreRange)
		trendingRoutes.GET(":id", h.Trending.GetTrending)
		trendingRoutes.POST("", append(admin, h.Trending.CreateTrending)...)
		trendingRoutes.PUT(":id", append(admin, h.Trending.UpdateTrending)...)
		trendingRoutes.DELETE(":id", append(admin, h.Trending.DeleteTrending)...)
	}

	upcomingRoutes := api.Group("/upcoming-movies")
	{
		upcomingRoutes.GET("", h.Upcoming.ListUpcoming)
		upcomingRoutes.GET("search", h.Upcoming.SearchUpcoming)
		upcomingRoutes.GET("genres", h.Upcoming.ListGenres)
		upcomingRoutes.GET("years", h.Upcoming.ListYears)
		upcomingRoutes.GET("upcoming", h.Upcoming.ListReleasingSoon)
		upcomingRoutes.GET(":id", h.Upcoming.GetUpcoming)
		upcomingRoutes.POST("", append(admin, h.Upcoming.CreateUpcoming)...)
		upcomingRoutes.PUT(":id", append(admin, h.Upcoming.UpdateUpcoming)...)
		upcomingRoutes.DELETE(":id", append(admin, h.Upcoming.DeleteUpcoming)...)
	}

	// Static Proxy MinIO
	if h.Files != nil {
		staticProxyRoutes := api.Group("/static")
		{
			staticProxyRoutes.GET("/*filepath", h.Files.FileController)
		}
	}
}

type listRoutes interface {
	ListEntries(*gin.Context)
	SearchEntries(*gin.Context)
	GetEntry(*gin.Context)
	AddEntry(*gin.Context)
	UpdateEntry(*gin.Context)
	RemoveEntry(*gin.Context)
	RemoveByPair(*gin.Context)
}

func registerList(g *gin.RouterGroup, h listRoutes) {
	g.GET("", h.ListEntries)
	g.GET("search", h.SearchEntries)
	g.GET(":id", h.GetEntry)
	g.POST("", h.AddEntry)
	g.PUT(":id", h.UpdateEntry)
	g.DELETE(":id", h.RemoveEntry)
	g.DELETE("", h.RemoveByPair)
}
