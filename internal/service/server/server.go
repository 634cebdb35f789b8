package server

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Agurato/filmdelegate/internal/model"
)

const (
	// UserKey is the session key for user data
	UserKey = "user"

	sessionName = "user-session"
)

// NewServer initializes the router. Metrics are registered on the given registry.
func NewServer(cookieSecret string, mainHandler *MainHandler, filmHandler *FilmHandler, registry *prometheus.Registry) (*gin.Engine, error) {
	if err := registerValidations(); err != nil {
		return nil, err
	}
	metrics := NewMetrics(registry)

	router := gin.New()
	router.SetTrustedProxies(nil)
	router.Use(requestID, requestLogger, metrics.instrument, gin.Recovery())

	// Cookies
	store := cookie.NewStore([]byte(cookieSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 7 * 24 * 3600, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	gob.Register(model.User{})
	router.Use(sessions.Sessions(sessionName, store))

	router.NoRoute(mainHandler.Error404)
	router.GET("/health", mainHandler.GETHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/delegate")
	api.POST("/start", mainHandler.POSTStart)
	api.POST("/login", mainHandler.POSTLogin)
	api.POST("/logout", mainHandler.POSTLogout)
	api.POST("/password", authRequired, mainHandler.POSTSetPassword)

	api.GET("/films", filmHandler.GETFilms)
	api.POST("/films", filmHandler.POSTFilm)
	api.GET("/films/:id", filmHandler.GETFilm)

	return router, nil
}

// currentUser returns the logged in user, or nil
func currentUser(c *gin.Context) *model.User {
	user, ok := sessions.Default(c).Get(UserKey).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// authRequired ensures that a request will be aborted if the user is not authenticated
func authRequired(c *gin.Context) {
	if currentUser(c) == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "you need to be logged in"})
		return
	}
	c.Next()
}
