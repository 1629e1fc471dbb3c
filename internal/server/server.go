package server

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"authd/internal/database"
	"authd/internal/server/middlewares"
	"authd/internal/server/service"
	"authd/internal/token"
)

// An IOC is an Inversion Of Control pattern used to init the server package.
type IOC struct {
	Version  string
	Database database.Client
	// Password params
	BcryptCost int
	// Token params
	AccessTokenSecret          []byte
	RefreshTokenSecret         []byte
	AccessTokenExpirationTime  time.Duration
	RefreshTokenExpirationTime time.Duration
}

// EchoEngine instantiates the web server.
func EchoEngine(ctrl IOC) *echo.Echo {
	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.Gzip())

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	////////////
	// Router //
	////////////

	issuer := token.NewIssuer(
		ctrl.AccessTokenSecret,
		ctrl.RefreshTokenSecret,
		ctrl.AccessTokenExpirationTime,
		ctrl.RefreshTokenExpirationTime,
	)

	router := engine.Group("/api")
	restricted := router.Group("")
	restricted.Use(middlewares.Authentication(issuer))

	// generic handlers
	//
	engine.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	//
	// auth handlers
	//
	auth := &auth{
		auths: service.NewAuth(ctrl.Database, issuer, ctrl.BcryptCost),
	}
	router.POST("/register", auth.Register)
	router.POST("/login", auth.Login)
	router.POST("/refresh-token", auth.Refresh)
	restricted.POST("/logout", auth.Logout)

	//
	// profile handlers
	//
	profile := &profile{
		profiles: service.NewProfile(ctrl.Database),
	}
	restricted.GET("/profiles/user-access", profile.UserAccess)
	restricted.GET("/profiles/log-login", profile.LogLogin)
	restricted.POST("/profiles/remote-logout/:id", profile.RemoteLogout)

	return engine
}

// PrintRoutes prints the Echo engine exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

func currentAccessID(c echo.Context) string {
	id, ok := c.Get(middlewares.CurrentAccessIDContextKey).(string)
	if ok {
		return id
	}
	return ""
}
