package server_test

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/appleboy/gofight/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"authd/internal/database"
	"authd/internal/server"
)

func TestRequestVersion(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.GET("/version").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"version":"test"}`, r.Body.String())
	})
}

func TestRequestNotFound(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.GET("/nope").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNotFound, r.Code)
		assert.JSONEq(t, `{"message":"404_NOT_FOUND"}`, r.Body.String())
	})
}

func setup() (engine *echo.Echo, ioc server.IOC, r *gofight.RequestConfig, cleanup func()) {
	tmpfile, err := os.CreateTemp("", "authd.*.db")
	if err != nil {
		panic(err)
	}
	filename := tmpfile.Name()
	tmpfile.Close()

	db, err := database.StormOpen(filename)
	if err != nil {
		panic(err)
	}

	ioc = server.IOC{
		Version:                    "test",
		Database:                   db,
		BcryptCost:                 bcrypt.MinCost,
		AccessTokenSecret:          []byte("access-secret"),
		RefreshTokenSecret:         []byte("refresh-secret"),
		AccessTokenExpirationTime:  15 * time.Minute,
		RefreshTokenExpirationTime: 720 * time.Hour,
	}
	engine = server.EchoEngine(ioc)

	return engine, ioc, gofight.New(), func() {
		db.Close()
		os.RemoveAll(filename)
	}
}

// authResponse is the payload rendered by register, login and refresh.
type authResponse struct {
	Status       bool   `json:"status"`
	Message      string `json:"message"`
	Fullname     string `json:"fullname"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// accessList is the payload rendered by the profile listing endpoints.
type accessList struct {
	Status bool `json:"status"`
	Data   []struct {
		ID          string `json:"id"`
		UserID      string `json:"userId"`
		SessionID   string `json:"sessionId"`
		Type        string `json:"type"`
		StatusToken bool   `json:"statusToken"`
		StatusLogin bool   `json:"statusLogin"`
		UserAgent   string `json:"userAgent"`
	} `json:"data"`
}

func register(engine *echo.Echo, r *gofight.RequestConfig, email, userAgent string) (out authResponse) {
	r.POST("/api/register").
		SetHeader(gofight.H{"User-Agent": userAgent}).
		SetJSON(gofight.D{
			"fullname": "George Abitbol",
			"email":    email,
			"password": "password42",
		}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			if err := json.Unmarshal(r.Body.Bytes(), &out); err != nil {
				panic(err)
			}
		})
	return out
}

func login(engine *echo.Echo, r *gofight.RequestConfig, email, userAgent string) (out authResponse) {
	r.POST("/api/login").
		SetHeader(gofight.H{"User-Agent": userAgent}).
		SetJSON(gofight.D{
			"email":    email,
			"password": "password42",
		}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			if err := json.Unmarshal(r.Body.Bytes(), &out); err != nil {
				panic(err)
			}
		})
	return out
}

func bearer(token string) gofight.H {
	return gofight.H{"Authorization": "Bearer " + token}
}

func listAccesses(t *testing.T, engine *echo.Echo, r *gofight.RequestConfig, token string) (out accessList) {
	r.GET("/api/profiles/user-access").SetHeader(bearer(token)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.NoError(t, json.Unmarshal(r.Body.Bytes(), &out))
	})
	return out
}
