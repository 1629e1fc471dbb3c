package server_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/appleboy/gofight/v2"
	"github.com/stretchr/testify/assert"

	"authd/internal/model"
)

func TestRequestUserAccessList(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.GET("/api/profiles/user-access").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"status":false,"message":"INVALID_ACCESS_TOKEN"}`, r.Body.String())
	})

	deviceA := register(engine, r, "george.abitbol@nowhere.lan", "device-a")
	deviceB := login(engine, r, "george.abitbol@nowhere.lan", "device-b")

	list := listAccesses(t, engine, r, deviceA.AccessToken)
	assert.True(t, list.Status)
	assert.Len(t, list.Data, 2)
	assert.NotEqual(t, list.Data[0].SessionID, list.Data[1].SessionID)
	for _, access := range list.Data {
		assert.True(t, access.StatusLogin)
		assert.Equal(t, model.TypeLogin, access.Type)
	}

	// Ending the session on one device removes only its entry.
	r.POST("/api/logout").SetHeader(bearer(deviceA.AccessToken)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
	})

	list = listAccesses(t, engine, r, deviceB.AccessToken)
	assert.Len(t, list.Data, 1)
	assert.Equal(t, "device-b", list.Data[0].UserAgent)
}

func TestRequestLogLogin(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	deviceA := register(engine, r, "george.abitbol@nowhere.lan", "device-a")
	login(engine, r, "george.abitbol@nowhere.lan", "device-b")

	// Refreshing appends a record but not a login entry.
	r.POST("/api/refresh-token").
		SetHeader(gofight.H{"User-Agent": "device-a"}).
		SetJSON(gofight.D{"refreshToken": deviceA.RefreshToken}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)
		})

	var out accessList
	r.GET("/api/profiles/log-login").SetHeader(bearer(deviceA.AccessToken)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"status":false,"message":"ACCESS_TOKEN_EXPIRED"}`, r.Body.String())
	})

	deviceA = login(engine, r, "george.abitbol@nowhere.lan", "device-a")
	r.GET("/api/profiles/log-login").SetHeader(bearer(deviceA.AccessToken)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.NoError(t, json.Unmarshal(r.Body.Bytes(), &out))
	})

	// Most recent first, login records only.
	assert.Len(t, out.Data, 3)
	assert.Equal(t, "device-a", out.Data[0].UserAgent)
	assert.Equal(t, "device-b", out.Data[1].UserAgent)
	assert.Equal(t, "device-a", out.Data[2].UserAgent)
	for _, access := range out.Data {
		assert.Equal(t, model.TypeLogin, access.Type)
	}
}

func TestRequestRemoteLogout(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	deviceA := register(engine, r, "george.abitbol@nowhere.lan", "device-a")
	deviceB := login(engine, r, "george.abitbol@nowhere.lan", "device-b")
	stranger := register(engine, r, "hugo@nowhere.lan", "device-c")

	list := listAccesses(t, engine, r, deviceA.AccessToken)
	assert.Len(t, list.Data, 2)
	var targetID string
	for _, access := range list.Data {
		if access.UserAgent == "device-b" {
			targetID = access.ID
		}
	}
	assert.NotEmpty(t, targetID)

	// A session not owned by the caller is not found and not mutated.
	r.POST("/api/profiles/remote-logout/"+targetID).SetHeader(bearer(stranger.AccessToken)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNotFound, r.Code)
		assert.JSONEq(t, `{"status":false,"message":"USER_ACCESS_NOT_FOUND"}`, r.Body.String())
	})
	assert.Len(t, listAccesses(t, engine, r, deviceA.AccessToken).Data, 2)

	r.POST("/api/profiles/remote-logout/"+targetID).SetHeader(bearer(deviceA.AccessToken)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"status":true,"message":"REMOTE_LOGOUT_SUCCESS"}`, r.Body.String())
	})

	list = listAccesses(t, engine, r, deviceA.AccessToken)
	assert.Len(t, list.Data, 1)
	assert.Equal(t, "device-a", list.Data[0].UserAgent)

	// The remotely ended session lost its live token generation.
	r.GET("/api/profiles/user-access").SetHeader(bearer(deviceB.AccessToken)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"status":false,"message":"ACCESS_TOKEN_EXPIRED"}`, r.Body.String())
	})
	r.POST("/api/refresh-token").
		SetHeader(gofight.H{"User-Agent": "device-b"}).
		SetJSON(gofight.D{"refreshToken": deviceB.RefreshToken}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusUnauthorized, r.Code)
			assert.JSONEq(t, `{"status":false,"message":"REFRESH_TOKEN_EXPIRED"}`, r.Body.String())
		})

	// Ending an already ended session fails.
	r.POST("/api/profiles/remote-logout/"+targetID).SetHeader(bearer(deviceA.AccessToken)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"status":false,"message":"SESSION_ID_NOT_FOUND"}`, r.Body.String())
	})
}
