package service

import (
	"strings"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"authd/internal/apierror"
	"authd/internal/database"
	"authd/internal/model"
	"authd/internal/token"
)

type (
	// An AuthService runs the session lifecycle state machine:
	// registration, login, refresh-token rotation and logout.
	AuthService interface {
		Register(params RegisterParams) (Render, error)
		Login(params LoginParams) (Render, error)
		Refresh(params RefreshParams) (Render, error)
		// Logout ends the session owning the given access record.
		// The id comes from the verified access token of the caller.
		Logout(accessID string) (Render, error)
	}

	authService struct {
		db         database.Client
		issuer     *token.Issuer
		bcryptCost int
	}
)

// NewAuth returns a new AuthService.
func NewAuth(db database.Client, issuer *token.Issuer, bcryptCost int) AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	return &authService{
		db:         db,
		issuer:     issuer,
		bcryptCost: bcryptCost,
	}
}

// Register creates the user and opens its first session.
func (s *authService) Register(params RegisterParams) (Render, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Emails are compared case-insensitively.
	email := strings.ToLower(params.Email)
	_, err := s.db.FindUserByEmail(email)
	if err == nil {
		return nil, apierror.ErrEmailAlreadyExist
	}
	if !s.db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not check email uniqueness")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "could not hash user password")
	}

	user := &model.User{
		Fullname: strings.ToLower(params.Fullname),
		Email:    email,
		Password: string(hash),
	}
	if err := s.db.Save(user); err != nil {
		return nil, errors.Wrap(err, "could not persist user")
	}

	return s.openSession(user, params.UserAgent, "USER_REGISTER_SUCCESS")
}

// Login authenticates the user and opens a new session. Each login gets a
// fresh session id; a user may hold several concurrent sessions.
func (s *authService) Login(params LoginParams) (Render, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	user, err := s.db.FindUserByEmail(strings.ToLower(params.Email))
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, apierror.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "could not get user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(params.Password)); err != nil {
		return nil, apierror.ErrInvalidPassword
	}

	return s.openSession(user, params.UserAgent, "USER_LOGIN_SUCCESS")
}

// Refresh rotates a token pair. The consumed refresh token's record loses
// its StatusToken flag and a successor record is appended to the session.
func (s *authService) Refresh(params RefreshParams) (Render, error) {
	if params.RefreshToken == "" {
		return nil, apierror.ErrRefreshTokenRequired
	}

	claims, err := s.issuer.Verify(token.KindRefresh, params.RefreshToken)
	if err != nil {
		if errors.Is(err, token.ErrExpiredToken) {
			return nil, apierror.ErrRefreshTokenExpired
		}
		return nil, apierror.ErrInvalidRefreshToken
	}

	// Device binding, checked before the rotation so an attempt from another
	// device signature never consumes the token. Advisory only.
	if _, err := s.db.FindUserAccessByUserAgent(claims.AccessID, params.UserAgent); err != nil {
		if s.db.IsNotFound(err) {
			return nil, apierror.ErrTokenFromOtherDevices
		}
		return nil, errors.Wrap(err, "could not check device signature")
	}

	// Reuse guard: a replayed refresh token finds its record already revoked.
	access, err := s.db.RevokeAccessToken(claims.AccessID)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, apierror.ErrRefreshTokenExpired
		}
		return nil, errors.Wrap(err, "could not revoke user access")
	}

	// StatusLogin stays false: the logged-in flag lives on the session level
	// and is only touched by login and logout.
	next := &model.UserAccess{
		UserID:      access.UserID,
		SessionID:   access.SessionID,
		Type:        model.TypeRefreshToken,
		StatusToken: true,
		UserAgent:   params.UserAgent,
	}
	if err := s.db.Save(next); err != nil {
		return nil, errors.Wrap(err, "could not persist user access")
	}

	accessToken, refreshToken, err := s.issuePair(next.ID)
	if err != nil {
		return nil, err
	}

	return M{
		"status":       true,
		"message":      "REFRESH_TOKEN_SUCCESS",
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, nil
}

// Logout revokes the caller's live token generation and ends the session.
func (s *authService) Logout(accessID string) (Render, error) {
	// A record whose StatusToken is already false means this access token
	// was invalidated by a refresh or a prior logout.
	access, err := s.db.RevokeAccessToken(accessID)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, apierror.ErrAccessTokenExpired
		}
		return nil, errors.Wrap(err, "could not revoke user access")
	}

	if _, err := s.db.RevokeSessionLogin(access.SessionID); err != nil {
		if s.db.IsNotFound(err) {
			return nil, apierror.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "could not end session")
	}

	return M{
		"status":  true,
		"message": "LOGOUT_SUCCESS",
	}, nil
}

// openSession appends the login access record and mints its token pair.
func (s *authService) openSession(user *model.User, userAgent, message string) (Render, error) {
	access := &model.UserAccess{
		UserID:      user.ID,
		SessionID:   uuid.Must(uuid.NewV4()).String(),
		Type:        model.TypeLogin,
		StatusToken: true,
		StatusLogin: true,
		UserAgent:   userAgent,
	}
	if err := s.db.Save(access); err != nil {
		return nil, errors.Wrap(err, "could not persist user access")
	}

	accessToken, refreshToken, err := s.issuePair(access.ID)
	if err != nil {
		return nil, err
	}

	return M{
		"status":       true,
		"message":      message,
		"fullname":     user.Fullname,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, nil
}

func (s *authService) issuePair(accessID string) (string, string, error) {
	accessToken, err := s.issuer.Issue(token.KindAccess, accessID)
	if err != nil {
		return "", "", errors.Wrap(err, "could not issue access token")
	}

	refreshToken, err := s.issuer.Issue(token.KindRefresh, accessID)
	if err != nil {
		return "", "", errors.Wrap(err, "could not issue refresh token")
	}

	return accessToken, refreshToken, nil
}
