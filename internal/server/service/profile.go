package service

import (
	"github.com/pkg/errors"

	"authd/internal/apierror"
	"authd/internal/database"
	"authd/internal/model"
)

type (
	// A ProfileService is the read side of the session store: it lists a
	// user's sessions and ends them remotely. The caller identity is always
	// derived from the verified access token's record id.
	ProfileService interface {
		// ActiveSessions returns the caller's records with the logged-in
		// flag, one per concurrently active device.
		ActiveSessions(accessID string) ([]*model.UserAccess, error)
		// LoginLog returns the caller's login history, most recent first.
		LoginLog(accessID string) ([]*model.UserAccess, error)
		// RemoteLogout ends the session owning the target record. The target
		// must belong to the caller; a foreign id fails without mutating
		// anything.
		RemoteLogout(accessID, targetID string) (Render, error)
	}

	profileService struct {
		db database.Client
	}
)

// NewProfile returns a new ProfileService.
func NewProfile(db database.Client) ProfileService {
	return &profileService{db: db}
}

func (s *profileService) ActiveSessions(accessID string) ([]*model.UserAccess, error) {
	access, err := s.caller(accessID)
	if err != nil {
		return nil, err
	}

	accesses, err := s.db.FindActiveUserAccesses(access.UserID)
	return accesses, errors.Wrap(err, "could not list active sessions")
}

func (s *profileService) LoginLog(accessID string) ([]*model.UserAccess, error) {
	access, err := s.caller(accessID)
	if err != nil {
		return nil, err
	}

	accesses, err := s.db.FindLoginUserAccesses(access.UserID)
	return accesses, errors.Wrap(err, "could not list login history")
}

func (s *profileService) RemoteLogout(accessID, targetID string) (Render, error) {
	access, err := s.caller(accessID)
	if err != nil {
		return nil, err
	}

	// Ownership check before any mutation.
	target, err := s.db.FindUserAccessByUserID(targetID, access.UserID)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, apierror.ErrUserAccessNotFound
		}
		return nil, errors.Wrap(err, "could not get target user access")
	}

	// Revoke the session's live token generation, if it still has one. The
	// flag may sit on a later refresh record than the targeted one.
	if _, err := s.db.RevokeSessionToken(target.SessionID); err != nil && !s.db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not revoke session token")
	}

	if _, err := s.db.RevokeSessionLogin(target.SessionID); err != nil {
		if s.db.IsNotFound(err) {
			return nil, apierror.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "could not end session")
	}

	return M{
		"status":  true,
		"message": "REMOTE_LOGOUT_SUCCESS",
	}, nil
}

// caller resolves the access record referenced by the caller's token.
// A verified token pointing to a missing record is treated as invalid; a
// record whose token generation was revoked (refresh or logout) means the
// presented access token is no longer the live one.
func (s *profileService) caller(accessID string) (*model.UserAccess, error) {
	access, err := s.db.FindUserAccess(accessID)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, apierror.ErrInvalidAccessToken
		}
		return nil, errors.Wrap(err, "could not get caller user access")
	}

	if !access.StatusToken {
		return nil, apierror.ErrAccessTokenExpired
	}

	return access, nil
}
