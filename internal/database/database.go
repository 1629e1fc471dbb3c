package database

import (
	"authd/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool

		UserInteraction
		UserAccessInteraction
	}

	// An UserInteraction defines all the methods used to interact with a user record.
	UserInteraction interface {
		// FindUser returns the user for the given id (UUID).
		FindUser(id string) (*model.User, error)
		// FindUserByEmail returns the user for the given email.
		// The email is expected to be lowercased by the caller.
		FindUserByEmail(email string) (*model.User, error)
	}

	// An UserAccessInteraction defines all the methods used to interact with
	// the session bookkeeping records.
	UserAccessInteraction interface {
		// FindUserAccess returns the access record for the given id (UUID).
		FindUserAccess(id string) (*model.UserAccess, error)
		// FindUserAccessByUserAgent returns the access record for the given id
		// and device signature.
		FindUserAccessByUserAgent(id, userAgent string) (*model.UserAccess, error)
		// FindUserAccessByUserID returns the access record for the given id,
		// constrained to the given owner.
		FindUserAccessByUserID(id, userID string) (*model.UserAccess, error)
		// FindActiveUserAccesses returns the records holding the logged-in flag
		// for the given user, one per concurrently active session.
		FindActiveUserAccesses(userID string) ([]*model.UserAccess, error)
		// FindLoginUserAccesses returns the login-type records for the given
		// user, most recent first.
		FindLoginUserAccesses(userID string) ([]*model.UserAccess, error)

		// RevokeAccessToken flips StatusToken to false on the record with the
		// given id, only if it is currently true. A not found error means the
		// record's token generation was already consumed (reuse guard).
		RevokeAccessToken(id string) (*model.UserAccess, error)
		// RevokeSessionToken flips StatusToken to false on whichever record of
		// the given session currently holds it.
		RevokeSessionToken(sessionID string) (*model.UserAccess, error)
		// RevokeSessionLogin flips StatusLogin to false on whichever record of
		// the given session currently holds it, ending the session.
		RevokeSessionLogin(sessionID string) (*model.UserAccess, error)
	}
)
