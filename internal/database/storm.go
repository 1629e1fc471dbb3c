package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/asdine/storm/v3/q"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"authd/internal/model"
)

type strm struct {
	db *storm.DB
}

// StormCodec is the format used to store data in the database.
var StormCodec = storm.Codec(msgpack.Codec)

// StormInit initializes Storm database.
func StormInit(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	if err := db.Init(&model.User{}); err != nil {
		return errors.Wrap(err, "could not init user index")
	}

	err = db.Init(&model.UserAccess{})
	return errors.Wrap(err, "could not init user access index")
}

// StormOpen returns a new Storm database connection.
func StormOpen(database string) (Client, error) {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db: db,
	}, nil
}

// Save inserts or updates the entry in database with the given model.
func (c *strm) Save(m model.Model) error {
	t := time.Now().UTC()
	m.SetUpdatedAt(t)

	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
		m.SetCreatedAt(t)
	}

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// FindUser returns the user for the given id (UUID).
func (c *strm) FindUser(id string) (*model.User, error) {
	var user model.User
	if err := c.db.One("ID", id, &user); err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}

// FindUserByEmail returns the user for the given email.
func (c *strm) FindUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := c.db.One("Email", email, &user); err != nil {
		return nil, errors.Wrap(err, "find user by email")
	}
	return &user, nil
}

// FindUserAccess returns the access record for the given id (UUID).
func (c *strm) FindUserAccess(id string) (*model.UserAccess, error) {
	var access model.UserAccess
	if err := c.db.One("ID", id, &access); err != nil {
		return nil, errors.Wrap(err, "find user access by id")
	}
	return &access, nil
}

// FindUserAccessByUserAgent returns the access record for the given id and device signature.
func (c *strm) FindUserAccessByUserAgent(id, userAgent string) (*model.UserAccess, error) {
	var access model.UserAccess
	err := c.db.Select(q.Eq("ID", id), q.Eq("UserAgent", userAgent)).First(&access)
	if err != nil {
		return nil, errors.Wrap(err, "find user access by id and user agent")
	}
	return &access, nil
}

// FindUserAccessByUserID returns the access record for the given id and owner.
func (c *strm) FindUserAccessByUserID(id, userID string) (*model.UserAccess, error) {
	var access model.UserAccess
	err := c.db.Select(q.Eq("ID", id), q.Eq("UserID", userID)).First(&access)
	if err != nil {
		return nil, errors.Wrap(err, "find user access by id and user id")
	}
	return &access, nil
}

// FindActiveUserAccesses returns the records holding the logged-in flag for the given user.
func (c *strm) FindActiveUserAccesses(userID string) ([]*model.UserAccess, error) {
	accesses := make([]*model.UserAccess, 0)
	err := c.db.Select(q.Eq("UserID", userID), q.Eq("StatusLogin", true)).OrderBy("CreatedAt").Find(&accesses)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find active user accesses")
	}
	return accesses, nil
}

// FindLoginUserAccesses returns the login-type records for the given user, most recent first.
func (c *strm) FindLoginUserAccesses(userID string) ([]*model.UserAccess, error) {
	accesses := make([]*model.UserAccess, 0)
	err := c.db.Select(q.Eq("UserID", userID), q.Eq("Type", model.TypeLogin)).
		OrderBy("CreatedAt").Reverse().Find(&accesses)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find login user accesses")
	}
	return accesses, nil
}

// RevokeAccessToken flips StatusToken to false on the record with the given
// id, only if it is currently true.
func (c *strm) RevokeAccessToken(id string) (*model.UserAccess, error) {
	return c.revoke(q.Eq("ID", id), q.Eq("StatusToken", true), func(access *model.UserAccess) {
		access.StatusToken = false
	})
}

// RevokeSessionToken flips StatusToken to false on whichever record of the
// given session currently holds it.
func (c *strm) RevokeSessionToken(sessionID string) (*model.UserAccess, error) {
	return c.revoke(q.Eq("SessionID", sessionID), q.Eq("StatusToken", true), func(access *model.UserAccess) {
		access.StatusToken = false
	})
}

// RevokeSessionLogin flips StatusLogin to false on whichever record of the
// given session currently holds it.
func (c *strm) RevokeSessionLogin(sessionID string) (*model.UserAccess, error) {
	return c.revoke(q.Eq("SessionID", sessionID), q.Eq("StatusLogin", true), func(access *model.UserAccess) {
		access.StatusLogin = false
	})
}

// revoke applies mutate to the single record matching the given matchers,
// inside one write transaction. Storm's underlying bbolt serializes write
// transactions, so concurrent attempts observe the flag exactly once: the
// loser's read finds no matching record and returns a not found error.
func (c *strm) revoke(m1, m2 q.Matcher, mutate func(*model.UserAccess)) (*model.UserAccess, error) {
	tx, err := c.db.Begin(true)
	if err != nil {
		return nil, errors.Wrap(err, "could not begin transaction")
	}
	defer tx.Rollback()

	var access model.UserAccess
	if err := tx.Select(m1, m2).First(&access); err != nil {
		return nil, errors.Wrap(err, "find user access to revoke")
	}

	mutate(&access)
	access.SetUpdatedAt(time.Now().UTC())

	if err := tx.Save(&access); err != nil {
		return nil, errors.Wrap(err, "could not save the revoked user access")
	}

	return &access, errors.Wrap(tx.Commit(), "could not commit revocation")
}
