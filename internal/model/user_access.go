package model

const (
	// TypeLogin marks an access record created by a registration or a login.
	TypeLogin = "login"
	// TypeRefreshToken marks an access record created by a token rotation.
	TypeRefreshToken = "refresh-token"
)

// A UserAccess represents a database record.
//
// One record is appended per login and per successful token refresh. All
// records of one logical session share a SessionID. StatusToken is true on
// the record whose access/refresh pair is the currently usable generation;
// StatusLogin is true on the record holding the session-level logged-in flag
// and is only flipped by a logout. Records are never deleted.
type UserAccess struct {
	Base `msgpack:",inline" storm:"inline"`

	UserID      string `json:"userId"      msgpack:"user_id"      storm:"index"`
	SessionID   string `json:"sessionId"   msgpack:"session_id"   storm:"index"`
	Type        string `json:"type"        msgpack:"type"         storm:"index"`
	StatusToken bool   `json:"statusToken" msgpack:"status_token"`
	StatusLogin bool   `json:"statusLogin" msgpack:"status_login"`
	// UserAgent is the client's device signature captured at creation.
	// It is a heuristic binding, not a security boundary.
	UserAgent string `json:"userAgent" msgpack:"user_agent"`
}
