package model

// A User represents a database record.
// Fullname and Email are stored lowercased; Email is the login identifier.
// Users are immutable once created.
type User struct {
	Base `msgpack:",inline" storm:"inline"`

	Fullname string `json:"fullname" msgpack:"fullname"`
	Email    string `json:"email"    msgpack:"email"    storm:"unique"`
	Password string `json:"-"        msgpack:"password"`
}
