package service

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"authd/internal/apierror"
)

// M is an arbitrary map.
type M map[string]interface{}

// A Render is an arbitrary payload serializable in JSON by the API.
type Render interface{}

// Params are the basic fields shared by requests.
type Params struct {
	// UserAgent is the caller's device signature, captured by the handlers.
	UserAgent string `json:"-"`
}

// RegisterParams are used to register a user.
type RegisterParams struct {
	Params
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the fields in the same order as the API contract so the
// first failing rule defines the rendered message.
func (p RegisterParams) Validate() error {
	if err := validation.Validate(p.Fullname, validation.Required); err != nil {
		return apierror.ErrFullnameRequired
	}
	if err := validation.Validate(p.Email, validation.Required); err != nil {
		return apierror.ErrEmailRequired
	}
	if err := validation.Validate(p.Password, validation.Required); err != nil {
		return apierror.ErrPasswordRequired
	}
	if err := validation.Validate(p.Password, validation.Length(6, 0)); err != nil {
		return apierror.ErrPasswordTooShort
	}
	if err := validation.Validate(p.Email, is.Email); err != nil {
		return apierror.ErrInvalidEmail
	}
	return nil
}

// LoginParams are used to login a user.
type LoginParams struct {
	Params
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the required credentials.
func (p LoginParams) Validate() error {
	if err := validation.Validate(p.Email, validation.Required); err != nil {
		return apierror.ErrEmailRequired
	}
	if err := validation.Validate(p.Password, validation.Required); err != nil {
		return apierror.ErrPasswordRequired
	}
	return nil
}

// RefreshParams are used to rotate a token pair.
type RefreshParams struct {
	Params
	RefreshToken string `json:"refreshToken"`
}
