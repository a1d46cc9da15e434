// Package validation runs the schema and business-rule checks that every
// credential submission must pass before it reaches storage. The pipeline is
// synchronous and fails fast: the first violation rejects the whole request
// with common.ErrValidation and nothing is partially applied.
//
// Payload fields are kept as raw JSON so the checks see the wire-level type
// of each value instead of whatever a decoder would coerce it into. A numeric
// name or email is a violation even when every other field is valid.
package validation

import (
	"encoding/json"
	"net/mail"

	"doorman/internal/common"
)

// Field holds one undecoded JSON value from a request body.
type Field struct {
	raw json.RawMessage
}

func (f *Field) UnmarshalJSON(b []byte) error {
	f.raw = append([]byte(nil), b...)
	return nil
}

// Present reports whether the field was supplied with a non-null value.
func (f Field) Present() bool {
	return len(f.raw) > 0 && string(f.raw) != "null"
}

// Text returns the value iff it is a JSON string.
func (f Field) Text() (string, bool) {
	if !f.Present() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(f.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Scalar returns the value as text, accepting either a JSON string or a JSON
// number. Numbers keep their literal form, so a numeric password like 123456
// becomes "123456". Booleans, arrays, and objects do not qualify.
func (f Field) Scalar() (string, bool) {
	if s, ok := f.Text(); ok {
		return s, true
	}
	if !f.Present() {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(f.raw, &n); err != nil {
		return "", false
	}
	return n.String(), true
}

const minPasswordLen = 6

// wellFormedAddress rejects anything net/mail cannot parse as a bare address.
func wellFormedAddress(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// RegisterRequest is the submission shape for account creation.
type RegisterRequest struct {
	Name            Field `json:"name"`
	Email           Field `json:"email"`
	Password        Field `json:"password"`
	PasswordConfirm Field `json:"passwordConfirm"`
}

// RegisterInput is a registration payload that passed the pipeline.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Validate applies the registration policy: name and email must be textual,
// the email well-formed, the password at least six characters, and
// passwordConfirm equal to password.
func (r *RegisterRequest) Validate() (*RegisterInput, error) {
	name, ok := r.Name.Text()
	if !ok || name == "" {
		return nil, common.ErrValidation
	}

	email, ok := r.Email.Text()
	if !ok || !wellFormedAddress(email) {
		return nil, common.ErrValidation
	}

	password, ok := r.Password.Scalar()
	if !ok || len(password) < minPasswordLen {
		return nil, common.ErrValidation
	}

	confirm, ok := r.PasswordConfirm.Scalar()
	if !ok || confirm != password {
		return nil, common.ErrValidation
	}

	return &RegisterInput{Name: name, Email: email, Password: password}, nil
}

// LoginRequest is the submission shape for session creation.
type LoginRequest struct {
	Email    Field `json:"email"`
	Password Field `json:"password"`
}

// LoginInput is a login payload that passed the pipeline.
type LoginInput struct {
	Email    string
	Password string
}

// Validate applies the login shape check: email textual and present,
// password present.
func (r *LoginRequest) Validate() (*LoginInput, error) {
	email, ok := r.Email.Text()
	if !ok || email == "" {
		return nil, common.ErrValidation
	}

	password, ok := r.Password.Scalar()
	if !ok || password == "" {
		return nil, common.ErrValidation
	}

	return &LoginInput{Email: email, Password: password}, nil
}

// UpdateRequest is the submission shape for profile mutation. Every field is
// optional, but supplying a password pulls passwordConfirm and oldPassword
// into the required set.
type UpdateRequest struct {
	Name            Field `json:"name"`
	Email           Field `json:"email"`
	Password        Field `json:"password"`
	PasswordConfirm Field `json:"passwordConfirm"`
	OldPassword     Field `json:"oldPassword"`
}

// UpdateInput carries the validated subset of fields being changed. Nil
// pointers mean the field was not supplied.
type UpdateInput struct {
	Name        *string
	Email       *string
	Password    *string
	OldPassword *string
}

// Validate applies the update policy. Wrong-typed fields fail the whole
// request even when the remaining fields are valid on their own.
func (r *UpdateRequest) Validate() (*UpdateInput, error) {
	in := &UpdateInput{}

	if r.Name.Present() {
		name, ok := r.Name.Text()
		if !ok {
			return nil, common.ErrValidation
		}
		in.Name = &name
	}

	if r.Email.Present() {
		email, ok := r.Email.Text()
		if !ok || !wellFormedAddress(email) {
			return nil, common.ErrValidation
		}
		in.Email = &email
	}

	if r.Password.Present() {
		password, ok := r.Password.Scalar()
		if !ok {
			return nil, common.ErrValidation
		}

		confirm, ok := r.PasswordConfirm.Scalar()
		if !ok || confirm != password {
			return nil, common.ErrValidation
		}

		oldPassword, ok := r.OldPassword.Scalar()
		if !ok || oldPassword == "" {
			return nil, common.ErrValidation
		}

		in.Password = &password
		in.OldPassword = &oldPassword
	}

	return in, nil
}
