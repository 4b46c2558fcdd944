package auth

import "encoding/json"

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// SignupForm holds the fields checked before the form is forwarded. The
// upstream receives every submitted field and file unchanged.
type SignupForm struct {
	Username             string `form:"username"`
	Email                string `form:"email" validate:"min=3"`
	Password             string `form:"password" validate:"min=3"`
	PasswordConfirmation string `form:"password_confirmation" validate:"eqfield=Password"`
}

// upstreamAuthResponse is the body of a successful /login or /register.
type upstreamAuthResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

type LoginResult struct {
	Token string
	User  json.RawMessage
}

// SignupResult is the upstream answer relayed to the browser.
type SignupResult struct {
	Status int
	Body   []byte
	Token  string
}

func (r SignupResult) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	User json.RawMessage `json:"user"`
}
