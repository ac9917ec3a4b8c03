package model

import "golang.org/x/oauth2"

// Session is the logged-in user: profile fields plus the token pair.
// Its presence in the cache is the only signal that a user is logged in.
type Session struct {
	ID        ID     `json:"id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Access    string `json:"access"`
	Refresh   string `json:"refresh,omitempty"`
}

// Authenticated reports whether the session carries an access token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Access != ""
}

// Token exposes the token pair as a bearer oauth2 token.
func (s *Session) Token() *oauth2.Token {
	if s == nil {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.Access,
		RefreshToken: s.Refresh,
		TokenType:    "Bearer",
	}
}

// WithProfile returns the profile fields of p combined with the tokens of s.
func (s Session) WithProfile(p Session) Session {
	p.Access = s.Access
	p.Refresh = s.Refresh
	return p
}

// Credentials are the login form fields.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up form.
type Registration struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Validate checks the credentials before login.
func (c *Credentials) Validate() error { return validateStruct(c) }

// Validate checks the registration form before it is sent.
func (r *Registration) Validate() error { return validateStruct(r) }
