package domain

import "time"

type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Email     string
	Gender    string
	Image     string
}

// Session is an authenticated identity plus its opaque credential. A session
// is only valid when both the user and the token are present.
type Session struct {
	User  User
	Token string

	// ExpiresAt is informational, read from the token when it carries an
	// expiry claim. Zero when unknown.
	ExpiresAt time.Time
}

func (s Session) Valid() bool {
	return s.User.ID != 0 && s.Token != ""
}
