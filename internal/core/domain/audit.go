package domain

import "time"

// AuthEventKind classifies an entry of the authentication audit trail.
type AuthEventKind string

const (
	AuthEventSignup       AuthEventKind = "signup"
	AuthEventLoginSuccess AuthEventKind = "login_success"
	AuthEventLoginFailure AuthEventKind = "login_failure"
	AuthEventLogout       AuthEventKind = "logout"
)

// AuthEvent records an authentication attempt or session change.
type AuthEvent struct {
	Kind      AuthEventKind
	Email     string
	UserID    string // empty when the account is unknown
	Reason    string // failure reason, login_failure only
	ClientIP  string
	Timestamp time.Time
}
