package domain

import (
	"strings"
	"time"
)

// Role is the account type chosen at signup. It never changes afterwards.
type Role string

const (
	RoleJobseeker Role = "JOBSEEKER"
	RoleEmployer  Role = "EMPLOYER"
)

// SessionTTL is how long an issued session stays valid.
const SessionTTL = 8 * time.Hour

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleJobseeker || r == RoleEmployer
}

// DashboardPath returns the landing page for an authenticated user of role r.
func (r Role) DashboardPath() string {
	if r == RoleEmployer {
		return "/employer/dashboard"
	}
	return "/jobseeker/dashboard"
}

// Profile holds the public, editable part of a user account.
type Profile struct {
	FirstName   string   `json:"firstName"             bson:"first_name"`
	LastName    string   `json:"lastName"              bson:"last_name"`
	Headline    string   `json:"headline,omitempty"    bson:"headline,omitempty"`
	Location    string   `json:"location,omitempty"    bson:"location,omitempty"`
	Skills      []string `json:"skills,omitempty"      bson:"skills,omitempty"`
	CompanyName string   `json:"companyName,omitempty" bson:"company_name,omitempty"`
}

// User models a registered job seeker or employer.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized returns a copy of u without the password hash.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	if u.Profile.Skills != nil {
		clone.Profile.Skills = append([]string(nil), u.Profile.Skills...)
	}
	return &clone
}

// NewProfile derives the initial profile from a full name: the first word
// becomes the first name and the rest, single-spaced, the last name.
func NewProfile(fullName string) Profile {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return Profile{}
	}
	return Profile{
		FirstName: parts[0],
		LastName:  strings.Join(parts[1:], " "),
	}
}

// NormalizeEmail lower-cases and trims an e-mail address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
