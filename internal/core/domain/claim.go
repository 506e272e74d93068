package domain

// SessionClaim is the projection of a User carried inside a session token.
// It never contains credentials.
type SessionClaim struct {
	UserID   string `json:"id"`
	Role     Role   `json:"role"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// ClaimFor builds the session claim for u.
func ClaimFor(u *User) SessionClaim {
	return SessionClaim{
		UserID:   u.ID,
		Role:     u.Role,
		Email:    u.Email,
		FullName: u.FullName,
	}
}

// IsEmployer reports whether the claim belongs to an employer account.
func (c SessionClaim) IsEmployer() bool {
	return c.Role == RoleEmployer
}
