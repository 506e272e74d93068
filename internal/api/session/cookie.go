// Package session keeps the session token in an HTTP-only cookie.
//
// Sessions are stateless: Clear only removes the client's copy, a copied
// token stays valid until it expires.
package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hirelane/jobboard/internal/core/domain"
)

// CookieName is the name of the session cookie.
const CookieName = "token"

// CookieStore attaches, reads and clears the session cookie.
type CookieStore struct {
	secure bool
	maxAge time.Duration
}

// NewCookieStore returns a store. secure should be true only in production,
// where the site is served over HTTPS.
func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{secure: secure, maxAge: domain.SessionTTL}
}

// Attach sets the session cookie on the response.
func (s *CookieStore) Attach(c echo.Context, token string) {
	ck := s.cookie(token)
	ck.MaxAge = int(s.maxAge.Seconds())
	ck.Expires = time.Now().Add(s.maxAge)
	c.SetCookie(ck)
}

// Read returns the session token carried by the request, if any.
func (s *CookieStore) Read(c echo.Context) (string, bool) {
	ck, err := c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

// Clear instructs the client to delete the session cookie.
func (s *CookieStore) Clear(c echo.Context) {
	ck := s.cookie("")
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0)
	c.SetCookie(ck)
}

func (s *CookieStore) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
