package guard

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hirelane/jobboard/internal/api/metrics"
	"github.com/hirelane/jobboard/internal/core/domain"
)

// LoginPath is where anonymous visitors of protected paths are sent.
const LoginPath = "/login"

// contextKey is the echo context key holding the verified *domain.SessionClaim.
const contextKey = "session_claim"

// TokenReader extracts the raw session token from a request.
type TokenReader interface {
	Read(c echo.Context) (string, bool)
}

// TokenVerifier validates a raw session token.
type TokenVerifier interface {
	Verify(token string) (*domain.SessionClaim, bool)
}

// Outcome is the terminal state of a guard evaluation.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

func (o Outcome) String() string {
	if o == Redirect {
		return "redirect"
	}
	return "allow"
}

// Decision is the result of evaluating a request against the policy.
type Decision struct {
	Outcome  Outcome
	Location string // redirect target, empty when allowed
	Class    Class
	Bypassed bool
}

func allow(class Class) Decision { return Decision{Outcome: Allow, Class: class} }

func redirect(class Class, to string) Decision {
	return Decision{Outcome: Redirect, Location: to, Class: class}
}

// Guard enforces the path policy. It only reads tokens, it never issues or
// clears them.
type Guard struct {
	table    *Table
	bypass   []string
	reader   TokenReader
	verifier TokenVerifier
	log      zerolog.Logger
}

// New returns a Guard using table and the given bypass prefixes.
func New(table *Table, bypass []string, reader TokenReader, verifier TokenVerifier, log zerolog.Logger) *Guard {
	return &Guard{
		table:    table,
		bypass:   bypass,
		reader:   reader,
		verifier: verifier,
		log:      log,
	}
}

// Decide evaluates path for a request carrying claim (nil when anonymous).
func (g *Guard) Decide(path string, claim *domain.SessionClaim) Decision {
	if bypassed(g.bypass, path) {
		return Decision{Outcome: Allow, Bypassed: true}
	}

	class := g.table.Classify(path)
	switch {
	case class == Public:
		return allow(class)
	case claim == nil && class == AuthPage:
		return allow(class)
	case claim == nil:
		return redirect(class, LoginPath)
	case class == AuthPage:
		return redirect(class, claim.Role.DashboardPath())
	case class == EmployerOnly && !claim.IsEmployer():
		return redirect(class, domain.RoleJobseeker.DashboardPath())
	}
	return allow(class)
}

// Middleware returns the echo middleware applying the guard to every request.
func (g *Guard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if bypassed(g.bypass, path) {
				return next(c)
			}

			var claim *domain.SessionClaim
			if token, ok := g.reader.Read(c); ok {
				if verified, valid := g.verifier.Verify(token); valid {
					claim = verified
				} else {
					metrics.TokenVerifyFailuresTotal.Inc()
					g.log.Debug().Str("path", path).Msg("ignoring invalid session token")
				}
			}

			d := g.Decide(path, claim)
			metrics.GuardDecisionsTotal.WithLabelValues(d.Outcome.String(), d.Class.String()).Inc()

			if d.Outcome == Redirect {
				return c.Redirect(http.StatusTemporaryRedirect, d.Location)
			}
			if claim != nil {
				c.Set(contextKey, claim)
			}
			return next(c)
		}
	}
}

// ClaimFrom returns the session claim the guard attached to c.
func ClaimFrom(c echo.Context) (*domain.SessionClaim, bool) {
	claim, ok := c.Get(contextKey).(*domain.SessionClaim)
	return claim, ok && claim != nil
}

// WithClaim attaches claim to c the way the guard middleware does.
func WithClaim(c echo.Context, claim *domain.SessionClaim) {
	c.Set(contextKey, claim)
}
