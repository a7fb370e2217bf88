package backend

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/example/timetable-console/internal/application"
)

// checkToken reports ErrSessionExpired when the configured token is a JWT
// whose expiry has passed, saving a round trip that would fail anyway.
// Opaque (non-JWT) tokens and tokens without an exp claim are passed through;
// the backend remains the authority on their validity.
func (c *Client) checkToken() error {
	if c.token == "" {
		return nil
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(c.token, claims); err != nil {
		return nil
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return nil
	}
	if c.now().After(expiry.Time) {
		return application.ErrSessionExpired
	}
	return nil
}
