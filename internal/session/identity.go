package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the page header shows about the signed-in admin.
type Identity struct {
	Subject   string
	Name      string
	Mobile    string
	ExpiresAt time.Time
}

// DisplayName picks the most readable identifier available.
func (i Identity) DisplayName() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.Mobile != "":
		return i.Mobile
	default:
		return i.Subject
	}
}

// IdentityFromToken decodes the access token WITHOUT verifying it. The result
// is for display only and must never be used as an authorization signal.
func IdentityFromToken(token string) (Identity, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, false
	}

	id := Identity{}
	id.Subject, _ = claims.GetSubject()
	id.Name = stringClaim(claims, "name", "unique_name")
	id.Mobile = stringClaim(claims, "mobile", "phone", "phone_number")
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id, true
}

func stringClaim(claims jwt.MapClaims, names ...string) string {
	for _, name := range names {
		if v, ok := claims[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
