// Package token decodes the compact bearer tokens issued by the user service.
//
// Signatures are never verified here; the services re-validate the token on
// every call. Decoded claims may drive what the UI shows and which opaque ids
// are sent back to the APIs, never an authorization decision.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	ClaimNameIdentifier = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	ClaimName           = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
	ClaimExpiry         = "exp"
)

// ErrMalformed is wrapped by every decode failure.
var ErrMalformed = errors.New("token: malformed")

// Claims is the decoded payload segment.
type Claims map[string]any

var parser = jwt.NewParser(jwt.WithJSONNumber())

// Decode base64url-decodes and parses the claims segment without verifying
// the signature. An unknown or missing alg header is not an error.
func Decode(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	}
	mc := jwt.MapClaims{}
	tok, _, err := parser.ParseUnverified(raw, mc)
	if err != nil && !unverifiableOnly(err, tok) {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Claims(mc), nil
}

// unverifiableOnly reports whether the parser got as far as the claims and
// only complained about the signing method.
func unverifiableOnly(err error, tok *jwt.Token) bool {
	var ve *jwt.ValidationError
	if tok == nil || !errors.As(err, &ve) {
		return false
	}
	return ve.Errors == jwt.ValidationErrorUnverifiable
}

// IsValid is true iff raw decodes, carries exp, and exp is after now.
func IsValid(raw string, now time.Time) bool {
	claims, err := Decode(raw)
	if err != nil {
		return false
	}
	exp, ok := claims.ExpiresAt()
	return ok && exp.After(now)
}

// String returns a string claim or "".
func (c Claims) String(key string) string {
	switch v := c[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func (c Claims) first(keys ...string) string {
	for _, k := range keys {
		if v := c.String(k); v != "" {
			return v
		}
	}
	return ""
}

func (c Claims) UserID() string {
	return c.first(ClaimNameIdentifier, "nameid", "sub")
}

func (c Claims) UserName() string {
	return c.first(ClaimName, "unique_name", "name")
}

// ExpiresAt reads exp as seconds since the epoch.
func (c Claims) ExpiresAt() (time.Time, bool) {
	var secs float64
	switch v := c[ClaimExpiry].(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, false
		}
		secs = f
	case float64:
		secs = v
	case int64:
		secs = float64(v)
	case int:
		secs = float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return time.Time{}, false
		}
		secs = f
	default:
		return time.Time{}, false
	}
	switch {
	case math.IsNaN(secs):
		return time.Time{}, false
	case secs >= maxExpiry:
		return time.Unix(maxExpiry, 0), true
	case secs <= -maxExpiry:
		return time.Unix(-maxExpiry, 0), true
	}
	whole := int64(secs)
	return time.Unix(whole, int64((secs-float64(whole))*1e9)), true
}

// maxExpiry bounds exp so the conversion to int64 seconds cannot wrap.
const maxExpiry = 1 << 62
