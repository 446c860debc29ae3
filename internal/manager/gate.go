// Package manager holds the shared-secret gate for tour authoring.
//
// This is deliberately a demo-grade gate, not a security boundary: a single
// configured secret, no lockout, no rate limiting. A deployment needing real
// access control should put an authorization service in front instead of
// hardening this check.
package manager

// Gate grants the session-scoped manager capability on an exact secret match.
type Gate struct {
	secret string
}

func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Authenticate reports whether password matches the configured secret
// exactly. Empty input never matches.
func (g *Gate) Authenticate(password string) bool {
	return password != "" && password == g.secret
}
