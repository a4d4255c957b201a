package api

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
)

const (
	// SessionCookieName is the cookie carrying the app session token.
	SessionCookieName = "serene_session"

	guestSessionTTL = 30 * time.Minute

	defaultKeyCacheTTL = 15 * time.Minute
)

var (
	errMissingSession      = errors.New("missing session token")
	errBadAuthorization    = errors.New("bad auth header")
	errGuestSessionExpired = errors.New("guest session expired")
)

// Session is the resolved caller identity: an opaque subject plus a guest
// flag. Everything else about the user lives with the external identity
// provider.
type Session struct {
	UserID   string
	Name     string
	IsGuest  bool
	IssuedAt time.Time
}

// SessionResolver validates session tokens. App-minted sessions (guest and
// provider-backed) are HS256 signed with the shared session secret; when a
// JWKS is configured, RS256 tokens from the identity provider are accepted
// too.
type SessionResolver struct {
	secret   []byte
	jwks     *keyfunc.JWKS
	audience string
	issuer   string

	hsParser *jwt.Parser
	rsParser *jwt.Parser

	keyCache    sync.Map
	keyCacheTTL time.Duration

	now func() time.Time
}

type cachedKey struct {
	key       any
	expiresAt time.Time
}

// NewSessionResolver creates a resolver for the given session secret. jwks,
// audience and issuer are optional; they enable the RS256 provider path.
func NewSessionResolver(secret []byte, jwks *keyfunc.JWKS, audience, issuer string) *SessionResolver {
	return &SessionResolver{
		secret:      secret,
		jwks:        jwks,
		audience:    audience,
		issuer:      issuer,
		hsParser:    jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
		rsParser:    jwt.NewParser(jwt.WithValidMethods([]string{"RS256"})),
		keyCacheTTL: defaultKeyCacheTTL,
		now:         time.Now,
	}
}

// Resolve extracts the session from the Authorization header or, failing
// that, the session cookie.
func (r *SessionResolver) Resolve(req *http.Request) (*Session, error) {
	if h := req.Header.Get("Authorization"); h != "" {
		token, err := bearerToken(h)
		if err != nil {
			return nil, err
		}
		return r.SessionFromToken(token)
	}
	if cookie, err := req.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return r.SessionFromToken(cookie.Value)
	}
	return nil, errMissingSession
}

// SessionFromToken validates a raw token and returns the session it encodes.
// Guest sessions have a single authoritative bound: thirty minutes from
// issuance, regardless of the embedded expiry or any cookie lifetime.
func (r *SessionResolver) SessionFromToken(tokenStr string) (*Session, error) {
	var parsed *jwt.Token
	var err error
	if r.jwks != nil && tokenAlg(tokenStr) == "RS256" {
		parsed, err = r.rsParser.Parse(tokenStr, r.keyForToken)
	} else {
		parsed, err = r.hsParser.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return r.secret, nil
		})
	}
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	now := r.now().Unix()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, errors.New("token expired")
	}
	if !claims.VerifyNotBefore(now, false) {
		return nil, errors.New("token not valid yet")
	}
	if r.audience != "" && !claims.VerifyAudience(r.audience, false) {
		return nil, errors.New("invalid audience")
	}
	if r.issuer != "" && !claims.VerifyIssuer(r.issuer, false) {
		return nil, errors.New("invalid issuer")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("missing sub")
	}

	sess := &Session{UserID: sub}
	if name, ok := claims["name"].(string); ok {
		sess.Name = name
	}
	if isGuest, ok := claims["isGuest"].(bool); ok {
		sess.IsGuest = isGuest
	}
	if iat, ok := claims["iat"].(float64); ok {
		sess.IssuedAt = time.Unix(int64(iat), 0)
	}

	if sess.IsGuest {
		if sess.IssuedAt.IsZero() || r.now().Sub(sess.IssuedAt) > guestSessionTTL {
			return nil, errGuestSessionExpired
		}
	}
	return sess, nil
}

// IssueSession mints an HS256 app session token for the given subject.
func (r *SessionResolver) IssueSession(sub, name string, isGuest bool, ttl time.Duration) (string, error) {
	now := r.now()
	claims := jwt.MapClaims{
		"sub":     sub,
		"name":    name,
		"isGuest": isGuest,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

func (r *SessionResolver) keyForToken(token *jwt.Token) (any, error) {
	if r.jwks == nil {
		return nil, errors.New("jwks not configured")
	}

	kid, _ := token.Header["kid"].(string)
	if kid != "" && r.keyCacheTTL > 0 {
		if cached, ok := r.keyCache.Load(kid); ok {
			entry := cached.(cachedKey)
			if r.now().Before(entry.expiresAt) {
				return entry.key, nil
			}
			r.keyCache.Delete(kid)
		}
	}

	key, err := r.jwks.Keyfunc(token)
	if err != nil {
		return nil, err
	}

	if kid != "" && r.keyCacheTTL > 0 {
		r.keyCache.Store(kid, cachedKey{key: key, expiresAt: r.now().Add(r.keyCacheTTL)})
	}
	return key, nil
}

func bearerToken(h string) (string, error) {
	trimmed := strings.TrimSpace(h)
	if trimmed == "" {
		return "", errMissingSession
	}
	const prefix = "Bearer "
	if len(trimmed) <= len(prefix) || !strings.EqualFold(trimmed[:len(prefix)], prefix) {
		return "", errBadAuthorization
	}
	token := trimmed[len(prefix):]
	if strings.Count(token, ".") != 2 {
		return "", errBadAuthorization
	}
	return token, nil
}

// tokenAlg peeks at the token header without validating the signature, so
// the resolver can pick the right parser.
func tokenAlg(tokenStr string) string {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	alg, _ := token.Header["alg"].(string)
	return alg
}
