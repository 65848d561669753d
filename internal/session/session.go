package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultCookieName = "session"

var (
	ErrNoToken      = errors.New("no session token")
	ErrInvalidToken = errors.New("invalid session token")
)

// Provider resolves the signed-in user for a request.
type Provider interface {
	UserID(r *http.Request) (string, bool)
}

// Config configures session verification.
type Config struct {
	Secret     string
	CookieName string
	Issuer     string
	DevUser    string
}

// New picks a provider for cfg: JWT when a secret is set, a fixed user when
// DevUser is set, otherwise anonymous.
func New(cfg Config) Provider {
	switch {
	case cfg.Secret != "":
		return NewJWTProvider(cfg)
	case cfg.DevUser != "":
		return Static(cfg.DevUser)
	default:
		return Anonymous{}
	}
}

// Anonymous never has a session.
type Anonymous struct{}

func (Anonymous) UserID(*http.Request) (string, bool) { return "", false }

// Static signs every request in as the same user.
type Static string

func (s Static) UserID(*http.Request) (string, bool) {
	id := strings.TrimSpace(string(s))
	return id, id != ""
}

type claims struct {
	jwt.RegisteredClaims
}

// JWTProvider reads an HS256 token from the session cookie or a bearer
// Authorization header. The token subject is the user id.
type JWTProvider struct {
	secret []byte
	cookie string
	issuer string
	now    func() time.Time
}

// NewJWTProvider builds a verifier for tokens signed with cfg.Secret.
func NewJWTProvider(cfg Config) *JWTProvider {
	cookie := cfg.CookieName
	if cookie == "" {
		cookie = defaultCookieName
	}
	return &JWTProvider{
		secret: []byte(cfg.Secret),
		cookie: cookie,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

// UserID returns the verified subject, or false when there is no valid token.
func (p *JWTProvider) UserID(r *http.Request) (string, bool) {
	token := p.tokenFrom(r)
	if token == "" {
		return "", false
	}
	userID, err := p.Verify(token)
	if err != nil {
		return "", false
	}
	return userID, true
}

// Verify checks the signature, expiry and issuer and returns the subject.
func (p *JWTProvider) Verify(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	subject := strings.TrimSpace(parsed.Subject)
	if subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return subject, nil
}

// Issue signs a token for userID valid for ttl.
func (p *JWTProvider) Issue(userID string, ttl time.Duration) (string, error) {
	now := p.now()
	c := claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    p.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(p.secret)
}

// CookieName is the cookie the provider reads tokens from.
func (p *JWTProvider) CookieName() string {
	return p.cookie
}

func (p *JWTProvider) tokenFrom(r *http.Request) string {
	if c, err := r.Cookie(p.cookie); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
