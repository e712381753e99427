package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/config"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/repository/db"
)

// Verification failures are distinct so the boundary layer can report
// precise but non-leaking messages.
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenInvalid   = errors.New("token signature is invalid")
	ErrTokenExpired   = errors.New("token has expired")
)

// Claims is the payload embedded in a session token. The token is
// self-contained: nothing about it is persisted server-side.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies bearer session tokens. The signing secret and
// lifetime are injected once at construction; there are no ambient globals.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer from the auth configuration.
func NewIssuer(cfg config.AuthConfig) *Issuer {
	return &Issuer{secret: cfg.JWTSecret, ttl: cfg.TokenTTL}
}

// Issue signs a token bound to the user's identity and the configured expiry.
func (i *Issuer) Issue(user *db.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify checks structure, signature, and expiry, and returns the subject
// user id. Whether that identity still exists is the middleware's problem.
func (i *Issuer) Verify(tokenString string) (string, error) {
	if strings.Count(tokenString, ".") != 2 {
		return "", ErrTokenMalformed
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		default:
			return "", ErrTokenInvalid
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}
