package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/userservice/userservice/internal/db/models"
)

// TokenType is the scheme tag returned alongside an issued token.
const TokenType = "Bearer"

// Claims is the signed payload. Roles and permissions travel in separate claims.
type Claims struct {
	UserID      uint64   `json:"uid"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Token is an issued bearer token.
type Token struct {
	Value     string
	Type      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal is the identity and authority snapshot recovered from a verified token.
type Principal struct {
	ID          uint64
	Username    string
	Email       string
	Authorities AuthoritySet
	TokenID     string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Issuer signs and verifies HS256 tokens with a fixed time to live.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates a token issuer.
func NewIssuer(secret, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a fresh token for the user carrying the given authority snapshot.
func (i *Issuer) Issue(user *models.User, authorities AuthoritySet) (*Token, error) {
	now := i.now().Truncate(time.Second)
	exp := now.Add(i.ttl)

	claims := Claims{
		UserID:      user.ID,
		Email:       user.Email,
		Roles:       authorities.Roles(),
		Permissions: authorities.Permissions(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{Value: signed, Type: TokenType, IssuedAt: now, ExpiresAt: exp}, nil
}

// Verify checks signature, issuer and expiry and returns the principal snapshot.
func (i *Issuer) Verify(raw string) (*Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err) //nolint:errorlint // jwt errors stay internal
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	p := &Principal{
		ID:          claims.UserID,
		Username:    claims.Subject,
		Email:       claims.Email,
		Authorities: NewAuthoritySet(claims.Roles, claims.Permissions),
		TokenID:     claims.ID,
	}

	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}

	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}

	return p, nil
}
