package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds carried in the "typ" claim so a refresh token cannot be
// presented as an access token and vice versa.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
)

// Issuer signs and verifies the backend's session tokens.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

func (i *Issuer) GenerateAccessToken(userID string) (string, error) {
	return i.generate(userID, KindAccess, i.accessTTL)
}

func (i *Issuer) GenerateRefreshToken(userID string) (string, error) {
	return i.generate(userID, KindRefresh, i.refreshTTL)
}

func (i *Issuer) generate(userID, kind string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"typ":     kind,
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ParseToken verifies tokenStr and returns its user ID. The token must be
// of the given kind.
func (i *Issuer) ParseToken(tokenStr, kind string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidClaims
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidClaims
	}
	if typ, _ := claims["typ"].(string); typ != kind {
		return "", ErrInvalidClaims
	}

	return userID, nil
}
