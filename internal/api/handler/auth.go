package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"
)

const viewerTokenIssuer = "gna-complaints"

var ErrInvalidViewerToken = errors.New("invalid or expired viewer token")

// ViewerTokens issues and checks the short-lived tickets that list pages use
// to open the live feed.
type ViewerTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewViewerTokens signs with secret. An empty secret gets a random one, which
// invalidates outstanding tickets on restart.
func NewViewerTokens(secret string, ttl time.Duration) *ViewerTokens {
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}
	return &ViewerTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token and the random viewer id it carries.
func (v *ViewerTokens) Issue() (token, viewerID string, err error) {
	viewerID = uuid.NewString()
	now := v.now()
	claims := jwt.RegisteredClaims{
		Subject:   viewerID,
		Issuer:    viewerTokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign viewer token: %w", err)
	}
	return token, viewerID, nil
}

// Validate returns the viewer id of a token signed by this issuer.
func (v *ViewerTokens) Validate(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(viewerTokenIssuer),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil || claims.Subject == "" {
		return "", ErrInvalidViewerToken
	}
	return claims.Subject, nil
}
