package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nikolayk812/storefront/internal/domain"
)

const fallbackPlaceholderToken = "placeholder-token"

// placeholderToken mints an unsigned JWT for a locally created account. It
// proves nothing and is only there so the session has a token.
func placeholderToken(user domain.User, issuedAt time.Time) string {
	claims := jwt.RegisteredClaims{
		Issuer:   "storefront",
		Subject:  strconv.FormatInt(user.ID, 10),
		IssuedAt: jwt.NewNumericDate(issuedAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		return fallbackPlaceholderToken
	}
	return token
}

// tokenExpiry reads the exp claim without verifying the signature. Opaque or
// expiry-less tokens yield the zero time.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.UTC()
}
