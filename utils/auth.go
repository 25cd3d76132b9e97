package utils

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/models"
)

// JWT secret key, loaded from the environment in main. The fallback value
// mirrors the original deployment and is insecure; main logs a warning
// when it is in effect.
var JwtKey = []byte("fallback_secret")

// TokenLifetime is how long an admin token stays valid.
const TokenLifetime = 8 * time.Hour

// Claims represents the JWT claims embedded in an admin token.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.StandardClaims
}

// GenerateJWT issues a signed token carrying the user's identity.
func GenerateJWT(user models.User) (string, error) {
	expirationTime := time.Now().Add(TokenLifetime)
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtKey)
}

// ParseToken verifies a token's signature and expiry and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.NewValidationError("token is not valid", jwt.ValidationErrorClaimsInvalid)
	}
	return claims, nil
}
