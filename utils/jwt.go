package utils

import (
	"errors"

	"collabhub/models"

	"github.com/golang-jwt/jwt"
)

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(secret []byte, tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
}

// IdentityFromToken validates tokenString and extracts the caller's identity.
func IdentityFromToken(secret []byte, tokenString string) (*models.Identity, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret not configured")
	}
	token, err := ValidateToken(secret, tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}

	id := &models.Identity{ID: sub}
	id.Email, _ = claims["email"].(string)
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		id.Name, _ = meta["name"].(string)
		if id.Name == "" {
			id.Name, _ = meta["full_name"].(string)
		}
		id.AvatarURL, _ = meta["avatar_url"].(string)
	}
	return id, nil
}
