package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// User type discriminants carried in token claims
const (
	UserTypeCommunity = "community"
	UserTypeSystem    = "system"
)

// Token lifetimes per identity class
const (
	CommunityTokenTTL = 24 * time.Hour
	SystemTokenTTL    = 8 * time.Hour
)

// Claims represents the JWT claims carried by both identity classes.
// System-only fields are omitted from community tokens.
type Claims struct {
	UserID      uint     `json:"user_id"`
	Username    string   `json:"username"`
	Email       string   `json:"email,omitempty"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	UserType    string   `json:"user_type"`
	EmployeeID  string   `json:"employee_id,omitempty"`
	Department  string   `json:"department,omitempty"`
	AccessLevel int      `json:"access_level,omitempty"`
	jwt.RegisteredClaims
}

// GenerateCommunityToken mints a 24h token for a community identity
func GenerateCommunityToken(userID uint, username, email, role string, permissions []string, secret string) (string, error) {
	claims := Claims{
		UserID:      userID,
		Username:    username,
		Email:       email,
		Role:        role,
		Permissions: permissions,
		UserType:    UserTypeCommunity,
	}
	return sign(claims, secret, CommunityTokenTTL)
}

// GenerateSystemToken mints an 8h token for a system identity
func GenerateSystemToken(userID uint, username, employeeID, department, role string, accessLevel int, permissions []string, secret string) (string, error) {
	claims := Claims{
		UserID:      userID,
		Username:    username,
		Role:        role,
		Permissions: permissions,
		UserType:    UserTypeSystem,
		EmployeeID:  employeeID,
		Department:  department,
		AccessLevel: accessLevel,
	}
	return sign(claims, secret, SystemTokenTTL)
}

func sign(claims Claims, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    "samajhub",
		Subject:   claims.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Validate verifies signature and expiry and returns the decoded claims.
// Expired tokens surface as ErrTokenExpired, everything else as ErrTokenInvalid.
func Validate(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
