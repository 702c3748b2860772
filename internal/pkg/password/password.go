package password

import (
	"golang.org/x/crypto/bcrypt"
)

const (
	// CommunityCost is the bcrypt cost for community user passwords
	CommunityCost = 10
	// SystemCost is the bcrypt cost for system user passwords (higher security bar)
	SystemCost = 12

	// MinCommunityLength is the minimum plaintext length for community users
	MinCommunityLength = 8
	// MinSystemLength is the minimum plaintext length for system users
	MinSystemLength = 12
)

// Hash hashes a community user password using bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), CommunityCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// HashSystem hashes a system user password using bcrypt with a higher cost
func HashSystem(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), SystemCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash. Mismatch returns false, never an error.
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidateCommunity checks if a community password meets requirements
func ValidateCommunity(password string) bool {
	return len(password) >= MinCommunityLength
}

// ValidateSystem checks if a system password meets requirements
func ValidateSystem(password string) bool {
	return len(password) >= MinSystemLength
}
