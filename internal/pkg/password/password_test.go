package password

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hashed, err := Hash("communitypass")
	require.NoError(t, err)
	require.NotEqual(t, "communitypass", hashed)

	require.True(t, Verify("communitypass", hashed))
	require.False(t, Verify("wrongpass", hashed))
}

func TestHashCosts(t *testing.T) {
	communityHash, err := Hash("communitypass")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(communityHash))
	require.NoError(t, err)
	require.Equal(t, CommunityCost, cost)

	systemHash, err := HashSystem("systempassword12")
	require.NoError(t, err)
	cost, err = bcrypt.Cost([]byte(systemHash))
	require.NoError(t, err)
	require.Equal(t, SystemCost, cost)
}

func TestVerifyRejectsGarbageHash(t *testing.T) {
	require.False(t, Verify("anything", "not-a-bcrypt-hash"))
}

func TestValidateCommunity(t *testing.T) {
	require.False(t, ValidateCommunity("short"))
	require.False(t, ValidateCommunity("1234567"))
	require.True(t, ValidateCommunity("12345678"))
}

func TestValidateSystem(t *testing.T) {
	require.False(t, ValidateSystem("12345678"))
	require.False(t, ValidateSystem("12345678901"))
	require.True(t, ValidateSystem("123456789012"))
}
