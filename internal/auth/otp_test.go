package auth

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_SixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000, "code must never fall below the minimum 6-digit value")
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestGenerateCode_LengthOutOfRange(t *testing.T) {
	_, err := GenerateCode(2)
	assert.Error(t, err)

	_, err = GenerateCode(15)
	assert.Error(t, err)
}

func TestHashCode_RoundTrip(t *testing.T) {
	code, err := GenerateCode(6)
	require.NoError(t, err)

	hash, err := HashCode(code)
	require.NoError(t, err)
	assert.NotEqual(t, code, hash)

	assert.NoError(t, CompareCode(hash, code))
	assert.Error(t, CompareCode(hash, "000000"))
}

func TestHashCode_DistinctSalts(t *testing.T) {
	h1, err := HashCode("123456")
	require.NoError(t, err)
	h2, err := HashCode("123456")
	require.NoError(t, err)

	// bcrypt salts, so the same code never hashes identically
	assert.NotEqual(t, h1, h2)
}
