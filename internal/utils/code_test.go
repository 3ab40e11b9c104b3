package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOtpCodeFormat(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateOtpCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit", code)
		}
	}
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("09121111111"))
	assert.True(t, ValidPhone("09987654321"))

	assert.False(t, ValidPhone("0912111111"))   // too short
	assert.False(t, ValidPhone("091211111111")) // too long
	assert.False(t, ValidPhone("08121111111"))  // wrong prefix
	assert.False(t, ValidPhone("0912111111a"))
	assert.False(t, ValidPhone(""))
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, SecureCompare("123456", "123456"))
	assert.True(t, SecureCompare("000042", "000042"))

	assert.False(t, SecureCompare("123456", "123457"))
	assert.False(t, SecureCompare("12345", "123456"))
	assert.False(t, SecureCompare("", "123456"))
}
