package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"api_key", "sk-123",
		"Authorization", "Bearer abc",
		"client_id", "kid-1",
		"mode", "Speaking",
		"dangling",
	})

	assert.Equal(t, "[REDACTED]", out[1])
	assert.Equal(t, "[REDACTED]", out[3])
	assert.Contains(t, out[5], "hash:")
	assert.NotContains(t, out[5], "kid-1")
	assert.Equal(t, "Speaking", out[7])
	assert.Equal(t, "dangling", out[8])
}

func TestHashValueStable(t *testing.T) {
	assert.Equal(t, hashValue("abc"), hashValue("abc"))
	assert.NotEqual(t, hashValue("abc"), hashValue("abd"))
	assert.Equal(t, "", hashValue(""))
}
