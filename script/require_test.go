package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRequireVersion(t *testing.T) {
	tests := []struct {
		line string
		env  string
		ok   bool
	}{
		{"vulkan 1.0\n", "vulkan1.0", true},
		{"vulkan 1.2\n", "vulkan1.2", true},
		{"vulkan 1.2.3\n", "vulkan1.2", true},
		{"  vulkan 1.1  \n", "vulkan1.1", true},
		{"vulkan 10.42\n", "vulkan10.42", true},
		// Interior whitespace is squeezed out, not just trimmed.
		{"   vulkan 1 .  2 . 3   \n", "vulkan1.2", true},
		{"vulkan 1 . 2\n", "vulkan1.2", true},
		{"depthstencil d24s8\n", "", false},
		{"vulkan\n", "", false},
		{"vulkan 1\n", "", false},
		{"vulkan 1.2 extra\n", "", false},
		{"vulkan1.2\n", "", false},
		{"fbsize 32 32\n", "", false},
	}

	for _, tt := range tests {
		env, ok := ParseRequireVersion(tt.line)
		assert.Equal(t, tt.ok, ok, "line %q", tt.line)
		assert.Equal(t, tt.env, env, "line %q", tt.line)
	}
}

// TestParseRequireVersionIdempotent checks that normalizing an already
// normalized declaration yields the same target environment.
func TestParseRequireVersionIdempotent(t *testing.T) {
	env, ok := ParseRequireVersion("   vulkan 1 .  2 . 3   ")
	assert.True(t, ok)
	assert.Equal(t, "vulkan1.2", env)

	again, ok := ParseRequireVersion("vulkan 1.2")
	assert.True(t, ok)
	assert.Equal(t, env, again)
}

func TestDefaultTargetEnv(t *testing.T) {
	assert.Equal(t, "vulkan1.0", DefaultTargetEnv)
}
