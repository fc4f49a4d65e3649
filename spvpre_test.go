package spvpre

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvpre/spirv"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, spirv.EncodingBase64, opts.Encoding)
	assert.NotNil(t, opts.Compiler)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "basic.shader_test")
	out := filepath.Join(dir, "basic.precompiled")

	input := "[require]\nvulkan 1.1\n\n[fragment shader]\nvoid main(){}\n"
	require.NoError(t, os.WriteFile(in, []byte(input), 0o644))

	fake := &fakeCompiler{out: fakeBinary}
	opts := Options{Encoding: spirv.EncodingBase64, Compiler: fake}
	require.NoError(t, ConvertFile(in, out, opts))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[require]\nvulkan 1.1\n\n[fragment shader binary]\n"))
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "vulkan1.1", fake.calls[0].targetEnv)
}

func TestConvertFileMissingInput(t *testing.T) {
	err := ConvertFile(filepath.Join(t.TempDir(), "absent"), filepath.Join(t.TempDir(), "out"), DefaultOptions())
	require.Error(t, err)
}
