package compiler

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvpre/script"
)

// writeStub installs an executable shell script standing in for an
// external tool and returns its path.
func writeStub(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "tool")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

// okStub records its arguments and its input file, then writes a
// little-endian SPIR-V magic word to the -o path.
func okStub(t *testing.T, logDir string) string {
	t.Helper()
	return writeStub(t, `
echo "$@" > `+logDir+`/args
out=""
prev=""
last=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
  last="$a"
done
cp "$last" `+logDir+`/input
printf '\003\002\043\007' > "$out"
`)
}

func TestCompileGLSL(t *testing.T) {
	logDir := t.TempDir()
	tool := New()
	tool.Glslang = okStub(t, logDir)

	data, err := tool.CompileGLSL(script.StageFragment, []byte("void main(){}\n"), "vulkan1.2")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03, 0x02, 0x23, 0x07}, data)

	args, err := os.ReadFile(filepath.Join(logDir, "args"))
	require.NoError(t, err)
	assert.Contains(t, string(args), "-S frag ")
	assert.Contains(t, string(args), " -G ")
	assert.Contains(t, string(args), " -V ")
	assert.Contains(t, string(args), "--target-env vulkan1.2")

	input, err := os.ReadFile(filepath.Join(logDir, "input"))
	require.NoError(t, err)
	assert.Equal(t, "void main(){}\n", string(input))
}

func TestAssemble(t *testing.T) {
	logDir := t.TempDir()
	tool := New()
	tool.SpirvAs = okStub(t, logDir)

	data, err := tool.Assemble([]byte("OpCapability Shader\n"), "vulkan1.0")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03, 0x02, 0x23, 0x07}, data)

	args, err := os.ReadFile(filepath.Join(logDir, "args"))
	require.NoError(t, err)
	assert.Contains(t, string(args), "--target-env vulkan1.0")
	assert.NotContains(t, string(args), "-S ")

	input, err := os.ReadFile(filepath.Join(logDir, "input"))
	require.NoError(t, err)
	assert.Equal(t, "OpCapability Shader\n", string(input))
}

// TestToolFailure checks that a non-zero exit status is fatal and
// reported as ErrToolFailed.
func TestToolFailure(t *testing.T) {
	tool := New()
	tool.Glslang = writeStub(t, "exit 1\n")

	_, err := tool.CompileGLSL(script.StageVertex, []byte("broken"), "vulkan1.0")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolFailed)
}

// TestTempFilesRemoved points TMPDIR at a fresh directory and checks
// that no temporary artifacts survive either a successful or a failed
// invocation.
func TestTempFilesRemoved(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	logDir := t.TempDir()
	tool := New()
	tool.Glslang = okStub(t, logDir)

	_, err := tool.CompileGLSL(script.StageVertex, []byte("ok"), "vulkan1.0")
	require.NoError(t, err)

	tool.Glslang = writeStub(t, "exit 1\n")
	_, err = tool.CompileGLSL(script.StageVertex, []byte("bad"), "vulkan1.0")
	require.Error(t, err)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	var leftover []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "spvpre-") {
			leftover = append(leftover, e.Name())
		}
	}
	assert.Empty(t, leftover)
}
