// Package compiler invokes the external SPIR-V toolchain.
//
// GLSL source is compiled with glslangValidator and SPIR-V assembly is
// assembled with spirv-as. Both tools are opaque collaborators: input
// goes in through a temporary file, the SPIR-V binary comes back
// through another, and a non-zero exit status is fatal. Temporary files
// are removed on every path.
package compiler

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/gogpu/spvpre/script"
)

// Default tool names, resolved through PATH.
const (
	DefaultGlslang  = "glslangValidator"
	DefaultSpirvAs  = "spirv-as"
	DefaultSpirvDis = "spirv-dis"
)

// ErrToolFailed reports an external tool that exited with a non-zero
// status. The tool's own diagnostics go to the parent's standard
// streams, so the error carries only the command identity.
var ErrToolFailed = fmt.Errorf("external tool failed")

// Tool runs the external toolchain. The zero value is not usable; use
// New.
type Tool struct {
	// Glslang is the path of the GLSL-to-SPIR-V compiler.
	Glslang string

	// SpirvAs is the path of the SPIR-V assembler.
	SpirvAs string

	// SpirvDis is the path of the SPIR-V disassembler, used only when
	// Disassemble is set.
	SpirvDis string

	// Disassemble dumps a disassembly of each produced binary to
	// stderr.
	Disassemble bool

	// Log receives one debug event per invocation.
	Log zerolog.Logger
}

// New returns a Tool using the default tool names and no logging.
func New() *Tool {
	return &Tool{
		Glslang:  DefaultGlslang,
		SpirvAs:  DefaultSpirvAs,
		SpirvDis: DefaultSpirvDis,
		Log:      zerolog.Nop(),
	}
}

// CompileGLSL compiles GLSL source for one shader stage into a SPIR-V
// binary targeting the given environment ("vulkan1.0", "vulkan1.2", …).
func (t *Tool) CompileGLSL(stage script.Stage, source []byte, targetEnv string) ([]byte, error) {
	return t.run(source, func(in, out string) *exec.Cmd {
		return exec.Command(t.Glslang,
			"-S", string(stage),
			"-G",
			"-V",
			"--target-env", targetEnv,
			"-o", out,
			in,
		)
	})
}

// Assemble assembles SPIR-V assembly text into a SPIR-V binary
// targeting the given environment.
func (t *Tool) Assemble(source []byte, targetEnv string) ([]byte, error) {
	return t.run(source, func(in, out string) *exec.Cmd {
		return exec.Command(t.SpirvAs,
			"--target-env", targetEnv,
			"-o", out,
			in,
		)
	})
}

// run writes source to a temporary input file, invokes the command
// built by mkcmd on it, and reads back the binary from the temporary
// output file. Both files are removed before run returns, whatever the
// outcome.
func (t *Tool) run(source []byte, mkcmd func(in, out string) *exec.Cmd) ([]byte, error) {
	in, err := os.CreateTemp("", "spvpre-src-")
	if err != nil {
		return nil, fmt.Errorf("creating input file: %w", err)
	}
	defer os.Remove(in.Name())

	_, err = in.Write(source)
	if cerr := in.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("writing input file: %w", err)
	}

	out, err := os.CreateTemp("", "spvpre-bin-")
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	defer os.Remove(out.Name())
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("closing output file: %w", err)
	}

	cmd := mkcmd(in.Name(), out.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Log.Debug().Strs("args", cmd.Args).Msg("running external tool")

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrToolFailed, cmd.Args[0], err)
	}

	data, err := os.ReadFile(out.Name())
	if err != nil {
		return nil, fmt.Errorf("reading compiled binary: %w", err)
	}

	if t.Disassemble {
		t.disassemble(out.Name())
	}

	return data, nil
}

// disassemble dumps the binary at path to stderr with spirv-dis. Best
// effort: a missing or failing disassembler is logged, not fatal.
func (t *Tool) disassemble(path string) {
	cmd := exec.Command(t.SpirvDis, path)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Log.Warn().Err(err).Str("tool", t.SpirvDis).Msg("disassembly failed")
	}
}
