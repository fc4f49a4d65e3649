// Package spvpre precompiles shader test scripts to SPIR-V.
//
// A test script embeds shader source (GLSL) or SPIR-V assembly inside
// bracketed sections such as "[fragment shader]" or "[vertex shader
// spirv]". Precompiling replaces each of those sections with a
// "[<stage> binary]" section holding the compiled SPIR-V in a textual
// encoding, so the test runner can load shaders without a compiler at
// run time. Everything else in the script passes through untouched.
//
// Shaders are compiled by the external glslangValidator and spirv-as
// tools; package compiler drives them. A [require] section declaring a
// Vulkan version ("vulkan 1.2") selects the target environment for all
// following shader sections.
//
// Example usage:
//
//	in, _ := os.Open("test.vk_shader_test")
//	out, _ := os.Create("test.precompiled")
//	if err := spvpre.Convert(in, out, spvpre.DefaultOptions()); err != nil {
//	    log.Fatal(err)
//	}
package spvpre

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/gogpu/spvpre/compiler"
	"github.com/gogpu/spvpre/script"
	"github.com/gogpu/spvpre/spirv"
)

// Compiler turns shader text into a SPIR-V binary. It is implemented
// by compiler.Tool; tests substitute a fake.
type Compiler interface {
	// CompileGLSL compiles GLSL source for one shader stage.
	CompileGLSL(stage script.Stage, source []byte, targetEnv string) ([]byte, error)

	// Assemble assembles SPIR-V assembly text.
	Assemble(source []byte, targetEnv string) ([]byte, error)
}

// Options configures script conversion.
type Options struct {
	// Encoding is the textual encoding for compiled binaries.
	Encoding spirv.Encoding

	// Compiler compiles shader sections. Nil selects the external
	// toolchain with default tool names.
	Compiler Compiler

	// Log receives one debug event per compiled section.
	Log zerolog.Logger
}

// DefaultOptions returns options using base64 encoding and the external
// toolchain.
func DefaultOptions() Options {
	return Options{
		Encoding: spirv.EncodingBase64,
		Compiler: compiler.New(),
		Log:      zerolog.Nop(),
	}
}

// ConvertFile converts the script at inPath and writes the result to
// outPath.
func ConvertFile(inPath, outPath string, opts Options) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}

	if err := Convert(in, out, opts); err != nil {
		out.Close()
		return fmt.Errorf("%s: %w", inPath, err)
	}
	return out.Close()
}
