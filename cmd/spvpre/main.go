// Command spvpre precompiles the shader sections of test scripts into
// SPIR-V binary sections.
//
// Usage:
//
//	spvpre -o OUTPUT INPUT...
//
// Examples:
//
//	spvpre -o out.shader_test in.shader_test     # one file
//	spvpre -o outdir/ a.shader_test b.shader_test # fan out into a directory
//	spvpre --hex -o out.shader_test in.shader_test
//	cat in.shader_test | spvpre -o - -           # stdin to stdout
//
// Tool paths may also be set through the environment:
// SPVPRE_GLSLANG, SPVPRE_SPIRV_AS and SPVPRE_SPIRV_DIS.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gogpu/spvpre"
	"github.com/gogpu/spvpre/compiler"
	"github.com/gogpu/spvpre/spirv"
)

const version = "0.1.0"

// pipeName names stdin or stdout on the command line.
const pipeName = "-"

var (
	output      string
	hexOutput   bool
	disassemble bool
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spvpre -o OUTPUT INPUT...",
		Short: "Precompile the shader sections of test scripts to SPIR-V",
		Long: `spvpre rewrites shader test scripts so that every GLSL or SPIR-V
assembly section is replaced by a precompiled [<stage> binary] section.
Shaders are compiled with glslangValidator and spirv-as; the test
runner can then load the scripts without a shader compiler installed.

With a single input, OUTPUT is the output file. With several inputs,
OUTPUT is a directory (created if missing) receiving one output file
per input, named after its input.`,
		Args:          cobra.MinimumNArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory (required)")
	rootCmd.Flags().BoolVar(&hexOutput, "hex", false, "emit hex words instead of base64")
	rootCmd.Flags().String("glslang", compiler.DefaultGlslang, "path of the GLSL compiler")
	rootCmd.Flags().String("spirv-as", compiler.DefaultSpirvAs, "path of the SPIR-V assembler")
	rootCmd.Flags().String("spirv-dis", compiler.DefaultSpirvDis, "path of the SPIR-V disassembler")
	rootCmd.Flags().BoolVar(&disassemble, "disassemble", false, "dump a disassembly of each compiled shader to stderr")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	_ = rootCmd.MarkFlagRequired("output")

	viper.SetEnvPrefix("SPVPRE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"glslang", "spirv-as", "spirv-dis"} {
		_ = viper.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "spvpre: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, inputs []string) error {
	log := newLogger()

	tool := compiler.New()
	tool.Glslang = viper.GetString("glslang")
	tool.SpirvAs = viper.GetString("spirv-as")
	tool.SpirvDis = viper.GetString("spirv-dis")
	tool.Disassemble = disassemble
	tool.Log = log

	opts := spvpre.Options{
		Encoding: spirv.EncodingBase64,
		Compiler: tool,
		Log:      log,
	}
	if hexOutput {
		opts.Encoding = spirv.EncodingHex
	}

	outDir, err := outputDir(inputs)
	if err != nil {
		return err
	}

	for _, input := range inputs {
		dst := output
		if outDir {
			dst = filepath.Join(output, filepath.Base(input))
		}
		log.Debug().Str("input", input).Str("output", dst).Msg("converting script")

		if err := convert(input, dst, opts); err != nil {
			return err
		}
	}
	return nil
}

// outputDir reports whether the output path names a directory, creating
// it when several inputs fan out into it.
func outputDir(inputs []string) (bool, error) {
	if output == pipeName {
		if len(inputs) > 1 {
			return false, fmt.Errorf("cannot write multiple inputs to stdout")
		}
		return false, nil
	}
	if len(inputs) > 1 {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return false, err
		}
		return true, nil
	}
	info, err := os.Stat(output)
	return err == nil && info.IsDir(), nil
}

func convert(input, dst string, opts spvpre.Options) error {
	if input != pipeName && dst != pipeName {
		return spvpre.ConvertFile(input, dst, opts)
	}

	in := os.Stdin
	if input != pipeName {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	out := os.Stdout
	if dst != pipeName {
		f, err := os.Create(dst)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := spvpre.Convert(in, out, opts); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	return nil
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
