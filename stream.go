package spvpre

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/gogpu/spvpre/script"
)

// Convert reads a script from r line by line and writes the converted
// script to w. Shader-bearing sections are compiled and re-emitted as
// binary sections; everything else is copied through verbatim. The
// script is processed in a single pass and only one section's body is
// held in memory at a time.
func Convert(r io.Reader, w io.Writer, opts Options) error {
	if opts.Compiler == nil {
		opts.Compiler = DefaultOptions().Compiler
	}

	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	var conv *converter
	targetEnv := script.DefaultTargetEnv
	inRequire := false

	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}

		if line != "" {
			if name, ok := script.ParseHeader(line); ok {
				if conv != nil {
					if ferr := conv.finish(bw); ferr != nil {
						return ferr
					}
					conv = nil
				}
				inRequire = false

				switch kind := script.Classify(name); kind {
				case script.Source, script.Assembly:
					stageName := script.StageName(name)
					stage, serr := script.StageForName(stageName)
					if serr != nil {
						return serr
					}
					opts.Log.Debug().
						Str("section", name).
						Str("stage", string(stage)).
						Str("target_env", targetEnv).
						Msg("converting shader section")
					conv = newConverter(kind, stage, targetEnv, &opts)
					fmt.Fprintf(bw, "[%s binary]\n", stageName)
				case script.Require:
					inRequire = true
					bw.WriteString(line)
				default:
					bw.WriteString(line)
				}
			} else if conv != nil {
				conv.addLine(line)
			} else {
				if inRequire {
					if env, ok := script.ParseRequireVersion(line); ok {
						targetEnv = env
					}
				}
				bw.WriteString(line)
			}
		}

		if err == io.EOF {
			break
		}
	}

	if conv != nil {
		if err := conv.finish(bw); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// converter accumulates the body of one shader-bearing section and, on
// finish, compiles it and encodes the binary into the output. A
// converter moves through accumulate, compile and encode exactly once
// and is then discarded.
type converter struct {
	kind      script.Kind // Source or Assembly
	stage     script.Stage
	targetEnv string
	opts      *Options
	buf       bytes.Buffer
}

func newConverter(kind script.Kind, stage script.Stage, targetEnv string, opts *Options) *converter {
	return &converter{
		kind:      kind,
		stage:     stage,
		targetEnv: targetEnv,
		opts:      opts,
	}
}

// addLine appends one body line, original terminator included.
func (c *converter) addLine(line string) {
	c.buf.WriteString(line)
}

// finish compiles the accumulated text and writes the encoded binary
// to w. The matching "[<stage> binary]" header was already emitted when
// the section was opened.
func (c *converter) finish(w io.Writer) error {
	var (
		data []byte
		err  error
	)
	switch c.kind {
	case script.Assembly:
		data, err = c.opts.Compiler.Assemble(c.buf.Bytes(), c.targetEnv)
	default:
		data, err = c.opts.Compiler.CompileGLSL(c.stage, c.buf.Bytes(), c.targetEnv)
	}
	if err != nil {
		return err
	}

	if err := c.opts.Encoding.Encode(w, data); err != nil {
		return fmt.Errorf("encoding %s binary: %w", c.stage, err)
	}
	return nil
}
