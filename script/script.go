// Package script provides line-level parsing for shader test scripts.
//
// A script is a sequence of named sections delimited by bracketed header
// lines of the form "[name]". The package classifies section names into
// the kinds the precompiler cares about (GLSL source, SPIR-V assembly,
// requirements) and resolves human-readable shader stage names to the
// short stage tokens understood by glslangValidator.
package script

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind classifies a section by its name.
type Kind int

const (
	// Passthrough sections are copied to the output unchanged.
	Passthrough Kind = iota

	// Source sections hold GLSL source for one shader stage.
	Source

	// Assembly sections hold SPIR-V assembly for one shader stage.
	Assembly

	// Require sections declare requirements, including the target
	// Vulkan version.
	Require
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Passthrough:
		return "passthrough"
	case Source:
		return "source"
	case Assembly:
		return "assembly"
	case Require:
		return "require"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Stage is the short stage token passed to the external compiler.
type Stage string

// The six shader pipeline stages.
const (
	StageVertex   Stage = "vert"
	StageTessCtrl Stage = "tesc"
	StageTessEval Stage = "tese"
	StageGeometry Stage = "geom"
	StageFragment Stage = "frag"
	StageCompute  Stage = "comp"
)

// stageNames maps the section names used in scripts to stage tokens.
// The mapping is closed: any other name is not a shader stage.
var stageNames = map[string]Stage{
	"vertex shader":                  StageVertex,
	"tessellation control shader":    StageTessCtrl,
	"tessellation evaluation shader": StageTessEval,
	"geometry shader":                StageGeometry,
	"fragment shader":                StageFragment,
	"compute shader":                 StageCompute,
}

// ErrUnknownStage reports a section name that declares SPIR-V assembly
// for a stage that is not one of the six pipeline stages.
var ErrUnknownStage = fmt.Errorf("unknown shader stage")

// spirvSuffix marks a section as holding pre-assembled SPIR-V text.
const spirvSuffix = " spirv"

// headerRE matches a section header line. The match is anchored to the
// whole line so that bracket-like text elsewhere stays ordinary text.
var headerRE = regexp.MustCompile(`^\[([^]]+)\]\s*$`)

// ParseHeader reports whether line is a section header, and if so
// returns the section name.
func ParseHeader(line string) (name string, ok bool) {
	m := headerRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Classify returns the kind of a section with the given name.
//
// A name matching "<stage> spirv" is Assembly even when the stage is
// unknown; the caller surfaces the unknown stage via StageForName so
// that a misspelled stage is a hard error rather than silent
// passthrough of shader text.
func Classify(name string) Kind {
	switch {
	case name == "require":
		return Require
	case strings.HasSuffix(name, spirvSuffix):
		return Assembly
	default:
		if _, ok := stageNames[name]; ok {
			return Source
		}
		return Passthrough
	}
}

// StageName returns the human-readable stage name of a Source or
// Assembly section: the section name with any " spirv" suffix removed.
func StageName(name string) string {
	return strings.TrimSuffix(name, spirvSuffix)
}

// StageForName resolves a human-readable stage name ("fragment shader")
// to its stage token ("frag"). The name must not carry the " spirv"
// suffix; strip it with StageName first.
func StageForName(name string) (Stage, error) {
	stage, ok := stageNames[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}
	return stage, nil
}
