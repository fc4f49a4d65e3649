package script

import "regexp"

// DefaultTargetEnv is the target environment used when a script has no
// [require] section declaring a Vulkan version.
const DefaultTargetEnv = "vulkan1.0"

// requireVersionRE matches a Vulkan version declaration inside a
// [require] section. Group 1 captures major and minor with any interior
// whitespace; an optional patch component is matched and discarded.
var requireVersionRE = regexp.MustCompile(`^\s*vulkan\s+(\d+\s*\.\s*\d+)\s*(\.\s*\d+\s*)?$`)

var whitespaceRE = regexp.MustCompile(`\s+`)

// ParseRequireVersion scans one [require] body line for a Vulkan
// version declaration. On a match it returns the target environment
// string for that version ("vulkan<major>.<minor>", all whitespace
// squeezed out, patch level dropped) and true; otherwise "" and false.
func ParseRequireVersion(line string) (env string, ok bool) {
	m := requireVersionRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return "vulkan" + whitespaceRE.ReplaceAllString(m[1], ""), true
}
