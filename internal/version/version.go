package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var versionFile string

// planFormatVersion is bumped whenever the JSON plan layout changes
const planFormatVersion = "1.0.0"

// App returns the current version of tsschema
func App() string {
	return strings.TrimSpace(versionFile)
}

// PlanFormat returns the version of the JSON plan format
func PlanFormat() string {
	return planFormatVersion
}
