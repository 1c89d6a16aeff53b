package version

import "fmt"

// Set at build time, e.g.
// go build -ldflags "-X github.com/alexiusacademia/rcbeam/internal/version.Version=0.4.0"
var (
	Version   = "0.3.0"
	BuildTime = "unknown"
	GitCommit = "unknown"

	Author = "Alexius Academia"
	Year   = "2025"
)

// Code is the design code implemented.
const Code = "IS 456:2000"

// String returns the version with its build metadata.
func String() string {
	return fmt.Sprintf("v%s (%s, built %s)", Version, GitCommit, BuildTime)
}
