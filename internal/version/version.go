package version

import "fmt"

// Build-time variables (set via ldflags)
var (
	Version = "dev"
	Commit  = ""
)

// GetVersion returns the version, suffixed with the commit when known
func GetVersion() string {
	if Commit == "" {
		return Version
	}

	return fmt.Sprintf("%s (%s)", Version, Commit)
}
