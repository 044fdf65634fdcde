package apitap

import "fmt"

// Build details, injected via -ldflags by the release pipeline.
// Builds from source report "dev" with no commit or date.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// Version returns the release version, or "dev" when built from source.
func Version() string {
	return version
}

// BuildDetails returns the version together with the commit hash and
// build date when the binary came from a release pipeline.
func BuildDetails() string {
	details := version
	if commit != "" {
		details += " (" + commit
		if date != "" {
			details += ", built " + date
		}
		details += ")"
	}
	return details
}

// UserAgent returns the User-Agent string to use
func UserAgent() string {
	return fmt.Sprintf("apitap/%s", version)
}
