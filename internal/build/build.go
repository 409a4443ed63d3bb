// Package build holds build-time information for the rig binary.
package build

// Version and Commit are set with -ldflags "-X go.trai.ch/rig/internal/build.Version=...".
var (
	Version = "dev"
	Commit  = ""
)

// String returns the version, followed by the commit when one was linked in.
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
