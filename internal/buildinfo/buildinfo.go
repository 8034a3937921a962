// Package buildinfo holds version values set at link time, for example:
//
//	go build -ldflags "-X github.com/aidanlsb/noted/internal/buildinfo.Version=v0.3.0"
package buildinfo

// Empty for local builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
