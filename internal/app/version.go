package app

import "fmt"

// Version and Commit can be overridden at build time:
// go build -ldflags "-X repolearn/internal/app.Version=v0.3.0 -X repolearn/internal/app.Commit=abcdef0" ./cmd/repolearn
var (
	Version = "v0.2.0"
	Commit  = "dev"
)

func VersionString() string {
	return fmt.Sprintf("repolearn %s (%s)", Version, Commit)
}
