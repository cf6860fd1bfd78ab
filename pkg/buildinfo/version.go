// Package buildinfo exposes version metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/gdm/pkg/buildinfo.Version=v0.5.0 \
//	    -X github.com/matzehuels/gdm/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/gdm/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, Commit, Date)
}
