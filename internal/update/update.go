// Package update checks GitHub for a newer release.
package update

import (
	"errors"
	"fmt"
	"io"

	"github.com/tcnksm/go-latest"
)

// ErrNotConfigured is returned when no repository is configured.
var ErrNotConfigured = errors.New("update check not configured")

// Source returns the release source for owner/repo.
func Source(owner, repo string) (latest.Source, error) {
	if owner == "" || repo == "" {
		return nil, ErrNotConfigured
	}
	return &latest.GithubTag{Owner: owner, Repository: repo}, nil
}

// Check compares current against the latest release of src and prints the
// outcome to w. Network failures are silent; announceCurrent also reports
// when current is up to date.
func Check(w io.Writer, src latest.Source, owner, repo, current string, announceCurrent bool) {
	res, err := latest.Check(src, current)
	if err != nil {
		return // Silently fail
	}
	if res.Outdated {
		fmt.Fprintf(w, "\n✨ A new version is available: %s (you have %s)\n", res.Current, current)
		fmt.Fprintf(w, "👉 Download it from https://github.com/%s/%s/releases\n", owner, repo)
	} else if announceCurrent {
		fmt.Fprintf(w, "✅ You are using the latest version: %s\n", current)
	}
}
