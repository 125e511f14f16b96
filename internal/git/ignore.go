// Package git queries a git work tree through the git command line.
package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"path"
	"sort"
	"strings"
)

// IsWorkTree reports whether dir is inside a git work tree.
func IsWorkTree(dir string) bool {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--is-inside-work-tree")
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(output)) == "true"
}

// IgnoredPaths lists the untracked paths under dir that git's ignore rules
// exclude. Paths are relative to dir and use forward slashes. An ignored
// directory is reported once without its contents.
func IgnoredPaths(dir string) ([]string, error) {
	cmd := exec.Command("git", "-C", dir, "ls-files", "--others", "--ignored", "--exclude-standard", "--directory", "-z")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w\n%s", err, stderr.String())
	}

	var paths []string
	for _, entry := range strings.Split(string(output), "\x00") {
		if entry == "" {
			continue
		}
		paths = append(paths, path.Clean(strings.TrimSuffix(entry, "/")))
	}
	sort.Strings(paths)
	return paths, nil
}
