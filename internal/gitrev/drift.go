// SPDX-License-Identifier: MPL-2.0

package gitrev

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// FileDrift summarizes uncommitted changes to one file.
type FileDrift struct {
	Path    string
	Added   int
	Deleted int
}

func (d FileDrift) String() string {
	return fmt.Sprintf("%s (+%d -%d)", d.Path, d.Added, d.Deleted)
}

// ParseDrift turns a unified diff into per-file line-change summaries.
func ParseDrift(unified string) ([]FileDrift, error) {
	if strings.TrimSpace(unified) == "" {
		return nil, nil
	}
	fileDiffs, err := diff.ParseMultiFileDiff([]byte(unified))
	if err != nil {
		return nil, fmt.Errorf("parsing diff output: %w", err)
	}

	drifts := make([]FileDrift, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		name := fd.NewName
		if name == "/dev/null" {
			name = fd.OrigName
		}
		name = strings.TrimPrefix(name, "b/")
		name = strings.TrimPrefix(name, "a/")
		stat := fd.Stat()
		drifts = append(drifts, FileDrift{
			Path:    name,
			Added:   int(stat.Added + stat.Changed),
			Deleted: int(stat.Deleted + stat.Changed),
		})
	}
	return drifts, nil
}
