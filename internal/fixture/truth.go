package fixture

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bgrewell/opera-kit/pkg/directory"
)

// TruthEntry is what a walk of a built tree is expected to report for one node.
type TruthEntry struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	IsDirectory bool   `json:"is_directory"`
}

// Truth flattens root into the entries a pre-order walk reports.
func Truth(root []*Node) []TruthEntry {
	var out []TruthEntry
	var walk func(parent string, nodes []*Node)
	walk = func(parent string, nodes []*Node) {
		for _, n := range nodes {
			p := n.Name
			if parent != "" {
				p = parent + "/" + n.Name
			}
			size := int64(len(n.Data))
			if n.Dir {
				size = BlockSize
			}
			out = append(out, TruthEntry{Path: p, Size: size, IsDirectory: n.Dir})
			if n.Dir {
				walk(p, n.Children)
			}
		}
	}
	walk("", root)
	return out
}

// Count returns the number of directories and files below root.
func Count(root []*Node) (dirs int, files int) {
	for _, e := range Truth(root) {
		if e.IsDirectory {
			dirs++
		} else {
			files++
		}
	}
	return dirs, files
}

// Compare checks entries against truth and describes every missing, extra or mismatched entry.
func Compare(entries []directory.Entry, truth []TruthEntry) error {
	got := make(map[string]directory.Entry, len(entries))
	for _, e := range entries {
		got[e.Path] = e
	}
	want := make(map[string]TruthEntry, len(truth))
	for _, t := range truth {
		want[t.Path] = t
	}

	var problems []string
	for p, t := range want {
		e, found := got[p]
		switch {
		case !found:
			problems = append(problems, fmt.Sprintf("missing %s", p))
		case e.IsDir() != t.IsDirectory:
			problems = append(problems, fmt.Sprintf("%s: is_directory %v, want %v", p, e.IsDir(), t.IsDirectory))
		case e.Size() != t.Size:
			problems = append(problems, fmt.Sprintf("%s: size %d, want %d", p, e.Size(), t.Size))
		}
	}
	for p := range got {
		if _, found := want[p]; !found {
			problems = append(problems, fmt.Sprintf("extra %s", p))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("walk does not match the built tree:\n  %s", strings.Join(problems, "\n  "))
}
