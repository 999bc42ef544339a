// Package resolver decides whether a name typed into the rename dialog is a
// rename in place or a move, and builds the from/to pairs sent to the server.
package resolver

import (
	"path"
	"strings"
)

// DefaultRootLabel is the container path shown in front of display paths.
const DefaultRootLabel = "/home/container"

type Kind int

const (
	RenameInPlace Kind = iota
	Move
	MoveBatch
	RenameBatchFlat
)

func (k Kind) String() string {
	switch k {
	case RenameInPlace:
		return "rename"
	case Move:
		return "move"
	case MoveBatch:
		return "move_batch"
	case RenameBatchFlat:
		return "rename_batch_flat"
	default:
		return "unknown"
	}
}

// Pair is one rename request, both sides relative to the current directory.
type Pair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Plan struct {
	Kind  Kind
	Pairs []Pair
}

// Classify turns the target typed by the user into a plan for the selected
// names. target must be non-empty and selected must hold at least one name;
// nothing here checks either.
//
// With several names and no move mode every pair points at the same target.
// The server decides what happens on the resulting collisions.
func Classify(target string, selected []string, moveMode bool) Plan {
	if len(selected) == 1 {
		kind := Move
		if !moveMode && !strings.Contains(target, "/") {
			kind = RenameInPlace
		}
		return Plan{Kind: kind, Pairs: []Pair{{From: selected[0], To: target}}}
	}

	plan := Plan{Kind: RenameBatchFlat, Pairs: make([]Pair, 0, len(selected))}
	if moveMode {
		plan.Kind = MoveBatch
	}
	for _, name := range selected {
		to := target
		if moveMode {
			to = Join(target, name)
		}
		plan.Pairs = append(plan.Pairs, Pair{From: name, To: to})
	}
	return plan
}

// Join concatenates path segments with a single separator and cleans the
// result: "." and ".." segments are resolved lexically and a trailing slash is
// dropped. A ".." above a relative start is kept as a leading "../".
func Join(dir, name string) string {
	return path.Join(dir, name)
}

// DisplayPath is the absolute location shown to the user for target typed in
// directory. Leading traversal and separators are dropped so the result always
// reads as a path under root. It is not a security check.
func DisplayPath(root, directory, target string) string {
	rel := path.Join(directory, target)
	for {
		switch {
		case strings.HasPrefix(rel, "../"):
			rel = rel[3:]
		case strings.HasPrefix(rel, "./"):
			rel = rel[2:]
		case strings.HasPrefix(rel, "/"):
			rel = rel[1:]
		default:
			if rel == "." || rel == ".." {
				rel = ""
			}
			return strings.TrimRight(root, "/") + "/" + rel
		}
	}
}

// CleanDirectory collapses runs of slashes and maps the empty path to "/".
func CleanDirectory(p string) string {
	if p == "" {
		return "/"
	}
	var b strings.Builder
	b.Grow(len(p))
	for i := 0; i < len(p); i++ {
		if p[i] == '/' && i > 0 && p[i-1] == '/' {
			continue
		}
		b.WriteByte(p[i])
	}
	return b.String()
}

// Child is the directory entered when navigating into name from dir.
func Child(dir, name string) string {
	return CleanDirectory(dir + "/" + name)
}
