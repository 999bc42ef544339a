package protocols

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"panelfiles/resolver"
)

var ErrNotFound = errors.New("file not found")

type FileEntry struct {
	Name      string
	Size      int64
	ModTime   time.Time
	IsDir     bool
	IsSymlink bool
	Mode      string
	Mimetype  string
	Path      string // 相对路径
}

func (e FileEntry) IsFile() bool {
	return !e.IsDir
}

type FileSystem interface {
	Init() error
	Close() error
	// List returns the entries of dir (non-recursive).
	List(ctx context.Context, dir string) ([]FileEntry, error)
	// Rename applies each pair relative to dir, in order.
	Rename(ctx context.Context, dir string, pairs []resolver.Pair) error
}

// PairError reports a single failed pair of a rename batch.
type PairError struct {
	From string
	To   string
	Err  error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("rename %s -> %s: %v", e.From, e.To, e.Err)
}

func (e *PairError) Unwrap() error {
	return e.Err
}

// renameEach runs fn for every pair and collects the failures. A failed pair
// does not stop the ones after it.
func renameEach(ctx context.Context, pairs []resolver.Pair, fn func(from, to string) error) error {
	var result *multierror.Error
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return multierror.Append(result, err).ErrorOrNil()
		}
		if err := fn(p.From, p.To); err != nil {
			result = multierror.Append(result, &PairError{From: p.From, To: p.To, Err: err})
		}
	}
	return result.ErrorOrNil()
}

// FailedPairs lists the pairs named in err, in the order they failed.
func FailedPairs(err error) []resolver.Pair {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		var perr *PairError
		if errors.As(err, &perr) {
			return []resolver.Pair{{From: perr.From, To: perr.To}}
		}
		return nil
	}
	var out []resolver.Pair
	for _, e := range merr.Errors {
		var perr *PairError
		if errors.As(e, &perr) {
			out = append(out, resolver.Pair{From: perr.From, To: perr.To})
		}
	}
	return out
}

// cleanRel joins elems into a slash path relative to a backend root and
// refuses results that climb above it.
func cleanRel(elems ...string) (string, error) {
	parts := append([]string(nil), elems...)
	if len(parts) > 0 {
		parts[0] = strings.TrimLeft(parts[0], "/")
	}
	rel := path.Join(parts...)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %q escapes root", path.Join(elems...))
	}
	if rel == "." {
		rel = ""
	}
	return rel, nil
}
