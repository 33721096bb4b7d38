// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
)

type (
	// Resolver classifies input paths into a Set.
	Resolver struct {
		dereference bool
		set         *Set
		logger      *log.Logger
	}

	// walkItem is a pending path together with the real locations of the
	// directories above it. A dereferenced directory is skipped only when
	// its real location is one of its own ancestors, so a second name for
	// an already walked directory is still copied in full.
	walkItem struct {
		path      string
		ancestors []string
	}
)

// NewResolver returns a resolver that accumulates into set.
func NewResolver(set *Set, dereference bool, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{
		dereference: dereference,
		set:         set,
		logger:      logger,
	}
}

// Resolve classifies every path into a fresh Set.
func Resolve(paths []string, dereference bool, logger *log.Logger) (*Set, error) {
	set := NewSet()
	r := NewResolver(set, dereference, logger)
	for _, p := range paths {
		if err := r.Classify(p); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Classify adds path and everything reachable beneath it to the set.
// Paths already classified are skipped. Directories are walked with an
// explicit stack, children in name order.
func (r *Resolver) Classify(path string) error {
	stack := []walkItem{{path: filepath.Clean(path)}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		p := item.path

		if r.set.Contains(p) {
			continue
		}

		info, err := r.stat(p)
		if err != nil {
			return &InputResolutionError{Path: p, Err: err}
		}

		mode := info.Mode()
		switch {
		case mode&fs.ModeSymlink != 0:
			target, err := os.Readlink(p)
			if err != nil {
				return &InputResolutionError{Path: p, Err: err}
			}
			r.set.addSymlink(p, target)
			r.logger.Debug("classified symlink", "path", p, "target", target)

		case mode.IsRegular():
			r.set.addFile(p)
			r.logger.Debug("classified file", "path", p, "size", info.Size())

		case mode.IsDir():
			children, ancestors, err := r.enterDir(p, item.ancestors)
			if err != nil {
				return err
			}
			// Push in reverse so children pop in name order.
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, walkItem{path: children[i], ancestors: ancestors})
			}

		default:
			return &InputResolutionError{
				Path: p,
				Err:  fmt.Errorf("%w: %s", ErrUnsupportedType, mode.Type()),
			}
		}
	}
	return nil
}

// enterDir marks p traversed and returns its children along with the
// ancestor chain they inherit. When dereferencing, a directory whose real
// location is already on the chain closes a loop and yields no children.
func (r *Resolver) enterDir(p string, ancestors []string) ([]string, []string, error) {
	r.set.markTraversed(p)

	if r.dereference {
		resolved, err := filepath.EvalSymlinks(p)
		if err != nil {
			return nil, nil, &InputResolutionError{Path: p, Err: err}
		}
		if slices.Contains(ancestors, resolved) {
			r.logger.Debug("skipping symlink loop", "path", p, "real", resolved)
			return nil, nil, nil
		}
		// Clip so siblings never share a backing array.
		ancestors = append(slices.Clip(ancestors), resolved)
	}

	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, nil, &InputResolutionError{Path: p, Err: err}
	}

	children := make([]string, 0, len(entries))
	for _, entry := range entries {
		children = append(children, filepath.Join(p, entry.Name()))
	}
	return children, ancestors, nil
}

func (r *Resolver) stat(p string) (fs.FileInfo, error) {
	if r.dereference {
		return os.Stat(p)
	}
	return os.Lstat(p)
}
