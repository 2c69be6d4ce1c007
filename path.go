package fluidpath

import (
	"context"
	"iter"
	"strings"
)

// Path is a location backed either by the local filesystem or by an object
// store. Copy, move and remove are written once against this interface.
//
// Path values are immutable: Join and Parent return new values.
type Path interface {
	// String returns the canonical location, e.g. "gs://bucket/a/b.txt".
	String() string

	// Name returns the final path segment. It is empty for a bucket root.
	Name() string

	// Exists reports whether the path is a file or a directory.
	Exists(ctx context.Context) (bool, error)

	// IsFile reports whether the path is a regular file or object.
	IsFile(ctx context.Context) (bool, error)

	// IsDir reports whether the path is a directory. For object stores the
	// directory is inferred from at least one object under the prefix.
	IsDir(ctx context.Context) (bool, error)

	// ReadBytes returns the file content. Fails with ErrNotExist if the
	// path is not a file.
	ReadBytes(ctx context.Context) ([]byte, error)

	// WriteBytes creates or overwrites the file.
	WriteBytes(ctx context.Context, data []byte) error

	// MakeDir creates the directory. Object stores have no directories so
	// nothing is written there, but arguments are validated the same way.
	MakeDir(ctx context.Context, parents, existOK bool) error

	// ListRecursive yields every descendant whose name matches pattern.
	// Ranging over the sequence again lists again.
	ListRecursive(ctx context.Context, pattern string) iter.Seq2[Path, error]

	// RelativeTo returns the slash-separated path of the receiver relative
	// to ancestor. Fails with ErrInvalidArgument if ancestor is not one.
	RelativeTo(ancestor Path) (string, error)

	// Join appends slash-separated segments.
	Join(elem ...string) Path

	// Parent returns the path with its last segment removed.
	Parent() Path

	// HasExplicitName reports whether the path names something below a
	// container root. Only an object-store bucket root returns false.
	HasExplicitName() bool

	// Unlink removes a file. Fails with ErrNotExist if it is not one.
	Unlink(ctx context.Context) error

	// Rmdir removes an empty directory.
	Rmdir(ctx context.Context) error
}

// entryKind is a file/dir status captured while listing.
type entryKind uint8

const (
	kindUnknown entryKind = iota
	kindFile
	kindDir
)

// splitSegments splits a slash-separated path into its non-empty segments.
func splitSegments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" && s != "." {
			out = append(out, s)
		}
	}
	return out
}

// relativeSegments returns child's segments after ancestor's, or false if
// ancestor is not a segment prefix of child.
func relativeSegments(child, ancestor []string) ([]string, bool) {
	if len(ancestor) > len(child) {
		return nil, false
	}
	for i, s := range ancestor {
		if child[i] != s {
			return nil, false
		}
	}
	return child[len(ancestor):], true
}
