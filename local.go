package fluidpath

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalPath is a location on the local filesystem.
type LocalPath struct {
	path string
	kind entryKind
}

// NewLocalPath returns the cleaned local path p. An empty p is ".".
func NewLocalPath(p string) LocalPath {
	if p == "" {
		p = "."
	}
	return LocalPath{path: filepath.Clean(p)}
}

// String implements Path
func (l LocalPath) String() string { return l.path }

// Name implements Path
func (l LocalPath) Name() string { return filepath.Base(l.path) }

// HasExplicitName implements Path
func (l LocalPath) HasExplicitName() bool { return true }

// Exists implements Path. Broken symlinks do not exist.
func (l LocalPath) Exists(ctx context.Context) (bool, error) {
	_, err := l.stat(ctx, "exists")
	if err != nil {
		if IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsFile implements Path
func (l LocalPath) IsFile(ctx context.Context) (bool, error) {
	if l.kind != kindUnknown {
		return l.kind == kindFile, nil
	}
	info, err := l.stat(ctx, "isfile")
	if err != nil {
		if IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// IsDir implements Path
func (l LocalPath) IsDir(ctx context.Context) (bool, error) {
	if l.kind != kindUnknown {
		return l.kind == kindDir, nil
	}
	info, err := l.stat(ctx, "isdir")
	if err != nil {
		if IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func (l LocalPath) stat(ctx context.Context, op string) (os.FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	info, err := os.Stat(l.path)
	if err != nil {
		return nil, mapOSError(op, l.path, err)
	}
	return info, nil
}

// ReadBytes implements Path
func (l LocalPath) ReadBytes(ctx context.Context) ([]byte, error) {
	info, err := l.stat(ctx, "read")
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, NewPathError("read", l.path, ErrIsDir)
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, mapOSError("read", l.path, err)
	}
	return data, nil
}

// WriteBytes implements Path. The content goes to a temp file in the same
// directory which is then renamed over the target. The parent directory
// must exist.
func (l LocalPath) WriteBytes(ctx context.Context, data []byte) error {
	info, err := l.stat(ctx, "write")
	if err != nil && !IsNotExist(err) {
		return err
	}
	if err == nil && info.IsDir() {
		return NewPathError("write", l.path, ErrIsDir)
	}

	dir, name := filepath.Split(l.path)
	tmp := filepath.Join(dir, "."+name+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return mapOSError("write", l.path, err)
	}

	_, werr := f.Write(data)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(tmp) //nolint:errcheck
		return mapOSError("write", l.path, werr)
	}

	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return mapOSError("write", l.path, err)
	}
	return nil
}

// MakeDir implements Path
func (l LocalPath) MakeDir(ctx context.Context, parents, existOK bool) error {
	info, err := l.stat(ctx, "mkdir")
	switch {
	case err == nil:
		if !info.IsDir() || !existOK {
			return NewPathError("mkdir", l.path, ErrExist)
		}
		return nil
	case !IsNotExist(err):
		return err
	}

	if parents {
		err = os.MkdirAll(l.path, 0o755)
	} else {
		err = os.Mkdir(l.path, 0o755)
	}
	if err != nil {
		if errors.Is(err, fs.ErrExist) && existOK {
			return nil
		}
		return mapOSError("mkdir", l.path, err)
	}
	return nil
}

// ListRecursive implements Path. Entries come in lexical walk order.
func (l LocalPath) ListRecursive(ctx context.Context, pattern string) iter.Seq2[Path, error] {
	return func(yield func(Path, error) bool) {
		m, err := compilePattern(pattern)
		if err != nil {
			yield(nil, NewPathError("list", l.path, err))
			return
		}

		stopped := false
		err = filepath.WalkDir(l.path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if p == l.path {
				return nil
			}

			rel, err := filepath.Rel(l.path, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if !m.match(d.Name(), rel) {
				return nil
			}

			kind := kindUnknown
			switch {
			case d.IsDir():
				kind = kindDir
			case d.Type().IsRegular():
				kind = kindFile
			}

			if !yield(LocalPath{path: p, kind: kind}, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield(nil, mapOSError("list", l.path, err))
		}
	}
}

// RelativeTo implements Path. The comparison is lexical.
func (l LocalPath) RelativeTo(ancestor Path) (string, error) {
	a, ok := ancestor.(LocalPath)
	if !ok || filepath.IsAbs(a.path) != filepath.IsAbs(l.path) ||
		filepath.VolumeName(a.path) != filepath.VolumeName(l.path) {
		return "", NewPathError("relative", l.path,
			fmt.Errorf("%w: %s is not an ancestor", ErrInvalidArgument, ancestor))
	}

	rel, ok := relativeSegments(localSegments(l.path), localSegments(a.path))
	if !ok {
		return "", NewPathError("relative", l.path,
			fmt.Errorf("%w: %s is not an ancestor", ErrInvalidArgument, ancestor))
	}
	return strings.Join(rel, "/"), nil
}

func localSegments(p string) []string {
	p = strings.TrimPrefix(p, filepath.VolumeName(p))
	return splitSegments(filepath.ToSlash(p))
}

// Join implements Path. Elements are slash-separated.
func (l LocalPath) Join(elem ...string) Path {
	parts := make([]string, 0, len(elem)+1)
	parts = append(parts, l.path)
	for _, e := range elem {
		parts = append(parts, filepath.FromSlash(e))
	}
	return LocalPath{path: filepath.Join(parts...)}
}

// Parent implements Path
func (l LocalPath) Parent() Path {
	return LocalPath{path: filepath.Dir(l.path)}
}

// Unlink implements Path
func (l LocalPath) Unlink(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Lstat(l.path)
	if err != nil {
		return mapOSError("unlink", l.path, err)
	}
	if info.IsDir() {
		return NewPathError("unlink", l.path, ErrIsDir)
	}

	if err := os.Remove(l.path); err != nil {
		return mapOSError("unlink", l.path, err)
	}
	return nil
}

// Rmdir implements Path
func (l LocalPath) Rmdir(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Lstat(l.path)
	if err != nil {
		return mapOSError("rmdir", l.path, err)
	}
	if !info.IsDir() {
		return NewPathError("rmdir", l.path, ErrNotDir)
	}

	entries, err := os.ReadDir(l.path)
	if err != nil {
		return mapOSError("rmdir", l.path, err)
	}
	if len(entries) > 0 {
		return NewPathError("rmdir", l.path, ErrNotEmpty)
	}

	if err := os.Remove(l.path); err != nil {
		return mapOSError("rmdir", l.path, err)
	}
	return nil
}

// mapOSError maps os errors to fluidpath errors
func mapOSError(op, path string, err error) error {
	var pe *PathError
	if errors.As(err, &pe) {
		return err
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &PathError{Op: op, Path: path, Err: ErrNotExist}
	case errors.Is(err, fs.ErrExist):
		return &PathError{Op: op, Path: path, Err: ErrExist}
	default:
		return &PathError{Op: op, Path: path, Err: err}
	}
}

var _ Path = LocalPath{}
