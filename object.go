package fluidpath

import (
	"context"
	"fmt"
	"iter"
	"strings"
)

// ObjectPath is a (bucket, key) location in an object store.
//
// Object stores have no directories. An ObjectPath is a file when an object
// with exactly its key exists, and a directory when at least one object key
// starts with key + "/". When both hold, the file wins. Directory status is
// computed from a fresh listing on every call, except for paths yielded by
// ListRecursive, which remember what the listing said.
//
// Keys are normalized except on files yielded by ListRecursive, which keep
// the stored key so that they address the object that was listed.
type ObjectPath struct {
	store  ObjectStore
	bucket string
	key    string
	kind   entryKind
}

// NewObjectPath returns the path of key in bucket. Leading, trailing and
// repeated slashes in key are dropped; an empty key is the bucket root.
func NewObjectPath(store ObjectStore, bucket, key string) ObjectPath {
	return ObjectPath{
		store:  store,
		bucket: bucket,
		key:    strings.Join(splitSegments(key), "/"),
	}
}

// Bucket returns the bucket name.
func (o ObjectPath) Bucket() string { return o.bucket }

// Key returns the object key, empty for the bucket root.
func (o ObjectPath) Key() string { return o.key }

// Store returns the backing store.
func (o ObjectPath) Store() ObjectStore { return o.store }

// String implements Path
func (o ObjectPath) String() string {
	return ObjectURL(o.store.Scheme(), o.bucket, o.key)
}

// Name implements Path
func (o ObjectPath) Name() string {
	if i := strings.LastIndex(o.key, "/"); i >= 0 {
		return o.key[i+1:]
	}
	return o.key
}

// HasExplicitName implements Path
func (o ObjectPath) HasExplicitName() bool {
	return o.key != ""
}

// dirPrefix is the listing prefix of everything below o.
func (o ObjectPath) dirPrefix() string {
	if o.key == "" {
		return ""
	}
	return o.key + "/"
}

func (o ObjectPath) child(rel string, kind entryKind) ObjectPath {
	key := rel
	if o.key != "" {
		key = o.key + "/" + rel
	}
	return ObjectPath{store: o.store, bucket: o.bucket, key: key, kind: kind}
}

func (o ObjectPath) isFile(ctx context.Context) (bool, error) {
	if o.key == "" {
		return false, nil
	}
	_, err := o.store.Stat(ctx, o.bucket, o.key)
	if err != nil {
		if IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// hasChildren reports whether any object, folder markers included, lives
// below o. It stops the listing after the first hit. A missing bucket has
// no children.
func (o ObjectPath) hasChildren(ctx context.Context) (bool, error) {
	for _, err := range o.store.List(ctx, o.bucket, o.dirPrefix()) {
		if err != nil {
			if IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Exists implements Path
func (o ObjectPath) Exists(ctx context.Context) (bool, error) {
	file, err := o.isFile(ctx)
	if err != nil || file {
		return file, err
	}
	return o.hasChildren(ctx)
}

// IsFile implements Path
func (o ObjectPath) IsFile(ctx context.Context) (bool, error) {
	if o.kind != kindUnknown {
		return o.kind == kindFile, nil
	}
	return o.isFile(ctx)
}

// IsDir implements Path
func (o ObjectPath) IsDir(ctx context.Context) (bool, error) {
	if o.kind != kindUnknown {
		return o.kind == kindDir, nil
	}
	file, err := o.isFile(ctx)
	if err != nil || file {
		return false, err
	}
	return o.hasChildren(ctx)
}

// ReadBytes implements Path
func (o ObjectPath) ReadBytes(ctx context.Context) ([]byte, error) {
	if o.key == "" {
		return nil, NewPathError("read", o.String(), ErrIsDir)
	}
	return o.store.Get(ctx, o.bucket, o.key)
}

// WriteBytes implements Path. No directory marker objects are written.
func (o ObjectPath) WriteBytes(ctx context.Context, data []byte) error {
	if o.key == "" {
		return NewPathError("write", o.String(), ErrIsDir)
	}
	return o.store.Put(ctx, o.bucket, o.key, data)
}

// MakeDir implements Path. Nothing is created; the checks mirror what a
// local mkdir would reject.
func (o ObjectPath) MakeDir(ctx context.Context, parents, existOK bool) error {
	if o.key == "" {
		// Bucket roots always exist as far as paths are concerned.
		return nil
	}

	file, err := o.isFile(ctx)
	if err != nil {
		return err
	}
	if file {
		return NewPathError("mkdir", o.String(), ErrExist)
	}

	if !existOK {
		dir, err := o.hasChildren(ctx)
		if err != nil {
			return err
		}
		if dir {
			return NewPathError("mkdir", o.String(), ErrExist)
		}
	}

	if !parents {
		parent := o.Parent().(ObjectPath)
		if parent.key != "" {
			dir, err := parent.IsDir(ctx)
			if err != nil {
				return err
			}
			if !dir {
				return NewPathError("mkdir", o.String(), ErrNotExist)
			}
		}
	}

	return nil
}

// ListRecursive implements Path. Directories are inferred from object keys
// and yielded the first time a key below them is seen; folder markers
// (keys ending in "/") only contribute directories. Listing a missing
// bucket yields nothing.
func (o ObjectPath) ListRecursive(ctx context.Context, pattern string) iter.Seq2[Path, error] {
	return func(yield func(Path, error) bool) {
		m, err := compilePattern(pattern)
		if err != nil {
			yield(nil, NewPathError("list", o.String(), err))
			return
		}

		prefix := o.dirPrefix()
		dirs := make(map[string]bool)
		files := make(map[string]bool)

		for info, err := range o.store.List(ctx, o.bucket, prefix) {
			if err != nil {
				if !IsNotExist(err) {
					yield(nil, err)
				}
				return
			}

			rel := strings.TrimPrefix(info.Key, prefix)
			marker := strings.HasSuffix(rel, "/")
			segs := splitSegments(rel)
			if len(segs) == 0 {
				continue
			}

			depth := len(segs) - 1
			if marker {
				depth = len(segs)
			}
			if shadowed(files, segs, depth) {
				continue
			}
			for i := 1; i <= depth; i++ {
				d := strings.Join(segs[:i], "/")
				if dirs[d] || files[d] {
					continue
				}
				dirs[d] = true
				if m.match(segs[i-1], d) {
					if !yield(o.child(d, kindDir), nil) {
						return
					}
				}
			}
			if marker {
				continue
			}

			relKey := strings.Join(segs, "/")
			files[relKey] = true
			if m.match(segs[len(segs)-1], relKey) {
				// Stored keys such as "a//b" or "./c" are kept as is.
				file := ObjectPath{store: o.store, bucket: o.bucket, key: info.Key, kind: kindFile}
				if !yield(file, nil) {
					return
				}
			}
		}
	}
}

// shadowed reports whether one of the first depth segments names a file.
// A file wins over a directory of the same name, so nothing below it is
// listed.
func shadowed(files map[string]bool, segs []string, depth int) bool {
	for i := 1; i <= depth; i++ {
		if files[strings.Join(segs[:i], "/")] {
			return true
		}
	}
	return false
}

// RelativeTo implements Path
func (o ObjectPath) RelativeTo(ancestor Path) (string, error) {
	a, ok := ancestor.(ObjectPath)
	if !ok || a.store.Scheme() != o.store.Scheme() || a.bucket != o.bucket {
		return "", NewPathError("relative", o.String(),
			fmt.Errorf("%w: %s is not an ancestor", ErrInvalidArgument, ancestor))
	}

	rel, ok := relativeSegments(splitSegments(o.key), splitSegments(a.key))
	if !ok {
		return "", NewPathError("relative", o.String(),
			fmt.Errorf("%w: %s is not an ancestor", ErrInvalidArgument, ancestor))
	}
	return strings.Join(rel, "/"), nil
}

// Join implements Path
func (o ObjectPath) Join(elem ...string) Path {
	segs := splitSegments(o.key)
	for _, e := range elem {
		segs = append(segs, splitSegments(e)...)
	}
	return ObjectPath{store: o.store, bucket: o.bucket, key: strings.Join(segs, "/")}
}

// Parent implements Path. The parent of the bucket root is the root.
func (o ObjectPath) Parent() Path {
	segs := splitSegments(o.key)
	if len(segs) > 0 {
		segs = segs[:len(segs)-1]
	}
	return ObjectPath{store: o.store, bucket: o.bucket, key: strings.Join(segs, "/")}
}

// Unlink implements Path
func (o ObjectPath) Unlink(ctx context.Context) error {
	if o.key == "" {
		return NewPathError("unlink", o.String(), ErrIsDir)
	}
	// Some stores delete absent keys without complaint.
	if _, err := o.store.Stat(ctx, o.bucket, o.key); err != nil {
		return err
	}
	return o.store.Delete(ctx, o.bucket, o.key)
}

// Rmdir implements Path. There is no directory to delete, so this only
// verifies that no files remain and removes leftover folder markers.
func (o ObjectPath) Rmdir(ctx context.Context) error {
	file, err := o.isFile(ctx)
	if err != nil {
		return err
	}
	if file {
		return NewPathError("rmdir", o.String(), ErrNotDir)
	}

	var markers []string
	for info, err := range o.store.List(ctx, o.bucket, o.dirPrefix()) {
		if err != nil {
			if IsNotExist(err) {
				return nil
			}
			return err
		}
		if !strings.HasSuffix(info.Key, "/") {
			return NewPathError("rmdir", o.String(), ErrNotEmpty)
		}
		markers = append(markers, info.Key)
	}

	// Deepest markers first.
	for i := len(markers) - 1; i >= 0; i-- {
		if err := o.store.Delete(ctx, o.bucket, markers[i]); err != nil && !IsNotExist(err) {
			return err
		}
	}
	return nil
}

// ObjectURL formats an object location as scheme://bucket/key.
func ObjectURL(scheme, bucket, key string) string {
	return scheme + "://" + bucket + "/" + key
}

var _ Path = ObjectPath{}
