package fluidpath

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Transfer runs copy, move and remove over any mix of path kinds.
//
// Nothing is rolled back: a failed copy or move leaves whatever was already
// written (and, for moves, already deleted) in place.
type Transfer struct {
	opts Options
}

// NewTransfer creates a Transfer with the given options
func NewTransfer(options ...Option) *Transfer {
	opts := defaultOptions()
	for _, option := range options {
		option(&opts)
	}
	return &Transfer{opts: opts}
}

// Copy copies a file or a directory tree from one path to another.
//
// When from is a file and to is a bucket root, the file keeps its name:
// copying ./file.txt to gs://bucket/ writes gs://bucket/file.txt.
func (t *Transfer) Copy(ctx context.Context, from, to Path) error {
	return t.transfer(ctx, "cp", from, to, false)
}

// Move is Copy followed by deletion of each source file once its copy
// succeeded, then removal of the emptied source directories.
func (t *Transfer) Move(ctx context.Context, from, to Path) error {
	return t.transfer(ctx, "mv", from, to, true)
}

// Remove deletes a file or a directory tree. A missing path is an error only
// when strict is set.
func (t *Transfer) Remove(ctx context.Context, p Path, strict bool) error {
	log := t.opts.Logger

	exists, err := p.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		if strict {
			return missingSource("rm", p)
		}
		log.Debug().Str("path", p.String()).Msg("nothing to remove")
		return nil
	}

	isDir, err := p.IsDir(ctx)
	if err != nil {
		return err
	}
	if isDir {
		files, dirs, err := collect(ctx, p)
		if err != nil {
			return err
		}
		err = t.each(ctx, files, func(ctx context.Context, f Path) error {
			if err := f.Unlink(ctx); err != nil {
				return err
			}
			log.Debug().Str("path", f.String()).Msg("removed")
			return nil
		})
		if err != nil {
			return err
		}
		if err := pruneDirs(ctx, p, dirs); err != nil {
			return err
		}
		log.Info().Str("path", p.String()).Int("files", len(files)).Msg("removed directory")
		return nil
	}

	isFile, err := p.IsFile(ctx)
	if err != nil {
		return err
	}
	if !isFile {
		return NewPathError("rm", p.String(), fmt.Errorf("%w: neither a file nor a directory", ErrNotExist))
	}
	if err := p.Unlink(ctx); err != nil {
		return err
	}
	log.Info().Str("path", p.String()).Msg("removed file")
	return nil
}

func (t *Transfer) transfer(ctx context.Context, op string, from, to Path, move bool) error {
	exists, err := from.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return missingSource(op, from)
	}

	isDir, err := from.IsDir(ctx)
	if err != nil {
		return err
	}
	if isDir {
		return t.transferDir(ctx, op, from, to, move)
	}

	isFile, err := from.IsFile(ctx)
	if err != nil {
		return err
	}
	if !isFile {
		// The source vanished or is something we cannot read, e.g. a
		// broken symlink.
		return NewPathError(op, from.String(), fmt.Errorf("%w: neither a file nor a directory", ErrNotExist))
	}
	return t.transferFile(ctx, op, from, to, move)
}

func (t *Transfer) transferFile(ctx context.Context, op string, from, to Path, move bool) error {
	if !to.HasExplicitName() {
		to = to.Join(from.Name())
	}
	if within(to, from) {
		return NewPathError(op, from.String(),
			fmt.Errorf("%w: source and destination are the same file", ErrInvalidArgument))
	}

	if err := to.Parent().MakeDir(ctx, true, true); err != nil {
		return err
	}
	if err := t.copyFile(ctx, from, to); err != nil {
		return err
	}
	if move {
		if err := from.Unlink(ctx); err != nil {
			return err
		}
	}

	t.opts.Logger.Info().Str("op", op).Str("from", from.String()).Str("to", to.String()).Msg("transferred file")
	return nil
}

func (t *Transfer) transferDir(ctx context.Context, op string, from, to Path, move bool) error {
	log := t.opts.Logger

	if within(to, from) {
		return NewPathError(op, from.String(),
			fmt.Errorf("%w: destination %s is inside the source", ErrInvalidArgument, to))
	}

	if err := to.MakeDir(ctx, true, true); err != nil {
		return err
	}

	// The tree is listed once up front so writes into (or deletes from)
	// the trees do not disturb the listing.
	files, dirs, err := collect(ctx, from)
	if err != nil {
		return err
	}

	deleteEach := move && !t.opts.TwoPhaseMove
	err = t.each(ctx, files, func(ctx context.Context, src Path) error {
		rel, err := src.RelativeTo(from)
		if err != nil {
			return err
		}
		dst := to.Join(rel)

		if err := dst.Parent().MakeDir(ctx, true, true); err != nil {
			return err
		}
		if err := t.copyFile(ctx, src, dst); err != nil {
			return err
		}
		log.Debug().Str("from", src.String()).Str("to", dst.String()).Msg("copied")

		if deleteEach {
			if err := src.Unlink(ctx); err != nil {
				return err
			}
			log.Debug().Str("path", src.String()).Msg("removed source")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if move {
		if t.opts.TwoPhaseMove {
			err := t.each(ctx, files, func(ctx context.Context, src Path) error {
				return src.Unlink(ctx)
			})
			if err != nil {
				return err
			}
		}
		if err := pruneDirs(ctx, from, dirs); err != nil {
			return err
		}
	}

	log.Info().Str("op", op).Str("from", from.String()).Str("to", to.String()).
		Int("files", len(files)).Msg("transferred directory")
	return nil
}

// within reports whether p is root or lies below it. Object paths must
// share a store.
func within(p, root Path) bool {
	if po, ok := p.(ObjectPath); ok {
		if ro, ok := root.(ObjectPath); !ok || po.store != ro.store {
			return false
		}
	}
	_, err := p.RelativeTo(root)
	return err == nil
}

// copyFile copies the bytes of src to dst and optionally verifies them.
func (t *Transfer) copyFile(ctx context.Context, src, dst Path) error {
	data, err := src.ReadBytes(ctx)
	if err != nil {
		return err
	}
	if err := dst.WriteBytes(ctx, data); err != nil {
		return err
	}

	if !t.opts.Verify {
		return nil
	}

	expected, err := CalculateChecksum(bytes.NewReader(data), t.opts.VerifyAlgorithm)
	if err != nil {
		return NewPathError("verify", dst.String(), err)
	}
	ok, err := VerifyChecksum(ctx, dst, expected, t.opts.VerifyAlgorithm)
	if err != nil {
		return err
	}
	if !ok {
		return NewPathError("verify", dst.String(), ErrChecksumMismatch)
	}
	return nil
}

// each runs fn for every path. Sequentially it stops at the first error;
// with Concurrency > 1 every path is attempted and all failures are joined.
func (t *Transfer) each(ctx context.Context, paths []Path, fn func(context.Context, Path) error) error {
	if t.opts.Concurrency <= 1 {
		for _, p := range paths {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, p); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(t.opts.Concurrency)

	for _, p := range paths {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = fn(ctx, p)
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// collect lists every file and directory below root, in listing order.
func collect(ctx context.Context, root Path) (files, dirs []Path, err error) {
	for p, err := range root.ListRecursive(ctx, "*") {
		if err != nil {
			return nil, nil, err
		}

		isFile, err := p.IsFile(ctx)
		if err != nil {
			return nil, nil, err
		}
		if isFile {
			files = append(files, p)
			continue
		}

		isDir, err := p.IsDir(ctx)
		if err != nil {
			return nil, nil, err
		}
		if isDir {
			dirs = append(dirs, p)
		}
	}
	return files, dirs, nil
}

// pruneDirs removes the directories left behind once their files are gone,
// children before parents, then root. Object-store directories usually
// vanish with their last object and are skipped.
func pruneDirs(ctx context.Context, root Path, dirs []Path) error {
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := rmdirIfExists(ctx, dirs[i]); err != nil {
			return err
		}
	}
	return rmdirIfExists(ctx, root)
}

func rmdirIfExists(ctx context.Context, dir Path) error {
	exists, err := dir.Exists(ctx)
	if err != nil || !exists {
		return err
	}
	return dir.Rmdir(ctx)
}

func missingSource(op string, p Path) error {
	return NewPathError(op, p.String(),
		fmt.Errorf("%w: not an existing path: %w", ErrInvalidArgument, ErrNotExist))
}

// Copy copies from to to with a Transfer built from options
func Copy(ctx context.Context, from, to Path, options ...Option) error {
	return NewTransfer(options...).Copy(ctx, from, to)
}

// Move moves from to to with a Transfer built from options
func Move(ctx context.Context, from, to Path, options ...Option) error {
	return NewTransfer(options...).Move(ctx, from, to)
}

// Remove removes p with a Transfer built from options
func Remove(ctx context.Context, p Path, strict bool, options ...Option) error {
	return NewTransfer(options...).Remove(ctx, p, strict)
}
