package simfs

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/keks/simfs/blkfile"
	"github.com/keks/simfs/meta"
	"github.com/pkg/errors"
)

// FS runs operations against one image.
type FS struct {
	opt  *Options
	open Opener
}

// New returns an FS that opens its image through open.
func New(open Opener, opt *Options) (*FS, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := opt.validate(); err != nil {
		return nil, err
	}
	return &FS{opt: opt, open: open}, nil
}

// Open returns an FS for the image at path.
func Open(path string, opt *Options) (*FS, error) {
	return New(FileOpener(path), opt)
}

// Geometry returns the geometry the FS was configured with.
func (fs *FS) Geometry() meta.Geometry {
	return fs.opt.Geometry
}

// session is the state of one operation between open and close.
type session struct {
	table  *meta.Table
	blocks *blkfile.Blocks
}

// run opens the image, loads the metadata and calls fn. If save is set and
// fn succeeds the metadata is written back before the image is closed.
func (fs *FS) run(op string, save bool, fn func(s *session) error) (err error) {
	g := fs.opt.Geometry

	st, err := fs.open(false, g.ImageSize())
	if err != nil {
		return errors.Wrapf(err, "%s: open image", op)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "%s: close image", op)
		}
	}()

	t, err := meta.Load(st, g)
	if err != nil {
		return errors.WithMessage(err, op)
	}

	s := &session{
		table:  t,
		blocks: blkfile.New(st, g.BlockSize, g.MaxBlocks),
	}
	if err := fn(s); err != nil {
		fs.debug(op+" failed", slog.String("err", err.Error()))
		return errors.WithMessage(err, op)
	}

	if save {
		if err := t.Save(st); err != nil {
			return errors.WithMessage(err, op)
		}
	}
	return nil
}

// entry returns the slot of name or ErrNotFound.
func (s *session) entry(name string) (int, *meta.Entry, error) {
	i, ok := s.table.Lookup(name)
	if !ok {
		return 0, nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return i, &s.table.Entries[i], nil
}

func (fs *FS) checkName(name string) error {
	switch {
	case name == "":
		return ErrEmptyName
	case bytes.IndexByte([]byte(name), 0) >= 0:
		return errors.Wrapf(ErrBadName, "%q", name)
	case len(name) > fs.opt.Geometry.NameLen-1:
		return errors.Wrapf(ErrNameTooLong, "%q has %d bytes, at most %d fit", name, len(name), fs.opt.Geometry.NameLen-1)
	}
	return nil
}

// Create adds an empty file called name in the first unused slot.
func (fs *FS) Create(name string) error {
	if err := fs.checkName(name); err != nil {
		return errors.WithMessage(err, "create")
	}
	fs.debug("create", slog.String("name", name))

	return fs.run("create", true, func(s *session) error {
		if _, ok := s.table.Lookup(name); ok {
			return errors.Wrapf(ErrExists, "%q", name)
		}
		i, ok := s.table.FreeSlot()
		if !ok {
			return errors.Wrapf(ErrNoEntries, "all %d slots in use", len(s.table.Entries))
		}
		s.table.Entries[i] = meta.Entry{Name: name, First: NoBlock}
		return nil
	})
}

// Delete removes name, returns its blocks to the free list and zeroes the
// bytes the file occupied in them.
func (fs *FS) Delete(name string) error {
	fs.debug("delete", slog.String("name", name))

	return fs.run("delete", true, func(s *session) error {
		i, e, err := s.entry(name)
		if err != nil {
			return err
		}

		chain, err := s.table.Chain(i)
		if err != nil {
			return err
		}

		bs := int64(s.blocks.Size())
		for k, blk := range chain {
			used := bs
			if k == len(chain)-1 {
				used = e.Size - int64(k)*bs
			}
			s.table.Free(blk)
			if err := s.blocks.Zero(blk, int(used)); err != nil {
				return err
			}
		}

		fs.debug("delete freed blocks", slog.String("name", name), slog.Int("blocks", len(chain)))
		e.Reset()
		return nil
	})
}

func (fs *FS) logattrs(level slog.Level, msg string, attrs ...slog.Attr) {
	fs.opt.Logger.LogAttrs(context.Background(), level, msg, attrs...)
}

func (fs *FS) debug(msg string, attrs ...slog.Attr) {
	fs.logattrs(slog.LevelDebug, msg, attrs...)
}

func (fs *FS) warn(msg string, attrs ...slog.Attr) {
	fs.logattrs(slog.LevelWarn, msg, attrs...)
}
