package simfs

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/pkg/errors"
)

// Read copies n bytes of name starting at off to dst. The whole range has to
// lie inside the file.
func (fs *FS) Read(name string, off, n int64, dst io.Writer) error {
	if off < 0 {
		return errors.WithMessage(errors.Wrapf(ErrBadOffset, "%d", off), "read")
	}
	if n < 0 {
		return errors.WithMessage(errors.Wrapf(ErrBadLength, "%d", n), "read")
	}

	return fs.run("read", false, func(s *session) error {
		i, e, err := s.entry(name)
		if err != nil {
			return err
		}
		if off >= e.Size {
			return errors.Wrapf(ErrBadOffset, "%d is not inside %q (%d bytes)", off, name, e.Size)
		}
		if off+n > e.Size {
			return errors.Wrapf(ErrBadLength, "%d bytes at %d run past the end of %q (%d bytes)", n, off, name, e.Size)
		}

		fs.debug("read", slog.String("name", name), slog.Int64("off", off), slog.Int64("len", n))

		buf, err := s.contents(i)
		if err != nil {
			return err
		}

		w, err := dst.Write(buf[off : off+n])
		if err == nil && int64(w) < n {
			err = io.ErrShortWrite
		}
		return errors.Wrap(err, "write payload")
	})
}

// ReadBytes returns n bytes of name starting at off.
func (fs *FS) ReadBytes(name string, off, n int64) ([]byte, error) {
	var buf bytes.Buffer
	if err := fs.Read(name, off, n, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// contents reads the whole file in slot i, block by block in chain order.
func (s *session) contents(i int) ([]byte, error) {
	e := &s.table.Entries[i]
	chain, err := s.table.Chain(i)
	if err != nil {
		return nil, err
	}

	bs := int64(s.blocks.Size())
	buf := make([]byte, e.Size)
	for k, blk := range chain {
		lo := int64(k) * bs
		hi := lo + bs
		if hi > e.Size {
			hi = e.Size
		}
		if err := s.blocks.ReadAt(blk, buf[lo:hi], 0); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
