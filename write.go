package simfs

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/keks/simfs/meta"
	"github.com/pkg/errors"
)

// Write stores n bytes read from src into name starting at byte off. off may
// be at most the current size; writing past the end grows the file, first
// into the slack of its last block and then into newly allocated blocks.
func (fs *FS) Write(name string, off, n int64, src io.Reader) error {
	if off < 0 {
		return errors.WithMessage(errors.Wrapf(ErrBadOffset, "%d", off), "write")
	}
	if n < 0 {
		return errors.WithMessage(errors.Wrapf(ErrBadLength, "%d", n), "write")
	}
	if max := fs.opt.Geometry.ImageSize(); n > max {
		return errors.WithMessage(errors.Wrapf(ErrNoSpace, "%d bytes do not fit an image of %d", n, max), "write")
	}

	return fs.run("write", true, func(s *session) error {
		i, e, err := s.entry(name)
		if err != nil {
			return err
		}
		if off > e.Size {
			return errors.Wrapf(ErrBadOffset, "%d is past the end of %q (%d bytes)", off, name, e.Size)
		}
		if need, free := s.growth(i, off+n), s.table.FreeCount(); need > free {
			fs.warn("write rejected", slog.String("name", name), slog.Int("need", need), slog.Int("free", free))
			return errors.Wrapf(ErrNoSpace, "%q needs %d more blocks, %d free", name, need, free)
		}

		data := make([]byte, n)
		if _, err := io.ReadFull(src, data); err != nil {
			return errors.Wrapf(ErrShortInput, "want %d bytes: %v", n, err)
		}

		fs.debug("write",
			slog.String("name", name),
			slog.Int64("off", off),
			slog.Int64("len", n),
			slog.Int64("size", e.Size),
		)
		return s.write(i, off, data)
	})
}

// WriteBytes writes data into name at off.
func (fs *FS) WriteBytes(name string, off int64, data []byte) error {
	return fs.Write(name, off, int64(len(data)), bytes.NewReader(data))
}

// write places data into the file in slot i at off, growing the chain as
// needed. Block contents are written before the caller saves the metadata.
func (s *session) write(i int, off int64, data []byte) error {
	e := &s.table.Entries[i]
	bs := int64(s.blocks.Size())

	chain, err := s.table.Chain(i)
	if err != nil {
		return err
	}

	end := off + int64(len(data))
	capacity := int64(len(chain)) * bs

	// the part that lands in blocks the file already owns
	head := data
	if end > capacity {
		head = data[:capacity-off]
	}
	if err := s.writeSpan(chain, off, head); err != nil {
		return err
	}

	if rest := data[len(head):]; len(rest) > 0 {
		blks, err := s.table.Allocate(s.table.Geometry.BlocksFor(int64(len(rest))))
		if err != nil {
			return err
		}

		tail := NoBlock
		if len(chain) > 0 {
			tail = chain[len(chain)-1]
		}
		s.table.Link(tail, blks)
		if e.First == NoBlock {
			e.First = blks[0]
		}

		if err := s.writeSpan(blks, 0, rest); err != nil {
			return err
		}
	}

	if end > e.Size {
		e.Size = end
	}
	return nil
}

// growth returns how many blocks the file in slot i needs to reach end bytes.
func (s *session) growth(i int, end int64) int {
	g := s.table.Geometry
	have := g.BlocksFor(s.table.Entries[i].Size)
	if want := g.BlocksFor(end); want > have {
		return want - have
	}
	return 0
}

// writeSpan writes data across chain starting at byte off of the chain. The
// first block is written from off%blocksize, every later block from 0.
func (s *session) writeSpan(chain []meta.BlockID, off int64, data []byte) error {
	bs := s.blocks.Size()
	idx := int(off / int64(bs))
	pos := int(off % int64(bs))

	for len(data) > 0 {
		n := bs - pos
		if n > len(data) {
			n = len(data)
		}
		if err := s.blocks.WriteAt(chain[idx], data[:n], pos); err != nil {
			return err
		}
		data = data[n:]
		idx++
		pos = 0
	}
	return nil
}
