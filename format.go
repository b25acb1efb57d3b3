package simfs

import (
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/keks/simfs/blkfile"
	"github.com/keks/simfs/meta"
	"github.com/pkg/errors"
)

// Format creates or overwrites the image with an empty file system. Every
// block is zeroed; the blocks under the metadata region are marked allocated
// so the allocator never hands them out.
func (fs *FS) Format() (err error) {
	g := fs.opt.Geometry
	fs.debug("format",
		slog.Int("blocksize", g.BlockSize),
		slog.Int("files", g.MaxFiles),
		slog.Int("blocks", g.MaxBlocks),
		slog.Int("reserved", g.Reserved()),
	)

	st, err := fs.open(true, g.ImageSize())
	if err != nil {
		return errors.Wrap(err, "format: open image")
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "format: close image")
		}
	}()

	blks := blkfile.New(st, g.BlockSize, g.MaxBlocks)
	for b := 0; b < g.MaxBlocks; b++ {
		if err := blks.Zero(meta.BlockID(b), g.BlockSize); err != nil {
			return errors.WithMessage(err, "format")
		}
	}

	return errors.WithMessage(meta.NewTable(g).Save(st), "format")
}

// FileInfo describes one used entry.
type FileInfo struct {
	Slot   int
	Name   string
	Size   int64
	First  BlockID
	Blocks []BlockID
	Digest uint64 // xxhash64 of the contents
}

// Report is a read-only view of an image.
type Report struct {
	Geometry Geometry
	Files    []FileInfo
	Nodes    []meta.Node
	Free     int
}

// Inspect lists the used entries and the state of every block.
func (fs *FS) Inspect() (*Report, error) {
	var rep *Report
	err := fs.run("inspect", false, func(s *session) error {
		rep = &Report{
			Geometry: s.table.Geometry,
			Nodes:    append([]meta.Node(nil), s.table.Nodes...),
			Free:     s.table.FreeCount(),
		}
		for i, e := range s.table.Entries {
			if !e.Used() {
				continue
			}
			chain, err := s.table.Chain(i)
			if err != nil {
				return errors.WithMessagef(err, "file %q", e.Name)
			}
			buf, err := s.contents(i)
			if err != nil {
				return errors.WithMessagef(err, "file %q", e.Name)
			}
			rep.Files = append(rep.Files, FileInfo{
				Slot:   i,
				Name:   e.Name,
				Size:   e.Size,
				First:  e.First,
				Blocks: chain,
				Digest: xxhash.Sum64(buf),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// Check verifies the stored metadata: chain length against size, allocation
// of every chained block, no block shared between files and no allocated
// block that no file owns.
func (fs *FS) Check() error {
	return fs.run("check", false, func(s *session) error {
		return s.table.Verify()
	})
}
