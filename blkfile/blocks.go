// Package blkfile exposes the data blocks of an image as fixed-size windows
// over a single ReadWriterAt. Block b starts at absolute offset b*size.
package blkfile

import (
	"io"

	"github.com/keks/simfs/meta"
	"github.com/pkg/errors"
)

// ReadWriterAt is both a ReaderAt and a WriterAt.
type ReadWriterAt interface {
	io.ReaderAt
	io.WriterAt
}

// Blocks addresses the count blocks of blksize bytes in lower.
type Blocks struct {
	lower ReadWriterAt

	blksize int
	count   int
}

// New returns the block view of lower.
func New(lower ReadWriterAt, blksize, count int) *Blocks {
	return &Blocks{
		lower:   lower,
		blksize: blksize,
		count:   count,
	}
}

// Size returns the block size.
func (blks *Blocks) Size() int {
	return blks.blksize
}

// Get returns the window of block bid.
func (blks *Blocks) Get(bid meta.BlockID) (ReadWriterAt, error) {
	if bid < 0 || int(bid) >= blks.count {
		return nil, errors.Errorf("block %d out of range [0, %d)", bid, blks.count)
	}

	return &block{
		off:   int64(bid) * int64(blks.blksize),
		size:  blks.blksize,
		lower: blks.lower,
	}, nil
}

// WriteAt writes data into block bid starting at off. The data must fit the
// block; anything less than a full write is an error.
func (blks *Blocks) WriteAt(bid meta.BlockID, data []byte, off int) error {
	blk, err := blks.Get(bid)
	if err != nil {
		return err
	}
	if _, err := blk.WriteAt(data, int64(off)); err != nil {
		return errors.Wrapf(err, "write block %d at %d (%d bytes)", bid, off, len(data))
	}
	return nil
}

// ReadAt fills dst from block bid starting at off.
func (blks *Blocks) ReadAt(bid meta.BlockID, dst []byte, off int) error {
	blk, err := blks.Get(bid)
	if err != nil {
		return err
	}
	if _, err := blk.ReadAt(dst, int64(off)); err != nil {
		return errors.Wrapf(err, "read block %d at %d (%d bytes)", bid, off, len(dst))
	}
	return nil
}

// Zero overwrites the first n bytes of block bid with zeros.
func (blks *Blocks) Zero(bid meta.BlockID, n int) error {
	if n <= 0 {
		return nil
	}
	return blks.WriteAt(bid, make([]byte, n), 0)
}
