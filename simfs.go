// Package simfs implements a single-directory file system inside one host
// file: a metadata region with a file-entry table and a block-node table,
// followed by a fixed array of equal-size data blocks.
//
// An FS holds no open file. Every operation opens the image, loads the
// metadata, does its work, saves the metadata when it changed anything and
// closes the image again. Nothing guards against two processes working on
// the same image at once.
package simfs // import "github.com/keks/simfs"

import (
	"io"
	"os"

	"github.com/keks/simfs/blkfile"
	"github.com/keks/simfs/meta"
)

// Basic Types

// ReadWriterAt is both a ReaderAt and a WriterAt.
type ReadWriterAt = blkfile.ReadWriterAt

// BlockID identifies blocks.
type BlockID = meta.BlockID

// NoBlock marks the end of a chain.
const NoBlock = meta.NoBlock

// Geometry is the fixed shape of an image.
type Geometry = meta.Geometry

// Store is an open image.
type Store interface {
	ReadWriterAt
	io.Closer
}

// Opener opens the image for one operation. When create is set the image is
// about to be formatted and should be created and truncated to size bytes.
type Opener func(create bool, size int64) (Store, error)

// FileOpener opens the image at path on the local file system.
func FileOpener(path string) Opener {
	return func(create bool, size int64) (Store, error) {
		if !create {
			return os.OpenFile(path, os.O_RDWR, 0)
		}
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return nil, err
		}
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, err
		}
		return f, nil
	}
}
