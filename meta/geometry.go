package meta

import (
	"math"

	"github.com/pkg/errors"
)

// BlockID identifies a data block by its position in the node table.
type BlockID int32

// NoBlock terminates a chain and marks an entry without blocks.
const NoBlock BlockID = -1

// Encoded record sizes, excluding the name field of an entry.
const (
	entryFixedSize = 8
	NodeSize       = 8
)

// Geometry describes the fixed shape of a formatted image. It is not stored
// on disk, so every command has to be run with the geometry used to format.
type Geometry struct {
	BlockSize int
	MaxFiles  int
	MaxBlocks int
	NameLen   int
}

// EntrySize is the encoded size of one file entry.
func (g Geometry) EntrySize() int {
	return g.NameLen + entryFixedSize
}

// MetaSize is the size of the metadata region at the start of the image.
func (g Geometry) MetaSize() int {
	return g.MaxFiles*g.EntrySize() + g.MaxBlocks*NodeSize
}

// Reserved is the number of leading blocks that overlap the metadata region.
func (g Geometry) Reserved() int {
	return (g.MetaSize() + g.BlockSize - 1) / g.BlockSize
}

// ImageSize is the size of the host file.
func (g Geometry) ImageSize() int64 {
	return int64(g.MaxBlocks) * int64(g.BlockSize)
}

// BlocksFor returns how many blocks hold size bytes.
func (g Geometry) BlocksFor(size int64) int {
	bs := int64(g.BlockSize)
	return int((size + bs - 1) / bs)
}

// Validate reports geometries that cannot hold a usable image.
func (g Geometry) Validate() error {
	switch {
	case g.BlockSize <= 0:
		return errors.Errorf("block size must be positive, got %d", g.BlockSize)
	case g.MaxFiles <= 0:
		return errors.Errorf("max files must be positive, got %d", g.MaxFiles)
	case g.MaxBlocks <= 0:
		return errors.Errorf("max blocks must be positive, got %d", g.MaxBlocks)
	case g.NameLen < 2:
		return errors.Errorf("name length must be at least 2, got %d", g.NameLen)
	case g.ImageSize() > math.MaxInt32:
		return errors.Errorf("image of %d bytes does not fit 32-bit offsets", g.ImageSize())
	case g.Reserved() >= g.MaxBlocks:
		return errors.Errorf("metadata (%d bytes) leaves no usable block out of %d", g.MetaSize(), g.MaxBlocks)
	}
	return nil
}
