package meta

import "github.com/pkg/errors"

// Collect follows the chain starting at first and returns count block
// numbers. The caller derives count from the file size; the walker does not
// check that the chain ends after count blocks, only that every link it
// follows stays inside the table.
func (t *Table) Collect(first BlockID, count int) ([]BlockID, error) {
	blks := make([]BlockID, 0, count)
	cur := first
	for i := 0; i < count; i++ {
		if !t.inRange(cur) {
			return nil, errors.Wrapf(ErrCorrupt, "chain from block %d leaves the table at link %d (%d)", first, i, cur)
		}
		blks = append(blks, cur)
		cur = t.Nodes[cur].Next
	}
	return blks, nil
}

// Chain returns the blocks of the file in slot i. A file owns blocks exactly
// when its size is non-zero.
func (t *Table) Chain(i int) ([]BlockID, error) {
	e := &t.Entries[i]
	if (e.First == NoBlock) != (e.Size == 0) {
		return nil, errors.Wrapf(ErrCorrupt, "entry %d: first block %d with size %d", i, e.First, e.Size)
	}
	if e.First == NoBlock {
		return nil, nil
	}
	return t.Collect(e.First, t.Geometry.BlocksFor(e.Size))
}
