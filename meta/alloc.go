package meta

import "github.com/pkg/errors"

// Allocate reserves n free blocks with a single first-fit scan from block 0
// and returns them in the order found. Each block is marked allocated as soon
// as it is found. On ErrNoSpace the blocks found so far stay allocated; the
// caller is expected to drop the table without saving it.
func (t *Table) Allocate(n int) ([]BlockID, error) {
	blks := make([]BlockID, 0, n)
	for i := 0; i < len(t.Nodes) && len(blks) < n; i++ {
		if t.Nodes[i].Allocated {
			continue
		}
		t.Nodes[i] = Node{Allocated: true, Next: NoBlock}
		blks = append(blks, BlockID(i))
	}
	if len(blks) < n {
		return blks, errors.Wrapf(ErrNoSpace, "need %d, found %d", n, len(blks))
	}
	return blks, nil
}

// Link chains blks in order, and after prev unless prev is NoBlock.
func (t *Table) Link(prev BlockID, blks []BlockID) {
	for _, blk := range blks {
		if prev != NoBlock {
			t.Nodes[prev].Next = blk
		}
		prev = blk
	}
}
