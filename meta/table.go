// Package meta holds the in-memory metadata of an image: the file-entry
// table and the block-node table, together with the allocator and chain
// walker that operate on them.
package meta

import "github.com/pkg/errors"

var (
	ErrNoSpace = errors.New("not enough free blocks")
	ErrCorrupt = errors.New("metadata is corrupt")
)

// Entry is one directory slot. An empty Name marks an unused slot.
type Entry struct {
	Name  string
	First BlockID
	Size  int64
}

// Used reports whether the slot holds a file.
func (e *Entry) Used() bool {
	return e.Name != ""
}

// Reset returns the slot to the unused state.
func (e *Entry) Reset() {
	*e = Entry{First: NoBlock}
}

// Node tracks allocation and chain linkage of the block at the same index.
type Node struct {
	Allocated bool
	Next      BlockID
}

// Table is the loaded metadata region.
type Table struct {
	Geometry Geometry
	Entries  []Entry
	Nodes    []Node
}

// NewTable returns the table of a freshly formatted image: every entry unused,
// every node free except the blocks that overlap the metadata region.
func NewTable(g Geometry) *Table {
	t := &Table{
		Geometry: g,
		Entries:  make([]Entry, g.MaxFiles),
		Nodes:    make([]Node, g.MaxBlocks),
	}
	for i := range t.Entries {
		t.Entries[i].Reset()
	}
	reserved := g.Reserved()
	for i := range t.Nodes {
		t.Nodes[i] = Node{Allocated: i < reserved, Next: NoBlock}
	}
	return t
}

// Lookup returns the slot index of the file called name.
func (t *Table) Lookup(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	for i := range t.Entries {
		if t.Entries[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// FreeSlot returns the index of the first unused entry.
func (t *Table) FreeSlot() (int, bool) {
	for i := range t.Entries {
		if !t.Entries[i].Used() {
			return i, true
		}
	}
	return 0, false
}

// Free marks blk as free and unlinks it.
func (t *Table) Free(blk BlockID) {
	t.Nodes[blk] = Node{Next: NoBlock}
}

// FreeCount returns the number of free nodes.
func (t *Table) FreeCount() int {
	var n int
	for _, nd := range t.Nodes {
		if !nd.Allocated {
			n++
		}
	}
	return n
}

func (t *Table) inRange(blk BlockID) bool {
	return blk >= 0 && int(blk) < len(t.Nodes)
}
