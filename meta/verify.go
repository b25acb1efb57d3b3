package meta

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Verify checks the invariants that tie entries and nodes together and
// returns every violation found, wrapped in ErrCorrupt.
func (t *Table) Verify() error {
	var problems []string
	report := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	reserved := t.Geometry.Reserved()
	owner := make([]int, len(t.Nodes))
	for i := range owner {
		owner[i] = -1
	}
	for b := 0; b < reserved && b < len(t.Nodes); b++ {
		if !t.Nodes[b].Allocated {
			report("reserved block %d is free", b)
		}
	}

	names := make(map[string]int)
	for i, e := range t.Entries {
		if !e.Used() {
			if e.First != NoBlock || e.Size != 0 {
				report("unused entry %d has first=%d size=%d", i, e.First, e.Size)
			}
			continue
		}
		if j, dup := names[e.Name]; dup {
			report("entries %d and %d are both named %q", j, i, e.Name)
		}
		names[e.Name] = i

		if (e.First == NoBlock) != (e.Size == 0) {
			report("entry %q has first=%d size=%d", e.Name, e.First, e.Size)
			continue
		}

		cur := e.First
		count := t.Geometry.BlocksFor(e.Size)
		for k := 0; k < count; k++ {
			if !t.inRange(cur) {
				report("chain of %q ends after %d of %d blocks", e.Name, k, count)
				break
			}
			switch {
			case int(cur) < reserved:
				report("chain of %q uses reserved block %d", e.Name, cur)
			case !t.Nodes[cur].Allocated:
				report("chain of %q uses free block %d", e.Name, cur)
			}
			if o := owner[cur]; o >= 0 {
				report("block %d is in the chains of %q and %q", cur, t.Entries[o].Name, e.Name)
				break
			}
			owner[cur] = i
			if k == count-1 && t.Nodes[cur].Next != NoBlock {
				report("chain of %q continues past its %d bytes", e.Name, e.Size)
			}
			cur = t.Nodes[cur].Next
		}
	}

	for b := reserved; b < len(t.Nodes); b++ {
		if t.Nodes[b].Allocated && owner[b] < 0 {
			report("block %d is allocated but belongs to no file", b)
		}
	}

	if len(problems) > 0 {
		return errors.Wrapf(ErrCorrupt, "%d problem(s): %s", len(problems), strings.Join(problems, "; "))
	}
	return nil
}
