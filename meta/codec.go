package meta

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	flagFree      int32 = 0
	flagAllocated int32 = 1
)

type entryRecord struct {
	First int32
	Size  int32
}

type nodeRecord struct {
	Flags int32
	Next  int32
}

// Load reads the metadata region at the start of ra.
func Load(ra io.ReaderAt, g Geometry) (*Table, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, g.MetaSize())
	if _, err := io.ReadFull(readerFromReaderAt(ra, 0), buf); err != nil {
		return nil, errors.Wrapf(err, "read metadata (%d bytes)", len(buf))
	}

	t := &Table{
		Geometry: g,
		Entries:  make([]Entry, g.MaxFiles),
		Nodes:    make([]Node, g.MaxBlocks),
	}
	r := bytes.NewReader(buf)

	name := make([]byte, g.NameLen)
	for i := range t.Entries {
		var rec entryRecord
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, errors.Wrapf(err, "decode entry %d", i)
		}
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, errors.Wrapf(err, "decode entry %d", i)
		}
		if err := t.decodeEntry(i, name, rec); err != nil {
			return nil, err
		}
	}

	recs := make([]nodeRecord, g.MaxBlocks)
	if err := binary.Read(r, binary.LittleEndian, recs); err != nil {
		return nil, errors.Wrap(err, "decode nodes")
	}
	for i, rec := range recs {
		if err := t.decodeNode(i, rec); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Table) decodeEntry(i int, name []byte, rec entryRecord) error {
	if j := bytes.IndexByte(name, 0); j >= 0 {
		name = name[:j]
	}
	first := BlockID(rec.First)
	if first != NoBlock && !t.inRange(first) {
		return errors.Wrapf(ErrCorrupt, "entry %d: first block %d out of range", i, rec.First)
	}
	if rec.Size < 0 {
		return errors.Wrapf(ErrCorrupt, "entry %d: negative size %d", i, rec.Size)
	}
	if len(name) > 0 && (first == NoBlock) != (rec.Size == 0) {
		return errors.Wrapf(ErrCorrupt, "entry %d: first block %d with size %d", i, rec.First, rec.Size)
	}
	t.Entries[i] = Entry{
		Name:  string(name),
		First: first,
		Size:  int64(rec.Size),
	}
	return nil
}

func (t *Table) decodeNode(i int, rec nodeRecord) error {
	next := BlockID(rec.Next)
	if next != NoBlock && !t.inRange(next) {
		return errors.Wrapf(ErrCorrupt, "node %d: next block %d out of range", i, rec.Next)
	}
	switch rec.Flags {
	case flagFree:
		t.Nodes[i] = Node{Next: next}
	case flagAllocated:
		t.Nodes[i] = Node{Allocated: true, Next: next}
	default:
		return errors.Wrapf(ErrCorrupt, "node %d: unknown flags %#x", i, rec.Flags)
	}
	return nil
}

// Save writes the table back over the metadata region in a single write.
func (t *Table) Save(wa io.WriterAt) error {
	g := t.Geometry
	var buf bytes.Buffer
	buf.Grow(g.MetaSize())

	name := make([]byte, g.NameLen)
	for i, e := range t.Entries {
		if len(e.Name) >= g.NameLen {
			return errors.Errorf("entry %d: name %q does not fit %d bytes", i, e.Name, g.NameLen)
		}
		for j := range name {
			name[j] = 0
		}
		copy(name, e.Name)
		buf.Write(name)
		rec := entryRecord{First: int32(e.First), Size: int32(e.Size)}
		if err := binary.Write(&buf, binary.LittleEndian, rec); err != nil {
			return errors.Wrapf(err, "encode entry %d", i)
		}
	}

	recs := make([]nodeRecord, len(t.Nodes))
	for i, nd := range t.Nodes {
		recs[i] = nodeRecord{Flags: flagFree, Next: int32(nd.Next)}
		if nd.Allocated {
			recs[i].Flags = flagAllocated
		}
	}
	if err := binary.Write(&buf, binary.LittleEndian, recs); err != nil {
		return errors.Wrap(err, "encode nodes")
	}

	if _, err := writerFromWriterAt(wa, 0).Write(buf.Bytes()); err != nil {
		return errors.Wrapf(err, "write metadata (%d bytes)", buf.Len())
	}
	return nil
}
