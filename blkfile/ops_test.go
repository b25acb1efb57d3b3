package blkfile

import (
	"bytes"
	"testing"

	"github.com/keks/simfs/meta"
	"github.com/stretchr/testify/require"
)

type op interface {
	Do(*testing.T, ReadWriterAt)
}

type blksNewOp struct {
	blks *Blocks

	size  int
	count int
}

func (op blksNewOp) Do(t *testing.T, rwa ReadWriterAt) {
	*op.blks = *New(rwa, op.size, op.count)
}

type blksGetOp struct {
	blks  *Blocks
	blk   *block
	blkid meta.BlockID

	expOff int64
	expErr string
}

func (op blksGetOp) Do(t *testing.T, rwa ReadWriterAt) {
	t.Logf("blocks get bid=%d", op.blkid)
	blk, err := op.blks.Get(op.blkid)
	if op.expErr != "" {
		require.EqualError(t, err, op.expErr)
		return
	}
	require.NoError(t, err)

	*op.blk = *(blk.(*block))
	require.Equal(t, op.expOff, op.blk.off, "block offset")
}

type blksWriteOp struct {
	blks  *Blocks
	blkid meta.BlockID
	data  []byte
	off   int

	expErr string
}

func (op blksWriteOp) Do(t *testing.T, rwa ReadWriterAt) {
	err := op.blks.WriteAt(op.blkid, op.data, op.off)
	if op.expErr == "" {
		require.NoError(t, err)
	} else {
		require.EqualError(t, err, op.expErr)
	}
}

type blksReadOp struct {
	blks  *Blocks
	blkid meta.BlockID
	off   int

	exp    []byte
	expErr string
}

func (op blksReadOp) Do(t *testing.T, rwa ReadWriterAt) {
	buf := make([]byte, len(op.exp))
	err := op.blks.ReadAt(op.blkid, buf, op.off)
	if op.expErr != "" {
		require.EqualError(t, err, op.expErr)
		return
	}
	require.NoError(t, err)
	require.Equal(t, op.exp, buf)
}

type blksZeroOp struct {
	blks  *Blocks
	blkid meta.BlockID
	n     int
}

func (op blksZeroOp) Do(t *testing.T, rwa ReadWriterAt) {
	require.NoError(t, op.blks.Zero(op.blkid, op.n))
}

type blkWriteOp struct {
	blk  *block
	data []byte
	off  int64

	// set these if blk == nil
	blkOff  int64
	blkSize int

	expN   int
	expErr string
}

func (op blkWriteOp) Do(t *testing.T, rwa ReadWriterAt) {
	r := require.New(t)

	if op.blk == nil {
		op.blk = &block{
			lower: rwa,
			off:   op.blkOff,
			size:  op.blkSize,
		}
	}

	t.Log("writeOp, op.blk:", op.blk)

	n, err := op.blk.WriteAt(op.data, op.off)

	t.Logf("writeOp, n: %d, err: %v", n, err)

	r.Equal(op.expN, n)
	if op.expErr == "" {
		r.NoError(err)
	} else {
		r.EqualError(err, op.expErr)
	}
}

type blkReadOp struct {
	blk     *block
	off     int64
	readlen int

	// set these if blk == nil
	blkOff  int64
	blkSize int

	exp    []byte
	expN   int
	expErr string
}

func (op blkReadOp) Do(t *testing.T, rwa ReadWriterAt) {
	r := require.New(t)
	if op.readlen == 0 {
		op.readlen = len(op.exp)
	}

	if op.blk == nil {
		op.blk = &block{
			lower: rwa,
			off:   op.blkOff,
			size:  op.blkSize,
		}
	}

	t.Log("readOp, op.blk:", op.blk)

	buf := make([]byte, op.readlen)
	n, err := op.blk.ReadAt(buf, op.off)

	t.Logf("readOp, n: %d, err: %v", n, err)

	if op.expErr == "" {
		r.NoError(err)
	} else {
		r.EqualError(err, op.expErr)
	}
	r.Equal(op.expN, n)
	t.Logf("buffer contents %q | 0x%x", buf[:op.expN], buf[:op.expN])
	r.True(bytes.Equal(buf[:op.expN], op.exp))
}

type dumpOp struct {
	name string
	v    interface{}
}

func (op dumpOp) Do(t *testing.T, rwa ReadWriterAt) {
	t.Logf("%s: %#v", op.name, op.v)
}
