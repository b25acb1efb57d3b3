package simfs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/keks/simfs/meta"
	"github.com/stretchr/testify/require"
)

// env is one image under test together with a way to look at its raw bytes.
type env struct {
	fs  *FS
	raw func(*testing.T) []byte
}

type op interface {
	Do(*testing.T, *env)
}

func memEnv(t *testing.T, g meta.Geometry) *env {
	img := &memImage{}
	opt := NewDefaultOptions()
	opt.Geometry = g
	fs, err := New(img.Opener(), opt)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.Equal(t, img.opens, img.closes, "every open image is closed")
	})

	return &env{
		fs: fs,
		raw: func(*testing.T) []byte {
			return append([]byte(nil), img.buf...)
		},
	}
}

func fileEnv(t *testing.T, g meta.Geometry) *env {
	path := filepath.Join(t.TempDir(), "image.simfs")
	opt := NewDefaultOptions()
	opt.Geometry = g
	fs, err := Open(path, opt)
	require.NoError(t, err)

	return &env{
		fs: fs,
		raw: func(t *testing.T) []byte {
			buf, err := os.ReadFile(path)
			require.NoError(t, err)
			return buf
		},
	}
}

func mktest(g meta.Geometry, ops []op) func(*testing.T) {
	return func(t *testing.T) {
		t.Run("memory", func(t *testing.T) {
			e := memEnv(t, g)
			for _, op := range ops {
				op.Do(t, e)
				t.Logf("ok: %T %+v", op, op)
			}
		})

		t.Run("file", func(t *testing.T) {
			e := fileEnv(t, g)
			for _, op := range ops {
				op.Do(t, e)
				t.Logf("ok: %T %+v", op, op)
			}
		})
	}
}

type formatOp struct{}

func (op formatOp) Do(t *testing.T, e *env) {
	require.NoError(t, e.fs.Format())
}

type createOp struct {
	name string

	expErr error
}

func (op createOp) Do(t *testing.T, e *env) {
	err := e.fs.Create(op.name)
	if op.expErr == nil {
		require.NoError(t, err)
	} else {
		require.ErrorIs(t, err, op.expErr)
	}
}

type writeOp struct {
	name string
	off  int64
	data []byte

	// n overrides len(data) to simulate short input
	n int64

	expErr error
}

func (op writeOp) Do(t *testing.T, e *env) {
	n := op.n
	if n == 0 {
		n = int64(len(op.data))
	}

	err := e.fs.Write(op.name, op.off, n, bytes.NewReader(op.data))
	if op.expErr == nil {
		require.NoError(t, err)
	} else {
		require.ErrorIs(t, err, op.expErr)
	}
}

type readOp struct {
	name string
	off  int64
	n    int64

	exp    []byte
	expErr error
}

func (op readOp) Do(t *testing.T, e *env) {
	n := op.n
	if n == 0 {
		n = int64(len(op.exp))
	}

	var buf bytes.Buffer
	err := e.fs.Read(op.name, op.off, n, &buf)
	if op.expErr != nil {
		require.ErrorIs(t, err, op.expErr)
		require.Zero(t, buf.Len(), "nothing is written on failure")
		return
	}
	require.NoError(t, err)
	require.True(t, bytes.Equal(op.exp, buf.Bytes()), "read %q at %d: got %x, want %x", op.name, op.off, buf.Bytes(), op.exp)
}

type deleteOp struct {
	name string

	expErr error
}

func (op deleteOp) Do(t *testing.T, e *env) {
	err := e.fs.Delete(op.name)
	if op.expErr == nil {
		require.NoError(t, err)
	} else {
		require.ErrorIs(t, err, op.expErr)
	}
}

// statOp checks the entry of name through Inspect.
type statOp struct {
	name string

	expSize   int64
	expBlocks []BlockID
	expFree   int
}

func (op statOp) Do(t *testing.T, e *env) {
	rep, err := e.fs.Inspect()
	require.NoError(t, err)
	require.Equal(t, op.expFree, rep.Free, "free blocks")

	for _, f := range rep.Files {
		if f.Name != op.name {
			continue
		}
		require.Equal(t, op.expSize, f.Size, "size of %q", op.name)
		require.Equal(t, op.expBlocks, f.Blocks, "blocks of %q", op.name)
		if len(op.expBlocks) == 0 {
			require.Equal(t, NoBlock, f.First)
		} else {
			require.Equal(t, op.expBlocks[0], f.First)
		}
		return
	}
	t.Fatalf("file %q not found in %+v", op.name, rep.Files)
}

type checkOp struct{}

func (op checkOp) Do(t *testing.T, e *env) {
	require.NoError(t, e.fs.Check())
}

// rawOp compares bytes [from, to) of block blk in the image.
type rawOp struct {
	blk      BlockID
	from, to int

	exp []byte
}

func (op rawOp) Do(t *testing.T, e *env) {
	bs := e.fs.Geometry().BlockSize
	buf := e.raw(t)
	base := int(op.blk) * bs
	require.Equal(t, op.exp, buf[base+op.from:base+op.to], "block %d [%d, %d)", op.blk, op.from, op.to)
}
