package blkfile

import (
	"io"

	"github.com/pkg/errors"
)

// memDevice is a growable in-memory ReadWriterAt. Reads past the end report
// io.EOF like an *os.File does.
type memDevice struct {
	data []byte
}

func (d *memDevice) ReadAt(dst []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.Errorf("negative offset %d", off)
	}
	if off >= int64(len(d.data)) {
		return 0, io.EOF
	}

	n := copy(dst, d.data[off:])
	if n < len(dst) {
		return n, io.EOF
	}
	return n, nil
}

func (d *memDevice) WriteAt(src []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.Errorf("negative offset %d", off)
	}

	if end := int(off) + len(src); end > len(d.data) {
		d.data = append(d.data, make([]byte, end-len(d.data))...)
	}
	return copy(d.data[off:], src), nil
}
