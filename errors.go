package simfs

import (
	"github.com/keks/simfs/meta"
	"github.com/pkg/errors"
)

// Usage errors.
var (
	ErrNotFound    = errors.New("file not found")
	ErrExists      = errors.New("file already exists")
	ErrEmptyName   = errors.New("empty file name")
	ErrBadName     = errors.New("file name contains a NUL byte")
	ErrNameTooLong = errors.New("file name too long")
	ErrBadOffset   = errors.New("invalid offset")
	ErrBadLength   = errors.New("invalid length")
	ErrShortInput  = errors.New("short payload")
)

// Capacity errors.
var (
	ErrNoEntries = errors.New("no free file entries")
	ErrNoSpace   = meta.ErrNoSpace
)

// Consistency errors.
var (
	ErrCorrupt     = meta.ErrCorrupt
	ErrBadGeometry = errors.New("invalid geometry")
)

var usageErrs = []error{
	ErrNotFound, ErrExists, ErrEmptyName, ErrBadName, ErrNameTooLong,
	ErrBadOffset, ErrBadLength, ErrShortInput,
}

// IsUsage reports whether err was caused by the arguments of the operation.
func IsUsage(err error) bool {
	for _, target := range usageErrs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsCapacity reports whether the image ran out of entries or blocks.
func IsCapacity(err error) bool {
	return errors.Is(err, ErrNoEntries) || errors.Is(err, ErrNoSpace)
}

func wrapGeometry(err error) error {
	return errors.Wrap(ErrBadGeometry, err.Error())
}
