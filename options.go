package simfs

import (
	"io"
	"log/slog"

	"github.com/keks/simfs/meta"
)

// Defaults for a new image.
const (
	DefaultBlockSize = 128
	DefaultMaxFiles  = 8
	DefaultMaxBlocks = 32
	DefaultNameLen   = 12
)

type Options struct {
	Geometry meta.Geometry

	// Logger receives one debug record per operation. Nil discards.
	Logger *slog.Logger
}

func NewDefaultOptions() *Options {
	return &Options{
		Geometry: meta.Geometry{
			BlockSize: DefaultBlockSize,
			MaxFiles:  DefaultMaxFiles,
			MaxBlocks: DefaultMaxBlocks,
			NameLen:   DefaultNameLen,
		},
	}
}

func (opt *Options) validate() error {
	if err := opt.Geometry.Validate(); err != nil {
		return wrapGeometry(err)
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return nil
}
