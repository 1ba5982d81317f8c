package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joshuapare/heapkit/region"
)

// newRegionFunc returns a constructor for the region kind named on the
// command line.
func newRegionFunc(kind string, limit int) (func() (region.Region, error), error) {
	switch kind {
	case "mem":
		return func() (region.Region, error) { return region.NewMem(limit), nil }, nil
	case "mmap":
		return func() (region.Region, error) {
			m, err := region.NewMmap(limit)
			if err != nil {
				return nil, err
			}
			return m, nil
		}, nil
	case "file":
		return func() (region.Region, error) {
			f, err := newScratchFile(limit)
			if err != nil {
				return nil, err
			}
			return f, nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown region %q (want mem, mmap or file)", kind)
	}
}

// scratchFile is a file region in a private temp dir, removed on Close.
type scratchFile struct {
	*region.File
	dir string
}

func newScratchFile(limit int) (*scratchFile, error) {
	dir, err := os.MkdirTemp("", "heapctl-*")
	if err != nil {
		return nil, err
	}
	f, err := region.CreateFile(filepath.Join(dir, "heap.bin"), limit)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}
	return &scratchFile{File: f, dir: dir}, nil
}

func (s *scratchFile) Close() error {
	return errors.Join(s.File.Close(), os.RemoveAll(s.dir))
}
