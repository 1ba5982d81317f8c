//go:build !linux && !darwin

package mmfile

import "os"

// Open reads the entire file when mmap is not available.
func Open(path string) (*Mapped, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Mapped{data: data}, nil
}
