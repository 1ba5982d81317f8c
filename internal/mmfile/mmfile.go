// Package mmfile maps input files (trace scripts) read-only into memory.
package mmfile

// Mapped is a read-only view of a whole file.
type Mapped struct {
	data  []byte
	unmap func([]byte) error
}

// Bytes returns the file contents. The slice is invalid after Close.
func (m *Mapped) Bytes() []byte { return m.data }

// Len returns the file size.
func (m *Mapped) Len() int { return len(m.data) }

// Close releases the mapping. Calling it twice is a no-op.
func (m *Mapped) Close() error {
	data := m.data
	m.data = nil
	if data == nil || m.unmap == nil {
		return nil
	}
	return m.unmap(data)
}
