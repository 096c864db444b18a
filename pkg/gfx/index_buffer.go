package gfx

// IndexBuffer is an immutable list of triangle indices into a mesh's vertices.
type IndexBuffer struct {
	indices []uint16
}

// NewIndexBuffer copies indices into a new buffer.
func NewIndexBuffer(indices []uint16) *IndexBuffer {
	buf := make([]uint16, len(indices))
	copy(buf, indices)
	return &IndexBuffer{indices: buf}
}

// Count returns the number of indices.
func (b *IndexBuffer) Count() int {
	return len(b.indices)
}

// Indices returns the index data. Callers must not modify it.
func (b *IndexBuffer) Indices() []uint16 {
	return b.indices
}
