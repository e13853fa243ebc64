package bind_group_provider

// BufferWrite describes a single GPU buffer write operation targeting the buffer stored at a
// binding index (or vertex buffer slot) on a BindGroupProvider, at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
