package bind_group_provider

import "testing"

func TestNewBindGroupProvider(t *testing.T) {
	tests := []struct {
		name          string
		options       []BindGroupProviderOption
		wantIndex     int
		wantVertex    int
		wantInstances int
	}{
		{"Defaults", nil, 0, 0, 1},
		{"Indexed mesh", []BindGroupProviderOption{WithIndexCount(36)}, 36, 0, 1},
		{"Instanced quads", []BindGroupProviderOption{WithVertexCount(6), WithInstanceCount(1000)}, 0, 6, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewBindGroupProvider("test", tt.options...)
			if p.Label() != "test" {
				t.Errorf("Expected label %q, got %q", "test", p.Label())
			}
			if p.IndexCount() != tt.wantIndex {
				t.Errorf("Expected index count %d, got %d", tt.wantIndex, p.IndexCount())
			}
			if p.VertexCount() != tt.wantVertex {
				t.Errorf("Expected vertex count %d, got %d", tt.wantVertex, p.VertexCount())
			}
			if p.InstanceCount() != tt.wantInstances {
				t.Errorf("Expected instance count %d, got %d", tt.wantInstances, p.InstanceCount())
			}
			if p.Initialized() {
				t.Errorf("Expected a fresh provider to be uninitialized")
			}
		})
	}
}

func TestReleaseWithoutGPUResources(t *testing.T) {
	p := NewBindGroupProvider("empty")
	p.SetBuffer(0, nil)
	p.SetTexture(1, nil, nil)
	p.SetSampler(2, nil)

	p.Release()

	if len(p.Buffers()) != 0 {
		t.Errorf("Expected buffers to be cleared, got %d", len(p.Buffers()))
	}
	if p.TextureView(1) != nil || p.Sampler(2) != nil {
		t.Errorf("Expected texture view and sampler to be cleared")
	}
}

func TestSetCounts(t *testing.T) {
	p := NewBindGroupProvider("counts")
	p.SetIndexCount(12)
	p.SetVertexCount(6)
	p.SetInstanceCount(4)
	if p.IndexCount() != 12 || p.VertexCount() != 6 || p.InstanceCount() != 4 {
		t.Errorf("Expected 12/6/4, got %d/%d/%d", p.IndexCount(), p.VertexCount(), p.InstanceCount())
	}
}
