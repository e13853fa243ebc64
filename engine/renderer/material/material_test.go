package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/go-gl/mathgl/mgl32"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial(WithName("globe"), WithPipelineKey("glass"))

	if m.Name() != "globe" {
		t.Errorf("Expected name %q, got %q", "globe", m.Name())
	}
	if m.PipelineKey() != "glass" {
		t.Errorf("Expected pipeline key %q, got %q", "glass", m.PipelineKey())
	}
	if m.Alpha() != 1 {
		t.Errorf("Expected alpha 1, got %v", m.Alpha())
	}
	if m.Textured() {
		t.Errorf("Expected untextured material")
	}
	tex := m.Texture()
	if tex.Width != 1 || tex.Height != 1 || len(tex.Pixels) != 4 {
		t.Errorf("Expected 1x1 white fallback, got %dx%d with %d bytes", tex.Width, tex.Height, len(tex.Pixels))
	}
}

func TestWithTexture(t *testing.T) {
	tex := common.TextureStagingData{Pixels: make([]byte, 16), Width: 2, Height: 2}
	m := NewMaterial(WithTexture(tex), WithAlpha(0.4))

	if !m.Textured() {
		t.Fatalf("Expected textured material")
	}
	if got := m.Texture(); got.Width != 2 || got.Height != 2 {
		t.Errorf("Expected 2x2 texture, got %dx%d", got.Width, got.Height)
	}
	if m.Alpha() != 0.4 {
		t.Errorf("Expected alpha 0.4, got %v", m.Alpha())
	}
}

func TestGPUDrawUniformLayout(t *testing.T) {
	u := GPUDrawUniform{}
	if u.Size() != GPUDrawUniformSize {
		t.Fatalf("GPUDrawUniform size mismatch:\nhave %d\nwant %d", u.Size(), GPUDrawUniformSize)
	}

	model := mgl32.Translate3D(1, 2, 3)
	u.Model = model
	u.SetNormalMatrix(mgl32.Mat3{1, 2, 3, 4, 5, 6, 7, 8, 9})
	u.LightPos = [4]float32{0, 0.5, -4, 1}
	u.ColourMode = 1
	u.Alpha = 0.4
	u.PointSize = 15
	u.Viewport = [2]float32{1024, 768}

	buf := u.Marshal()
	if len(buf) != GPUDrawUniformSize {
		t.Fatalf("Marshal length mismatch:\nhave %d\nwant %d", len(buf), GPUDrawUniformSize)
	}

	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
	}

	tests := []struct {
		name   string
		offset int
		want   float32
	}{
		{"Model translation x", 48, 1},
		{"Model translation z", 56, 3},
		{"Normal column 0", 192, 1},
		{"Normal column 0 padding", 204, 0},
		{"Normal column 1", 208, 4},
		{"Normal column 2 last", 232, 9},
		{"Light z", 248, -4},
		{"Alpha", 260, 0.4},
		{"Point size", 264, 15},
		{"Viewport width", 272, 1024},
		{"Viewport height", 276, 768},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f(tt.offset); got != tt.want {
				t.Errorf("Expected %v at offset %d, got %v", tt.want, tt.offset, got)
			}
		})
	}

	if mode := binary.LittleEndian.Uint32(buf[256:260]); mode != 1 {
		t.Errorf("Expected colour mode 1, got %d", mode)
	}
}
