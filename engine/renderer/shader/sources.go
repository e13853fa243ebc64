package shader

import (
	_ "embed"
)

// Embedded WGSL sources for the scene's shaders. Each file holds a vs_main and an fs_main
// entry point sharing the group 0 layout: DrawUniform at binding 0, a 2D texture at binding 1
// and a filtering sampler at binding 2.
var (
	//go:embed assets/lamppost.wgsl
	LampPostSource string

	//go:embed assets/glass.wgsl
	GlassSource string

	//go:embed assets/point_sprites.wgsl
	PointSpritesSource string

	//go:embed assets/floor.wgsl
	FloorSource string
)
