package main

import (
	"fmt"
	"path/filepath"

	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/Carmen-Shannon/snowglobe/engine/loader"
	"github.com/Carmen-Shannon/snowglobe/engine/scene"
)

const (
	modelDir = "models"
	imageDir = "images"

	lampPostFile = "lamp_post_4.obj"
	tableFile    = "table_with_tex.obj"
)

// textureFile names an image and where its pixels go. Flipped images are stored bottom row first.
type textureFile struct {
	name string
	flip bool
	dst  *common.TextureStagingData
}

// loadAssets imports the scene's meshes and decodes its textures from dir.
func loadAssets(l loader.Loader, dir string) (scene.Assets, error) {
	var assets scene.Assets
	var err error

	if assets.LampPost, err = l.LoadMesh(filepath.Join(dir, modelDir, lampPostFile)); err != nil {
		return assets, err
	}
	if assets.Table, err = l.LoadMesh(filepath.Join(dir, modelDir, tableFile)); err != nil {
		return assets, err
	}

	files := []textureFile{
		{"glass1.jpg", false, &assets.Glass},
		{"snowflake2.png", false, &assets.Snowflake},
		{"wooden_plank_2.jpg", false, &assets.Floor},
		{"wooden_plank_3.jpg", false, &assets.Wall},
		{"wood_table_1.jpg", true, &assets.TableWood},
		{"old_house_window.jpg", true, &assets.Window},
	}

	for _, flip := range []bool{false, true} {
		var paths []string
		for _, f := range files {
			if f.flip == flip {
				paths = append(paths, filepath.Join(dir, imageDir, f.name))
			}
		}

		decoded, err := l.LoadTextures(paths, flip)
		if err != nil {
			return assets, fmt.Errorf("load textures: %w", err)
		}
		for _, f := range files {
			if f.flip == flip {
				*f.dst = decoded[filepath.Join(dir, imageDir, f.name)]
			}
		}
	}

	return assets, nil
}
