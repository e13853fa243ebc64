package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/snowglobe/engine/model"
)

// objLoaderBackendImpl loads Wavefront OBJ files. Material libraries are ignored; textures are
// chosen by the caller.
type objLoaderBackendImpl struct{}

var _ loaderBackend = &objLoaderBackendImpl{}

func newOBJLoaderBackend() loaderBackend {
	return &objLoaderBackendImpl{}
}

func (b *objLoaderBackendImpl) Load(path string) (*model.ImportedModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open obj file %s: %w", path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return b.LoadReader(name, f)
}

func (b *objLoaderBackendImpl) LoadReader(name string, r io.Reader) (*model.ImportedModel, error) {
	return parseOBJ(name, r)
}
