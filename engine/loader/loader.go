package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/Carmen-Shannon/snowglobe/engine/model"
)

// ErrUnsupportedFormat is returned for model files whose extension has no backend.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the Wavefront OBJ loader backend.
	BackendTypeOBJ LoaderBackendType = iota
)

const (
	defaultWorkers   = 4
	taskQueueSize    = 64
	workerIdleExpiry = 1 * time.Second
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	meshCache map[string]*model.Mesh

	backend loaderBackend

	// poolMu guards pool and closed. LoadTextures holds it shared until its batch finishes, so
	// Close cannot stop the pool under a running batch.
	poolMu  sync.RWMutex
	workers int
	pool    worker.DynamicWorkerPool
	closed  bool
}

// Loader loads meshes and textures from disk. Meshes are cached by path; textures are decoded
// concurrently on a bounded worker pool.
type Loader interface {
	// LoadMesh imports a model file, merging all of its objects into one Mesh, and caches the result.
	// If the mesh is already cached (by file path), the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *model.Mesh: the loaded mesh
	//   - error: ErrUnsupportedFormat for unknown extensions, or the parse error
	LoadMesh(path string) (*model.Mesh, error)

	// LoadMeshReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key and mesh name
	//   - r: the reader providing model data
	//
	// Returns:
	//   - *model.Mesh: the loaded mesh
	//   - error: error if parsing fails
	LoadMeshReader(name string, r io.Reader) (*model.Mesh, error)

	// LoadTextures decodes the image files at paths concurrently. Every path is attempted;
	// all failures are joined into the returned error.
	//
	// Parameters:
	//   - paths: the PNG or JPEG files to decode
	//   - flip: reverse the rows of each image so the first row is the bottom of the picture
	//
	// Returns:
	//   - map[string]common.TextureStagingData: the decoded pixels keyed by path
	//   - error: the joined decode errors, or nil when every file loaded
	LoadTextures(paths []string, flip bool) (map[string]common.TextureStagingData, error)

	// Get retrieves a cached mesh by name. Returns nil if not found.
	Get(name string) *model.Mesh

	// Meshes returns a copy of the mesh cache.
	Meshes() map[string]*model.Mesh

	// Close stops the worker pool. Later LoadTextures calls fail.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeOBJ)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		meshCache: make(map[string]*model.Mesh),
		workers:   defaultWorkers,
	}

	switch backendType {
	case BackendTypeOBJ:
		fallthrough
	default:
		l.backend = newOBJLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}

	l.pool = worker.NewDynamicWorkerPool(l.workers, taskQueueSize, workerIdleExpiry)
	return l
}

func (l *loader) LoadMesh(path string) (*model.Mesh, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return l.store(path, model.FromImported(imported)), nil
}

func (l *loader) LoadMeshReader(name string, r io.Reader) (*model.Mesh, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	imported, err := l.backend.LoadReader(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	return l.store(name, model.FromImported(imported)), nil
}

func (l *loader) LoadTextures(paths []string, flip bool) (map[string]common.TextureStagingData, error) {
	l.poolMu.RLock()
	defer l.poolMu.RUnlock()
	if l.closed {
		return nil, errors.New("loader: LoadTextures called after Close")
	}

	var (
		wg      sync.WaitGroup
		resMu   sync.Mutex
		results = make(map[string]common.TextureStagingData, len(paths))
		errs    []error
	)

	for i, path := range paths {
		wg.Add(1)
		l.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()

				tex := common.ImportedTexture{Name: filepath.Base(path), Path: path}
				data, err := tex.Decode(flip)

				resMu.Lock()
				defer resMu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return nil, err
				}
				results[path] = data
				return nil, nil
			},
		})
	}
	wg.Wait()

	if len(errs) > 0 {
		return results, errors.Join(errs...)
	}
	return results, nil
}

func (l *loader) Get(name string) *model.Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.meshCache[name]
}

func (l *loader) Meshes() map[string]*model.Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*model.Mesh, len(l.meshCache))
	for k, v := range l.meshCache {
		result[k] = v
	}
	return result
}

func (l *loader) Close() {
	l.poolMu.Lock()
	defer l.poolMu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.pool.Stop()
}

// store caches m under key unless another caller got there first, returning the cached mesh.
func (l *loader) store(key string, m *model.Mesh) *model.Mesh {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.meshCache[key]; ok {
		return existing
	}
	l.meshCache[key] = m
	return m
}

// resolveBackend selects an appropriate loader backend based on the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
