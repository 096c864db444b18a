package game

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ResourceManager is the AssetLoader used by scenes. It reads asset files
// from a file system (a directory or the embedded data), decodes images, and
// caches the results with reference counting so scenes sharing an asset load
// it once and the last release evicts it.
//
// Thread Safety:
// All methods are safe for concurrent use. Concurrent loads of the same
// identifier are collapsed into a single read.
//
// Usage:
//
//	rm := NewResourceManager(os.DirFS("data"), log)
//	asset, err := rm.LoadAsset(ctx, "textures/grass.png")
//	if err != nil {
//	    return err
//	}
//	defer rm.ReleaseAsset("textures/grass.png")
type ResourceManager struct {
	fsys    fs.FS
	log     *zap.Logger
	latency time.Duration

	mu    sync.Mutex
	cache map[string]*cachedAsset // identifier -> loaded asset
	group singleflight.Group
}

type cachedAsset struct {
	asset *Asset
	refs  int
}

// NewResourceManager creates a ResourceManager reading from fsys.
//
// Parameters:
//   - fsys: file system the asset identifiers are resolved against
//   - log: logger, a nil logger disables logging
func NewResourceManager(fsys fs.FS, log *zap.Logger) *ResourceManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResourceManager{
		fsys:  fsys,
		log:   log.Named("resources"),
		cache: make(map[string]*cachedAsset),
	}
}

// SetLatency adds an artificial delay to every uncached read. The demo uses
// it to make loading progress visible with small embedded assets.
func (rm *ResourceManager) SetLatency(d time.Duration) {
	rm.latency = d
}

// LoadAsset returns the asset with the given identifier, reading and
// decoding it on first use. Each call takes one reference.
//
// Error handling:
//   - Returns an error if the file does not exist or cannot be read.
//   - Returns an error if a .png/.jpg/.jpeg file cannot be decoded.
//   - Returns ctx.Err() if ctx is done before the read finishes.
func (rm *ResourceManager) LoadAsset(ctx context.Context, name string) (*Asset, error) {
	if asset, ok := rm.acquire(name); ok {
		return asset, nil
	}

	ch := rm.group.DoChan(name, func() (interface{}, error) {
		return rm.read(name)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return rm.store(name, res.Val.(*Asset)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ReleaseAsset drops one reference; the asset is evicted at zero.
func (rm *ResourceManager) ReleaseAsset(name string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	entry, ok := rm.cache[name]
	if !ok {
		rm.log.Warn("release of asset that is not cached", zap.String("asset", name))
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(rm.cache, name)
	}
}

// IsCached reports whether the asset is currently held by at least one scene.
func (rm *ResourceManager) IsCached(name string) bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	_, ok := rm.cache[name]
	return ok
}

// RefCount returns the number of outstanding references to the asset.
func (rm *ResourceManager) RefCount(name string) int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if entry, ok := rm.cache[name]; ok {
		return entry.refs
	}
	return 0
}

func (rm *ResourceManager) acquire(name string) (*Asset, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if entry, ok := rm.cache[name]; ok {
		entry.refs++
		return entry.asset, true
	}
	return nil, false
}

func (rm *ResourceManager) store(name string, asset *Asset) *Asset {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	entry, ok := rm.cache[name]
	if !ok {
		entry = &cachedAsset{asset: asset}
		rm.cache[name] = entry
	}
	entry.refs++
	return entry.asset
}

func (rm *ResourceManager) read(name string) (*Asset, error) {
	if rm.latency > 0 {
		time.Sleep(rm.latency)
	}

	data, err := fs.ReadFile(rm.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", name, err)
	}

	asset := &Asset{Name: name, Data: data}

	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
		}
		asset.Image = img
	}

	rm.log.Debug("asset read", zap.String("asset", name), zap.Int("bytes", len(data)))
	return asset, nil
}
