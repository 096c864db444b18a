package game

import (
	"context"
	"image"
)

// Asset is a loaded, CPU-side resource. Image is set for decodable image
// files (PNG/JPEG); GPU upload happens later on the render goroutine.
type Asset struct {
	Name  string
	Data  []byte
	Image image.Image
}

// AssetLoader loads assets by identifier. Implementations must be safe for
// concurrent use: scenes load their assets from worker goroutines.
//
// Every successful LoadAsset must be balanced by one ReleaseAsset.
type AssetLoader interface {
	LoadAsset(ctx context.Context, name string) (*Asset, error)
	ReleaseAsset(name string)
}
