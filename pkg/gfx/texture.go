// Package gfx holds the thin GPU-resource handles a scene spawns: textures,
// index buffers, meshes and the transformable game objects that reference them.
package gfx

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Texture wraps an ebiten image uploaded from decoded pixel data.
//
// NewTexture must run on the goroutine that owns the graphics context
// (the ebiten game loop); decoding the source image may happen anywhere.
type Texture struct {
	path   string
	image  *ebiten.Image
	width  int
	height int
}

// NewTexture uploads img and returns a handle to it.
//
// Parameters:
//   - path: the asset identifier the pixels were decoded from
//   - img: decoded pixel data
func NewTexture(path string, img image.Image) *Texture {
	b := img.Bounds()
	return &Texture{
		path:   path,
		image:  ebiten.NewImageFromImage(img),
		width:  b.Dx(),
		height: b.Dy(),
	}
}

// Image returns the underlying ebiten image, or nil after Dispose.
func (t *Texture) Image() *ebiten.Image {
	return t.image
}

// Path returns the asset identifier of the texture.
func (t *Texture) Path() string {
	return t.path
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the texture height in pixels.
func (t *Texture) Height() int {
	return t.height
}

// Dispose releases the GPU memory held by the texture. Safe to call twice.
func (t *Texture) Dispose() {
	if t.image == nil {
		return
	}
	t.image.Deallocate()
	t.image = nil
}
