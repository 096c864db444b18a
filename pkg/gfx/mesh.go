package gfx

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is a model-space position with texture coordinates in [0,1].
type Vertex struct {
	Position mgl32.Vec3
	U, V     float32
}

// Mesh is a vertex list plus the index buffer that forms its triangles.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  *IndexBuffer
}

// Material describes how a mesh is shaded. A nil Texture draws Tint only.
type Material struct {
	Texture *Texture
	Tint    color.RGBA
}

// NewQuad returns a w x h rectangle centred on the origin in the XY plane.
func NewQuad(w, h float32) *Mesh {
	hw, hh := w/2, h/2
	return &Mesh{
		Name: "quad",
		Vertices: []Vertex{
			{Position: mgl32.Vec3{-hw, -hh, 0}, U: 0, V: 1},
			{Position: mgl32.Vec3{hw, -hh, 0}, U: 1, V: 1},
			{Position: mgl32.Vec3{hw, hh, 0}, U: 1, V: 0},
			{Position: mgl32.Vec3{-hw, hh, 0}, U: 0, V: 0},
		},
		Indices: NewIndexBuffer([]uint16{0, 1, 2, 0, 2, 3}),
	}
}

// NewCube returns an axis-aligned cube with the given edge length.
// Each face carries its own four vertices so it can be textured independently.
func NewCube(size float32) *Mesh {
	s := size / 2
	faces := [6][4]mgl32.Vec3{
		{{-s, -s, s}, {s, -s, s}, {s, s, s}, {-s, s, s}},     // front
		{{s, -s, -s}, {-s, -s, -s}, {-s, s, -s}, {s, s, -s}}, // back
		{{-s, -s, -s}, {-s, -s, s}, {-s, s, s}, {-s, s, -s}}, // left
		{{s, -s, s}, {s, -s, -s}, {s, s, -s}, {s, s, s}},     // right
		{{-s, s, s}, {s, s, s}, {s, s, -s}, {-s, s, -s}},     // top
		{{-s, -s, -s}, {s, -s, -s}, {s, -s, s}, {-s, -s, s}}, // bottom
	}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint16, 0, 36)
	for f, face := range faces {
		base := uint16(f * 4)
		for i, p := range face {
			vertices = append(vertices, Vertex{Position: p, U: uvs[i][0], V: uvs[i][1]})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return &Mesh{
		Name:     "cube",
		Vertices: vertices,
		Indices:  NewIndexBuffer(indices),
	}
}

// NewMesh builds one of the named primitive meshes ("quad" or "cube").
func NewMesh(kind string, size float32) (*Mesh, error) {
	if size <= 0 {
		size = 1
	}
	switch kind {
	case "", "quad":
		return NewQuad(size, size), nil
	case "cube":
		return NewCube(size), nil
	default:
		return nil, fmt.Errorf("unknown mesh kind %q", kind)
	}
}
