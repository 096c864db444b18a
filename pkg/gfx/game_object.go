package gfx

import "github.com/go-gl/mathgl/mgl32"

// GameObject is a mesh/material pair placed in the world by a transform.
// Rotation is stored as Euler angles in degrees.
type GameObject struct {
	Name string

	mesh     *Mesh
	material *Material
	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3
}

// NewGameObject creates an object at the origin with unit scale.
func NewGameObject(mesh *Mesh, material *Material) *GameObject {
	return &GameObject{
		mesh:     mesh,
		material: material,
		scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (g *GameObject) SetPosition(p mgl32.Vec3) { g.position = p }
func (g *GameObject) SetRotation(r mgl32.Vec3) { g.rotation = r }
func (g *GameObject) SetScale(s mgl32.Vec3)    { g.scale = s }

func (g *GameObject) Position() mgl32.Vec3 { return g.position }
func (g *GameObject) Rotation() mgl32.Vec3 { return g.rotation }
func (g *GameObject) Scale() mgl32.Vec3    { return g.scale }
func (g *GameObject) Mesh() *Mesh          { return g.mesh }
func (g *GameObject) Material() *Material  { return g.material }

// ModelMatrix returns translate * rotZ * rotY * rotX * scale.
func (g *GameObject) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(g.position.X(), g.position.Y(), g.position.Z()).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(g.rotation.Z()))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(g.rotation.Y()))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(g.rotation.X()))).
		Mul4(mgl32.Scale3D(g.scale.X(), g.scale.Y(), g.scale.Z()))
}
