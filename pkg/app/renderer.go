package app

import (
	"image"
	"image/color"
	"sort"

	"github.com/decker502/scenery/pkg/game"
	"github.com/decker502/scenery/pkg/gfx"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer 将场景中的游戏对象投影到屏幕
//
// 使用透视相机；对象按视深从远到近绘制（画家算法），不做深度测试
type Renderer struct {
	width, height int
	proj          mgl32.Mat4
	view          mgl32.Mat4

	// white 用于没有纹理的对象，顶点颜色即 tint
	white *ebiten.Image

	vertices []ebiten.Vertex
}

// NewRenderer 创建渲染器，相机位于 (0, 2, 10) 看向原点
func NewRenderer(width, height int) *Renderer {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)

	r := &Renderer{
		white: white,
		view:  mgl32.LookAtV(mgl32.Vec3{0, 2, 10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}),
	}
	r.Resize(width, height)
	return r
}

// Resize 按新的屏幕尺寸更新投影矩阵
func (r *Renderer) Resize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.proj = mgl32.Perspective(mgl32.DegToRad(60), float32(width)/float32(height), 0.1, 100)
}

type drawItem struct {
	obj   *gfx.GameObject
	mvp   mgl32.Mat4
	depth float32
}

// DrawScenes 绘制所有场景的游戏对象
func (r *Renderer) DrawScenes(screen *ebiten.Image, scenes []*game.Scene) {
	viewProj := r.proj.Mul4(r.view)

	var items []drawItem
	for _, s := range scenes {
		s.GameObjects().Read(func(objs []*gfx.GameObject) {
			for _, obj := range objs {
				model := obj.ModelMatrix()
				center := r.view.Mul4(model).Col(3)
				items = append(items, drawItem{obj: obj, mvp: viewProj.Mul4(model), depth: center.Z()})
			}
		})
	}

	// 视图空间中 Z 越小越远
	sort.SliceStable(items, func(i, j int) bool { return items[i].depth < items[j].depth })

	for _, it := range items {
		r.drawObject(screen, it.obj, it.mvp)
	}
}

func (r *Renderer) drawObject(screen *ebiten.Image, obj *gfx.GameObject, mvp mgl32.Mat4) {
	mesh := obj.Mesh()
	if mesh == nil || mesh.Indices == nil {
		return
	}

	src := r.white
	srcRect := image.Rect(1, 1, 2, 2)
	tint := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if mat := obj.Material(); mat != nil {
		tint = mat.Tint
		if mat.Texture != nil && mat.Texture.Image() != nil {
			src = mat.Texture.Image()
			srcRect = image.Rect(0, 0, mat.Texture.Width(), mat.Texture.Height())
		}
	}

	cr := float32(tint.R) / 255
	cg := float32(tint.G) / 255
	cb := float32(tint.B) / 255
	ca := float32(tint.A) / 255

	r.vertices = r.vertices[:0]
	for _, v := range mesh.Vertices {
		clip := mvp.Mul4x1(v.Position.Vec4(1))
		if clip.W() <= 0 {
			// 顶点在相机后方，整个对象跳过
			return
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		r.vertices = append(r.vertices, ebiten.Vertex{
			DstX:   (ndc.X() + 1) / 2 * float32(r.width),
			DstY:   (1 - ndc.Y()) / 2 * float32(r.height),
			SrcX:   float32(srcRect.Min.X) + v.U*float32(srcRect.Dx()),
			SrcY:   float32(srcRect.Min.Y) + v.V*float32(srcRect.Dy()),
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}

	screen.DrawTriangles(r.vertices, mesh.Indices.Indices(), src, nil)
}
