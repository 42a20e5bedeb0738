package renderer

import (
	"time"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/lights"
	"github.com/df07/go-soft-renderer/pkg/material"
	"github.com/df07/go-soft-renderer/pkg/scene"
	"github.com/df07/go-soft-renderer/pkg/texture"
)

// cullTolerance is how far past perpendicular a face may turn away from the
// camera before it is culled
const cullTolerance = -0.1

// view is the camera state fixed for one frame
type view struct {
	cam          *PerspectiveCamera
	localToWorld core.Transform
	worldToLocal core.Transform
	position     core.Vec3
	backward     core.Vec3
}

func (c *PerspectiveCamera) view() view {
	localToWorld := c.node.LocalToWorld()
	// backward takes the linear part only. Node.Backward includes the camera
	// translation, which tilts the culling test for any camera off the origin.
	return view{
		cam:          c,
		localToWorld: localToWorld,
		worldToLocal: localToWorld.Inverse(),
		position:     localToWorld.TranslationPart(),
		backward:     localToWorld.ApplyDirection(core.UnitY.Negate()).Normalize(),
	}
}

// ScreenToWorldPoint lets the frame view stand in for the camera when sampling the skybox
func (v view) ScreenToWorldPoint(screen core.Vec2) core.Vec3 {
	return v.cam.unproject(v.localToWorld, screen)
}

// Render draws s into the camera's buffers. Both buffers are fully
// overwritten; the color buffer starts from the skybox and the depth buffer
// from the far clip distance. Renderables without a mesh or material are skipped.
func (c *PerspectiveCamera) Render(s *scene.Scene) {
	start := time.Now()
	c.stats = RenderStats{}

	v := c.view()
	c.clear(v)

	base := material.ShaderContext{
		CameraPosition: v.position,
		Lights:         collectLights(s),
	}

	for node := range s.All() {
		r, ok := node.Renderable()
		if !ok || r.Mesh == nil || r.Material == nil {
			continue
		}
		c.renderMesh(v, node.LocalToWorld(), r, base)
	}

	c.stats.Duration = time.Since(start)
	c.logger.Debug("frame rendered", "stats", c.stats)
}

func (c *PerspectiveCamera) clear(v view) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.pixels.SetRGBA(x, y, c.skybox.Pixel(v, x, y))
		}
	}
	for i := range c.depth {
		c.depth[i] = c.far
	}
}

// collectLights snapshots every light source in the scene at its world position
func collectLights(s *scene.Scene) []lights.Light {
	var active []lights.Light
	for node := range s.All() {
		if src, ok := node.Component().(lights.Source); ok && src != nil {
			active = append(active, lights.Light{Source: src, Origin: node.Position()})
		}
	}
	return active
}

func (c *PerspectiveCamera) renderMesh(v view, modelToWorld core.Transform, r *scene.Renderable, base material.ShaderContext) {
	rs := rasterizer{
		cam:     c,
		shaders: material.Resolve(r.Material),
		ctx:     base,
	}
	rs.ctx.ModelToWorld = modelToWorld

	for _, tri := range r.Mesh {
		c.stats.Triangles++

		world := tri.Transform(modelToWorld)
		normal := world.Normal()
		if !rs.shaders.TwoSided && v.backward.Dot(normal) < cullTolerance {
			c.stats.Culled++
			continue
		}
		rs.ctx.WorldNormal = normal

		rs.triangle(
			vertex{screen: c.project(v.worldToLocal, world.A), world: world.A, uv: lookupUV(r.UVs, tri.A)},
			vertex{screen: c.project(v.worldToLocal, world.B), world: world.B, uv: lookupUV(r.UVs, tri.B)},
			vertex{screen: c.project(v.worldToLocal, world.C), world: world.C, uv: lookupUV(r.UVs, tri.C)},
		)
		c.stats.Rasterized++
	}
}

// lookupUV resolves a model-space vertex, defaulting to (0,0) without a map
func lookupUV(uvs texture.UVMap, p core.Vec3) core.Vec2 {
	if uvs == nil {
		return core.Vec2{}
	}
	return uvs.Lookup(p)
}
