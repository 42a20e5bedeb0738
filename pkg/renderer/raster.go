package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/material"
)

// vertex is a projected triangle corner: screen X/Y in pixels with depth in Z,
// plus the world position and texture coordinate carried along for shading
type vertex struct {
	screen core.Vec3
	world  core.Vec3
	uv     core.Vec2
}

func lerpVertex(a, b vertex, t float64) vertex {
	return vertex{
		screen: core.Lerp3(a.screen, b.screen, t),
		world:  core.Lerp3(a.world, b.world, t),
		uv:     core.Lerp2(a.uv, b.uv, t),
	}
}

// rasterizer draws the triangles of one renderable into a camera's buffers
type rasterizer struct {
	cam     *PerspectiveCamera
	shaders material.Shaders
	ctx     material.ShaderContext
}

// triangle scan-converts a projected triangle. The interior is filled first,
// then the three edges, then the three vertices, so later stages paint over earlier ones.
func (r *rasterizer) triangle(v1, v2, v3 vertex) {
	if v1.screen.Y > v2.screen.Y {
		v1, v2 = v2, v1
	}
	if v2.screen.Y > v3.screen.Y {
		v2, v3 = v3, v2
	}
	if v1.screen.Y > v2.screen.Y {
		v1, v2 = v2, v1
	}

	switch {
	case v2.screen.Y == v3.screen.Y:
		r.flatBottom(v1, v2, v3)
	case v1.screen.Y == v2.screen.Y:
		r.flatTop(v1, v2, v3)
	default:
		// Split at the middle vertex's row. The split point is interpolated
		// from the bottom vertex toward the top one.
		t := (v2.screen.Y - v3.screen.Y) / (v1.screen.Y - v3.screen.Y)
		split := vertex{
			screen: core.Vec3{
				X: v1.screen.X + ((v2.screen.Y-v1.screen.Y)/(v3.screen.Y-v1.screen.Y))*(v3.screen.X-v1.screen.X),
				Y: v2.screen.Y,
				Z: core.Lerp(v3.screen.Z, v1.screen.Z, t),
			},
			world: core.Lerp3(v3.world, v1.world, t),
			uv:    core.Lerp2(v3.uv, v1.uv, t),
		}
		r.flatBottom(v1, v2, split)
		r.flatTop(v2, split, v3)
	}

	r.line(v1, v2, r.shaders.Edge)
	r.line(v2, v3, r.shaders.Edge)
	r.line(v1, v3, r.shaders.Edge)

	r.plot(v1, r.shaders.Vertex)
	r.plot(v2, r.shaders.Vertex)
	r.plot(v3, r.shaders.Vertex)
}

// flatBottom fills a triangle whose lower edge b-c is horizontal, walking
// rows downward from the apex a
func (r *rasterizer) flatBottom(a, b, c vertex) {
	invSlope1 := (b.screen.X - a.screen.X) / (b.screen.Y - a.screen.Y)
	invSlope2 := (c.screen.X - a.screen.X) / (c.screen.Y - a.screen.Y)
	startX := math.Floor(a.screen.X)

	start := math.Floor(a.screen.Y)
	end := math.Floor(b.screen.Y)
	for scan := math.Max(start, -1); scan < math.Min(end, r.rowLimit()); scan++ {
		rows := scan - start
		t := rows / (end - start)

		left := lerpVertex(a, b, t)
		left.screen = core.Vec3{X: startX + invSlope1*rows, Y: scan, Z: left.screen.Z}
		right := lerpVertex(a, c, t)
		right.screen = core.Vec3{X: startX + invSlope2*rows, Y: scan, Z: right.screen.Z}

		r.line(left, right, r.shaders.Fragment)
	}
}

// flatTop fills a triangle whose upper edge a-b is horizontal, walking rows
// upward from the apex c
func (r *rasterizer) flatTop(a, b, c vertex) {
	invSlope1 := (c.screen.X - a.screen.X) / (c.screen.Y - a.screen.Y)
	invSlope2 := (c.screen.X - b.screen.X) / (c.screen.Y - b.screen.Y)
	startX := math.Floor(c.screen.X)

	start := math.Floor(c.screen.Y)
	end := math.Floor(a.screen.Y)
	for scan := math.Min(start, r.rowLimit()); scan > math.Max(end, -2); scan-- {
		rows := start - scan
		t := (scan - start) / (end - start)

		left := lerpVertex(c, a, t)
		left.screen = core.Vec3{X: startX - invSlope1*rows, Y: scan, Z: left.screen.Z}
		right := lerpVertex(c, b, t)
		right.screen = core.Vec3{X: startX - invSlope2*rows, Y: scan, Z: right.screen.Z}

		r.line(left, right, r.shaders.Fragment)
	}
}

// rowLimit is one past the last row that can still reach the frame
func (r *rasterizer) rowLimit() float64 {
	return float64(r.cam.height) + 1
}

// line walks from a to b in steps of one pixel of 2D distance, shading and
// writing each sample. A zero-length span draws nothing. Samples far outside
// the frame are skipped without shading.
func (r *rasterizer) line(a, b vertex, shade material.ShadeFunc) {
	dx := b.screen.X - a.screen.X
	dy := b.screen.Y - a.screen.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 || math.IsNaN(dist) || math.IsInf(dist, 0) {
		return
	}

	lo, hi, ok := r.clip(a.screen, dx, dy)
	if !ok {
		return
	}
	first := math.Ceil(lo*dist) / dist
	for step := 0.0; ; step++ {
		i := first + step/dist
		if i >= 1 || i > hi {
			break
		}
		r.plot(lerpVertex(a, b, i), shade)
	}
}

// clip returns the parameter range of the segment p + t*(dx,dy), t in [0,1],
// that lies within one pixel of the frame
func (r *rasterizer) clip(p core.Vec3, dx, dy float64) (lo, hi float64, ok bool) {
	const margin = 1.0
	maxX := float64(r.cam.width) + margin
	maxY := float64(r.cam.height) + margin

	lo, hi = 0, 1
	bounds := [4][2]float64{
		{-dx, p.X + margin},
		{dx, maxX - p.X},
		{-dy, p.Y + margin},
		{dy, maxY - p.Y},
	}
	for _, b := range bounds {
		denom, dist := b[0], b[1]
		if denom == 0 {
			if dist < 0 {
				return 0, 0, false
			}
			continue
		}
		t := dist / denom
		if denom < 0 {
			if t > hi {
				return 0, 0, false
			}
			lo = math.Max(lo, t)
		} else {
			if t < lo {
				return 0, 0, false
			}
			hi = math.Min(hi, t)
		}
	}
	return lo, hi, true
}

// plot shades one sample and writes it through the pixel write rule
func (r *rasterizer) plot(v vertex, shade material.ShadeFunc) {
	ctx := r.ctx
	ctx.WorldPosition = v.world
	ctx.ScreenPixel = v.screen
	ctx.UV = v.uv

	r.cam.stats.Fragments++
	r.cam.setPixel(v.screen, shade(ctx))
}

// setPixel writes c at the truncated screen position when its depth lies in
// [near, stored). The stored depth and color move toward the new values by
// the color's opacity.
func (c *PerspectiveCamera) setPixel(p core.Vec3, col color.RGBA) {
	x, y := int(p.X), int(p.Y)
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}

	i := y*c.width + x
	stored := c.depth[i]
	if p.Z < c.near || p.Z >= stored {
		return
	}

	opacity := float64(col.A) / 255
	c.depth[i] = core.Lerp(stored, p.Z, opacity)
	c.pixels.SetRGBA(x, y, core.BlendRGBA(c.pixels.RGBAAt(x, y), col, opacity))
	if col.A > 0 {
		c.stats.Writes++
	}
}
