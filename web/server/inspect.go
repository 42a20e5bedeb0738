package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/renderer"
	"github.com/df07/go-soft-renderer/pkg/scene"
)

// InspectResponse describes what was drawn at one pixel
type InspectResponse struct {
	X        int         `json:"x"`
	Y        int         `json:"y"`
	Hit      bool        `json:"hit"`
	Color    string      `json:"color"` // #rrggbbaa
	Depth    float64     `json:"depth,omitempty"`
	Point    *[3]float64 `json:"point,omitempty"` // world position of the surface
	Node     string      `json:"node,omitempty"`
	Material string      `json:"material,omitempty"`
	Triangle int         `json:"triangle"` // index into the node's mesh, -1 when nothing was hit
}

// handleInspect renders the scene and reports the color, depth and nearest
// surface under a pixel
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	q := r.URL.Query()
	x, err := parseIntParam(q, "x", -1, 0, req.Width-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	y, err := parseIntParam(q, "y", -1, 0, req.Height-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if x < 0 || y < 0 {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}

	setup, err := s.createScene(req, s.logger)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	setup.Render()

	writeJSON(w, http.StatusOK, inspectPixel(setup.Scene, setup.Camera, x, y))
}

// inspectPixel reads back the buffers of a rendered camera at (x, y)
func inspectPixel(s *scene.Scene, cam *renderer.PerspectiveCamera, x, y int) InspectResponse {
	c := cam.Pixels().RGBAAt(x, y)
	resp := InspectResponse{
		X:        x,
		Y:        y,
		Color:    fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A),
		Triangle: -1,
	}

	_, far := cam.ClippingDistance()
	depth := cam.DepthAt(x, y)
	if depth >= far {
		return resp
	}
	resp.Hit = true
	resp.Depth = depth

	point := pixelToWorld(cam, x, y, depth)
	resp.Point = &[3]float64{point.X, point.Y, point.Z}

	node, tri, ok := nearestSurface(s, point)
	if ok {
		resp.Node = node.String()
		if rend, ok := node.Renderable(); ok {
			resp.Material = fmt.Sprintf("%T", rend.Material)
		}
		resp.Triangle = tri
	}
	return resp
}

// pixelToWorld returns the world point at the given view depth along the
// ray through the center of a pixel
func pixelToWorld(cam *renderer.PerspectiveCamera, x, y int, depth float64) core.Vec3 {
	w, h := cam.Size()
	halfW, halfH := float64(w)/2, float64(h)/2
	focal := cam.FocalLength()

	dir := core.Vec3{
		X: (float64(x) + 0.5 - halfW) / (halfW * focal),
		Y: 1,
		Z: (float64(y) + 0.5 - halfH) / (halfH * focal),
	}.Normalize()
	return cam.Node().LocalToWorld().Apply(dir.Multiply(depth))
}

// nearestSurface finds the renderable triangle closest to a world point
func nearestSurface(s *scene.Scene, p core.Vec3) (scene.Node, int, bool) {
	var best scene.Node
	bestTri := -1
	bestDist := math.Inf(1)
	for node := range s.All() {
		r, ok := node.Renderable()
		if !ok || r.Material == nil {
			continue
		}
		mesh := core.TransformMesh(r.Mesh, node.LocalToWorld())
		if core.MeshBounds(mesh).Distance(p) >= bestDist {
			continue
		}
		for i, tri := range mesh {
			d := closestPointOnTriangle(p, tri).Distance(p)
			if d < bestDist {
				best, bestTri, bestDist = node, i, d
			}
		}
	}
	return best, bestTri, bestTri >= 0
}

// closestPointOnTriangle returns the point of t nearest to p by Voronoi
// region classification
func closestPointOnTriangle(p core.Vec3, t core.Triangle) core.Vec3 {
	ab := t.B.Subtract(t.A)
	ac := t.C.Subtract(t.A)
	ap := p.Subtract(t.A)

	d1, d2 := ab.Dot(ap), ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return t.A
	}

	bp := p.Subtract(t.B)
	d3, d4 := ab.Dot(bp), ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return t.B
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return t.A.Add(ab.Multiply(d1 / (d1 - d3)))
	}

	cp := p.Subtract(t.C)
	d5, d6 := ab.Dot(cp), ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return t.C
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return t.A.Add(ac.Multiply(d2 / (d2 - d6)))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		return t.B.Add(t.C.Subtract(t.B).Multiply((d4 - d3) / ((d4 - d3) + (d5 - d6))))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return t.A.Add(ab.Multiply(v)).Add(ac.Multiply(w))
}
