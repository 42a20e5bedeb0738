package core

// Triangle is three vertex positions in a single coordinate space
type Triangle struct {
	A, B, C Vec3
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(a, b, c Vec3) Triangle {
	return Triangle{A: a, B: b, C: c}
}

// Normal returns the unit face normal, (B-A) x (C-A) normalized
func (t Triangle) Normal() Vec3 {
	edge1 := t.B.Subtract(t.A)
	edge2 := t.C.Subtract(t.A)
	return edge1.Cross(edge2).Normalize()
}

// Transform returns the triangle with every vertex mapped through m
func (t Triangle) Transform(m Transform) Triangle {
	return Triangle{
		A: m.Apply(t.A),
		B: m.Apply(t.B),
		C: m.Apply(t.C),
	}
}

// Vertices returns the three vertices in order
func (t Triangle) Vertices() [3]Vec3 {
	return [3]Vec3{t.A, t.B, t.C}
}

// TransformMesh maps every triangle of a mesh through m
func TransformMesh(mesh []Triangle, m Transform) []Triangle {
	out := make([]Triangle, len(mesh))
	for i, tri := range mesh {
		out[i] = tri.Transform(m)
	}
	return out
}
