package renderer

import (
	"fmt"
	"image"
	"log/slog"
	"time"
)

// RenderStats counts the work done by one render
type RenderStats struct {
	Triangles  int           // Triangles submitted
	Culled     int           // Triangles rejected by backface culling
	Rasterized int           // Triangles scan-converted
	Fragments  int           // Shader invocations
	Writes     int           // Non-transparent samples that passed the depth test
	Duration   time.Duration // Wall time of the render
}

// LogValue groups the statistics in structured logs
func (s RenderStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("triangles", s.Triangles),
		slog.Int("culled", s.Culled),
		slog.Int("rasterized", s.Rasterized),
		slog.Int("fragments", s.Fragments),
		slog.Int("writes", s.Writes),
		slog.Duration("duration", s.Duration),
	)
}

func (s RenderStats) String() string {
	return fmt.Sprintf("%d triangles (%d culled), %d fragments, %d writes in %v",
		s.Triangles, s.Culled, s.Fragments, s.Writes, s.Duration.Round(time.Microsecond))
}

// AverageLuminance returns the mean Rec. 709 relative luminance of img in [0, 1]
func AverageLuminance(img *image.RGBA) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	var sum float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			sum += 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
		}
	}
	return sum / 255 / float64(b.Dx()*b.Dy())
}
