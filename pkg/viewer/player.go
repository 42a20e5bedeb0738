// Package viewer drives a preset in real time for interactive front ends.
// It owns the animation clock and the upscaled frame; the windowing layer
// only forwards input and copies Frame to the screen.
package viewer

import (
	"errors"
	"image"
	"math"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/df07/go-soft-renderer/pkg/presets"
)

// DefaultSpeed is one full turn every six seconds
const DefaultSpeed = 2 * math.Pi / 6

// Player spins a setup's subjects and renders them at a fixed upscale
type Player struct {
	setup  *presets.Setup
	scale  int
	speed  float64 // radians per second
	paused bool
	angle  float64
	frame  *image.RGBA
}

// NewPlayer wraps setup. Frames are enlarged by scale using nearest
// neighbour sampling; speed is in radians per second.
func NewPlayer(setup *presets.Setup, scale int, speed float64) (*Player, error) {
	if setup == nil {
		return nil, errors.New("viewer: nil setup")
	}
	if scale < 1 {
		scale = 1
	}
	w, h := setup.Camera.Size()
	return &Player{
		setup: setup,
		scale: scale,
		speed: speed,
		frame: image.NewRGBA(image.Rect(0, 0, w*scale, h*scale)),
	}, nil
}

// Size returns the dimensions of Frame
func (p *Player) Size() (width, height int) {
	b := p.frame.Bounds()
	return b.Dx(), b.Dy()
}

// Paused reports whether the animation clock is stopped
func (p *Player) Paused() bool { return p.paused }

// TogglePause stops or resumes the spin
func (p *Player) TogglePause() { p.paused = !p.paused }

// Angle returns the total spin applied so far, in radians
func (p *Player) Angle() float64 { return p.angle }

// Nudge spins the subjects by angle radians regardless of pause state
func (p *Player) Nudge(angle float64) {
	p.setup.Spin(angle)
	p.angle += angle
}

// Step advances the clock by dt, renders and returns the upscaled frame.
// The returned image is reused by later calls.
func (p *Player) Step(dt time.Duration) *image.RGBA {
	if !p.paused && dt > 0 {
		p.Nudge(p.speed * dt.Seconds())
	}
	p.setup.Render()

	src := p.setup.Camera.Pixels()
	xdraw.NearestNeighbor.Scale(p.frame, p.frame.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return p.frame
}

// Frame returns the most recent upscaled frame
func (p *Player) Frame() *image.RGBA {
	return p.frame
}

// Setup returns the scene being played
func (p *Player) Setup() *presets.Setup {
	return p.setup
}
