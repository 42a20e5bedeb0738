package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-soft-renderer/pkg/core"
	"github.com/df07/go-soft-renderer/pkg/presets"
	"github.com/df07/go-soft-renderer/pkg/renderer"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene  string  `json:"scene"`  // Preset id or file:<name>
	Width  int     `json:"width"`  // Image width
	Height int     `json:"height"` // Image height
	Angle  float64 `json:"angle"`  // Spin applied to the subjects, in degrees
	Frames int     `json:"frames"` // Frames in an animation
}

// Stats represents render statistics
type Stats struct {
	Triangles  int     `json:"triangles"`
	Culled     int     `json:"culled"`
	Rasterized int     `json:"rasterized"`
	Fragments  int     `json:"fragments"`
	Writes     int     `json:"writes"`
	ElapsedUs  int64   `json:"elapsedUs"`
	Luminance  float64 `json:"luminance"`
}

func newStats(rs renderer.RenderStats, frame *image.RGBA) Stats {
	return Stats{
		Triangles:  rs.Triangles,
		Culled:     rs.Culled,
		Rasterized: rs.Rasterized,
		Fragments:  rs.Fragments,
		Writes:     rs.Writes,
		ElapsedUs:  rs.Duration.Microseconds(),
		Luminance:  renderer.AverageLuminance(frame),
	}
}

// FrameUpdate is a single animation frame sent via SSE
type FrameUpdate struct {
	Frame       int    `json:"frame"`
	TotalFrames int    `json:"totalFrames"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleRender renders one frame and responds with a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	setup, err := s.createScene(req, s.logger)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	setup.Render()

	var buf bytes.Buffer
	if err := png.Encode(&buf, setup.Camera.Pixels()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	stats := setup.Camera.Stats()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Triangles", strconv.Itoa(stats.Rasterized))
	w.Header().Set("X-Render-Duration", stats.Duration.String())
	w.Write(buf.Bytes())
}

// handleAnimate streams a full turn of the scene's subjects as SSE frames,
// along with the render log
func (s *Server) handleAnimate(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	events := make(chan SSEEvent, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writeSSEEvents(ctx, w, events)
	}()
	defer func() {
		close(events)
		<-done
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		sendEvent(ctx, events, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	logger := slog.New(newConsoleHandler(events, slog.LevelDebug))
	setup, err := s.createScene(req, logger)
	if err != nil {
		sendEvent(ctx, events, "error", err.Error())
		return
	}

	start := time.Now()
	step := 2 * math.Pi / float64(req.Frames)
	for frame := 0; frame < req.Frames; frame++ {
		if ctx.Err() != nil {
			return
		}
		if frame > 0 {
			setup.Spin(step)
		}
		setup.Render()

		imageData, err := imageToBase64PNG(setup.Camera.Pixels())
		if err != nil {
			sendEvent(ctx, events, "error", fmt.Sprintf("failed to encode image: %v", err))
			return
		}
		update, err := json.Marshal(FrameUpdate{
			Frame:       frame + 1,
			TotalFrames: req.Frames,
			ImageData:   imageData,
			Stats:       newStats(setup.Camera.Stats(), setup.Camera.Pixels()),
			ElapsedMs:   time.Since(start).Milliseconds(),
		})
		if err != nil {
			sendEvent(ctx, events, "error", err.Error())
			return
		}
		sendEvent(ctx, events, "frame", string(update))
	}
	sendEvent(ctx, events, "complete", "Rendering completed")
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes every event from a single goroutine until the
// channel closes or the client disconnects
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, events <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		case <-ctx.Done():
			// Drain so senders never block on a departed client
			for range events {
			}
			return
		}
	}
}

// sendEvent queues an event, giving up if the client has gone
func sendEvent(ctx context.Context, events chan<- SSEEvent, eventType, data string) {
	select {
	case events <- SSEEvent{Type: eventType, Data: data}:
	case <-ctx.Done():
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	q := r.URL.Query()
	req := &RenderRequest{Scene: q.Get("scene")}
	if req.Scene == "" {
		req.Scene = "wireframe-cube"
	}

	var err error
	if req.Width, err = parseIntParam(q, "width", presets.DefaultWidth, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(q, "height", presets.DefaultHeight, 1, 2000); err != nil {
		return nil, err
	}
	if req.Angle, err = parseFloatParam(q, "angle", 0, -360, 360); err != nil {
		return nil, err
	}
	if req.Frames, err = parseIntParam(q, "frames", 12, 1, 360); err != nil {
		return nil, err
	}
	return req, nil
}

// createScene builds the requested scene and applies its starting angle
func (s *Server) createScene(req *RenderRequest, logger *slog.Logger) (*presets.Setup, error) {
	setup, err := presets.Load(req.Scene, s.scenesDir, req.Width, req.Height)
	if err != nil {
		return nil, err
	}
	setup.Camera.SetLogger(logger)
	if req.Angle != 0 {
		setup.Spin(req.Angle * core.DegToRad)
	}
	return setup, nil
}

func statusFor(err error) int {
	if errors.Is(err, presets.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(parsed) {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
