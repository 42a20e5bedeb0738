package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/clone"

	"github.com/df07/go-soft-renderer/pkg/loaders"
	"github.com/df07/go-soft-renderer/pkg/presets"
	"github.com/df07/go-soft-renderer/pkg/renderer"
)

// options holds the parsed command line
type options struct {
	scene     string
	file      string
	out       string
	size      string
	scenesDir string
	frames    int
	workers   int
	watch     bool
	verbose   bool
	list      bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("softrender", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.scene, "scene", "wireframe-cube", "Built-in scene, or file:<name> for a file in -scenes")
	fs.StringVar(&opts.file, "file", "", "Scene file to render (.toml, .yaml or .yml); overrides -scene")
	fs.StringVar(&opts.out, "out", "", "Output image path (png, jpg, gif, tiff, bmp); default output/<scene>/render_<timestamp>.png")
	fs.StringVar(&opts.size, "size", "", "Frame size as WIDTHxHEIGHT or a resolution name")
	fs.StringVar(&opts.scenesDir, "scenes", "scenes", "Directory searched for scene files")
	fs.IntVar(&opts.frames, "frames", 1, "Number of frames, spinning the subjects a full turn across them")
	fs.IntVar(&opts.workers, "workers", 0, "Frames rendered in parallel (0 = one per CPU)")
	fs.BoolVar(&opts.watch, "watch", false, "Re-render whenever the -file scene changes")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and resolutions, then exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Software Rasterizer")
		fmt.Fprintln(stderr, "Usage: softrender [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.frames < 1 {
		return opts, fmt.Errorf("-frames must be at least 1, got %d", opts.frames)
	}
	if opts.watch && opts.file == "" {
		return opts, errors.New("-watch needs -file")
	}
	return opts, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if opts.list {
		return listScenes(stdout, opts.scenesDir)
	}

	if err := renderOnce(opts, logger); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	logger.Info("watching scene file", "path", opts.file)
	return watchFile(ctx, opts.file, logger, func() {
		if err := renderOnce(opts, logger); err != nil {
			logger.Error("render failed", "error", err)
		}
	})
}

func listScenes(w io.Writer, dir string) error {
	response, err := presets.ListAllScenes(dir)
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, s := range group.Scenes {
			fmt.Fprintf(w, "  %-20s %s\n", s.ID, s.Description)
		}
	}
	fmt.Fprintln(w, "Resolutions:")
	for _, r := range renderer.Resolutions {
		fmt.Fprintf(w, "  %s\n", r)
	}
	return nil
}

// createScene builds the scene the options ask for
func createScene(opts options) (*presets.Setup, error) {
	var width, height int
	if opts.size != "" {
		var err error
		if width, height, err = renderer.ParseSize(opts.size); err != nil {
			return nil, err
		}
	}

	if opts.file != "" {
		return presets.LoadFile(opts.file, width, height)
	}
	if opts.scene == "" {
		return nil, fmt.Errorf("no scene given: %w", presets.ErrUnknownScene)
	}
	return presets.Load(opts.scene, opts.scenesDir, width, height)
}

// sceneLabel names the output directory for a render
func sceneLabel(opts options) string {
	if opts.file != "" {
		base := filepath.Base(opts.file)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return strings.ReplaceAll(opts.scene, ":", "-")
}

// outputPaths returns one path per frame
func outputPaths(opts options, now time.Time) []string {
	out := opts.out
	if out == "" {
		out = filepath.Join("output", sceneLabel(opts), fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
	}
	if opts.frames == 1 {
		return []string{out}
	}

	ext := filepath.Ext(out)
	stem := strings.TrimSuffix(out, ext)
	paths := make([]string, opts.frames)
	for i := range paths {
		paths[i] = fmt.Sprintf("%s_%03d%s", stem, i, ext)
	}
	return paths
}

// newFrameRenderer gives each worker its own copy of the scene
func newFrameRenderer(opts options, logger *slog.Logger) func() (renderer.FrameRenderer, error) {
	return func() (renderer.FrameRenderer, error) {
		setup, err := createScene(opts)
		if err != nil {
			return nil, err
		}
		setup.Camera.SetLogger(logger)

		var current float64
		return func(angle float64) (*image.RGBA, renderer.RenderStats, error) {
			setup.Spin(angle - current)
			current = angle
			setup.Render()
			return clone.AsRGBA(setup.Camera.Pixels()), setup.Camera.Stats(), nil
		}, nil
	}
}

func renderOnce(opts options, logger *slog.Logger) error {
	paths := outputPaths(opts, time.Now())
	if err := os.MkdirAll(filepath.Dir(paths[0]), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	pool, err := renderer.NewWorkerPool(newFrameRenderer(opts, logger), len(paths), opts.workers)
	if err != nil {
		return err
	}
	logger.Debug("rendering frames", "frames", len(paths), "workers", pool.GetNumWorkers())

	// A full turn is split into frames+1 steps so the last frame differs from the first
	step := 2 * math.Pi / float64(opts.frames+1)
	pool.Start()
	for i := range paths {
		pool.SubmitTask(renderer.FrameTask{Index: i, Angle: float64(i) * step})
	}
	pool.Stop()

	var errs []error
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		path := paths[result.Index]
		if result.Err == nil {
			result.Err = loaders.SaveImage(result.Image, path)
		}
		if result.Err != nil {
			errs = append(errs, fmt.Errorf("frame %d: %w", result.Index, result.Err))
			continue
		}
		logger.Info("render saved", "path", path, "duration", result.Stats.Duration, "triangles", result.Stats.Rasterized,
			"luminance", renderer.AverageLuminance(result.Image))
	}
	return errors.Join(errs...)
}
