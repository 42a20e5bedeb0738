package loaders

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-soft-renderer/pkg/texture"
)

// ImageFormat identifies an image encoding
type ImageFormat int

// Supported image encodings. WebP can be read but not written.
const (
	FormatNone ImageFormat = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatTIFF
	FormatBMP
	FormatWebP
)

func (f ImageFormat) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatGIF:
		return "gif"
	case FormatTIFF:
		return "tiff"
	case FormatBMP:
		return "bmp"
	case FormatWebP:
		return "webp"
	default:
		return "none"
	}
}

// FormatFromExt returns the format for a filename extension, with or without the dot
func FormatFromExt(ext string) (ImageFormat, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	case "webp":
		return FormatWebP, nil
	}
	return FormatNone, fmt.Errorf("image extension %q: %w", ext, ErrUnsupportedFormat)
}

// TextureOptions control how an image becomes a texture
type TextureOptions struct {
	Wrap texture.WrapMode
	// MaxSize bounds the larger image dimension; bigger images are
	// downscaled with nearest-neighbour sampling. Zero disables the limit.
	MaxSize int
}

// LoadImage decodes a png, jpeg, gif, tiff, bmp or webp file
func LoadImage(filename string) (image.Image, ImageFormat, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, FormatNone, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, format, err := DecodeImage(file)
	if err != nil {
		return nil, FormatNone, fmt.Errorf("%s: %w", filename, err)
	}
	return img, format, nil
}

// DecodeImage decodes an image, detecting the encoding from its header
func DecodeImage(r io.Reader) (image.Image, ImageFormat, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		if err == image.ErrFormat {
			return nil, FormatNone, fmt.Errorf("failed to decode image: %w", ErrUnsupportedFormat)
		}
		return nil, FormatNone, fmt.Errorf("failed to decode image: %w", err)
	}
	format, err := FormatFromExt(name)
	return img, format, err
}

// LoadTexture loads an image file as a pixel texture
func LoadTexture(filename string, opts TextureOptions) (*texture.PixelTexture, error) {
	img, _, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	return NewTexture(img, opts), nil
}

// NewTexture converts a decoded image into a texture, applying opts
func NewTexture(img image.Image, opts TextureOptions) *texture.PixelTexture {
	if opts.MaxSize > 0 {
		img = fitWithin(img, opts.MaxSize)
	}
	return texture.NewPixelTexture(img, opts.Wrap)
}

// fitWithin shrinks img so neither dimension exceeds limit, keeping the aspect ratio
func fitWithin(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return img
	}
	if w >= h {
		h = max(1, h*limit/w)
		w = limit
	} else {
		w = max(1, w*limit/h)
		h = limit
	}
	return transform.Resize(img, w, h, transform.NearestNeighbor)
}

// SaveImage writes img to filename, choosing the encoding from the extension
func SaveImage(img image.Image, filename string) error {
	format, err := FormatFromExt(filepath.Ext(filename))
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if err := EncodeImage(file, img, format); err != nil {
		file.Close()
		return fmt.Errorf("%s: %w", filename, err)
	}
	return file.Close()
}

// EncodeImage writes img in the given format
func EncodeImage(w io.Writer, img image.Image, format ImageFormat) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatTIFF:
		return tiff.Encode(w, img, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("encoding %s: %w", format, ErrUnsupportedFormat)
	}
}
