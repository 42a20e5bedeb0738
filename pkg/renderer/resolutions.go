package renderer

import (
	"fmt"
	"slices"
	"strings"
)

// Resolution is a named frame size
type Resolution struct {
	Name   string
	Width  int
	Height int
}

func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d)", r.Name, r.Width, r.Height)
}

// Resolutions lists common frame sizes for icons, social media and displays
var Resolutions = []Resolution{
	{"icon-web", 16, 16},
	{"icon-taskbar", 32, 32},
	{"icon-desktop", 96, 96},

	{"instagram-profile", 110, 110},
	{"facebook-profile", 160, 160},
	{"facebook-cover", 1640, 624},
	{"youtube-profile", 800, 800},
	{"youtube-thumbnail", 1280, 720},
	{"youtube-cover", 2560, 1440},
	{"twitter-profile", 400, 400},
	{"twitter-cover", 1500, 1500},
	{"linkedin-profile", 400, 400},
	{"linkedin-cover", 646, 220},
	{"pinterest-profile", 165, 165},

	{"4:3-480p", 640, 480},
	{"4:3-600p", 800, 600},
	{"4:3-720p", 960, 720},
	{"4:3-768p", 1024, 768},
	{"4:3-960p", 1280, 960},
	{"4:3-1050p", 1400, 1050},
	{"4:3-1080p", 1440, 1080},
	{"4:3-1200p", 1600, 1200},
	{"4:3-1392p", 1856, 1392},
	{"4:3-1440p", 1920, 1440},
	{"4:3-1536p", 2048, 1536},

	{"16:10-800p", 1280, 800},
	{"16:10-900p", 1440, 900},
	{"16:10-1050p", 1680, 1050},
	{"16:10-1200p", 1920, 1200},
	{"16:10-1600p", 2560, 1600},

	{"16:9-576p", 1024, 576},
	{"16:9-648p", 1152, 648},
	{"16:9-720p", 1280, 720},
	{"16:9-768p", 1366, 768},
	{"16:9-900p", 1600, 900},
	{"16:9-1080p", 1920, 1080},
	{"16:9-1440p", 2560, 1440},
	{"16:9-2160p", 3840, 2160},
}

// LookupResolution finds a resolution by case-insensitive name
func LookupResolution(name string) (Resolution, bool) {
	i := slices.IndexFunc(Resolutions, func(r Resolution) bool {
		return strings.EqualFold(r.Name, name)
	})
	if i < 0 {
		return Resolution{}, false
	}
	return Resolutions[i], true
}

// ParseSize accepts either a resolution name or WIDTHxHEIGHT
func ParseSize(s string) (width, height int, err error) {
	if r, ok := LookupResolution(s); ok {
		return r.Width, r.Height, nil
	}
	if _, err := fmt.Sscanf(strings.ToLower(s), "%dx%d", &width, &height); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: want WIDTHxHEIGHT or a resolution name", s)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("size %q: %w", s, ErrInvalidSize)
	}
	return width, height, nil
}
