package printer

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Label font sizes in points at 72 DPI, so one point is one pixel
const (
	TitleFontSize       = 40
	InstructionFontSize = 16
)

// FontSource is one strategy for obtaining a label face
type FontSource interface {
	Name() string
	Face(size float64) (font.Face, error)
}

// TrueTypeFile loads a TrueType/OpenType font from disk
type TrueTypeFile string

func (p TrueTypeFile) Name() string { return string(p) }

func (p TrueTypeFile) Face(size float64) (font.Face, error) {
	data, err := os.ReadFile(string(p))
	if err != nil {
		return nil, err
	}
	return parseFace(data, size)
}

type embeddedFont struct {
	name string
	data []byte
}

// GoRegular is the Go font family's regular face, compiled into the binary
func GoRegular() FontSource {
	return embeddedFont{name: "Go Regular", data: goregular.TTF}
}

func (f embeddedFont) Name() string { return f.name }

func (f embeddedFont) Face(size float64) (font.Face, error) {
	return parseFace(f.data, size)
}

type builtinFont struct{}

// Builtin is the fixed-size 7x13 bitmap face. It ignores the requested size and never fails.
func Builtin() FontSource { return builtinFont{} }

func (builtinFont) Name() string { return "builtin 7x13" }

func (builtinFont) Face(float64) (font.Face, error) {
	return basicfont.Face7x13, nil
}

func parseFace(data []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// SystemFonts lists the usual locations of Arial and its metric-compatible stand-ins
func SystemFonts() []FontSource {
	paths := []string{"arial.ttf"}
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		paths = append(paths, filepath.Join(windir, "Fonts", "arial.ttf"))
	case "darwin":
		paths = append(paths,
			"/Library/Fonts/Arial.ttf",
			"/System/Library/Fonts/Supplemental/Arial.ttf",
		)
	default:
		paths = append(paths,
			"/usr/share/fonts/truetype/msttcorefonts/Arial.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		)
	}

	sources := make([]FontSource, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, TrueTypeFile(p))
	}
	return sources
}

// DefaultFontSources is the preferred font (if any), then system fonts, then Go Regular.
// Builtin is always tried last by LoadFace and need not be listed.
func DefaultFontSources(preferred string) []FontSource {
	var sources []FontSource
	if preferred != "" {
		sources = append(sources, TrueTypeFile(preferred))
	}
	sources = append(sources, SystemFonts()...)
	return append(sources, GoRegular())
}

// LoadFace tries each source in order and returns the first face that loads,
// along with the name of the source used. When every source fails it returns
// the builtin face.
func LoadFace(sources []FontSource, size float64, logger *zap.Logger) (font.Face, string) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, src := range sources {
		face, err := src.Face(size)
		if err != nil {
			logger.Debug("font unavailable", zap.String("font", src.Name()), zap.Error(err))
			continue
		}
		return face, src.Name()
	}

	fallback := Builtin()
	face, _ := fallback.Face(size)
	logger.Info("using builtin label font", zap.Float64("size", size))
	return face, fallback.Name()
}
