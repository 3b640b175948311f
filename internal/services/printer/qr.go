package printer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"
)

// RecoveryLevel is fixed at Highest (~30% of the symbol can be damaged)
const RecoveryLevel = qrcode.Highest

// Matrix is an encoded QR symbol without its quiet zone. true is a dark module.
type Matrix struct {
	Version int
	Modules [][]bool
}

// Size returns the number of modules per side
func (m *Matrix) Size() int {
	return len(m.Modules)
}

// EncodeMatrix encodes content at the Highest recovery level using the smallest
// version that fits. minVersion raises the floor; a version too small for the
// payload grows automatically.
func EncodeMatrix(content string, minVersion int) (*Matrix, error) {
	q, err := qrcode.New(content, RecoveryLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %d-byte payload: %v", ErrRender, len(content), err)
	}

	if minVersion > q.VersionNumber {
		q, err = qrcode.NewWithForcedVersion(content, minVersion, RecoveryLevel)
		if err != nil {
			return nil, fmt.Errorf("%w: encode %d-byte payload at version %d: %v", ErrRender, len(content), minVersion, err)
		}
	}

	// The renderer draws its own quiet zone
	q.DisableBorder = true

	return &Matrix{
		Version: q.VersionNumber,
		Modules: q.Bitmap(),
	}, nil
}

var qrPalette = color.Palette{color.White, color.Black}

// RenderMatrix rasterises m with moduleSize pixels per module and a quietZone
// module wide white border. Dark modules are black on a white background.
func RenderMatrix(m *Matrix, moduleSize, quietZone int) *image.Paletted {
	side := (m.Size() + 2*quietZone) * moduleSize
	img := image.NewPaletted(image.Rect(0, 0, side, side), qrPalette)

	offset := quietZone * moduleSize
	for row, line := range m.Modules {
		for col, dark := range line {
			if !dark {
				continue
			}
			x0 := offset + col*moduleSize
			y0 := offset + row*moduleSize
			for y := y0; y < y0+moduleSize; y++ {
				start := y*img.Stride + x0
				for i := start; i < start+moduleSize; i++ {
					img.Pix[i] = 1
				}
			}
		}
	}
	return img
}
