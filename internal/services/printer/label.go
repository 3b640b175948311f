package printer

import (
	"image"
	"image/color"
	"image/draw"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/xelth-com/eckcheckin/internal/models"
)

// Label band layout in pixels
const (
	LabelBandHeight = 80
	titleTopOffset  = 10 // from the bottom edge of the QR code
	instructionGap  = 50 // from the top of the title line
	InstructionText = "Scan to check in"
	titlePrefix     = "Warehouse: "
)

var instructionGray = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// LabelFaces are the two faces used in the label band
type LabelFaces struct {
	Title             font.Face
	Instruction       font.Face
	TitleSource       string
	InstructionSource string
}

// LoadLabelFaces resolves both label faces from the same source list
func LoadLabelFaces(sources []FontSource, logger *zap.Logger) LabelFaces {
	title, titleName := LoadFace(sources, TitleFontSize, logger)
	small, smallName := LoadFace(sources, InstructionFontSize, logger)
	return LabelFaces{
		Title:             title,
		Instruction:       small,
		TitleSource:       titleName,
		InstructionSource: smallName,
	}
}

// Close releases the faces
func (f LabelFaces) Close() {
	if f.Title != nil {
		_ = f.Title.Close()
	}
	if f.Instruction != nil && f.Instruction != f.Title {
		_ = f.Instruction.Close()
	}
}

// TitleText is the first label line for a warehouse
func TitleText(id models.WarehouseID) string {
	return titlePrefix + string(id)
}

// ComposeLabeled places qr on a white canvas with an 80 px band underneath
// carrying the warehouse title and the scan instruction, both centred.
func ComposeLabeled(qr image.Image, id models.WarehouseID, faces LabelFaces) *image.RGBA {
	qb := qr.Bounds()
	width, qrHeight := qb.Dx(), qb.Dy()

	canvas := image.NewRGBA(image.Rect(0, 0, width, qrHeight+LabelBandHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, 0, width, qrHeight), qr, qb.Min, draw.Src)

	titleTop := qrHeight + titleTopOffset
	drawCentered(canvas, faces.Title, TitleText(id), titleTop, color.Black)
	drawCentered(canvas, faces.Instruction, InstructionText, titleTop+instructionGap, instructionGray)

	return canvas
}

// drawCentered draws text with its ascender line at top, horizontally centred
// on the measured ink bounds.
func drawCentered(dst *image.RGBA, face font.Face, text string, top int, c color.Color) {
	bounds, _ := font.BoundString(face, text)
	textWidth := (bounds.Max.X - bounds.Min.X).Ceil()

	x := (dst.Bounds().Dx() - textWidth) / 2
	if x < 0 {
		x = 0
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x) - bounds.Min.X,
			Y: fixed.I(top) + face.Metrics().Ascent,
		},
	}
	d.DrawString(text)
}
