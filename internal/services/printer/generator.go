package printer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/xelth-com/eckcheckin/internal/models"
)

// SheetFileName is the printable PDF written next to the PNG artifacts
const SheetFileName = "QR_sheet.pdf"

// ErrNothingToPrint is returned when no labeled artifact was produced
var ErrNothingToPrint = errors.New("no labeled QR codes to print")

// SheetConfig holds layout for the printable sheet (millimetres, A4 portrait)
type SheetConfig struct {
	CodeWidth float64 // printed width of each labeled QR code
	MarginTop float64
	Caption   bool // print the check-in URL under the code
}

// DefaultSheetConfig prints each code 10cm wide, the size the cabins are laminated at
func DefaultSheetConfig() SheetConfig {
	return SheetConfig{
		CodeWidth: 100,
		MarginTop: 40,
		Caption:   true,
	}
}

// GenerateSheetPDF lays out one labeled QR code per A4 page, centred
func GenerateSheetPDF(cfg SheetConfig, reports []models.ArtifactReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	// A4 dimensions
	pageWidth := 210.0

	codeW := cfg.CodeWidth
	if codeW <= 0 || codeW > pageWidth {
		codeW = DefaultSheetConfig().CodeWidth
	}

	pages := 0
	for i, report := range reports {
		if !report.Labeled.OK() {
			continue
		}

		data, err := os.ReadFile(report.Labeled.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", report.Labeled.Path, err)
		}

		imgName := fmt.Sprintf("qr_%d", i)
		imgOptions := gofpdf.ImageOptions{ImageType: "PNG"}
		info := pdf.RegisterImageOptionsReader(imgName, imgOptions, bytes.NewReader(data))
		if pdf.Err() {
			return nil, fmt.Errorf("embed %s: %w", report.Labeled.Path, pdf.Error())
		}

		// Keep the PNG aspect ratio; the label band makes it taller than wide
		codeH := codeW
		if info != nil && info.Width() > 0 {
			codeH = codeW * info.Height() / info.Width()
		}

		pdf.AddPage()
		pages++

		x := (pageWidth - codeW) / 2
		y := cfg.MarginTop
		pdf.ImageOptions(imgName, x, y, codeW, codeH, false, imgOptions, 0, "")

		if cfg.Caption {
			pdf.SetXY(0, y+codeH+6)
			pdf.SetFont("Arial", "", 9)
			pdf.CellFormat(pageWidth, 5, report.URL, "", 0, "C", false, 0, "")
		}

		// Cut guide
		pdf.SetDrawColor(200, 200, 200)
		pdf.Rect(x-2, y-2, codeW+4, codeH+4, "D")
	}

	if pages == 0 {
		return nil, ErrNothingToPrint
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSheetPDF generates the sheet and writes it atomically to path
func WriteSheetPDF(path string, cfg SheetConfig, reports []models.ArtifactReport) error {
	data, err := GenerateSheetPDF(cfg, reports)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
