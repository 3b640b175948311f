package printer

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	gzqrcode "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelth-com/eckcheckin/internal/models"
)

const testBaseURL = "https://example.com"

func decodeQR(t *testing.T, img image.Image) string {
	t.Helper()
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	res, err := gzqrcode.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err, "QR code should decode")
	return res.GetText()
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func newTestBuilder(t *testing.T, fonts []FontSource) (*Builder, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "warehouse_qr_codes")
	b := NewBuilder(Options{
		BaseURL:    testBaseURL,
		OutputDir:  dir,
		ModuleSize: 10,
		QuietZone:  4,
		MinVersion: 1,
		Fonts:      fonts,
	})
	t.Cleanup(b.Close)
	return b, dir
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestCheckInURL(t *testing.T) {
	url := CheckInURL(testBaseURL, "W202")
	assert.Equal(t, "https://example.com/?warehouse=W202", url)
	assert.Equal(t, url, CheckInURL(testBaseURL, "W202"))
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "QR_A68.png", SimpleFileName("A68"))
	assert.Equal(t, "QR_A68_with_label.png", LabeledFileName("A68"))
}

func TestEncodeMatrixDeterministic(t *testing.T) {
	url := CheckInURL(testBaseURL, "W202")

	m1, err := EncodeMatrix(url, 1)
	require.NoError(t, err)
	m2, err := EncodeMatrix(url, 1)
	require.NoError(t, err)

	assert.Equal(t, m1.Version, m2.Version)
	assert.Equal(t, m1.Modules, m2.Modules)
	assert.Equal(t, 17+4*m1.Version, m1.Size(), "matrix must not include a quiet zone")
}

func TestEncodeMatrixVersionPolicy(t *testing.T) {
	long := testBaseURL + "/?warehouse=" + strings.Repeat("X", 120)

	m, err := EncodeMatrix(long, 1)
	require.NoError(t, err)
	assert.Greater(t, m.Version, 1, "version 1 is too small and must grow")

	forced, err := EncodeMatrix(CheckInURL(testBaseURL, "W202"), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, forced.Version)
	assert.Equal(t, 57, forced.Size())
}

func TestEncodeMatrixOversizedPayload(t *testing.T) {
	url := CheckInURL(testBaseURL, models.WarehouseID(strings.Repeat("X", 2000)))

	_, err := EncodeMatrix(url, 1)
	require.ErrorIs(t, err, ErrRender)
	assert.NotContains(t, err.Error(), url)
	assert.Contains(t, err.Error(), "2031-byte payload")
	assert.Less(t, len(err.Error()), 200)
}

func TestRenderMatrix(t *testing.T) {
	m, err := EncodeMatrix(CheckInURL(testBaseURL, "W202"), 1)
	require.NoError(t, err)

	img := RenderMatrix(m, 10, 4)
	side := (m.Size() + 8) * 10
	assert.Equal(t, image.Rect(0, 0, side, side), img.Bounds())

	// Quiet zone is white, the finder pattern corner is black
	assert.Equal(t, uint8(0), img.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(0), img.ColorIndexAt(39, 39))
	assert.Equal(t, uint8(1), img.ColorIndexAt(40, 40))
	assert.Equal(t, uint8(1), img.ColorIndexAt(49, 49))
}

func TestRenderedMatrixRoundTrip(t *testing.T) {
	for _, id := range []models.WarehouseID{"W202", "A185", "F53"} {
		url := CheckInURL(testBaseURL, id)
		m, err := EncodeMatrix(url, 1)
		require.NoError(t, err)
		assert.Equal(t, url, decodeQR(t, RenderMatrix(m, 10, 4)))
	}
}

func TestBuilderBuild(t *testing.T) {
	b, dir := newTestBuilder(t, nil)

	report := b.Build("W202")
	require.True(t, report.OK(), "labeled=%v simple=%v", report.Labeled.Err, report.Simple.Err)
	assert.Equal(t, "https://example.com/?warehouse=W202", report.URL)
	assert.Equal(t, filepath.Join(dir, "QR_W202.png"), report.Simple.Path)
	assert.Equal(t, filepath.Join(dir, "QR_W202_with_label.png"), report.Labeled.Path)

	simple := readPNG(t, report.Simple.Path)
	labeled := readPNG(t, report.Labeled.Path)

	assert.Equal(t, report.URL, decodeQR(t, simple))

	sb, lb := simple.Bounds(), labeled.Bounds()
	assert.Equal(t, sb.Dx(), lb.Dx())
	assert.Equal(t, sb.Dy()+LabelBandHeight, lb.Dy())
	assert.Equal(t, sb.Dx(), report.Simple.Width)
	assert.Equal(t, lb.Dy(), report.Labeled.Height)

	// The QR part of the labeled image is the simple image pasted as-is
	for y := 0; y < sb.Dy(); y++ {
		for x := 0; x < sb.Dx(); x++ {
			sr, sg, sbl, _ := simple.At(x, y).RGBA()
			lr, lg, lbl, _ := labeled.At(x, y).RGBA()
			if sr != lr || sg != lg || sbl != lbl {
				t.Fatalf("pixel (%d,%d) differs between variants", x, y)
			}
		}
	}

	// Something was drawn in the label band
	inked := false
	for y := sb.Dy(); y < lb.Dy() && !inked; y++ {
		for x := 0; x < lb.Dx(); x++ {
			if r, _, _, _ := labeled.At(x, y).RGBA(); r < 0xffff {
				inked = true
				break
			}
		}
	}
	assert.True(t, inked, "label band should contain text")
}

func TestBuilderFontFallback(t *testing.T) {
	missing := []FontSource{TrueTypeFile(filepath.Join(t.TempDir(), "arial.ttf"))}
	b, _ := newTestBuilder(t, missing)

	report := b.Build("W202")
	require.NoError(t, report.Labeled.Err)
	assert.Equal(t, report.Simple.Height+LabelBandHeight, report.Labeled.Height)
	assert.Equal(t, Builtin().Name(), b.faces.TitleSource)
}

func TestLoadFaceOrder(t *testing.T) {
	missing := TrueTypeFile("/nonexistent/font.ttf")

	face, name := LoadFace([]FontSource{missing, GoRegular(), Builtin()}, TitleFontSize, nil)
	require.NotNil(t, face)
	assert.Equal(t, "Go Regular", name)

	face, name = LoadFace([]FontSource{missing}, TitleFontSize, nil)
	require.NotNil(t, face)
	assert.Equal(t, Builtin().Name(), name)

	broken := filepath.Join(t.TempDir(), "broken.ttf")
	require.NoError(t, os.WriteFile(broken, []byte("not a font"), 0o644))
	_, name = LoadFace([]FontSource{TrueTypeFile(broken)}, InstructionFontSize, nil)
	assert.Equal(t, Builtin().Name(), name)
}

func TestBuilderOverwrites(t *testing.T) {
	b, dir := newTestBuilder(t, []FontSource{GoRegular()})

	first := b.Build("A101")
	require.True(t, first.OK())
	second := b.Build("A101")
	require.True(t, second.OK())

	assert.Equal(t, first.Simple.Path, second.Simple.Path)
	assertNoTempFiles(t, dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestBuilderLabeledFailureContinues(t *testing.T) {
	b, dir := newTestBuilder(t, []FontSource{GoRegular()})
	require.NoError(t, os.MkdirAll(filepath.Join(dir, LabeledFileName("A68")), 0o755))

	report := b.Build("A68")
	assert.ErrorIs(t, report.Labeled.Err, ErrRender)
	require.NoError(t, report.Simple.Err)
	assert.True(t, report.Partial())
	assert.False(t, report.Failed())

	_, err := os.Stat(report.Simple.Path)
	assert.NoError(t, err)
	assertNoTempFiles(t, dir)
}

func TestBuilderRunReportsInOrder(t *testing.T) {
	b, _ := newTestBuilder(t, []FontSource{Builtin()})
	ids := []models.WarehouseID{"W202", "A185", "A68"}

	var seen []models.WarehouseID
	reports := b.Run(ids, func(r models.ArtifactReport) {
		seen = append(seen, r.WarehouseID)
	})

	assert.Equal(t, ids, seen)
	require.Len(t, reports, 3)
	for _, r := range reports {
		assert.True(t, r.OK())
	}
}

func TestBuilderUnwritableOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	b := NewBuilder(Options{BaseURL: testBaseURL, OutputDir: file, ModuleSize: 10, QuietZone: 4})
	report := b.Build("W202")
	assert.True(t, report.Failed())
	assert.ErrorIs(t, report.Simple.Err, ErrRender)
}

func TestPreflight(t *testing.T) {
	assert.NoError(t, Preflight())
}

func TestPrepareOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	created, err := PrepareOutputDir(dir)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = PrepareOutputDir(dir)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestWriteSheetPDF(t *testing.T) {
	b, dir := newTestBuilder(t, []FontSource{GoRegular()})
	reports := b.Run([]models.WarehouseID{"W202", "F53"}, nil)

	path := filepath.Join(dir, SheetFileName)
	require.NoError(t, WriteSheetPDF(path, DefaultSheetConfig(), reports))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
	assertNoTempFiles(t, dir)
}

func TestGenerateSheetPDFNothingToPrint(t *testing.T) {
	_, err := GenerateSheetPDF(DefaultSheetConfig(), []models.ArtifactReport{{WarehouseID: "W202"}})
	assert.ErrorIs(t, err, ErrNothingToPrint)
}
