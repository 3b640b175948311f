package printer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/xelth-com/eckcheckin/internal/models"
)

// Options configures a Builder
type Options struct {
	BaseURL    string
	OutputDir  string
	ModuleSize int
	QuietZone  int
	MinVersion int
	Fonts      []FontSource // nil uses DefaultFontSources("")
	Logger     *zap.Logger
}

// Builder renders the simple and labeled check-in QR codes for warehouses
type Builder struct {
	opts   Options
	logger *zap.Logger

	faces       LabelFaces
	facesLoaded bool
}

// NewBuilder creates a builder. Fonts are resolved lazily on the first labeled render.
func NewBuilder(opts Options) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Fonts == nil {
		opts.Fonts = DefaultFontSources("")
	}
	return &Builder{opts: opts, logger: logger}
}

// Close releases loaded font faces
func (b *Builder) Close() {
	if b.facesLoaded {
		b.faces.Close()
		b.facesLoaded = false
	}
}

// Preflight checks that the QR and PNG encoders work before any output is attempted
func Preflight() error {
	data, err := qrcode.Encode("preflight", RecoveryLevel, 64)
	if err != nil {
		return fmt.Errorf("%w: qr encoder: %v", ErrDependencyMissing, err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: png codec: %v", ErrDependencyMissing, err)
	}
	return nil
}

// PrepareOutputDir creates dir if needed and reports whether it was created
func PrepareOutputDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("output path %s is not a directory", dir)
		}
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create output directory: %w", err)
	}
	return true, nil
}

// Run builds every warehouse in order, reporting each one as soon as it is done
func (b *Builder) Run(ids []models.WarehouseID, onReport func(models.ArtifactReport)) []models.ArtifactReport {
	reports := make([]models.ArtifactReport, 0, len(ids))
	for _, id := range ids {
		report := b.Build(id)
		if onReport != nil {
			onReport(report)
		}
		reports = append(reports, report)
	}
	return reports
}

// Build writes QR_{id}_with_label.png then QR_{id}.png into the output directory.
// A failed labeled render does not stop the simple one; errors are recorded in the report.
func (b *Builder) Build(id models.WarehouseID) models.ArtifactReport {
	url := CheckInURL(b.opts.BaseURL, id)
	report := models.ArtifactReport{
		WarehouseID: id,
		URL:         url,
		Labeled: models.ArtifactResult{
			Variant: models.VariantLabeled,
			Path:    filepath.Join(b.opts.OutputDir, LabeledFileName(id)),
		},
		Simple: models.ArtifactResult{
			Variant: models.VariantSimple,
			Path:    filepath.Join(b.opts.OutputDir, SimpleFileName(id)),
		},
	}
	log := b.logger.With(zap.String("warehouse", string(id)), zap.String("url", url))

	if _, err := PrepareOutputDir(b.opts.OutputDir); err != nil {
		err = fmt.Errorf("%w: %v", ErrRender, err)
		report.Labeled = failed(report.Labeled, err)
		report.Simple = failed(report.Simple, err)
		log.Error("output directory unavailable", zap.Error(err))
		return report
	}

	report.Labeled = b.writeVariant(report.Labeled, url, id, log)
	report.Simple = b.writeVariant(report.Simple, url, id, log)
	return report
}

func (b *Builder) writeVariant(res models.ArtifactResult, url string, id models.WarehouseID, log *zap.Logger) models.ArtifactResult {
	img, err := b.render(res.Variant, url, id)
	if err != nil {
		log.Warn("render failed", zap.String("variant", string(res.Variant)), zap.Error(err))
		return failed(res, err)
	}

	if err := writeFileAtomic(res.Path, func(w io.Writer) error { return png.Encode(w, img) }); err != nil {
		err = fmt.Errorf("%w: write %s: %v", ErrRender, res.Path, err)
		log.Warn("write failed", zap.String("variant", string(res.Variant)), zap.Error(err))
		return failed(res, err)
	}

	res.Width, res.Height = img.Bounds().Dx(), img.Bounds().Dy()
	log.Debug("artifact written",
		zap.String("variant", string(res.Variant)),
		zap.String("path", res.Path),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
	)
	return res
}

// render encodes url afresh for each variant so both are independent attempts
func (b *Builder) render(variant models.Variant, url string, id models.WarehouseID) (image.Image, error) {
	m, err := EncodeMatrix(url, b.opts.MinVersion)
	if err != nil {
		return nil, err
	}
	qr := RenderMatrix(m, b.opts.ModuleSize, b.opts.QuietZone)

	switch variant {
	case models.VariantSimple:
		return qr, nil
	case models.VariantLabeled:
		if !b.facesLoaded {
			b.faces = LoadLabelFaces(b.opts.Fonts, b.logger)
			b.facesLoaded = true
			b.logger.Debug("label fonts resolved",
				zap.String("title", b.faces.TitleSource),
				zap.String("instruction", b.faces.InstructionSource),
			)
		}
		return ComposeLabeled(qr, id, b.faces), nil
	default:
		return nil, fmt.Errorf("%w: unknown variant %q", ErrRender, variant)
	}
}

func failed(res models.ArtifactResult, err error) models.ArtifactResult {
	res.Err = err
	res.Width, res.Height = 0, 0
	return res
}

// writeFileAtomic writes into a temporary sibling and renames it over path,
// so readers never see a partially written file.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
