package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xelth-com/eckcheckin/internal/config"
	"github.com/xelth-com/eckcheckin/internal/models"
	"github.com/xelth-com/eckcheckin/internal/services/printer"
)

const (
	thickRule = "============================================================"
	thinRule  = "------------------------------------------------------------"
)

func newQRCmd(a *app) *cobra.Command {
	var (
		baseURL    string
		outputDir  string
		fontPath   string
		moduleSize int
		quietZone  int
		minVersion int
		sheet      bool
	)

	cmd := &cobra.Command{
		Use:   "qr [warehouse...]",
		Short: "Generate check-in QR codes for warehouse security cabins",
		Long: `Generates QR_<id>.png and QR_<id>_with_label.png for every warehouse.

Warehouses come from the arguments, QR_WAREHOUSES, or the built-in list.
Set QR_BASE_URL (or --base-url) to the deployed visitor app before printing.`,
		Example: `  eckcheckin qr --base-url https://visitors.example.com
  eckcheckin qr W202 A68 --sheet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.QR
			flags := cmd.Flags()
			if flags.Changed("base-url") {
				cfg.BaseURL = strings.TrimRight(baseURL, "/")
			}
			if flags.Changed("output") {
				cfg.OutputDir = outputDir
			}
			if flags.Changed("font") {
				cfg.FontPath = fontPath
			}
			if flags.Changed("module-size") {
				cfg.ModuleSize = moduleSize
			}
			if flags.Changed("quiet-zone") {
				cfg.QuietZone = quietZone
			}
			if flags.Changed("min-version") {
				cfg.MinVersion = minVersion
			}
			if len(args) > 0 {
				cfg.Warehouses = config.ParseWarehouses(strings.Join(args, ","))
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runQR(a.out, a.logger, cfg, sheet)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "visitor app URL encoded in the codes (default from QR_BASE_URL)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default from QR_OUTPUT_DIR)")
	cmd.Flags().StringVar(&fontPath, "font", "", "preferred TrueType font for the label")
	cmd.Flags().IntVar(&moduleSize, "module-size", config.DefaultModuleSize, "pixels per QR module")
	cmd.Flags().IntVar(&quietZone, "quiet-zone", config.DefaultQuietZone, "quiet zone width in modules")
	cmd.Flags().IntVar(&minVersion, "min-version", config.DefaultMinVersion, "smallest QR version to use; grows to fit")
	cmd.Flags().BoolVar(&sheet, "sheet", false, "also write "+printer.SheetFileName+" with one labeled code per A4 page")
	return cmd
}

func runQR(out io.Writer, logger *zap.Logger, cfg config.QRConfig, sheet bool) error {
	fmt.Fprintln(out, thickRule)
	fmt.Fprintln(out, "Warehouse QR Code Generator")
	fmt.Fprintln(out, thickRule)
	fmt.Fprintln(out)

	if err := printer.Preflight(); err != nil {
		logger.Error("preflight failed", zap.Error(err))
		return err
	}

	created, err := printer.PrepareOutputDir(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("%w: %v", printer.ErrDependencyMissing, err)
	}
	if created {
		fmt.Fprintf(out, "✓ Created directory: %s/\n", cfg.OutputDir)
	} else {
		fmt.Fprintf(out, "✓ Using existing directory: %s/\n", cfg.OutputDir)
	}
	fmt.Fprintln(out)

	builder := printer.NewBuilder(printer.Options{
		BaseURL:    cfg.BaseURL,
		OutputDir:  cfg.OutputDir,
		ModuleSize: cfg.ModuleSize,
		QuietZone:  cfg.QuietZone,
		MinVersion: cfg.MinVersion,
		Fonts:      printer.DefaultFontSources(cfg.FontPath),
		Logger:     logger,
	})
	defer builder.Close()

	fmt.Fprintln(out, "Generating QR codes...")
	fmt.Fprintln(out, thinRule)
	reports := builder.Run(cfg.Warehouses, func(r models.ArtifactReport) {
		printArtifactReport(out, r)
	})
	fmt.Fprintln(out, thinRule)

	failures := 0
	for _, r := range reports {
		if !r.OK() {
			failures++
		}
	}
	if failures == 0 {
		fmt.Fprintln(out, "✓ All QR codes generated successfully!")
	} else {
		fmt.Fprintf(out, "⚠ %d of %d warehouses had failures\n", failures, len(reports))
	}

	location, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		location = cfg.OutputDir
	}
	fmt.Fprintf(out, "  Location: %s/\n", location)

	if sheet {
		path := filepath.Join(cfg.OutputDir, printer.SheetFileName)
		if err := printer.WriteSheetPDF(path, printer.DefaultSheetConfig(), reports); err != nil {
			logger.Warn("sheet generation failed", zap.Error(err))
			fmt.Fprintf(out, "⚠ Print sheet failed: %v\n", err)
		} else {
			fmt.Fprintf(out, "✓ Print sheet: %s\n", path)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Files generated for each warehouse:")
	fmt.Fprintln(out, "  - QR_[warehouse].png (simple QR code)")
	fmt.Fprintln(out, "  - QR_[warehouse]_with_label.png (QR code with label)")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Set QR_BASE_URL to your deployed URL if you have not yet")
	fmt.Fprintln(out, "  2. Print the QR codes (recommended size: 10cm x 10cm)")
	fmt.Fprintln(out, "  3. Laminate for durability")
	fmt.Fprintln(out, "  4. Place at respective warehouse security cabins")
	fmt.Fprintln(out)
	fmt.Fprintln(out, thickRule)
	return nil
}

func printArtifactReport(out io.Writer, r models.ArtifactReport) {
	id := string(r.WarehouseID)

	if r.Labeled.OK() {
		fmt.Fprintf(out, "✓ %-6s → %s\n", id, filepath.Base(r.Labeled.Path))
	} else {
		fmt.Fprintf(out, "⚠ %-6s → Label version failed: %v\n", id, r.Labeled.Err)
	}

	if r.Simple.OK() {
		fmt.Fprintf(out, "  %-6s   %s\n", "", filepath.Base(r.Simple.Path))
	} else {
		fmt.Fprintf(out, "✗ %-6s → Failed: %v\n", id, r.Simple.Err)
	}

	fmt.Fprintf(out, "  URL: %s\n", r.URL)
	fmt.Fprintln(out)
}
