package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"docshare-backend/document/model"
	"docshare-backend/internal/export/pdfexport"
	"docshare-backend/internal/export/pngexport"
	"docshare-backend/internal/export/toolkit"
	"docshare-backend/internal/extract"
	localstore "docshare-backend/internal/shared/storage/object/local"
)

var (
	inPath  string
	outPath string
	kind    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "docexport: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docexport",
		Short: "Render brand and CV documents offline",
		Long: `docexport runs the same PDF and image exporters as the API against a JSON
document on disk and writes the result next to it.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newPDFCmd(),
		newPNGCmd(),
		newSocialCmd(),
		newInspectCmd(),
	)
	return cmd
}

func documentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&inPath, "in", "", "Path to the document JSON")
	cmd.Flags().StringVar(&kind, "kind", string(model.KindCV), "Document kind (brand or cv)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
}

func newPDFCmd() *cobra.Command {
	var opts pdfexport.Options
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Export a brand rider or CV as PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			exporter := pdfexport.New(toolkit.NewLoader(nil), fileMinter{path: outPath})
			opts.Filename = filepath.Base(outPath)

			var (
				res pdfexport.Result
				err error
			)
			switch model.Kind(kind) {
			case model.KindBrand:
				var doc model.BrandDocument
				if err = readDocument(inPath, &doc); err != nil {
					return err
				}
				res, err = exporter.ExportBrandRider(ctx, doc, opts)
			case model.KindCV:
				var doc model.CVDocument
				if err = readDocument(inPath, &doc); err != nil {
					return err
				}
				res, err = exporter.ExportCV(ctx, doc, opts)
			default:
				return fmt.Errorf("unknown kind %q", kind)
			}
			if err != nil {
				return err
			}

			info, err := extract.PDF(ctx, res.Blob)
			if err != nil {
				return fmt.Errorf("validate %s: %w", outPath, err)
			}
			fmt.Printf("OK: wrote %s (%s, %d pages)\n", outPath, humanize.Bytes(uint64(len(res.Blob))), info.Pages)
			return nil
		},
	}
	documentFlags(cmd)
	cmd.Flags().StringVar(&opts.Format, "format", pdfexport.DefaultFormat, "Page format (a4, letter, legal)")
	cmd.Flags().StringVar(&opts.Orientation, "orientation", pdfexport.DefaultOrientation, "portrait or landscape")
	return cmd
}

func newPNGCmd() *cobra.Command {
	var (
		opts   pngexport.Options
		format string
	)
	cmd := &cobra.Command{
		Use:   "png",
		Short: "Export a brand or CV hero image",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			exporter := pngexport.New(toolkit.NewLoader(nil), fileMinter{path: outPath})
			opts.Filename = filepath.Base(outPath)
			opts.Format = pngexport.Format(format)

			var (
				res pngexport.Result
				err error
			)
			switch model.Kind(kind) {
			case model.KindBrand:
				var doc model.BrandDocument
				if err = readDocument(inPath, &doc); err != nil {
					return err
				}
				res, err = exporter.ExportBrandHero(ctx, doc, opts)
			case model.KindCV:
				var doc model.CVDocument
				if err = readDocument(inPath, &doc); err != nil {
					return err
				}
				res, err = exporter.ExportCVHero(ctx, doc, opts)
			default:
				return fmt.Errorf("unknown kind %q", kind)
			}
			if err != nil {
				return err
			}
			printImage(res)
			return nil
		},
	}
	documentFlags(cmd)
	imageFlags(cmd, &opts, &format)
	return cmd
}

func newSocialCmd() *cobra.Command {
	var (
		content  pngexport.SocialContent
		platform string
		opts     pngexport.Options
		format   string
	)
	cmd := &cobra.Command{
		Use:   "social",
		Short: "Render a social media card",
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter := pngexport.New(toolkit.NewLoader(nil), fileMinter{path: outPath})
			opts.Filename = filepath.Base(outPath)
			opts.Format = pngexport.Format(format)
			res, err := exporter.CreateSocialMediaImage(cmd.Context(), content, pngexport.Platform(platform), opts)
			if err != nil {
				return err
			}
			printImage(res)
			return nil
		},
	}
	cmd.Flags().StringVar(&content.Title, "title", "", "Card title")
	cmd.Flags().StringVar(&content.Subtitle, "subtitle", "", "Card subtitle")
	cmd.Flags().StringVar(&content.Color, "color", "", "Background color as #rrggbb")
	cmd.Flags().StringVar(&platform, "platform", string(pngexport.PlatformTwitter), "twitter, linkedin, instagram or facebook")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file")
	cmd.Flags().StringVar(&format, "format", string(pngexport.FormatPNG), "png, jpeg or webp")
	opts.Quality = new(float64)
	cmd.Flags().Float64Var(opts.Quality, "quality", pngexport.DefaultQuality, "Lossy encoder quality between 0 and 1")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var storeDir string
	cmd := &cobra.Command{
		Use:   "inspect <key>",
		Short: "Print page count and text of a PDF held in the local blob store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := extract.StoredPDF(cmd.Context(), localstore.New(storeDir), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("pages: %d\n\n%s\n", info.Pages, info.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&storeDir, "store-dir", "./data", "LOCAL_STORE_DIR of the API")
	return cmd
}

func imageFlags(cmd *cobra.Command, opts *pngexport.Options, format *string) {
	cmd.Flags().IntVar(&opts.Width, "width", pngexport.DefaultWidth, "Logical width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", pngexport.DefaultHeight, "Logical height in pixels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pngexport.DefaultScale, "Device pixel ratio")
	opts.Quality = new(float64)
	cmd.Flags().Float64Var(opts.Quality, "quality", pngexport.DefaultQuality, "Lossy encoder quality between 0 and 1")
	cmd.Flags().StringVar(&opts.Background, "background", pngexport.DefaultBackground, "Background color as #rrggbb")
	cmd.Flags().StringVar(format, "format", string(pngexport.FormatPNG), "png, jpeg or webp")
}

func printImage(res pngexport.Result) {
	fmt.Printf("OK: wrote %s (%s, %dx%d px)\n", outPath, humanize.Bytes(uint64(len(res.Blob))), res.PixelWidth, res.PixelHeight)
}

func readDocument(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// fileMinter writes the export to disk; the returned URL points at the file.
type fileMinter struct {
	path string
}

func (m fileMinter) Mint(ctx context.Context, data []byte, filename, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(m.path)
	if err != nil {
		return "", err
	}
	return "file://" + abs, nil
}
