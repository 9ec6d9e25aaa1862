// Package pdf opens cached PDF files and rasterizes annotation regions.
//
// Page geometry comes from pdfcpu, which also validates the file on open;
// rasterization goes through MuPDF (go-fitz), the only engine in reach that
// renders page pixels.
package pdf

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Image annotations are rendered at 4x linear scale (16x area).
const (
	renderScale = 4
	renderDPI   = 72 * renderScale
)

// Document is an opened, validated PDF with per-page dimensions.
type Document struct {
	path string
	dims []types.Dim
	fz   *fitz.Document
}

// Open validates the PDF at path and prepares it for rendering.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pdfContext, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to validate PDF %s: %w", path, err)
	}
	dims, err := pdfContext.PageDims()
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions of %s: %w", path, err)
	}

	fz, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s for rendering: %w", path, err)
	}

	return &Document{path: path, dims: dims, fz: fz}, nil
}

// Close releases the rendering engine's resources.
func (d *Document) Close() error {
	return d.fz.Close()
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return len(d.dims)
}

// PageHeight returns the height in points of the 0-based page.
func (d *Document) PageHeight(pageIndex int) (float64, error) {
	if pageIndex < 0 || pageIndex >= len(d.dims) {
		return 0, fmt.Errorf("page index %d out of range for %s (%d pages)", pageIndex, d.path, len(d.dims))
	}
	return d.dims[pageIndex].Height, nil
}

// RenderRegion rasterizes a render-space rectangle of the 0-based page at
// 4x scale and writes it as a PNG to outPath. The region is clamped to the
// page; a region entirely outside it is an error.
func (d *Document) RenderRegion(pageIndex int, r Rect, outPath string) error {
	img, err := d.fz.ImageDPI(pageIndex, renderDPI)
	if err != nil {
		return fmt.Errorf("failed to render page %d of %s: %w", pageIndex+1, d.path, err)
	}

	crop := image.Rect(
		int(math.Floor(r.X0*renderScale)),
		int(math.Floor(r.Y0*renderScale)),
		int(math.Ceil(r.X1*renderScale)),
		int(math.Ceil(r.Y1*renderScale)),
	).Intersect(img.Bounds())
	if crop.Empty() {
		return fmt.Errorf("annotation region %v lies outside page %d of %s", r, pageIndex+1, d.path)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create image file %s: %w", outPath, err)
	}
	if err := png.Encode(out, opaqueCrop(img, crop)); err != nil {
		out.Close()
		return fmt.Errorf("failed to encode image %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write image %s: %w", outPath, err)
	}
	return nil
}

// opaqueCrop copies the crop region into a fully opaque RGBA image, so the
// PNG encoder emits truecolor without an alpha channel.
func opaqueCrop(img *image.RGBA, crop image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(out, out.Bounds(), img, crop.Min, draw.Src)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}
