package integrations

import (
	"image"
	"image/color"
	"image/draw"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"comicpdf/pkg/sources"
)

// Page is one decoded page image, normalized to RGB.
type Page struct {
	Name   string
	Image  *image.RGBA
	Width  int
	Height int
}

// Resize methods for uniform page sizing.
const (
	ResizeFit     = "fit"     // scale to fit, letterbox on white
	ResizeFill    = "fill"    // scale to cover, center crop
	ResizeStretch = "stretch" // scale to target, may distort
)

// DecodePage decodes one image and normalizes it for embedding:
// palette, grayscale and alpha variants are flattened onto a white
// background, pixel dimensions preserved.
func DecodePage(name string, r io.Reader) (Page, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return Page{}, err
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)

	return Page{Name: name, Image: dst, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// ResizePage scales a page to the target dimensions with the given
// method. Passing the page's own dimensions returns it unchanged.
func ResizePage(page Page, width, height int, method string) Page {
	if width <= 0 || height <= 0 || (width == page.Width && height == page.Height) {
		return page
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	var target image.Rectangle
	switch method {
	case ResizeStretch:
		target = canvas.Bounds()
	case ResizeFill:
		scale := scaleFactor(page.Width, page.Height, width, height, true)
		target = centered(width, height, scale*float64(page.Width), scale*float64(page.Height))
	default: // ResizeFit
		scale := scaleFactor(page.Width, page.Height, width, height, false)
		target = centered(width, height, scale*float64(page.Width), scale*float64(page.Height))
	}

	// CatmullRom clips to the canvas, so a fill target larger than the
	// canvas crops the overflow evenly on both sides.
	xdraw.CatmullRom.Scale(canvas, target, page.Image, page.Image.Bounds(), xdraw.Over, nil)

	return Page{Name: page.Name, Image: canvas, Width: width, Height: height}
}

// SampleSize inspects up to limit pages and returns the most common
// pixel dimensions, used as the uniform page size. Pages that fail to
// parse are ignored here; the full decode reports them later. ok is
// false when no page header could be read.
func SampleSize(src sources.Source, pages []string, limit int) (width, height int, ok bool) {
	if limit <= 0 || limit > len(pages) {
		limit = len(pages)
	}

	type dims struct{ w, h int }
	counts := make(map[dims]int)
	var order []dims

	for _, name := range pages[:limit] {
		rc, err := src.Open(name)
		if err != nil {
			continue
		}
		cfg, _, err := image.DecodeConfig(rc)
		rc.Close()
		if err != nil {
			continue
		}

		d := dims{cfg.Width, cfg.Height}
		if counts[d] == 0 {
			order = append(order, d)
		}
		counts[d]++
	}

	if len(order) == 0 {
		return 0, 0, false
	}

	best := order[0]
	for _, d := range order[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best.w, best.h, true
}

// scaleFactor returns the ratio that fits (or covers) the source
// inside the target while keeping the aspect ratio.
func scaleFactor(srcW, srcH, dstW, dstH int, cover bool) float64 {
	wScale := float64(dstW) / float64(srcW)
	hScale := float64(dstH) / float64(srcH)
	if cover {
		if wScale > hScale {
			return wScale
		}
		return hScale
	}
	if wScale < hScale {
		return wScale
	}
	return hScale
}

// centered returns a w x h rectangle centered on the canvas; it may
// extend past the canvas bounds for the fill method.
func centered(canvasW, canvasH int, w, h float64) image.Rectangle {
	offX := (canvasW - int(w+0.5)) / 2
	offY := (canvasH - int(h+0.5)) / 2
	return image.Rect(offX, offY, offX+int(w+0.5), offY+int(h+0.5))
}
