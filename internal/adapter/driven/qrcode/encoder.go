package qrcode

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
)

var recoveryLevels = map[entity.ErrorCorrectionLevel]qrcode.RecoveryLevel{
	entity.ErrorCorrectionL: qrcode.Low,
	entity.ErrorCorrectionM: qrcode.Medium,
	entity.ErrorCorrectionQ: qrcode.High,
	entity.ErrorCorrectionH: qrcode.Highest,
}

// encodeSymbol builds the module matrix. A payload beyond the capacity of
// the level fails here.
func encodeSymbol(data string, level entity.ErrorCorrectionLevel) (*qrcode.QRCode, error) {
	rl, ok := recoveryLevels[level]
	if !ok {
		return nil, fmt.Errorf("%w: unknown error correction level %q", types.ErrInvalidRequest, level)
	}
	q, err := qrcode.New(data, rl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEncoding, err)
	}
	return q, nil
}

// quietZone is the border, in modules, that skip2 includes in Bitmap.
const quietZone = 4

// raster is a rendered symbol plus the geometry the style step needs.
type raster struct {
	img      *image.NRGBA
	origin   image.Point // top-left pixel of the symbol, quiet zone included
	modulePx int
	modules  int // edge length in modules, quiet zone included
}

// rasterize renders every module as a whole number of pixels and centres
// the symbol on a width x width background. Fractional module sizes make
// the decoder misread runs, so the leftover pixels become extra margin.
// The symbol is never rendered smaller than one pixel per module.
func rasterize(q *qrcode.QRCode, width int, fg, bg color.NRGBA) raster {
	bitmap := q.Bitmap()
	modules := len(bitmap)
	modulePx := max(1, width/max(1, modules))

	edge := max(width, modules*modulePx)
	offset := (edge - modules*modulePx) / 2
	r := raster{
		img:      imaging.New(edge, edge, bg),
		origin:   image.Pt(offset, offset),
		modulePx: modulePx,
		modules:  modules,
	}

	ink := image.NewUniform(fg)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				draw.Draw(r.img, r.moduleRect(x, y, x+1, y+1), ink, image.Point{}, draw.Src)
			}
		}
	}
	return r
}

// moduleRect is the pixel rectangle covering modules [x0,x1) x [y0,y1).
func (r raster) moduleRect(x0, y0, x1, y1 int) image.Rectangle {
	return image.Rect(x0*r.modulePx, y0*r.modulePx, x1*r.modulePx, y1*r.modulePx).Add(r.origin)
}

// renderSVG writes the symbol as a single path of horizontal dark runs over
// a background rect, in module units scaled by the viewBox.
func renderSVG(q *qrcode.QRCode, width int, fg, bg color.NRGBA) []byte {
	bitmap := q.Bitmap()
	n := len(bitmap)

	var path strings.Builder
	for y, row := range bitmap {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			fmt.Fprintf(&path, "M%d %dh%dv1h-%dz", start, y, x-start, x-start)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, width, width, n, n)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, n, n, hexColor(bg))
	fmt.Fprintf(&b, `<path fill="%s" d="%s"/>`, hexColor(fg), path.String())
	b.WriteString("</svg>\n")
	return []byte(b.String())
}
