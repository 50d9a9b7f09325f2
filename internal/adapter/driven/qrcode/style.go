package qrcode

import (
	"image"
	"image/color"

	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/disintegration/imaging"
)

// styleParams holds the blur sigma as a fraction of the module size and the
// gray level below which a blurred pixel is painted dark.
type styleParams struct {
	sigmaPerModule float64
	cutoff         uint8
}

// Circle blurs harder than rounded. Both cutoffs stay near mid-gray: below
// that, thin dark runs shrink until module centres flip to light.
var styles = map[entity.ModuleStyle]styleParams{
	entity.StyleRounded: {sigmaPerModule: 0.18, cutoff: 128},
	entity.StyleCircle:  {sigmaPerModule: 0.26, cutoff: 120},
}

// minStyledModulePx is the smallest module that can be visibly rounded.
const minStyledModulePx = 3

// finderSize is the edge of a finder pattern plus its separator, in modules.
const finderSize = 8

// applyStyle approximates rounded or circular modules by blurring a
// black-on-white mask of the symbol and thresholding it back to two colors.
// It is an image filter; the module matrix is not re-encoded. The three
// finder patterns are restored unstyled afterwards so decoders can still
// locate the symbol.
func applyStyle(r raster, style entity.ModuleStyle, fg, bg color.NRGBA) image.Image {
	params, ok := styles[style]
	if !ok || r.modulePx < minStyledModulePx {
		return r.img
	}

	mask := imaging.AdjustFunc(r.img, func(c color.NRGBA) color.NRGBA {
		if c == fg {
			return color.NRGBA{A: 0xff}
		}
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	})
	blurred := imaging.Blur(mask, params.sigmaPerModule*float64(r.modulePx))

	styled := imaging.AdjustFunc(blurred, func(c color.NRGBA) color.NRGBA {
		if c.R < params.cutoff {
			return fg
		}
		return bg
	})

	for _, rect := range r.finderRects() {
		styled = imaging.Paste(styled, imaging.Crop(r.img, rect), rect.Min)
	}
	return styled
}

// finderRects covers the top-left, top-right and bottom-left finder
// patterns with their separators.
func (r raster) finderRects() []image.Rectangle {
	near := quietZone
	far := r.modules - quietZone - finderSize
	return []image.Rectangle{
		r.moduleRect(near, near, near+finderSize, near+finderSize),
		r.moduleRect(far, near, far+finderSize, near+finderSize),
		r.moduleRect(near, far, near+finderSize, far+finderSize),
	}
}
