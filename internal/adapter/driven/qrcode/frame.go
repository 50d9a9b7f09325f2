package qrcode

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	regularOnce sync.Once
	regularFont *opentype.Font
	regularErr  error
)

func captionFace(size int) (font.Face, error) {
	regularOnce.Do(func() {
		regularFont, regularErr = opentype.Parse(goregular.TTF)
	})
	if regularErr != nil {
		return nil, regularErr
	}
	return opentype.NewFace(regularFont, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// frameStripHeight is the caption strip added below the code.
func frameStripHeight(textSize int) int {
	return 2 * textSize
}

// addFrameText extends the canvas with a white strip and centres text in it.
func addFrameText(qr image.Image, text string, size int, textColor color.NRGBA) (image.Image, error) {
	face, err := captionFace(size)
	if err != nil {
		return nil, fmt.Errorf("error loading caption font: %w", err)
	}
	defer face.Close()

	b := qr.Bounds()
	strip := frameStripHeight(size)
	canvas := imaging.New(b.Dx(), b.Dy()+strip, color.White)
	canvas = imaging.Paste(canvas, qr, image.Pt(0, 0))

	dc := gg.NewContextForImage(canvas)
	dc.SetFontFace(face)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(text, float64(b.Dx())/2, float64(b.Dy())+float64(strip)/2, 0.5, 0.35)
	return dc.Image(), nil
}
