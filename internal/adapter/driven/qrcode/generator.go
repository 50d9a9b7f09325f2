package qrcode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/diillson/escola-artifacts-go/internal/domain/repository"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/disintegration/imaging"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

const (
	mimePNG = "image/png"
	mimeSVG = "image/svg+xml"

	defaultLogoRatio  = 0.2
	defaultFrameSize  = 16
	defaultFrameColor = "#000000"
)

var (
	_ repository.QRRepository = (*Generator)(nil)
	_ repository.LogoFetcher  = (*LogoFetcher)(nil)
)

// Defaults fill the request fields a caller leaves empty.
type Defaults struct {
	Width           int
	ErrorCorrection entity.ErrorCorrectionLevel
	Foreground      string
	Background      string
}

// Generator composes QR codes. It holds no per-call state and is safe for
// concurrent use.
type Generator struct {
	fetcher     repository.LogoFetcher
	validate    *validator.Validate
	defaults    Defaults
	concurrency int
}

type Option func(*Generator)

func WithDefaults(d Defaults) Option {
	return func(g *Generator) {
		if d.Width > 0 {
			g.defaults.Width = d.Width
		}
		if d.ErrorCorrection != "" {
			g.defaults.ErrorCorrection = d.ErrorCorrection
		}
		if d.Foreground != "" {
			g.defaults.Foreground = d.Foreground
		}
		if d.Background != "" {
			g.defaults.Background = d.Background
		}
	}
}

// WithConcurrency bounds BatchGenerate. Values below one mean NumCPU.
func WithConcurrency(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// NewGenerator builds a generator. A nil fetcher gets a LogoFetcher with a
// ten second timeout.
func NewGenerator(fetcher repository.LogoFetcher, opts ...Option) *Generator {
	if fetcher == nil {
		fetcher = NewLogoFetcher(10 * time.Second)
	}
	g := &Generator{
		fetcher:  fetcher,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		defaults: Defaults{
			Width:           300,
			ErrorCorrection: entity.ErrorCorrectionM,
			Foreground:      "#000000",
			Background:      "#FFFFFF",
		},
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs encode, style, logo, frame text and serialization in order.
// SVG output skips the raster steps and lists the skipped features in
// QRResult.Ignored.
func (g *Generator) Generate(ctx context.Context, req entity.QRRequest) (entity.QRResult, error) {
	req = g.withDefaults(req)
	if err := g.validate.Struct(req); err != nil {
		return entity.QRResult{}, fmt.Errorf("%w: %v", types.ErrInvalidRequest, err)
	}

	fg, err := parseHexColor(req.Foreground)
	if err != nil {
		return entity.QRResult{}, err
	}
	bg, err := parseHexColor(req.Background)
	if err != nil {
		return entity.QRResult{}, err
	}

	symbol, err := encodeSymbol(req.Data, req.ErrorCorrection)
	if err != nil {
		return entity.QRResult{}, err
	}

	if req.Format == entity.QRFormatSVG {
		return entity.QRResult{
			Image:    renderSVG(symbol, req.Width, fg, bg),
			MimeType: mimeSVG,
			Width:    req.Width,
			Height:   req.Width,
			Format:   entity.QRFormatSVG,
			Ignored:  unsupported(req),
		}, nil
	}

	img := applyStyle(rasterize(symbol, req.Width, fg, bg), req.Style, fg, bg)

	if req.Logo != "" {
		logo, err := loadLogo(ctx, g.fetcher, req.Logo)
		if err != nil {
			return entity.QRResult{}, err
		}
		img = embedLogo(img, logo, req.LogoSizeRatio)
	}

	if req.FrameText != "" {
		textColor, err := parseHexColor(req.FrameTextColor)
		if err != nil {
			return entity.QRResult{}, err
		}
		if img, err = addFrameText(img, req.FrameText, req.FrameTextSize, textColor); err != nil {
			return entity.QRResult{}, err
		}
	}

	return serialize(img, req.Format)
}

func serialize(img image.Image, format entity.QRFormat) (entity.QRResult, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return entity.QRResult{}, fmt.Errorf("error encoding png: %w", err)
	}

	b := img.Bounds()
	res := entity.QRResult{
		Image:    buf.Bytes(),
		MimeType: mimePNG,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Format:   format,
	}
	if format == entity.QRFormatBase64 {
		res.Image = []byte(entity.EncodeDataURI(mimePNG, buf.Bytes()))
	}
	return res, nil
}

// BatchGenerate generates every request independently. Results are written
// into the slot matching the input index.
func (g *Generator) BatchGenerate(ctx context.Context, reqs []entity.QRRequest) []entity.QRBatchResult {
	results := make([]entity.QRBatchResult, len(reqs))

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for i, req := range reqs {
		eg.Go(func() error {
			results[i].Index = i
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			res, err := g.Generate(ctx, req)
			results[i].Result = res
			results[i].Err = err
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func (g *Generator) withDefaults(req entity.QRRequest) entity.QRRequest {
	if req.Width == 0 {
		req.Width = g.defaults.Width
	}
	if req.ErrorCorrection == "" {
		req.ErrorCorrection = g.defaults.ErrorCorrection
	}
	if req.Foreground == "" {
		req.Foreground = g.defaults.Foreground
	}
	if req.Background == "" {
		req.Background = g.defaults.Background
	}
	if req.Style == "" {
		req.Style = entity.StyleSquare
	}
	if req.LogoSizeRatio == 0 {
		req.LogoSizeRatio = defaultLogoRatio
	}
	if req.FrameTextSize == 0 {
		req.FrameTextSize = defaultFrameSize
	}
	if req.FrameTextColor == "" {
		req.FrameTextColor = defaultFrameColor
	}
	if req.Format == "" {
		req.Format = entity.QRFormatPNG
	}
	return req
}

func unsupported(req entity.QRRequest) []entity.Feature {
	var out []entity.Feature
	for _, f := range req.RequestedFeatures() {
		if !entity.Supports(req.Format, f) {
			out = append(out, f)
		}
	}
	return out
}
