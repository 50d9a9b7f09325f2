package entity

// ErrorCorrectionLevel is the redundancy tier of the symbol.
type ErrorCorrectionLevel string

const (
	ErrorCorrectionL ErrorCorrectionLevel = "L"
	ErrorCorrectionM ErrorCorrectionLevel = "M"
	ErrorCorrectionQ ErrorCorrectionLevel = "Q"
	ErrorCorrectionH ErrorCorrectionLevel = "H"
)

// ModuleStyle is a raster post-process applied to the rendered modules.
type ModuleStyle string

const (
	StyleSquare  ModuleStyle = "square"
	StyleRounded ModuleStyle = "rounded"
	StyleCircle  ModuleStyle = "circle"
)

// QRFormat is the output representation of a generated code.
type QRFormat string

const (
	QRFormatPNG    QRFormat = "png"
	QRFormatSVG    QRFormat = "svg"
	QRFormatBase64 QRFormat = "base64"
)

// Feature is a branding option that not every output format can apply.
type Feature string

const (
	FeatureStyle     Feature = "style"
	FeatureLogo      Feature = "logo"
	FeatureFrameText Feature = "frame_text"
)

// QRRequest describes one QR code to generate.
type QRRequest struct {
	Data            string               `json:"data" yaml:"data" validate:"required"`
	Width           int                  `json:"width,omitempty" yaml:"width" validate:"min=21,max=4096"`
	ErrorCorrection ErrorCorrectionLevel `json:"errorCorrectionLevel,omitempty" yaml:"error_correction" validate:"oneof=L M Q H"`
	Foreground      string               `json:"foreground,omitempty" yaml:"foreground" validate:"required"`
	Background      string               `json:"background,omitempty" yaml:"background" validate:"required"`
	Style           ModuleStyle          `json:"style,omitempty" yaml:"style" validate:"oneof=square rounded circle"`
	Logo            string               `json:"logo,omitempty" yaml:"logo"`
	LogoSizeRatio   float64              `json:"logoSizeRatio,omitempty" yaml:"logo_size_ratio" validate:"gt=0,lt=1"`
	FrameText       string               `json:"frameText,omitempty" yaml:"frame_text"`
	FrameTextSize   int                  `json:"frameTextSize,omitempty" yaml:"frame_text_size" validate:"min=1,max=512"`
	FrameTextColor  string               `json:"frameTextColor,omitempty" yaml:"frame_text_color"`
	Format          QRFormat             `json:"format,omitempty" yaml:"format" validate:"oneof=png svg base64"`
}

// QRResult is the artifact produced for a QRRequest.
// For QRFormatBase64 Image holds the data URI text.
type QRResult struct {
	Image    []byte    `json:"-"`
	MimeType string    `json:"mimeType"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Format   QRFormat  `json:"format"`
	Ignored  []Feature `json:"ignored,omitempty"`
}

// QRBatchResult pairs a batch item with its outcome by position.
type QRBatchResult struct {
	Index  int      `json:"index"`
	Result QRResult `json:"result"`
	Err    error    `json:"-"`
}

// Success reports whether the item was generated.
func (r QRBatchResult) Success() bool { return r.Err == nil }

var capabilities = map[QRFormat]map[Feature]bool{
	QRFormatPNG:    {FeatureStyle: true, FeatureLogo: true, FeatureFrameText: true},
	QRFormatBase64: {FeatureStyle: true, FeatureLogo: true, FeatureFrameText: true},
	QRFormatSVG:    {},
}

// Capabilities returns the branding features a format supports.
func Capabilities(format QRFormat) []Feature {
	var out []Feature
	for _, f := range []Feature{FeatureStyle, FeatureLogo, FeatureFrameText} {
		if capabilities[format][f] {
			out = append(out, f)
		}
	}
	return out
}

// Supports reports whether format can apply feature.
func Supports(format QRFormat, feature Feature) bool {
	return capabilities[format][feature]
}

// RequestedFeatures lists the branding features the request asks for.
func (r QRRequest) RequestedFeatures() []Feature {
	var out []Feature
	if r.Style != "" && r.Style != StyleSquare {
		out = append(out, FeatureStyle)
	}
	if r.Logo != "" {
		out = append(out, FeatureLogo)
	}
	if r.FrameText != "" {
		out = append(out, FeatureFrameText)
	}
	return out
}
