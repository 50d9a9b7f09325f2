package types

// CLIArgs represents the command-line arguments shared by every command.
type CLIArgs struct {
	ConfigFile string
	Dir        string
	Locale     string
	S3Bucket   string
	S3Region   string
	S3Prefix   string
	ReportName string
}

// QRArgs represents the flags of the qr command.
type QRArgs struct {
	Data           string
	Width          int
	ErrorLevel     string
	Foreground     string
	Background     string
	Style          string
	Logo           string
	LogoRatio      float64
	FrameText      string
	FrameTextSize  int
	FrameTextColor string
	Format         string
}

// ExportArgs represents the flags of the export command.
type ExportArgs struct {
	Template    string
	ColumnsFile string
	InputFile   string
	Formats     []string
	Title       string
	Subtitle    string
	Org         string
	GeneratedBy string
	Footer      string
	From        string
	To          string
}
