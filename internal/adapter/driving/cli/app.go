package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/diillson/escola-artifacts-go/pkg/version"
	"github.com/pterm/pterm"

	httpadapter "github.com/diillson/escola-artifacts-go/internal/adapter/driving/http"
	"github.com/diillson/escola-artifacts-go/internal/application/usecase"
	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/diillson/escola-artifacts-go/internal/domain/repository"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/spf13/cobra"
)

// UseCaseFactory monta o caso de uso a partir da configuração efetiva
// (arquivo + flags). Fica em main para a CLI não depender dos adapters driven.
type UseCaseFactory func(ctx context.Context, cfg types.Config) (*usecase.ArtifactUseCase, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	newUseCase UseCaseFactory
	useCase    *usecase.ArtifactUseCase
	config     types.Config
	version    string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, configRepo repository.ConfigRepository, factory UseCaseFactory) *CLIApp {
	app := &CLIApp{
		version:    versionStr,
		configRepo: configRepo,
		newUseCase: factory,
	}

	// Obtem a versão formatada
	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:               "escola-artifacts",
		Short:             "QR codes e exportações de relatórios da escola",
		Version:           formattedVersion,
		SilenceUsage:      true,
		PersistentPreRunE: app.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.SetVersionTemplate(`{{printf "escola-artifacts version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the artifacts (default: current directory)")
	rootCmd.PersistentFlags().StringP("name", "n", "", "Base name for the generated files (without extension)")
	rootCmd.PersistentFlags().String("locale", "", "Locale used to format exported values (pt-BR, en-US)")
	rootCmd.PersistentFlags().String("s3-bucket", "", "Upload artifacts to this S3 bucket instead of the local directory")
	rootCmd.PersistentFlags().String("s3-region", "", "AWS region of the S3 bucket")
	rootCmd.PersistentFlags().String("s3-prefix", "", "Key prefix for uploaded artifacts")

	rootCmd.AddCommand(
		app.newQRCommand(),
		app.newQRBatchCommand(),
		app.newExportCommand(),
		app.newTemplatesCommand(),
		app.newServeCommand(),
	)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// parseArgs parses the persistent flags into a CLIArgs struct.
func (app *CLIApp) parseArgs() *types.CLIArgs {
	flags := app.rootCmd.PersistentFlags()
	configFile, _ := flags.GetString("config-file")
	dir, _ := flags.GetString("dir")
	name, _ := flags.GetString("name")
	locale, _ := flags.GetString("locale")
	bucket, _ := flags.GetString("s3-bucket")
	region, _ := flags.GetString("s3-region")
	prefix, _ := flags.GetString("s3-prefix")

	return &types.CLIArgs{
		ConfigFile: configFile,
		Dir:        dir,
		ReportName: name,
		Locale:     locale,
		S3Bucket:   bucket,
		S3Region:   region,
		S3Prefix:   prefix,
	}
}

// setup carrega a configuração, aplica as flags e constrói o caso de uso.
func (app *CLIApp) setup(cmd *cobra.Command, _ []string) error {
	if cmd == app.rootCmd {
		return nil
	}
	// cobra só valida flags obrigatórias depois dos hooks de PreRun
	if err := cmd.ValidateRequiredFlags(); err != nil {
		return err
	}
	if cmd.Name() != "serve" {
		displayWelcomeBanner(app.version)
		go checkLatestVersion(app.version)
	}

	cfg, err := app.loadConfig(app.parseArgs())
	if err != nil {
		return err
	}
	if cmd.Name() == "serve" {
		// logos arrive from remote callers
		cfg.QR.RemoteLogosOnly = true
	}
	app.config = cfg

	uc, err := app.newUseCase(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	app.useCase = uc
	return nil
}

func (app *CLIApp) loadConfig(args *types.CLIArgs) (types.Config, error) {
	cfg := types.DefaultConfig()
	if args.ConfigFile != "" {
		loaded, err := app.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return types.Config{}, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg = *loaded
	}
	applyOverrides(&cfg, args)
	return cfg, nil
}

// applyOverrides gives explicitly set flags precedence over the config file.
func applyOverrides(cfg *types.Config, args *types.CLIArgs) {
	if args.Dir != "" {
		cfg.Dir = args.Dir
	}
	if args.Locale != "" {
		cfg.Locale = args.Locale
	}
	if args.S3Bucket != "" {
		cfg.Storage.Backend = "s3"
		cfg.Storage.Bucket = args.S3Bucket
	}
	if args.S3Region != "" {
		cfg.Storage.Region = args.S3Region
	}
	if args.S3Prefix != "" {
		cfg.Storage.Prefix = args.S3Prefix
	}
}

func (app *CLIApp) newQRCommand() *cobra.Command {
	var args types.QRArgs
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Generate a branded QR code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.useCase.RunQR(cmd.Context(), qrRequestFromArgs(args), app.parseArgs().ReportName)
		},
	}

	f := cmd.Flags()
	f.StringVar(&args.Data, "data", "", "Payload to encode")
	f.IntVar(&args.Width, "width", 0, "Output width in pixels (default from config)")
	f.StringVar(&args.ErrorLevel, "ec", "", "Error correction level: L, M, Q, H")
	f.StringVar(&args.Foreground, "fg", "", "Foreground color (#RRGGBB)")
	f.StringVar(&args.Background, "bg", "", "Background color (#RRGGBB)")
	f.StringVar(&args.Style, "style", "", "Module style: square, rounded, circle")
	f.StringVar(&args.Logo, "logo", "", "Logo URL, data URI or file path")
	f.Float64Var(&args.LogoRatio, "logo-ratio", 0, "Logo size relative to the code width (0-1)")
	f.StringVar(&args.FrameText, "frame-text", "", "Caption drawn below the code")
	f.IntVar(&args.FrameTextSize, "frame-size", 0, "Caption font size")
	f.StringVar(&args.FrameTextColor, "frame-color", "", "Caption color (#RRGGBB)")
	f.StringVar(&args.Format, "format", "png", "Output format: png, svg, base64")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func (app *CLIApp) newQRBatchCommand() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "qr-batch",
		Short: "Generate QR codes from a YAML or JSON list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.useCase.RunQRBatch(cmd.Context(), input, app.parseArgs().ReportName)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "YAML or JSON file with the QR requests")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (app *CLIApp) newExportCommand() *cobra.Command {
	var args types.ExportArgs
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export rows to csv, json, xlsx, pdf or pdf-document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.useCase.RunExport(cmd.Context(), args, app.parseArgs().ReportName)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&args.Template, "template", "t", "", "Report template name (see the templates command)")
	f.StringVar(&args.ColumnsFile, "columns-file", "", "YAML or JSON file with the column definitions")
	f.StringVarP(&args.InputFile, "input", "i", "", "YAML or JSON file with the rows")
	f.StringSliceVarP(&args.Formats, "format", "y", []string{"csv"}, "Export formats: csv, json, xlsx, pdf, pdf-document")
	f.StringVar(&args.Title, "title", "", "Report title")
	f.StringVar(&args.Subtitle, "subtitle", "", "Report subtitle")
	f.StringVar(&args.Org, "org", "", "Organization name shown in the header")
	f.StringVar(&args.GeneratedBy, "generated-by", "", "Name of who generated the report")
	f.StringVar(&args.Footer, "footer", "", "Footer text")
	f.StringVar(&args.From, "from", "", "Period start (YYYY-MM-DD)")
	f.StringVar(&args.To, "to", "", "Period end (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (app *CLIApp) newTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates [name]",
		Short: "List report templates or show the columns of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return app.useCase.ShowTemplates(name)
		},
	}
}

func (app *CLIApp) newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the QR and export engines over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = app.config.Server.Addr
			}
			logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))
			return httpadapter.Serve(cmd.Context(), addr, httpadapter.NewHandler(app.useCase, logger), logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}

func qrRequestFromArgs(args types.QRArgs) entity.QRRequest {
	return entity.QRRequest{
		Data:            args.Data,
		Width:           args.Width,
		ErrorCorrection: entity.ErrorCorrectionLevel(args.ErrorLevel),
		Foreground:      args.Foreground,
		Background:      args.Background,
		Style:           entity.ModuleStyle(args.Style),
		Logo:            args.Logo,
		LogoSizeRatio:   args.LogoRatio,
		FrameText:       args.FrameText,
		FrameTextSize:   args.FrameTextSize,
		FrameTextColor:  args.FrameTextColor,
		Format:          entity.QRFormat(args.Format),
	}
}
