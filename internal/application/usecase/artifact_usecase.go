package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/diillson/escola-artifacts-go/internal/domain/repository"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/diillson/escola-artifacts-go/pkg/console"
	"github.com/pterm/pterm"
)

// ArtifactUseCase orquestra a geração de QR codes e as exportações.
type ArtifactUseCase struct {
	qrRepo     repository.QRRepository
	exportRepo repository.ExportRepository
	store      repository.ArtifactStore
	configRepo repository.ConfigRepository
	console    types.ConsoleInterface
}

// NewArtifactUseCase creates a new artifact use case.
func NewArtifactUseCase(
	qrRepo repository.QRRepository,
	exportRepo repository.ExportRepository,
	store repository.ArtifactStore,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *ArtifactUseCase {
	return &ArtifactUseCase{
		qrRepo:     qrRepo,
		exportRepo: exportRepo,
		store:      store,
		configRepo: configRepo,
		console:    console,
	}
}

// GenerateQR composes a single QR code.
func (uc *ArtifactUseCase) GenerateQR(ctx context.Context, req entity.QRRequest) (entity.QRResult, error) {
	return uc.qrRepo.Generate(ctx, req)
}

// BatchGenerateQR composes every request; results keep the input order.
func (uc *ArtifactUseCase) BatchGenerateQR(ctx context.Context, reqs []entity.QRRequest) []entity.QRBatchResult {
	return uc.qrRepo.BatchGenerate(ctx, reqs)
}

// Export runs one export. When templateName is set the template supplies the
// columns (unless req already has some) and the default title.
// The error is only non-nil for an unknown template; engine failures come
// back in the result.
func (uc *ArtifactUseCase) Export(req entity.ExportRequest, templateName string) (entity.ExportResult, error) {
	if templateName != "" {
		tpl, ok := entity.LookupTemplate(templateName)
		if !ok {
			return entity.ExportResult{}, fmt.Errorf("%w: %s", types.ErrTemplateNotFound, templateName)
		}
		if len(req.Columns) == 0 {
			req.Columns = tpl.Columns
		}
		if req.Title == "" {
			req.Title = tpl.Title
		}
		if req.Filename == "" {
			req.Filename = tpl.Name
		}
	}
	return uc.exportRepo.ExportData(req), nil
}

// Template returns the named report template.
func (uc *ArtifactUseCase) Template(name string) (entity.ReportTemplate, error) {
	tpl, ok := entity.LookupTemplate(name)
	if !ok {
		return entity.ReportTemplate{}, fmt.Errorf("%w: %s", types.ErrTemplateNotFound, name)
	}
	return tpl, nil
}

// Templates lists every registered report template, sorted by name.
func (uc *ArtifactUseCase) Templates() []entity.ReportTemplate {
	names := entity.TemplateNames()
	out := make([]entity.ReportTemplate, 0, len(names))
	for _, name := range names {
		tpl, _ := entity.LookupTemplate(name)
		out = append(out, tpl)
	}
	return out
}

// RunQR gera um QR code e grava o artefato no store configurado.
func (uc *ArtifactUseCase) RunQR(ctx context.Context, req entity.QRRequest, name string) error {
	status := uc.console.Status("Generating QR code...")
	result, err := uc.qrRepo.Generate(ctx, req)
	status.Stop()
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	uc.warnIgnored(result)

	location, err := uc.store.Save(ctx, qrFilename(defaultName(name, "qrcode"), result.Format), result.MimeType, result.Image)
	if err != nil {
		return err
	}
	uc.console.LogSuccess("QR code (%dx%d) saved to: %s", result.Width, result.Height, location)
	return nil
}

// RunQRBatch gera os QR codes de um arquivo YAML/JSON e exibe um resumo.
func (uc *ArtifactUseCase) RunQRBatch(ctx context.Context, inputFile, name string) error {
	reqs, err := uc.configRepo.LoadQRBatchFile(inputFile)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		uc.console.LogWarning("No QR requests found in %s", inputFile)
		return nil
	}

	uc.console.LogInfo("Generating %d QR codes...", len(reqs))
	results := uc.qrRepo.BatchGenerate(ctx, reqs)

	table := uc.console.CreateTable()
	table.AddColumn("#")
	table.AddColumn("Data")
	table.AddColumn("Format")
	table.AddColumn("Status")
	table.AddColumn("Location")

	base := defaultName(name, "qrcode")
	progress := uc.console.ProgressWithTotal("Saving QR codes", len(results))
	failed := 0
	for _, r := range results {
		data := truncate(reqs[r.Index].Data, 40)
		if !r.Success() {
			failed++
			table.AddRow(r.Index+1, data, reqs[r.Index].Format, console.BrightRed("failed"), r.Err.Error())
			progress.Increment()
			continue
		}

		filename := qrFilename(fmt.Sprintf("%s_%03d", base, r.Index+1), r.Result.Format)
		location, err := uc.store.Save(ctx, filename, r.Result.MimeType, r.Result.Image)
		if err != nil {
			failed++
			table.AddRow(r.Index+1, data, r.Result.Format, console.BrightRed("failed"), err.Error())
		} else {
			table.AddRow(r.Index+1, data, r.Result.Format, console.BrightGreen("ok"), location)
		}
		progress.Increment()
	}
	progress.Stop()

	uc.console.Print(table.Render())

	switch {
	case failed == len(results):
		return fmt.Errorf("all %d QR codes failed", failed)
	case failed > 0:
		uc.console.LogWarning("%d of %d QR codes failed", failed, len(results))
	default:
		uc.console.LogSuccess("Generated %d QR codes", len(results))
	}
	return nil
}

// RunExport carrega colunas e linhas dos arquivos informados e exporta para
// cada formato pedido. Falhas de um formato não interrompem os demais.
func (uc *ArtifactUseCase) RunExport(ctx context.Context, args types.ExportArgs, name string) error {
	req, err := uc.buildExportRequest(args)
	if err != nil {
		return err
	}
	req.Filename = defaultName(name, defaultName(args.Template, "export"))

	formats := args.Formats
	if len(formats) == 0 {
		formats = []string{string(entity.FormatCSV)}
	}

	status := uc.console.Status(fmt.Sprintf("Exporting %d rows...", len(req.Data)))
	type outcome struct {
		requested string
		result    entity.ExportResult
	}
	outcomes := make([]outcome, 0, len(formats))
	for _, f := range formats {
		req.Format = entity.ExportFormat(strings.ToLower(strings.TrimSpace(f)))
		result, err := uc.Export(req, args.Template)
		if err != nil {
			status.Stop()
			return err
		}
		outcomes = append(outcomes, outcome{requested: f, result: result})
	}
	status.Stop()

	for _, o := range outcomes {
		if !o.result.Success {
			uc.console.LogError("Failed to export to %s: %s", strings.ToUpper(o.requested), o.result.Error)
			continue
		}
		if !strings.EqualFold(string(o.result.Format), o.requested) {
			uc.console.LogWarning("%s writer unavailable, exported as %s instead", strings.ToUpper(o.requested), strings.ToUpper(string(o.result.Format)))
		}

		location, err := uc.store.Save(ctx, o.result.Filename, o.result.MimeType, o.result.Blob)
		if err != nil {
			uc.console.LogError("Failed to save %s: %s", o.result.Filename, err)
			continue
		}
		uc.console.LogSuccess("Successfully exported to %s: %s", strings.ToUpper(string(o.result.Format)), location)
	}
	return nil
}

// ShowTemplates lista os templates ou, com name, detalha as colunas de um deles.
func (uc *ArtifactUseCase) ShowTemplates(name string) error {
	if name == "" {
		table := uc.console.CreateTable()
		table.AddColumn("Name")
		table.AddColumn("Version")
		table.AddColumn("Title")
		table.AddColumn("Columns")
		for _, tpl := range uc.Templates() {
			table.AddRow(console.BrightCyan(tpl.Name), tpl.Version, tpl.Title, len(tpl.Columns))
		}
		uc.console.Print(table.Render())
		return nil
	}

	tpl, err := uc.Template(name)
	if err != nil {
		return err
	}

	table := uc.console.CreateTable()
	table.AddColumn("Key")
	table.AddColumn("Label")
	table.AddColumn("Width")
	table.AddColumn("Format")
	table.AddColumn("Align")
	for _, col := range tpl.Columns {
		table.AddRow(col.Key, col.Label, col.Width, orDash(string(col.Format)), orDash(string(col.Align)))
	}
	uc.console.Panel(fmt.Sprintf("%s v%d", pterm.Bold.Sprint(tpl.Name), tpl.Version), tpl.Title+"\n\n"+table.Render())
	return nil
}

func (uc *ArtifactUseCase) buildExportRequest(args types.ExportArgs) (entity.ExportRequest, error) {
	if args.InputFile == "" {
		return entity.ExportRequest{}, fmt.Errorf("%w: an input file with rows is required", types.ErrInvalidRequest)
	}
	if args.Template == "" && args.ColumnsFile == "" {
		return entity.ExportRequest{}, fmt.Errorf("%w: either a template or a columns file is required", types.ErrInvalidRequest)
	}

	req := entity.ExportRequest{
		Title:            args.Title,
		Subtitle:         args.Subtitle,
		OrganizationName: args.Org,
		GeneratedBy:      args.GeneratedBy,
		FooterText:       args.Footer,
	}

	if args.ColumnsFile != "" {
		cols, err := uc.configRepo.LoadColumnsFile(args.ColumnsFile)
		if err != nil {
			return entity.ExportRequest{}, err
		}
		req.Columns = cols
	}

	rows, err := uc.configRepo.LoadRowsFile(args.InputFile)
	if err != nil {
		return entity.ExportRequest{}, err
	}
	req.Data = rows

	dateRange, err := parseDateRange(args.From, args.To)
	if err != nil {
		return entity.ExportRequest{}, err
	}
	req.DateRange = dateRange

	return req, nil
}

// parseDateRange accepts YYYY-MM-DD bounds; both must be set together.
func parseDateRange(from, to string) (*entity.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: --from and --to must be used together", types.ErrInvalidRequest)
	}

	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", types.ErrInvalidRequest, from)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", types.ErrInvalidRequest, to)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date is before start date", types.ErrInvalidRequest)
	}
	return &entity.DateRange{Start: start, End: end}, nil
}

func (uc *ArtifactUseCase) warnIgnored(result entity.QRResult) {
	if len(result.Ignored) == 0 {
		return
	}
	ignored := make([]string, len(result.Ignored))
	for i, f := range result.Ignored {
		ignored[i] = string(f)
	}
	uc.console.LogWarning("Format %s does not support: %s", result.Format, strings.Join(ignored, ", "))
}

// qrFilename picks the extension for a QR artifact; base64 is stored as text.
func qrFilename(base string, format entity.QRFormat) string {
	switch format {
	case entity.QRFormatSVG:
		return base + ".svg"
	case entity.QRFormatBase64:
		return base + ".txt"
	default:
		return base + ".png"
	}
}

func defaultName(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
