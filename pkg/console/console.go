package console

import (
	"fmt"
	"io"
	"os"

	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var _ types.ConsoleInterface = (*Console)(nil)

// Cores predefinidas para uso consistente
var (
	BrightGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightRed   = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightCyan  = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Console implementa o ConsoleInterface com pterm. Toda a saída vai para out.
type Console struct {
	out     io.Writer
	info    pterm.PrefixPrinter
	warning pterm.PrefixPrinter
	errors  pterm.PrefixPrinter
	success pterm.PrefixPrinter
}

type Option func(*Console)

// WithWriter redireciona a saída, por exemplo para um buffer em testes.
func WithWriter(w io.Writer) Option {
	return func(c *Console) { c.out = w }
}

// NewConsole cria um Console que escreve em stdout.
func NewConsole(opts ...Option) *Console {
	c := &Console{out: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}
	c.info = *pterm.Info.WithWriter(c.out)
	c.warning = *pterm.Warning.WithWriter(c.out)
	c.errors = *pterm.Error.WithWriter(c.out)
	c.success = *pterm.Success.WithWriter(c.out)
	return c
}

func (c *Console) Print(a ...interface{}) {
	fmt.Fprint(c.out, a...)
}

func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) LogInfo(format string, a ...interface{}) {
	c.info.Printfln(format, a...)
}

func (c *Console) LogWarning(format string, a ...interface{}) {
	c.warning.Printfln(format, a...)
}

func (c *Console) LogError(format string, a ...interface{}) {
	c.errors.Printfln(format, a...)
}

func (c *Console) LogSuccess(format string, a ...interface{}) {
	c.success.Printfln(format, a...)
}

type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status mostra um spinner até Stop ser chamado.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.WithWriter(c.out).Start(message)
	return &statusHandle{spinner: spinner}
}

func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

// ProgressWithTotal cria uma barra de progresso que permanece na tela ao terminar.
func (c *Console) ProgressWithTotal(title string, total int) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.
		WithWriter(c.out).
		WithTotal(total).
		WithTitle(title).
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(false).
		Start()
	return &progressHandle{bar: bar}
}

func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

func (h *progressHandle) Stop() {
	if h.bar != nil {
		_, _ = h.bar.Stop()
	}
}

// Table acumula linhas como texto e só usa o pterm no Render.
type Table struct {
	columns []string
	rows    [][]string
}

func (c *Console) CreateTable() types.TableInterface {
	return &Table{}
}

// AddColumn ignora options; o pterm não alinha por coluna.
func (t *Table) AddColumn(name string, _ ...interface{}) {
	t.columns = append(t.columns, name)
}

func (t *Table) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, cell := range cells {
		row[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Render() string {
	data := append(pterm.TableData{t.columns}, t.rows...)
	rendered, _ := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	return rendered
}

// Panel exibe o conteúdo numa caixa com título.
func (c *Console) Panel(title, content string) {
	panel := pterm.DefaultBox.
		WithTitle(title).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Sprint(content)
	fmt.Fprintln(c.out, "\n"+panel)
}
