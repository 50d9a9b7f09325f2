package entity

import "sort"

// ReportTemplate is a named, versioned column contract for a report type.
type ReportTemplate struct {
	Name    string   `json:"name"`
	Version int      `json:"version"`
	Title   string   `json:"title"`
	Columns []Column `json:"columns"`
}

var reportTemplates = map[string]ReportTemplate{
	"balancete": {
		Name: "balancete", Version: 1, Title: "Balancete de Verificação",
		Columns: []Column{
			{Key: "accountCode", Label: "Código", Width: 100, Format: TagText},
			{Key: "accountName", Label: "Conta", Width: 250, Format: TagText},
			{Key: "previousBalance", Label: "Saldo Anterior", Width: 120, Format: TagCurrency, Align: AlignRight},
			{Key: "debits", Label: "Débitos", Width: 120, Format: TagCurrency, Align: AlignRight},
			{Key: "credits", Label: "Créditos", Width: 120, Format: TagCurrency, Align: AlignRight},
			{Key: "currentBalance", Label: "Saldo Atual", Width: 120, Format: TagCurrency, Align: AlignRight},
		},
	},
	"dre": {
		Name: "dre", Version: 1, Title: "Demonstração do Resultado do Exercício",
		Columns: []Column{
			{Key: "description", Label: "Descrição", Width: 300, Format: TagText},
			{Key: "currentPeriod", Label: "Período Atual", Width: 130, Format: TagCurrency, Align: AlignRight},
			{Key: "previousPeriod", Label: "Período Anterior", Width: 130, Format: TagCurrency, Align: AlignRight},
			{Key: "variation", Label: "Variação", Width: 100, Format: TagPercentage, Align: AlignRight},
		},
	},
	"journalEntries": {
		Name: "journalEntries", Version: 1, Title: "Lançamentos Contábeis",
		Columns: []Column{
			{Key: "entryDate", Label: "Data", Width: 100, Format: TagDate},
			{Key: "entryNumber", Label: "Número", Width: 100, Format: TagText},
			{Key: "description", Label: "Histórico", Width: 250, Format: TagText},
			{Key: "debitAccount", Label: "Conta Débito", Width: 150, Format: TagText},
			{Key: "creditAccount", Label: "Conta Crédito", Width: 150, Format: TagText},
			{Key: "amount", Label: "Valor", Width: 120, Format: TagCurrency, Align: AlignRight},
		},
	},
	"payroll": {
		Name: "payroll", Version: 1, Title: "Folha de Pagamento",
		Columns: []Column{
			{Key: "employeeName", Label: "Funcionário", Width: 200, Format: TagText},
			{Key: "position", Label: "Cargo", Width: 150, Format: TagText},
			{Key: "grossSalary", Label: "Salário Bruto", Width: 120, Format: TagCurrency, Align: AlignRight},
			{Key: "inss", Label: "INSS", Width: 100, Format: TagCurrency, Align: AlignRight},
			{Key: "irrf", Label: "IRRF", Width: 100, Format: TagCurrency, Align: AlignRight},
			{Key: "fgts", Label: "FGTS", Width: 100, Format: TagCurrency, Align: AlignRight},
			{Key: "netSalary", Label: "Salário Líquido", Width: 120, Format: TagCurrency, Align: AlignRight},
		},
	},
	"fiscalDocuments": {
		Name: "fiscalDocuments", Version: 1, Title: "Documentos Fiscais",
		Columns: []Column{
			{Key: "documentNumber", Label: "Número", Width: 100, Format: TagText},
			{Key: "documentType", Label: "Tipo", Width: 80, Format: TagText},
			{Key: "issueDate", Label: "Emissão", Width: 100, Format: TagDate},
			{Key: "recipientName", Label: "Destinatário", Width: 200, Format: TagText},
			{Key: "totalAmount", Label: "Valor Total", Width: 120, Format: TagCurrency, Align: AlignRight},
			{Key: "status", Label: "Status", Width: 100, Format: TagText, Align: AlignCenter},
		},
	},
	"taxWithholdings": {
		Name: "taxWithholdings", Version: 1, Title: "Retenções de Impostos",
		Columns: []Column{
			{Key: "taxType", Label: "Imposto", Width: 100, Format: TagText},
			{Key: "supplierName", Label: "Fornecedor", Width: 200, Format: TagText},
			{Key: "baseAmount", Label: "Base de Cálculo", Width: 120, Format: TagCurrency, Align: AlignRight},
			{Key: "rate", Label: "Alíquota", Width: 80, Format: TagPercentage, Align: AlignRight},
			{Key: "withheldAmount", Label: "Valor Retido", Width: 120, Format: TagCurrency, Align: AlignRight},
			{Key: "dueDate", Label: "Vencimento", Width: 100, Format: TagDate},
		},
	},
	"students": {
		Name: "students", Version: 1, Title: "Alunos",
		Columns: []Column{
			{Key: "enrollmentNumber", Label: "Matrícula", Width: 100, Format: TagText},
			{Key: "name", Label: "Nome", Width: 250, Format: TagText},
			{Key: "grade", Label: "Série", Width: 80, Format: TagText},
			{Key: "className", Label: "Turma", Width: 80, Format: TagText},
			{Key: "guardianName", Label: "Responsável", Width: 200, Format: TagText},
			{Key: "enrolledAt", Label: "Data de Matrícula", Width: 120, Format: TagDate},
			{Key: "status", Label: "Status", Width: 100, Format: TagText, Align: AlignCenter},
		},
	},
	"invoices": {
		Name: "invoices", Version: 1, Title: "Faturas",
		Columns: []Column{
			{Key: "invoiceNumber", Label: "Número", Width: 120, Format: TagText},
			{Key: "studentName", Label: "Aluno", Width: 200, Format: TagText},
			{Key: "dueDate", Label: "Vencimento", Width: 100, Format: TagDate},
			{Key: "amount", Label: "Valor", Width: 120, Format: TagCurrency, Align: AlignRight},
			{Key: "status", Label: "Status", Width: 100, Format: TagText, Align: AlignCenter},
		},
	},
}

// LookupTemplate returns a copy of the named template.
func LookupTemplate(name string) (ReportTemplate, bool) {
	tpl, ok := reportTemplates[name]
	if !ok {
		return ReportTemplate{}, false
	}
	tpl.Columns = append([]Column(nil), tpl.Columns...)
	return tpl, true
}

// TemplateNames lists the registered templates in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(reportTemplates))
	for name := range reportTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
