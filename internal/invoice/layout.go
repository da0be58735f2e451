package invoice

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

//go:embed data/invoice.tmpl
var invoiceTemplate string

type layoutData struct {
	OrderID  uuid.UUID
	Customer string
	Items    []domain.OrderItem
	Total    domain.Money
}

func parseLayout() (*template.Template, error) {
	tmpl, err := template.New("invoice").Funcs(template.FuncMap{
		"amount": func(m domain.Money) string {
			return m.Amount.StringFixed(domain.MoneyScale)
		},
	}).Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("template.Parse: %w", err)
	}

	return tmpl, nil
}

// executeLayout returns the invoice text, one entry per printed line.
func executeLayout(tmpl *template.Template, data layoutData) ([]string, error) {
	var buf bytes.Buffer

	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("tmpl.Execute: %w", err)
	}

	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), nil
}

func paginate(lines []string, perPage int) [][]string {
	var pages [][]string

	for len(lines) > perPage {
		pages = append(pages, lines[:perPage])
		lines = lines[perPage:]
	}

	return append(pages, lines)
}
