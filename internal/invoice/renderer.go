package invoice

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

const (
	ContentType = "application/pdf"

	marginLeft = 100.0
	marginTop  = 42.0
	lineHeight = 20.0
	fontSize   = 12.0

	// A4 is 841.89pt high; keep 50pt free at the bottom.
	linesPerPage = 38
)

type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

type Renderer struct {
	orders port.OrderRepository
	users  port.UserRepository
	layout *template.Template
}

func NewRenderer(orders port.OrderRepository, users port.UserRepository) (*Renderer, error) {
	if orders == nil {
		return nil, fmt.Errorf("orders is nil")
	}
	if users == nil {
		return nil, fmt.Errorf("users is nil")
	}

	layout, err := parseLayout()
	if err != nil {
		return nil, fmt.Errorf("parseLayout: %w", err)
	}

	return &Renderer{
		orders: orders,
		users:  users,
		layout: layout,
	}, nil
}

// Render builds the invoice of an order owned by userID. The PDF dates are
// taken from the order, so the same order always renders to the same bytes.
func (r *Renderer) Render(ctx context.Context, userID, orderID uuid.UUID) (Document, error) {
	order, err := r.orders.GetOrder(ctx, orderID)
	if err != nil {
		return Document{}, fmt.Errorf("r.orders.GetOrder: %w", err)
	}

	if order.OwnerID != userID {
		return Document{}, fmt.Errorf("order[%s]: %w", orderID, domain.ErrNotFound)
	}

	customer, err := r.users.GetUser(ctx, order.OwnerID)
	if err != nil {
		return Document{}, fmt.Errorf("r.users.GetUser: %w", err)
	}

	lines, err := executeLayout(r.layout, layoutData{
		OrderID:  order.ID,
		Customer: customer.Username,
		Items:    order.Items,
		Total:    order.Total,
	})
	if err != nil {
		return Document{}, fmt.Errorf("executeLayout: %w", err)
	}

	body, err := draw(order, lines)
	if err != nil {
		return Document{}, fmt.Errorf("draw: %w", err)
	}

	return Document{
		Filename:    fmt.Sprintf("factura_%s.pdf", order.ID),
		ContentType: ContentType,
		Body:        body,
	}, nil
}

func draw(order domain.Order, lines []string) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(order.CreatedAt)
	pdf.SetModificationDate(order.CreatedAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(fmt.Sprintf("Factura Pedido #%s", order.ID), true)
	pdf.SetAutoPageBreak(false, 0)

	// core fonts are cp1252; product names may carry accents
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range paginate(lines, linesPerPage) {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", fontSize)

		for idx, line := range page {
			pdf.Text(marginLeft, marginTop+float64(idx)*lineHeight, tr(line))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf.Output: %w", err)
	}

	return buf.Bytes(), nil
}
