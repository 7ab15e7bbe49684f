package pdf

import (
	"fmt"
	"strings"
	"time"

	"go-invoicehub/internal/model"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Renderer turns an invoice and its owner's business profile into a PDF.
type Renderer interface {
	RenderInvoice(invoice *model.Invoice, owner *model.User) ([]byte, error)
}

type marotoRenderer struct{}

func NewRenderer() Renderer {
	return &marotoRenderer{}
}

func (r *marotoRenderer) RenderInvoice(invoice *model.Invoice, owner *model.User) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, owner.BusinessName, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, "Invoice #"+ShortNumber(invoice.ID.String()), props.Text{
			Size:  12,
			Style: fontstyle.Bold,
		}),
	)

	dueDate := "-"
	if invoice.DueDate != nil {
		dueDate = invoice.DueDate.Format("02 Jan 2006")
	}
	m.AddRow(18,
		col.New(6).Add(
			text.New("Date of issue: "+invoice.InvoiceDate.Format("02 Jan 2006"), props.Text{Top: 0}),
			text.New("Date due: "+dueDate, props.Text{Top: 5}),
			text.New("Status: "+string(invoice.Status), props.Text{Top: 10}),
		),
		col.New(6),
	)

	// Bill-to block
	billTo := []string{"Bill to"}
	if invoice.Customer != nil {
		billTo = append(billTo, invoice.Customer.Name, invoice.Customer.Address)
		if invoice.Customer.Email != "" {
			billTo = append(billTo, invoice.Customer.Email)
		}
	}
	billCol := col.New(6)
	for i, line := range billTo {
		style := fontstyle.Normal
		if i == 0 {
			style = fontstyle.Bold
		}
		billCol.Add(text.New(line, props.Text{Top: float64(i * 5), Style: style}))
	}
	m.AddRow(28, billCol, col.New(6))

	// Table header
	m.AddRow(10,
		text.NewCol(5, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Barcode", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range invoice.Items {
		m.AddRow(8,
			text.NewCol(5, item.Name, props.Text{Size: 9}),
			text.NewCol(2, item.Barcode, props.Text{Size: 9}),
			text.NewCol(1, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, FormatAmount(item.Price), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, FormatAmount(item.Price*int64(item.Quantity)), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, FormatAmount(invoice.TotalAmount), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Discount", props.Text{Size: 9}),
		text.NewCol(2, FormatAmount(invoice.Discount), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Amount due", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, FormatAmount(invoice.FinalAmount), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	m.AddRow(16,
		text.NewCol(12, "Generated "+time.Now().Format("02 Jan 2006 15:04"), props.Text{
			Size:  8,
			Align: align.Left,
			Top:   8,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return doc.GetBytes(), nil
}

// FormatAmount renders an amount stored in paise as rupees, e.g. 123450 -> "Rs. 1234.50".
func FormatAmount(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	return fmt.Sprintf("%sRs. %d.%02d", sign, paise/100, paise%100)
}

// ShortNumber derives the human-facing invoice number from the record ID:
// the last six hex characters, uppercased.
func ShortNumber(id string) string {
	s := strings.ReplaceAll(id, "-", "")
	if len(s) > 6 {
		s = s[len(s)-6:]
	}
	return strings.ToUpper(s)
}
