package pdf

import (
	"fmt"
	"strings"

	"github.com/sangkips/devis-api/internal/document"
	"github.com/sangkips/devis-api/pkg/layout"
)

func (r *Renderer) fullHeader(p page, doc *document.Canonical) {
	pdf := p.pdf
	top := pdf.GetY()

	// issuer block, left
	pdf.SetFont(r.cfg.FontFamily, "B", 13)
	pdf.SetTextColor(30, 30, 30)
	if doc.HasIssuer {
		pdf.CellFormat(95, 7, p.tr(doc.Issuer.Name), "", 2, "L", false, 0, "")
		pdf.SetFont(r.cfg.FontFamily, "", 9)
		for _, line := range nonEmpty(
			doc.Issuer.Address,
			doc.Issuer.Email,
			doc.Issuer.Phone,
			labelled("SIRET", doc.Issuer.Siret),
			labelled("TVA", doc.Issuer.VATNumber),
		) {
			pdf.CellFormat(95, 4.5, p.tr(line), "", 2, "L", false, 0, "")
		}
	}

	// title block, right
	pdf.SetXY(marginLeft+95, top)
	pdf.SetFont(r.cfg.FontFamily, "B", 20)
	pdf.SetTextColor(20, 60, 120)
	pdf.CellFormat(contentWidth-95, 9, documentTitle(doc.Kind), "", 2, "R", false, 0, "")
	pdf.SetFont(r.cfg.FontFamily, "", 10)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(contentWidth-95, 5, p.tr("N° "+doc.Identifier), "", 2, "R", false, 0, "")
	pdf.CellFormat(contentWidth-95, 5, p.tr("Date : "+r.fmt.date(doc.Issued)), "", 2, "R", false, 0, "")
	if !doc.Due.IsZero() {
		pdf.CellFormat(contentWidth-95, 5, p.tr(dueLabel(doc.Kind)+" : "+r.fmt.date(doc.Due)), "", 2, "R", false, 0, "")
	}
	pdf.CellFormat(contentWidth-95, 5, p.tr("Statut : "+doc.Status), "", 2, "R", false, 0, "")

	// client block
	clientTop := top + 38
	pdf.SetXY(marginLeft+95, clientTop)
	pdf.SetFillColor(244, 246, 250)
	pdf.SetFont(r.cfg.FontFamily, "B", 9)
	pdf.CellFormat(contentWidth-95, 6, "CLIENT", "", 2, "L", true, 0, "")
	pdf.SetFont(r.cfg.FontFamily, "", 10)
	lines := []string{doc.Client.Name}
	if c := doc.Client.Company; c != nil {
		lines = append(lines, c.Name, c.Address, labelled("SIRET", c.Siret))
	}
	lines = append(lines, doc.Client.Address, doc.Client.Email, doc.Client.Phone)
	for _, line := range nonEmpty(lines...) {
		pdf.CellFormat(contentWidth-95, 5, p.tr(line), "", 2, "L", true, 0, "")
	}

	y := pdf.GetY() + 6
	if doc.Object != "" {
		pdf.SetXY(marginLeft, y)
		pdf.SetFont(r.cfg.FontFamily, "B", 10)
		pdf.MultiCell(contentWidth, 5, p.tr("Objet : "+doc.Object), "", "L", false)
		y = pdf.GetY() + 3
	}
	pdf.SetXY(marginLeft, y)
}

func (r *Renderer) continuationHeader(p page, doc *document.Canonical, desc layout.PageDescriptor) {
	pdf := p.pdf
	pdf.SetFont(r.cfg.FontFamily, "B", 11)
	pdf.SetTextColor(20, 60, 120)
	title, right := continuationLabels(doc, desc)
	pdf.CellFormat(contentWidth/2, 7, p.tr(title), "B", 0, "L", false, 0, "")
	pdf.SetFont(r.cfg.FontFamily, "", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(contentWidth/2, 7, p.tr(right), "B", 1, "R", false, 0, "")
	pdf.SetTextColor(30, 30, 30)
	pdf.Ln(5)
}

func (r *Renderer) itemTable(p page, items []layout.PlacedItem) {
	pdf := p.pdf
	headers := [...]string{"#", "Désignation", "Qté", "Unité", "PU HT", "Total HT"}
	pdf.SetFont(r.cfg.FontFamily, "B", 9)
	pdf.SetFillColor(20, 60, 120)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		align := "L"
		if i >= 2 {
			align = "R"
		}
		pdf.CellFormat(columns[i], tableHeadH, p.tr(h), "", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(30, 30, 30)

	for i, item := range items {
		r.row(p, item, i%2 == 1)
	}
}

func (r *Renderer) row(p page, item layout.PlacedItem, shaded bool) {
	pdf := p.pdf
	x, y := pdf.GetXY()
	h := item.Height * r.cfg.UnitScale

	pdf.SetFillColor(248, 248, 248)
	if shaded {
		pdf.Rect(x, y, contentWidth, h, "F")
	}
	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(x, y+h, x+contentWidth, y+h)

	pdf.SetFont(r.cfg.FontFamily, "", 9)
	pdf.CellFormat(columns[0], 6, fmt.Sprint(item.Ordinal), "", 0, "L", false, 0, "")

	// designation: name line then as many description lines as the row allows
	descX := x + columns[0]
	pdf.SetFont(r.cfg.FontFamily, "B", 9)
	pdf.SetXY(descX, y)
	pdf.CellFormat(columns[1], 6, clip(pdf.SplitText(p.tr(item.Name), columns[1]-2)), "", 0, "L", false, 0, "")
	pdf.SetFont(r.cfg.FontFamily, "", 8)
	pdf.SetTextColor(90, 90, 90)
	lineH := 3.8
	room := int((h - 6) / lineH)
	lines := pdf.SplitText(p.tr(item.Description), columns[1]-2)
	if len(lines) > room {
		lines = lines[:room]
	}
	for i, line := range lines {
		pdf.SetXY(descX, y+6+float64(i)*lineH)
		pdf.CellFormat(columns[1], lineH, line, "", 0, "L", false, 0, "")
	}
	pdf.SetTextColor(30, 30, 30)

	pdf.SetFont(r.cfg.FontFamily, "", 9)
	pdf.SetXY(descX+columns[1], y)
	cells := [...]string{
		r.fmt.quantity(item.Quantity),
		item.Unit,
		r.fmt.money(item.UnitPrice),
		r.fmt.money(item.Amount),
	}
	for i, c := range cells {
		pdf.CellFormat(columns[i+2], 6, p.tr(c), "", 0, "R", false, 0, "")
	}
	pdf.SetXY(x, y+h)
}

func (r *Renderer) trailing(p page, doc *document.Canonical, profile layout.Profile) {
	pdf := p.pdf
	pdf.Ln(6)
	top := pdf.GetY()

	// totals, right column
	labelW, valueW := 40.0, 35.0
	left := marginLeft + contentWidth - labelW - valueW
	rows := [...][2]string{
		{"Total HT", r.fmt.money(doc.Totals.ExclTax)},
		{"TVA " + r.fmt.percent(doc.Totals.TaxRate), r.fmt.money(doc.Totals.TaxAmount)},
	}
	pdf.SetFont(r.cfg.FontFamily, "", 10)
	for _, row := range rows {
		pdf.SetX(left)
		pdf.CellFormat(labelW, 6, p.tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, p.tr(row[1]), "", 1, "R", false, 0, "")
	}
	pdf.SetX(left)
	pdf.SetFont(r.cfg.FontFamily, "B", 11)
	pdf.SetFillColor(20, 60, 120)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(labelW, 8, "Total TTC", "", 0, "L", true, 0, "")
	pdf.CellFormat(valueW, 8, p.tr(r.fmt.money(doc.Totals.InclTax)), "", 1, "R", true, 0, "")
	pdf.SetTextColor(30, 30, 30)

	// payment details and acceptance box, left column
	if profile.HasBanking && doc.HasIssuer && doc.Issuer.Banking != nil {
		b := doc.Issuer.Banking
		pdf.SetXY(marginLeft, top)
		pdf.SetFont(r.cfg.FontFamily, "B", 9)
		pdf.CellFormat(90, 5, p.tr("Coordonnées bancaires"), "", 2, "L", false, 0, "")
		pdf.SetFont(r.cfg.FontFamily, "", 8)
		for _, line := range nonEmpty(
			b.BankName,
			labelled("Titulaire", b.AccountHolder),
			labelled("IBAN", b.IBAN),
			labelled("BIC", b.BIC),
		) {
			pdf.CellFormat(90, 4, p.tr(line), "", 2, "L", false, 0, "")
		}
	}
	if doc.Kind == layout.KindQuote {
		boxY := top + 24
		pdf.SetXY(marginLeft, boxY)
		pdf.SetFont(r.cfg.FontFamily, "B", 9)
		pdf.CellFormat(80, 5, p.tr("Bon pour accord"), "", 2, "L", false, 0, "")
		pdf.SetFont(r.cfg.FontFamily, "I", 7)
		pdf.CellFormat(80, 4, p.tr("Date, signature et mention « bon pour accord »"), "", 2, "L", false, 0, "")
		pdf.Rect(marginLeft, boxY+10, 80, 18, "D")
	}
}

func (r *Renderer) pageFooter(p page, doc *document.Canonical, desc layout.PageDescriptor) {
	pdf := p.pdf
	pdf.SetXY(marginLeft, footerY)
	pdf.SetFont(r.cfg.FontFamily, "", 7)
	pdf.SetTextColor(120, 120, 120)
	left := documentTitle(doc.Kind) + " " + doc.Identifier
	if doc.HasIssuer {
		left = doc.Issuer.Name + " - " + left
	}
	pdf.CellFormat(contentWidth*0.75, 5, p.tr(left), "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentWidth*0.25, 5, pageIndex(desc), "T", 0, "R", false, 0, "")
	pdf.SetTextColor(30, 30, 30)
}

// continuationLabels returns the left and right cells of a continuation header
func continuationLabels(doc *document.Canonical, desc layout.PageDescriptor) (string, string) {
	title := fmt.Sprintf("%s N° %s (suite)", documentTitle(doc.Kind), doc.Identifier)
	right := pageIndex(desc)
	if name := strings.TrimSpace(doc.Client.Name); name != "" {
		right = name + " - " + right
	}
	return title, right
}

func pageIndex(desc layout.PageDescriptor) string {
	return fmt.Sprintf("Page %d / %d", desc.Number, desc.Total)
}

func dueLabel(kind string) string {
	if kind == layout.KindInvoice {
		return "Échéance"
	}
	return "Valable jusqu'au"
}

func labelled(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return label + " : " + value
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// clip keeps the first wrapped line of a name
func clip(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
