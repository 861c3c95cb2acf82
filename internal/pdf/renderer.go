// Package pdf draws paginated quotes and invoices with fpdf. It never decides
// page breaks itself: every break comes from the layout descriptors.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/sangkips/devis-api/internal/document"
	"github.com/sangkips/devis-api/pkg/layout"
	"golang.org/x/text/language"
)

// Page geometry in millimetres (A4 portrait)
const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginTop    = 15.0
	contentWidth = pageWidth - 2*marginLeft
	footerY      = 282.0
	tableHeadH   = 8.0
)

// Table columns: # | designation | qty | unit | unit price | total
var columns = [...]float64{10, 80, 15, 20, 27.5, 27.5}

// Config controls the look of generated PDFs
type Config struct {
	// UnitScale converts abstract layout units into millimetres
	UnitScale  float64
	FontFamily string
	Locale     language.Tag
	Currency   string
}

// DefaultConfig returns the renderer settings the layout profiles were tuned against
func DefaultConfig() Config {
	return Config{
		UnitScale:  0.25,
		FontFamily: "Helvetica",
		Locale:     language.French,
		Currency:   "€",
	}
}

// Renderer turns a canonical document and its layout into PDF bytes
type Renderer struct {
	cfg Config
	fmt formatter
}

// NewRenderer creates a renderer, filling unset config fields with defaults
func NewRenderer(cfg Config) *Renderer {
	def := DefaultConfig()
	if cfg.UnitScale <= 0 {
		cfg.UnitScale = def.UnitScale
	}
	if cfg.FontFamily == "" {
		cfg.FontFamily = def.FontFamily
	}
	if cfg.Locale == language.Und {
		cfg.Locale = def.Locale
	}
	if cfg.Currency == "" {
		cfg.Currency = def.Currency
	}
	return &Renderer{cfg: cfg, fmt: newFormatter(cfg.Locale, cfg.Currency)}
}

// page bundles the fpdf handle with its cp1252 translator
type page struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (r *Renderer) newDocument(title string, created time.Time) page {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	if created.IsZero() {
		created = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetTitle(title, true)
	pdf.SetCreator("devis-api", true)
	return page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// Render draws every page descriptor of l
func (r *Renderer) Render(doc *document.Canonical, l layout.Layout) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("pdf: nil document")
	}
	p := r.newDocument(documentTitle(doc.Kind)+" "+doc.Identifier, doc.Issued)
	if doc.HasIssuer {
		p.pdf.SetAuthor(doc.Issuer.Name, true)
	}

	for _, desc := range l.Pages {
		p.pdf.AddPage()
		if desc.Header == layout.HeaderFull {
			r.fullHeader(p, doc)
		} else {
			r.continuationHeader(p, doc, desc)
		}
		if len(desc.Items) > 0 {
			r.itemTable(p, desc.Items)
		}
		if desc.ShowTrailing {
			r.trailing(p, doc, l.Profile)
		}
		r.pageFooter(p, doc, desc)
	}

	return output(p.pdf)
}

// RenderError draws the single explanatory page used for precondition failures
func (r *Renderer) RenderError(pe *document.PreconditionError) ([]byte, error) {
	p := r.newDocument("Erreur de génération", time.Time{})
	p.pdf.AddPage()

	p.pdf.SetFont(r.cfg.FontFamily, "B", 18)
	p.pdf.SetTextColor(180, 30, 30)
	p.pdf.CellFormat(contentWidth, 12, p.tr("Impossible de générer le document"), "", 1, "L", false, 0, "")
	p.pdf.Ln(4)

	p.pdf.SetFont(r.cfg.FontFamily, "", 12)
	p.pdf.SetTextColor(40, 40, 40)
	p.pdf.MultiCell(contentWidth, 6, p.tr(pe.Message()), "", "L", false)
	p.pdf.Ln(2)
	p.pdf.SetFont(r.cfg.FontFamily, "I", 9)
	p.pdf.SetTextColor(110, 110, 110)
	p.pdf.MultiCell(contentWidth, 5, p.tr("Complétez les informations manquantes puis relancez la génération."), "", "L", false)

	return output(p.pdf)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: write document: %w", err)
	}
	return buf.Bytes(), nil
}

func documentTitle(kind string) string {
	if kind == layout.KindInvoice {
		return "FACTURE"
	}
	return "DEVIS"
}
