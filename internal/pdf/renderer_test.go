package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/devis-api/internal/document"
	"github.com/sangkips/devis-api/pkg/layout"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func canonical(kind string, n int) *document.Canonical {
	items := make([]layout.Item, n)
	for i := range items {
		items[i] = layout.Item{
			Key:         fmt.Sprintf("id:%d", i+1),
			Name:        fmt.Sprintf("Prestation %d", i+1),
			Description: strings.Repeat("Intégration et recette ", i%8),
			Quantity:    decimal.NewFromInt(int64(i%3 + 1)),
			Unit:        "jour",
			UnitPrice:   decimal.RequireFromString("450.00"),
			Amount:      decimal.RequireFromString("450.00").Mul(decimal.NewFromInt(int64(i%3 + 1))),
		}
	}
	return &document.Canonical{
		Kind:       kind,
		Identifier: "DEV-2024-042",
		Status:     "Envoyé",
		Object:     "Refonte complète de l'intranet",
		Issued:     time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Due:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Totals: document.CanonicalTotals{
			ExclTax:   decimal.RequireFromString("12500.00"),
			TaxRate:   decimal.NewFromInt(20),
			TaxAmount: decimal.RequireFromString("2500.00"),
			InclTax:   decimal.RequireFromString("15000.00"),
		},
		Client: document.Client{
			Name:    "Jeanne Martin",
			Email:   "jeanne@example.fr",
			Company: &document.ClientCompany{Name: "Martin & Fils", Siret: "12345678900011"},
		},
		Issuer: document.Issuer{
			Name:  "Studio Lumière",
			Siret: "98765432100022",
			Banking: &document.Banking{
				BankName: "Banque Populaire",
				IBAN:     "FR76 3000 6000 0112 3456 7890 189",
				BIC:      "AGRIFRPP",
			},
		},
		HasIssuer: true,
		Items:     items,
	}
}

func pageObjects(b []byte) int {
	return bytes.Count(b, []byte("<</Type /Page\n"))
}

func TestRenderPageCountFollowsLayout(t *testing.T) {
	r := NewRenderer(Config{})

	for _, kind := range []string{layout.KindQuote, layout.KindInvoice} {
		for _, n := range []int{1, 8, 9, 25, 40} {
			t.Run(fmt.Sprintf("%s/%d", kind, n), func(t *testing.T) {
				doc := canonical(kind, n)
				profile, _ := layout.ProfileFor(kind)
				l := layout.Paginate(doc.Items, profile)

				out, err := r.Render(doc, l)
				require.NoError(t, err)
				assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
				assert.Equal(t, l.PageCount(), pageObjects(out))
			})
		}
	}
}

func TestRenderWithoutIssuer(t *testing.T) {
	doc := canonical(layout.KindQuote, 3)
	doc.HasIssuer = false
	doc.Issuer = document.Issuer{}
	doc.Due = time.Time{}

	out, err := NewRenderer(DefaultConfig()).Render(doc, layout.Paginate(doc.Items, layout.QuoteProfile()))
	require.NoError(t, err)
	assert.Equal(t, 1, pageObjects(out))
}

func TestRenderIsStableForSameInput(t *testing.T) {
	r := NewRenderer(DefaultConfig())
	doc := canonical(layout.KindInvoice, 20)
	l := layout.Paginate(doc.Items, layout.InvoiceProfile())

	first, err := r.Render(doc, l)
	require.NoError(t, err)
	second, err := r.Render(doc, l)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestContinuationHeaderCarriesPageIndex(t *testing.T) {
	doc := canonical("quote", 30)
	title, right := continuationLabels(doc, layout.PageDescriptor{Number: 2, Total: 3})
	assert.Equal(t, "DEVIS N° DEV-2024-042 (suite)", title)
	assert.Equal(t, "Jeanne Martin - Page 2 / 3", right)

	doc.Client.Name = "  "
	_, right = continuationLabels(doc, layout.PageDescriptor{Number: 3, Total: 3})
	assert.Equal(t, "Page 3 / 3", right)
}

func TestRenderNilDocument(t *testing.T) {
	_, err := NewRenderer(DefaultConfig()).Render(nil, layout.Layout{})
	assert.Error(t, err)
}

func TestRenderError(t *testing.T) {
	out, err := NewRenderer(DefaultConfig()).RenderError(&document.PreconditionError{
		Field: document.FieldClient,
		Kind:  layout.KindQuote,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, 1, pageObjects(out))
}

func TestFormatter(t *testing.T) {
	f := newFormatter(DefaultConfig().Locale, "€")

	assert.Equal(t, "1 234,50 €", f.money(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0,00 €", f.money(decimal.Zero))
	assert.Equal(t, "3", f.quantity(decimal.NewFromInt(3)))
	assert.Equal(t, "1,5", f.quantity(decimal.RequireFromString("1.5")))
	assert.Equal(t, "20 %", f.percent(decimal.NewFromInt(20)))
	assert.Equal(t, "02/05/2024", f.date(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "-", f.date(time.Time{}))
}
