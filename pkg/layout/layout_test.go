package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

const (
	shortText  = "Audit de sécurité"
	mediumText = "Mise en place d'un pipeline d'intégration continue avec tests automatisés et déploiement."
)

var longText = strings.Repeat("Développement spécifique ", 7)

func makeItems(n int, description string) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Key:         fmt.Sprintf("pos:%d", i),
			Name:        fmt.Sprintf("Prestation %d", i+1),
			Description: description,
			Quantity:    decimal.NewFromInt(1),
			Unit:        "unité",
			UnitPrice:   decimal.NewFromInt(100),
			Amount:      decimal.NewFromInt(100),
		}
	}
	return items
}

func chunkSizes(chunks []Chunk) []int {
	sizes := make([]int, len(chunks))
	for i, c := range chunks {
		sizes[i] = len(c.Items)
	}
	return sizes
}

// -----------------------------------------------------------------------------
// Profiles
// -----------------------------------------------------------------------------

func TestBuiltInProfiles(t *testing.T) {
	q := QuoteProfile()
	assert.Equal(t, Budget{MaxHeight: 400, MaxItems: 10}, q.First)
	assert.Equal(t, Budget{MaxHeight: 600, MaxItems: 15}, q.Continuation)
	assert.Equal(t, 180.0, q.TrailingHeight)
	assert.Equal(t, 8, q.PackThreshold)
	assert.True(t, q.HasBanking)

	inv := InvoiceProfile()
	assert.Equal(t, Budget{MaxHeight: 450, MaxItems: 12}, inv.First)
	assert.Equal(t, Budget{MaxHeight: 650, MaxItems: 18}, inv.Continuation)
	assert.Equal(t, 120.0, inv.TrailingHeight)
	assert.False(t, inv.HasBanking)

	require.NoError(t, q.Validate())
	require.NoError(t, inv.Validate())

	_, ok := ProfileFor("credit-note")
	assert.False(t, ok)
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"zero first height", func(p *Profile) { p.First.MaxHeight = 0 }},
		{"zero continuation items", func(p *Profile) { p.Continuation.MaxItems = 0 }},
		{"negative threshold", func(p *Profile) { p.PackThreshold = -1 }},
		{"negative trailing", func(p *Profile) { p.TrailingHeight = -5 }},
		{"tiers out of order", func(p *Profile) { p.Tiers.MediumOver = 200 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := QuoteProfile()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidProfile)
		})
	}
}

// -----------------------------------------------------------------------------
// Height estimation
// -----------------------------------------------------------------------------

func TestEstimateHeight(t *testing.T) {
	tiers := DefaultTiers()
	tests := []struct {
		name     string
		desc     string
		expected float64
	}{
		{"empty", "", 40},
		{"short", shortText, 40},
		{"exactly 80", strings.Repeat("a", 80), 40},
		{"81 chars", strings.Repeat("a", 81), 55},
		{"medium", mediumText, 55},
		{"exactly 150", strings.Repeat("a", 150), 55},
		{"151 chars", strings.Repeat("a", 151), 70},
		{"accents count as one char", strings.Repeat("é", 150), 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateHeight(Item{Description: tt.desc}, tiers)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// -----------------------------------------------------------------------------
// Packing
// -----------------------------------------------------------------------------

func TestPackBelowThresholdIsSingleChunk(t *testing.T) {
	for n := 1; n <= 8; n++ {
		items := Estimate(makeItems(n, longText), DefaultTiers())
		chunks := Pack(items, QuoteProfile())
		require.Len(t, chunks, 1, "n=%d", n)
		assert.Len(t, chunks[0].Items, n)
	}
}

func TestPackQuoteLongDescriptions(t *testing.T) {
	items := Estimate(makeItems(11, longText), DefaultTiers())
	chunks := Pack(items, QuoteProfile())

	// 5 x 70 = 350 fits the 400 first-page ceiling, a sixth would not
	assert.Equal(t, []int{5, 6}, chunkSizes(chunks))
	assert.Equal(t, 350.0, chunks[0].Height)
	assert.Equal(t, QuoteProfile().Continuation, chunks[1].Budget)
}

func TestPackItemCeiling(t *testing.T) {
	p := QuoteProfile()
	p.First = Budget{MaxHeight: 10000, MaxItems: 3}
	p.Continuation = Budget{MaxHeight: 10000, MaxItems: 4}

	chunks := Pack(Estimate(makeItems(12, shortText), p.Tiers), p)
	assert.Equal(t, []int{3, 4, 4, 1}, chunkSizes(chunks))
}

func TestPackInvoiceUsesLargerBudgets(t *testing.T) {
	chunks := Pack(Estimate(makeItems(20, shortText), DefaultTiers()), InvoiceProfile())
	// 11 x 40 = 440 <= 450, a twelfth would reach 480
	assert.Equal(t, []int{11, 9}, chunkSizes(chunks))
}

func TestPackOversizedItemIsStillPlaced(t *testing.T) {
	p := QuoteProfile()
	items := Estimate(makeItems(10, shortText), p.Tiers)
	items[4].Height = 900

	chunks := Pack(items, p)
	assert.Equal(t, []int{4, 1, 5}, chunkSizes(chunks))
	assert.True(t, chunks[1].Overflow())
	assert.False(t, chunks[0].Overflow())
	assert.False(t, chunks[2].Overflow())
}

func TestPackEmptyInput(t *testing.T) {
	p := QuoteProfile()
	p.PackThreshold = -1 // force the packing path
	chunks := Pack(nil, p)
	require.Len(t, chunks, 1)
	assert.Empty(t, chunks[0].Items)
}

// -----------------------------------------------------------------------------
// Placement
// -----------------------------------------------------------------------------

func TestNeedsSeparatePage(t *testing.T) {
	tests := []struct {
		name     string
		profile  Profile
		n        int
		desc     string
		expected bool
	}{
		{"quote 3 short fits", QuoteProfile(), 3, shortText, false},
		{"quote 5 short fits exactly", QuoteProfile(), 5, shortText, false}, // 200+180 = 380
		{"quote 6 short overflows first page", QuoteProfile(), 6, shortText, true},
		{"quote 11 long fits continuation", QuoteProfile(), 11, longText, false}, // 420+180 = 600
		{"invoice 8 short fits", InvoiceProfile(), 8, shortText, false},         // 320+120 = 440
		{"invoice 8 medium overflows", InvoiceProfile(), 8, mediumText, true},   // 440+120 = 560
		{"quote 20 long last chunk overflows", QuoteProfile(), 20, longText, true}, // 490+180 = 670
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Pack(Estimate(makeItems(tt.n, tt.desc), tt.profile.Tiers), tt.profile)
			assert.Equal(t, tt.expected, NeedsSeparatePage(chunks, tt.profile))
		})
	}
}

// -----------------------------------------------------------------------------
// Assembly
// -----------------------------------------------------------------------------

func TestAssembleSeparateTrailingPage(t *testing.T) {
	l := Paginate(makeItems(9, shortText), QuoteProfile())

	require.True(t, l.SeparateTrailingPage)
	require.Len(t, l.Pages, 2)

	first, last := l.Pages[0], l.Pages[1]
	assert.Equal(t, HeaderFull, first.Header)
	assert.Len(t, first.Items, 9)
	assert.False(t, first.ShowTrailing)

	assert.Equal(t, HeaderContinuation, last.Header)
	assert.Equal(t, 2, last.Number)
	assert.Equal(t, 2, last.Total)
	assert.True(t, last.TrailingOnly())
}

func TestAssembleSeparatePageAfterSeveralChunks(t *testing.T) {
	l := Paginate(makeItems(20, longText), QuoteProfile())

	assert.Equal(t, []int{5, 8, 7}, chunkSizes(l.Chunks))
	require.True(t, l.SeparateTrailingPage)
	require.Len(t, l.Pages, 4)

	last := l.Pages[3]
	assert.True(t, last.TrailingOnly())
	assert.Equal(t, HeaderContinuation, last.Header)
	assert.Equal(t, 4, last.Number)
	assert.Equal(t, 4, last.Total)
	assert.False(t, l.Pages[2].ShowTrailing)
}

func TestUnpackedLayoutNeverOverflows(t *testing.T) {
	l := Paginate(makeItems(8, longText), QuoteProfile()) // 560 on a 400 budget

	require.False(t, l.Packed)
	for _, page := range l.Pages {
		assert.False(t, page.Overflow, "page %d", page.Number)
	}
}

func TestAssembleOrdinalsAreContinuous(t *testing.T) {
	l := Paginate(makeItems(40, mediumText), QuoteProfile())
	require.Greater(t, len(l.Pages), 2)

	for k, item := range l.ContentItems() {
		assert.Equal(t, k+1, item.Ordinal)
	}
	for i, page := range l.Pages {
		assert.Equal(t, i+1, page.Number)
		assert.Equal(t, len(l.Pages), page.Total)
		if i > 0 {
			assert.Equal(t, HeaderContinuation, page.Header)
		}
	}
}

// -----------------------------------------------------------------------------
// Paginate scenarios and properties
// -----------------------------------------------------------------------------

func TestPaginateScenarioQuoteThreeShortItems(t *testing.T) {
	l := Paginate(makeItems(3, shortText), QuoteProfile())

	require.Len(t, l.Pages, 1)
	assert.True(t, l.Pages[0].ShowTrailing)
	assert.Equal(t, HeaderFull, l.Pages[0].Header)
	assert.False(t, l.Packed)
}

func TestPaginateProperties(t *testing.T) {
	descs := []string{"", shortText, mediumText, longText}
	profiles := []Profile{QuoteProfile(), InvoiceProfile()}

	for _, p := range profiles {
		for n := 1; n <= 60; n++ {
			items := makeItems(n, "")
			for i := range items {
				items[i].Description = descs[(i*7+n)%len(descs)]
			}

			l := Paginate(items, p)
			require.NoError(t, l.Validate(items), "%s n=%d", p.Kind, n)

			if n <= p.PackThreshold {
				content := 0
				for _, page := range l.Pages {
					if !page.TrailingOnly() {
						content++
					}
				}
				assert.Equal(t, 1, content, "%s n=%d", p.Kind, n)
			}
		}
	}
}

func TestPaginateIsDeterministic(t *testing.T) {
	items := makeItems(33, mediumText)
	a := Paginate(items, InvoiceProfile())
	b := Paginate(items, InvoiceProfile())
	assert.Equal(t, a, b)
}

func TestValidateDetectsDroppedItem(t *testing.T) {
	items := makeItems(12, shortText)
	l := Paginate(items, QuoteProfile())
	l.Pages[0].Items = l.Pages[0].Items[1:]
	assert.ErrorIs(t, l.Validate(items), ErrInconsistentLayout)
}
