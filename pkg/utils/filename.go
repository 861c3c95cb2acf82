package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlug    = regexp.MustCompile("[^a-z0-9-]")
	dashRepeat = regexp.MustCompile("-+")
)

// Slugify converts a string to a URL-friendly slug. Accents are folded
// ("Facture Été" becomes "facture-ete").
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err == nil {
		s = folded
	}

	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlug.ReplaceAllString(s, "")
	s = dashRepeat.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// PDFFileName names a rendered document, e.g. "devis-dev-2024-001.pdf"
func PDFFileName(kind, identifier string) string {
	prefix := "devis"
	if kind == "invoice" {
		prefix = "facture"
	}
	slug := Slugify(identifier)
	if slug == "" {
		return prefix + ".pdf"
	}
	return prefix + "-" + slug + ".pdf"
}
