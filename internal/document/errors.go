package document

import (
	"errors"
	"fmt"
)

// Fields whose absence stops rendering
const (
	FieldDocument   = "document"
	FieldIdentifier = "identifier"
	FieldClient     = "client"
	FieldKind       = "kind"
)

// PreconditionError reports a missing required field. It is terminal: the
// caller renders an explanatory page instead of the document.
type PreconditionError struct {
	Field string
	Kind  string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("document: missing %s", e.Field)
}

// Message is the sentence printed on the error page
func (e *PreconditionError) Message() string {
	switch e.Field {
	case FieldDocument:
		return "Aucune donnée de document disponible."
	case FieldIdentifier:
		return fmt.Sprintf("Le numéro %s est manquant.", documentNoun(e.Kind))
	case FieldClient:
		return "Les informations du client sont manquantes."
	case FieldKind:
		return fmt.Sprintf("Type de document inconnu : %q.", e.Kind)
	default:
		return "Document incomplet."
	}
}

// IsPrecondition reports whether err is a PreconditionError
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// AsPrecondition extracts a PreconditionError from err
func AsPrecondition(err error) (*PreconditionError, bool) {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func documentNoun(kind string) string {
	if kind == "invoice" {
		return "de la facture"
	}
	return "du devis"
}
