package service

import (
	"context"
	"net/http"

	"github.com/sangkips/devis-api/internal/document"
	"github.com/sangkips/devis-api/internal/pdf"
	"github.com/sangkips/devis-api/pkg/apperror"
	"github.com/sangkips/devis-api/pkg/layout"
	"github.com/sangkips/devis-api/pkg/utils"
	"go.uber.org/zap"
)

// RenderService turns documents into page layouts and PDFs
type RenderService struct {
	profiles map[string]layout.Profile
	renderer *pdf.Renderer
	logger   *zap.Logger
}

// NewRenderService creates a render service using the given per-kind profiles
func NewRenderService(profiles map[string]layout.Profile, renderer *pdf.Renderer, logger *zap.Logger) *RenderService {
	return &RenderService{
		profiles: profiles,
		renderer: renderer,
		logger:   logger,
	}
}

// Prepared is a normalized document together with its computed layout
type Prepared struct {
	Document *document.Canonical
	Layout   layout.Layout
}

// RenderedPDF is the outcome of a PDF render. Failed is set when a hard
// precondition stopped the render and Data holds the explanatory page.
type RenderedPDF struct {
	Data     []byte
	FileName string
	Pages    int
	Failed   *document.PreconditionError
}

// Prepare normalizes doc and paginates its line items
func (s *RenderService) Prepare(ctx context.Context, doc *document.Document) (*Prepared, error) {
	canonical, err := document.Normalize(doc)
	if err != nil {
		return nil, err
	}

	profile, ok := s.profiles[canonical.Kind]
	if !ok {
		return nil, &document.PreconditionError{Field: document.FieldKind, Kind: canonical.Kind}
	}

	l := layout.Paginate(canonical.Items, profile)
	if err := l.Validate(canonical.Items); err != nil {
		s.logger.Error("inconsistent layout",
			zap.String("kind", canonical.Kind),
			zap.String("identifier", canonical.Identifier),
			zap.Error(err),
		)
		return nil, apperror.NewInternalError("Failed to lay out document", err)
	}

	for _, page := range l.Pages {
		if page.Overflow {
			s.logger.Warn("page content exceeds its height budget",
				zap.String("identifier", canonical.Identifier),
				zap.Int("page", page.Number),
			)
		}
	}

	s.logger.Debug("document laid out",
		zap.String("kind", canonical.Kind),
		zap.String("identifier", canonical.Identifier),
		zap.Int("items", len(canonical.Items)),
		zap.Int("pages", l.PageCount()),
		zap.Bool("separate_trailing_page", l.SeparateTrailingPage),
	)

	return &Prepared{Document: canonical, Layout: l}, nil
}

// Layout returns the page descriptors of doc
func (s *RenderService) Layout(ctx context.Context, doc *document.Document) (*layout.Layout, error) {
	prepared, err := s.Prepare(ctx, doc)
	if err != nil {
		return nil, toAppError(err)
	}
	return &prepared.Layout, nil
}

// PDF renders doc. Precondition failures still produce a PDF: the single
// page explaining what is missing.
func (s *RenderService) PDF(ctx context.Context, doc *document.Document) (*RenderedPDF, error) {
	prepared, err := s.Prepare(ctx, doc)
	if pe, ok := document.AsPrecondition(err); ok {
		s.logger.Info("document precondition failed", zap.String("field", pe.Field), zap.String("kind", pe.Kind))

		data, rerr := s.renderer.RenderError(pe)
		if rerr != nil {
			return nil, apperror.NewInternalError("Failed to render PDF", rerr)
		}
		return &RenderedPDF{Data: data, FileName: "erreur.pdf", Pages: 1, Failed: pe}, nil
	}
	if err != nil {
		return nil, toAppError(err)
	}

	data, err := s.renderer.Render(prepared.Document, prepared.Layout)
	if err != nil {
		return nil, apperror.NewInternalError("Failed to render PDF", err)
	}

	return &RenderedPDF{
		Data:     data,
		FileName: utils.PDFFileName(prepared.Document.Kind, prepared.Document.Identifier),
		Pages:    prepared.Layout.PageCount(),
	}, nil
}

// toAppError maps document errors onto HTTP aware application errors
func toAppError(err error) error {
	if pe, ok := document.AsPrecondition(err); ok {
		return &apperror.AppError{
			Code:    http.StatusUnprocessableEntity,
			Message: pe.Message(),
			Errors:  []apperror.FieldError{{Field: pe.Field, Message: pe.Message()}},
			Err:     pe,
		}
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternalError("Failed to render document", err)
}
