package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/devis-api/internal/document"
	"github.com/sangkips/devis-api/internal/domain/entity"
	"github.com/sangkips/devis-api/internal/domain/enum"
	"github.com/sangkips/devis-api/internal/domain/repository"
	"github.com/sangkips/devis-api/pkg/apperror"
	"github.com/sangkips/devis-api/pkg/email"
	"github.com/sangkips/devis-api/pkg/layout"
	"github.com/sangkips/devis-api/pkg/pagination"
	"github.com/sangkips/devis-api/pkg/utils"
	"go.uber.org/zap"
)

// QuoteService handles quote listing and PDF operations
type QuoteService struct {
	quoteRepo repository.QuoteRepository
	render    *RenderService
	files     documentFiles
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	fileRepo repository.GeneratedFileRepository,
	render *RenderService,
	store FileStore,
	mailer DocumentMailer,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo: quoteRepo,
		render:    render,
		files:     newDocumentFiles(layout.KindQuote, fileRepo, store, mailer, logger),
	}
}

// ListQuotesInput represents the input for listing quotes
type ListQuotesInput struct {
	UserID     uuid.UUID
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.QuoteStatus
	ClientID   *uuid.UUID
	SortBy     string
	SortOrder  string
}

// List lists the caller's quotes with filtering
func (s *QuoteService) List(ctx context.Context, input *ListQuotesInput) (*pagination.PaginatedResult[entity.Quote], error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	input.Pagination.Validate()

	params := &repository.QuoteFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		ClientID:   input.ClientID,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
	}

	quotes, total, err := s.quoteRepo.List(ctx, input.UserID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(quotes, pag), nil
}

// Get retrieves a quote with everything needed to render it
func (s *QuoteService) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Quote, error) {
	quote, err := s.quoteRepo.GetForRender(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, apperror.NewNotFoundError("Quote")
	}
	if err := ownedBy(quote.UserID, userID); err != nil {
		return nil, err
	}
	return quote, nil
}

// RenderPDF renders a stored quote
func (s *QuoteService) RenderPDF(ctx context.Context, userID, id uuid.UUID) (*RenderedPDF, error) {
	quote, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.render.PDF(ctx, document.FromQuote(quote))
}

// SavePDF stores data as the quote's PDF. Without data the quote is rendered
// and the result stored.
func (s *QuoteService) SavePDF(ctx context.Context, userID, id uuid.UUID, data []byte) (*entity.GeneratedFile, error) {
	quote, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	rendered, err := s.pdfFor(ctx, quote, data)
	if err != nil {
		return nil, err
	}
	return s.files.save(ctx, quote.UserID, quote.ID, rendered)
}

// Files lists the PDFs saved for a quote
func (s *QuoteService) Files(ctx context.Context, userID, id uuid.UUID) ([]entity.GeneratedFile, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, apperror.NewNotFoundError("Quote")
	}
	if err := ownedBy(quote.UserID, userID); err != nil {
		return nil, err
	}
	return s.files.list(ctx, quote.ID)
}

// SavedPDF returns the most recently saved PDF of a quote
func (s *QuoteService) SavedPDF(ctx context.Context, userID, id uuid.UUID) (*RenderedPDF, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, apperror.NewNotFoundError("Quote")
	}
	if err := ownedBy(quote.UserID, userID); err != nil {
		return nil, err
	}
	return s.files.latest(ctx, quote.ID)
}

// SendPDF renders a quote and mails it, by default to the quote's client
func (s *QuoteService) SendPDF(ctx context.Context, userID, id uuid.UUID, input SendInput) error {
	quote, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	rendered, err := s.render.PDF(ctx, document.FromQuote(quote))
	if err != nil {
		return err
	}

	mail := email.DocumentMail{
		To:         input.To,
		Subject:    input.Subject,
		Title:      "le devis",
		Identifier: quote.Number,
	}
	if mail.To == "" && quote.Client != nil && quote.Client.Email != nil {
		mail.To = strings.TrimSpace(*quote.Client.Email)
	}
	if quote.Issuer != nil {
		mail.IssuerName = quote.Issuer.Name
	}
	if mail.Subject == "" {
		mail.Subject = subjectFor("Devis", quote.Number, mail.IssuerName)
	}
	return s.files.send(rendered, mail)
}

func (s *QuoteService) pdfFor(ctx context.Context, quote *entity.Quote, data []byte) (*RenderedPDF, error) {
	if len(data) == 0 {
		rendered, err := s.render.PDF(ctx, document.FromQuote(quote))
		if err != nil {
			return nil, err
		}
		if rendered.Failed != nil {
			return nil, toAppError(rendered.Failed)
		}
		return rendered, nil
	}
	return &RenderedPDF{Data: data, FileName: utils.PDFFileName(layout.KindQuote, quote.Number)}, nil
}
