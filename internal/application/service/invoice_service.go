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

// InvoiceService handles invoice listing and PDF operations
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	render      *RenderService
	files       documentFiles
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	fileRepo repository.GeneratedFileRepository,
	render *RenderService,
	store FileStore,
	mailer DocumentMailer,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		render:      render,
		files:       newDocumentFiles(layout.KindInvoice, fileRepo, store, mailer, logger),
	}
}

// ListInvoicesInput represents the input for listing invoices
type ListInvoicesInput struct {
	UserID     uuid.UUID
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	ClientID   *uuid.UUID
	SortBy     string
	SortOrder  string
}

// List lists the caller's invoices with filtering
func (s *InvoiceService) List(ctx context.Context, input *ListInvoicesInput) (*pagination.PaginatedResult[entity.Invoice], error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	input.Pagination.Validate()

	params := &repository.InvoiceFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		ClientID:   input.ClientID,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
	}

	invoices, total, err := s.invoiceRepo.List(ctx, input.UserID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// Get retrieves an invoice with everything needed to render it
func (s *InvoiceService) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetForRender(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if err := ownedBy(invoice.UserID, userID); err != nil {
		return nil, err
	}
	return invoice, nil
}

// RenderPDF renders a stored invoice
func (s *InvoiceService) RenderPDF(ctx context.Context, userID, id uuid.UUID) (*RenderedPDF, error) {
	invoice, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.render.PDF(ctx, document.FromInvoice(invoice))
}

// SavePDF stores data as the invoice's PDF. Without data the invoice is rendered
// and the result stored.
func (s *InvoiceService) SavePDF(ctx context.Context, userID, id uuid.UUID, data []byte) (*entity.GeneratedFile, error) {
	invoice, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	rendered, err := s.pdfFor(ctx, invoice, data)
	if err != nil {
		return nil, err
	}
	return s.files.save(ctx, invoice.UserID, invoice.ID, rendered)
}

// Files lists the PDFs saved for an invoice
func (s *InvoiceService) Files(ctx context.Context, userID, id uuid.UUID) ([]entity.GeneratedFile, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if err := ownedBy(invoice.UserID, userID); err != nil {
		return nil, err
	}
	return s.files.list(ctx, invoice.ID)
}

// SavedPDF returns the most recently saved PDF of an invoice
func (s *InvoiceService) SavedPDF(ctx context.Context, userID, id uuid.UUID) (*RenderedPDF, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if err := ownedBy(invoice.UserID, userID); err != nil {
		return nil, err
	}
	return s.files.latest(ctx, invoice.ID)
}

// SendPDF renders an invoice and mails it, by default to the invoice's client
func (s *InvoiceService) SendPDF(ctx context.Context, userID, id uuid.UUID, input SendInput) error {
	invoice, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	rendered, err := s.render.PDF(ctx, document.FromInvoice(invoice))
	if err != nil {
		return err
	}

	mail := email.DocumentMail{
		To:         input.To,
		Subject:    input.Subject,
		Title:      "la facture",
		Identifier: invoice.Number,
	}
	if mail.To == "" && invoice.Client != nil && invoice.Client.Email != nil {
		mail.To = strings.TrimSpace(*invoice.Client.Email)
	}
	if invoice.Issuer != nil {
		mail.IssuerName = invoice.Issuer.Name
	}
	if mail.Subject == "" {
		mail.Subject = subjectFor("Facture", invoice.Number, mail.IssuerName)
	}
	return s.files.send(rendered, mail)
}

func (s *InvoiceService) pdfFor(ctx context.Context, invoice *entity.Invoice, data []byte) (*RenderedPDF, error) {
	if len(data) == 0 {
		rendered, err := s.render.PDF(ctx, document.FromInvoice(invoice))
		if err != nil {
			return nil, err
		}
		if rendered.Failed != nil {
			return nil, toAppError(rendered.Failed)
		}
		return rendered, nil
	}
	return &RenderedPDF{Data: data, FileName: utils.PDFFileName(layout.KindInvoice, invoice.Number)}, nil
}
