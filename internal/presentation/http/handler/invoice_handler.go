package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/devis-api/internal/application/service"
	"github.com/sangkips/devis-api/internal/domain/enum"
	"github.com/sangkips/devis-api/internal/presentation/http/dto/response"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	maxUpload      int64
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, maxUpload int64) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, maxUpload: maxUpload}
}

// List handles listing invoices
// @Summary List Invoices
// @Description Get the caller's invoices with pagination and filtering
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search in number and object"
// @Param status query string false "draft, sent, paid, overdue or cancelled"
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	q := parseListQuery(c)
	input := &service.ListInvoicesInput{
		UserID:     userID,
		Pagination: q.pagination,
		Search:     q.search,
		ClientID:   q.clientID,
		SortBy:     q.sortBy,
		SortOrder:  q.sortOrder,
	}
	if q.status != "" {
		status, ok := enum.ParseInvoiceStatus(q.status)
		if !ok {
			response.BadRequest(c, "Invalid invoice status")
			return
		}
		input.Status = &status
	}

	result, err := h.invoiceService.List(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Invoices retrieved successfully", result)
}

// Get handles getting a single invoice
// @Summary Get Invoice
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// RenderPDF handles rendering a stored invoice, or returning its last saved PDF with ?saved=1
// @Summary Invoice PDF
// @Tags invoices
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Param saved query string false "Return the last saved PDF"
// @Success 200 {file} file
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) RenderPDF(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "invoice")
	if !ok {
		return
	}

	var (
		rendered *service.RenderedPDF
		err      error
	)
	if c.Query("saved") != "" {
		rendered, err = h.invoiceService.SavedPDF(c.Request.Context(), userID, id)
	} else {
		rendered, err = h.invoiceService.RenderPDF(c.Request.Context(), userID, id)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	writeRendered(c, rendered, inlineRequested(c))
}

// SavePDF handles storing the invoice's PDF. The body is the PDF to keep; an
// empty body stores a fresh render.
// @Summary Save Invoice PDF
// @Tags invoices
// @Security BearerAuth
// @Accept application/pdf
// @Produce json
// @Param id path string true "Invoice ID"
// @Param Idempotency-Key header string false "Retries with the same key replay the first response"
// @Success 201 {object} response.APIResponse
// @Router /invoices/{id}/pdf [post]
func (h *InvoiceHandler) SavePDF(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "invoice")
	if !ok {
		return
	}

	data, err := readPDFBody(c, h.maxUpload)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.invoiceService.SavePDF(c.Request.Context(), userID, id, data)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "PDF saved successfully", file)
}

// Files handles listing the PDFs saved for an invoice
// @Summary Invoice saved PDFs
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id}/files [get]
func (h *InvoiceHandler) Files(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "invoice")
	if !ok {
		return
	}

	files, err := h.invoiceService.Files(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Files retrieved successfully", files)
}

// Send handles mailing the invoice to its client
// @Summary Send Invoice
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 202 {object} response.APIResponse
// @Router /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "invoice")
	if !ok {
		return
	}
	input, ok := bindSendRequest(c)
	if !ok {
		return
	}

	if err := h.invoiceService.SendPDF(c.Request.Context(), userID, id, input); err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, "Invoice sent successfully", nil)
}
