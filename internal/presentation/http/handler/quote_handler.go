package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/devis-api/internal/application/service"
	"github.com/sangkips/devis-api/internal/domain/enum"
	"github.com/sangkips/devis-api/internal/presentation/http/dto/response"
)

// QuoteHandler handles quote-related HTTP requests
type QuoteHandler struct {
	quoteService *service.QuoteService
	maxUpload    int64
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService *service.QuoteService, maxUpload int64) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService, maxUpload: maxUpload}
}

// List handles listing quotes
// @Summary List Quotes
// @Description Get the caller's quotes with pagination and filtering
// @Tags quotes
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search in number and object"
// @Param status query string false "draft, sent, accepted, refused or expired"
// @Success 200 {object} response.APIResponse
// @Router /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	q := parseListQuery(c)
	input := &service.ListQuotesInput{
		UserID:     userID,
		Pagination: q.pagination,
		Search:     q.search,
		ClientID:   q.clientID,
		SortBy:     q.sortBy,
		SortOrder:  q.sortOrder,
	}
	if q.status != "" {
		status, ok := enum.ParseQuoteStatus(q.status)
		if !ok {
			response.BadRequest(c, "Invalid quote status")
			return
		}
		input.Status = &status
	}

	result, err := h.quoteService.List(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Quotes retrieved successfully", result)
}

// Get handles getting a single quote
// @Summary Get Quote
// @Tags quotes
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} response.APIResponse
// @Router /quotes/{id} [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "quote")
	if !ok {
		return
	}

	quote, err := h.quoteService.Get(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote retrieved successfully", quote)
}

// RenderPDF handles rendering a stored quote, or returning its last saved PDF with ?saved=1
// @Summary Quote PDF
// @Tags quotes
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Quote ID"
// @Param saved query string false "Return the last saved PDF"
// @Success 200 {file} file
// @Router /quotes/{id}/pdf [get]
func (h *QuoteHandler) RenderPDF(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "quote")
	if !ok {
		return
	}

	var (
		rendered *service.RenderedPDF
		err      error
	)
	if c.Query("saved") != "" {
		rendered, err = h.quoteService.SavedPDF(c.Request.Context(), userID, id)
	} else {
		rendered, err = h.quoteService.RenderPDF(c.Request.Context(), userID, id)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	writeRendered(c, rendered, inlineRequested(c))
}

// SavePDF handles storing the quote's PDF. The body is the PDF to keep; an
// empty body stores a fresh render.
// @Summary Save Quote PDF
// @Tags quotes
// @Security BearerAuth
// @Accept application/pdf
// @Produce json
// @Param id path string true "Quote ID"
// @Param Idempotency-Key header string false "Retries with the same key replay the first response"
// @Success 201 {object} response.APIResponse
// @Router /quotes/{id}/pdf [post]
func (h *QuoteHandler) SavePDF(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "quote")
	if !ok {
		return
	}

	data, err := readPDFBody(c, h.maxUpload)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.quoteService.SavePDF(c.Request.Context(), userID, id, data)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "PDF saved successfully", file)
}

// Files handles listing the PDFs saved for a quote
// @Summary Quote saved PDFs
// @Tags quotes
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} response.APIResponse
// @Router /quotes/{id}/files [get]
func (h *QuoteHandler) Files(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "quote")
	if !ok {
		return
	}

	files, err := h.quoteService.Files(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Files retrieved successfully", files)
}

// Send handles mailing the quote to its client
// @Summary Send Quote
// @Tags quotes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Success 202 {object} response.APIResponse
// @Router /quotes/{id}/send [post]
func (h *QuoteHandler) Send(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "quote")
	if !ok {
		return
	}
	input, ok := bindSendRequest(c)
	if !ok {
		return
	}

	if err := h.quoteService.SendPDF(c.Request.Context(), userID, id, input); err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, "Quote sent successfully", nil)
}
