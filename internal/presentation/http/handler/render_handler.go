package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/devis-api/internal/application/service"
	"github.com/sangkips/devis-api/internal/presentation/http/dto/response"
)

// RenderHandler renders documents posted by the client
type RenderHandler struct {
	renderService *service.RenderService
	maxBodySize   int64
}

// NewRenderHandler creates a new render handler
func NewRenderHandler(renderService *service.RenderService, maxBodySize int64) *RenderHandler {
	return &RenderHandler{renderService: renderService, maxBodySize: maxBodySize}
}

// Layout handles computing page descriptors
// @Summary Lay out a document
// @Description Paginates the document's line items and returns the page descriptors
// @Tags render
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param kind path string true "quote or invoice"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /render/{kind}/layout [post]
func (h *RenderHandler) Layout(c *gin.Context) {
	doc, err := decodeDocument(c, h.maxBodySize)
	if err != nil {
		response.Error(c, err)
		return
	}
	if doc != nil {
		doc.Kind = c.Param("kind")
	}

	l, err := h.renderService.Layout(c.Request.Context(), doc)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Layout computed successfully", l)
}

// PDF handles rendering a posted document
// @Summary Render a document
// @Description Renders the document as a PDF. Documents failing a hard precondition render a single explanatory page.
// @Tags render
// @Security BearerAuth
// @Accept json
// @Produce application/pdf
// @Param kind path string true "quote or invoice"
// @Param download query string false "Send as attachment"
// @Success 200 {file} file
// @Router /render/{kind}/pdf [post]
func (h *RenderHandler) PDF(c *gin.Context) {
	doc, err := decodeDocument(c, h.maxBodySize)
	if err != nil {
		response.Error(c, err)
		return
	}
	if doc != nil {
		doc.Kind = c.Param("kind")
	}

	rendered, err := h.renderService.PDF(c.Request.Context(), doc)
	if err != nil {
		response.Error(c, err)
		return
	}

	writeRendered(c, rendered, inlineRequested(c))
}
