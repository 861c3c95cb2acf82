package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/devis-api/internal/application/service"
	"github.com/sangkips/devis-api/internal/document"
	"github.com/sangkips/devis-api/internal/presentation/http/dto/response"
	"github.com/sangkips/devis-api/pkg/apperror"
	"github.com/sangkips/devis-api/pkg/pagination"
)

// Response headers describing the outcome of a PDF render
const (
	HeaderDocumentStatus  = "X-Document-Status"
	HeaderDocumentMissing = "X-Document-Missing"
	HeaderDocumentPages   = "X-Document-Pages"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// requireUser writes a 401 and returns false when the request is anonymous
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// pathID parses the :id parameter
func pathID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid "+resource+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// listQuery holds the query parameters shared by list endpoints
type listQuery struct {
	pagination *pagination.PaginationParams
	search     string
	status     string
	clientID   *uuid.UUID
	sortBy     string
	sortOrder  string
}

func parseListQuery(c *gin.Context) listQuery {
	q := listQuery{
		pagination: pagination.ParamsFromQuery(c.Query("page"), c.Query("per_page")),
		search:     c.Query("search"),
		status:     c.Query("status"),
		sortBy:     c.Query("sort_by"),
		sortOrder:  c.Query("sort_order"),
	}
	if cid := c.Query("client_id"); cid != "" {
		if parsed, err := uuid.Parse(cid); err == nil {
			q.clientID = &parsed
		}
	}
	return q
}

// decodeDocument reads a document body. An empty or null body yields a nil
// document, which the render pipeline reports as missing. Mistyped fields
// decode to their zero value; only malformed JSON or a non-object is rejected.
func decodeDocument(c *gin.Context, maxBytes int64) (*document.Document, error) {
	body := c.Request.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(c.Writer, body, maxBytes)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperror.ErrPayloadTooLarge
		}
		return nil, apperror.NewBadRequestError("Failed to read request body")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var doc *document.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperror.NewBadRequestError("Invalid document JSON: " + err.Error())
	}
	return doc, nil
}

// readPDFBody reads an uploaded PDF from a multipart "file" field or from a
// raw application/pdf body. An empty body returns nil.
func readPDFBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, uploadError(err, "Missing file field")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, apperror.NewBadRequestError("Failed to open uploaded file")
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, uploadError(err, "Failed to read uploaded file")
		}
		return data, nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, uploadError(err, "Failed to read request body")
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

func uploadError(err error, message string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperror.ErrPayloadTooLarge
	}
	return apperror.NewBadRequestError(message)
}

// writeRendered sends a rendered PDF, flagging precondition failures in
// headers so clients can tell the explanatory page from the document.
func writeRendered(c *gin.Context, rendered *service.RenderedPDF, inline bool) {
	status := "rendered"
	if rendered.Failed != nil {
		status = "precondition-failed"
		c.Header(HeaderDocumentMissing, rendered.Failed.Field)
	}
	c.Header(HeaderDocumentStatus, status)
	c.Header(HeaderDocumentPages, fmt.Sprint(rendered.Pages))
	response.PDF(c, http.StatusOK, rendered.FileName, rendered.Data, inline)
}

// sendRequest is the optional body of a send request
type sendRequest struct {
	To      string `json:"to" binding:"omitempty,email"`
	Subject string `json:"subject" binding:"omitempty,max=200"`
}

func bindSendRequest(c *gin.Context) (service.SendInput, bool) {
	var req sendRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.ValidationError(c, []apperror.FieldError{{Field: "to", Message: err.Error()}})
			return service.SendInput{}, false
		}
	}
	return service.SendInput{To: req.To, Subject: req.Subject}, true
}

// inlineRequested reports whether ?download=1 was not asked for
func inlineRequested(c *gin.Context) bool {
	return c.Query("download") == ""
}
