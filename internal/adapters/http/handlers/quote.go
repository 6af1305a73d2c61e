package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebox/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebox/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

const (
	// HeaderTotalCount carries the list length on paginated responses.
	HeaderTotalCount = "X-Total-Count"

	importFormField = "file"
)

// QuoteHandler serves the quote list, the category selector and the
// session's last shown quote.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// QuoteResponse is a quote as the API returns it. Display is the text the
// display region shows.
type QuoteResponse struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Display  string `json:"display"`
}

// QuoteItem is one entry of the paginated list.
type QuoteItem struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// AddQuoteRequest is the body of POST /quotes. Blank fields are rejected by
// the quote service with the form's warning message.
type AddQuoteRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// AddQuoteResponse describes the list after an add.
type AddQuoteResponse struct {
	Quote      QuoteResponse    `json:"quote"`
	Total      int              `json:"total"`
	Categories app.CategoryView `json:"categories"`
	Shown      *QuoteResponse   `json:"shown,omitempty"`
	Message    string           `json:"message,omitempty"`
}

// SelectCategoryRequest is the body of PUT /categories/selected.
type SelectCategoryRequest struct {
	Category string `json:"category" validate:"required,notempty"`
}

// SelectionResponse is the selector state after a change, with the quote
// shown under it. Message explains an empty category.
type SelectionResponse struct {
	Selected string         `json:"selected"`
	Quote    *QuoteResponse `json:"quote,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// ImportResponse reports an import with the refreshed selector and the
// quote shown under it.
type ImportResponse struct {
	Imported   int              `json:"imported"`
	Total      int              `json:"total"`
	Categories app.CategoryView `json:"categories"`
	Shown      *QuoteResponse   `json:"shown,omitempty"`
	Message    string           `json:"message"`
}

func toQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		Text:     q.Text,
		Category: q.Category,
		Display:  q.Render(),
	}
}

// ListQuotes handles GET /api/v1/quotes with cursor pagination over the
// list in insertion order.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var req dto.PageRequest

	err := dto.BindQueryAndValidate(c, &req)
	if err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	offset, err := req.Offset()
	if err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}

	limit := req.GetLimit()

	page, total, err := h.service.Page(c.Request.Context(), offset, limit+1)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	items := make([]QuoteItem, len(page))
	for i, q := range page {
		items[i] = QuoteItem{Position: offset + i, Text: q.Text, Category: q.Category}
	}

	c.Header(HeaderTotalCount, strconv.Itoa(total))
	c.JSON(http.StatusOK, dto.NewPage(items, offset, limit))
}

// AddQuote handles POST /api/v1/quotes.
func (h *QuoteHandler) AddQuote(c *gin.Context) {
	var req AddQuoteRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	result, err := h.service.AddQuote(c.Request.Context(), middleware.GetSessionID(c), req.Text, req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	resp := AddQuoteResponse{
		Quote:      toQuoteResponse(result.Quote),
		Total:      result.Total,
		Categories: result.Categories,
	}

	if result.Shown != nil {
		shown := toQuoteResponse(*result.Shown)
		resp.Shown = &shown
	} else {
		resp.Message = domain.NoQuotesMessage
	}

	c.JSON(http.StatusCreated, resp)
}

// RandomQuote handles GET /api/v1/quotes/random. A category query parameter
// changes the selection first, like picking it in the selector.
func (h *QuoteHandler) RandomQuote(c *gin.Context) {
	quote, err := h.service.FilterQuotes(c.Request.Context(), middleware.GetSessionID(c), c.Query("category"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// ExportQuotes handles GET /api/v1/quotes/export as a quotes.json download.
func (h *QuoteHandler) ExportQuotes(c *gin.Context) {
	var buf bytes.Buffer

	err := h.service.ExportJSON(c.Request.Context(), &buf)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": domain.ExportFileName}))
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

// ImportQuotes handles POST /api/v1/quotes/import. The document is either
// the multipart field "file" or the raw request body.
func (h *QuoteHandler) ImportQuotes(c *gin.Context) {
	body, err := importBody(c)
	if err != nil {
		dto.RespondWithBindError(c, err)
		return
	}
	defer body.Close()

	result, err := h.service.ImportQuotes(c.Request.Context(), middleware.GetSessionID(c), body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			dto.RespondWithBindError(c, err)
			return
		}

		dto.HandleError(c, err)

		return
	}

	resp := ImportResponse{
		Imported:   result.Imported,
		Total:      result.Total,
		Categories: result.Categories,
		Message:    domain.ImportedMessage,
	}

	if result.Shown != nil {
		shown := toQuoteResponse(*result.Shown)
		resp.Shown = &shown
	}

	c.JSON(http.StatusOK, resp)
}

func importBody(c *gin.Context) (io.ReadCloser, error) {
	mediaType, _, _ := mime.ParseMediaType(c.ContentType())
	if mediaType != "multipart/form-data" {
		return c.Request.Body, nil
	}

	header, err := c.FormFile(importFormField)
	if err != nil {
		return nil, err
	}

	return header.Open()
}

// Categories handles GET /api/v1/categories.
func (h *QuoteHandler) Categories(c *gin.Context) {
	view, err := h.service.Categories(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SelectCategory handles PUT /api/v1/categories/selected. The selection is
// kept even when the category has no quotes.
func (h *QuoteHandler) SelectCategory(c *gin.Context) {
	var req SelectCategoryRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	resp := SelectionResponse{Selected: req.Category}

	quote, err := h.service.FilterQuotes(c.Request.Context(), middleware.GetSessionID(c), req.Category)

	switch {
	case err == nil:
		shown := toQuoteResponse(quote)
		resp.Quote = &shown
	case domain.IsNotFound(err):
		resp.Message = err.Error()
	default:
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LastQuote handles GET /api/v1/session/last-quote.
func (h *QuoteHandler) LastQuote(c *gin.Context) {
	quote, err := h.service.LastQuote(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// RegisterQuoteRoutes registers the quote routes on rg. guard runs in front
// of the routes that change state.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup, guard ...gin.HandlerFunc) {
	rg.GET("/quotes", h.ListQuotes)
	rg.GET("/quotes/random", h.RandomQuote)
	rg.GET("/quotes/export", h.ExportQuotes)
	rg.GET("/categories", h.Categories)
	rg.GET("/session/last-quote", h.LastQuote)

	write := rg.Group("", guard...)
	write.POST("/quotes", h.AddQuote)
	write.POST("/quotes/import", h.ImportQuotes)
	write.PUT("/categories/selected", h.SelectCategory)
}
