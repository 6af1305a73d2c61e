package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebox/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebox/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotebox/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/mocks"
	"github.com/jsamuelsen/quotebox/internal/ports"
)

const testSession = "3f1d2c4b-0000-4000-8000-000000000001"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newQuoteService(store ports.KeyValueStore) *app.QuoteService {
	return app.NewQuoteService(app.QuoteServiceConfig{
		Store:   store,
		Session: memory.New(),
		Logger:  discardLogger(),
		Rand:    func(int) int { return 0 },
	})
}

// setupQuoteRouter serves the quote routes the way the API group does.
func setupQuoteRouter(t *testing.T, store ports.KeyValueStore, guard ...gin.HandlerFunc) *gin.Engine {
	t.Helper()

	engine := gin.New()
	api := engine.Group("/api/v1", middleware.Session())
	NewQuoteHandler(newQuoteService(store)).RegisterQuoteRoutes(api, guard...)

	return engine
}

func serve(engine *gin.Engine, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(middleware.HeaderSessionID, testSession)

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func TestToQuoteResponse(t *testing.T) {
	got := toQuoteResponse(domain.Quote{Text: "Stay hungry.", Category: "Motivation"})

	assert.Equal(t, QuoteResponse{
		Text:     "Stay hungry.",
		Category: "Motivation",
		Display:  "\"Stay hungry.\"\nCategory: Motivation",
	}, got)
}

func TestQuoteHandler_AddQuote(t *testing.T) {
	engine := setupQuoteRouter(t, memory.New())

	w := serve(engine, http.MethodPost, "/api/v1/quotes",
		strings.NewReader(`{"text":"  Stay hungry. ","category":"Motivation"}`), "application/json")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[AddQuoteResponse](t, w)
	assert.Equal(t, "Stay hungry.", resp.Quote.Text)
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, []string{"all", "Motivation", "Programming", "Wisdom"}, resp.Categories.Categories)
	assert.Equal(t, domain.AllCategories, resp.Categories.Selected)
	require.NotNil(t, resp.Shown)
	assert.Empty(t, resp.Message)
	assert.Equal(t, testSession, w.Header().Get(middleware.HeaderSessionID))
}

func TestQuoteHandler_AddQuote_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "blank text", body: `{"text":"  ","category":"Motivation"}`, wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeValidation},
		{name: "missing category", body: `{"text":"Stay hungry."}`, wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeValidation},
		{name: "malformed", body: `{"text":`, wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			engine := setupQuoteRouter(t, store)

			w := serve(engine, http.MethodPost, "/api/v1/quotes", strings.NewReader(tt.body), "application/json")

			assert.Equal(t, tt.wantStatus, w.Code)

			resp := decode[dto.ErrorResponse](t, w)
			assert.Equal(t, tt.wantCode, resp.Error.Code)

			if tt.wantCode == dto.ErrorCodeValidation {
				assert.Equal(t, domain.MissingFieldsMessage, resp.Error.Message)
			}

			_, err := store.Get(t.Context(), ports.KeyQuotes)
			assert.True(t, domain.IsNotFound(err), "nothing persisted")
		})
	}
}

func TestQuoteHandler_ListQuotes_Paginates(t *testing.T) {
	engine := setupQuoteRouter(t, memory.New())

	w := serve(engine, http.MethodGet, "/api/v1/quotes?limit=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", w.Header().Get(HeaderTotalCount))

	first := decode[dto.Page[QuoteItem]](t, w)
	require.Len(t, first.Items, 2)
	assert.True(t, first.HasMore)
	assert.Equal(t, 0, first.Items[0].Position)
	assert.Equal(t, "Motivation", first.Items[0].Category)

	w = serve(engine, http.MethodGet, "/api/v1/quotes?limit=2&cursor="+first.NextCursor, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	second := decode[dto.Page[QuoteItem]](t, w)
	require.Len(t, second.Items, 1)
	assert.False(t, second.HasMore)
	assert.Equal(t, 2, second.Items[0].Position)
	assert.Equal(t, "Wisdom", second.Items[0].Category)
}

func TestQuoteHandler_ListQuotes_BadCursor(t *testing.T) {
	engine := setupQuoteRouter(t, memory.New())

	for _, cursor := range []string{"garbage", base64.URLEncoding.EncodeToString([]byte(`{"p":-2}`))} {
		w := serve(engine, http.MethodGet, "/api/v1/quotes?cursor="+cursor, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, cursor)
	}

	w := serve(engine, http.MethodGet, "/api/v1/quotes?limit=1000", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidation, decode[dto.ErrorResponse](t, w).Error.Code)
}

func TestQuoteHandler_RandomQuote(t *testing.T) {
	engine := setupQuoteRouter(t, memory.New())

	w := serve(engine, http.MethodGet, "/api/v1/quotes/random?category=Wisdom", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Simplicity is the soul of efficiency.", decode[QuoteResponse](t, w).Text)

	w = serve(engine, http.MethodGet, "/api/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Wisdom", decode[app.CategoryView](t, w).Selected)

	w = serve(engine, http.MethodGet, "/api/v1/session/last-quote", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Wisdom", decode[QuoteResponse](t, w).Category)

	w = serve(engine, http.MethodGet, "/api/v1/quotes/random?category=Nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, domain.NoQuotesMessage, decode[dto.ErrorResponse](t, w).Error.Message)
}

func TestQuoteHandler_LastQuote_NotShownYet(t *testing.T) {
	engine := setupQuoteRouter(t, memory.New())

	w := serve(engine, http.MethodGet, "/api/v1/session/last-quote", nil, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuoteHandler_SelectCategory(t *testing.T) {
	engine := setupQuoteRouter(t, memory.New())

	w := serve(engine, http.MethodPut, "/api/v1/categories/selected",
		strings.NewReader(`{"category":"Programming"}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[SelectionResponse](t, w)
	assert.Equal(t, "Programming", resp.Selected)
	require.NotNil(t, resp.Quote)
	assert.Equal(t, "Programming", resp.Quote.Category)

	w = serve(engine, http.MethodPut, "/api/v1/categories/selected",
		strings.NewReader(`{"category":"Empty"}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	resp = decode[SelectionResponse](t, w)
	assert.Nil(t, resp.Quote)
	assert.Equal(t, domain.NoQuotesMessage, resp.Message)

	w = serve(engine, http.MethodPut, "/api/v1/categories/selected",
		strings.NewReader(`{"category":" "}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[dto.ErrorResponse](t, w).Error.Details, "category")
}

func TestQuoteHandler_ExportThenImportDoubles(t *testing.T) {
	engine := setupQuoteRouter(t, memory.New())

	w := serve(engine, http.MethodGet, "/api/v1/quotes/export", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename=quotes.json`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "\n  {\n    \"text\"")

	exported := w.Body.Bytes()

	var form bytes.Buffer

	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "quotes.json")
	require.NoError(t, err)
	_, err = part.Write(exported)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w = serve(engine, http.MethodPost, "/api/v1/quotes/import", &form, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	imported := decode[ImportResponse](t, w)
	assert.Equal(t, 3, imported.Imported)
	assert.Equal(t, 6, imported.Total)
	assert.Equal(t, domain.ImportedMessage, imported.Message)
	assert.Equal(t, app.CategoryView{
		Categories: []string{domain.AllCategories, "Motivation", "Programming", "Wisdom"},
		Selected:   domain.AllCategories,
	}, imported.Categories)
	require.NotNil(t, imported.Shown)
	assert.NotEmpty(t, imported.Shown.Display)

	w = serve(engine, http.MethodPost, "/api/v1/quotes/import", bytes.NewReader(exported), "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, http.MethodGet, "/api/v1/quotes", nil, "")
	assert.Equal(t, "9", w.Header().Get(HeaderTotalCount))
}

func TestQuoteHandler_ImportInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not JSON", body: "quotes!"},
		{name: "object instead of array", body: `{"text":"a","category":"b"}`},
		{name: "null", body: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := setupQuoteRouter(t, memory.New())

			w := serve(engine, http.MethodPost, "/api/v1/quotes/import", strings.NewReader(tt.body), "application/json")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, domain.InvalidImportMessage, decode[dto.ErrorResponse](t, w).Error.Message)

			w = serve(engine, http.MethodGet, "/api/v1/quotes", nil, "")
			assert.Equal(t, "3", w.Header().Get(HeaderTotalCount))
		})
	}
}

func TestQuoteHandler_ImportMissingFormFile(t *testing.T) {
	engine := setupQuoteRouter(t, memory.New())

	var form bytes.Buffer

	mw := multipart.NewWriter(&form)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	w := serve(engine, http.MethodPost, "/api/v1/quotes/import", &form, mw.FormDataContentType())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeBadRequest, decode[dto.ErrorResponse](t, w).Error.Code)
}

func TestQuoteHandler_StoreFailure(t *testing.T) {
	store := mocks.NewMockKeyValueStore(t)
	store.EXPECT().Get(mock.Anything, ports.KeyQuotes).Return("", errors.New("disk I/O error"))

	engine := setupQuoteRouter(t, store)

	w := serve(engine, http.MethodGet, "/api/v1/categories", nil, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrorCodeInternal, decode[dto.ErrorResponse](t, w).Error.Code)
}

func TestQuoteHandler_GuardOnlyWrites(t *testing.T) {
	deny := func(c *gin.Context) {
		dto.AbortWithErrorCode(c, dto.ErrorCodeForbidden, "read only")
	}

	engine := setupQuoteRouter(t, memory.New(), deny)

	reads := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/quotes"},
		{http.MethodGet, "/api/v1/quotes/random"},
		{http.MethodGet, "/api/v1/quotes/export"},
		{http.MethodGet, "/api/v1/categories"},
	}
	for _, r := range reads {
		w := serve(engine, r.method, r.path, nil, "")
		assert.Equal(t, http.StatusOK, w.Code, r.path)
	}

	writes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/quotes"},
		{http.MethodPost, "/api/v1/quotes/import"},
		{http.MethodPut, "/api/v1/categories/selected"},
	}
	for _, r := range writes {
		w := serve(engine, r.method, r.path, strings.NewReader(`{}`), "application/json")
		assert.Equal(t, http.StatusForbidden, w.Code, r.path)
	}
}
