package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"glossary-backend/domain/entities"
	"glossary-backend/infrastructure/config"
	"glossary-backend/infrastructure/persistence"
	"glossary-backend/infrastructure/persistence/memory"
	"glossary-backend/interfaces/http/rest"
)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Port:            3001,
		CosmosDatabase:  "glossary",
		CosmosContainer: "terms",
	}
	store := memory.NewTermStore(zap.NewNop())
	return rest.NewRouter(cfg, store, persistence.ModeMemory, nil, zap.NewNop()).Setup()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeTerm(t *testing.T, rec *httptest.ResponseRecorder) *entities.Term {
	t.Helper()
	var body struct {
		Term *entities.Term `json:"term"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Term)
	return body.Term
}

func TestTermLifecycle(t *testing.T) {
	api := newTestAPI(t)

	// Create
	rec := doJSON(t, api, http.MethodPost, "/api/terms", map[string]string{"name": "キャッシュ"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeTerm(t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "キャッシュ", created.Name)
	assert.Empty(t, created.Description)
	assert.False(t, created.IsAIGenerated)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	// Read back
	rec = doJSON(t, api, http.MethodGet, "/api/terms/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeTerm(t, rec)
	assert.Equal(t, created.ID, got.ID)

	// Update
	rec = doJSON(t, api, http.MethodPut, "/api/terms/"+created.ID, map[string]string{
		"description": "一時記憶領域",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeTerm(t, rec)
	assert.Equal(t, "一時記憶領域", updated.Description)
	assert.False(t, updated.IsAIGenerated)
	assert.GreaterOrEqual(t, updated.UpdatedAt, updated.CreatedAt)

	// Delete
	rec = doJSON(t, api, http.MethodDelete, "/api/terms/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Gone
	rec = doJSON(t, api, http.MethodGet, "/api/terms/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTerm_BlankName(t *testing.T) {
	api := newTestAPI(t)

	for _, body := range []map[string]string{
		{},
		{"name": ""},
		{"name": "   "},
	} {
		rec := doJSON(t, api, http.MethodPost, "/api/terms", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var errBody map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
		assert.Equal(t, "ValidationError", errBody["error"])
	}
}

func TestCreateTerm_DuplicateNameCaseInsensitive(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPost, "/api/terms", map[string]string{"name": "api"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, api, http.MethodPost, "/api/terms", map[string]string{"name": "API"})
	require.Equal(t, http.StatusConflict, rec.Code)

	var errBody map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, "Conflict", errBody["error"])

	// No second record.
	rec = doJSON(t, api, http.MethodGet, "/api/terms", nil)
	var list struct {
		Terms []*entities.Term `json:"terms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Terms, 1)
}

func TestCreateTerm_WithDescriptionAndCategory(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPost, "/api/terms", map[string]string{
		"name":        "DNS",
		"description": "名前解決の仕組み。",
		"category":    "ネットワーク",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeTerm(t, rec)
	assert.Equal(t, "名前解決の仕組み。", created.Description)
	assert.Equal(t, "ネットワーク", created.Category)
}

func TestUpdateTerm_Unknown(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPut, "/api/terms/no-such-id", map[string]string{"description": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTerm_Unknown(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodDelete, "/api/terms/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTerms_SortedAndEnveloped(t *testing.T) {
	api := newTestAPI(t)

	for _, name := range []string{"うさぎ", "あり"} {
		rec := doJSON(t, api, http.MethodPost, "/api/terms", map[string]string{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, api, http.MethodGet, "/api/terms", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Terms []*entities.Term `json:"terms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Terms, 2)
	assert.Equal(t, "あり", list.Terms[0].Name)
	assert.Equal(t, "うさぎ", list.Terms[1].Name)
}

func TestListTerms_EmptyStoreReturnsEmptyArray(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/terms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"terms":[]}`, rec.Body.String())
}

func TestSearchTerms(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodPost, "/api/terms", map[string]string{
		"name":        "キャッシュ",
		"description": "一時的なデータ保存領域",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, api, http.MethodPost, "/api/terms", map[string]string{"name": "DNS"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var list struct {
		Terms []*entities.Term `json:"terms"`
	}

	rec = doJSON(t, api, http.MethodGet, "/api/search?q=%E4%BF%9D%E5%AD%98", nil) // 保存
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Terms, 1)
	assert.Equal(t, "キャッシュ", list.Terms[0].Name)

	// Blank query returns the full list.
	rec = doJSON(t, api, http.MethodGet, "/api/search?q=", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Terms, 2)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["cosmos"])
	assert.Equal(t, "memory", body["mode"])
	assert.Equal(t, "glossary", body["db"])
	assert.Equal(t, "terms", body["container"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestUnknownRoute_StructuredNotFound(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"NotFound","message":"Route not found"}`, rec.Body.String())
}
