package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/wishlist/internal/auth"
	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/service"
	apperrors "github.com/utafrali/wishlist/pkg/errors"
	"github.com/utafrali/wishlist/pkg/health"
	"github.com/utafrali/wishlist/pkg/httputil"
	"github.com/utafrali/wishlist/pkg/middleware"
)

// ============================================================================
// Mock Repository
// ============================================================================

type mockItemRepo struct {
	mock.Mock
}

func (m *mockItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *mockItemRepo) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *mockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockItemRepo) Update(ctx context.Context, item *domain.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockItemRepo) SetBought(ctx context.Context, id string, bought bool) (*domain.Item, error) {
	args := m.Called(ctx, id, bought)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *mockItemRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// ============================================================================
// Helpers
// ============================================================================

const (
	testSecret = "handler-test-secret"
	testItemID = "0b8e7a3c-5d2f-4c61-9a0e-2f1d3c4b5a69"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testEnv struct {
	router http.Handler
	repo   *mockItemRepo
	token  string
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	logger := newTestLogger()
	repo := new(mockItemRepo)
	svc := service.NewItemService(repo, nil, nil, logger)

	jwtMgr := auth.NewJWTManager(testSecret, time.Hour)
	token, err := jwtMgr.GenerateToken("owner-1")
	require.NoError(t, err)

	router := NewRouter(svc, jwtMgr.Owner, health.NewHandler(time.Second), logger, RouterConfig{
		CORS: middleware.CORSConfig{AllowedOrigins: []string{"*"}},
	})

	return &testEnv{router: router, repo: repo, token: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+e.token)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeItem(t *testing.T, rec *httptest.ResponseRecorder) domain.Item {
	t.Helper()
	var envelope struct {
		Data domain.Item `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *httputil.ErrorResponse {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func sampleItem() *domain.Item {
	return &domain.Item{
		ID:        testItemID,
		Name:      "Mechanical keyboard",
		Link:      "https://shop.example.com/kb",
		Source:    "Amazon",
		Category:  "Electronics",
		Priority:  domain.PriorityHigh,
		Price:     "4999",
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

// ============================================================================
// Auth and transport
// ============================================================================

func TestItems_RequiresBearerToken(t *testing.T) {
	env := setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
	env.repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestItems_RejectsForeignToken(t *testing.T) {
	env := setupTest(t)
	other, err := auth.NewJWTManager("another-secret", time.Hour).GenerateToken("owner-1")
	require.NoError(t, err)
	env.token = other

	rec := env.do(t, http.MethodGet, "/api/v1/items", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreate_RequiresJSONContentType(t *testing.T) {
	env := setupTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", bytes.NewBufferString(`{"name":"x"}`))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Authorization", "Bearer "+env.token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", decodeError(t, rec).Code)
}

func TestHealthLive_NoAuth(t *testing.T) {
	env := setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// ============================================================================
// List
// ============================================================================

func TestList_Success(t *testing.T) {
	env := setupTest(t)
	env.repo.On("List", mock.Anything).Return([]domain.Item{*sampleItem()}, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/items", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "private, no-cache", rec.Header().Get("Cache-Control"))

	var envelope struct {
		Data []domain.Item `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, testItemID, envelope.Data[0].ID)
}

func TestList_EmptyIsArray(t *testing.T) {
	env := setupTest(t)
	env.repo.On("List", mock.Anything).Return(nil, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/items", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestList_RepositoryError(t *testing.T) {
	env := setupTest(t)
	env.repo.On("List", mock.Anything).Return(nil, assert.AnError)

	rec := env.do(t, http.MethodGet, "/api/v1/items", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, rec).Code)
}

// ============================================================================
// Create
// ============================================================================

func TestCreate_Success(t *testing.T) {
	env := setupTest(t)
	env.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Item")).Return(nil)

	rec := env.do(t, http.MethodPost, "/api/v1/items", map[string]any{
		"name":     "Desk lamp",
		"link":     "https://shop.example.com/lamp",
		"source":   "IKEA",
		"category": "Work",
		"price":    "1299",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	item := decodeItem(t, rec)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Desk lamp", item.Name)
	assert.Equal(t, "Work", item.Category)
	assert.Equal(t, domain.PriorityMedium, item.Priority)
	assert.False(t, item.Bought)
}

func TestCreate_ValidationError(t *testing.T) {
	env := setupTest(t)

	rec := env.do(t, http.MethodPost, "/api/v1/items", map[string]any{
		"link":  "not a url",
		"price": "-5",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
	assert.Contains(t, errResp.Fields, "name")
	assert.Contains(t, errResp.Fields, "link")
	assert.Contains(t, errResp.Fields, "price")
	env.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_MalformedJSON(t *testing.T) {
	env := setupTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+env.token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// Get / Update
// ============================================================================

func TestGet_InvalidID(t *testing.T) {
	env := setupTest(t)

	rec := env.do(t, http.MethodGet, "/api/v1/items/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PARAMETER", decodeError(t, rec).Code)
}

func TestGet_NotFound(t *testing.T) {
	env := setupTest(t)
	env.repo.On("GetByID", mock.Anything, testItemID).
		Return(nil, apperrors.NotFound("wishlist item", testItemID))

	rec := env.do(t, http.MethodGet, "/api/v1/items/"+testItemID, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
}

func TestUpdate_Success(t *testing.T) {
	env := setupTest(t)
	env.repo.On("GetByID", mock.Anything, testItemID).Return(sampleItem(), nil)
	env.repo.On("Update", mock.Anything, mock.MatchedBy(func(it *domain.Item) bool {
		return it.Price == "3999" && it.Name == "Mechanical keyboard"
	})).Return(nil)

	rec := env.do(t, http.MethodPatch, "/api/v1/items/"+testItemID, map[string]any{"price": "3999"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3999", decodeItem(t, rec).Price)
	env.repo.AssertExpectations(t)
}

func TestUpdate_EmptyPatch(t *testing.T) {
	env := setupTest(t)

	rec := env.do(t, http.MethodPatch, "/api/v1/items/"+testItemID, map[string]any{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
}

// ============================================================================
// SetBought / Delete
// ============================================================================

func TestSetBought_Success(t *testing.T) {
	env := setupTest(t)
	bought := sampleItem()
	bought.Bought = true
	env.repo.On("SetBought", mock.Anything, testItemID, true).Return(bought, nil)

	rec := env.do(t, http.MethodPut, "/api/v1/items/"+testItemID+"/bought", map[string]any{"bought": true})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeItem(t, rec).Bought)
}

func TestSetBought_MissingField(t *testing.T) {
	env := setupTest(t)

	rec := env.do(t, http.MethodPut, "/api/v1/items/"+testItemID+"/bought", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
	env.repo.AssertNotCalled(t, "SetBought", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_Success(t *testing.T) {
	env := setupTest(t)
	env.repo.On("Delete", mock.Anything, testItemID).Return(nil)

	rec := env.do(t, http.MethodDelete, "/api/v1/items/"+testItemID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"id":"`+testItemID+`","status":"deleted"}}`, rec.Body.String())
}

func TestDelete_NotFound(t *testing.T) {
	env := setupTest(t)
	env.repo.On("Delete", mock.Anything, testItemID).
		Return(apperrors.NotFound("wishlist item", testItemID))

	rec := env.do(t, http.MethodDelete, "/api/v1/items/"+testItemID, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
