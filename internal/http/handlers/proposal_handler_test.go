package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposalflow/backend/internal/http/response"
	"github.com/proposalflow/backend/internal/logger"
	"github.com/proposalflow/backend/internal/mockapi"
	"github.com/proposalflow/backend/internal/service"
	"github.com/proposalflow/backend/internal/store"
)

func init() {
	logger.Silence()
}

// newProposalTestRouter поднимает хэндлер поверх засеянного мок-репозитория.
// Авторизация подменяется мидлварой, кладущей userID в контекст.
func newProposalTestRouter(t *testing.T, userID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := mockapi.New(store.NewProposalStore(), 0, 0, 1)
	require.NoError(t, repo.Seed())
	svc := service.NewProposalService(repo, repo, nil, 1)
	handler := NewProposalHandler(svc, nil)

	r := gin.New()
	if userID != uuid.Nil {
		r.Use(func(c *gin.Context) {
			c.Set("userID", userID)
			c.Next()
		})
	}
	r.GET("/proposals", handler.List)
	r.POST("/proposals", handler.Create)
	r.GET("/proposals/stats", handler.Stats)
	r.GET("/proposals/:id", handler.Get)
	r.DELETE("/proposals/:id", handler.Delete)
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var envelope response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestProposalHandler_List_Success(t *testing.T) {
	r := newProposalTestRouter(t, mockapi.FixtureUserAlex)

	req, _ := http.NewRequest("GET", "/proposals?page=1&page_size=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)
	assert.Nil(t, envelope.Error)

	page, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5), page["total_count"])
	assert.Len(t, page["proposals"], 2)
}

func TestProposalHandler_List_BadFilterValue(t *testing.T) {
	r := newProposalTestRouter(t, mockapi.FixtureUserAlex)

	req, _ := http.NewRequest("GET", "/proposals?win_min=lots", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "BAD_REQUEST", envelope.Error.Code)
}

func TestProposalHandler_Get_InvalidUUID(t *testing.T) {
	r := newProposalTestRouter(t, mockapi.FixtureUserAlex)

	req, _ := http.NewRequest("GET", "/proposals/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_Get_NotFoundEnvelope(t *testing.T) {
	r := newProposalTestRouter(t, mockapi.FixtureUserAlex)

	req, _ := http.NewRequest("GET", "/proposals/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestProposalHandler_Create_Unauthorized(t *testing.T) {
	r := newProposalTestRouter(t, uuid.Nil)

	body := bytes.NewBufferString(`{"title":"New Proposal","client_name":"Acme"}`)
	req, _ := http.NewRequest("POST", "/proposals", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProposalHandler_Create_Success(t *testing.T) {
	r := newProposalTestRouter(t, mockapi.FixtureUserAlex)

	body := bytes.NewBufferString(`{"title":"Logistics Platform for ShipFast","client_name":"ShipFast LLC"}`)
	req, _ := http.NewRequest("POST", "/proposals", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)

	proposal, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Logistics Platform for ShipFast", proposal["title"])
	assert.Equal(t, "draft", proposal["status"])
	assert.Len(t, proposal["sections"], 5)
}

func TestProposalHandler_Create_MissingTitle(t *testing.T) {
	r := newProposalTestRouter(t, mockapi.FixtureUserAlex)

	body := bytes.NewBufferString(`{"client_name":"Acme"}`)
	req, _ := http.NewRequest("POST", "/proposals", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_Delete_NonOwnerForbidden(t *testing.T) {
	r := newProposalTestRouter(t, mockapi.FixtureUserSarah)

	req, _ := http.NewRequest("DELETE", "/proposals/"+mockapi.FixtureProposalCRM.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "FORBIDDEN", envelope.Error.Code)
}

func TestProposalHandler_Stats(t *testing.T) {
	r := newProposalTestRouter(t, mockapi.FixtureUserAlex)

	req, _ := http.NewRequest("GET", "/proposals/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)

	stats, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5), stats["total_proposals"])
	assert.Equal(t, float64(3), stats["active_proposals"])
}
